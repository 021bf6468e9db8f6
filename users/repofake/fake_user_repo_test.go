package fakeuserrepo_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/go-account-service/users"
	fakeuserrepo "github.com/jrsteele09/go-account-service/users/repofake"
	"github.com/jrsteele09/go-account-service/users/repotest"
	"github.com/stretchr/testify/require"
)

func TestFakeUserRepoContract(t *testing.T) {
	repotest.RunUserRepoContract(t, func(t *testing.T) users.UserRepo {
		return fakeuserrepo.NewFakeUserRepo()
	})
}

func TestConcurrentCreateSameEmail(t *testing.T) {
	repo := fakeuserrepo.NewFakeUserRepo()
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(context.Background(), &users.User{Name: fmt.Sprintf("user-%d", i), Email: "race@example.com"})
			switch {
			case err == nil:
				succeeded.Add(1)
			case err == users.ErrDuplicateEmail:
				conflicts.Add(1)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, int32(1), succeeded.Load())
	require.Equal(t, int32(19), conflicts.Load())
	require.Equal(t, 1, repo.Len())
}

func TestReturnedUsersAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := fakeuserrepo.NewFakeUserRepo()
	user := &users.User{Name: "Ann", Email: "ann@example.com"}
	require.NoError(t, repo.Create(ctx, user))

	user.Name = "changed after create"
	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Ann", found.Name)

	found.Name = "changed after read"
	again, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "Ann", again.Name)
}
