// Package repotest holds the behaviour every users.UserRepo implementation must share.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-account-service/users"
	"github.com/stretchr/testify/require"
)

// RunUserRepoContract runs the shared store checks against repos built by newRepo.
func RunUserRepoContract(t *testing.T, newRepo func(t *testing.T) users.UserRepo) {
	t.Helper()
	ctx := context.Background()

	newUser := func(email string) *users.User {
		now := time.Now().UTC().Truncate(time.Second)
		return &users.User{
			Name:         "Ann",
			Email:        email,
			PasswordHash: "hash",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	t.Run("create assigns id and reads back", func(t *testing.T) {
		repo := newRepo(t)
		user := newUser("ann@example.com")
		require.NoError(t, repo.Create(ctx, user))
		require.NotEmpty(t, user.ID)

		byID, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, "ann@example.com", byID.Email)
		require.Equal(t, "hash", byID.PasswordHash)

		byEmail, err := repo.GetByEmail(ctx, "ann@example.com")
		require.NoError(t, err)
		require.Equal(t, user.ID, byEmail.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, newUser("ann@example.com")))
		require.ErrorIs(t, repo.Create(ctx, newUser("ann@example.com")), users.ErrDuplicateEmail)
	})

	t.Run("missing records", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByID(ctx, "000000000000000000000000")
		require.ErrorIs(t, err, users.ErrNotFound)
		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, users.ErrNotFound)
		_, err = repo.GetByVerificationToken(ctx, "")
		require.ErrorIs(t, err, users.ErrNotFound)
		require.ErrorIs(t, repo.Delete(ctx, "000000000000000000000000"), users.ErrNotFound)
		require.ErrorIs(t, repo.Update(ctx, &users.User{ID: "000000000000000000000000", Email: "x@example.com"}), users.ErrNotFound)
	})

	t.Run("update changes email and verification", func(t *testing.T) {
		repo := newRepo(t)
		user := newUser("ann@example.com")
		user.VerificationToken = "tok-1"
		require.NoError(t, repo.Create(ctx, user))

		found, err := repo.GetByVerificationToken(ctx, "tok-1")
		require.NoError(t, err)
		require.Equal(t, user.ID, found.ID)

		found.Email = "ann2@example.com"
		found.Verified = true
		found.VerificationToken = ""
		require.NoError(t, repo.Update(ctx, found))

		_, err = repo.GetByEmail(ctx, "ann@example.com")
		require.ErrorIs(t, err, users.ErrNotFound)
		_, err = repo.GetByVerificationToken(ctx, "tok-1")
		require.ErrorIs(t, err, users.ErrNotFound)

		updated, err := repo.GetByEmail(ctx, "ann2@example.com")
		require.NoError(t, err)
		require.True(t, updated.Verified)
	})

	t.Run("update onto a taken email", func(t *testing.T) {
		repo := newRepo(t)
		ann := newUser("ann@example.com")
		bob := newUser("bob@example.com")
		require.NoError(t, repo.Create(ctx, ann))
		require.NoError(t, repo.Create(ctx, bob))

		bob.Email = "ann@example.com"
		require.ErrorIs(t, repo.Update(ctx, bob), users.ErrDuplicateEmail)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		user := newUser("ann@example.com")
		require.NoError(t, repo.Create(ctx, user))
		require.NoError(t, repo.Delete(ctx, user.ID))

		_, err := repo.GetByID(ctx, user.ID)
		require.ErrorIs(t, err, users.ErrNotFound)
		require.ErrorIs(t, repo.Delete(ctx, user.ID), users.ErrNotFound)

		// the email is free again
		require.NoError(t, repo.Create(ctx, newUser("ann@example.com")))
	})
}
