package fakeuserrepo

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-account-service/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

// FakeUserRepo keeps users in memory. Records are copied in and out so callers never share
// state with the store.
type FakeUserRepo struct {
	users    map[string]*users.User
	emailIds map[string]string // email to user id
	tokenIds map[string]string // verification token to user id
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[string]*users.User),
		emailIds: make(map[string]string),
		tokenIds: make(map[string]string),
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, taken := ur.emailIds[user.Email]; taken {
		return users.ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	ur.put(user.Clone())
	return nil
}

func (ur *FakeUserRepo) Update(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	existing, ok := ur.users[user.ID]
	if !ok {
		return users.ErrNotFound
	}
	if ownerID, taken := ur.emailIds[user.Email]; taken && ownerID != user.ID {
		return users.ErrDuplicateEmail
	}
	ur.remove(existing)
	ur.put(user.Clone())
	return nil
}

func (ur *FakeUserRepo) Delete(_ context.Context, id string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	existing, ok := ur.users[id]
	if !ok {
		return users.ErrNotFound
	}
	ur.remove(existing)
	return nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return user.Clone(), nil
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[email]
	if !ok {
		return nil, users.ErrNotFound
	}
	return ur.users[id].Clone(), nil
}

func (ur *FakeUserRepo) GetByVerificationToken(_ context.Context, token string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.tokenIds[token]
	if token == "" || !ok {
		return nil, users.ErrNotFound
	}
	return ur.users[id].Clone(), nil
}

// Len returns the number of stored users.
func (ur *FakeUserRepo) Len() int {
	ur.lock.RLock()
	defer ur.lock.RUnlock()
	return len(ur.users)
}

// put and remove keep the indexes in step; callers hold the write lock.
func (ur *FakeUserRepo) put(user *users.User) {
	ur.users[user.ID] = user
	ur.emailIds[user.Email] = user.ID
	if user.VerificationToken != "" {
		ur.tokenIds[user.VerificationToken] = user.ID
	}
}

func (ur *FakeUserRepo) remove(user *users.User) {
	delete(ur.users, user.ID)
	delete(ur.emailIds, user.Email)
	if user.VerificationToken != "" {
		delete(ur.tokenIds, user.VerificationToken)
	}
}
