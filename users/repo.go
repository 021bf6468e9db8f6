package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepo persists user records. Implementations enforce email uniqueness themselves and
// report a clash as ErrDuplicateEmail, so concurrent registrations cannot both succeed.
type UserRepo interface {
	// Create assigns an ID when user.ID is empty and stores the record.
	Create(ctx context.Context, user *User) error
	// Update replaces the stored record with the same ID.
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByVerificationToken(ctx context.Context, token string) (*User, error)
}
