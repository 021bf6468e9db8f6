package accounts

import (
	"context"
	"errors"

	apperrors "github.com/jrsteele09/go-account-service/internal/errors"
	"github.com/jrsteele09/go-account-service/users"
)

// Login checks credentials and issues a session. Unknown emails and wrong passwords get the same
// answer so the response does not reveal which accounts exist.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := requireFields(in); err != nil {
		return nil, err
	}
	if err := checkEmail(in.Email); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, users.ErrNotFound) {
		return nil, apperrors.Unauthorized(MsgInvalidCredentials).WithCause(apperrors.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !user.CheckPassword(in.Password) {
		return nil, apperrors.Unauthorized(MsgInvalidCredentials).WithCause(apperrors.ErrInvalidCredentials)
	}
	if s.settings.RequireEmailVerification && !user.Verified {
		return nil, apperrors.Unauthorized(MsgEmailNotVerified).WithCause(apperrors.ErrUserNotVerified)
	}

	return s.newSession(user)
}
