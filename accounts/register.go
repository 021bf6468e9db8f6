package accounts

import (
	"context"
	"errors"

	apperrors "github.com/jrsteele09/go-account-service/internal/errors"
	"github.com/jrsteele09/go-account-service/events"
	"github.com/jrsteele09/go-account-service/users"
	"github.com/jrsteele09/go-account-service/verification"
	"github.com/rs/zerolog/log"
)

// Register creates an account and signs the new user in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := requireFields(in); err != nil {
		return nil, err
	}
	if err := checkEmail(in.Email); err != nil {
		return nil, err
	}

	_, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperrors.Conflict(MsgEmailTaken)
	case !errors.Is(err, users.ErrNotFound):
		return nil, apperrors.Internal(err)
	}

	if err := users.ValidatePasswordStrength(in.Password, s.settings.MinPasswordEntropy); err != nil {
		return nil, apperrors.Validation(passwordMessage(err)).WithCause(err)
	}
	if in.Password != in.ConfirmPassword {
		return nil, apperrors.Validation(MsgPasswordMismatch)
	}

	hash, err := users.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	now := s.nowTime().UTC()
	user := &users.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Verified:     !s.settings.RequireEmailVerification,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if s.settings.RequireEmailVerification {
		if user.VerificationToken, err = verification.NewToken(now); err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			return nil, apperrors.Conflict(MsgEmailTaken)
		}
		return nil, apperrors.Internal(err)
	}
	log.Info().Str("userId", user.ID).Msg("account created")

	if s.settings.RequireEmailVerification {
		s.sendVerification(ctx, user)
	}
	s.publish(ctx, events.SubjectUserRegistered, user)

	return s.newSession(user)
}

// passwordMessage keeps the length rules' wording and gives entropy failures a stable prefix.
func passwordMessage(err error) string {
	if errors.Is(err, users.ErrPasswordTooShort) || errors.Is(err, users.ErrPasswordTooLong) {
		return err.Error()
	}
	return "Password is too weak: " + err.Error()
}
