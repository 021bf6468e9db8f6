package accounts

import (
	"context"
	"errors"

	apperrors "github.com/jrsteele09/go-account-service/internal/errors"
	"github.com/jrsteele09/go-account-service/events"
	"github.com/jrsteele09/go-account-service/users"
	"github.com/rs/zerolog/log"
)

func (s *Service) Profile(ctx context.Context, userID string) (*Identity, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	identity := identityOf(user)
	return &identity, nil
}

// UpdateProfile changes the name and/or email of userID. Setting a field to its current value is
// rejected rather than treated as a no-op.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*Identity, error) {
	if in.Name == "" && in.Email == "" {
		return nil, apperrors.Validation(MsgNothingToUpdate)
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		if in.Name == user.Name {
			return nil, apperrors.Validation(MsgSameName)
		}
		user.Name = in.Name
	}
	if in.Email != "" {
		if err := checkEmail(in.Email); err != nil {
			return nil, err
		}
		if in.Email == user.Email {
			return nil, apperrors.Validation(MsgSameEmail)
		}
		_, err := s.users.GetByEmail(ctx, in.Email)
		switch {
		case err == nil:
			return nil, apperrors.Conflict(MsgEmailTaken)
		case !errors.Is(err, users.ErrNotFound):
			return nil, apperrors.Internal(err)
		}
		user.Email = in.Email
	}

	user.UpdatedAt = s.nowTime().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, users.ErrDuplicateEmail):
			return nil, apperrors.Conflict(MsgEmailTaken)
		case errors.Is(err, users.ErrNotFound):
			return nil, apperrors.NotFound(MsgUserNotFound)
		}
		return nil, apperrors.Internal(err)
	}
	identity := identityOf(user)
	return &identity, nil
}

// ChangePassword replaces the password of userID after checking the old one.
func (s *Service) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	if err := requireFields(in); err != nil {
		return err
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(in.OldPassword) {
		return apperrors.Unauthorized(MsgOldPasswordIncorrect)
	}
	if in.NewPassword == in.OldPassword {
		return apperrors.Validation(MsgSamePassword)
	}
	if err := users.ValidatePasswordStrength(in.NewPassword, s.settings.MinPasswordEntropy); err != nil {
		return apperrors.Validation(passwordMessage(err)).WithCause(err)
	}
	if in.NewPassword != in.ConfirmPassword {
		return apperrors.Validation(MsgNewPasswordMismatch)
	}

	hash, err := users.HashPassword(in.NewPassword)
	if err != nil {
		return apperrors.Internal(err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.nowTime().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return apperrors.NotFound(MsgUserNotFound)
		}
		return apperrors.Internal(err)
	}
	log.Info().Str("userId", user.ID).Msg("password changed")
	return nil
}

func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return apperrors.NotFound(MsgUserNotFound)
		}
		return apperrors.Internal(err)
	}
	log.Info().Str("userId", userID).Msg("account deleted")
	s.publish(ctx, events.SubjectUserDeleted, user)
	return nil
}
