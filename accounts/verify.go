package accounts

import (
	"context"
	"errors"

	apperrors "github.com/jrsteele09/go-account-service/internal/errors"
	"github.com/jrsteele09/go-account-service/events"
	"github.com/jrsteele09/go-account-service/users"
	"github.com/jrsteele09/go-account-service/verification"
)

// VerifyEmail consumes a verification token and marks its account verified.
func (s *Service) VerifyEmail(ctx context.Context, tok string) error {
	if tok == "" {
		return apperrors.Validation(MsgInvalidVerification)
	}
	user, err := s.users.GetByVerificationToken(ctx, tok)
	if errors.Is(err, users.ErrNotFound) {
		return apperrors.Validation(MsgInvalidVerification)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	if verification.Expired(tok, s.settings.VerificationTokenTTL, s.nowTime()) {
		return apperrors.Validation(MsgInvalidVerification)
	}

	user.Verified = true
	user.VerificationToken = ""
	user.UpdatedAt = s.nowTime().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return apperrors.Validation(MsgInvalidVerification)
		}
		return apperrors.Internal(err)
	}
	s.publish(ctx, events.SubjectUserVerified, user)
	return nil
}

// ResendVerification replaces the pending token of an unverified account and mails it again.
// Unknown and already verified emails succeed silently.
func (s *Service) ResendVerification(ctx context.Context, in ResendVerificationInput) error {
	if in.Email == "" {
		return apperrors.Validation(MsgMissingFields)
	}
	if err := checkEmail(in.Email); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, users.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	if user.Verified {
		return nil
	}

	now := s.nowTime().UTC()
	if user.VerificationToken, err = verification.NewToken(now); err != nil {
		return apperrors.Internal(err)
	}
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.Internal(err)
	}
	s.sendVerification(ctx, user)
	return nil
}
