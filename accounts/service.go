// Package accounts implements registration, authentication and self-service account management.
package accounts

import (
	"context"
	"errors"
	"html"
	"time"

	apperrors "github.com/jrsteele09/go-account-service/internal/errors"
	"github.com/jrsteele09/go-account-service/events"
	"github.com/jrsteele09/go-account-service/mail"
	"github.com/jrsteele09/go-account-service/users"
	"github.com/jrsteele09/go-account-service/verification"
	"github.com/rs/zerolog/log"
)

// Settings are the behaviour switches the service reads from configuration.
type Settings struct {
	AppName                  string
	BaseURL                  string
	RequireEmailVerification bool
	VerificationTokenTTL     time.Duration // zero never expires
	MinPasswordEntropy       float64       // zero checks length only
}

// TokenIssuer mints session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Identity is the public view of a user returned to callers.
type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Session is an identity together with the session token issued for it.
type Session struct {
	Identity Identity
	Token    string
}

type Service struct {
	users     users.UserRepo
	tokens    TokenIssuer
	mailer    mail.Sender
	publisher events.Publisher
	settings  Settings
	nowTime   func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithMailer sets the sender used for verification email. Defaults to the log sender.
func WithMailer(mailer mail.Sender) ServiceOption {
	return func(s *Service) {
		s.mailer = mailer
	}
}

// WithPublisher sets where account events are published. Defaults to discarding them.
func WithPublisher(publisher events.Publisher) ServiceOption {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func NewService(repo users.UserRepo, tokens TokenIssuer, settings Settings, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] Token issuer is required")
	}
	s := &Service{
		users:     repo,
		tokens:    tokens,
		mailer:    mail.LogSender{},
		publisher: events.NopPublisher{},
		settings:  settings,
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func identityOf(user *users.User) Identity {
	return Identity{UserID: user.ID, Name: user.Name, Email: user.Email}
}

func (s *Service) newSession(user *users.User) (*Session, error) {
	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &Session{Identity: identityOf(user), Token: tok}, nil
}

// sendVerification mails the verification link. Delivery problems are logged and never fail the
// calling operation.
func (s *Service) sendVerification(ctx context.Context, user *users.User) {
	link := verification.Link(s.settings.BaseURL, user.VerificationToken)
	// names arrive HTML-escaped when sanitization is on; the template escapes on its own
	msg, err := verification.NewMessage(s.settings.AppName, html.UnescapeString(user.Name), user.Email, link)
	if err != nil {
		log.Error().Err(err).Str("userId", user.ID).Msg("build verification email")
		return
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Error().Err(err).Str("userId", user.ID).Msg("send verification email")
	}
}

func (s *Service) publish(ctx context.Context, subject string, user *users.User) {
	event := events.Event{UserID: user.ID, Email: user.Email, OccurredAt: s.nowTime().UTC()}
	if err := s.publisher.Publish(ctx, subject, event); err != nil {
		log.Warn().Err(err).Str("subject", subject).Str("userId", user.ID).Msg("publish account event")
	}
}

// getUser loads id, mapping a missing record to a 404.
func (s *Service) getUser(ctx context.Context, id string) (*users.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, users.ErrNotFound) {
		return nil, apperrors.NotFound(MsgUserNotFound)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}
