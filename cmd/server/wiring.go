package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/go-account-service/accounts"
	"github.com/jrsteele09/go-account-service/events"
	"github.com/jrsteele09/go-account-service/internal/config"
	"github.com/jrsteele09/go-account-service/mail"
	"github.com/jrsteele09/go-account-service/ratelimit"
	"github.com/jrsteele09/go-account-service/token"
	"github.com/jrsteele09/go-account-service/users"
	"github.com/jrsteele09/go-account-service/users/mongorepo"
	fakeuserrepo "github.com/jrsteele09/go-account-service/users/repofake"
	"github.com/jrsteele09/go-account-service/users/sqlrepo"
	"github.com/rs/zerolog/log"
)

const limiterCleanupInterval = 10 * time.Minute

// closers runs shutdown hooks in reverse order of registration.
type closers []func()

func (c *closers) add(fn func()) {
	if fn != nil {
		*c = append(*c, fn)
	}
}

func (c closers) close() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func openUserRepo(ctx context.Context, c config.StoreConfig) (users.UserRepo, func(), error) {
	switch driver := c.GetStoreDriver(); driver {
	case config.StoreMemory:
		log.Warn().Msg("Using the in-memory user store, accounts are lost on restart")
		return fakeuserrepo.NewFakeUserRepo(), nil, nil

	case config.StoreMongo:
		client, err := mongorepo.Connect(ctx, c.GetDatabaseURL())
		if err != nil {
			return nil, nil, err
		}
		disconnect := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Err(err).Msg("mongo disconnect failed")
			}
		}
		repo, err := mongorepo.New(ctx, client.Database(c.GetDatabaseName()))
		if err != nil {
			disconnect()
			return nil, nil, err
		}
		return repo, disconnect, nil

	case config.StorePostgres, config.StoreSQLite:
		dsn := c.GetDatabaseURL()
		if dsn == "" && driver == config.StoreSQLite {
			dsn = c.GetDatabaseName() + ".db"
		}
		db, err := sqlrepo.Open(driver, dsn)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("[openUserRepo] %w", err)
		}
		closeDB := func() {
			if err := sqlDB.Close(); err != nil {
				log.Err(err).Msg("database close failed")
			}
		}
		repo, err := sqlrepo.New(db)
		if err != nil {
			closeDB()
			return nil, nil, err
		}
		return repo, closeDB, nil

	default:
		return nil, nil, fmt.Errorf("[openUserRepo] unknown store driver %q", driver)
	}
}

func newMailer(c config.Config) (mail.Sender, error) {
	switch driver := c.GetMailDriver(); driver {
	case config.MailLog:
		return mail.LogSender{}, nil
	case config.MailSMTP:
		return mail.NewSMTPSender(c.GetSmtpHost(), c.GetSmtpPort(), c.GetSmtpAccount(), c.GetSmtpPassword(), c.GetMailFrom()), nil
	case config.MailSendGrid:
		return mail.NewSendGridSender(c.GetSendGridAPIKey(), c.GetAppName(), c.GetMailFrom())
	default:
		return nil, fmt.Errorf("[newMailer] unknown mail driver %q", driver)
	}
}

func newPublisher(c config.Config) (events.Publisher, error) {
	if c.GetNatsURL() == "" {
		return events.NopPublisher{}, nil
	}
	return events.NewNATSPublisher(c.GetNatsURL(), c.GetAppName())
}

// newLimiter returns a nil limiter when rate limiting is switched off.
func newLimiter(ctx context.Context, c config.RateLimitConfig) (ratelimit.Limiter, func(), error) {
	if !c.GetEnableRateLimiting() {
		return nil, nil, nil
	}
	if c.GetRedisURL() != "" {
		client, err := ratelimit.NewRedisClient(ctx, c.GetRedisURL())
		if err != nil {
			return nil, nil, err
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				log.Err(err).Msg("redis close failed")
			}
		}
		return ratelimit.NewRedis(client, c.GetRateLimitMax(), c.GetRateLimitWindow()), closeClient, nil
	}

	memory := ratelimit.NewMemory(c.GetRateLimitMax(), c.GetRateLimitWindow())
	runCtx, cancel := context.WithCancel(ctx)
	go memory.Run(runCtx, limiterCleanupInterval)
	return memory, cancel, nil
}

// newIssuer signs sessions with JWT_SECRET. Outside production a missing secret is replaced by
// a random one, so sessions do not survive a restart.
func newIssuer(c config.Config) (*token.Issuer, error) {
	secret := c.GetJWTSecret()
	if secret == "" {
		if config.IsProduction(c) {
			return nil, fmt.Errorf("[newIssuer] JWT_SECRET is required in production")
		}
		var err error
		if secret, err = token.GenerateSecret(); err != nil {
			return nil, err
		}
		log.Warn().Msg("JWT_SECRET not set, using a generated secret")
	}
	signer, err := token.NewHMACSigner(secret)
	if err != nil {
		return nil, err
	}
	return token.NewIssuer(signer, token.WithTTL(c.GetSessionTTL()))
}

func settingsFrom(c config.Config) accounts.Settings {
	return accounts.Settings{
		AppName:                  c.GetAppName(),
		BaseURL:                  c.GetBaseURL(),
		RequireEmailVerification: c.GetRequireEmailVerification(),
		VerificationTokenTTL:     c.GetVerificationTokenTTL(),
		MinPasswordEntropy:       c.GetMinPasswordEntropy(),
	}
}
