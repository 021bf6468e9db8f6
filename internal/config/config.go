package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	StoreConfig
	MailConfig
	RateLimitConfig
	MessagingConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetBaseURL() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type SecurityConfig interface {
	GetJWTSecret() string
	GetSessionTTL() time.Duration
	GetAPIKey() string
	GetRequireAPIKey() bool
	GetRequireEmailVerification() bool
	GetVerificationTokenTTL() time.Duration
	GetMinPasswordEntropy() float64
	GetEnableSanitization() bool
}

type StoreConfig interface {
	GetStoreDriver() string
	GetDatabaseURL() string
	GetDatabaseName() string
}

type MailConfig interface {
	GetMailDriver() string
	GetMailFrom() string
	GetSmtpHost() string
	GetSmtpPort() int
	GetSmtpAccount() string
	GetSmtpPassword() string
	GetSendGridAPIKey() string
}

type RateLimitConfig interface {
	GetEnableRateLimiting() bool
	GetRateLimitWindow() time.Duration
	GetRateLimitMax() int
	GetRedisURL() string
}

type MessagingConfig interface {
	GetNatsURL() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Store
	Mail
	RateLimit
	Messaging
}

var _ Config = mainConfig{}

// New loads a .env file when one is present and returns the environment backed configuration.
func New() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env file")
	}
	return mainConfig{}
}

// IsProduction reports whether the configured environment is production.
func IsProduction(c EnvConfig) bool {
	return c.GetEnv() == ProdEnv
}

// Validate rejects configurations that cannot run safely.
func Validate(c Config) error {
	if IsProduction(c) && c.GetJWTSecret() == "" {
		return errors.New("[config.Validate] JWT_SECRET is required in production")
	}
	if c.GetRequireAPIKey() && c.GetAPIKey() == "" {
		return errors.New("[config.Validate] API_KEY is required when REQUIRE_API_KEY is enabled")
	}
	if c.GetEnableRateLimiting() && c.GetRateLimitWindow() <= 0 {
		return errors.New("[config.Validate] RATE_LIMIT_WINDOW must be positive")
	}
	switch c.GetStoreDriver() {
	case StoreMemory, StoreSQLite:
	case StoreMongo, StorePostgres:
		if c.GetDatabaseURL() == "" {
			return errors.New("[config.Validate] DATABASE_URL is required for store driver " + c.GetStoreDriver())
		}
	default:
		return errors.New("[config.Validate] unknown STORE_DRIVER " + c.GetStoreDriver())
	}
	switch c.GetMailDriver() {
	case MailLog, MailSMTP, MailSendGrid:
	default:
		return errors.New("[config.Validate] unknown MAIL_DRIVER " + c.GetMailDriver())
	}
	return nil
}
