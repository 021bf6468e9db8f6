package config

import "time"

type RateLimit struct{}

var _ RateLimitConfig = RateLimit{}

func (RateLimit) GetEnableRateLimiting() bool {
	return GetEnvAsBool("ENABLE_RATE_LIMITING", true)
}

func (RateLimit) GetRateLimitWindow() time.Duration {
	return GetEnvAsDuration("RATE_LIMIT_WINDOW", time.Hour)
}

// GetRateLimitMax picks RATE_LIMIT_PROD or RATE_LIMIT_DEV depending on ENV.
func (RateLimit) GetRateLimitMax() int {
	if (EnvVars{}).GetEnv() == ProdEnv {
		return GetEnvAsInt("RATE_LIMIT_PROD", 100)
	}
	return GetEnvAsInt("RATE_LIMIT_DEV", 1000)
}

// GetRedisURL selects the shared redis limiter when set, otherwise limits are kept in memory.
func (RateLimit) GetRedisURL() string {
	return GetEnv("REDIS_URL", "")
}

type Messaging struct{}

var _ MessagingConfig = Messaging{}

// GetNatsURL enables account event publishing when set.
func (Messaging) GetNatsURL() string {
	return GetEnv("NATS_URL", "")
}
