package config

import "time"

const defaultSessionTTL = 30 * 24 * time.Hour

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "")
}

func (Security) GetSessionTTL() time.Duration {
	return GetEnvAsDuration("SESSION_TTL", defaultSessionTTL)
}

func (Security) GetAPIKey() string {
	return GetEnv("API_KEY", "")
}

func (Security) GetRequireAPIKey() bool {
	return GetEnvAsBool("REQUIRE_API_KEY", false)
}

func (Security) GetRequireEmailVerification() bool {
	return GetEnvAsBool("REQUIRE_EMAIL_VERIFICATION", false)
}

// GetVerificationTokenTTL of zero means verification tokens never expire.
func (Security) GetVerificationTokenTTL() time.Duration {
	return GetEnvAsDuration("VERIFICATION_TOKEN_TTL", 0)
}

// GetMinPasswordEntropy of zero disables the entropy check, leaving only the length rule.
func (Security) GetMinPasswordEntropy() float64 {
	return GetEnvAsFloat("MIN_PASSWORD_ENTROPY", 0)
}

func (Security) GetEnableSanitization() bool {
	return GetEnvAsBool("ENABLE_SANITIZATION", true)
}
