package auth

import (
	"time"

	env "github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
)

// EnvConfig is an env-backed Config implementation. The signing secret is an
// explicit configuration value handed to the token issuer at construction,
// which keeps tests deterministic with a fixed secret.
type EnvConfig struct {
	SigningKey      string        `env:"AUTH_SIGNING_KEY"`
	TokenExpiration int           `env:"AUTH_TOKEN_EXPIRATION" envDefault:"72"`
	Issuer          string        `env:"AUTH_ISSUER" envDefault:"go-login"`
	Audience        []string      `env:"AUTH_AUDIENCE" envSeparator:","`
	StoreTimeout    time.Duration `env:"AUTH_STORE_TIMEOUT" envDefault:"5s"`
	DSN             string        `env:"AUTH_DSN" envDefault:"file:login.db?cache=shared"`
}

// LoadConfig parses the environment once at startup and validates the
// result. A missing signing key is reported here, before any request runs.
func LoadConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces startup invariants.
func (c *EnvConfig) Validate() error {
	if c.SigningKey == "" {
		return ErrSigningUnavailable
	}

	return validation.ValidateStruct(c,
		validation.Field(&c.TokenExpiration, validation.Required, validation.Min(1)),
		validation.Field(&c.StoreTimeout, validation.Required),
		validation.Field(&c.DSN, validation.Required),
	)
}

func (c *EnvConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *EnvConfig) GetTokenExpiration() int {
	return c.TokenExpiration
}

func (c *EnvConfig) GetIssuer() string {
	return c.Issuer
}

func (c *EnvConfig) GetAudience() []string {
	return c.Audience
}

func (c *EnvConfig) GetStoreTimeout() time.Duration {
	return c.StoreTimeout
}

var _ Config = (*EnvConfig)(nil)
