package config

import (
	"errors"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: built-in authentication modes
//   - guard.go: route guard and role verifier
//   - http.go: HTTP server and upstream proxy
//   - redis.go: session storage for the built-in auth modes
//   - client.go: chatctl client runtime
//   - observability.go: logging and metrics
type AppConfig struct {
	// IsDev controls development mode behavior.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth          AuthConfig
	Guard         GuardConfig
	HTTP          HTTPConfig
	Redis         RedisConfig `envPrefix:"REDIS_"`
	Client        ClientConfig
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Auth.Sanitize()
	c.Redis.Sanitize()
	c.Client.Sanitize()
	c.Observability.Sanitize()

	// The built-in auth modes serve their own introspection endpoint.
	c.Guard.Sanitize(c.defaultIntrospectionURL())

	c.detectDevMode()
}

func (c *AppConfig) defaultIntrospectionURL() string {
	if !c.Auth.Mode.Builtin() || c.HTTP.BaseURL == "" {
		return ""
	}
	return c.HTTP.BaseURL + BuiltinIntrospectionPath
}

// detectDevMode checks NODE_ENV as a fallback for DEV.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// Validate reports settings that cannot work together. Call after Sanitize.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Guard.IntrospectionURL == "" {
		errs = append(errs, errors.New("GUARD_INTROSPECTION_URL is required in external auth mode"))
	}
	if c.Auth.Mode == AuthModeOAuth {
		if c.Auth.OAuth.ClientID == "" {
			errs = append(errs, errors.New("OAUTH_CLIENT_ID is required when AUTH_MODE=oauth"))
		}
		if c.Auth.OAuth.DiscoveryURL == "" {
			errs = append(errs, errors.New("OAUTH_DISCOVERY_URL is required when AUTH_MODE=oauth"))
		}
	}
	return errors.Join(errs...)
}
