package config

import (
	"strings"
	"time"
)

const (
	// DefaultVerifyTimeout bounds one role verification.
	DefaultVerifyTimeout = 4 * time.Second
	// MaxVerifyTimeout caps GUARD_VERIFY_TIMEOUT.
	MaxVerifyTimeout = 10 * time.Second

	defaultSessionCookie = "session_id"
)

// GuardConfig configures the route guard and its role verifier.
type GuardConfig struct {
	// IntrospectionURL is the session-introspection endpoint. Required in
	// external mode; defaults to the gateway's own endpoint otherwise.
	IntrospectionURL string `env:"GUARD_INTROSPECTION_URL"`

	// RoleExpression is a JMESPath expression locating the role in the body.
	RoleExpression string `env:"GUARD_ROLE_EXPRESSION" envDefault:"user.role"`

	VerifyTimeout time.Duration `env:"GUARD_VERIFY_TIMEOUT" envDefault:"4s"`

	// SessionCookies lists the cookie names whose presence marks a session.
	SessionCookies []string `env:"GUARD_SESSION_COOKIES" envDefault:"session_id" envSeparator:","`
}

// Sanitize clamps the timeout and normalizes cookie names. fallbackURL is
// used when no introspection URL was configured.
func (c *GuardConfig) Sanitize(fallbackURL string) {
	c.IntrospectionURL = strings.TrimSpace(c.IntrospectionURL)
	if c.IntrospectionURL == "" {
		c.IntrospectionURL = fallbackURL
	}

	c.RoleExpression = strings.TrimSpace(c.RoleExpression)
	if c.RoleExpression == "" {
		c.RoleExpression = "user.role"
	}

	switch {
	case c.VerifyTimeout <= 0:
		c.VerifyTimeout = DefaultVerifyTimeout
	case c.VerifyTimeout > MaxVerifyTimeout:
		c.VerifyTimeout = MaxVerifyTimeout
	}

	names := make([]string, 0, len(c.SessionCookies))
	seen := make(map[string]struct{}, len(c.SessionCookies))
	for _, n := range c.SessionCookies {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	if len(names) == 0 {
		names = []string{defaultSessionCookie}
	}
	c.SessionCookies = names
}
