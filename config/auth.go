package config

import (
	"fmt"
	"strings"
	"time"
)

// BuiltinIntrospectionPath is served by the gateway in the built-in auth modes.
const BuiltinIntrospectionPath = "/api/auth/get-session"

// AuthMode selects who issues sessions.
type AuthMode string

const (
	// AuthModeExternal leaves login to the upstream application; the gateway only guards.
	AuthModeExternal AuthMode = "external"
	// AuthModeOAuth runs the built-in OAuth/OIDC login flow.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock runs the built-in flow against a fixed dev identity.
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch AuthMode(v) {
	case AuthModeExternal, AuthModeOAuth, AuthModeMock:
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: external, oauth, mock)", v)
	}
}

// Builtin reports whether the gateway issues sessions itself.
func (a AuthMode) Builtin() bool { return a == AuthModeOAuth || a == AuthModeMock }

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	GroupsClaim  string `env:"GROUPS_CLAIM"  envDefault:"groups"`
}

// DevAuthConfig controls the mock identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID          string        `env:"USER_ID"          envDefault:"dev-user"`
	Name            string        `env:"NAME"             envDefault:"Dev User"`
	Email           string        `env:"EMAIL"            envDefault:"dev@example.com"`
	Groups          []string      `env:"GROUPS"           envDefault:"admins"          envSeparator:";"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"8h"`
}

// AuthConfig groups the built-in authentication configuration.
type AuthConfig struct {
	Mode AuthMode `env:"AUTH_MODE" envDefault:"external"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroup and UserGroup map IdP groups to roles.
	AdminGroup string `env:"AUTH_ADMIN_GROUP" envDefault:"admins"`
	UserGroup  string `env:"AUTH_USER_GROUP"  envDefault:"users"`
}

// Sanitize trims values and restores defaults.
func (c *AuthConfig) Sanitize() {
	if c.Mode == "" {
		c.Mode = AuthModeExternal
	}
	c.OAuth.ClientID = strings.TrimSpace(c.OAuth.ClientID)
	c.OAuth.DiscoveryURL = strings.TrimSpace(c.OAuth.DiscoveryURL)
	c.AdminGroup = strings.TrimSpace(c.AdminGroup)
	c.UserGroup = strings.TrimSpace(c.UserGroup)
	if c.DevAuth.SessionDuration <= 0 {
		c.DevAuth.SessionDuration = 8 * time.Hour
	}
}
