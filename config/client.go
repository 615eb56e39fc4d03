package config

import (
	"strings"
	"time"
)

// ClientConfig configures the chatctl client runtime.
type ClientConfig struct {
	// BaseURL is where business API calls are sent.
	BaseURL string `env:"CLIENT_BASE_URL" envDefault:"http://localhost:8080"`

	// SessionCookie seeds the client cookie jar, as "name=value".
	SessionCookie string `env:"CLIENT_SESSION_COOKIE"`

	PersonaPath    string        `env:"CLIENT_PERSONA_PATH"    envDefault:"/api/personas/current"`
	RequestTimeout time.Duration `env:"CLIENT_REQUEST_TIMEOUT" envDefault:"10s"`

	// WatchPaths are polled by `chatctl watch`.
	WatchPaths    []string      `env:"CLIENT_WATCH_PATHS"    envDefault:"/api/personas/current" envSeparator:","`
	WatchInterval time.Duration `env:"CLIENT_WATCH_INTERVAL" envDefault:"15s"`
}

// Sanitize trims values and restores defaults.
func (c *ClientConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.SessionCookie = strings.TrimSpace(c.SessionCookie)
	c.PersonaPath = strings.TrimSpace(c.PersonaPath)
	if c.PersonaPath == "" {
		c.PersonaPath = "/api/personas/current"
	}
	defaultDuration(&c.RequestTimeout, 10*time.Second)
	if c.WatchInterval < time.Second {
		c.WatchInterval = 15 * time.Second
	}

	paths := c.WatchPaths[:0]
	for _, p := range c.WatchPaths {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		paths = []string{c.PersonaPath}
	}
	c.WatchPaths = paths
}
