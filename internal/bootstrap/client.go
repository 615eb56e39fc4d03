package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/target/chat-session-gateway/config"
	"github.com/target/chat-session-gateway/internal/client/apiclient"
	"github.com/target/chat-session-gateway/internal/client/events"
	"github.com/target/chat-session-gateway/internal/client/expiry"
	"github.com/target/chat-session-gateway/internal/client/persona"
	"golang.org/x/net/publicsuffix"
)

// ClientDeps groups inputs for BuildClientRuntime.
type ClientDeps struct {
	Config    config.ClientConfig
	Prompter  expiry.Prompter
	Navigator expiry.Navigator
	Logger    *slog.Logger
}

// ClientRuntime is the process-wide client side: one bus, one interceptor-wrapped
// API client, one expiry coordinator and one persona cache.
type ClientRuntime struct {
	Bus         *events.Bus
	API         *apiclient.Client
	Coordinator *expiry.Coordinator
	Personas    *persona.Cache
}

// BuildClientRuntime wires the client. The session cookie, when configured, is
// seeded into a cookie jar scoped to the base URL's registrable domain.
func BuildClientRuntime(deps ClientDeps) (*ClientRuntime, error) {
	cfg := deps.Config
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid CLIENT_BASE_URL %q", cfg.BaseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	if cfg.SessionCookie != "" {
		c, parseErr := parseCookie(cfg.SessionCookie)
		if parseErr != nil {
			return nil, parseErr
		}
		jar.SetCookies(base, []*http.Cookie{c})
	}

	bus := events.NewBus()
	api, err := apiclient.New(apiclient.Options{
		BaseURL:    cfg.BaseURL,
		Events:     bus,
		HTTPClient: &http.Client{Jar: jar, Timeout: cfg.RequestTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}

	return &ClientRuntime{
		Bus: bus,
		API: api,
		Coordinator: expiry.New(expiry.Options{
			Prompter:  deps.Prompter,
			Navigator: deps.Navigator,
			Logger:    deps.Logger,
		}),
		Personas: persona.New(persona.Options{
			Backend: persona.NewHTTPBackend(api, cfg.PersonaPath),
			Logger:  deps.Logger,
		}),
	}, nil
}

// Close waits for pending persona writes and releases the bus. Write
// failures were already logged by the cache.
func (r *ClientRuntime) Close() {
	_ = r.Personas.Wait()
	r.Bus.Close()
}

func parseCookie(raw string) (*http.Cookie, error) {
	name, value, ok := strings.Cut(raw, "=")
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if !ok || name == "" || value == "" {
		return nil, errors.New("CLIENT_SESSION_COOKIE must be name=value")
	}
	return &http.Cookie{Name: name, Value: value, Path: "/"}, nil
}
