package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"github.com/target/chat-session-gateway/config"
	httpx "github.com/target/chat-session-gateway/internal/http"
	"github.com/target/chat-session-gateway/internal/http/sessiontoken"
	"github.com/target/chat-session-gateway/internal/service"
)

// HTTPHandlerDeps groups everything the gateway router needs.
type HTTPHandlerDeps struct {
	Config *config.AppConfig
	Guard  *service.GuardService
	// Auth is nil in external mode.
	Auth   *service.AuthService
	Logger *slog.Logger
}

// BuildHTTPHandler assembles the guarded router, the built-in auth routes when
// enabled, and the upstream proxy when configured.
func BuildHTTPHandler(deps HTTPHandlerDeps) (http.Handler, error) {
	if deps.Config == nil || deps.Guard == nil {
		return nil, errors.New("http handler: config and guard are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tokens := sessiontoken.NewReader(deps.Config.Guard.SessionCookies...)
	opts := httpx.RouterOptions{
		Guard:  deps.Guard,
		Tokens: tokens,
		Logger: logger,
	}

	if deps.Auth != nil {
		opts.Auth = &httpx.AuthHandlers{
			Svc:          deps.Auth,
			Tokens:       tokens,
			CookieDomain: deps.Config.HTTP.CookieDomain,
			Logger:       logger,
		}
	}

	if raw := deps.Config.HTTP.UpstreamURL; raw != "" {
		target, err := url.Parse(raw)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("invalid HTTP_UPSTREAM_URL %q", raw)
		}
		opts.Upstream = httpx.NewUpstreamProxy(target, logger)
	}

	return httpx.NewRouter(opts), nil
}

// NewHTTPServer builds the server with the configured timeouts.
func NewHTTPServer(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// ServeHTTP listens until ctx is done, then shuts the server down gracefully.
// It returns nil after a clean shutdown.
func ServeHTTP(ctx context.Context, server *http.Server, cfg config.HTTPConfig, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", server.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting HTTP server", "addr", ln.Addr().String())
		errCh <- server.Serve(ln)
	}()

	select {
	case serveErr := <-errCh:
		if errors.Is(serveErr, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", serveErr)
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		return fmt.Errorf("shutdown http server: %w", shutdownErr)
	}
	logger.Info("HTTP server stopped")
	return nil
}
