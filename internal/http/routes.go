package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/target/chat-session-gateway/internal/http/sessiontoken"
)

// RouterOptions holds everything the gateway router serves.
type RouterOptions struct {
	Guard  GuardService // Required
	Tokens sessiontoken.Reader
	// Auth mounts the built-in login flow when non-nil.
	Auth *AuthHandlers
	// Upstream receives every allowed request no local route serves.
	Upstream http.Handler
	Logger   *slog.Logger
}

// NewRouter builds the gateway handler. Middleware order, outermost first:
// Recover, RequestID, RealIP, Logging, RouteGuard. The guard therefore sees
// every request before any route or the upstream does.
func NewRouter(opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(Recover(logger))
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logging(logger))
	r.Use(RouteGuard(opts.Guard, opts.Tokens))

	r.Get("/healthz", healthHandler)
	r.Head("/healthz", healthHandler)

	if opts.Auth != nil {
		registerAuthRoutes(r, opts.Auth)
	}

	fallback := opts.Upstream
	if fallback == nil {
		fallback = http.HandlerFunc(notFound)
	}
	r.NotFound(fallback.ServeHTTP)
	r.MethodNotAllowed(fallback.ServeHTTP)

	return r
}

func registerAuthRoutes(r chi.Router, h *AuthHandlers) {
	r.Get("/auth/login", h.Login)
	r.Get("/auth/register", h.Login)
	r.Get("/auth/signup", h.Login)
	r.Get("/auth/callback", h.Callback)
	r.Post("/auth/logout", h.Logout)
	r.Get("/api/auth/get-session", h.GetSession)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: errors.New("not found")})
}
