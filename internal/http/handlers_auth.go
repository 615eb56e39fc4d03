package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/target/chat-session-gateway/internal/domain/auth"
	"github.com/target/chat-session-gateway/internal/domain/guard"
	"github.com/target/chat-session-gateway/internal/http/sessiontoken"
	"github.com/target/chat-session-gateway/internal/service"
)

// AuthServiceInterface defines the auth operations the handlers need.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers serves the built-in login flow and the session introspection endpoint.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Tokens       sessiontoken.Reader
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) cookies() cookieJar { return cookieJar{domain: h.CookieDomain} }

// sessionCookieName is the cookie the built-in flow writes: the first
// configured session cookie.
func (h *AuthHandlers) sessionCookieName() string {
	if len(h.Tokens.Names) > 0 {
		return h.Tokens.Names[0]
	}
	return sessiontoken.DefaultCookieName
}

// Login begins the IdP flow.
// GET /auth/login?redirect_uri=<optional_redirect> (also /auth/register, /auth/signup).
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	if redirectURI == "/" {
		redirectURI = guard.DashboardPath
	}

	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
		return
	}

	jar := h.cookies()
	jar.setFlow(w, r, stateCookie, result.State)
	jar.setFlow(w, r, nonceCookie, result.Nonce)
	jar.setFlow(w, r, postLoginCookie, redirectURI)

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes the IdP flow and establishes the session.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code, state := q.Get("code"), q.Get("state")
	if code == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_code",
			Err:     errors.New("authorization code is required"),
		})
		return
	}

	sc, err := r.Cookie(stateCookie)
	if state == "" || err != nil || sc.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nc, err := r.Cookie(nonceCookie)
	if err != nil || nc.Value == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
		})
		return
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nc.Value,
	})
	if err != nil {
		h.logger().WarnContext(r.Context(), "login completion failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "login_completion_failed", Err: err})
		return
	}

	jar := h.cookies()
	jar.setSession(w, r, h.sessionCookieName(), result.Session.ID, result.Session.ExpiresAt)
	jar.clear(w, r, stateCookie)
	jar.clear(w, r, nonceCookie)

	redirectURI := guard.DashboardPath
	if rc, rcErr := r.Cookie(postLoginCookie); rcErr == nil {
		if p := safeRedirectPath(rc.Value); p != "/" {
			redirectURI = p
		}
		jar.clear(w, r, postLoginCookie)
	}

	h.logger().InfoContext(r.Context(), "login completed",
		"user_id", result.Session.UserID,
		"role", string(result.Session.Role))
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// Logout deletes the session and returns the caller to the login page.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if id, ok := h.Tokens.Value(r); ok {
		if err := h.Svc.Logout(r.Context(), id); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}

	jar := h.cookies()
	for _, name := range h.cookieNames() {
		jar.clear(w, r, name)
	}

	if wantsJSON(r) {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": guard.LoginPath,
		})
		return
	}
	http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
}

func (h *AuthHandlers) cookieNames() []string {
	if len(h.Tokens.Names) > 0 {
		return h.Tokens.Names
	}
	return []string{sessiontoken.DefaultCookieName}
}

type sessionView struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type userView struct {
	ID    string          `json:"id"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
	Role  domainauth.Role `json:"role"`
}

type getSessionResponse struct {
	Session sessionView `json:"session"`
	User    userView    `json:"user"`
}

// GetSession is the introspection endpoint the role verifier targets.
// GET /api/auth/get-session: 200 with the session and user, or 401.
func (h *AuthHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	unauthorized := func(err error) {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "authentication_required", Err: err})
	}

	id, ok := h.Tokens.Value(r)
	if !ok {
		unauthorized(errors.New("authentication required"))
		return
	}

	sess, err := h.Svc.GetSession(r.Context(), id)
	if err != nil {
		if !errors.Is(err, service.ErrSessionExpired) {
			h.logger().DebugContext(r.Context(), "session lookup failed", "error", err)
		}
		unauthorized(errors.New("session is invalid or expired"))
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, getSessionResponse{
		Session: sessionView{ID: sess.ID, ExpiresAt: sess.ExpiresAt},
		User: userView{
			ID:    sess.UserID,
			Email: sess.Email,
			Name:  sess.Name,
			Role:  sess.Role,
		},
	})
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	// Browsers treat a backslash like a slash, so `/\evil.com` is protocol-relative.
	if strings.HasPrefix(candidate, "//") || strings.Contains(candidate, "\\") {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
