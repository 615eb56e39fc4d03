package httpx

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/chat-session-gateway/internal/domain/auth"
	"github.com/target/chat-session-gateway/internal/domain/guard"
	"github.com/target/chat-session-gateway/internal/http/sessiontoken"
	mockauth "github.com/target/chat-session-gateway/internal/mocks/auth"
	"github.com/target/chat-session-gateway/internal/service"
	"github.com/target/chat-session-gateway/internal/testutil"
)

type upstreamCounter struct {
	hits atomic.Int32
}

func (u *upstreamCounter) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	u.hits.Add(1)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "page")
}

func newGuardedRouter(t *testing.T, verifier *mockauth.StubRoleVerifier) (http.Handler, *upstreamCounter) {
	t.Helper()
	up := &upstreamCounter{}
	svc := service.NewGuardService(service.GuardServiceOptions{
		Verifier:      verifier,
		Observability: service.GuardObservability{Logger: testutil.DiscardLogger()},
	})
	return NewRouter(RouterOptions{
		Guard:    svc,
		Tokens:   sessiontoken.NewReader(sessiontoken.DefaultCookieName),
		Upstream: up,
		Logger:   testutil.DiscardLogger(),
	}), up
}

func serve(h http.Handler, path, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouteGuard_Navigation(t *testing.T) {
	const session = "session_id=abc123"

	tests := []struct {
		name         string
		path         string
		cookie       string
		role         domainauth.Role
		verifyErr    error
		wantStatus   int
		wantLocation string
		wantVerifies int
	}{
		{name: "admin without session", path: "/admin", wantStatus: http.StatusSeeOther, wantLocation: guard.LoginPath},
		{name: "protected without session", path: "/dashboard", wantStatus: http.StatusSeeOther, wantLocation: guard.LoginPath},
		{name: "protected nested without session", path: "/characters/7", wantStatus: http.StatusSeeOther, wantLocation: guard.LoginPath},
		{name: "protected with session", path: "/chat", cookie: session, wantStatus: http.StatusOK},
		{
			name: "admin route as non-admin", path: "/admin/character-showcase", cookie: session,
			role:       domainauth.RoleUser,
			wantStatus: http.StatusSeeOther, wantLocation: guard.DashboardPath, wantVerifies: 1,
		},
		{
			name: "admin route verifier failure", path: "/admin", cookie: session,
			verifyErr:  errors.New("context deadline exceeded"),
			wantStatus: http.StatusSeeOther, wantLocation: guard.LoginPath, wantVerifies: 1,
		},
		{
			name: "admin verified", path: "/admin", cookie: session,
			role:       domainauth.RoleAdmin,
			wantStatus: http.StatusOK, wantVerifies: 1,
		},
		{name: "login with session", path: "/auth/login", cookie: session, wantStatus: http.StatusSeeOther, wantLocation: guard.DashboardPath},
		{name: "login without session", path: "/auth/login", wantStatus: http.StatusOK},
		{name: "legacy alias without session", path: "/signup", wantStatus: http.StatusSeeOther, wantLocation: guard.LoginPath},
		{name: "legacy alias with session", path: "/login", cookie: session, wantStatus: http.StatusSeeOther, wantLocation: guard.DashboardPath},
		{name: "public", path: "/", wantStatus: http.StatusOK},
		{name: "empty cookie is no session", path: "/profile", cookie: "session_id=", wantStatus: http.StatusSeeOther, wantLocation: guard.LoginPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &mockauth.StubRoleVerifier{Role: tt.role, Err: tt.verifyErr}
			h, up := newGuardedRouter(t, verifier)

			rec := serve(h, tt.path, tt.cookie)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			assert.Len(t, verifier.Calls(), tt.wantVerifies)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, int32(1), up.hits.Load())
			} else {
				assert.Zero(t, up.hits.Load(), "denied requests must not reach the upstream")
			}
		})
	}
}

func TestRouteGuard_ForwardsCookieHeaderVerbatim(t *testing.T) {
	verifier := &mockauth.StubRoleVerifier{Role: domainauth.RoleAdmin}
	h, _ := newGuardedRouter(t, verifier)

	serve(h, "/admin", "session_id=abc; theme=dark")

	assert.Equal(t, []string{"session_id=abc; theme=dark"}, verifier.Calls())
}

func TestRouteGuard_ReverifiesEveryRequest(t *testing.T) {
	verifier := &mockauth.StubRoleVerifier{Role: domainauth.RoleAdmin}
	h, _ := newGuardedRouter(t, verifier)

	for range 3 {
		assert.Equal(t, http.StatusOK, serve(h, "/admin", "session_id=abc").Code)
	}
	assert.Len(t, verifier.Calls(), 3)
}

func TestRouteGuard_RedirectsNonCanonicalPaths(t *testing.T) {
	const session = "session_id=abc123"

	tests := []struct {
		name         string
		path         string
		cookie       string
		wantLocation string
	}{
		{name: "dot segments into admin with session", path: "/chat/../admin", cookie: session, wantLocation: "/admin"},
		{name: "dot segments into admin subtree", path: "/x/../admin/users", wantLocation: "/admin/users"},
		{name: "double leading slash", path: "//admin", wantLocation: "/admin"},
		{name: "repeated inner slash", path: "/admin//users", wantLocation: "/admin/users"},
		{name: "dot segment", path: "/admin/./", wantLocation: "/admin/"},
		{name: "query kept", path: "/x/../dashboard?tab=1", wantLocation: "/dashboard?tab=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &mockauth.StubRoleVerifier{Role: domainauth.RoleUser}
			h, up := newGuardedRouter(t, verifier)

			rec := serve(h, tt.path, tt.cookie)

			assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			assert.Zero(t, up.hits.Load())
			assert.Empty(t, verifier.Calls())
		})
	}
}

func TestRouteGuard_CanonicalRedirectThenGuarded(t *testing.T) {
	verifier := &mockauth.StubRoleVerifier{Role: domainauth.RoleUser}
	h, up := newGuardedRouter(t, verifier)

	first := serve(h, "/chat/../admin", "session_id=abc")
	require.Equal(t, http.StatusPermanentRedirect, first.Code)

	second := serve(h, first.Header().Get("Location"), "session_id=abc")
	assert.Equal(t, http.StatusSeeOther, second.Code)
	assert.Equal(t, guard.DashboardPath, second.Header().Get("Location"))
	assert.Zero(t, up.hits.Load())
}

func TestCleanPath(t *testing.T) {
	for in, want := range map[string]string{
		"":                 "/",
		"/":                "/",
		"admin":            "/admin",
		"/admin/":          "/admin/",
		"//admin":          "/admin",
		"/a/b/../../admin": "/admin",
		"/..":              "/",
	} {
		assert.Equal(t, want, cleanPath(in), in)
	}
}

func TestRouteGuard_RequiresService(t *testing.T) {
	assert.Panics(t, func() { RouteGuard(nil, sessiontoken.Reader{}) })
}

func TestRecover(t *testing.T) {
	h := Recover(testutil.DiscardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := serve(h, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogging_IncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	svc := service.NewGuardService(service.GuardServiceOptions{
		Verifier:      &mockauth.StubRoleVerifier{},
		Observability: service.GuardObservability{Logger: testutil.DiscardLogger()},
	})
	h := NewRouter(RouterOptions{Guard: svc, Logger: logger})

	rec := serve(h, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), `"path":"/healthz"`)
	assert.Contains(t, buf.String(), `"status":200`)
	assert.Regexp(t, `"request_id":"[^"]+"`, buf.String())
}

func TestNewRouter_Health(t *testing.T) {
	h, up := newGuardedRouter(t, &mockauth.StubRoleVerifier{})

	rec := serve(h, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	req := httptest.NewRequest(http.MethodHead, "/healthz", nil)
	head := httptest.NewRecorder()
	h.ServeHTTP(head, req)
	assert.Equal(t, http.StatusOK, head.Code)
	assert.Empty(t, head.Body.String())
	assert.Zero(t, up.hits.Load())
}

func TestNewRouter_NotFoundWithoutUpstream(t *testing.T) {
	svc := service.NewGuardService(service.GuardServiceOptions{
		Verifier:      &mockauth.StubRoleVerifier{},
		Observability: service.GuardObservability{Logger: testutil.DiscardLogger()},
	})
	h := NewRouter(RouterOptions{Guard: svc, Logger: testutil.DiscardLogger()})

	rec := serve(h, "/about", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not_found","message":"not found"}`, rec.Body.String())

	// The guard still runs first.
	rec = serve(h, "/dashboard", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}
