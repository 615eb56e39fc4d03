package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/chat-session-gateway/internal/domain/auth"
	"github.com/target/chat-session-gateway/internal/domain/guard"
	"github.com/target/chat-session-gateway/internal/mocks"
	"go.uber.org/mock/gomock"
)

type countingSink struct {
	mu      sync.Mutex
	counts  []map[string]string
	timings []map[string]string
}

func (s *countingSink) Count(_ string, _ int64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = append(s.counts, tags)
}

func (s *countingSink) Timing(_ string, _ time.Duration, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timings = append(s.timings, tags)
}

func newGuardForTest(t *testing.T) (*GuardService, *mocks.MockRoleVerifier, *countingSink, *bytes.Buffer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockRoleVerifier(ctrl)
	sink := &countingSink{}
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	svc := NewGuardService(GuardServiceOptions{
		Verifier:      verifier,
		Observability: GuardObservability{Logger: logger, Metrics: sink},
	})
	return svc, verifier, sink, &logs
}

func TestNewGuardService_RequiresVerifier(t *testing.T) {
	assert.Panics(t, func() { NewGuardService(GuardServiceOptions{}) })
}

func TestGuardService_ScenarioA_AdminWithoutSession(t *testing.T) {
	svc, verifier, _, _ := newGuardForTest(t)
	verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).Times(0)

	got := svc.Decide(context.Background(), GuardRequest{Path: "/admin/character-showcase"})
	assert.Equal(t, guard.RedirectTo("/auth/login"), got)
}

func TestGuardService_ScenarioB_AdminWithUserRole(t *testing.T) {
	svc, verifier, sink, logs := newGuardForTest(t)
	verifier.EXPECT().Verify(gomock.Any(), "session_id=abc").Return(domainauth.RoleUser, nil).Times(1)

	got := svc.Decide(context.Background(), GuardRequest{Path: "/admin", CookieHeader: "session_id=abc", HasSession: true})
	assert.Equal(t, guard.RedirectTo("/dashboard"), got)

	require.Len(t, sink.counts, 1)
	assert.Equal(t, "not_admin", sink.counts[0]["reason"])
	require.Len(t, sink.timings, 1)
	assert.Equal(t, "success", sink.timings[0]["result"])
	assert.Contains(t, logs.String(), `"level":"INFO"`)
	assert.Contains(t, logs.String(), "role is not admin")
}

func TestGuardService_ScenarioC_LoginWithSession(t *testing.T) {
	svc, verifier, _, _ := newGuardForTest(t)
	verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).Times(0)

	got := svc.Decide(context.Background(), GuardRequest{Path: "/auth/login", CookieHeader: "session_id=abc", HasSession: true})
	assert.Equal(t, guard.RedirectTo("/dashboard"), got)
}

func TestGuardService_AdminVerifyFailureFailsClosed(t *testing.T) {
	svc, verifier, sink, logs := newGuardForTest(t)
	verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(domainauth.Role(""), errors.New("context deadline exceeded"))

	got := svc.Decide(context.Background(), GuardRequest{Path: "/admin/users", CookieHeader: "session_id=abc", HasSession: true})
	assert.Equal(t, guard.RedirectTo("/auth/login"), got)

	assert.Equal(t, "verify_failed", sink.counts[0]["reason"])
	assert.Equal(t, "error", sink.timings[0]["result"])
	assert.Contains(t, logs.String(), `"level":"WARN"`)
	assert.Contains(t, logs.String(), "context deadline exceeded")
}

func TestGuardService_AdminAllowed(t *testing.T) {
	svc, verifier, sink, _ := newGuardForTest(t)
	verifier.EXPECT().Verify(gomock.Any(), "session_id=abc").Return(domainauth.RoleAdmin, nil)

	got := svc.Decide(context.Background(), GuardRequest{Path: "/admin", CookieHeader: "session_id=abc", HasSession: true})
	assert.True(t, got.Allowed())
	assert.Equal(t, "allow", sink.counts[0]["outcome"])
}

func TestGuardService_VerifiesEveryAdminRequest(t *testing.T) {
	svc, verifier, _, _ := newGuardForTest(t)
	gomock.InOrder(
		verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(domainauth.RoleAdmin, nil),
		verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(domainauth.RoleUser, nil),
	)

	req := GuardRequest{Path: "/admin", CookieHeader: "session_id=abc", HasSession: true}
	assert.True(t, svc.Decide(context.Background(), req).Allowed())
	// Demoted between requests.
	assert.Equal(t, guard.RedirectTo("/dashboard"), svc.Decide(context.Background(), req))
}

func TestGuardService_NonAdminRoutesNeverVerify(t *testing.T) {
	svc, verifier, _, _ := newGuardForTest(t)
	verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).Times(0)

	tests := []struct {
		req  GuardRequest
		want guard.Decision
	}{
		{req: GuardRequest{Path: "/"}, want: guard.Allow},
		{req: GuardRequest{Path: "/", HasSession: true}, want: guard.Allow},
		{req: GuardRequest{Path: "/dashboard"}, want: guard.RedirectTo("/auth/login")},
		{req: GuardRequest{Path: "/dashboard", HasSession: true}, want: guard.Allow},
		{req: GuardRequest{Path: "/characters/7"}, want: guard.RedirectTo("/auth/login")},
		{req: GuardRequest{Path: "/chat", HasSession: true}, want: guard.Allow},
		{req: GuardRequest{Path: "/auth/register"}, want: guard.Allow},
		{req: GuardRequest{Path: "/signup"}, want: guard.RedirectTo("/auth/login")},
		{req: GuardRequest{Path: "/register", HasSession: true}, want: guard.RedirectTo("/dashboard")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, svc.Decide(context.Background(), tt.req), "%+v", tt.req)
	}
}

func TestGuardService_CustomRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockRoleVerifier(ctrl)
	svc := NewGuardService(GuardServiceOptions{
		Verifier: verifier,
		Routes:   guard.Table{{Prefix: "/ops", Class: guard.ClassAdmin}},
	})
	verifier.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(domainauth.RoleAdmin, nil)

	assert.True(t, svc.Decide(context.Background(), GuardRequest{Path: "/ops", HasSession: true}).Allowed())
	assert.True(t, svc.Decide(context.Background(), GuardRequest{Path: "/admin"}).Allowed())
}

func TestDecisionReason(t *testing.T) {
	admin := guard.Route{Prefix: "/admin", Class: guard.ClassAdmin}
	assert.Equal(t, "no_session", decisionReason(admin, false, nil))
	assert.Equal(t, "verify_failed", decisionReason(admin, true, nil))
	assert.Equal(t, "verified_admin", decisionReason(admin, true, &guard.RoleCheck{Role: domainauth.RoleAdmin}))
	assert.Equal(t, "legacy_alias", decisionReason(guard.Route{Class: guard.ClassLoggedOutOnly, Legacy: true}, false, nil))
	assert.Empty(t, decisionReason(guard.Route{Class: guard.ClassProtected}, true, nil))
}
