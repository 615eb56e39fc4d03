package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/target/chat-session-gateway/internal/domain/guard"
	"github.com/target/chat-session-gateway/internal/observability/metrics"
	"github.com/target/chat-session-gateway/internal/observability/statsd"
	"github.com/target/chat-session-gateway/internal/ports"
)

// Decision reasons used in logs and metric tags.
const (
	reasonNoSession     = "no_session"
	reasonHasSession    = "has_session"
	reasonLegacyAlias   = "legacy_alias"
	reasonVerifyFailed  = "verify_failed"
	reasonNotAdmin      = "not_admin"
	reasonVerifiedAdmin = "verified_admin"
)

// GuardObservability groups optional logging and metrics sinks.
type GuardObservability struct {
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// GuardServiceOptions groups dependencies for GuardService.
type GuardServiceOptions struct {
	Verifier      ports.RoleVerifier // Required
	Routes        guard.Table        // Optional: guard.DefaultTable() when nil
	Observability GuardObservability // Optional
}

// GuardService evaluates navigation requests. It keeps no per-request state and
// is safe for concurrent use.
type GuardService struct {
	verifier ports.RoleVerifier
	routes   guard.Table
	logger   *slog.Logger
	metrics  statsd.Sink
	now      func() time.Time
}

// NewGuardService constructs a GuardService.
func NewGuardService(opts GuardServiceOptions) *GuardService {
	if opts.Verifier == nil {
		panic("guard service: Verifier is required")
	}
	routes := opts.Routes
	if routes == nil {
		routes = guard.DefaultTable()
	}
	logger := opts.Observability.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &GuardService{
		verifier: opts.Verifier,
		routes:   routes,
		logger:   logger.With("component", "route_guard"),
		metrics:  opts.Observability.Metrics,
		now:      time.Now,
	}
}

// GuardRequest carries the request metadata a decision depends on.
type GuardRequest struct {
	Path string
	// CookieHeader is forwarded verbatim to the verifier for admin routes.
	CookieHeader string
	HasSession   bool
}

// Decide classifies the path and returns the guard decision. The verifier is
// called only for admin routes with a claimed session; any failure denies.
func (s *GuardService) Decide(ctx context.Context, req GuardRequest) guard.Decision {
	route := s.routes.Classify(req.Path)

	var check *guard.RoleCheck
	if guard.NeedsRoleCheck(route, req.HasSession) {
		check = s.verify(ctx, req)
	}

	decision := guard.Decide(route, req.HasSession, check)
	reason := decisionReason(route, req.HasSession, check)
	s.record(ctx, req, route, decision, reason, check)
	return decision
}

func (s *GuardService) verify(ctx context.Context, req GuardRequest) *guard.RoleCheck {
	start := s.now()
	role, err := s.verifier.Verify(ctx, req.CookieHeader)
	metrics.EmitVerify(s.metrics, s.now().Sub(start), err)
	return &guard.RoleCheck{Role: role, Err: err}
}

func decisionReason(route guard.Route, hasSession bool, check *guard.RoleCheck) string {
	switch {
	case route.Class == guard.ClassPublic:
		return ""
	case route.Class == guard.ClassLoggedOutOnly && hasSession:
		return reasonHasSession
	case route.Class == guard.ClassLoggedOutOnly && route.Legacy:
		return reasonLegacyAlias
	case route.Class == guard.ClassLoggedOutOnly:
		return ""
	case !hasSession:
		return reasonNoSession
	case route.Class != guard.ClassAdmin:
		return ""
	case check == nil || check.Err != nil:
		return reasonVerifyFailed
	case !check.Role.IsAdmin():
		return reasonNotAdmin
	default:
		return reasonVerifiedAdmin
	}
}

func (s *GuardService) record(
	ctx context.Context,
	req GuardRequest,
	route guard.Route,
	d guard.Decision,
	reason string,
	check *guard.RoleCheck,
) {
	outcome := metrics.OutcomeAllow
	if !d.Allowed() {
		outcome = metrics.OutcomeRedirect
	}
	metrics.EmitGuardDecision(s.metrics, metrics.GuardDecision{
		Class:    string(route.Class),
		Outcome:  outcome,
		Reason:   reason,
		Redirect: d.Redirect,
	})

	attrs := []any{
		slog.String("path", req.Path),
		slog.String("class", string(route.Class)),
		slog.String("reason", reason),
		slog.String("redirect", d.Redirect),
	}
	switch reason {
	case reasonVerifyFailed:
		if check != nil && check.Err != nil {
			attrs = append(attrs, slog.Any("error", check.Err))
		}
		s.logger.WarnContext(ctx, "admin access denied: role unverified", attrs...)
	case reasonNotAdmin:
		attrs = append(attrs, slog.String("role", string(check.Role)))
		s.logger.InfoContext(ctx, "admin access denied: role is not admin", attrs...)
	default:
		s.logger.DebugContext(ctx, "guard decision", attrs...)
	}
}
