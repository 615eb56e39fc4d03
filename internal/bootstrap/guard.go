package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/target/chat-session-gateway/config"
	"github.com/target/chat-session-gateway/internal/adapters/introspect"
	"github.com/target/chat-session-gateway/internal/observability/statsd"
	"github.com/target/chat-session-gateway/internal/service"
)

// GuardDeps groups inputs for BuildGuardService.
type GuardDeps struct {
	Guard   config.GuardConfig
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// BuildGuardService wires the route guard to the introspection endpoint.
func BuildGuardService(deps GuardDeps) (*service.GuardService, error) {
	verifier, err := introspect.NewVerifier(introspect.Config{
		URL:            deps.Guard.IntrospectionURL,
		RoleExpression: deps.Guard.RoleExpression,
		Timeout:        deps.Guard.VerifyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("role verifier: %w", err)
	}

	return service.NewGuardService(service.GuardServiceOptions{
		Verifier: verifier,
		Observability: service.GuardObservability{
			Logger:  deps.Logger,
			Metrics: deps.Metrics,
		},
	}), nil
}

// BuildMetrics returns the StatsD client; it drops everything when disabled.
func BuildMetrics(ctx context.Context, cfg config.ObservabilityMetricsConfig, logger *slog.Logger) (*statsd.Client, error) {
	client, err := statsd.NewClient(ctx, statsd.Config{
		Enabled: cfg.IsEnabled(),
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("statsd client: %w", err)
	}
	return client, nil
}
