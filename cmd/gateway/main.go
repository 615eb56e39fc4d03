package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/target/chat-session-gateway/config"
	"github.com/target/chat-session-gateway/internal/bootstrap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := bootstrap.InitLogger(slog.LevelInfo)
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo,gocritic // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger = bootstrap.InitLogger(cfg.Observability.LogLevel)
	logStartupInfo(ctx, logger, &cfg)

	metrics, err := bootstrap.BuildMetrics(ctx, cfg.Observability.Metrics, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := metrics.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close metrics failed", "error", cerr)
		}
	}()

	redisClient, err := connectSessions(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	authSvc, err := bootstrap.BuildAuthService(ctx, bootstrap.AuthConfig{
		Auth:        cfg.Auth,
		Redis:       cfg.Redis,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("build auth service: %w", err)
	}

	guardSvc, err := bootstrap.BuildGuardService(bootstrap.GuardDeps{
		Guard:   cfg.Guard,
		Metrics: metrics,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("build route guard: %w", err)
	}

	handler, err := bootstrap.BuildHTTPHandler(bootstrap.HTTPHandlerDeps{
		Config: &cfg,
		Guard:  guardSvc,
		Auth:   authSvc,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	server := bootstrap.NewHTTPServer(cfg.HTTP, handler)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bootstrap.ServeHTTP(gctx, server, cfg.HTTP, logger)
	})
	if redisClient != nil {
		g.Go(func() error {
			monitorRedis(gctx, redisClient, logger)
			return nil
		})
	}

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

const redisPingInterval = 30 * time.Second

// monitorRedis logs session store outages until ctx is done. Login and
// logout fail while Redis is down; the guard itself does not depend on it.
func monitorRedis(ctx context.Context, client redis.UniversalClient, logger *slog.Logger) {
	ticker := time.NewTicker(redisPingInterval)
	defer ticker.Stop()
	healthy := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := client.Ping(pingCtx).Err()
			cancel()
			switch {
			case err != nil && healthy:
				logger.WarnContext(ctx, "session store unreachable", "error", err)
			case err == nil && !healthy:
				logger.InfoContext(ctx, "session store reachable again")
			}
			healthy = err == nil
		}
	}
}

// connectSessions connects Redis only for the built-in auth modes.
//
//nolint:ireturn // see bootstrap.ConnectRedis.
func connectSessions(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	if !cfg.Auth.Mode.Builtin() {
		return nil, nil
	}
	client, err := bootstrap.ConnectRedis(ctx, bootstrap.RedisOptions{Config: cfg.Redis, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting chat session gateway",
		"addr", cfg.HTTP.Addr,
		"auth_mode", string(cfg.Auth.Mode),
		"introspection_url", cfg.Guard.IntrospectionURL,
		"verify_timeout", cfg.Guard.VerifyTimeout,
		"session_cookies", cfg.Guard.SessionCookies,
		"upstream", cfg.HTTP.UpstreamURL,
		"metrics_enabled", cfg.Observability.Metrics.IsEnabled(),
		"dev", cfg.IsDev)
}
