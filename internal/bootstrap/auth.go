package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/chat-session-gateway/config"
	"github.com/target/chat-session-gateway/internal/adapters/authroles"
	"github.com/target/chat-session-gateway/internal/adapters/devauth"
	"github.com/target/chat-session-gateway/internal/adapters/oidc"
	redisadapter "github.com/target/chat-session-gateway/internal/adapters/redis"
	"github.com/target/chat-session-gateway/internal/ports"
	"github.com/target/chat-session-gateway/internal/service"
)

// AuthConfig contains configuration for the built-in auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	Redis       config.RedisConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates the auth service for the configured mode.
// External mode has no built-in auth and returns nil, nil.
func BuildAuthService(ctx context.Context, cfg AuthConfig) (*service.AuthService, error) {
	if !cfg.Auth.Mode.Builtin() {
		return nil, nil
	}
	if cfg.RedisClient == nil {
		return nil, fmt.Errorf("auth mode %s requires redis", cfg.Auth.Mode)
	}

	provider, err := buildProvider(ctx, cfg.Auth)
	if err != nil {
		return nil, err
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "built-in auth enabled",
			"mode", string(cfg.Auth.Mode),
			"admin_group", cfg.Auth.AdminGroup,
			"user_group", cfg.Auth.UserGroup)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: redisadapter.NewSessionStore(redisadapter.SessionStoreOptions{
			Client: cfg.RedisClient,
			Prefix: cfg.Redis.KeyPrefix,
		}),
		Roles: authroles.StaticRoleMapper{
			AdminGroup: cfg.Auth.AdminGroup,
			UserGroup:  cfg.Auth.UserGroup,
		},
	}), nil
}

//nolint:ireturn // the provider is chosen by mode.
func buildProvider(ctx context.Context, auth config.AuthConfig) (ports.AuthProvider, error) {
	switch auth.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:          auth.DevAuth.UserID,
			Name:            auth.DevAuth.Name,
			Email:           auth.DevAuth.Email,
			Groups:          auth.DevAuth.Groups,
			SessionDuration: auth.DevAuth.SessionDuration,
		})
		if err != nil {
			return nil, fmt.Errorf("dev auth provider: %w", err)
		}
		return prov, nil

	case config.AuthModeOAuth:
		prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
			ClientID:     auth.OAuth.ClientID,
			ClientSecret: auth.OAuth.ClientSecret,
			RedirectURL:  auth.OAuth.RedirectURL,
			Scope:        auth.OAuth.Scope,
			IssuerURL:    auth.OAuth.DiscoveryURL,
			GroupsClaim:  auth.OAuth.GroupsClaim,
		})
		if err != nil {
			return nil, fmt.Errorf("oidc provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("auth mode %q has no provider", auth.Mode)
	}
}
