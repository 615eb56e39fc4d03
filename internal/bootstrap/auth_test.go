package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/chat-session-gateway/config"
	"github.com/target/chat-session-gateway/internal/service"
	"github.com/target/chat-session-gateway/internal/testutil"
)

func mockAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		Mode:       config.AuthModeMock,
		AdminGroup: "admins",
		UserGroup:  "users",
		DevAuth: config.DevAuthConfig{
			UserID: "dev",
			Name:   "Dev",
			Email:  "dev@example.com",
			Groups: []string{"admins"},
		},
	}
}

func TestBuildAuthService_ExternalModeHasNoService(t *testing.T) {
	svc, err := BuildAuthService(context.Background(), AuthConfig{
		Auth:   config.AuthConfig{Mode: config.AuthModeExternal},
		Logger: testutil.DiscardLogger(),
	})
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestBuildAuthService_BuiltinRequiresRedis(t *testing.T) {
	svc, err := BuildAuthService(context.Background(), AuthConfig{Auth: mockAuthConfig(), Logger: testutil.DiscardLogger()})
	require.Error(t, err)
	assert.Nil(t, svc)
}

func TestBuildAuthService_MockModeRoundTrip(t *testing.T) {
	client, mr := testutil.SetupRedis(t)
	ctx := context.Background()

	svc, err := BuildAuthService(ctx, AuthConfig{
		Auth:        mockAuthConfig(),
		Redis:       config.RedisConfig{KeyPrefix: "test:session:"},
		RedisClient: client,
		Logger:      testutil.DiscardLogger(),
	})
	require.NoError(t, err)
	require.NotNil(t, svc)

	begin, err := svc.BeginLogin(ctx, "/dashboard")
	require.NoError(t, err)
	done, err := svc.CompleteLogin(ctx, service.CompleteLoginInput{Code: "dev", State: begin.State, Nonce: begin.Nonce})
	require.NoError(t, err)
	assert.Equal(t, "admin", string(done.Session.Role))
	assert.True(t, mr.Exists("test:session:"+done.Session.ID))
}

func TestBuildAuthService_OAuthProviderFailure(t *testing.T) {
	client, _ := testutil.SetupRedis(t)

	_, err := BuildAuthService(context.Background(), AuthConfig{
		Auth: config.AuthConfig{
			Mode:  config.AuthModeOAuth,
			OAuth: config.OAuthConfig{ClientID: "client-id"},
		},
		RedisClient: client,
	})
	assert.ErrorContains(t, err, "oidc provider")
}
