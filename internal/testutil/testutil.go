// Package testutil holds shared helpers for package tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/chat-session-gateway/internal/domain/auth"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetupRedis starts an in-process Redis and a client for it. Both are closed
// when the test ends.
func SetupRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: failed to close redis client: %v", err)
		}
	})
	return client, mr
}

// SessionBuilder builds sessions with test defaults.
type SessionBuilder struct {
	sess domainauth.Session
}

// NewSession starts a user session for user-123 that expires in an hour.
func NewSession(id string) *SessionBuilder {
	return &SessionBuilder{sess: domainauth.Session{
		ID:        id,
		UserID:    "user-123",
		Name:      "Test User",
		Email:     "user@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}}
}

func (b *SessionBuilder) WithRole(role domainauth.Role) *SessionBuilder {
	b.sess.Role = role
	return b
}

func (b *SessionBuilder) WithUser(id, name, email string) *SessionBuilder {
	b.sess.UserID, b.sess.Name, b.sess.Email = id, name, email
	return b
}

// ExpiresIn sets the expiry relative to now. Negative values build an expired session.
func (b *SessionBuilder) ExpiresIn(d time.Duration) *SessionBuilder {
	b.sess.ExpiresAt = time.Now().Add(d)
	return b
}

func (b *SessionBuilder) Build() domainauth.Session {
	return b.sess
}
