package ports

// Package ports defines interfaces (hexagonal ports) for auth and client behavior.
// Implementations live in internal/adapters and internal/client; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/target/chat-session-gateway/internal/domain/auth"
	"github.com/target/chat-session-gateway/internal/domain/persona"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper maps provider groups to application roles.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}

// RoleVerifier resolves the caller's role with one authoritative round-trip.
// cookieHeader is the raw Cookie header of the inbound request.
// Implementations must not cache results across calls.
type RoleVerifier interface {
	Verify(ctx context.Context, cookieHeader string) (domainauth.Role, error)
}

// PersonaBackend reads and writes the caller's selected persona.
// Current returns nil with a nil error when no persona is selected.
type PersonaBackend interface {
	Current(ctx context.Context) (*persona.Persona, error)
	Select(ctx context.Context, p persona.Persona) error
	Clear(ctx context.Context) error
}
