package auth

// Package auth contains domain-level types for sessions and roles.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Only the role reported by the introspection endpoint is authoritative.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// ParseRole accepts any non-blank role string verbatim. Only the exact string
// "admin" compares equal to RoleAdmin; "ADMIN" or " admin " are other roles.
func ParseRole(raw string) (Role, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}
	return Role(raw), true
}

// IsAdmin reports whether r is exactly the admin role.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string
	Name      string
	Email     string
	Groups    []string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record persisted by the built-in auth mode.
// ID is the opaque value carried in the session cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }
