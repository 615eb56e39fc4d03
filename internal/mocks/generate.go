// Package mocks provides mock implementations for testing the session gateway.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	verifier := mocks.NewMockRoleVerifier(ctrl)
//	verifier.EXPECT().Verify(gomock.Any(), "session_id=abc").Return(auth.RoleAdmin, nil)
package mocks

// Generate mock for RoleVerifier interface from internal/ports package.
// This creates MockRoleVerifier with methods for all RoleVerifier interface methods:
// Verify
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=role_verifier_mock.go github.com/target/chat-session-gateway/internal/ports RoleVerifier

// Generate mock for PersonaBackend interface from internal/ports package.
// This creates MockPersonaBackend with methods for all PersonaBackend interface methods:
// Current, Select, Clear
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=persona_backend_mock.go github.com/target/chat-session-gateway/internal/ports PersonaBackend
