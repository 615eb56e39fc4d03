package introspect

// Package introspect implements ports.RoleVerifier against a session-introspection endpoint.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	domainauth "github.com/target/chat-session-gateway/internal/domain/auth"
	"github.com/target/chat-session-gateway/internal/ports"
)

const (
	// DefaultRoleExpression locates the role in the introspection body.
	DefaultRoleExpression = "user.role"
	// DefaultTimeout bounds a single verification round-trip.
	DefaultTimeout = 4 * time.Second

	maxBodyBytes = 1 << 20
)

// ErrVerification is the parent of every verification failure.
var ErrVerification = errors.New("role verification failed")

// Specific verification failures. All wrap ErrVerification.
var (
	ErrUnexpectedStatus = fmt.Errorf("%w: unexpected status", ErrVerification)
	ErrMalformedBody    = fmt.Errorf("%w: malformed body", ErrVerification)
	ErrRoleMissing      = fmt.Errorf("%w: role missing", ErrVerification)
)

// Config configures a Verifier.
type Config struct {
	// URL of the introspection endpoint, e.g. http://auth.internal/api/auth/get-session.
	URL string
	// RoleExpression is a JMESPath expression selecting the role string.
	RoleExpression string
	// Timeout bounds the round-trip; DefaultTimeout when zero.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Verifier forwards the caller's cookies to the introspection endpoint and
// extracts the role from the JSON response. It holds no per-caller state.
type Verifier struct {
	url      string
	roleExpr string
	rolePath jmespath.JMESPath
	timeout  time.Duration
	client   *http.Client
}

var _ ports.RoleVerifier = (*Verifier)(nil)

// NewVerifier builds a Verifier, validating the URL and role expression.
func NewVerifier(cfg Config) (*Verifier, error) {
	u := strings.TrimSpace(cfg.URL)
	if u == "" {
		return nil, errors.New("introspection URL is required")
	}

	expr := strings.TrimSpace(cfg.RoleExpression)
	if expr == "" {
		expr = DefaultRoleExpression
	}
	rolePath, err := jmespath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile role expression %q: %w", expr, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	// Redirects are returned as-is so they fail the 200 check.
	client := &http.Client{}
	if cfg.HTTPClient != nil {
		c := *cfg.HTTPClient
		client = &c
	}
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Verifier{
		url:      u,
		roleExpr: expr,
		rolePath: rolePath,
		timeout:  timeout,
		client:   client,
	}, nil
}

// Verify performs one GET against the introspection endpoint.
// Any non-200 status, transport failure, timeout, undecodable body or missing
// role yields an error wrapping ErrVerification.
func (v *Verifier) Verify(ctx context.Context, cookieHeader string) (domainauth.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrVerification, err)
	}
	req.Header.Set("Accept", "application/json")
	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request: %w", ErrVerification, err)
	}
	defer func() {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	var body any
	if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); decodeErr != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedBody, decodeErr)
	}

	return v.extractRole(body)
}

func (v *Verifier) extractRole(body any) (domainauth.Role, error) {
	if _, ok := body.(map[string]any); !ok {
		return "", fmt.Errorf("%w: expected JSON object", ErrMalformedBody)
	}

	found, err := v.rolePath.Search(body)
	if err != nil {
		return "", fmt.Errorf("%w: evaluate %q: %w", ErrMalformedBody, v.roleExpr, err)
	}

	raw, ok := found.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q did not yield a string", ErrRoleMissing, v.roleExpr)
	}

	role, ok := domainauth.ParseRole(raw)
	if !ok {
		return "", fmt.Errorf("%w: %q is empty", ErrRoleMissing, v.roleExpr)
	}
	return role, nil
}
