package persona

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/target/chat-session-gateway/internal/client/apiclient"
	domain "github.com/target/chat-session-gateway/internal/domain/persona"
	"github.com/target/chat-session-gateway/internal/ports"
)

// DefaultPath is the current-persona resource.
const DefaultPath = "/api/personas/current"

// HTTPBackend implements ports.PersonaBackend over the business API:
// GET reads, PUT selects, DELETE clears. A 204, 404 or null body on GET means
// no persona is selected.
type HTTPBackend struct {
	client *apiclient.Client
	path   string
}

var _ ports.PersonaBackend = (*HTTPBackend)(nil)

// NewHTTPBackend returns a backend rooted at path (DefaultPath when empty).
func NewHTTPBackend(client *apiclient.Client, path string) *HTTPBackend {
	if client == nil {
		panic("persona http backend: client is required")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}
	return &HTTPBackend{client: client, path: path}
}

func (b *HTTPBackend) Current(ctx context.Context) (*domain.Persona, error) {
	var p *domain.Persona
	code, err := b.client.Get(ctx, b.path, &p)
	if err != nil {
		if apiclient.HasStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get current persona: %w", err)
	}
	if code == http.StatusNoContent || p == nil || p.ID == "" {
		return nil, nil
	}
	return p, nil
}

func (b *HTTPBackend) Select(ctx context.Context, p domain.Persona) error {
	if p.ID == "" {
		return errors.New("select persona: id is required")
	}
	if _, err := b.client.Do(ctx, http.MethodPut, b.path, p, nil); err != nil {
		return fmt.Errorf("select persona %s: %w", p.ID, err)
	}
	return nil
}

func (b *HTTPBackend) Clear(ctx context.Context) error {
	if _, err := b.client.Do(ctx, http.MethodDelete, b.path, nil, nil); err != nil {
		return fmt.Errorf("clear persona: %w", err)
	}
	return nil
}
