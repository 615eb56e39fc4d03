// Package persona keeps the caller's selected persona in memory.
//
// Reads never block. Refresh results are applied only if no newer refresh or
// explicit Select/Clear was issued after them; explicit actions update the
// cache at once and write to the backend in the background.
package persona

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domain "github.com/target/chat-session-gateway/internal/domain/persona"
	"github.com/target/chat-session-gateway/internal/ports"
)

const defaultWriteTimeout = 10 * time.Second

// Options groups dependencies for a Cache.
type Options struct {
	Backend      ports.PersonaBackend // Required
	Logger       *slog.Logger
	WriteTimeout time.Duration // per backend write; 10s when zero
}

// Cache is safe for concurrent use.
type Cache struct {
	backend      ports.PersonaBackend
	logger       *slog.Logger
	writeTimeout time.Duration

	mu      sync.Mutex
	current *domain.Persona
	// seq increases for every refresh issued and every explicit action.
	seq uint64
	// explicitSeq is the seq of the latest Select or Clear.
	explicitSeq uint64

	writeMu sync.Mutex
	pending sync.WaitGroup
	// writeErrs collects write failures until the next Wait.
	writeErrs []error
}

// New constructs an empty Cache.
func New(opts Options) *Cache {
	if opts.Backend == nil {
		panic("persona cache: Backend is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	return &Cache{
		backend:      opts.Backend,
		logger:       logger.With("component", "persona_cache"),
		writeTimeout: timeout,
	}
}

// Get returns the last known persona. ok is false when none is selected.
func (c *Cache) Get() (domain.Persona, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return domain.Persona{}, false
	}
	return *c.current, true
}

// Refresh fetches the current persona from the backend. Failures leave the
// cache unchanged and are only logged; a response is dropped if a newer
// refresh or explicit action was issued while it was in flight. It reports
// whether the response was applied.
func (c *Cache) Refresh(ctx context.Context) bool {
	c.mu.Lock()
	c.seq++
	mine := c.seq
	c.mu.Unlock()

	p, err := c.backend.Current(ctx)
	if err != nil {
		c.logger.DebugContext(ctx, "persona refresh failed", "error", err)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if mine != c.seq {
		c.logger.DebugContext(ctx, "discarding superseded persona refresh", "seq", mine, "latest", c.seq)
		return false
	}
	c.current = clonePersona(p)
	return true
}

// Select makes p the current persona immediately and writes it to the backend
// in the background. Selecting a persona without an ID clears.
func (c *Cache) Select(p domain.Persona) {
	if p.ID == "" {
		c.Clear()
		return
	}
	seq := c.setExplicit(clonePersona(&p))
	c.write(seq, "select", func(ctx context.Context) error { return c.backend.Select(ctx, p) })
}

// Clear drops the current persona immediately and clears it on the backend in
// the background.
func (c *Cache) Clear() {
	seq := c.setExplicit(nil)
	c.write(seq, "clear", c.backend.Clear)
}

// Wait blocks until background writes issued so far have finished or been
// skipped, and returns the failures seen since the previous Wait. The cached
// value is never rolled back on failure.
func (c *Cache) Wait() error {
	c.pending.Wait()
	c.mu.Lock()
	defer c.mu.Unlock()
	err := errors.Join(c.writeErrs...)
	c.writeErrs = nil
	return err
}

func (c *Cache) setExplicit(p *domain.Persona) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.explicitSeq = c.seq
	c.current = p
	return c.seq
}

func (c *Cache) superseded(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq != c.explicitSeq
}

// write runs fn in the background. Writes are serialized, and a write whose
// action was superseded before it got its turn is skipped.
func (c *Cache) write(seq uint64, op string, fn func(context.Context) error) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		c.writeMu.Lock()
		defer c.writeMu.Unlock()

		if c.superseded(seq) {
			c.logger.Debug("skipping superseded persona write", "op", op, "seq", seq)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			c.logger.Warn("persona write failed", "op", op, "error", err)
			c.mu.Lock()
			c.writeErrs = append(c.writeErrs, err)
			c.mu.Unlock()
		}
	}()
}

func clonePersona(p *domain.Persona) *domain.Persona {
	if p == nil || p.ID == "" {
		return nil
	}
	cp := *p
	return &cp
}
