// Package expiry drives the single session-expired prompt.
//
// The Coordinator is the only component that raises or resets the prompt. It
// listens for events.AuthExpired and collapses any number of them into one
// prompt until the user acknowledges it.
package expiry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/target/chat-session-gateway/internal/client/events"
	"github.com/target/chat-session-gateway/internal/domain/guard"
)

// State is the coordinator's lifecycle state.
type State int

const (
	Idle State = iota
	Notified
	Acknowledged
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Notified:
		return "notified"
	case Acknowledged:
		return "acknowledged"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Destination is where an acknowledged prompt navigates.
type Destination string

const (
	ToLogin    Destination = guard.LoginPath
	ToRegister Destination = guard.RegisterPath
)

var (
	// ErrInvalidDestination is returned by Acknowledge for destinations other than login or register.
	ErrInvalidDestination = errors.New("expiry: destination must be login or register")
	// ErrAlreadyRunning is returned when Run is called while another Run is active.
	ErrAlreadyRunning = errors.New("expiry: coordinator already subscribed")
)

// Prompter surfaces the session-expired prompt to the user.
type Prompter interface {
	ShowExpiredPrompt(ctx context.Context)
}

// Navigator performs a client-side navigation.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}

// Subscriber is the subscribe half of the event bus. *events.Bus implements it.
type Subscriber interface {
	Subscribe(topic events.Topic) (func(), <-chan struct{})
}

// Options groups dependencies for a Coordinator.
type Options struct {
	Prompter  Prompter  // Required
	Navigator Navigator // Required
	Logger    *slog.Logger
}

// Coordinator is safe for concurrent use. The prompter and navigator are
// invoked outside the lock by the goroutine that performed the transition.
type Coordinator struct {
	prompter  Prompter
	navigator Navigator
	logger    *slog.Logger

	mu      sync.Mutex
	state   State
	running atomic.Bool
}

// New constructs a Coordinator in the Idle state.
func New(opts Options) *Coordinator {
	if opts.Prompter == nil || opts.Navigator == nil {
		panic("expiry coordinator: Prompter and Navigator are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		prompter:  opts.Prompter,
		navigator: opts.Navigator,
		logger:    logger.With("component", "expiry_coordinator"),
	}
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Notify moves Idle to Notified and shows the prompt. In any other state it is
// a no-op. It reports whether this call raised the prompt.
func (c *Coordinator) Notify(ctx context.Context) bool {
	c.mu.Lock()
	if c.state != Idle {
		c.mu.Unlock()
		return false
	}
	c.state = Notified
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "session expired; prompting user")
	c.prompter.ShowExpiredPrompt(ctx)
	return true
}

// Acknowledge resolves an active prompt: it navigates to dest and returns to
// Idle. Called from Idle or while a previous acknowledgement is still
// navigating, it is a no-op and returns nil.
func (c *Coordinator) Acknowledge(ctx context.Context, dest Destination) error {
	if dest != ToLogin && dest != ToRegister {
		return fmt.Errorf("%w: %q", ErrInvalidDestination, dest)
	}

	c.mu.Lock()
	if c.state != Notified {
		c.mu.Unlock()
		return nil
	}
	c.state = Acknowledged
	c.mu.Unlock()

	err := c.navigator.Navigate(ctx, string(dest))

	c.mu.Lock()
	c.state = Idle
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("navigate to %s: %w", dest, err)
	}
	return nil
}

// Run subscribes to AuthExpired and calls Notify per event until ctx is done
// or the bus closes. Only one Run may be active at a time.
func (c *Coordinator) Run(ctx context.Context, bus Subscriber) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	unsub, ch := bus.Subscribe(events.AuthExpired)
	defer unsub()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			c.Notify(ctx)
		}
	}
}
