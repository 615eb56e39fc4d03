package expiry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/chat-session-gateway/internal/client/apiclient"
	"github.com/target/chat-session-gateway/internal/client/events"
)

type recordingPrompter struct {
	n     atomic.Int32
	shown chan struct{}
}

func newRecordingPrompter() *recordingPrompter {
	return &recordingPrompter{shown: make(chan struct{}, 16)}
}

func (p *recordingPrompter) ShowExpiredPrompt(context.Context) {
	p.n.Add(1)
	p.shown <- struct{}{}
}

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
	err   error
	hook  func()
}

func (n *recordingNavigator) Navigate(_ context.Context, path string) error {
	if n.hook != nil {
		n.hook()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
	return n.err
}

func (n *recordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

func newCoordinator() (*Coordinator, *recordingPrompter, *recordingNavigator) {
	p := newRecordingPrompter()
	n := &recordingNavigator{}
	return New(Options{Prompter: p, Navigator: n}), p, n
}

func TestNew_RequiresDependencies(t *testing.T) {
	assert.Panics(t, func() { New(Options{}) })
}

func TestCoordinator_StartsIdle(t *testing.T) {
	c, _, _ := newCoordinator()
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, "idle", c.State().String())
}

func TestCoordinator_NotifyManyTimesPromptsOnce(t *testing.T) {
	c, p, _ := newCoordinator()

	assert.True(t, c.Notify(context.Background()))
	for range 10 {
		assert.False(t, c.Notify(context.Background()))
	}
	assert.Equal(t, int32(1), p.n.Load())
	assert.Equal(t, Notified, c.State())
}

func TestCoordinator_ConcurrentNotifyPromptsOnce(t *testing.T) {
	c, p, _ := newCoordinator()

	var wg sync.WaitGroup
	var raised atomic.Int32
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if c.Notify(context.Background()) {
				raised.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), raised.Load())
	assert.Equal(t, int32(1), p.n.Load())
}

func TestCoordinator_AcknowledgeFromNotified(t *testing.T) {
	c, _, n := newCoordinator()
	c.Notify(context.Background())

	require.NoError(t, c.Acknowledge(context.Background(), ToRegister))
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, []string{"/auth/register"}, n.Paths())

	// A fresh 401 after acknowledgement prompts again.
	assert.True(t, c.Notify(context.Background()))
}

func TestCoordinator_AcknowledgeFromIdleIsNoop(t *testing.T) {
	c, _, n := newCoordinator()

	require.NoError(t, c.Acknowledge(context.Background(), ToLogin))
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, n.Paths())
}

func TestCoordinator_AcknowledgeTwiceNavigatesOnce(t *testing.T) {
	c, _, n := newCoordinator()
	c.Notify(context.Background())

	require.NoError(t, c.Acknowledge(context.Background(), ToLogin))
	require.NoError(t, c.Acknowledge(context.Background(), ToLogin))
	assert.Equal(t, []string{"/auth/login"}, n.Paths())
}

func TestCoordinator_NotifyDuringNavigationIsNoop(t *testing.T) {
	c, p, n := newCoordinator()
	var during State
	var raisedDuring bool
	n.hook = func() {
		during = c.State()
		raisedDuring = c.Notify(context.Background())
	}
	c.Notify(context.Background())

	require.NoError(t, c.Acknowledge(context.Background(), ToLogin))
	assert.Equal(t, Acknowledged, during)
	assert.False(t, raisedDuring)
	assert.Equal(t, int32(1), p.n.Load())
	assert.Equal(t, Idle, c.State())
}

func TestCoordinator_AcknowledgeInvalidDestination(t *testing.T) {
	c, _, n := newCoordinator()
	c.Notify(context.Background())

	err := c.Acknowledge(context.Background(), Destination("https://evil.example.com"))
	require.ErrorIs(t, err, ErrInvalidDestination)
	assert.Equal(t, Notified, c.State())
	assert.Empty(t, n.Paths())
}

func TestCoordinator_NavigationErrorStillReturnsToIdle(t *testing.T) {
	c, _, n := newCoordinator()
	n.err = errors.New("window closed")
	c.Notify(context.Background())

	err := c.Acknowledge(context.Background(), ToLogin)
	require.ErrorContains(t, err, "window closed")
	assert.Equal(t, Idle, c.State())
}

func TestCoordinator_RunIsSoleSubscriber(t *testing.T) {
	c, _, _ := newCoordinator()
	bus := events.NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, bus) }()
	require.Eventually(t, func() bool { return bus.Subscribers(events.AuthExpired) == 1 }, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, c.Run(ctx, bus), ErrAlreadyRunning)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 0, bus.Subscribers(events.AuthExpired))
}

func TestCoordinator_RunReturnsWhenBusCloses(t *testing.T) {
	c, _, _ := newCoordinator()
	bus := events.NewBus()

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background(), bus) }()
	require.Eventually(t, func() bool { return bus.Subscribers(events.AuthExpired) == 1 }, time.Second, 5*time.Millisecond)

	bus.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after bus closed")
	}
}

// Two business calls fail concurrently with 401: one prompt, and one
// acknowledgement returns the coordinator to Idle.
func TestCoordinator_ConcurrentUnauthorizedCallsPromptOnce(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	bus := events.NewBus()
	c, p, n := newCoordinator()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx, bus) }()
	require.Eventually(t, func() bool { return bus.Subscribers(events.AuthExpired) == 1 }, time.Second, 5*time.Millisecond)

	api, err := apiclient.New(apiclient.Options{BaseURL: srv.URL, Events: bus})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, path := range []string{"/api/characters", "/api/chat/history"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = api.Get(ctx, path, nil)
		}()
	}
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.True(t, apiclient.HasStatus(err, http.StatusUnauthorized))
	}

	select {
	case <-p.shown:
	case <-time.After(time.Second):
		t.Fatal("prompt was not shown")
	}
	// Give any second delivery a chance to arrive before asserting.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), p.n.Load())
	assert.Equal(t, Notified, c.State())

	require.NoError(t, c.Acknowledge(ctx, ToLogin))
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, []string{"/auth/login"}, n.Paths())
}
