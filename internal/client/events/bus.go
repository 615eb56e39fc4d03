// Package events is the process-wide publish/subscribe channel for client
// lifecycle signals. Events carry no payload.
package events

import "sync"

// Topic names an event stream.
type Topic string

// AuthExpired is published when a business call comes back 401.
const AuthExpired Topic = "authExpired"

// Bus fans events out to subscribers. Each subscriber has a one-slot buffer, so
// a burst of publishes while a subscriber is busy coalesces into one delivery.
// Publish never blocks. The zero value is not usable; call NewBus.
type Bus struct {
	mu     sync.Mutex
	subs   map[Topic]map[chan struct{}]struct{}
	closed bool
}

// NewBus constructs an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic]map[chan struct{}]struct{})}
}

// Subscribe registers a receiver for topic. The returned func unsubscribes and
// closes the channel; calling it more than once is safe.
func (b *Bus) Subscribe(topic Topic) (func(), <-chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan struct{}, 1)
	if b.closed {
		close(ch)
		return func() {}, ch
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan struct{}]struct{})
	}
	b.subs[topic][ch] = struct{}{}

	unsub := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subscribers := b.subs[topic]
		if _, ok := subscribers[ch]; !ok {
			return
		}
		delete(subscribers, ch)
		drainAndClose(ch)
		if len(subscribers) == 0 {
			delete(b.subs, topic)
		}
	}
	return unsub, ch
}

// Publish signals every subscriber of topic without blocking.
func (b *Bus) Publish(topic Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions for topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}

// Close closes every subscription. Later subscribers receive a closed channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for topic, subscribers := range b.subs {
		for ch := range subscribers {
			drainAndClose(ch)
		}
		delete(b.subs, topic)
	}
}

// drainAndClose drops any buffered signal so receivers see the close at once.
func drainAndClose(ch chan struct{}) {
	for {
		select {
		case <-ch:
		default:
			close(ch)
			return
		}
	}
}
