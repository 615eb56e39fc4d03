package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordedMetric struct {
	kind  string
	name  string
	tags  map[string]string
	value time.Duration
}

type recordingSink struct {
	mu      sync.Mutex
	metrics []recordedMetric
}

func (s *recordingSink) Count(name string, _ int64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, recordedMetric{kind: "count", name: name, tags: tags})
}

func (s *recordingSink) Timing(name string, d time.Duration, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, recordedMetric{kind: "timing", name: name, tags: tags, value: d})
}

func TestEmitGuardDecision(t *testing.T) {
	sink := &recordingSink{}
	EmitGuardDecision(sink, GuardDecision{Class: "admin_protected", Outcome: OutcomeRedirect, Reason: "not_admin", Redirect: "/dashboard"})
	EmitGuardDecision(sink, GuardDecision{Class: "public", Outcome: OutcomeAllow})

	assert.Len(t, sink.metrics, 2)
	assert.Equal(t, "guard.decision", sink.metrics[0].name)
	assert.Equal(t, map[string]string{
		"class": "admin_protected", "outcome": "redirect", "reason": "not_admin", "target": "/dashboard",
	}, sink.metrics[0].tags)
	assert.Equal(t, map[string]string{"class": "public", "outcome": "allow"}, sink.metrics[1].tags)
}

func TestEmitVerify(t *testing.T) {
	sink := &recordingSink{}
	EmitVerify(sink, 20*time.Millisecond, nil)
	EmitVerify(sink, time.Second, errors.New("timeout"))

	assert.Equal(t, "success", sink.metrics[0].tags["result"])
	assert.Equal(t, 20*time.Millisecond, sink.metrics[0].value)
	assert.Equal(t, "error", sink.metrics[1].tags["result"])
}

func TestEmit_NilSink(t *testing.T) {
	assert.NotPanics(t, func() {
		EmitGuardDecision(nil, GuardDecision{})
		EmitVerify(nil, time.Second, nil)
	})
}
