// Package metrics turns gateway events into statsd metrics.
package metrics

import (
	"time"

	"github.com/target/chat-session-gateway/internal/observability/statsd"
)

// Outcome tag values for guard decisions.
const (
	OutcomeAllow    = "allow"
	OutcomeRedirect = "redirect"
)

// Result tag values for verifier calls.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// GuardDecision describes one evaluated request.
type GuardDecision struct {
	Class    string
	Outcome  string
	Reason   string
	Redirect string
}

// EmitGuardDecision counts guard.decision with class, outcome and reason tags.
func EmitGuardDecision(sink statsd.Sink, in GuardDecision) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"class":   in.Class,
		"outcome": in.Outcome,
	}
	if in.Reason != "" {
		tags["reason"] = in.Reason
	}
	if in.Redirect != "" {
		tags["target"] = in.Redirect
	}
	sink.Count("guard.decision", 1, tags)
}

// EmitVerify records guard.verify timing tagged by result.
func EmitVerify(sink statsd.Sink, d time.Duration, err error) {
	if sink == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	sink.Timing("guard.verify", d, map[string]string{"result": result})
}
