// Package apiclient is the HTTP client every business-API call goes through.
// Its Transport publishes events.AuthExpired on 401 so that no call site has
// to own the expiry prompt.
package apiclient

import (
	"net/http"

	"github.com/target/chat-session-gateway/internal/client/events"
)

// Publisher receives lifecycle events. *events.Bus implements it.
type Publisher interface {
	Publish(topic events.Topic)
}

// Transport wraps a RoundTripper. On a 401 response it publishes exactly one
// AuthExpired event and returns the response unchanged. It never retries, and
// 403 is passed through silently.
type Transport struct {
	Base   http.RoundTripper // http.DefaultTransport when nil
	Events Publisher
}

var _ http.RoundTripper = (*Transport)(nil)

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && t.Events != nil {
		t.Events.Publish(events.AuthExpired)
	}
	return resp, nil
}
