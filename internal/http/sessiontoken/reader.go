// Package sessiontoken derives the session presence flag from request cookies.
//
// Presence is not validity; signature and expiry checks belong to whichever
// service issued the cookie.
package sessiontoken

import (
	"net/http"
	"strings"
)

// DefaultCookieName is the cookie the built-in auth flow issues.
const DefaultCookieName = "session_id"

// Reader checks for any of the configured session cookies. The zero value
// looks for DefaultCookieName.
type Reader struct {
	Names []string
}

// NewReader returns a Reader for the given cookie names, dropping blanks.
func NewReader(names ...string) Reader {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return Reader{Names: out}
}

func (r Reader) names() []string {
	if len(r.Names) == 0 {
		return []string{DefaultCookieName}
	}
	return r.Names
}

// Value returns the first non-empty session cookie value in configured order.
func (r Reader) Value(req *http.Request) (string, bool) {
	if req == nil {
		return "", false
	}
	for _, name := range r.names() {
		c, err := req.Cookie(name)
		if err != nil {
			continue
		}
		if v := strings.TrimSpace(c.Value); v != "" {
			return v, true
		}
	}
	return "", false
}

// Present reports whether the request claims a session. No backend is contacted.
func (r Reader) Present(req *http.Request) bool {
	_, ok := r.Value(req)
	return ok
}
