package httpx

import (
	"net/http"
	"strings"
	"time"
)

const (
	stateCookie        = "oauth_state"
	nonceCookie        = "oauth_nonce"
	postLoginCookie    = "post_login_redirect"
	flowCookieLifetime = 10 * time.Minute
)

// cookieJar writes the cookies of the built-in auth flow. All cookies are
// HttpOnly and SameSite=Lax; Secure follows the inbound scheme.
type cookieJar struct {
	domain string
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

func (j cookieJar) set(w http.ResponseWriter, r *http.Request, c http.Cookie) {
	c.Path = "/"
	c.Domain = j.domain
	c.HttpOnly = true
	c.Secure = isSecureRequest(r)
	c.SameSite = http.SameSiteLaxMode
	http.SetCookie(w, &c)
}

func (j cookieJar) setFlow(w http.ResponseWriter, r *http.Request, name, value string) {
	j.set(w, r, http.Cookie{Name: name, Value: value, MaxAge: int(flowCookieLifetime.Seconds())})
}

func (j cookieJar) setSession(w http.ResponseWriter, r *http.Request, name, id string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	j.set(w, r, http.Cookie{Name: name, Value: id, MaxAge: maxAge})
}

func (j cookieJar) clear(w http.ResponseWriter, r *http.Request, name string) {
	j.set(w, r, http.Cookie{Name: name, MaxAge: -1, Expires: time.Unix(0, 0).UTC()})
}

func equalFold(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), b) }

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
