// Package guard holds the pure route classification and access decision logic
// evaluated for every navigation request before a page is rendered.
package guard

import "strings"

// Classification is the access-control tier of a request path.
type Classification string

const (
	// ClassPublic needs no session.
	ClassPublic Classification = "public"
	// ClassLoggedOutOnly is only reachable without a session (login, register).
	ClassLoggedOutOnly Classification = "logged_out_only"
	// ClassProtected requires any session.
	ClassProtected Classification = "protected"
	// ClassAdmin requires a session and a verified admin role.
	ClassAdmin Classification = "admin_protected"
)

// Well-known redirect targets.
const (
	LoginPath     = "/auth/login"
	RegisterPath  = "/auth/register"
	DashboardPath = "/dashboard"
)

// Route is a single entry of the route table.
type Route struct {
	// Prefix matches the path itself and anything below it ("/chat" matches
	// "/chat" and "/chat/42" but not "/chatter").
	Prefix string
	Class  Classification
	// Legacy marks old auth aliases which send signed-out callers to LoginPath
	// instead of rendering.
	Legacy bool
}

// Matches reports whether path falls under the route prefix.
func (r Route) Matches(path string) bool {
	prefix := strings.TrimSuffix(r.Prefix, "/")
	if prefix == "" {
		return false
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

// Table is an ordered route table; the first matching route wins.
type Table []Route

// publicRoute is returned for paths no table entry claims.
var publicRoute = Route{Class: ClassPublic} //nolint:gochecknoglobals // immutable zero route

// Classify returns the first route matching path, or a public route.
func (t Table) Classify(path string) Route {
	path = normalizePath(path)
	for _, r := range t {
		if r.Matches(path) {
			return r
		}
	}
	return publicRoute
}

// DefaultTable returns the route table of the chat application. It must list
// every protected prefix; anything missing here is served as public.
func DefaultTable() Table {
	return Table{
		{Prefix: "/auth/login", Class: ClassLoggedOutOnly},
		{Prefix: "/auth/register", Class: ClassLoggedOutOnly},
		{Prefix: "/auth/signup", Class: ClassLoggedOutOnly},
		{Prefix: "/login", Class: ClassLoggedOutOnly, Legacy: true},
		{Prefix: "/register", Class: ClassLoggedOutOnly, Legacy: true},
		{Prefix: "/signup", Class: ClassLoggedOutOnly, Legacy: true},

		{Prefix: "/dashboard", Class: ClassProtected},
		{Prefix: "/characters", Class: ClassProtected},
		{Prefix: "/personas", Class: ClassProtected},
		{Prefix: "/profile", Class: ClassProtected},
		{Prefix: "/chat", Class: ClassProtected},

		{Prefix: "/admin", Class: ClassAdmin},
	}
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}
