package guard

import "github.com/target/chat-session-gateway/internal/domain/auth"

// Decision is the outcome of evaluating a request: allow it through, or
// redirect to another path.
type Decision struct {
	Redirect string
}

// Allow lets the request through.
var Allow = Decision{} //nolint:gochecknoglobals // zero value sentinel

// RedirectTo builds a redirect decision.
func RedirectTo(path string) Decision { return Decision{Redirect: path} }

// Allowed reports whether the decision lets the request through.
func (d Decision) Allowed() bool { return d.Redirect == "" }

// RoleCheck is the result of an authoritative role verification.
type RoleCheck struct {
	Role auth.Role
	Err  error
}

// NeedsRoleCheck reports whether deciding on route requires a role verification.
// Only admin routes with a claimed session do.
func NeedsRoleCheck(route Route, hasSession bool) bool {
	return route.Class == ClassAdmin && hasSession
}

// Decide combines the route class, the session presence flag and, for admin
// routes, the role check into one decision. A nil or failed check on an admin
// route always denies.
func Decide(route Route, hasSession bool, check *RoleCheck) Decision {
	switch route.Class {
	case ClassLoggedOutOnly:
		if hasSession {
			return RedirectTo(DashboardPath)
		}
		if route.Legacy {
			return RedirectTo(LoginPath)
		}
		return Allow

	case ClassProtected:
		if !hasSession {
			return RedirectTo(LoginPath)
		}
		return Allow

	case ClassAdmin:
		if !hasSession {
			return RedirectTo(LoginPath)
		}
		if check == nil || check.Err != nil {
			return RedirectTo(LoginPath)
		}
		if !check.Role.IsAdmin() {
			return RedirectTo(DashboardPath)
		}
		return Allow

	default:
		return Allow
	}
}
