// Package authz decides, for every SPA navigation, whether the requested
// path may render or where the user must be redirected instead. The portal
// partitions its surfaces strictly: admins never see customer screens and
// customers never see admin screens, even through bookmarks or manual URL
// entry.
package authz

import (
	"strings"

	"github.com/cardline/portal-rest/auth"
)

// RoleClass is the access class a route requires.
type RoleClass string

const (
	RoutePublic   RoleClass = "public"
	RouteCustomer RoleClass = "customer"
	RouteAdmin    RoleClass = "admin"
	// RouteLanding is the bare "/" route: it always forwards to the
	// signed-in user's home surface.
	RouteLanding RoleClass = "landing"
	// RouteUnknown is any path outside the route table.
	RouteUnknown RoleClass = "unknown"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
	AdminPath     = "/admin"
)

// Decision is the outcome of one evaluation: render the requested view, or
// navigate elsewhere. Evaluating the same state and path twice always
// produces the same decision.
type Decision struct {
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func RedirectTo(path string) Decision {
	return Decision{RedirectTo: path}
}

// Policy is the static route table, defined once at build time.
type Policy struct {
	customerRoutes map[string]bool
	publicRoutes   map[string]bool
}

// NewPolicy returns the portal's route table.
func NewPolicy() *Policy {
	return &Policy{
		customerRoutes: map[string]bool{
			"/dashboard":    true,
			"/cards":        true,
			"/transactions": true,
			"/payment":      true,
			"/rewards":      true,
			"/statements":   true,
		},
		publicRoutes: map[string]bool{
			LoginPath: true,
		},
	}
}

// RequiredRole classifies a path. Admin routes are prefix-matched so nested
// admin screens inherit the restriction; customer routes are the enumerated
// application pages.
func (p *Policy) RequiredRole(path string) RoleClass {
	path = normalizePath(path)

	switch {
	case path == "/":
		return RouteLanding
	case isAdminPath(path):
		return RouteAdmin
	case p.publicRoutes[path]:
		return RoutePublic
	case p.customerRoutes[path]:
		return RouteCustomer
	default:
		return RouteUnknown
	}
}

// Evaluate maps an AuthState and a requested path to a decision. The rules
// run in a fixed order because several of them can match at once; the order
// is the contract:
//
//  1. resolution still in flight: allow (render the loading view, decide
//     nothing yet)
//  2. unauthenticated: to /login
//  3. route requires admin, user is not admin: to /dashboard
//  4. admin outside the admin surface: to /admin
//  5. non-admin inside the admin surface: to /dashboard (subsumed by rule 3,
//     kept explicit for unknown admin-prefixed paths)
//  6. otherwise allow; paths outside the route table land on /login
func (p *Policy) Evaluate(state auth.AuthState, path string) Decision {
	path = normalizePath(path)
	required := p.RequiredRole(path)

	if state.Loading {
		return Allow()
	}

	if !state.IsAuthenticated() {
		return RedirectTo(LoginPath)
	}

	if required == RouteAdmin && !state.IsAdmin() {
		return RedirectTo(DashboardPath)
	}

	if state.IsAdmin() && !isAdminPath(path) {
		return RedirectTo(AdminPath)
	}

	if !state.IsAdmin() && isAdminPath(path) {
		return RedirectTo(DashboardPath)
	}

	switch required {
	case RouteLanding:
		// Authenticated non-admins land on the dashboard; admins were
		// already sent to /admin by rule 4.
		return RedirectTo(DashboardPath)
	case RouteUnknown:
		return RedirectTo(LoginPath)
	default:
		return Allow()
	}
}

func isAdminPath(path string) bool {
	return path == AdminPath || strings.HasPrefix(path, AdminPath+"/")
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
