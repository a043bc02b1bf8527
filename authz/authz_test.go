package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardline/portal-rest/auth"
)

func adminState() auth.AuthState {
	return auth.AuthState{Principal: &auth.Principal{ID: "a", Roles: []string{auth.RoleAdmin}}}
}

func customerState() auth.AuthState {
	return auth.AuthState{Principal: &auth.Principal{ID: "c", Roles: []string{auth.RoleCustomer}}}
}

func TestRequiredRole(t *testing.T) {
	policy := NewPolicy()

	cases := map[string]RoleClass{
		"/":                  RouteLanding,
		"/login":             RoutePublic,
		"/dashboard":         RouteCustomer,
		"/cards":             RouteCustomer,
		"/transactions":      RouteCustomer,
		"/payment":           RouteCustomer,
		"/rewards":           RouteCustomer,
		"/statements":        RouteCustomer,
		"/admin":             RouteAdmin,
		"/admin/users":       RouteAdmin,
		"/admin/fees/123":    RouteAdmin,
		"/administration":    RouteUnknown,
		"/settings":          RouteUnknown,
		"/dashboard/nested":  RouteUnknown,
	}

	for path, want := range cases {
		assert.Equal(t, want, policy.RequiredRole(path), "path %s", path)
	}
}

func TestEvaluateLoadingAllowsEverything(t *testing.T) {
	policy := NewPolicy()
	loading := auth.AuthState{Loading: true}

	for _, path := range []string{"/", "/login", "/dashboard", "/admin", "/nowhere"} {
		decision := policy.Evaluate(loading, path)
		assert.True(t, decision.Allowed, "path %s", path)
		assert.Empty(t, decision.RedirectTo, "path %s", path)
	}
}

func TestEvaluateUnauthenticatedAlwaysGoesToLogin(t *testing.T) {
	policy := NewPolicy()

	// Every path, including /login itself: the caller renders a
	// redirect-to-self as the login view.
	for _, path := range []string{"/", "/login", "/dashboard", "/cards", "/admin", "/admin/users", "/nowhere"} {
		decision := policy.Evaluate(auth.AuthState{}, path)
		assert.False(t, decision.Allowed, "path %s", path)
		assert.Equal(t, LoginPath, decision.RedirectTo, "path %s", path)
	}
}

func TestEvaluateCustomer(t *testing.T) {
	policy := NewPolicy()
	state := customerState()

	t.Run("customer routes allowed", func(t *testing.T) {
		for _, path := range []string{"/dashboard", "/cards", "/transactions", "/payment", "/rewards", "/statements"} {
			decision := policy.Evaluate(state, path)
			assert.True(t, decision.Allowed, "path %s", path)
		}
	})

	t.Run("admin surface redirects to dashboard", func(t *testing.T) {
		for _, path := range []string{"/admin", "/admin/users", "/admin/whatever"} {
			decision := policy.Evaluate(state, path)
			assert.Equal(t, DashboardPath, decision.RedirectTo, "path %s", path)
		}
	})

	t.Run("landing forwards to dashboard", func(t *testing.T) {
		assert.Equal(t, DashboardPath, policy.Evaluate(state, "/").RedirectTo)
	})

	t.Run("unknown path goes to login", func(t *testing.T) {
		assert.Equal(t, LoginPath, policy.Evaluate(state, "/nowhere").RedirectTo)
	})

	t.Run("login page allowed while signed in", func(t *testing.T) {
		assert.True(t, policy.Evaluate(state, "/login").Allowed)
	})
}

func TestEvaluateAdmin(t *testing.T) {
	policy := NewPolicy()
	state := adminState()

	t.Run("admin surface allowed", func(t *testing.T) {
		for _, path := range []string{"/admin", "/admin/users", "/admin/fees/override"} {
			decision := policy.Evaluate(state, path)
			assert.True(t, decision.Allowed, "path %s", path)
		}
	})

	t.Run("everything else redirects to admin", func(t *testing.T) {
		for _, path := range []string{"/", "/login", "/dashboard", "/cards", "/statements", "/nowhere"} {
			decision := policy.Evaluate(state, path)
			assert.False(t, decision.Allowed, "path %s", path)
			assert.Equal(t, AdminPath, decision.RedirectTo, "path %s", path)
		}
	})
}

func TestEvaluatePathNormalization(t *testing.T) {
	policy := NewPolicy()
	state := customerState()

	assert.True(t, policy.Evaluate(state, "/dashboard/").Allowed)
	assert.True(t, policy.Evaluate(state, "dashboard").Allowed)
	assert.Equal(t, DashboardPath, policy.Evaluate(state, "").RedirectTo)
	// Admin prefix matching is on segments, not raw strings.
	assert.Equal(t, LoginPath, policy.Evaluate(state, "/administration").RedirectTo)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	policy := NewPolicy()

	states := []auth.AuthState{{}, {Loading: true}, customerState(), adminState()}
	paths := []string{"/", "/login", "/dashboard", "/admin", "/admin/users", "/nowhere"}

	for _, state := range states {
		for _, path := range paths {
			first := policy.Evaluate(state, path)
			second := policy.Evaluate(state, path)
			assert.Equal(t, first, second, "path %s", path)
		}
	}
}

func TestDecisionNeverBothAllowedAndRedirecting(t *testing.T) {
	policy := NewPolicy()

	states := []auth.AuthState{{}, {Loading: true}, customerState(), adminState()}
	paths := []string{"/", "/login", "/dashboard", "/cards", "/admin", "/admin/x", "/unknown"}

	for _, state := range states {
		for _, path := range paths {
			decision := policy.Evaluate(state, path)
			if decision.Allowed {
				assert.Empty(t, decision.RedirectTo, "path %s", path)
			} else {
				assert.NotEmpty(t, decision.RedirectTo, "path %s", path)
			}
		}
	}
}
