package rest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardline/portal-rest/http_errors"
)

type testRole string

func (r testRole) RoleName() string { return string(r) }

type testPrincipal struct {
	id   string
	role string
}

func (p *testPrincipal) GetPrincipalID() string   { return p.id }
func (p *testPrincipal) GetPrincipalRole() string { return p.role }

func TestCheckAccess(t *testing.T) {
	adminOnly := []EndpointRole{testRole("admin")}
	customerOnly := []EndpointRole{testRole("customer")}

	t.Run("public endpoint skips authentication", func(t *testing.T) {
		ep := &Endpoint{Public: true, Roles: adminOnly}
		ctx := &EndpointContext{}

		require.NoError(t, ep.checkAccess(ctx))
	})

	t.Run("missing principal is unauthorized", func(t *testing.T) {
		ep := &Endpoint{Roles: adminOnly}
		ctx := &EndpointContext{}

		err := ep.checkAccess(ctx)
		require.Error(t, err)

		resp, ok := err.(*http_errors.ErrorResponse)
		require.True(t, ok)
		assert.Equal(t, 401, resp.Code)
	})

	t.Run("empty role list allows any principal", func(t *testing.T) {
		ep := &Endpoint{}
		ctx := &EndpointContext{Principal: &testPrincipal{id: "u1", role: "customer"}}

		require.NoError(t, ep.checkAccess(ctx))
	})

	t.Run("matching role is allowed", func(t *testing.T) {
		ep := &Endpoint{Roles: customerOnly}
		ctx := &EndpointContext{Principal: &testPrincipal{id: "u1", role: "customer"}}

		require.NoError(t, ep.checkAccess(ctx))
	})

	t.Run("customer cannot reach admin endpoint", func(t *testing.T) {
		ep := &Endpoint{Roles: adminOnly}
		ctx := &EndpointContext{Principal: &testPrincipal{id: "u1", role: "customer"}}

		err := ep.checkAccess(ctx)
		require.Error(t, err)

		resp, ok := err.(*http_errors.ErrorResponse)
		require.True(t, ok)
		assert.Equal(t, 403, resp.Code)
	})

	t.Run("admin cannot reach customer endpoint", func(t *testing.T) {
		ep := &Endpoint{Roles: customerOnly}
		ctx := &EndpointContext{Principal: &testPrincipal{id: "a1", role: "admin"}}

		err := ep.checkAccess(ctx)
		require.Error(t, err)

		resp, ok := err.(*http_errors.ErrorResponse)
		require.True(t, ok)
		assert.Equal(t, 403, resp.Code)
	})

	t.Run("principal with several allowed roles", func(t *testing.T) {
		ep := &Endpoint{Roles: []EndpointRole{testRole("admin"), testRole("customer")}}

		for _, role := range []string{"admin", "customer"} {
			ctx := &EndpointContext{Principal: &testPrincipal{id: "u1", role: role}}
			require.NoError(t, ep.checkAccess(ctx))
		}
	})
}
