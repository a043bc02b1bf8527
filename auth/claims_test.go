package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentityPayload(t *testing.T) {
	t.Run("full payload", func(t *testing.T) {
		body := `{"clientPrincipal":{"userId":"u1","userDetails":"jane@example.com","userRoles":["authenticated"],"claims":[{"typ":"roles","val":"admin"}]}}`

		payload, err := ParseIdentityPayload([]byte(body))
		require.NoError(t, err)
		require.NotNil(t, payload.ClientPrincipal)
		assert.Equal(t, "u1", payload.ClientPrincipal.UserID)
		assert.Equal(t, "jane@example.com", payload.ClientPrincipal.UserDetails)
	})

	t.Run("null client principal means no session", func(t *testing.T) {
		payload, err := ParseIdentityPayload([]byte(`{"clientPrincipal":null}`))
		require.NoError(t, err)
		assert.Nil(t, payload.ClientPrincipal)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseIdentityPayload([]byte(`<html>not json</html>`))
		assert.Error(t, err)
	})
}

func TestNewPrincipalRoleClaims(t *testing.T) {
	t.Run("short and long form spellings are equivalent", func(t *testing.T) {
		short := &ClientPrincipal{
			UserID: "u1",
			Claims: []byte(`[{"typ":"roles","val":"admin"}]`),
		}
		long := &ClientPrincipal{
			UserID: "u1",
			Claims: []byte(`[{"typ":"http://schemas.microsoft.com/ws/2008/06/identity/claims/role","val":"admin"}]`),
		}

		p1, err := NewPrincipal(short)
		require.NoError(t, err)
		p2, err := NewPrincipal(long)
		require.NoError(t, err)

		assert.Equal(t, p1.Roles, p2.Roles)
		assert.True(t, p1.IsAdmin())
		assert.True(t, p2.IsAdmin())
	})

	t.Run("duplicate roles collapse preserving order", func(t *testing.T) {
		cp := &ClientPrincipal{
			UserID: "u1",
			Claims: []byte(`[
				{"typ":"roles","val":"customer"},
				{"typ":"http://schemas.microsoft.com/ws/2008/06/identity/claims/role","val":"admin"},
				{"typ":"roles","val":"customer"}
			]`),
		}

		principal, err := NewPrincipal(cp)
		require.NoError(t, err)
		assert.Equal(t, []string{"customer", "admin"}, principal.Roles)
	})

	t.Run("unrecognized claim types are ignored", func(t *testing.T) {
		cp := &ClientPrincipal{
			UserID: "u1",
			Claims: []byte(`[{"typ":"groups","val":"admin"},{"typ":"role","val":"admin"}]`),
		}

		principal, err := NewPrincipal(cp)
		require.NoError(t, err)
		assert.Empty(t, principal.Roles)
		assert.False(t, principal.IsAdmin())
	})

	t.Run("empty claim values are dropped", func(t *testing.T) {
		cp := &ClientPrincipal{
			UserID: "u1",
			Claims: []byte(`[{"typ":"roles","val":""}]`),
		}

		principal, err := NewPrincipal(cp)
		require.NoError(t, err)
		assert.Empty(t, principal.Roles)
	})
}

func TestNewPrincipalUserRolesFallback(t *testing.T) {
	t.Run("userRoles used when claims absent", func(t *testing.T) {
		cp := &ClientPrincipal{
			UserID:    "u1",
			UserRoles: []string{"authenticated", "customer", "customer"},
		}

		principal, err := NewPrincipal(cp)
		require.NoError(t, err)
		assert.Equal(t, []string{"authenticated", "customer"}, principal.Roles)
	})

	t.Run("userRoles used when claims yield no roles", func(t *testing.T) {
		cp := &ClientPrincipal{
			UserID:    "u1",
			UserRoles: []string{"admin"},
			Claims:    []byte(`[{"typ":"emails","val":"x@example.com"}]`),
		}

		principal, err := NewPrincipal(cp)
		require.NoError(t, err)
		assert.Equal(t, []string{"admin"}, principal.Roles)
	})

	t.Run("role claims win over userRoles", func(t *testing.T) {
		cp := &ClientPrincipal{
			UserID:    "u1",
			UserRoles: []string{"admin"},
			Claims:    []byte(`[{"typ":"roles","val":"customer"}]`),
		}

		principal, err := NewPrincipal(cp)
		require.NoError(t, err)
		assert.Equal(t, []string{"customer"}, principal.Roles)
		assert.False(t, principal.IsAdmin())
	})
}

func TestNewPrincipalMalformedClaims(t *testing.T) {
	cp := &ClientPrincipal{
		UserID:      "u1",
		UserDetails: "jane@example.com",
		UserRoles:   []string{"customer"},
		Claims:      []byte(`{"typ":"roles","val":"admin"}`), // object, not array
	}

	principal, err := NewPrincipal(cp)
	assert.ErrorIs(t, err, ErrMalformedClaims)
	require.NotNil(t, principal)
	assert.Equal(t, "u1", principal.ID)
	// Malformed claims degrade to the fallback, they never grant roles.
	assert.Equal(t, []string{"customer"}, principal.Roles)
	assert.Equal(t, "jane@example.com", principal.Email)
}

func TestNewPrincipalEmail(t *testing.T) {
	t.Run("email claim wins over userDetails", func(t *testing.T) {
		cp := &ClientPrincipal{
			UserID:      "u1",
			UserDetails: "display-name",
			Claims:      []byte(`[{"typ":"emails","val":"real@example.com"}]`),
		}

		principal, err := NewPrincipal(cp)
		require.NoError(t, err)
		assert.Equal(t, "real@example.com", principal.Email)
		assert.Equal(t, "display-name", principal.DisplayName)
	})

	t.Run("all email claim spellings are recognized", func(t *testing.T) {
		spellings := []string{
			"emails",
			"email",
			"http://schemas.microsoft.com/ws/2008/06/identity/claims/email",
			"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress",
		}

		for _, typ := range spellings {
			cp := &ClientPrincipal{
				UserID: "u1",
				Claims: []byte(`[{"typ":"` + typ + `","val":"claimed@example.com"}]`),
			}

			principal, err := NewPrincipal(cp)
			require.NoError(t, err)
			assert.Equal(t, "claimed@example.com", principal.Email, "claim type %s", typ)
		}
	})

	t.Run("first email claim wins", func(t *testing.T) {
		cp := &ClientPrincipal{
			UserID: "u1",
			Claims: []byte(`[{"typ":"emails","val":"first@example.com"},{"typ":"email","val":"second@example.com"}]`),
		}

		principal, err := NewPrincipal(cp)
		require.NoError(t, err)
		assert.Equal(t, "first@example.com", principal.Email)
	})
}

func TestPrincipalRolePartition(t *testing.T) {
	admin := &Principal{ID: "a", Roles: []string{"authenticated", RoleAdmin}}
	customer := &Principal{ID: "c", Roles: []string{"authenticated", RoleCustomer}}
	none := &Principal{ID: "n"}

	assert.Equal(t, RoleAdmin, admin.GetPrincipalRole())
	assert.Equal(t, RoleCustomer, customer.GetPrincipalRole())
	assert.Equal(t, RoleCustomer, none.GetPrincipalRole())
}

func TestAuthStateDerivedFlags(t *testing.T) {
	assert.False(t, AuthState{}.IsAuthenticated())
	assert.False(t, AuthState{}.IsAdmin())

	customer := AuthState{Principal: &Principal{ID: "c", Roles: []string{RoleCustomer}}}
	assert.True(t, customer.IsAuthenticated())
	assert.False(t, customer.IsAdmin())

	admin := AuthState{Principal: &Principal{ID: "a", Roles: []string{RoleAdmin}}}
	assert.True(t, admin.IsAuthenticated())
	assert.True(t, admin.IsAdmin())
}
