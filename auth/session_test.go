package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStoreCreateAndLookup(t *testing.T) {
	store := NewSessionStore(time.Hour)
	principal := &Principal{ID: "u1", Roles: []string{RoleCustomer}}

	token := store.Create(principal)
	require.NotEmpty(t, token.Token)
	assert.Equal(t, "u1", token.GetUserId())
	assert.Equal(t, RoleCustomer, token.GetUserType())

	got, gotToken := store.Lookup(token.Token)
	require.NotNil(t, got)
	assert.Equal(t, principal, got)
	assert.Equal(t, token, gotToken)
}

func TestSessionStoreUnknownToken(t *testing.T) {
	store := NewSessionStore(time.Hour)

	principal, token := store.Lookup("nope")
	assert.Nil(t, principal)
	assert.Nil(t, token)

	principal, token = store.Lookup("")
	assert.Nil(t, principal)
	assert.Nil(t, token)
}

func TestSessionStoreExpiry(t *testing.T) {
	store := NewSessionStore(time.Hour)
	token := store.Create(&Principal{ID: "u1"})

	// Force expiry instead of sleeping.
	token.ExpiresAt = time.Now().Add(-time.Minute).Unix()

	principal, _ := store.Lookup(token.Token)
	assert.Nil(t, principal)

	// The expired entry is dropped, not just hidden.
	store.mu.RLock()
	_, exists := store.sessions[token.Token]
	store.mu.RUnlock()
	assert.False(t, exists)
}

func TestSessionStoreRevoke(t *testing.T) {
	store := NewSessionStore(time.Hour)
	token := store.Create(&Principal{ID: "u1"})

	store.Revoke(token.Token)

	principal, _ := store.Lookup(token.Token)
	assert.Nil(t, principal)
}

func TestSessionStoreRevokeUser(t *testing.T) {
	store := NewSessionStore(time.Hour)
	first := store.Create(&Principal{ID: "u1"})
	second := store.Create(&Principal{ID: "u1"})
	other := store.Create(&Principal{ID: "u2"})

	store.RevokeUser("u1")

	p, _ := store.Lookup(first.Token)
	assert.Nil(t, p)
	p, _ = store.Lookup(second.Token)
	assert.Nil(t, p)

	p, _ = store.Lookup(other.Token)
	require.NotNil(t, p)
	assert.Equal(t, "u2", p.ID)
}

func TestSessionStoreDefaultTTL(t *testing.T) {
	store := NewSessionStore(0)
	assert.Equal(t, 12*time.Hour, store.ttl)
}
