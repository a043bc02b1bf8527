package auth

import (
	"encoding/json"

	"github.com/bytedance/sonic"
	goerrors "github.com/go-errors/errors"
)

// ErrMalformedClaims reports a claims array that is not shaped as
// [{"typ": ..., "val": ...}]. It is recoverable: the principal is still
// built, with empty role and email sets.
var ErrMalformedClaims = goerrors.Errorf("malformed claims payload")

// Claim is a single typed assertion from the identity provider.
type Claim struct {
	Type  string `json:"typ"`
	Value string `json:"val"`
}

// ClientPrincipal mirrors the identity endpoint payload. Claims stays raw
// until parseClaims validates it, so one malformed entry cannot take the
// whole principal down with it.
type ClientPrincipal struct {
	UserID      string          `json:"userId"`
	UserDetails string          `json:"userDetails"`
	UserRoles   []string        `json:"userRoles"`
	Claims      json.RawMessage `json:"claims"`
}

// IdentityPayload is the body of GET /.auth/me. A null clientPrincipal means
// there is no SSO session.
type IdentityPayload struct {
	ClientPrincipal *ClientPrincipal `json:"clientPrincipal"`
}

// Recognized claim-type spellings. Short forms and long-form URI spellings
// are equivalent; the sets are closed and versioned here.
var roleClaimTypes = map[string]bool{
	"roles": true,
	"http://schemas.microsoft.com/ws/2008/06/identity/claims/role": true,
}

var emailClaimTypes = map[string]bool{
	"emails": true,
	"email":  true,
	"http://schemas.microsoft.com/ws/2008/06/identity/claims/email":       true,
	"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress":  true,
}

// ParseIdentityPayload decodes the identity endpoint body. A decode failure
// means the endpoint did not return the expected JSON shape; callers treat
// that as "no identity provider configured".
func ParseIdentityPayload(data []byte) (*IdentityPayload, error) {
	var payload IdentityPayload
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return nil, goerrors.Wrap(err, 0)
	}
	return &payload, nil
}

func parseClaims(raw json.RawMessage) ([]Claim, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var claims []Claim
	if err := sonic.Unmarshal(raw, &claims); err != nil {
		return nil, ErrMalformedClaims
	}
	return claims, nil
}

// NewPrincipal normalizes a client principal into a typed Principal.
//
// Precedence rules (documented here because reviewed variants disagreed):
//   - Claims are authoritative for roles. userRoles is consulted only when
//     the claims array yields no role claims at all (absent, empty, or
//     malformed), which keeps simpler identity-provider responses working.
//   - A dedicated email claim wins over userDetails; userDetails is both
//     display name and email otherwise.
//
// The returned error is at most ErrMalformedClaims; the principal is valid
// either way.
func NewPrincipal(cp *ClientPrincipal) (*Principal, error) {
	claims, claimsErr := parseClaims(cp.Claims)

	roles := collectRoles(claims)
	if len(roles) == 0 {
		roles = dedupe(cp.UserRoles)
	}

	email := cp.UserDetails
	for _, claim := range claims {
		if emailClaimTypes[claim.Type] && claim.Value != "" {
			email = claim.Value
			break
		}
	}

	return &Principal{
		ID:          cp.UserID,
		DisplayName: cp.UserDetails,
		Email:       email,
		Roles:       roles,
	}, claimsErr
}

func collectRoles(claims []Claim) []string {
	var roles []string
	seen := map[string]bool{}
	for _, claim := range claims {
		if !roleClaimTypes[claim.Type] || claim.Value == "" {
			continue
		}
		if seen[claim.Value] {
			continue
		}
		seen[claim.Value] = true
		roles = append(roles, claim.Value)
	}
	return roles
}

func dedupe(values []string) []string {
	var result []string
	seen := map[string]bool{}
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	return result
}
