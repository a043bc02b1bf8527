package auth

// Role names are normalized to these two values. The portal has a strict
// role partition: a principal is either an admin or a customer, never both
// surfaces at once.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// Role implements rest.EndpointRole so endpoints can declare the roles that
// may call them.
type Role string

func (r Role) RoleName() string { return string(r) }

// Principal is the resolved identity of the current user. It is immutable
// once constructed: a re-login replaces it wholesale and a logout discards
// it. Nothing patches a Principal field by field.
type Principal struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"name"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	IsLocked    bool     `json:"isLocked"`
}

func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p *Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}

// GetPrincipalID implements rest.Principal.
func (p *Principal) GetPrincipalID() string { return p.ID }

// GetPrincipalRole implements rest.Principal. The normalized role collapses
// the role set to the portal's two role classes.
func (p *Principal) GetPrincipalRole() string {
	if p.IsAdmin() {
		return RoleAdmin
	}
	return RoleCustomer
}

// AuthState is the authentication snapshot consumed by the routing layer.
// IsAuthenticated and IsAdmin are derived from the principal on every call
// instead of being stored, so the flags can never drift from the identity
// they describe.
type AuthState struct {
	Principal *Principal
	Loading   bool
}

func (s AuthState) IsAuthenticated() bool {
	return s.Principal != nil
}

func (s AuthState) IsAdmin() bool {
	return s.Principal != nil && s.Principal.IsAdmin()
}
