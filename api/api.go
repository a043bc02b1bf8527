// Package api declares the portal's HTTP surface as endpoint tables. Customer
// endpoints require the customer role, admin endpoints the admin role; the
// role partition is enforced by the endpoint runner, handlers never re-check.
package api

import (
	rest "github.com/cardline/portal-rest"
	"github.com/cardline/portal-rest/auth"
	"github.com/cardline/portal-rest/authz"
	"github.com/cardline/portal-rest/services"
)

// Services bundles everything the endpoint handlers need.
type Services struct {
	Provisioning *services.ProvisioningService
	Sessions     *auth.SessionStore
	Auth         *auth.Resolver
	Policy       *authz.Policy
	Cards        *services.CardService
	Transactions *services.TransactionService
	Payments     *services.PaymentService
	Statements   *services.StatementService
	Rewards      *services.RewardService
	Admin        *services.AdminService
}

var (
	adminOnly    = []rest.EndpointRole{auth.Role(auth.RoleAdmin)}
	customerOnly = []rest.EndpointRole{auth.Role(auth.RoleCustomer)}
)

// Register wires every endpoint group under /api.
func Register(app *rest.RestApp, svc *Services) {
	group := app.Group("/api")

	app.RegisterEndpoints(AuthEndpoints(svc), group)
	app.RegisterEndpoints(CustomerEndpoints(svc), group)
	app.RegisterEndpoints(AdminEndpoints(svc), group)
}

// principalOf returns the typed principal. The endpoint runner guarantees a
// principal on every non-public endpoint, so a nil here means the endpoint
// was declared Public and the caller has to handle the anonymous case.
func principalOf(ctx *rest.EndpointContext) *auth.Principal {
	if p, ok := ctx.Principal.(*auth.Principal); ok {
		return p
	}
	return nil
}
