package rest

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cardline/portal-rest/http_errors"
)

type RateLimit struct {
	Max    int
	Window time.Duration
	Key    string
}

type EndpointRole interface {
	RoleName() string
}

type Param struct {
	in        ParamLocation
	name      string
	paramType string
	required  bool
	Parser    func(string) (any, error)
}

func NewQueryParam(name string, paramType QueryParamType, required ...bool) Param {
	requiredValue := false
	if len(required) > 0 {
		requiredValue = required[0]
	}
	return Param{
		in:        InQuery,
		name:      name,
		paramType: string(paramType),
		required:  requiredValue,
	}
}

func NewPathParam(name string, paramType PathParamType, required ...bool) Param {
	requiredValue := false
	if len(required) > 0 {
		requiredValue = required[0]
	}
	return Param{
		in:        InPath,
		name:      name,
		paramType: string(paramType),
		required:  requiredValue,
	}
}

func NewHeaderParam(name string, paramType HeaderParamType, required ...bool) Param {
	requiredValue := false
	if len(required) > 0 {
		requiredValue = required[0]
	}
	return Param{
		in:        InHeader,
		name:      name,
		paramType: string(paramType),
		required:  requiredValue,
	}
}

type Endpoint struct {
	Name        string
	Method      EndpointMethod
	Path        string
	Handler     func(c *EndpointContext) error
	Disabled    bool                             // If true, the endpoint is disabled and will not be registered or accessible.
	BodyParams  func() any                       // Function that returns the struct the request body binds to.
	Scope       string
	RateLimiter func(*EndpointContext) RateLimit // Function to get rate limit configuration for the endpoint.
	Public      bool                             // If true, the endpoint is publicly accessible without authentication.
	Roles       []EndpointRole                   // List of roles that can access this endpoint.
	ActionType  string                           // e.g., "create", "read", "update", "delete". Used for logging.
	Model       string                           // The related model or resource, e.g., "User", "Transaction". Used for logging
	app         *RestApp
	Accepts     []Param

	AuditDisabled bool           // Disable audit logging for this endpoint
	MetaData      map[string]any // Additional metadata for the endpoint
}

func (ep *Endpoint) run(c echo.Context) error {
	if ep.Disabled {
		return http_errors.NotFoundError("Endpoint not found")
	}

	ctx := &EndpointContext{
		EchoCtx:   c,
		Endpoint:  ep,
		App:       ep.app,
		IpAddress: c.RealIP(),
		context:   c.Request().Context(),
	}

	err := parseBody(ep, ctx)
	if err != nil {
		return err
	}

	err = parseAllParams(ep, ctx)
	if err != nil {
		return err
	}

	_, err = ctx.GetFilterParam()
	if err != nil {
		return err
	}

	err = ep.app.Authorize(ctx)
	if err != nil {
		return err
	}

	if err := ep.checkAccess(ctx); err != nil {
		return err
	}

	err = checkRateLimit(ctx)
	if err != nil {
		return err
	}

	if err := ep.Handler(ctx); err != nil {
		return err
	}

	return nil
}

// checkAccess enforces the endpoint's role list. Role partition is strict:
// an endpoint restricted to a set of roles rejects every principal whose
// role is not in the list, admins included.
func (ep *Endpoint) checkAccess(ctx *EndpointContext) error {
	if ep.Public {
		return nil
	}

	if ctx.Principal == nil {
		return http_errors.UnauthorizedError("Authentication required")
	}

	if len(ep.Roles) == 0 {
		return nil
	}

	role := ctx.Principal.GetPrincipalRole()
	for _, allowed := range ep.Roles {
		if allowed.RoleName() == role {
			return nil
		}
	}

	return http_errors.ForbiddenError("Insufficient permissions")
}
