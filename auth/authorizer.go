package auth

import (
	"strings"

	rest "github.com/cardline/portal-rest"
	"github.com/cardline/portal-rest/http_errors"
)

// SessionCookieName is the cookie the SPA stores its session token in. The
// Authorization header takes precedence when both are present.
const SessionCookieName = "portal_session"

// NewAuthorizer adapts the session store to the rest kit's Authorizer seam.
// An absent or expired token resolves to no principal, which public
// endpoints tolerate and protected endpoints reject with 401.
func NewAuthorizer(store *SessionStore) rest.Authorizer {
	return func(ctx *rest.EndpointContext) (rest.Principal, rest.AuthToken, error) {
		raw := tokenFromRequest(ctx)
		if raw == "" {
			return nil, nil, nil
		}

		principal, token := store.Lookup(raw)
		if principal == nil {
			return nil, nil, nil
		}

		if principal.IsLocked {
			store.Revoke(raw)
			return nil, nil, http_errors.UnauthorizedError("Account is locked")
		}

		return principal, token, nil
	}
}

func tokenFromRequest(ctx *rest.EndpointContext) string {
	header := ctx.EchoCtx.Request().Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	cookie, err := ctx.EchoCtx.Cookie(SessionCookieName)
	if err == nil && cookie != nil {
		return cookie.Value
	}

	return ""
}
