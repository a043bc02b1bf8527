package api

import (
	"net/http"
	"time"

	rest "github.com/cardline/portal-rest"
	"github.com/cardline/portal-rest/auth"
	"github.com/cardline/portal-rest/http_errors"
)

type loginBody struct {
	Email    string `json:"email" validate:"required,email" normalize:"trim,lowercase"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token string          `json:"token"`
	User  *auth.Principal `json:"user"`
}

type authStateResponse struct {
	Authenticated bool            `json:"authenticated"`
	IsAdmin       bool            `json:"isAdmin"`
	User          *auth.Principal `json:"user,omitempty"`
}

func AuthEndpoints(svc *Services) []*rest.Endpoint {
	return []*rest.Endpoint{
		{
			Name:       "Login",
			Method:     rest.MethodPOST,
			Path:       "/auth/login",
			Public:     true,
			Model:      "User",
			ActionType: string(rest.ActionTypeLogin),
			BodyParams: func() any { return &loginBody{} },
			RateLimiter: func(_ *rest.EndpointContext) rest.RateLimit {
				return rest.RateLimit{Max: 5, Window: time.Minute}
			},
			Handler: func(ctx *rest.EndpointContext) error {
				body := ctx.ParsedBody.(*loginBody)

				principal, err := svc.Auth.Login(ctx.Context(), body.Email, body.Password)
				if err != nil {
					return err
				}

				token := svc.Sessions.Create(principal)
				setSessionCookie(ctx, token)

				return ctx.RespondAndLog(sessionResponse{Token: token.Token, User: principal}, principal.ID, rest.ResponseTypeJSON)
			},
		},
		{
			Name:       "Logout",
			Method:     rest.MethodPOST,
			Path:       "/auth/logout",
			Public:     true,
			Model:      "User",
			ActionType: string(rest.ActionTypeLogout),
			Handler: func(ctx *rest.EndpointContext) error {
				if token, ok := ctx.Token.(*auth.SessionToken); ok {
					svc.Sessions.Revoke(token.GetToken())
				}

				svc.Auth.Logout(ctx.Context())
				clearSessionCookie(ctx)

				return ctx.NoContent()
			},
		},
		{
			Name:          "Current user",
			Method:        rest.MethodGET,
			Path:          "/auth/me",
			Public:        true,
			AuditDisabled: true,
			Handler: func(ctx *rest.EndpointContext) error {
				principal := principalOf(ctx)
				state := auth.AuthState{Principal: principal}

				return ctx.JSON(authStateResponse{
					Authenticated: state.IsAuthenticated(),
					IsAdmin:       state.IsAdmin(),
					User:          principal,
				})
			},
		},
		{
			// Resolve queries the identity provider and opens a session when
			// an SSO identity exists. Without one this is a no-op the SPA can
			// safely call on startup.
			Name:       "Resolve identity",
			Method:     rest.MethodPOST,
			Path:       "/auth/resolve",
			Public:     true,
			Model:      "User",
			ActionType: string(rest.ActionTypeLogin),
			Handler: func(ctx *rest.EndpointContext) error {
				state := svc.Auth.Resolve(ctx.Context())
				if !state.IsAuthenticated() {
					return ctx.JSON(authStateResponse{})
				}

				token := svc.Sessions.Create(state.Principal)
				setSessionCookie(ctx, token)

				return ctx.RespondAndLog(sessionResponse{Token: token.Token, User: state.Principal}, state.Principal.ID, rest.ResponseTypeJSON)
			},
		},
		{
			Name:          "Evaluate route",
			Method:        rest.MethodGET,
			Path:          "/auth/route",
			Public:        true,
			AuditDisabled: true,
			Accepts: []rest.Param{
				rest.NewQueryParam("path", rest.QueryParamTypeString, true),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				path, ok := ctx.ParsedQuery["path"].(string)
				if !ok || path == "" {
					return http_errors.BadRequestError("Parameter path is required")
				}

				state := auth.AuthState{Principal: principalOf(ctx)}
				return ctx.JSON(svc.Policy.Evaluate(state, path))
			},
		},
	}
}

func setSessionCookie(ctx *rest.EndpointContext, token *auth.SessionToken) {
	ctx.EchoCtx.SetCookie(&http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token.Token,
		Path:     "/",
		Expires:  time.Unix(token.ExpiresAt, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(ctx *rest.EndpointContext) {
	ctx.EchoCtx.SetCookie(&http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
