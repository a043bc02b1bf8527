package api

import (
	rest "github.com/cardline/portal-rest"
	"github.com/cardline/portal-rest/services"
)

type creditLimitBody struct {
	CreditLimit float64 `json:"creditLimit" validate:"required,gt=0"`
}

func AdminEndpoints(svc *Services) []*rest.Endpoint {
	return []*rest.Endpoint{
		{
			Name:          "List users",
			Method:        rest.MethodGET,
			Path:          "/admin/users",
			Roles:         adminOnly,
			Model:         "User",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Accepts: []rest.Param{
				rest.NewQueryParam("filter", rest.QueryParamTypeFilter),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				filter, err := ctx.GetFilterParam()
				if err != nil {
					return err
				}

				users, err := svc.Admin.ListUsers(ctx.Context(), filter)
				if err != nil {
					return err
				}
				return ctx.JSON(users)
			},
		},
		{
			Name:       "Lock user",
			Method:     rest.MethodPOST,
			Path:       "/admin/users/:id/lock",
			Roles:      adminOnly,
			Model:      "User",
			ActionType: string(rest.ActionTypeUpdate),
			Accepts: []rest.Param{
				rest.NewPathParam("id", rest.PathParamTypeString, true),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				userID := ctx.ParsedPath["id"].(string)

				user, err := svc.Admin.SetUserLocked(ctx.Context(), userID, true)
				if err != nil {
					return err
				}
				return ctx.RespondAndLog(user, user.ID, rest.ResponseTypeJSON)
			},
		},
		{
			Name:       "Unlock user",
			Method:     rest.MethodPOST,
			Path:       "/admin/users/:id/unlock",
			Roles:      adminOnly,
			Model:      "User",
			ActionType: string(rest.ActionTypeUpdate),
			Accepts: []rest.Param{
				rest.NewPathParam("id", rest.PathParamTypeString, true),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				userID := ctx.ParsedPath["id"].(string)

				user, err := svc.Admin.SetUserLocked(ctx.Context(), userID, false)
				if err != nil {
					return err
				}
				return ctx.RespondAndLog(user, user.ID, rest.ResponseTypeJSON)
			},
		},
		{
			Name:       "Update user credit limit",
			Method:     rest.MethodPUT,
			Path:       "/admin/users/:id/credit-limit",
			Roles:      adminOnly,
			Model:      "CreditCard",
			ActionType: string(rest.ActionTypeUpdate),
			Accepts: []rest.Param{
				rest.NewPathParam("id", rest.PathParamTypeString, true),
			},
			BodyParams: func() any { return &creditLimitBody{} },
			Handler: func(ctx *rest.EndpointContext) error {
				userID := ctx.ParsedPath["id"].(string)
				body := ctx.ParsedBody.(*creditLimitBody)

				cards, err := svc.Admin.UpdateUserCreditLimit(ctx.Context(), userID, body.CreditLimit)
				if err != nil {
					return err
				}
				return ctx.RespondAndLog(cards, userID, rest.ResponseTypeJSON)
			},
		},
		{
			Name:          "List all cards",
			Method:        rest.MethodGET,
			Path:          "/admin/cards",
			Roles:         adminOnly,
			Model:         "CreditCard",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Accepts: []rest.Param{
				rest.NewQueryParam("filter", rest.QueryParamTypeFilter),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				filter, err := ctx.GetFilterParam()
				if err != nil {
					return err
				}

				cards, err := svc.Cards.ListAll(ctx.Context(), filter)
				if err != nil {
					return err
				}
				return ctx.JSON(cards)
			},
		},
		{
			Name:          "List all transactions",
			Method:        rest.MethodGET,
			Path:          "/admin/transactions",
			Roles:         adminOnly,
			Model:         "Transaction",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Accepts: []rest.Param{
				rest.NewQueryParam("filter", rest.QueryParamTypeFilter),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				filter, err := ctx.GetFilterParam()
				if err != nil {
					return err
				}

				transactions, err := svc.Transactions.ListAll(ctx.Context(), filter)
				if err != nil {
					return err
				}
				return ctx.JSON(transactions)
			},
		},
		{
			Name:          "List all statements",
			Method:        rest.MethodGET,
			Path:          "/admin/statements",
			Roles:         adminOnly,
			Model:         "Statement",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Accepts: []rest.Param{
				rest.NewQueryParam("filter", rest.QueryParamTypeFilter),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				filter, err := ctx.GetFilterParam()
				if err != nil {
					return err
				}

				statements, err := svc.Statements.ListAll(ctx.Context(), filter)
				if err != nil {
					return err
				}
				return ctx.JSON(statements)
			},
		},
		{
			Name:          "List fees",
			Method:        rest.MethodGET,
			Path:          "/admin/fees",
			Roles:         adminOnly,
			Model:         "Fee",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Handler: func(ctx *rest.EndpointContext) error {
				fees, err := svc.Admin.ListFees(ctx.Context())
				if err != nil {
					return err
				}
				return ctx.JSON(fees)
			},
		},
		{
			Name:       "Update fee",
			Method:     rest.MethodPATCH,
			Path:       "/admin/fees/:id",
			Roles:      adminOnly,
			Model:      "Fee",
			ActionType: string(rest.ActionTypeUpdate),
			Accepts: []rest.Param{
				rest.NewPathParam("id", rest.PathParamTypeString, true),
			},
			BodyParams: func() any { return &services.FeePatch{} },
			Handler: func(ctx *rest.EndpointContext) error {
				feeID := ctx.ParsedPath["id"].(string)
				patch := ctx.ParsedBody.(*services.FeePatch)

				fee, err := svc.Admin.UpdateFee(ctx.Context(), feeID, *patch)
				if err != nil {
					return err
				}
				return ctx.RespondAndLog(fee, fee.ID, rest.ResponseTypeJSON)
			},
		},
		{
			Name:          "List notices",
			Method:        rest.MethodGET,
			Path:          "/admin/notices",
			Roles:         adminOnly,
			Model:         "PortalNotice",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Handler: func(ctx *rest.EndpointContext) error {
				notices, err := svc.Admin.ListNotices(ctx.Context())
				if err != nil {
					return err
				}
				return ctx.JSON(notices)
			},
		},
		{
			Name:       "Create notice",
			Method:     rest.MethodPOST,
			Path:       "/admin/notices",
			Roles:      adminOnly,
			Model:      "PortalNotice",
			ActionType: string(rest.ActionTypeCreate),
			BodyParams: func() any { return &services.NoticeInput{} },
			Handler: func(ctx *rest.EndpointContext) error {
				input := ctx.ParsedBody.(*services.NoticeInput)

				notice, err := svc.Admin.CreateNotice(ctx.Context(), *input)
				if err != nil {
					return err
				}
				return ctx.RespondAndLog(notice, notice.ID, rest.ResponseTypeJSON, 201)
			},
		},
		{
			Name:       "Update notice",
			Method:     rest.MethodPATCH,
			Path:       "/admin/notices/:id",
			Roles:      adminOnly,
			Model:      "PortalNotice",
			ActionType: string(rest.ActionTypeUpdate),
			Accepts: []rest.Param{
				rest.NewPathParam("id", rest.PathParamTypeString, true),
			},
			BodyParams: func() any { return &services.NoticePatch{} },
			Handler: func(ctx *rest.EndpointContext) error {
				noticeID := ctx.ParsedPath["id"].(string)
				patch := ctx.ParsedBody.(*services.NoticePatch)

				notice, err := svc.Admin.UpdateNotice(ctx.Context(), noticeID, *patch)
				if err != nil {
					return err
				}
				return ctx.RespondAndLog(notice, notice.ID, rest.ResponseTypeJSON)
			},
		},
		{
			Name:       "Delete notice",
			Method:     rest.MethodDELETE,
			Path:       "/admin/notices/:id",
			Roles:      adminOnly,
			Model:      "PortalNotice",
			ActionType: string(rest.ActionTypeDelete),
			Accepts: []rest.Param{
				rest.NewPathParam("id", rest.PathParamTypeString, true),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				noticeID := ctx.ParsedPath["id"].(string)

				if err := svc.Admin.DeleteNotice(ctx.Context(), noticeID); err != nil {
					return err
				}
				return ctx.RespondAndLog(nil, noticeID, rest.ResponseTypeNoContent, 204)
			},
		},
		{
			Name:          "List credit decisions",
			Method:        rest.MethodGET,
			Path:          "/admin/decisions",
			Roles:         adminOnly,
			Model:         "CreditDecision",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Accepts: []rest.Param{
				rest.NewQueryParam("filter", rest.QueryParamTypeFilter),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				filter, err := ctx.GetFilterParam()
				if err != nil {
					return err
				}

				decisions, err := svc.Admin.ListDecisions(ctx.Context(), filter)
				if err != nil {
					return err
				}
				return ctx.JSON(decisions)
			},
		},
		{
			Name:       "Create credit decision",
			Method:     rest.MethodPOST,
			Path:       "/admin/decisions",
			Roles:      adminOnly,
			Model:      "CreditDecision",
			ActionType: string(rest.ActionTypeCreate),
			BodyParams: func() any { return &services.DecisionInput{} },
			Handler: func(ctx *rest.EndpointContext) error {
				input := ctx.ParsedBody.(*services.DecisionInput)

				decision, err := svc.Admin.CreateDecision(ctx.Context(), *input)
				if err != nil {
					return err
				}
				return ctx.RespondAndLog(decision, decision.ID, rest.ResponseTypeJSON, 201)
			},
		},
		{
			Name:       "Create account",
			Method:     rest.MethodPOST,
			Path:       "/admin/createAccount",
			Roles:      adminOnly,
			Model:      "User",
			ActionType: string(rest.ActionTypeCreate),
			BodyParams: func() any { return &services.ProvisionRequest{} },
			Handler: func(ctx *rest.EndpointContext) error {
				input := ctx.ParsedBody.(*services.ProvisionRequest)

				user, err := svc.Provisioning.EnsureAccount(ctx.Context(), *input)
				if err != nil {
					return err
				}
				return ctx.RespondAndLog(user, user.ID, rest.ResponseTypeJSON, 201)
			},
		},
	}
}
