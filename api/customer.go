package api

import (
	"time"

	rest "github.com/cardline/portal-rest"
	"github.com/cardline/portal-rest/services"
)

type cardBlockBody struct {
	Blocked *bool `json:"blocked" validate:"required"`
}

func CustomerEndpoints(svc *Services) []*rest.Endpoint {
	return []*rest.Endpoint{
		{
			Name:          "List cards",
			Method:        rest.MethodGET,
			Path:          "/cards",
			Roles:         customerOnly,
			Model:         "CreditCard",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Handler: func(ctx *rest.EndpointContext) error {
				cards, err := svc.Cards.ListByUser(ctx.Context(), principalOf(ctx).ID)
				if err != nil {
					return err
				}
				return ctx.JSON(cards)
			},
		},
		{
			Name:          "Card statistics",
			Method:        rest.MethodGET,
			Path:          "/cards/stats",
			Roles:         customerOnly,
			Model:         "CreditCard",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Handler: func(ctx *rest.EndpointContext) error {
				stats, err := svc.Transactions.CardStats(ctx.Context(), principalOf(ctx).ID)
				if err != nil {
					return err
				}
				return ctx.JSON(stats)
			},
		},
		{
			Name:       "Update card settings",
			Method:     rest.MethodPATCH,
			Path:       "/cards/:id/settings",
			Roles:      customerOnly,
			Model:      "CreditCard",
			ActionType: string(rest.ActionTypeUpdate),
			Accepts: []rest.Param{
				rest.NewPathParam("id", rest.PathParamTypeString, true),
			},
			BodyParams: func() any { return &services.CardSettingsPatch{} },
			Handler: func(ctx *rest.EndpointContext) error {
				cardID := ctx.ParsedPath["id"].(string)
				patch := ctx.ParsedBody.(*services.CardSettingsPatch)

				card, err := svc.Cards.UpdateSettings(ctx.Context(), principalOf(ctx).ID, cardID, *patch)
				if err != nil {
					return err
				}
				return ctx.RespondAndLog(card, card.ID, rest.ResponseTypeJSON)
			},
		},
		{
			Name:       "Block card",
			Method:     rest.MethodPOST,
			Path:       "/cards/:id/block",
			Roles:      customerOnly,
			Model:      "CreditCard",
			ActionType: string(rest.ActionTypeUpdate),
			Accepts: []rest.Param{
				rest.NewPathParam("id", rest.PathParamTypeString, true),
			},
			BodyParams: func() any { return &cardBlockBody{} },
			Handler: func(ctx *rest.EndpointContext) error {
				cardID := ctx.ParsedPath["id"].(string)
				body := ctx.ParsedBody.(*cardBlockBody)

				card, err := svc.Cards.SetBlocked(ctx.Context(), principalOf(ctx).ID, cardID, *body.Blocked)
				if err != nil {
					return err
				}
				return ctx.RespondAndLog(card, card.ID, rest.ResponseTypeJSON)
			},
		},
		{
			Name:          "List transactions",
			Method:        rest.MethodGET,
			Path:          "/transactions",
			Roles:         customerOnly,
			Model:         "Transaction",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Handler: func(ctx *rest.EndpointContext) error {
				transactions, err := svc.Transactions.ListByUser(ctx.Context(), principalOf(ctx).ID)
				if err != nil {
					return err
				}
				return ctx.JSON(transactions)
			},
		},
		{
			Name:          "Spending by category",
			Method:        rest.MethodGET,
			Path:          "/transactions/spending",
			Roles:         customerOnly,
			Model:         "Transaction",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Handler: func(ctx *rest.EndpointContext) error {
				breakdown, err := svc.Transactions.SpendingByCategory(ctx.Context(), principalOf(ctx).ID)
				if err != nil {
					return err
				}
				return ctx.JSON(breakdown)
			},
		},
		{
			Name:          "Payment info",
			Method:        rest.MethodGET,
			Path:          "/payment/info/:cardId",
			Roles:         customerOnly,
			Model:         "CreditCard",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Accepts: []rest.Param{
				rest.NewPathParam("cardId", rest.PathParamTypeString, true),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				cardID := ctx.ParsedPath["cardId"].(string)

				info, err := svc.Payments.PaymentInfo(ctx.Context(), principalOf(ctx).ID, cardID)
				if err != nil {
					return err
				}
				return ctx.JSON(info)
			},
		},
		{
			Name:          "Direct debit",
			Method:        rest.MethodGET,
			Path:          "/payment/direct-debit",
			Roles:         customerOnly,
			Model:         "DirectDebit",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Handler: func(ctx *rest.EndpointContext) error {
				debit, err := svc.Payments.DirectDebit(ctx.Context(), principalOf(ctx).ID)
				if err != nil {
					return err
				}
				return ctx.JSON(debit)
			},
		},
		{
			Name:       "Update direct debit",
			Method:     rest.MethodPATCH,
			Path:       "/payment/direct-debit",
			Roles:      customerOnly,
			Model:      "DirectDebit",
			ActionType: string(rest.ActionTypeUpdate),
			BodyParams: func() any { return &services.DirectDebitPatch{} },
			Handler: func(ctx *rest.EndpointContext) error {
				patch := ctx.ParsedBody.(*services.DirectDebitPatch)

				debit, err := svc.Payments.UpdateDirectDebit(ctx.Context(), principalOf(ctx).ID, *patch)
				if err != nil {
					return err
				}
				return ctx.RespondAndLog(debit, debit.ID, rest.ResponseTypeJSON)
			},
		},
		{
			Name:          "List statements",
			Method:        rest.MethodGET,
			Path:          "/statements",
			Roles:         customerOnly,
			Model:         "Statement",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Handler: func(ctx *rest.EndpointContext) error {
				statements, err := svc.Statements.ListByUser(ctx.Context(), principalOf(ctx).ID)
				if err != nil {
					return err
				}
				return ctx.JSON(statements)
			},
		},
		{
			Name:       "Mark statement downloaded",
			Method:     rest.MethodPOST,
			Path:       "/statements/:id/download",
			Roles:      customerOnly,
			Model:      "Statement",
			ActionType: string(rest.ActionTypeUpdate),
			Accepts: []rest.Param{
				rest.NewPathParam("id", rest.PathParamTypeString, true),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				statementID := ctx.ParsedPath["id"].(string)

				statement, err := svc.Statements.MarkDownloaded(ctx.Context(), principalOf(ctx).ID, statementID)
				if err != nil {
					return err
				}
				return ctx.RespondAndLog(statement, statement.ID, rest.ResponseTypeJSON)
			},
		},
		{
			Name:          "Rewards",
			Method:        rest.MethodGET,
			Path:          "/rewards",
			Roles:         customerOnly,
			Model:         "Reward",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Handler: func(ctx *rest.EndpointContext) error {
				reward, err := svc.Rewards.ForUser(ctx.Context(), principalOf(ctx).ID)
				if err != nil {
					return err
				}
				return ctx.JSON(reward)
			},
		},
		{
			Name:          "Referral link",
			Method:        rest.MethodGET,
			Path:          "/rewards/referral",
			Roles:         customerOnly,
			Model:         "ReferralLink",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Handler: func(ctx *rest.EndpointContext) error {
				link, err := svc.Rewards.ReferralLink(ctx.Context(), principalOf(ctx).ID)
				if err != nil {
					return err
				}
				return ctx.JSON(link)
			},
		},
		{
			// Active notices are visible to any signed-in user.
			Name:          "Active notices",
			Method:        rest.MethodGET,
			Path:          "/notices",
			Model:         "PortalNotice",
			ActionType:    string(rest.ActionTypeRead),
			AuditDisabled: true,
			Handler: func(ctx *rest.EndpointContext) error {
				notices, err := svc.Admin.ActiveNotices(ctx.Context(), time.Now())
				if err != nil {
					return err
				}
				return ctx.JSON(notices)
			},
		},
	}
}
