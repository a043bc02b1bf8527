package services

import (
	"context"
	"math"
	"time"

	"github.com/cardline/portal-rest/database"
	"github.com/cardline/portal-rest/http_errors"
	"github.com/cardline/portal-rest/models"
)

// PaymentInfo describes the next payment due on a card.
type PaymentInfo struct {
	CardID           string    `json:"cardId"`
	DueDate          time.Time `json:"dueDate"`
	NextDueDate      time.Time `json:"nextDueDate"`
	TotalOutstanding float64   `json:"totalOutstanding"`
	DaysUntilDue     int       `json:"daysUntilDue"`
}

type DirectDebitPatch struct {
	AccountNumber *string  `json:"accountNumber" validate:"omitempty,min=4"`
	RoutingNumber *string  `json:"routingNumber" validate:"omitempty,min=4"`
	Frequency     *string  `json:"frequency" validate:"omitempty,oneof=weekly biweekly monthly"`
	Amount        *float64 `json:"amount" validate:"omitempty,gt=0"`
	IsActive      *bool    `json:"isActive"`
}

type PaymentService struct {
	cards  *CardService
	debits database.Repository[models.DirectDebit]
}

func NewPaymentService(ds *database.Datasource, cards *CardService) (*PaymentService, error) {
	debits, err := repositoryFor[models.DirectDebit](ds)
	if err != nil {
		return nil, err
	}
	return &PaymentService{cards: cards, debits: debits}, nil
}

// daysUntil counts whole days from now to the due date, rounding up so a
// payment due later today still reads as due today, not overdue.
func daysUntil(now, due time.Time) int {
	diff := due.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

func (s *PaymentService) PaymentInfo(ctx context.Context, userID, cardID string) (*PaymentInfo, error) {
	card, err := s.cards.GetOwned(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	return &PaymentInfo{
		CardID:           card.ID,
		DueDate:          card.DueDate,
		NextDueDate:      card.NextDueDate,
		TotalOutstanding: card.TotalOutstanding,
		DaysUntilDue:     daysUntil(time.Now(), card.DueDate),
	}, nil
}

func (s *PaymentService) DirectDebit(ctx context.Context, userID string) (*models.DirectDebit, error) {
	filter := database.NewFilter().WithWhere(database.NewWhere().Eq("userId", userID))
	debit, err := s.debits.FindOne(ctx, filter)
	if err != nil {
		return nil, err
	}
	if debit == nil {
		return nil, http_errors.NotFoundError("No direct debit configured")
	}
	return debit, nil
}

func (s *PaymentService) UpdateDirectDebit(ctx context.Context, userID string, patch DirectDebitPatch) (*models.DirectDebit, error) {
	debit, err := s.DirectDebit(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := map[string]any{}
	if patch.AccountNumber != nil {
		set["accountNumber"] = *patch.AccountNumber
		debit.AccountNumber = *patch.AccountNumber
	}
	if patch.RoutingNumber != nil {
		set["routingNumber"] = *patch.RoutingNumber
		debit.RoutingNumber = *patch.RoutingNumber
	}
	if patch.Frequency != nil {
		set["frequency"] = *patch.Frequency
		debit.Frequency = models.DebitFrequency(*patch.Frequency)
	}
	if patch.Amount != nil {
		set["amount"] = *patch.Amount
		debit.Amount = *patch.Amount
	}
	if patch.IsActive != nil {
		set["isActive"] = *patch.IsActive
		debit.IsActive = *patch.IsActive
	}

	if len(set) == 0 {
		return debit, nil
	}

	update := database.MongoUpdate{Set: set}
	if err := s.debits.UpdateById(ctx, debit.ID, update); err != nil {
		return nil, err
	}

	return debit, nil
}
