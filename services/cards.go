package services

import (
	"context"

	"github.com/cardline/portal-rest/database"
	"github.com/cardline/portal-rest/http_errors"
	"github.com/cardline/portal-rest/models"
)

// CardSettingsPatch is a partial update of a card's security toggles. Nil
// fields are left untouched.
type CardSettingsPatch struct {
	DomesticTransactions      *bool    `json:"domesticTransactions"`
	InternationalTransactions *bool    `json:"internationalTransactions"`
	TouchToPay                *bool    `json:"touchToPay"`
	TouchToPayLimit           *float64 `json:"touchToPayLimit" validate:"omitempty,gte=0"`
	OnlinePayments            *bool    `json:"onlinePayments"`
	AtmWithdrawals            *bool    `json:"atmWithdrawals"`
	MerchantPosPayments       *bool    `json:"merchantPosPayments"`
}

type CardService struct {
	repo database.Repository[models.CreditCard]
}

func NewCardService(ds *database.Datasource) (*CardService, error) {
	repo, err := repositoryFor[models.CreditCard](ds)
	if err != nil {
		return nil, err
	}
	return &CardService{repo: repo}, nil
}

func (s *CardService) ListByUser(ctx context.Context, userID string) ([]models.CreditCard, error) {
	filter := database.NewFilter().WithWhere(database.NewWhere().Eq("userId", userID))
	return s.repo.Find(ctx, filter)
}

func (s *CardService) ListAll(ctx context.Context, filter *database.FilterBuilder) ([]models.CreditCard, error) {
	return s.repo.Find(ctx, filter)
}

// GetOwned returns the card only if it belongs to the user. A card owned by
// someone else is reported as not found, not as forbidden, so card ids
// cannot be probed.
func (s *CardService) GetOwned(ctx context.Context, userID, cardID string) (*models.CreditCard, error) {
	card, err := s.repo.FindById(ctx, cardID, nil)
	if err != nil {
		return nil, err
	}
	if card == nil || card.UserID != userID {
		return nil, http_errors.NotFoundError("Card not found")
	}
	return card, nil
}

func (s *CardService) UpdateSettings(ctx context.Context, userID, cardID string, patch CardSettingsPatch) (*models.CreditCard, error) {
	card, err := s.GetOwned(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	settings := card.Settings
	if patch.DomesticTransactions != nil {
		settings.DomesticTransactions = *patch.DomesticTransactions
	}
	if patch.InternationalTransactions != nil {
		settings.InternationalTransactions = *patch.InternationalTransactions
	}
	if patch.TouchToPay != nil {
		settings.TouchToPay = *patch.TouchToPay
	}
	if patch.TouchToPayLimit != nil {
		settings.TouchToPayLimit = *patch.TouchToPayLimit
	}
	if patch.OnlinePayments != nil {
		settings.OnlinePayments = *patch.OnlinePayments
	}
	if patch.AtmWithdrawals != nil {
		settings.AtmWithdrawals = *patch.AtmWithdrawals
	}
	if patch.MerchantPosPayments != nil {
		settings.MerchantPosPayments = *patch.MerchantPosPayments
	}

	update := database.MongoUpdate{Set: map[string]any{"settings": settings}}
	if err := s.repo.UpdateById(ctx, cardID, update); err != nil {
		return nil, err
	}

	card.Settings = settings
	return card, nil
}

func (s *CardService) SetBlocked(ctx context.Context, userID, cardID string, blocked bool) (*models.CreditCard, error) {
	card, err := s.GetOwned(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	update := database.MongoUpdate{Set: map[string]any{"isBlocked": blocked}}
	if err := s.repo.UpdateById(ctx, cardID, update); err != nil {
		return nil, err
	}

	card.IsBlocked = blocked
	return card, nil
}

// UpdateUserCreditLimit sets every card of the user to the new limit. The
// available limit moves by the same delta, so outstanding balance is
// preserved.
func (s *CardService) UpdateUserCreditLimit(ctx context.Context, userID string, newLimit float64) ([]models.CreditCard, error) {
	cards, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i, card := range cards {
		difference := newLimit - card.CreditLimit
		update := database.MongoUpdate{Set: map[string]any{
			"creditLimit":    newLimit,
			"availableLimit": card.AvailableLimit + difference,
		}}
		if err := s.repo.UpdateById(ctx, card.ID, update); err != nil {
			return nil, err
		}
		cards[i].CreditLimit = newLimit
		cards[i].AvailableLimit = card.AvailableLimit + difference
	}

	return cards, nil
}
