package services

import (
	"context"
	"sort"

	"github.com/cardline/portal-rest/database"
	"github.com/cardline/portal-rest/models"
)

// CategoryTotal is one slice of the spending breakdown, ordered by total
// descending when returned from SpendingByCategory.
type CategoryTotal struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

// CardStats is the roll-up shown at the top of the customer dashboard.
type CardStats struct {
	TotalCreditLimit float64 `json:"totalCreditLimit"`
	TotalOutstanding float64 `json:"totalOutstanding"`
	TotalAvailable   float64 `json:"totalAvailable"`
	CardCount        int     `json:"cardCount"`
}

type TransactionService struct {
	repo  database.Repository[models.Transaction]
	cards *CardService
}

func NewTransactionService(ds *database.Datasource, cards *CardService) (*TransactionService, error) {
	repo, err := repositoryFor[models.Transaction](ds)
	if err != nil {
		return nil, err
	}
	return &TransactionService{repo: repo, cards: cards}, nil
}

// ListByUser returns the transactions of every card the user holds, newest
// first.
func (s *TransactionService) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	cards, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(cards) == 0 {
		return []models.Transaction{}, nil
	}

	cardIDs := make([]string, 0, len(cards))
	for _, card := range cards {
		cardIDs = append(cardIDs, card.ID)
	}

	filter := database.NewFilter().
		WithWhere(database.NewWhere().In("cardId", cardIDs)).
		OrderByDesc("date")

	return s.repo.Find(ctx, filter)
}

func (s *TransactionService) ListAll(ctx context.Context, filter *database.FilterBuilder) ([]models.Transaction, error) {
	return s.repo.Find(ctx, filter)
}

// SpendingByCategory sums the user's debit transactions per category.
// Credits and reversed transactions don't count as spending. Percentages
// are of the summed total, so they add up to 100 when any spending exists.
func (s *TransactionService) SpendingByCategory(ctx context.Context, userID string) ([]CategoryTotal, error) {
	transactions, err := s.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	totals := map[string]float64{}
	var overall float64
	for _, tx := range transactions {
		if tx.IsCredit || tx.IsReversed {
			continue
		}
		totals[tx.Category] += tx.Amount
		overall += tx.Amount
	}

	result := make([]CategoryTotal, 0, len(totals))
	for category, total := range totals {
		entry := CategoryTotal{Category: category, Total: total}
		if overall > 0 {
			entry.Percentage = total / overall * 100
		}
		result = append(result, entry)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Total != result[j].Total {
			return result[i].Total > result[j].Total
		}
		return result[i].Category < result[j].Category
	})

	return result, nil
}

// CardStats aggregates limits and balances across the user's cards.
func (s *TransactionService) CardStats(ctx context.Context, userID string) (*CardStats, error) {
	cards, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &CardStats{CardCount: len(cards)}
	for _, card := range cards {
		stats.TotalCreditLimit += card.CreditLimit
		stats.TotalOutstanding += card.TotalOutstanding
		stats.TotalAvailable += card.AvailableLimit
	}

	return stats, nil
}
