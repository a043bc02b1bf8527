package services

import (
	"context"

	"github.com/cardline/portal-rest/database"
	"github.com/cardline/portal-rest/http_errors"
	"github.com/cardline/portal-rest/models"
)

type StatementService struct {
	repo database.Repository[models.Statement]
}

func NewStatementService(ds *database.Datasource) (*StatementService, error) {
	repo, err := repositoryFor[models.Statement](ds)
	if err != nil {
		return nil, err
	}
	return &StatementService{repo: repo}, nil
}

func (s *StatementService) ListByUser(ctx context.Context, userID string) ([]models.Statement, error) {
	filter := database.NewFilter().
		WithWhere(database.NewWhere().Eq("userId", userID)).
		OrderByDesc("endDate")
	return s.repo.Find(ctx, filter)
}

func (s *StatementService) ListAll(ctx context.Context, filter *database.FilterBuilder) ([]models.Statement, error) {
	return s.repo.Find(ctx, filter)
}

// MarkDownloaded records that the user fetched the statement. Ownership is
// checked the same way as cards: a foreign statement reads as missing.
func (s *StatementService) MarkDownloaded(ctx context.Context, userID, statementID string) (*models.Statement, error) {
	statement, err := s.repo.FindById(ctx, statementID, nil)
	if err != nil {
		return nil, err
	}
	if statement == nil || statement.UserID != userID {
		return nil, http_errors.NotFoundError("Statement not found")
	}

	update := database.MongoUpdate{Set: map[string]any{"isDownloaded": true}}
	if err := s.repo.UpdateById(ctx, statementID, update); err != nil {
		return nil, err
	}

	statement.IsDownloaded = true
	return statement, nil
}
