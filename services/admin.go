package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cardline/portal-rest/auth"
	"github.com/cardline/portal-rest/database"
	"github.com/cardline/portal-rest/http_errors"
	"github.com/cardline/portal-rest/models"
)

type FeePatch struct {
	Amount      *float64 `json:"amount" validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
}

type NoticeInput struct {
	Title     string    `json:"title" validate:"required,min=3" normalize:"trim"`
	Content   string    `json:"content" validate:"required" sanitize:"html"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
	IsActive  bool      `json:"isActive"`
}

type NoticePatch struct {
	Title     *string    `json:"title" normalize:"trim"`
	Content   *string    `json:"content" sanitize:"html"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	IsActive  *bool      `json:"isActive"`
}

type DecisionInput struct {
	UserID         string  `json:"userId" validate:"required"`
	Decision       string  `json:"decision" validate:"required,oneof=approved declined"`
	Reason         string  `json:"reason" validate:"required" normalize:"trim"`
	SuggestedLimit float64 `json:"suggestedLimit" validate:"gte=0"`
}

// AdminService backs the admin surface: user management, fees, portal
// notices and credit decisions.
type AdminService struct {
	users     database.Repository[models.User]
	fees      database.Repository[models.Fee]
	notices   database.Repository[models.PortalNotice]
	decisions database.Repository[models.CreditDecision]
	cards     *CardService
	sessions  *auth.SessionStore
}

func NewAdminService(ds *database.Datasource, cards *CardService, sessions *auth.SessionStore) (*AdminService, error) {
	users, err := repositoryFor[models.User](ds)
	if err != nil {
		return nil, err
	}
	fees, err := repositoryFor[models.Fee](ds)
	if err != nil {
		return nil, err
	}
	notices, err := repositoryFor[models.PortalNotice](ds)
	if err != nil {
		return nil, err
	}
	decisions, err := repositoryFor[models.CreditDecision](ds)
	if err != nil {
		return nil, err
	}

	return &AdminService{
		users:     users,
		fees:      fees,
		notices:   notices,
		decisions: decisions,
		cards:     cards,
		sessions:  sessions,
	}, nil
}

func (s *AdminService) ListUsers(ctx context.Context, filter *database.FilterBuilder) ([]models.User, error) {
	return s.users.Find(ctx, filter)
}

// SetUserLocked flips the account lock. Locking also revokes the user's
// active sessions so the lock takes effect immediately, not on next login.
func (s *AdminService) SetUserLocked(ctx context.Context, userID string, locked bool) (*models.User, error) {
	user, err := s.users.FindById(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, http_errors.NotFoundError("User not found")
	}

	update := database.MongoUpdate{Set: map[string]any{"isLocked": locked}}
	if err := s.users.UpdateById(ctx, userID, update); err != nil {
		return nil, err
	}

	if locked && s.sessions != nil {
		s.sessions.RevokeUser(userID)
	}

	user.IsLocked = locked
	return user, nil
}

func (s *AdminService) UpdateUserCreditLimit(ctx context.Context, userID string, newLimit float64) ([]models.CreditCard, error) {
	user, err := s.users.FindById(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, http_errors.NotFoundError("User not found")
	}
	return s.cards.UpdateUserCreditLimit(ctx, userID, newLimit)
}

func (s *AdminService) ListFees(ctx context.Context) ([]models.Fee, error) {
	return s.fees.Find(ctx, nil)
}

func (s *AdminService) UpdateFee(ctx context.Context, feeID string, patch FeePatch) (*models.Fee, error) {
	fee, err := s.fees.FindById(ctx, feeID, nil)
	if err != nil {
		return nil, err
	}
	if fee == nil {
		return nil, http_errors.NotFoundError("Fee not found")
	}

	set := map[string]any{}
	if patch.Amount != nil {
		set["amount"] = *patch.Amount
		fee.Amount = *patch.Amount
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
		fee.Description = *patch.Description
	}

	if len(set) == 0 {
		return fee, nil
	}

	if err := s.fees.UpdateById(ctx, feeID, database.MongoUpdate{Set: set}); err != nil {
		return nil, err
	}

	return fee, nil
}

// ActiveNotices returns the notices customers should currently see.
func (s *AdminService) ActiveNotices(ctx context.Context, now time.Time) ([]models.PortalNotice, error) {
	filter := database.NewFilter().WithWhere(
		database.NewWhere().
			Eq("isActive", true).
			Lte("startDate", now).
			Gte("endDate", now),
	)
	return s.notices.Find(ctx, filter)
}

func (s *AdminService) ListNotices(ctx context.Context) ([]models.PortalNotice, error) {
	return s.notices.Find(ctx, database.NewFilter().OrderByDesc("startDate"))
}

func (s *AdminService) CreateNotice(ctx context.Context, input NoticeInput) (*models.PortalNotice, error) {
	notice := models.PortalNotice{
		ID:        uuid.NewString(),
		Title:     input.Title,
		Content:   input.Content,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		IsActive:  input.IsActive,
	}
	return s.notices.Create(ctx, notice)
}

func (s *AdminService) UpdateNotice(ctx context.Context, noticeID string, patch NoticePatch) (*models.PortalNotice, error) {
	notice, err := s.notices.FindById(ctx, noticeID, nil)
	if err != nil {
		return nil, err
	}
	if notice == nil {
		return nil, http_errors.NotFoundError("Notice not found")
	}

	set := map[string]any{}
	if patch.Title != nil {
		set["title"] = *patch.Title
		notice.Title = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
		notice.Content = *patch.Content
	}
	if patch.StartDate != nil {
		set["startDate"] = *patch.StartDate
		notice.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		set["endDate"] = *patch.EndDate
		notice.EndDate = *patch.EndDate
	}
	if patch.IsActive != nil {
		set["isActive"] = *patch.IsActive
		notice.IsActive = *patch.IsActive
	}

	if len(set) == 0 {
		return notice, nil
	}

	if err := s.notices.UpdateById(ctx, noticeID, database.MongoUpdate{Set: set}); err != nil {
		return nil, err
	}

	return notice, nil
}

func (s *AdminService) DeleteNotice(ctx context.Context, noticeID string) error {
	return s.notices.DeleteById(ctx, noticeID)
}

func (s *AdminService) ListDecisions(ctx context.Context, filter *database.FilterBuilder) ([]models.CreditDecision, error) {
	if filter == nil {
		filter = database.NewFilter().OrderByDesc("date")
	}
	return s.decisions.Find(ctx, filter)
}

func (s *AdminService) CreateDecision(ctx context.Context, input DecisionInput) (*models.CreditDecision, error) {
	user, err := s.users.FindById(ctx, input.UserID, nil)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, http_errors.NotFoundError("User not found")
	}

	decision := models.CreditDecision{
		ID:             uuid.NewString(),
		UserID:         input.UserID,
		Date:           time.Now(),
		Decision:       models.DecisionOutcome(input.Decision),
		Reason:         input.Reason,
		SuggestedLimit: input.SuggestedLimit,
	}

	created, err := s.decisions.Create(ctx, decision)
	if err != nil {
		return nil, err
	}

	// An approved decision takes effect right away.
	if decision.Decision == models.DecisionApproved && decision.SuggestedLimit > 0 {
		if _, err := s.cards.UpdateUserCreditLimit(ctx, input.UserID, decision.SuggestedLimit); err != nil {
			return nil, err
		}
	}

	return created, nil
}
