package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"github.com/cardline/portal-rest/database"
	"github.com/cardline/portal-rest/models"
)

const (
	defaultAccountType     = "credit"
	defaultAvailableCredit = 5000
)

// ProvisioningService is the server side of account provisioning: it
// creates the portal account and a starter card for a first-time sign-in.
// EnsureAccount is idempotent, repeat calls for the same user are no-ops.
type ProvisioningService struct {
	users database.Repository[models.User]
	cards database.Repository[models.CreditCard]
}

func NewProvisioningService(ds *database.Datasource) (*ProvisioningService, error) {
	users, err := repositoryFor[models.User](ds)
	if err != nil {
		return nil, err
	}

	cards, err := repositoryFor[models.CreditCard](ds)
	if err != nil {
		return nil, err
	}

	return &ProvisioningService{users: users, cards: cards}, nil
}

type ProvisionRequest struct {
	UserID          string  `json:"UserID" validate:"required"`
	UserDetails     string  `json:"UserDetails"`
	AccountType     string  `json:"AccountType"`
	CurrentBalance  float64 `json:"CurrentBalance" validate:"gte=0"`
	AvailableCredit float64 `json:"AvailableCredit" validate:"gte=0"`
}

// EnsureAccount creates the user record and a starter card if the user does
// not exist yet. The existing record wins on a repeat call; nothing is
// overwritten.
func (s *ProvisioningService) EnsureAccount(ctx context.Context, req ProvisionRequest) (*models.User, error) {
	if req.AccountType == "" {
		req.AccountType = defaultAccountType
	}
	if req.AvailableCredit <= 0 {
		req.AvailableCredit = defaultAvailableCredit
	}

	user := models.User{
		ID:       req.UserID,
		Name:     req.UserDetails,
		Email:    req.UserDetails,
		Role:     models.UserRoleCustomer,
		IsLocked: false,
	}

	filter := database.NewFilter().WithWhere(database.NewWhere().Eq("_id", req.UserID))
	existing, err := s.users.FindOneOrCreate(ctx, filter, user)
	if err != nil {
		return nil, err
	}

	if err := s.ensureStarterCard(ctx, req); err != nil {
		// The account exists; a missing starter card is recoverable on the
		// next call and must not fail provisioning.
		log.Warnf("starter card creation failed for %s: %v", req.UserID, err)
	}

	return existing, nil
}

func (s *ProvisioningService) ensureStarterCard(ctx context.Context, req ProvisionRequest) error {
	card := models.CreditCard{
		ID:               uuid.NewString(),
		UserID:           req.UserID,
		CardNumber:       maskedCardNumber(),
		ExpiryDate:       time.Now().AddDate(4, 0, 0).Format("01/06"),
		CreditLimit:      req.AvailableCredit + req.CurrentBalance,
		AvailableLimit:   req.AvailableCredit,
		TotalOutstanding: req.CurrentBalance,
		DueDate:          time.Now().AddDate(0, 1, 0),
		NextDueDate:      time.Now().AddDate(0, 2, 0),
		CardType:         models.CardTypeRewards,
		Settings: models.CardSettings{
			DomesticTransactions: true,
			OnlinePayments:       true,
			MerchantPosPayments:  true,
		},
	}

	filter := database.NewFilter().WithWhere(database.NewWhere().Eq("userId", req.UserID))
	_, err := s.cards.FindOneOrCreate(ctx, filter, card)
	return err
}

// maskedCardNumber generates a display number. Only the last four digits are
// ever real; the rest is masked from the start.
func maskedCardNumber() string {
	return fmt.Sprintf("**** **** **** %04d", rand.IntN(10000))
}

// LocalProvisioner adapts the service to auth.Provisioner for deployments
// without an external provisioning endpoint.
type LocalProvisioner struct {
	Service *ProvisioningService
}

func (p *LocalProvisioner) EnsureAccount(ctx context.Context, userID, email string) error {
	_, err := p.Service.EnsureAccount(ctx, ProvisionRequest{UserID: userID, UserDetails: email})
	return err
}
