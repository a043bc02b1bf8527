package services

import (
	"context"

	"github.com/cardline/portal-rest/database"
	"github.com/cardline/portal-rest/http_errors"
	"github.com/cardline/portal-rest/models"
)

type RewardService struct {
	rewards   database.Repository[models.Reward]
	referrals database.Repository[models.ReferralLink]
}

func NewRewardService(ds *database.Datasource) (*RewardService, error) {
	rewards, err := repositoryFor[models.Reward](ds)
	if err != nil {
		return nil, err
	}

	referrals, err := repositoryFor[models.ReferralLink](ds)
	if err != nil {
		return nil, err
	}

	return &RewardService{rewards: rewards, referrals: referrals}, nil
}

func (s *RewardService) ForUser(ctx context.Context, userID string) (*models.Reward, error) {
	filter := database.NewFilter().WithWhere(database.NewWhere().Eq("userId", userID))
	reward, err := s.rewards.FindOne(ctx, filter)
	if err != nil {
		return nil, err
	}
	if reward == nil {
		return nil, http_errors.NotFoundError("No rewards account")
	}
	return reward, nil
}

func (s *RewardService) ReferralLink(ctx context.Context, userID string) (*models.ReferralLink, error) {
	filter := database.NewFilter().WithWhere(database.NewWhere().Eq("userId", userID))
	link, err := s.referrals.FindOne(ctx, filter)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, http_errors.NotFoundError("No referral link")
	}
	return link, nil
}
