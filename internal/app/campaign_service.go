package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundflow/crowdfund/services/api/internal/clock"
	"github.com/fundflow/crowdfund/services/api/internal/domain"
)

type CampaignRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetUser(ctx context.Context, id string) (domain.User, error)
	UpdateUserRole(ctx context.Context, id string, role domain.UserRole) error
	CreateCampaign(ctx context.Context, campaign domain.Campaign) error
	CreateRewardTier(ctx context.Context, tier domain.RewardTier) error
	GetCampaign(ctx context.Context, id string) (domain.Campaign, error)
	ListRewardTiers(ctx context.Context, campaignID string) ([]domain.RewardTier, error)
	ListCampaigns(ctx context.Context, filter CampaignFilter) ([]domain.Campaign, error)
	UpdateCampaignStatus(ctx context.Context, id string, status domain.CampaignStatus, updatedAt time.Time) error
}

// OwnerPolicy decides how a user's role changes when they create their first
// campaign. Kept as an explicit collaborator so the role mutation is testable
// on its own instead of being buried inside campaign creation.
type OwnerPolicy interface {
	RoleForNewOwner(current domain.UserRole) (domain.UserRole, bool)
}

// PromoteToCampaignOwner upgrades plain users to campaign owners and leaves
// every other role untouched.
type PromoteToCampaignOwner struct{}

func (PromoteToCampaignOwner) RoleForNewOwner(current domain.UserRole) (domain.UserRole, bool) {
	if current == domain.UserRoleUser {
		return domain.UserRoleCampaignOwner, true
	}
	return current, false
}

type CampaignService struct {
	repo   CampaignRepository
	clock  clock.Clock
	policy OwnerPolicy
}

func NewCampaignService(repo CampaignRepository, clk clock.Clock, policy OwnerPolicy) *CampaignService {
	return &CampaignService{
		repo:   repo,
		clock:  clk,
		policy: policy,
	}
}

type RewardTierInput struct {
	Title             string
	Description       string
	MinimumAmount     decimal.Decimal
	MaxBackers        *int
	EstimatedDelivery *time.Time
}

type CreateCampaignInput struct {
	OwnerID     string
	Title       string
	Description string
	Category    string
	GoalAmount  decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	RewardTiers []RewardTierInput
}

type CampaignDetail struct {
	Campaign    domain.Campaign
	RewardTiers []domain.RewardTier
}

// CreateCampaign creates a Draft campaign together with its reward tiers in a
// single transaction and applies the owner policy to the creating user.
func (s *CampaignService) CreateCampaign(ctx context.Context, in CreateCampaignInput) (CampaignDetail, error) {
	if !in.GoalAmount.IsPositive() {
		return CampaignDetail{}, domain.ErrInvalidGoalAmount
	}
	if !in.EndDate.After(in.StartDate) {
		return CampaignDetail{}, domain.ErrInvalidCampaignDates
	}
	for _, tier := range in.RewardTiers {
		if !tier.MinimumAmount.IsPositive() {
			return CampaignDetail{}, domain.ErrInvalidAmount
		}
		if tier.MaxBackers != nil && *tier.MaxBackers <= 0 {
			return CampaignDetail{}, domain.ErrInvalidAmount
		}
	}

	owner, err := s.repo.GetUser(ctx, in.OwnerID)
	if err != nil {
		return CampaignDetail{}, err
	}

	now := s.clock.Now()
	campaign := domain.Campaign{
		ID:            uuid.NewString(),
		OwnerID:       in.OwnerID,
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		GoalAmount:    in.GoalAmount,
		CurrentAmount: decimal.Zero,
		Status:        domain.CampaignStatusDraft,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	tiers := make([]domain.RewardTier, 0, len(in.RewardTiers))
	for _, t := range in.RewardTiers {
		tiers = append(tiers, domain.RewardTier{
			ID:                uuid.NewString(),
			CampaignID:        campaign.ID,
			Title:             t.Title,
			Description:       t.Description,
			MinimumAmount:     t.MinimumAmount,
			MaxBackers:        t.MaxBackers,
			EstimatedDelivery: t.EstimatedDelivery,
			IsActive:          true,
		})
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if role, changed := s.policy.RoleForNewOwner(owner.Role); changed {
			if err := s.repo.UpdateUserRole(txCtx, owner.ID, role); err != nil {
				return err
			}
		}
		if err := s.repo.CreateCampaign(txCtx, campaign); err != nil {
			return err
		}
		for _, tier := range tiers {
			if err := s.repo.CreateRewardTier(txCtx, tier); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return CampaignDetail{}, err
	}

	return CampaignDetail{Campaign: campaign, RewardTiers: tiers}, nil
}

// SubmitForReview moves the owner's Draft campaign to UnderReview.
func (s *CampaignService) SubmitForReview(ctx context.Context, campaignID, callerID string) (domain.Campaign, error) {
	campaign, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return domain.Campaign{}, err
	}
	if campaign.OwnerID != callerID {
		return domain.Campaign{}, domain.ErrNotCampaignOwner
	}
	if campaign.Status != domain.CampaignStatusDraft {
		return domain.Campaign{}, domain.ErrInvalidStatusChange
	}

	now := s.clock.Now()
	if err := s.repo.UpdateCampaignStatus(ctx, campaignID, domain.CampaignStatusUnderReview, now); err != nil {
		return domain.Campaign{}, err
	}
	campaign.Status = domain.CampaignStatusUnderReview
	campaign.UpdatedAt = now
	return campaign, nil
}

func (s *CampaignService) GetCampaign(ctx context.Context, id string) (CampaignDetail, error) {
	campaign, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return CampaignDetail{}, err
	}
	tiers, err := s.repo.ListRewardTiers(ctx, id)
	if err != nil {
		return CampaignDetail{}, err
	}
	return CampaignDetail{Campaign: campaign, RewardTiers: tiers}, nil
}

type CampaignFilter struct {
	Status *domain.CampaignStatus
	Limit  int
	Offset int
}

const defaultListLimit = 20

func (s *CampaignService) ListCampaigns(ctx context.Context, filter CampaignFilter) ([]domain.Campaign, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = defaultListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListCampaigns(ctx, filter)
}
