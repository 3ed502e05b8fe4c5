package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fundflow/crowdfund/services/api/internal/clock"
	"github.com/fundflow/crowdfund/services/api/internal/domain"
)

type AdminRepository interface {
	GetCampaign(ctx context.Context, id string) (domain.Campaign, error)
	UpdateCampaignStatus(ctx context.Context, id string, status domain.CampaignStatus, updatedAt time.Time) error
	ListCampaignsByStatus(ctx context.Context, status domain.CampaignStatus, limit, offset int) ([]domain.Campaign, error)
}

type AdminService struct {
	repo   AdminRepository
	clock  clock.Clock
	logger zerolog.Logger
}

func NewAdminService(repo AdminRepository, clk clock.Clock, logger zerolog.Logger) *AdminService {
	return &AdminService{
		repo:   repo,
		clock:  clk,
		logger: logger,
	}
}

// ApproveCampaign moves a campaign from UnderReview to Active.
func (s *AdminService) ApproveCampaign(ctx context.Context, campaignID string) (domain.Campaign, error) {
	return s.moderate(ctx, campaignID, domain.CampaignStatusActive, "")
}

// RejectCampaign moves a campaign from UnderReview to Cancelled.
func (s *AdminService) RejectCampaign(ctx context.Context, campaignID, reason string) (domain.Campaign, error) {
	return s.moderate(ctx, campaignID, domain.CampaignStatusCancelled, reason)
}

func (s *AdminService) moderate(ctx context.Context, campaignID string, target domain.CampaignStatus, reason string) (domain.Campaign, error) {
	campaign, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return domain.Campaign{}, err
	}
	if campaign.Status != domain.CampaignStatusUnderReview {
		return domain.Campaign{}, domain.ErrInvalidStatusChange
	}

	now := s.clock.Now()
	if err := s.repo.UpdateCampaignStatus(ctx, campaignID, target, now); err != nil {
		return domain.Campaign{}, err
	}

	evt := s.logger.Info().
		Str("campaign_id", campaignID).
		Str("status", string(target))
	if reason != "" {
		evt = evt.Str("reason", reason)
	}
	evt.Msg("campaign moderated")

	campaign.Status = target
	campaign.UpdatedAt = now
	return campaign, nil
}

// ListPendingCampaigns returns campaigns awaiting moderation.
func (s *AdminService) ListPendingCampaigns(ctx context.Context, limit, offset int) ([]domain.Campaign, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListCampaignsByStatus(ctx, domain.CampaignStatusUnderReview, limit, offset)
}
