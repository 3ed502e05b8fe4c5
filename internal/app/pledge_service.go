package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fundflow/crowdfund/services/api/internal/clock"
	"github.com/fundflow/crowdfund/services/api/internal/domain"
	"github.com/fundflow/crowdfund/services/api/internal/payment"
)

// PledgeRepository is the persistence port for the pledge transaction. The
// ForUpdate variants must lock the row for the remainder of the surrounding
// transaction.
type PledgeRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetCampaign(ctx context.Context, id string) (domain.Campaign, error)
	GetCampaignForUpdate(ctx context.Context, id string) (domain.Campaign, error)
	GetUser(ctx context.Context, id string) (domain.User, error)
	GetRewardTier(ctx context.Context, id string) (domain.RewardTier, error)
	GetRewardTierForUpdate(ctx context.Context, id string) (domain.RewardTier, error)
	CreatePledge(ctx context.Context, pledge domain.Pledge) error
	UpdateCampaignFunding(ctx context.Context, id string, current decimal.Decimal, status domain.CampaignStatus, updatedAt time.Time) error
	IncrementTierBackers(ctx context.Context, id string) error
}

type PledgeService struct {
	repo           PledgeRepository
	gateway        payment.Gateway
	clock          clock.Clock
	logger         zerolog.Logger
	paymentTimeout time.Duration
	paymentMethod  string
}

const (
	defaultPaymentTimeout = 30 * time.Second
	defaultPaymentMethod  = "credit_card"
)

type PledgeServiceOption func(*PledgeService)

// WithPaymentTimeout bounds how long a single gateway charge may take.
func WithPaymentTimeout(d time.Duration) PledgeServiceOption {
	return func(s *PledgeService) {
		if d > 0 {
			s.paymentTimeout = d
		}
	}
}

func NewPledgeService(repo PledgeRepository, gw payment.Gateway, clk clock.Clock, logger zerolog.Logger, opts ...PledgeServiceOption) *PledgeService {
	svc := &PledgeService{
		repo:           repo,
		gateway:        gw,
		clock:          clk,
		logger:         logger,
		paymentTimeout: defaultPaymentTimeout,
		paymentMethod:  defaultPaymentMethod,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type CreatePledgeInput struct {
	CampaignID   string
	UserID       string
	Amount       decimal.Decimal
	RewardTierID *string
}

type CreatePledgeResult struct {
	Pledge  domain.Pledge
	Message string
}

// CreatePledge accepts a monetary pledge against an active campaign. The
// charge happens before any row lock is taken so gateway latency never
// serializes other pledges; campaign and tier state is then re-read FOR UPDATE
// and re-validated before the aggregates are mutated. The pledge row itself is
// written whether the charge succeeded or failed.
func (s *PledgeService) CreatePledge(ctx context.Context, in CreatePledgeInput) (CreatePledgeResult, error) {
	if !in.Amount.IsPositive() {
		return CreatePledgeResult{}, domain.ErrInvalidAmount
	}

	campaign, err := s.repo.GetCampaign(ctx, in.CampaignID)
	if err != nil {
		return CreatePledgeResult{}, err
	}
	if !campaign.IsAcceptingPledges(s.clock.Now()) {
		return CreatePledgeResult{}, domain.ErrCampaignNotActive
	}

	if _, err := s.repo.GetUser(ctx, in.UserID); err != nil {
		return CreatePledgeResult{}, err
	}

	if in.RewardTierID != nil {
		tier, err := s.repo.GetRewardTier(ctx, *in.RewardTierID)
		if err != nil {
			if errors.Is(err, domain.ErrRewardTierNotFound) || errors.Is(err, domain.ErrInvalidID) {
				return CreatePledgeResult{}, domain.ErrRewardTierNotFound
			}
			return CreatePledgeResult{}, err
		}
		if tier.CampaignID != in.CampaignID {
			return CreatePledgeResult{}, domain.ErrRewardTierNotFound
		}
		if !tier.IsAvailable() {
			return CreatePledgeResult{}, domain.ErrRewardTierUnavailable
		}
		if in.Amount.LessThan(tier.MinimumAmount) {
			return CreatePledgeResult{}, domain.BelowMinimumPledgeError{Minimum: tier.MinimumAmount}
		}
	}

	result := s.charge(ctx, in.Amount)

	now := s.clock.Now()
	pledge := domain.Pledge{
		ID:                 uuid.NewString(),
		UserID:             in.UserID,
		CampaignID:         in.CampaignID,
		RewardTierID:       in.RewardTierID,
		Amount:             in.Amount,
		Status:             domain.PledgeStatusFailed,
		PaymentReferenceID: result.TransactionID,
		CreatedAt:          now,
	}
	if result.Success {
		pledge.Status = domain.PledgeStatusConfirmed
		processedAt := now
		pledge.ProcessedAt = &processedAt
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreatePledge(txCtx, pledge); err != nil {
			return err
		}
		if !result.Success {
			return nil
		}
		return s.applyConfirmedPledge(txCtx, pledge, now)
	})
	if err != nil {
		// The charge went through but the bookkeeping did not; the concurrent
		// re-validation errors refund before surfacing, everything else maps to
		// the generic transaction failure with the cause kept in the logs.
		if result.Success {
			s.refund(result.TransactionID, pledge.ID)
		}
		if errors.Is(err, domain.ErrCampaignNotActive) || errors.Is(err, domain.ErrRewardTierUnavailable) {
			return CreatePledgeResult{}, err
		}
		s.logger.Error().Err(err).
			Str("pledge_id", pledge.ID).
			Str("campaign_id", in.CampaignID).
			Msg("pledge transaction rolled back")
		return CreatePledgeResult{}, domain.ErrTransactionFailed
	}

	message := "Pledge created successfully"
	if !result.Success {
		message = "Pledge failed: " + result.Message
	}
	return CreatePledgeResult{Pledge: pledge, Message: message}, nil
}

// applyConfirmedPledge mutates the campaign and tier aggregates under row
// locks, re-validating against the freshly loaded state so a concurrent
// confirmation cannot close the campaign or exceed a tier cap unnoticed.
func (s *PledgeService) applyConfirmedPledge(ctx context.Context, pledge domain.Pledge, now time.Time) error {
	campaign, err := s.repo.GetCampaignForUpdate(ctx, pledge.CampaignID)
	if err != nil {
		return err
	}
	if !campaign.IsAcceptingPledges(now) {
		return domain.ErrCampaignNotActive
	}

	campaign.CurrentAmount = campaign.CurrentAmount.Add(pledge.Amount)
	if campaign.IsFunded() && campaign.Status == domain.CampaignStatusActive {
		campaign.Status = domain.CampaignStatusFunded
	}
	if err := s.repo.UpdateCampaignFunding(ctx, campaign.ID, campaign.CurrentAmount, campaign.Status, now); err != nil {
		return err
	}

	if pledge.RewardTierID == nil {
		return nil
	}
	tier, err := s.repo.GetRewardTierForUpdate(ctx, *pledge.RewardTierID)
	if err != nil {
		return err
	}
	if !tier.IsAvailable() {
		return domain.ErrRewardTierUnavailable
	}
	return s.repo.IncrementTierBackers(ctx, tier.ID)
}

// charge runs exactly one gateway call under the configured timeout. A
// gateway error or timeout is folded into a failed payment outcome so the
// caller still gets an audited Failed pledge.
func (s *PledgeService) charge(ctx context.Context, amount decimal.Decimal) payment.Result {
	payCtx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
	defer cancel()

	result, err := s.gateway.Charge(payCtx, payment.ChargeRequest{Amount: amount, Method: s.paymentMethod})
	if err != nil {
		s.logger.Warn().Err(err).Msg("payment gateway unreachable, recording failed pledge")
		return payment.Result{Success: false, Message: "payment could not be processed"}
	}
	return result
}

// refund is best effort; a refund failure is logged for reconciliation, never
// surfaced to the caller.
func (s *PledgeService) refund(transactionID, pledgeID string) {
	if transactionID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.paymentTimeout)
	defer cancel()

	ok, err := s.gateway.Refund(ctx, transactionID)
	if err != nil || !ok {
		s.logger.Error().Err(err).
			Str("transaction_id", transactionID).
			Str("pledge_id", pledgeID).
			Msg("refund after rollback failed, needs reconciliation")
	}
}
