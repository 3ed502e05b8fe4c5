package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CampaignStatus string

const (
	CampaignStatusDraft       CampaignStatus = "draft"
	CampaignStatusUnderReview CampaignStatus = "under_review"
	CampaignStatusActive      CampaignStatus = "active"
	CampaignStatusFunded      CampaignStatus = "funded"
	CampaignStatusFailed      CampaignStatus = "failed"
	CampaignStatusCancelled   CampaignStatus = "cancelled"
)

// Campaign is a fundraising campaign with a monetary goal. CurrentAmount only
// grows through confirmed pledges; the Active -> Funded transition belongs to
// the pledge service and happens under the same transaction that applies the
// pledge amount.
type Campaign struct {
	ID            string
	OwnerID       string
	Title         string
	Description   string
	Category      string
	GoalAmount    decimal.Decimal
	CurrentAmount decimal.Decimal
	Status        CampaignStatus
	StartDate     time.Time
	EndDate       time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var oneHundred = decimal.NewFromInt(100)

// FundingPercentage is current/goal*100, or zero when the goal is not positive.
// Recomputed on every read; never stored.
func (c Campaign) FundingPercentage() decimal.Decimal {
	if !c.GoalAmount.IsPositive() {
		return decimal.Zero
	}
	return c.CurrentAmount.Div(c.GoalAmount).Mul(oneHundred)
}

// IsAcceptingPledges reports whether a pledge may be placed at the given instant.
func (c Campaign) IsAcceptingPledges(now time.Time) bool {
	return c.Status == CampaignStatusActive && !now.After(c.EndDate)
}

// IsFunded reports whether the goal has been reached.
func (c Campaign) IsFunded() bool {
	return c.CurrentAmount.GreaterThanOrEqual(c.GoalAmount)
}
