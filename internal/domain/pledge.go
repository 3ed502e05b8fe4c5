package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PledgeStatus string

const (
	PledgeStatusPending   PledgeStatus = "pending"
	PledgeStatusConfirmed PledgeStatus = "confirmed"
	PledgeStatusFailed    PledgeStatus = "failed"
	PledgeStatusCancelled PledgeStatus = "cancelled"
)

// Pledge is a user's monetary commitment toward a campaign. It is resolved to
// Confirmed or Failed inside the transaction that records it and never
// transitions again afterwards. Failed pledges are kept for audit.
type Pledge struct {
	ID                 string
	UserID             string
	CampaignID         string
	RewardTierID       *string
	Amount             decimal.Decimal
	Status             PledgeStatus
	PaymentReferenceID string
	CreatedAt          time.Time
	ProcessedAt        *time.Time
}
