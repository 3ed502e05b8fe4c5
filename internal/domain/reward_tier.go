package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RewardTier is a campaign-defined perk with a minimum pledge amount and an
// optional backer cap. CurrentBackers moves by exactly one per confirmed
// pledge referencing the tier.
type RewardTier struct {
	ID                string
	CampaignID        string
	Title             string
	Description       string
	MinimumAmount     decimal.Decimal
	MaxBackers        *int
	CurrentBackers    int
	EstimatedDelivery *time.Time
	IsActive          bool
}

// IsAvailable reports whether the tier can take another backer.
func (t RewardTier) IsAvailable() bool {
	if !t.IsActive {
		return false
	}
	return t.MaxBackers == nil || t.CurrentBackers < *t.MaxBackers
}
