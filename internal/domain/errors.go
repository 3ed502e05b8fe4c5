package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrCampaignNotFound      = errors.New("campaign not found")
	ErrCampaignNotActive     = errors.New("campaign is not active")
	ErrUserNotFound          = errors.New("user not found")
	ErrRewardTierNotFound    = errors.New("invalid reward tier")
	ErrRewardTierUnavailable = errors.New("reward tier is not available")
	ErrInvalidAmount         = errors.New("pledge amount must be positive")
	ErrInvalidID             = errors.New("invalid id")
	ErrTransactionFailed     = errors.New("an error occurred while processing the pledge")

	ErrInvalidGoalAmount    = errors.New("goal amount must be positive")
	ErrInvalidCampaignDates = errors.New("end date must be after start date")
	ErrInvalidStatusChange  = errors.New("campaign status does not allow this change")
	ErrNotCampaignOwner     = errors.New("caller does not own this campaign")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// BelowMinimumPledgeError rejects a pledge that does not reach the tier
// minimum. The message always names the required amount.
type BelowMinimumPledgeError struct {
	Minimum decimal.Decimal
}

func (e BelowMinimumPledgeError) Error() string {
	return fmt.Sprintf("minimum pledge amount for this reward tier is %s", e.Minimum.String())
}
