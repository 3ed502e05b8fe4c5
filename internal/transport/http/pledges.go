package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fundflow/crowdfund/services/api/internal/app"
	"github.com/fundflow/crowdfund/services/api/internal/domain"
)

// PledgeCreator is the minimal interface needed to place a pledge.
type PledgeCreator interface {
	CreatePledge(ctx context.Context, in app.CreatePledgeInput) (app.CreatePledgeResult, error)
}

// HandleCreatePledge returns an HTTP handler for pledging to a campaign.
func HandleCreatePledge(svc PledgeCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campaignID := chi.URLParam(r, "campaignID")

		var req createPledgeRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		userID, ok := UserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		res, err := svc.CreatePledge(r.Context(), app.CreatePledgeInput{
			CampaignID:   campaignID,
			UserID:       userID,
			Amount:       req.Amount,
			RewardTierID: req.RewardTierID,
		})
		if err != nil {
			var belowMin domain.BelowMinimumPledgeError
			switch {
			case errors.Is(err, domain.ErrInvalidAmount),
				errors.Is(err, domain.ErrInvalidID),
				errors.As(err, &belowMin):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, domain.ErrCampaignNotFound),
				errors.Is(err, domain.ErrUserNotFound),
				errors.Is(err, domain.ErrRewardTierNotFound):
				writeError(w, http.StatusNotFound, err.Error())
			case errors.Is(err, domain.ErrCampaignNotActive),
				errors.Is(err, domain.ErrRewardTierUnavailable):
				writeError(w, http.StatusConflict, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, domain.ErrTransactionFailed.Error())
			}
			return
		}

		writeSuccess(w, http.StatusCreated, toPledgeResponse(res.Pledge), res.Message)
	}
}

type createPledgeRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	RewardTierID *string         `json:"reward_tier_id"`
}

type pledgeResponse struct {
	ID                 string     `json:"id"`
	CampaignID         string     `json:"campaign_id"`
	UserID             string     `json:"user_id"`
	RewardTierID       *string    `json:"reward_tier_id,omitempty"`
	Amount             string     `json:"amount"`
	Status             string     `json:"status"`
	PaymentReferenceID string     `json:"payment_reference_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	ProcessedAt        *time.Time `json:"processed_at,omitempty"`
}

func toPledgeResponse(p domain.Pledge) pledgeResponse {
	return pledgeResponse{
		ID:                 p.ID,
		CampaignID:         p.CampaignID,
		UserID:             p.UserID,
		RewardTierID:       p.RewardTierID,
		Amount:             p.Amount.String(),
		Status:             string(p.Status),
		PaymentReferenceID: p.PaymentReferenceID,
		CreatedAt:          p.CreatedAt,
		ProcessedAt:        p.ProcessedAt,
	}
}
