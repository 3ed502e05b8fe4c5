package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fundflow/crowdfund/services/api/internal/domain"
)

// CampaignModerator is the minimal interface needed for admin moderation.
type CampaignModerator interface {
	ApproveCampaign(ctx context.Context, campaignID string) (domain.Campaign, error)
	RejectCampaign(ctx context.Context, campaignID, reason string) (domain.Campaign, error)
	ListPendingCampaigns(ctx context.Context, limit, offset int) ([]domain.Campaign, error)
}

// HandleApproveCampaign returns an HTTP handler for approving a campaign under review.
func HandleApproveCampaign(svc CampaignModerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campaign, err := svc.ApproveCampaign(r.Context(), chi.URLParam(r, "campaignID"))
		if err != nil {
			writeModerationError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toCampaignResponse(campaign), "Campaign approved")
	}
}

// HandleRejectCampaign returns an HTTP handler for rejecting a campaign under review.
func HandleRejectCampaign(svc CampaignModerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rejectCampaignRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Reason == "" {
			writeError(w, http.StatusBadRequest, "reason is required")
			return
		}

		campaign, err := svc.RejectCampaign(r.Context(), chi.URLParam(r, "campaignID"), req.Reason)
		if err != nil {
			writeModerationError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toCampaignResponse(campaign), "Campaign rejected")
	}
}

// HandleListPendingCampaigns returns an HTTP handler listing campaigns awaiting review.
func HandleListPendingCampaigns(svc CampaignModerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campaigns, err := svc.ListPendingCampaigns(r.Context(), queryInt(r, "limit"), queryInt(r, "offset"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]campaignResponse, 0, len(campaigns))
		for _, c := range campaigns {
			out = append(out, toCampaignResponse(c))
		}
		writeSuccess(w, http.StatusOK, out, "")
	}
}

func writeModerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCampaignNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidStatusChange):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type rejectCampaignRequest struct {
	Reason string `json:"reason"`
}
