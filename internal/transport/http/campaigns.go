package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fundflow/crowdfund/services/api/internal/app"
	"github.com/fundflow/crowdfund/services/api/internal/domain"
)

// CampaignCreator is the minimal interface needed to create a campaign.
type CampaignCreator interface {
	CreateCampaign(ctx context.Context, in app.CreateCampaignInput) (app.CampaignDetail, error)
}

// CampaignReader is the minimal interface needed to read campaigns.
type CampaignReader interface {
	GetCampaign(ctx context.Context, id string) (app.CampaignDetail, error)
	ListCampaigns(ctx context.Context, filter app.CampaignFilter) ([]domain.Campaign, error)
}

// CampaignSubmitter is the minimal interface needed to submit a campaign for review.
type CampaignSubmitter interface {
	SubmitForReview(ctx context.Context, campaignID, callerID string) (domain.Campaign, error)
}

// HandleCreateCampaign returns an HTTP handler for creating a draft campaign.
func HandleCreateCampaign(svc CampaignCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCampaignRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Title == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}

		ownerID, ok := UserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		in := app.CreateCampaignInput{
			OwnerID:     ownerID,
			Title:       req.Title,
			Description: req.Description,
			Category:    req.Category,
			GoalAmount:  req.GoalAmount,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
		}
		for _, tier := range req.RewardTiers {
			in.RewardTiers = append(in.RewardTiers, app.RewardTierInput{
				Title:             tier.Title,
				Description:       tier.Description,
				MinimumAmount:     tier.MinimumAmount,
				MaxBackers:        tier.MaxBackers,
				EstimatedDelivery: tier.EstimatedDelivery,
			})
		}

		detail, err := svc.CreateCampaign(r.Context(), in)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidGoalAmount),
				errors.Is(err, domain.ErrInvalidCampaignDates),
				errors.Is(err, domain.ErrInvalidAmount):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, domain.ErrUserNotFound):
				writeError(w, http.StatusNotFound, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeSuccess(w, http.StatusCreated, toCampaignDetailResponse(detail), "Campaign created successfully")
	}
}

// HandleGetCampaign returns an HTTP handler for fetching one campaign with its tiers.
func HandleGetCampaign(svc CampaignReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := svc.GetCampaign(r.Context(), chi.URLParam(r, "campaignID"))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidID):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, domain.ErrCampaignNotFound):
				writeError(w, http.StatusNotFound, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeSuccess(w, http.StatusOK, toCampaignDetailResponse(detail), "")
	}
}

// HandleListCampaigns returns an HTTP handler for browsing campaigns.
func HandleListCampaigns(svc CampaignReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := app.CampaignFilter{
			Limit:  queryInt(r, "limit"),
			Offset: queryInt(r, "offset"),
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status := domain.CampaignStatus(raw)
			filter.Status = &status
		}

		campaigns, err := svc.ListCampaigns(r.Context(), filter)
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

// HandleSubmitCampaign returns an HTTP handler for moving a draft into review.
func HandleSubmitCampaign(svc CampaignSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := UserID(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		campaign, err := svc.SubmitForReview(r.Context(), chi.URLParam(r, "campaignID"), callerID)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidID):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, domain.ErrCampaignNotFound):
				writeError(w, http.StatusNotFound, err.Error())
			case errors.Is(err, domain.ErrNotCampaignOwner):
				writeError(w, http.StatusForbidden, err.Error())
			case errors.Is(err, domain.ErrInvalidStatusChange):
				writeError(w, http.StatusConflict, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		writeSuccess(w, http.StatusOK, toCampaignResponse(campaign), "Campaign submitted for review")
	}
}

func queryInt(r *http.Request, key string) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

type rewardTierRequest struct {
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	MinimumAmount     decimal.Decimal `json:"minimum_amount"`
	MaxBackers        *int            `json:"max_backers"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery"`
}

type createCampaignRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	GoalAmount  decimal.Decimal     `json:"goal_amount"`
	StartDate   time.Time           `json:"start_date"`
	EndDate     time.Time           `json:"end_date"`
	RewardTiers []rewardTierRequest `json:"reward_tiers"`
}

type campaignResponse struct {
	ID                string    `json:"id"`
	OwnerID           string    `json:"owner_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	GoalAmount        string    `json:"goal_amount"`
	CurrentAmount     string    `json:"current_amount"`
	FundingPercentage string    `json:"funding_percentage"`
	Status            string    `json:"status"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	CreatedAt         time.Time `json:"created_at"`
}

type rewardTierResponse struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	MinimumAmount     string     `json:"minimum_amount"`
	MaxBackers        *int       `json:"max_backers,omitempty"`
	CurrentBackers    int        `json:"current_backers"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	IsAvailable       bool       `json:"is_available"`
}

type campaignDetailResponse struct {
	campaignResponse
	RewardTiers []rewardTierResponse `json:"reward_tiers"`
}

func toCampaignResponse(c domain.Campaign) campaignResponse {
	return campaignResponse{
		ID:                c.ID,
		OwnerID:           c.OwnerID,
		Title:             c.Title,
		Description:       c.Description,
		Category:          c.Category,
		GoalAmount:        c.GoalAmount.String(),
		CurrentAmount:     c.CurrentAmount.String(),
		FundingPercentage: c.FundingPercentage().StringFixed(2),
		Status:            string(c.Status),
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		CreatedAt:         c.CreatedAt,
	}
}

func toCampaignDetailResponse(detail app.CampaignDetail) campaignDetailResponse {
	resp := campaignDetailResponse{
		campaignResponse: toCampaignResponse(detail.Campaign),
		RewardTiers:      make([]rewardTierResponse, 0, len(detail.RewardTiers)),
	}
	for _, tier := range detail.RewardTiers {
		resp.RewardTiers = append(resp.RewardTiers, rewardTierResponse{
			ID:                tier.ID,
			Title:             tier.Title,
			Description:       tier.Description,
			MinimumAmount:     tier.MinimumAmount.String(),
			MaxBackers:        tier.MaxBackers,
			CurrentBackers:    tier.CurrentBackers,
			EstimatedDelivery: tier.EstimatedDelivery,
			IsAvailable:       tier.IsAvailable(),
		})
	}
	return resp
}
