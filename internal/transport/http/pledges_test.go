package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fundflow/crowdfund/services/api/internal/app"
	"github.com/fundflow/crowdfund/services/api/internal/domain"
)

func TestHandleCreatePledge(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	pledge := domain.Pledge{
		ID:                 "pledge-1",
		UserID:             "user-1",
		CampaignID:         "campaign-1",
		Amount:             decimal.NewFromInt(75),
		Status:             domain.PledgeStatusConfirmed,
		PaymentReferenceID: "txn-1",
		CreatedAt:          now,
		ProcessedAt:        &now,
	}

	tests := []struct {
		name           string
		body           string
		authenticated  bool
		result         app.CreatePledgeResult
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "confirmed pledge",
			body:           `{"amount": 75}`,
			authenticated:  true,
			result:         app.CreatePledgeResult{Pledge: pledge, Message: "Pledge created successfully"},
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"message":"Pledge created successfully"`,
		},
		{
			name:          "failed payment is still a created pledge",
			body:          `{"amount": 75}`,
			authenticated: true,
			result: app.CreatePledgeResult{
				Pledge:  domain.Pledge{ID: "pledge-2", Status: domain.PledgeStatusFailed, Amount: decimal.NewFromInt(75)},
				Message: "Pledge failed: Payment failed - insufficient funds",
			},
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"status":"failed"`,
		},
		{
			name:           "invalid body",
			body:           `{"amount": `,
			authenticated:  true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unauthenticated",
			body:           `{"amount": 75}`,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid amount",
			body:           `{"amount": -5}`,
			authenticated:  true,
			serviceErr:     domain.ErrInvalidAmount,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "below tier minimum",
			body:           `{"amount": 10, "reward_tier_id": "tier-1"}`,
			authenticated:  true,
			serviceErr:     domain.BelowMinimumPledgeError{Minimum: decimal.NewFromInt(50)},
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: "minimum pledge amount for this reward tier is 50",
		},
		{
			name:           "campaign not found",
			body:           `{"amount": 75}`,
			authenticated:  true,
			serviceErr:     domain.ErrCampaignNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "campaign not active",
			body:           `{"amount": 75}`,
			authenticated:  true,
			serviceErr:     domain.ErrCampaignNotActive,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "tier sold out",
			body:           `{"amount": 75, "reward_tier_id": "tier-1"}`,
			authenticated:  true,
			serviceErr:     domain.ErrRewardTierUnavailable,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "transaction failure is opaque",
			body:           `{"amount": 75}`,
			authenticated:  true,
			serviceErr:     domain.ErrTransactionFailed,
			expectedStatus: http.StatusInternalServerError,
			expectedSubstr: domain.ErrTransactionFailed.Error(),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubPledgeCreator{result: tt.result, err: tt.serviceErr}

			r := chi.NewRouter()
			r.Post("/campaigns/{campaignID}/pledge", HandleCreatePledge(svc))

			req := httptest.NewRequest(http.MethodPost, "/campaigns/campaign-1/pledge", strings.NewReader(tt.body))
			if tt.authenticated {
				req = req.WithContext(context.WithValue(req.Context(), userIDKey, "user-1"))
			}
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleCreatePledgePassesCampaignAndUser(t *testing.T) {
	t.Parallel()

	svc := &stubPledgeCreator{result: app.CreatePledgeResult{Pledge: domain.Pledge{ID: "p"}}}

	r := chi.NewRouter()
	r.Post("/campaigns/{campaignID}/pledge", HandleCreatePledge(svc))

	req := httptest.NewRequest(http.MethodPost, "/campaigns/campaign-9/pledge", strings.NewReader(`{"amount": "12.50"}`))
	req = req.WithContext(context.WithValue(req.Context(), userIDKey, "user-7"))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rec.Code)
	}
	if svc.lastInput.CampaignID != "campaign-9" {
		t.Fatalf("expected campaign id from path, got %q", svc.lastInput.CampaignID)
	}
	if svc.lastInput.UserID != "user-7" {
		t.Fatalf("expected user id from context, got %q", svc.lastInput.UserID)
	}
	if !svc.lastInput.Amount.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("expected amount 12.50, got %s", svc.lastInput.Amount)
	}
}

type stubPledgeCreator struct {
	result    app.CreatePledgeResult
	err       error
	lastInput app.CreatePledgeInput
}

func (s *stubPledgeCreator) CreatePledge(_ context.Context, in app.CreatePledgeInput) (app.CreatePledgeResult, error) {
	s.lastInput = in
	if s.err != nil {
		return app.CreatePledgeResult{}, s.err
	}
	return s.result, nil
}
