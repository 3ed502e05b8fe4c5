package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RouterDeps carries everything the router mounts.
type RouterDeps struct {
	Auth interface {
		Registrar
		Authenticator
	}
	Campaigns interface {
		CampaignCreator
		CampaignReader
		CampaignSubmitter
	}
	Pledges PledgeCreator
	Admin   CampaignModerator
	Tokens  TokenVerifier
	Logger  zerolog.Logger
}

// NewRouter wires all endpoints under /api/v1.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(deps.Logger))

	r.Get("/health", HealthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", HandleRegister(deps.Auth))
		r.Post("/auth/login", HandleLogin(deps.Auth))

		r.Get("/campaigns", HandleListCampaigns(deps.Campaigns))
		r.Get("/campaigns/{campaignID}", HandleGetCampaign(deps.Campaigns))

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(deps.Tokens))

			r.Post("/campaigns", HandleCreateCampaign(deps.Campaigns))
			r.Post("/campaigns/{campaignID}/submit", HandleSubmitCampaign(deps.Campaigns))
			r.Post("/campaigns/{campaignID}/pledge", HandleCreatePledge(deps.Pledges))

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireAdmin)

				r.Get("/campaigns/pending", HandleListPendingCampaigns(deps.Admin))
				r.Post("/campaigns/{campaignID}/approve", HandleApproveCampaign(deps.Admin))
				r.Post("/campaigns/{campaignID}/reject", HandleRejectCampaign(deps.Admin))
			})
		})
	})

	return r
}
