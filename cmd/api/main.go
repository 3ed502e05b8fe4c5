package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fundflow/crowdfund/services/api/internal/app"
	"github.com/fundflow/crowdfund/services/api/internal/auth"
	"github.com/fundflow/crowdfund/services/api/internal/clock"
	"github.com/fundflow/crowdfund/services/api/internal/config"
	"github.com/fundflow/crowdfund/services/api/internal/infra"
	"github.com/fundflow/crowdfund/services/api/internal/payment"
	"github.com/fundflow/crowdfund/services/api/internal/storage/postgres"
	transporthttp "github.com/fundflow/crowdfund/services/api/internal/transport/http"
	"github.com/fundflow/crowdfund/services/api/migrations"
)

func main() {
	cfg := config.Load()
	logger := infra.NewLogger(cfg.AppEnv)

	startupCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := infra.NewDBPool(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to db")
	}
	defer pool.Close()

	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}

	clk := clock.NewSystem()
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	gateway := payment.NewSimulator(
		payment.WithSuccessRate(cfg.PaymentSuccessRate),
		payment.WithDelay(cfg.PaymentDelay),
	)

	userRepo := postgres.NewUserRepository(pool)
	campaignRepo := postgres.NewCampaignRepository(pool)
	pledgeRepo := postgres.NewPledgeRepository(pool)

	authSvc := app.NewAuthService(userRepo, tokens, clk)
	campaignSvc := app.NewCampaignService(campaignRepo, clk, app.PromoteToCampaignOwner{})
	adminSvc := app.NewAdminService(campaignRepo, clk, logger)
	pledgeSvc := app.NewPledgeService(pledgeRepo, gateway, clk, logger,
		app.WithPaymentTimeout(cfg.PaymentTimeout))

	router := transporthttp.NewRouter(transporthttp.RouterDeps{
		Auth:      authSvc,
		Campaigns: campaignSvc,
		Pledges:   pledgeSvc,
		Admin:     adminSvc,
		Tokens:    tokens,
		Logger:    logger,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	logger.Info().Str("port", cfg.Port).Msg("api listening")

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
		}
	case <-stopCtx.Done():
		logger.Info().Msg("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	logger.Info().Msg("server stopped")
}
