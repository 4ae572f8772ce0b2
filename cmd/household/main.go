package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"household/internal/backend"
	"household/internal/cli"
	apphttp "household/internal/http"
	"household/internal/log"
	"household/internal/metrics"
	"household/internal/middleware/ratelimit"
	"household/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	logger.Info("Starting household server", log.FieldOperation, log.OpStartup)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	factory := backend.NewFactory(logger.WithComponent(log.ComponentBackend))
	res, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	var events services.EventPublisher
	if res.Events != nil {
		events = res.Events
	}
	household := services.NewHouseholdService(res.Store, events)

	dashboard, err := services.NewDashboardService(res.Store, services.Thresholds{
		DueSoonDays:       cfg.DueSoonDays,
		StalePasswordDays: cfg.StalePasswordDays,
	})
	if err != nil {
		logger.Error("Invalid dashboard thresholds", log.FieldError, err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Household: household,
		Dashboard: dashboard,
		Metrics:   metrics.New(),
		Logger:    logger,
		CacheTTL:  cfg.DashboardCacheTTL,
		RateLimit: ratelimit.DefaultConfig(),
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if res.Cleanup != nil {
			if err := res.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", log.FieldError, err)
			}
		}
	})

	logger.Info("Listening",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"events_enabled", res.Events != nil,
		"dashboard_cache_ttl", cfg.DashboardCacheTTL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
