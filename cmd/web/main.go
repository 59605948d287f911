package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agendalivre/agenda/internal/api/router"
	appconfig "github.com/agendalivre/agenda/internal/config"
	"github.com/agendalivre/agenda/internal/engine"
	"github.com/agendalivre/agenda/internal/observability/metrics"
	"github.com/agendalivre/agenda/internal/staticsite"
	"github.com/agendalivre/agenda/internal/upstream"
	"github.com/agendalivre/agenda/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting available-schedules web server",
		"env", cfg.Env,
		"port", cfg.Port,
		"upstream", cfg.UpstreamBaseURL,
	)

	refreshMetrics := metrics.NewRefreshMetrics(prometheus.DefaultRegisterer)

	source := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, logger)
	orchestrator := engine.NewOrchestrator(source, refreshMetrics, logger)
	manager := engine.NewManager(refreshMetrics)
	sessionsHandler := engine.NewHandler(manager, orchestrator, logger)

	routerCfg := &router.Config{
		Logger:             logger,
		Sessions:           sessionsHandler,
		Static:             staticsite.New(cfg.PublicDir, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
