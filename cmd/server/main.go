package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urbansignal/heatlens/internal/adapter/geoserver"
	"github.com/urbansignal/heatlens/internal/adapter/httpapi"
	"github.com/urbansignal/heatlens/internal/adapter/kafkaaudit"
	"github.com/urbansignal/heatlens/internal/analysis"
	"github.com/urbansignal/heatlens/internal/config"
	"github.com/urbansignal/heatlens/internal/domain"
	"github.com/urbansignal/heatlens/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	gs := geoserver.NewClient(cfg, logger, metrics)
	membership := geoserver.NewCachedMembership(gs, cfg.MembershipCacheSize, metrics)

	gate := domain.NewGate(membership, cfg.AOILayer, logger)
	point := domain.NewPointAnalyzer(gate, gs, cfg.PrimaryCoverage, cfg.InfoCoverages, logger)
	area := domain.NewAOIAnalyzer(gs, cfg.PrimaryCoverage, cfg.InfoCoverages, logger)

	// Audit trail is feature-flagged via AUDIT_ENABLED.
	var audit analysis.AuditSink
	var auditWriter *kafkaaudit.Writer
	if cfg.AuditEnabled {
		auditWriter = kafkaaudit.NewWriter(cfg, logger, metrics)
		audit = auditWriter
		logger.Info("kafka audit trail enabled", "topic", cfg.AuditTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka audit trail disabled")
	}

	svc := analysis.New(gs, point, area, cfg.PrimaryCoverage, cfg.InfoCoverages, audit, metrics, logger)

	srv := httpapi.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initial readiness probe; the service starts regardless so the backend
	// can come up after us.
	if err := svc.CheckReadiness(ctx); err != nil {
		logger.Warn("raster backend not reachable at startup", "error", err)
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if auditWriter != nil {
		if err := auditWriter.Close(); err != nil {
			logger.Error("kafka audit writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
