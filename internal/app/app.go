// Package app wires configuration, storage, providers, services and the HTTP
// server into a running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/summitpath/summitpath-backend/internal/adapter/notify"
	"github.com/summitpath/summitpath-backend/internal/adapter/postgres"
	"github.com/summitpath/summitpath-backend/internal/adapter/postgres/alert"
	"github.com/summitpath/summitpath-backend/internal/adapter/postgres/clientstate"
	"github.com/summitpath/summitpath-backend/internal/adapter/postgres/equipment"
	"github.com/summitpath/summitpath-backend/internal/adapter/postgres/snapshot"
	"github.com/summitpath/summitpath-backend/internal/adapter/postgres/tripdoc"
	"github.com/summitpath/summitpath-backend/internal/adapter/provider/safetyinfo"
	"github.com/summitpath/summitpath-backend/internal/auth"
	"github.com/summitpath/summitpath-backend/internal/config"
	"github.com/summitpath/summitpath-backend/internal/service/checklist"
	"github.com/summitpath/summitpath-backend/internal/service/documents"
	"github.com/summitpath/summitpath-backend/internal/service/sos"
	"github.com/summitpath/summitpath-backend/internal/transport/middleware"
	"github.com/summitpath/summitpath-backend/internal/transport/rest"
)

// emergencyTraffic marks requests that must never be throttled: firing an
// alert, or pressing the SOS trigger. Everything else on the API is subject
// to the per-IP limit.
func emergencyTraffic(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	return strings.HasSuffix(r.URL.Path, "/alerts") || strings.HasSuffix(r.URL.Path, "/sos/press")
}

// Run is the application entry point. It blocks until ctx is cancelled, then
// shuts down gracefully: the HTTP server drains, the SOS controller cancels
// running countdowns, and the database pool closes.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	// Repositories.
	alerts := alert.New(pool)
	snapshots := snapshot.New(pool)
	states := clientstate.New(pool)
	equipmentRepo := equipment.New(pool)
	docs := tripdoc.New(pool)

	// External collaborators.
	safetyInfoProvider := safetyinfo.NewProvider(cfg.Providers.SafetyInfoBaseURL, logger)
	locationProvider := newLocationProvider(cfg.Providers.GeolocateBaseURL, logger)
	notifier := notify.NewWebhookNotifier(cfg.Providers.NotifyGatewayURL, logger)

	// Services.
	checklistSvc := checklist.NewService(logger, equipmentRepo, states, snapshots, cfg.Safety.ChecklistNoteMaxLen)
	documentsSvc := documents.NewService(logger, docs, states)
	sosSvc := sos.NewService(logger, alerts, locationProvider, safetyInfoProvider, notifier, nil, sos.Config{
		HoldTicks:         cfg.Safety.HoldTicks,
		TickInterval:      cfg.Safety.TickInterval,
		LocationTimeout:   cfg.Safety.LocationTimeout,
		ResolveNoteMaxLen: cfg.Safety.ResolveNoteMaxLen,
	})
	defer sosSvc.Close()

	// Transport.
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	router := rest.NewRouter(rest.Handlers{
		Health:    rest.NewHealthHandler(pool, BuildVersion()),
		Checklist: rest.NewChecklistHandler(checklistSvc, logger),
		Documents: rest.NewDocumentsHandler(documentsSvc, logger),
		SOS:       rest.NewSOSHandler(sosSvc, logger),
		Safety:    rest.NewSafetyHandler(sosSvc, logger),
	}, middleware.Auth(jwtManager))

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		rateLimiter.LimitExcept(cfg.Server.RateLimitPerMin, emergencyTraffic),
	)(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
