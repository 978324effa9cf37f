// Package sos implements the emergency alert pipeline: press-and-hold arming,
// alert creation with best-effort location capture, escalation to external
// channels, and resolution.
package sos

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
	"github.com/summitpath/summitpath-backend/internal/provider"
	"github.com/summitpath/summitpath-backend/internal/service/sos/holdtrigger"
)

// Consumer-defined interfaces (private)

type alertRepo interface {
	Create(ctx context.Context, a *domain.SOSAlert) (*domain.SOSAlert, error)
	GetByID(ctx context.Context, userID, alertID uuid.UUID) (*domain.SOSAlert, error)
	GetByPressSession(ctx context.Context, userID, pressSessionID uuid.UUID) (*domain.SOSAlert, error)
	ListActive(ctx context.Context, userID uuid.UUID) ([]*domain.SOSAlert, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.AlertFilter) ([]*domain.SOSAlert, int, error)
	Resolve(ctx context.Context, userID, alertID uuid.UUID, resolvedAt time.Time, note *string) (*domain.SOSAlert, error)
}

type locationProvider interface {
	SampleOnce(ctx context.Context, userID uuid.UUID) (*provider.LocationFix, error)
}

type safetyInfoProvider interface {
	FetchSafetyInfo(ctx context.Context, tripID uuid.UUID) (*provider.SafetyInfoResult, error)
}

type alertNotifier interface {
	NotifyAlert(ctx context.Context, alert *domain.SOSAlert, info *domain.SafetyInfo)
}

// Config bundles the tunable parameters of the pipeline.
type Config struct {
	// HoldTicks is the number of countdown intervals before an alert fires.
	HoldTicks int
	// TickInterval is the length of one countdown interval.
	TickInterval time.Duration
	// LocationTimeout bounds the position lookup during alert creation.
	// Alert persistence never waits longer than this for a fix.
	LocationTimeout time.Duration
	// ResolveNoteMaxLen caps the resolution note length in runes.
	ResolveNoteMaxLen int
	// FireTimeout bounds the whole countdown-fired pipeline: alert insert,
	// location lookup and escalation.
	FireTimeout time.Duration
}

// Service implements SOS alert operations.
type Service struct {
	log        *slog.Logger
	alerts     alertRepo
	location   locationProvider
	safetyInfo safetyInfoProvider
	notifier   alertNotifier
	trigger    *holdtrigger.Controller
	cfg        Config
}

// NewService creates a new SOS service. The press-and-hold controller is owned
// by the service: a completed countdown calls Create with the press session ID
// as the idempotency key. haptics may be nil.
func NewService(
	logger *slog.Logger,
	alerts alertRepo,
	location locationProvider,
	safetyInfo safetyInfoProvider,
	notifier alertNotifier,
	haptics holdtrigger.Haptics,
	cfg Config,
) *Service {
	if cfg.FireTimeout <= 0 {
		cfg.FireTimeout = 30 * time.Second
	}

	s := &Service{
		log:        logger.With("service", "sos"),
		alerts:     alerts,
		location:   location,
		safetyInfo: safetyInfo,
		notifier:   notifier,
		cfg:        cfg,
	}
	s.trigger = holdtrigger.NewController(
		holdtrigger.Params{HoldTicks: cfg.HoldTicks},
		cfg.TickInterval,
		haptics,
		s.fireAlert,
		logger,
	)
	return s
}

// Close stops every running countdown. No alert fires after Close returns.
func (s *Service) Close() {
	s.trigger.Close()
}

// fireAlert runs when a countdown completes. It is detached from the request
// that armed the trigger: the press has long been acknowledged, so the
// pipeline gets its own bounded context.
func (s *Service) fireAlert(key holdtrigger.Key, sessionID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FireTimeout)
	defer cancel()

	if _, err := s.Create(ctx, key.UserID, key.TripID, sessionID, nil); err != nil {
		s.log.ErrorContext(ctx, "sos alert creation failed after countdown",
			slog.String("user_id", key.UserID.String()),
			slog.String("trip_id", key.TripID.String()),
			slog.String("press_session_id", sessionID.String()),
			slog.String("error", err.Error()),
		)
	}
}
