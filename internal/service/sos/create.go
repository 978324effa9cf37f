package sos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
	"github.com/summitpath/summitpath-backend/internal/provider"
)

// Create persists a new SOS alert and escalates it to external channels.
//
// The order is deliberate: the alert row is written first so an emergency is
// never lost to a slow or failing downstream. A device-side fix supplied by
// the caller wins; otherwise one position sample is taken, bounded by
// LocationTimeout and treated as optional. A retried create for the same
// press session returns the existing alert without notifying again.
func (s *Service) Create(ctx context.Context, userID, tripID, pressSessionID uuid.UUID, location *domain.GeoPoint) (*domain.SOSAlert, error) {
	if err := validateLocation(location); err != nil {
		return nil, err
	}
	if location == nil {
		location = s.sampleLocation(ctx, userID)
	}

	alert := &domain.SOSAlert{
		ID:             uuid.New(),
		UserID:         userID,
		TripID:         tripID,
		PressSessionID: pressSessionID,
		TriggeredAt:    time.Now().UTC(),
		Location:       location,
		Status:         domain.AlertStatusActive,
	}

	created, err := s.alerts.Create(ctx, alert)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			existing, getErr := s.alerts.GetByPressSession(ctx, userID, pressSessionID)
			if getErr != nil {
				return nil, fmt.Errorf("get alert for press session: %w", getErr)
			}
			s.log.InfoContext(ctx, "sos alert already exists for press session",
				slog.String("alert_id", existing.ID.String()),
				slog.String("press_session_id", pressSessionID.String()),
			)
			return existing, nil
		}
		return nil, fmt.Errorf("create alert: %w", err)
	}

	s.log.InfoContext(ctx, "sos alert created",
		slog.String("alert_id", created.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("trip_id", tripID.String()),
		slog.Bool("has_location", created.Location != nil),
	)

	s.escalate(ctx, created)

	return created, nil
}

func validateLocation(loc *domain.GeoPoint) error {
	if loc == nil {
		return nil
	}
	if loc.Lat < -90 || loc.Lat > 90 {
		return domain.NewValidationError("location.lat", "must be between -90 and 90")
	}
	if loc.Lng < -180 || loc.Lng > 180 {
		return domain.NewValidationError("location.lng", "must be between -180 and 180")
	}
	return nil
}

// sampleLocation fetches one position fix within LocationTimeout.
// Any failure degrades to a location-less alert.
func (s *Service) sampleLocation(ctx context.Context, userID uuid.UUID) *domain.GeoPoint {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.LocationTimeout)
	defer cancel()

	fix, err := s.location.SampleOnce(ctx, userID)
	if err != nil {
		s.log.DebugContext(ctx, "location lookup failed, creating alert without position",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if fix == nil {
		return nil
	}
	return &domain.GeoPoint{Lat: fix.Lat, Lng: fix.Lng}
}

// escalate looks up the trip's safety contacts and fans the alert out.
// Best effort end to end: the alert is already persisted.
func (s *Service) escalate(ctx context.Context, alert *domain.SOSAlert) {
	info, err := s.fetchSafetyInfo(ctx, alert.TripID)
	if err != nil {
		s.log.WarnContext(ctx, "safety info unavailable for escalation",
			slog.String("alert_id", alert.ID.String()),
			slog.String("trip_id", alert.TripID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.notifier.NotifyAlert(ctx, alert, info)
}

func (s *Service) fetchSafetyInfo(ctx context.Context, tripID uuid.UUID) (*domain.SafetyInfo, error) {
	result, err := s.safetyInfo.FetchSafetyInfo(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return mapSafetyInfo(tripID, result), nil
}

func mapSafetyInfo(tripID uuid.UUID, r *provider.SafetyInfoResult) *domain.SafetyInfo {
	return &domain.SafetyInfo{
		TripID:           tripID,
		GuideName:        r.GuideName,
		GuidePhone:       r.GuidePhone,
		EmergencyNumbers: r.EmergencyNumbers,
		MeetingPoint:     r.MeetingPoint,
		NearestHospital:  r.NearestHospital,
		AuthorityWebhook: r.AuthorityWebhook,
	}
}
