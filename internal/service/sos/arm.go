package sos

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
	"github.com/summitpath/summitpath-backend/internal/service/sos/holdtrigger"
)

// Status is the trigger state for one user and trip plus the alerts that
// still need attention. Clients render the whole SOS screen from it.
type Status struct {
	SessionID      uuid.UUID
	State          holdtrigger.State
	RemainingTicks int
	ActiveAlerts   []*domain.SOSAlert
}

// Arm starts the press-and-hold countdown. Pressing while already arming is
// idempotent and returns the running session.
func (s *Service) Arm(ctx context.Context, userID, tripID uuid.UUID) (Status, error) {
	session := s.trigger.Press(holdtrigger.Key{UserID: userID, TripID: tripID})
	return s.status(ctx, userID, session)
}

// Release cancels a running countdown. Releasing an idle trigger is a no-op.
func (s *Service) Release(ctx context.Context, userID, tripID uuid.UUID) (Status, error) {
	session := s.trigger.Release(holdtrigger.Key{UserID: userID, TripID: tripID})
	return s.status(ctx, userID, session)
}

// Disable turns the trigger off for the trip, cancelling any countdown.
// Already-fired alerts are unaffected.
func (s *Service) Disable(ctx context.Context, userID, tripID uuid.UUID) (Status, error) {
	session := s.trigger.Disable(holdtrigger.Key{UserID: userID, TripID: tripID})
	return s.status(ctx, userID, session)
}

// Enable turns a disabled trigger back on.
func (s *Service) Enable(ctx context.Context, userID, tripID uuid.UUID) (Status, error) {
	session := s.trigger.Enable(holdtrigger.Key{UserID: userID, TripID: tripID})
	return s.status(ctx, userID, session)
}

// TriggerStatus returns the current trigger state without changing it.
func (s *Service) TriggerStatus(ctx context.Context, userID, tripID uuid.UUID) (Status, error) {
	session := s.trigger.Current(holdtrigger.Key{UserID: userID, TripID: tripID})
	return s.status(ctx, userID, session)
}

func (s *Service) status(ctx context.Context, userID uuid.UUID, session holdtrigger.Session) (Status, error) {
	active, err := s.alerts.ListActive(ctx, userID)
	if err != nil {
		return Status{}, fmt.Errorf("list active alerts: %w", err)
	}

	return Status{
		SessionID:      session.ID,
		State:          session.State,
		RemainingTicks: session.RemainingTicks,
		ActiveAlerts:   active,
	}, nil
}
