package domain

import (
	"time"

	"github.com/google/uuid"
)

// GeoPoint is a WGS84 coordinate pair attached to an alert when location
// enrichment succeeded in time.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// SOSAlert is an emergency alert raised by a participant during a trip.
// UserID and TripID are lookup references only; the alert does not own either
// entity. Status moves ACTIVE → RESOLVED exactly once and alerts are never
// deleted. PressSessionID identifies the press-and-hold session that fired
// the alert: retries of the same session must not create a second alert.
type SOSAlert struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	TripID         uuid.UUID
	PressSessionID uuid.UUID
	TriggeredAt    time.Time
	Location       *GeoPoint
	Status         AlertStatus
	ResolvedAt     *time.Time
	ResolutionNote *string
	CreatedAt      time.Time
}

// IsActive reports whether the alert still needs attention.
func (a *SOSAlert) IsActive() bool { return a.Status == AlertStatusActive }

// AlertFilter defines parameters for listing a user's alerts.
type AlertFilter struct {
	// Status restricts results to one lifecycle state. nil means all.
	Status *AlertStatus

	// TripID restricts results to one trip. nil means all trips.
	TripID *uuid.UUID

	// Limit is the maximum number of alerts to return. Default: 50, max: 200.
	Limit int

	// Offset is the number of alerts to skip.
	Offset int
}
