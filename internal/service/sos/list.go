package sos

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Get returns one of the user's alerts by ID.
func (s *Service) Get(ctx context.Context, userID, alertID uuid.UUID) (*domain.SOSAlert, error) {
	alert, err := s.alerts.GetByID(ctx, userID, alertID)
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return alert, nil
}

// ListActive returns the user's unresolved alerts, newest first.
func (s *Service) ListActive(ctx context.Context, userID uuid.UUID) ([]*domain.SOSAlert, error) {
	alerts, err := s.alerts.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active alerts: %w", err)
	}
	return alerts, nil
}

// List returns the user's alert history filtered by status and trip,
// newest first, with the total count for pagination.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter domain.AlertFilter) ([]*domain.SOSAlert, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, domain.NewValidationError("status", "unknown alert status")
	}

	alerts, total, err := s.alerts.List(ctx, userID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, total, nil
}
