package sos

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
)

// SafetyInfo returns the trip's emergency contact sheet.
// Returns domain.ErrNotFound when the trip has no safety info published.
func (s *Service) SafetyInfo(ctx context.Context, tripID uuid.UUID) (*domain.SafetyInfo, error) {
	info, err := s.fetchSafetyInfo(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("fetch safety info: %w", err)
	}
	if info == nil {
		return nil, fmt.Errorf("safety info for trip %s: %w", tripID, domain.ErrNotFound)
	}
	return info, nil
}
