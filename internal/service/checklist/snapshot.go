package checklist

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
)

// Complete records an immutable snapshot of the current checklist.
// The readiness gate must pass: every required item checked. Optional items
// never block completion. Returns domain.ErrChecklistIncomplete otherwise.
func (s *Service) Complete(ctx context.Context, userID, tripID uuid.UUID) (*domain.ChecklistSnapshot, error) {
	items, err := s.assemble(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	if !domain.Gate(items) {
		return nil, fmt.Errorf("trip %s: %w", tripID, domain.ErrChecklistIncomplete)
	}

	snapshot := &domain.ChecklistSnapshot{
		ID:          uuid.New(),
		UserID:      userID,
		TripID:      tripID,
		Items:       items,
		CompletedAt: time.Now().UTC(),
	}

	created, err := s.snapshots.Create(ctx, snapshot)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	s.log.InfoContext(ctx, "checklist completed",
		slog.String("user_id", userID.String()),
		slog.String("trip_id", tripID.String()),
		slog.String("snapshot_id", created.ID.String()),
		slog.Int("items", len(created.Items)),
	)

	return created, nil
}

// History returns all completion snapshots for a user and trip, newest first.
func (s *Service) History(ctx context.Context, userID, tripID uuid.UUID) ([]*domain.ChecklistSnapshot, error) {
	snapshots, err := s.snapshots.ListByTrip(ctx, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snapshots, nil
}
