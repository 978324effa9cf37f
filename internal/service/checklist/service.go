// Package checklist implements the trip readiness checklist business logic:
// merging organizer-curated equipment with the user's saved progress, the
// readiness gate over required items, and immutable completion snapshots.
package checklist

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type equipmentRepo interface {
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.EquipmentItem, error)
}

type stateStore interface {
	Get(ctx context.Context, userID, tripID uuid.UUID, kind domain.StateKind) (string, bool, error)
	Set(ctx context.Context, userID, tripID uuid.UUID, kind domain.StateKind, value string) error
	Remove(ctx context.Context, userID, tripID uuid.UUID, kind domain.StateKind) error
}

type snapshotRepo interface {
	Create(ctx context.Context, s *domain.ChecklistSnapshot) (*domain.ChecklistSnapshot, error)
	GetLatest(ctx context.Context, userID, tripID uuid.UUID) (*domain.ChecklistSnapshot, error)
	ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]*domain.ChecklistSnapshot, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the checklist business logic.
type Service struct {
	equipment  equipmentRepo
	state      stateStore
	snapshots  snapshotRepo
	log        *slog.Logger
	noteMaxLen int
}

// NewService creates a new checklist service.
func NewService(
	log *slog.Logger,
	equipment equipmentRepo,
	state stateStore,
	snapshots snapshotRepo,
	noteMaxLen int,
) *Service {
	return &Service{
		equipment:  equipment,
		state:      state,
		snapshots:  snapshots,
		log:        log.With("service", "checklist"),
		noteMaxLen: noteMaxLen,
	}
}

// View is the assembled checklist for one user and trip.
type View struct {
	TripID   uuid.UUID
	Items    []domain.ChecklistItem
	Progress int
	State    domain.ChecklistState
	Ready    bool
}

func buildView(tripID uuid.UUID, items []domain.ChecklistItem, hasSnapshot bool) View {
	return View{
		TripID:   tripID,
		Items:    items,
		Progress: domain.Progress(items),
		State:    domain.ChecklistStateOf(items, hasSnapshot),
		Ready:    domain.Gate(items),
	}
}
