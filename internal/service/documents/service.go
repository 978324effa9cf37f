// Package documents merges the canonical per-trip document list with each
// participant's locally tracked download state. Documents are read-only
// organizer content; only the downloaded flag and date belong to the user.
package documents

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
)

type documentRepo interface {
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripDocument, error)
	GetByID(ctx context.Context, tripID, documentID uuid.UUID) (domain.TripDocument, error)
}

type stateStore interface {
	Get(ctx context.Context, userID, tripID uuid.UUID, kind domain.StateKind) (string, bool, error)
	Set(ctx context.Context, userID, tripID uuid.UUID, kind domain.StateKind, value string) error
}

// Service implements trip document operations.
type Service struct {
	log       *slog.Logger
	documents documentRepo
	state     stateStore
}

// NewService creates a new Documents service.
func NewService(logger *slog.Logger, documents documentRepo, state stateStore) *Service {
	return &Service{
		log:       logger.With("service", "documents"),
		documents: documents,
		state:     state,
	}
}
