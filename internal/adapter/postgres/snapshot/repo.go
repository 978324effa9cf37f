// Package snapshot implements the checklist snapshot repository using PostgreSQL.
// All queries use raw SQL since the items column is JSONB requiring custom
// marshal/unmarshal logic. Snapshots are insert-only; there is no update path.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/summitpath/summitpath-backend/internal/adapter/postgres"
	"github.com/summitpath/summitpath-backend/internal/domain"
)

// Repo provides checklist snapshot persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new snapshot repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const snapshotColumns = `id, user_id, trip_id, items, completed_at`

const createSQL = `
INSERT INTO checklist_snapshots (id, user_id, trip_id, items, completed_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + snapshotColumns

const getLatestSQL = `
SELECT ` + snapshotColumns + `
FROM checklist_snapshots
WHERE user_id = $1 AND trip_id = $2
ORDER BY completed_at DESC
LIMIT 1`

const listByTripSQL = `
SELECT ` + snapshotColumns + `
FROM checklist_snapshots
WHERE user_id = $1 AND trip_id = $2
ORDER BY completed_at DESC`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetLatest returns the most recent snapshot for a user and trip.
// Returns domain.ErrNotFound if no snapshot has been recorded.
func (r *Repo) GetLatest(ctx context.Context, userID, tripID uuid.UUID) (*domain.ChecklistSnapshot, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getLatestSQL, userID, tripID)

	s, err := scanSnapshot(row)
	if err != nil {
		return nil, mapError(err, "snapshot", tripID)
	}

	return s, nil
}

// ListByTrip returns all snapshots for a user and trip, newest first.
func (r *Repo) ListByTrip(ctx context.Context, userID, tripID uuid.UUID) ([]*domain.ChecklistSnapshot, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByTripSQL, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.ChecklistSnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	if snapshots == nil {
		snapshots = []*domain.ChecklistSnapshot{}
	}

	return snapshots, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new snapshot and returns the persisted domain.ChecklistSnapshot.
// Snapshots are never updated after creation.
func (r *Repo) Create(ctx context.Context, s *domain.ChecklistSnapshot) (*domain.ChecklistSnapshot, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	itemsBytes, err := marshalItems(s.Items)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: marshal items: %w", s.ID, err)
	}

	row := querier.QueryRow(ctx, createSQL,
		s.ID,
		s.UserID,
		s.TripID,
		itemsBytes,
		s.CompletedAt.UTC().Truncate(time.Microsecond),
	)

	created, err := scanSnapshot(row)
	if err != nil {
		return nil, mapError(err, "snapshot", s.ID)
	}

	return created, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanSnapshot(row pgx.Row) (*domain.ChecklistSnapshot, error) {
	var (
		id          uuid.UUID
		userID      uuid.UUID
		tripID      uuid.UUID
		itemsJSON   []byte
		completedAt time.Time
	)

	if err := row.Scan(&id, &userID, &tripID, &itemsJSON, &completedAt); err != nil {
		return nil, err
	}

	items, err := unmarshalItems(itemsJSON)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", id, err)
	}

	return &domain.ChecklistSnapshot{
		ID:          id,
		UserID:      userID,
		TripID:      tripID,
		Items:       items,
		CompletedAt: completedAt,
	}, nil
}

// ---------------------------------------------------------------------------
// JSONB serialization helpers for checklist items
// ---------------------------------------------------------------------------

// snapshotItemJSON is an intermediate struct for JSON marshaling of
// domain.ChecklistItem. Domain types have no json tags, so the repo layer
// handles serialization.
type snapshotItemJSON struct {
	ID          uuid.UUID `json:"id"`
	Category    string    `json:"category"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Checked     bool      `json:"checked"`
	Required    bool      `json:"required"`
	Notes       *string   `json:"notes,omitempty"`
}

func marshalItems(items []domain.ChecklistItem) ([]byte, error) {
	out := make([]snapshotItemJSON, len(items))
	for i, it := range items {
		out[i] = snapshotItemJSON{
			ID:          it.ID,
			Category:    string(it.Category),
			Name:        it.Name,
			Description: it.Description,
			Checked:     it.Checked,
			Required:    it.Required,
			Notes:       it.Notes,
		}
	}
	return json.Marshal(out)
}

func unmarshalItems(data []byte) ([]domain.ChecklistItem, error) {
	if len(data) == 0 {
		return []domain.ChecklistItem{}, nil
	}

	var raw []snapshotItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot items: %w", err)
	}

	items := make([]domain.ChecklistItem, len(raw))
	for i, it := range raw {
		items[i] = domain.ChecklistItem{
			ID:          it.ID,
			Category:    domain.ChecklistCategory(it.Category),
			Name:        it.Name,
			Description: it.Description,
			Checked:     it.Checked,
			Required:    it.Required,
			Notes:       it.Notes,
		}
	}

	return items, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
