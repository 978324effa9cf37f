// Package equipment implements the canonical trip equipment repository using
// PostgreSQL. Equipment rows are the organizer-curated template a user's
// checklist is built from; per-user checked state lives elsewhere.
package equipment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/summitpath/summitpath-backend/internal/adapter/postgres"
	"github.com/summitpath/summitpath-backend/internal/domain"
)

// Repo provides trip equipment persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new equipment repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const equipmentColumns = `id, trip_id, category, name, description, required, position`

const listByTripSQL = `
SELECT ` + equipmentColumns + `
FROM trip_equipment
WHERE trip_id = $1
ORDER BY position`

const tripExistsSQL = `
SELECT EXISTS(SELECT 1 FROM trips WHERE id = $1)`

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// ListByTrip returns the canonical equipment list for a trip ordered by position.
// Returns domain.ErrNotFound if the trip does not exist; a trip with no
// equipment yields an empty slice.
func (r *Repo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.EquipmentItem, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := querier.QueryRow(ctx, tripExistsSQL, tripID).Scan(&exists); err != nil {
		return nil, mapError(err, "trip", tripID)
	}
	if !exists {
		return nil, fmt.Errorf("trip %s: %w", tripID, domain.ErrNotFound)
	}

	rows, err := querier.Query(ctx, listByTripSQL, tripID)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()

	var items []domain.EquipmentItem
	for rows.Next() {
		var it domain.EquipmentItem
		var category string
		if err := rows.Scan(&it.ID, &it.TripID, &category, &it.Name, &it.Description, &it.Required, &it.Position); err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		it.Category = domain.ChecklistCategory(category)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}

	if items == nil {
		items = []domain.EquipmentItem{}
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
