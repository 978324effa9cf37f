// Package clientstate implements the per-user client state repository using
// PostgreSQL. Each row holds one opaque serialized blob keyed by
// (user_id, trip_id, kind). The repo never inspects the payload; tolerant
// decoding is the caller's concern.
package clientstate

import (
	"context"
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

// Repo provides client state persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new client state repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const getSQL = `
SELECT value
FROM client_state
WHERE user_id = $1 AND trip_id = $2 AND kind = $3`

const setSQL = `
INSERT INTO client_state (user_id, trip_id, kind, value, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, trip_id, kind)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

const removeSQL = `
DELETE FROM client_state
WHERE user_id = $1 AND trip_id = $2 AND kind = $3`

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// Get returns the stored blob for the given key.
// The second return value reports whether a row exists; an absent key is not an error.
func (r *Repo) Get(ctx context.Context, userID, tripID uuid.UUID, kind domain.StateKind) (string, bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var value string
	err := querier.QueryRow(ctx, getSQL, userID, tripID, string(kind)).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, mapError(err, "client_state", userID)
	}

	return value, true, nil
}

// Set stores the blob for the given key, replacing any previous value.
func (r *Repo) Set(ctx context.Context, userID, tripID uuid.UUID, kind domain.StateKind, value string) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	if _, err := querier.Exec(ctx, setSQL, userID, tripID, string(kind), value, now); err != nil {
		return mapError(err, "client_state", userID)
	}

	return nil
}

// Remove deletes the blob for the given key. Removing an absent key is a no-op.
func (r *Repo) Remove(ctx context.Context, userID, tripID uuid.UUID, kind domain.StateKind) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, removeSQL, userID, tripID, string(kind)); err != nil {
		return mapError(err, "client_state", userID)
	}

	return nil
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
