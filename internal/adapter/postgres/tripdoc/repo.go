// Package tripdoc implements the trip document repository using PostgreSQL.
// Documents are canonical per trip; per-user download state is merged in
// from client state by the service layer.
package tripdoc

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

// Repo provides trip document persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new trip document repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const documentColumns = `id, trip_id, name, doc_type, url`

const listByTripSQL = `
SELECT ` + documentColumns + `
FROM trip_documents
WHERE trip_id = $1
ORDER BY name`

const getByIDSQL = `
SELECT ` + documentColumns + `
FROM trip_documents
WHERE id = $1 AND trip_id = $2`

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// ListByTrip returns all documents for a trip ordered by name.
func (r *Repo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripDocument, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByTripSQL, tripID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.TripDocument
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	if docs == nil {
		docs = []domain.TripDocument{}
	}

	return docs, nil
}

// GetByID returns a document by primary key scoped to a trip.
// Returns domain.ErrNotFound if the document does not exist or belongs to
// another trip.
func (r *Repo) GetByID(ctx context.Context, tripID, documentID uuid.UUID) (domain.TripDocument, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	d, err := scanDocument(querier.QueryRow(ctx, getByIDSQL, documentID, tripID))
	if err != nil {
		return domain.TripDocument{}, mapError(err, "document", documentID)
	}

	return d, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanDocument(row pgx.Row) (domain.TripDocument, error) {
	var (
		d       domain.TripDocument
		docType string
	)

	if err := row.Scan(&d.ID, &d.TripID, &d.Name, &docType, &d.URL); err != nil {
		return domain.TripDocument{}, err
	}
	d.Type = domain.DocumentType(docType)

	return d, nil
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
