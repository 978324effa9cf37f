// Package alert implements the SOS alert repository using PostgreSQL.
// Lifecycle queries use raw SQL; the filtered listing uses squirrel since
// the predicate set is dynamic.
package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/summitpath/summitpath-backend/internal/adapter/postgres"
	"github.com/summitpath/summitpath-backend/internal/domain"
)

// Repo provides SOS alert persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new alert repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const alertColumns = `id, user_id, trip_id, press_session_id, triggered_at, latitude, longitude, status, resolved_at, resolution_note, created_at`

const createSQL = `
INSERT INTO sos_alerts (id, user_id, trip_id, press_session_id, triggered_at, latitude, longitude, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + alertColumns

const getByIDSQL = `
SELECT ` + alertColumns + `
FROM sos_alerts
WHERE id = $1 AND user_id = $2`

const getByPressSessionSQL = `
SELECT ` + alertColumns + `
FROM sos_alerts
WHERE press_session_id = $1 AND user_id = $2`

const listActiveSQL = `
SELECT ` + alertColumns + `
FROM sos_alerts
WHERE user_id = $1 AND status = 'ACTIVE'
ORDER BY triggered_at DESC`

const resolveSQL = `
UPDATE sos_alerts
SET status = 'RESOLVED', resolved_at = $3, resolution_note = $4
WHERE id = $1 AND user_id = $2 AND status = 'ACTIVE'
RETURNING ` + alertColumns

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an alert by primary key filtered by user_id.
// Returns domain.ErrNotFound if the alert does not exist or belongs to another user.
func (r *Repo) GetByID(ctx context.Context, userID, alertID uuid.UUID) (*domain.SOSAlert, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, alertID, userID)

	a, err := scanAlert(row)
	if err != nil {
		return nil, mapError(err, "alert", alertID)
	}

	return a, nil
}

// GetByPressSession returns the alert created by a given press session.
// Returns domain.ErrNotFound if no alert was recorded for that session.
func (r *Repo) GetByPressSession(ctx context.Context, userID, pressSessionID uuid.UUID) (*domain.SOSAlert, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByPressSessionSQL, pressSessionID, userID)

	a, err := scanAlert(row)
	if err != nil {
		return nil, mapError(err, "alert", pressSessionID)
	}

	return a, nil
}

// ListActive returns all ACTIVE alerts for a user, newest first.
func (r *Repo) ListActive(ctx context.Context, userID uuid.UUID) ([]*domain.SOSAlert, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listActiveSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list active alerts: %w", err)
	}
	defer rows.Close()

	alerts, err := scanAlerts(rows)
	if err != nil {
		return nil, fmt.Errorf("list active alerts: %w", err)
	}

	return alerts, nil
}

// List returns alerts for a user matching the filter, newest first,
// plus the total count across all pages.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, filter domain.AlertFilter) ([]*domain.SOSAlert, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	pred := sq.And{sq.Eq{"user_id": userID}}
	if filter.Status != nil {
		pred = append(pred, sq.Eq{"status": string(*filter.Status)})
	}
	if filter.TripID != nil {
		pred = append(pred, sq.Eq{"trip_id": *filter.TripID})
	}

	countSQL, countArgs, err := psql.Select("count(*)").From("sos_alerts").Where(pred).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count alerts: %w", err)
	}

	query := psql.Select(alertColumns).
		From("sos_alerts").
		Where(pred).
		OrderBy("triggered_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	listSQL, listArgs, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := querier.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	alerts, err := scanAlerts(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("list alerts: %w", err)
	}

	return alerts, total, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new alert and returns the persisted domain.SOSAlert.
// A unique constraint on press_session_id makes creation idempotent per press:
// a duplicate press session results in domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, a *domain.SOSAlert) (*domain.SOSAlert, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	triggeredAt := a.TriggeredAt.UTC().Truncate(time.Microsecond)

	var lat, lng *float64
	if a.Location != nil {
		lat = &a.Location.Lat
		lng = &a.Location.Lng
	}

	row := querier.QueryRow(ctx, createSQL,
		a.ID,
		a.UserID,
		a.TripID,
		a.PressSessionID,
		triggeredAt,
		lat,
		lng,
		string(a.Status),
		now,
	)

	created, err := scanAlert(row)
	if err != nil {
		return nil, mapError(err, "alert", a.ID)
	}

	return created, nil
}

// Resolve marks an ACTIVE alert as RESOLVED with an optional note.
// Returns domain.ErrNotFound if the alert does not exist, belongs to another
// user, or is not ACTIVE. The caller decides whether an already-resolved
// alert is an error or a no-op.
func (r *Repo) Resolve(ctx context.Context, userID, alertID uuid.UUID, resolvedAt time.Time, note *string) (*domain.SOSAlert, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, resolveSQL, alertID, userID, resolvedAt.UTC().Truncate(time.Microsecond), note)

	resolved, err := scanAlert(row)
	if err != nil {
		return nil, mapError(err, "alert", alertID)
	}

	return resolved, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanAlert(row pgx.Row) (*domain.SOSAlert, error) {
	var (
		id             uuid.UUID
		userID         uuid.UUID
		tripID         uuid.UUID
		pressSessionID uuid.UUID
		triggeredAt    time.Time
		lat            *float64
		lng            *float64
		status         string
		resolvedAt     *time.Time
		resolutionNote *string
		createdAt      time.Time
	)

	if err := row.Scan(&id, &userID, &tripID, &pressSessionID, &triggeredAt,
		&lat, &lng, &status, &resolvedAt, &resolutionNote, &createdAt); err != nil {
		return nil, err
	}

	a := &domain.SOSAlert{
		ID:             id,
		UserID:         userID,
		TripID:         tripID,
		PressSessionID: pressSessionID,
		TriggeredAt:    triggeredAt,
		Status:         domain.AlertStatus(status),
		ResolvedAt:     resolvedAt,
		ResolutionNote: resolutionNote,
		CreatedAt:      createdAt,
	}
	if lat != nil && lng != nil {
		a.Location = &domain.GeoPoint{Lat: *lat, Lng: *lng}
	}

	return a, nil
}

func scanAlerts(rows pgx.Rows) ([]*domain.SOSAlert, error) {
	var alerts []*domain.SOSAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if alerts == nil {
		alerts = []*domain.SOSAlert{}
	}

	return alerts, nil
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
