package sos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
)

// Resolve marks an active alert as handled. Resolving an already-resolved
// alert is an idempotent no-op that returns the stored record; the original
// resolution note and timestamp are kept.
func (s *Service) Resolve(ctx context.Context, userID, alertID uuid.UUID, note *string) (*domain.SOSAlert, error) {
	if err := s.validateNote(note); err != nil {
		return nil, err
	}

	resolved, err := s.alerts.Resolve(ctx, userID, alertID, time.Now().UTC(), note)
	if err == nil {
		s.log.InfoContext(ctx, "sos alert resolved",
			slog.String("alert_id", resolved.ID.String()),
			slog.String("user_id", userID.String()),
		)
		return resolved, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("resolve alert: %w", err)
	}

	// The conditional update matched nothing: either the alert does not
	// exist or it is already resolved.
	existing, getErr := s.alerts.GetByID(ctx, userID, alertID)
	if getErr != nil {
		return nil, fmt.Errorf("resolve alert: %w", getErr)
	}
	if existing.Status == domain.AlertStatusResolved {
		return existing, nil
	}
	return nil, fmt.Errorf("resolve alert %s: %w", alertID, domain.ErrNotFound)
}

func (s *Service) validateNote(note *string) error {
	if note == nil {
		return nil
	}
	if utf8.RuneCountInString(*note) > s.cfg.ResolveNoteMaxLen {
		return domain.NewValidationError("resolution_note",
			fmt.Sprintf("must be at most %d characters", s.cfg.ResolveNoteMaxLen))
	}
	return nil
}
