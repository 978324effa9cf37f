package checklist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
)

// persistedItem is the stored per-user progress for one checklist item.
// Only user-editable fields are persisted; names, categories, and the
// required flag always come from the canonical equipment list.
type persistedItem struct {
	ID      string  `json:"id"`
	Checked bool    `json:"checked"`
	Notes   *string `json:"notes,omitempty"`
}

// loadPersisted reads the user's saved checklist progress.
// A failed read, a missing blob and a malformed blob all yield nil: saved
// progress is an overlay on the canonical list, so anything unreadable is
// logged and treated as if the user had never saved, never surfaced as an
// error.
func (s *Service) loadPersisted(ctx context.Context, userID, tripID uuid.UUID) ([]domain.ChecklistItem, error) {
	raw, ok, err := s.state.Get(ctx, userID, tripID, domain.StateKindChecklist)
	if err != nil {
		s.log.WarnContext(ctx, "checklist state unreadable, using canonical defaults",
			slog.String("user_id", userID.String()),
			slog.String("trip_id", tripID.String()),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}
	if !ok {
		return nil, nil
	}

	var stored []persistedItem
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.log.WarnContext(ctx, "discarding malformed checklist state",
			slog.String("user_id", userID.String()),
			slog.String("trip_id", tripID.String()),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}

	items := make([]domain.ChecklistItem, 0, len(stored))
	for _, p := range stored {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			// Skip entries whose IDs no longer parse; the rest stay usable.
			continue
		}
		items = append(items, domain.ChecklistItem{
			ID:      id,
			Checked: p.Checked,
			Notes:   p.Notes,
		})
	}

	return items, nil
}

// savePersisted writes the user's checklist progress.
func (s *Service) savePersisted(ctx context.Context, userID, tripID uuid.UUID, items []domain.ChecklistItem) error {
	stored := make([]persistedItem, len(items))
	for i, it := range items {
		stored[i] = persistedItem{
			ID:      it.ID.String(),
			Checked: it.Checked,
			Notes:   it.Notes,
		}
	}

	blob, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal checklist state: %w", err)
	}

	if err := s.state.Set(ctx, userID, tripID, domain.StateKindChecklist, string(blob)); err != nil {
		// Writes cannot be recovered locally; the caller retries.
		return fmt.Errorf("save checklist state: %w: %w", domain.ErrStorage, err)
	}

	return nil
}
