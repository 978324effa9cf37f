package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
)

// downloadRecord is one entry of the persisted per-user download state.
// IDs are stored as strings so a record from an older client version still
// decodes even if the list changed shape.
type downloadRecord struct {
	ID           string     `json:"id"`
	DownloadDate *time.Time `json:"download_date,omitempty"`
}

// loadDownloads reads the user's download records for a trip. Failed reads
// and missing or malformed state are all treated as "nothing downloaded yet":
// the canonical list must never become unreadable because of a bad or
// unavailable client-state blob.
func (s *Service) loadDownloads(ctx context.Context, userID, tripID uuid.UUID) (map[uuid.UUID]downloadRecord, error) {
	raw, ok, err := s.state.Get(ctx, userID, tripID, domain.StateKindDocuments)
	if err != nil {
		s.log.WarnContext(ctx, "document state unreadable, treating as empty",
			slog.String("user_id", userID.String()),
			slog.String("trip_id", tripID.String()),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}
	if !ok {
		return nil, nil
	}

	var records []downloadRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.log.WarnContext(ctx, "malformed document state, treating as empty",
			slog.String("user_id", userID.String()),
			slog.String("trip_id", tripID.String()),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}

	byID := make(map[uuid.UUID]downloadRecord, len(records))
	for _, rec := range records {
		id, err := uuid.Parse(rec.ID)
		if err != nil {
			continue
		}
		byID[id] = rec
	}
	return byID, nil
}

func (s *Service) saveDownloads(ctx context.Context, userID, tripID uuid.UUID, byID map[uuid.UUID]downloadRecord) error {
	records := make([]downloadRecord, 0, len(byID))
	for _, rec := range byID {
		records = append(records, rec)
	}

	blob, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode download state: %w", err)
	}

	if err := s.state.Set(ctx, userID, tripID, domain.StateKindDocuments, string(blob)); err != nil {
		// Writes cannot be recovered locally; the caller retries.
		return fmt.Errorf("save download state: %w: %w", domain.ErrStorage, err)
	}
	return nil
}
