package documents

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
)

// List returns the trip's documents with the user's download state merged in.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *Service) List(ctx context.Context, userID, tripID uuid.UUID) ([]domain.TripDocument, error) {
	docs, err := s.documents.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	downloads, err := s.loadDownloads(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	for i := range docs {
		if rec, ok := downloads[docs[i].ID]; ok {
			docs[i].Downloaded = true
			docs[i].DownloadDate = rec.DownloadDate
		}
	}
	return docs, nil
}

// MarkDownloaded records that the user stored a local copy of the document.
// Marking an already-downloaded document refreshes its download date.
// Returns domain.ErrNotFound if the document is not part of the trip.
func (s *Service) MarkDownloaded(ctx context.Context, userID, tripID, documentID uuid.UUID) (domain.TripDocument, error) {
	doc, err := s.documents.GetByID(ctx, tripID, documentID)
	if err != nil {
		return domain.TripDocument{}, fmt.Errorf("get document: %w", err)
	}

	downloads, err := s.loadDownloads(ctx, userID, tripID)
	if err != nil {
		return domain.TripDocument{}, err
	}
	if downloads == nil {
		downloads = make(map[uuid.UUID]downloadRecord, 1)
	}

	now := time.Now().UTC()
	downloads[doc.ID] = downloadRecord{ID: doc.ID.String(), DownloadDate: &now}

	if err := s.saveDownloads(ctx, userID, tripID, downloads); err != nil {
		return domain.TripDocument{}, err
	}

	s.log.InfoContext(ctx, "document marked downloaded",
		slog.String("user_id", userID.String()),
		slog.String("trip_id", tripID.String()),
		slog.String("document_id", documentID.String()),
	)

	doc.Downloaded = true
	doc.DownloadDate = &now
	return doc, nil
}
