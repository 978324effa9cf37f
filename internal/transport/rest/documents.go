package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
	"github.com/summitpath/summitpath-backend/pkg/ctxutil"
)

// documentsService defines the minimal interface needed by DocumentsHandler.
type documentsService interface {
	List(ctx context.Context, userID, tripID uuid.UUID) ([]domain.TripDocument, error)
	MarkDownloaded(ctx context.Context, userID, tripID, documentID uuid.UUID) (domain.TripDocument, error)
}

// DocumentsHandler serves trip document endpoints.
type DocumentsHandler struct {
	svc documentsService
	log *slog.Logger
}

// NewDocumentsHandler creates a DocumentsHandler.
func NewDocumentsHandler(svc documentsService, logger *slog.Logger) *DocumentsHandler {
	return &DocumentsHandler{svc: svc, log: logger.With("handler", "documents")}
}

type documentResponse struct {
	ID           string     `json:"id"`
	TripID       string     `json:"tripId"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	URL          string     `json:"url"`
	Downloaded   bool       `json:"downloaded"`
	DownloadDate *time.Time `json:"downloadDate,omitempty"`
}

// List handles GET /trips/{tripID}/documents.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid trip id")
		return
	}

	docs, err := h.svc.List(r.Context(), userID, tripID)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	resp := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		resp = append(resp, toDocumentResponse(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

// MarkDownloaded handles POST /trips/{tripID}/documents/{documentID}/download.
func (h *DocumentsHandler) MarkDownloaded(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid trip id")
		return
	}
	documentID, ok := pathUUID(r, "documentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	doc, err := h.svc.MarkDownloaded(r.Context(), userID, tripID, documentID)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDocumentResponse(doc))
}

func toDocumentResponse(d domain.TripDocument) documentResponse {
	return documentResponse{
		ID:           d.ID.String(),
		TripID:       d.TripID.String(),
		Name:         d.Name,
		Type:         d.Type.String(),
		URL:          d.URL,
		Downloaded:   d.Downloaded,
		DownloadDate: d.DownloadDate,
	}
}
