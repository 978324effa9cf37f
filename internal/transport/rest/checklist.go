package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
	"github.com/summitpath/summitpath-backend/internal/service/checklist"
	"github.com/summitpath/summitpath-backend/pkg/ctxutil"
)

// checklistService defines the minimal interface needed by ChecklistHandler.
type checklistService interface {
	Get(ctx context.Context, userID, tripID uuid.UUID) (checklist.View, error)
	Toggle(ctx context.Context, userID, tripID, itemID uuid.UUID, checked bool) (checklist.View, error)
	SetNotes(ctx context.Context, userID, tripID, itemID uuid.UUID, notes *string) (checklist.View, error)
	Reset(ctx context.Context, userID, tripID uuid.UUID) (checklist.View, error)
	Complete(ctx context.Context, userID, tripID uuid.UUID) (*domain.ChecklistSnapshot, error)
	History(ctx context.Context, userID, tripID uuid.UUID) ([]*domain.ChecklistSnapshot, error)
}

// ChecklistHandler serves pre-trip checklist endpoints.
type ChecklistHandler struct {
	svc checklistService
	log *slog.Logger
}

// NewChecklistHandler creates a ChecklistHandler.
func NewChecklistHandler(svc checklistService, logger *slog.Logger) *ChecklistHandler {
	return &ChecklistHandler{svc: svc, log: logger.With("handler", "checklist")}
}

type checklistItemResponse struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Checked     bool    `json:"checked"`
	Required    bool    `json:"required"`
	Notes       *string `json:"notes,omitempty"`
}

type checklistResponse struct {
	TripID   string                  `json:"tripId"`
	Items    []checklistItemResponse `json:"items"`
	Progress int                     `json:"progress"`
	State    string                  `json:"state"`
	Ready    bool                    `json:"ready"`
}

type snapshotResponse struct {
	ID          string                  `json:"id"`
	TripID      string                  `json:"tripId"`
	Items       []checklistItemResponse `json:"items"`
	CompletedAt time.Time               `json:"completedAt"`
}

type setCheckedRequest struct {
	Checked bool `json:"checked"`
}

type setNotesRequest struct {
	Notes *string `json:"notes"`
}

// Get handles GET /trips/{tripID}/checklist.
func (h *ChecklistHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := h.identify(w, r)
	if !ok {
		return
	}

	view, err := h.svc.Get(r.Context(), userID, tripID)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toChecklistResponse(view))
}

// SetChecked handles PUT /trips/{tripID}/checklist/items/{itemID}/checked.
func (h *ChecklistHandler) SetChecked(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := h.identify(w, r)
	if !ok {
		return
	}
	itemID, ok := pathUUID(r, "itemID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req setCheckedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.svc.Toggle(r.Context(), userID, tripID, itemID, req.Checked)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toChecklistResponse(view))
}

// SetNotes handles PUT /trips/{tripID}/checklist/items/{itemID}/notes.
func (h *ChecklistHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := h.identify(w, r)
	if !ok {
		return
	}
	itemID, ok := pathUUID(r, "itemID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req setNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.svc.SetNotes(r.Context(), userID, tripID, itemID, req.Notes)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toChecklistResponse(view))
}

// Reset handles POST /trips/{tripID}/checklist/reset.
func (h *ChecklistHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := h.identify(w, r)
	if !ok {
		return
	}

	view, err := h.svc.Reset(r.Context(), userID, tripID)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toChecklistResponse(view))
}

// Complete handles POST /trips/{tripID}/checklist/complete.
func (h *ChecklistHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := h.identify(w, r)
	if !ok {
		return
	}

	snapshot, err := h.svc.Complete(r.Context(), userID, tripID)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSnapshotResponse(snapshot))
}

// History handles GET /trips/{tripID}/checklist/history.
func (h *ChecklistHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, tripID, ok := h.identify(w, r)
	if !ok {
		return
	}

	snapshots, err := h.svc.History(r.Context(), userID, tripID)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	resp := make([]snapshotResponse, 0, len(snapshots))
	for _, s := range snapshots {
		resp = append(resp, toSnapshotResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// identify extracts the authenticated user and the trip path parameter.
func (h *ChecklistHandler) identify(w http.ResponseWriter, r *http.Request) (userID, tripID uuid.UUID, ok bool) {
	userID, ok = ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	tripID, ok = pathUUID(r, "tripID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid trip id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, tripID, true
}

func toChecklistResponse(view checklist.View) checklistResponse {
	return checklistResponse{
		TripID:   view.TripID.String(),
		Items:    toItemResponses(view.Items),
		Progress: view.Progress,
		State:    view.State.String(),
		Ready:    view.Ready,
	}
}

func toSnapshotResponse(s *domain.ChecklistSnapshot) snapshotResponse {
	return snapshotResponse{
		ID:          s.ID.String(),
		TripID:      s.TripID.String(),
		Items:       toItemResponses(s.Items),
		CompletedAt: s.CompletedAt,
	}
}

func toItemResponses(items []domain.ChecklistItem) []checklistItemResponse {
	resp := make([]checklistItemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, checklistItemResponse{
			ID:          it.ID.String(),
			Category:    it.Category.String(),
			Name:        it.Name,
			Description: it.Description,
			Checked:     it.Checked,
			Required:    it.Required,
			Notes:       it.Notes,
		})
	}
	return resp
}
