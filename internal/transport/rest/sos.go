package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
	"github.com/summitpath/summitpath-backend/internal/service/sos"
	"github.com/summitpath/summitpath-backend/pkg/ctxutil"
)

// sosService defines the minimal interface needed by SOSHandler.
type sosService interface {
	Arm(ctx context.Context, userID, tripID uuid.UUID) (sos.Status, error)
	Release(ctx context.Context, userID, tripID uuid.UUID) (sos.Status, error)
	Disable(ctx context.Context, userID, tripID uuid.UUID) (sos.Status, error)
	Enable(ctx context.Context, userID, tripID uuid.UUID) (sos.Status, error)
	TriggerStatus(ctx context.Context, userID, tripID uuid.UUID) (sos.Status, error)
	Create(ctx context.Context, userID, tripID, pressSessionID uuid.UUID, location *domain.GeoPoint) (*domain.SOSAlert, error)
	Get(ctx context.Context, userID, alertID uuid.UUID) (*domain.SOSAlert, error)
	ListActive(ctx context.Context, userID uuid.UUID) ([]*domain.SOSAlert, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.AlertFilter) ([]*domain.SOSAlert, int, error)
	Resolve(ctx context.Context, userID, alertID uuid.UUID, note *string) (*domain.SOSAlert, error)
}

// SOSHandler serves SOS trigger and alert endpoints.
type SOSHandler struct {
	svc sosService
	log *slog.Logger
}

// NewSOSHandler creates a SOSHandler.
func NewSOSHandler(svc sosService, logger *slog.Logger) *SOSHandler {
	return &SOSHandler{svc: svc, log: logger.With("handler", "sos")}
}

type locationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type alertResponse struct {
	ID             string            `json:"id"`
	TripID         string            `json:"tripId"`
	PressSessionID string            `json:"pressSessionId"`
	TriggeredAt    time.Time         `json:"triggeredAt"`
	Location       *locationResponse `json:"location,omitempty"`
	Status         string            `json:"status"`
	ResolvedAt     *time.Time        `json:"resolvedAt,omitempty"`
	ResolutionNote *string           `json:"resolutionNote,omitempty"`
}

type triggerStatusResponse struct {
	SessionID      *string         `json:"sessionId,omitempty"`
	State          string          `json:"state"`
	RemainingTicks int             `json:"remainingTicks"`
	ActiveAlerts   []alertResponse `json:"activeAlerts"`
}

type createAlertRequest struct {
	PressSessionID string            `json:"pressSessionId"`
	Location       *locationResponse `json:"location"`
}

type resolveAlertRequest struct {
	Note *string `json:"note"`
}

type alertListResponse struct {
	Alerts []alertResponse `json:"alerts"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// Press handles POST /trips/{tripID}/sos/press.
func (h *SOSHandler) Press(w http.ResponseWriter, r *http.Request) {
	h.triggerOp(w, r, h.svc.Arm)
}

// Release handles POST /trips/{tripID}/sos/release.
func (h *SOSHandler) Release(w http.ResponseWriter, r *http.Request) {
	h.triggerOp(w, r, h.svc.Release)
}

// Disable handles POST /trips/{tripID}/sos/disable.
func (h *SOSHandler) Disable(w http.ResponseWriter, r *http.Request) {
	h.triggerOp(w, r, h.svc.Disable)
}

// Enable handles POST /trips/{tripID}/sos/enable.
func (h *SOSHandler) Enable(w http.ResponseWriter, r *http.Request) {
	h.triggerOp(w, r, h.svc.Enable)
}

// Status handles GET /trips/{tripID}/sos.
func (h *SOSHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.triggerOp(w, r, h.svc.TriggerStatus)
}

func (h *SOSHandler) triggerOp(w http.ResponseWriter, r *http.Request, op func(context.Context, uuid.UUID, uuid.UUID) (sos.Status, error)) {
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

	status, err := op(r.Context(), userID, tripID)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTriggerStatusResponse(status))
}

// CreateAlert handles POST /trips/{tripID}/alerts.
// Used by clients that run the hold countdown locally; pressSessionId makes
// retries idempotent. A device-side position fix may ride along; without one
// the service samples the geolocation provider.
func (h *SOSHandler) CreateAlert(w http.ResponseWriter, r *http.Request) {
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

	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	pressSessionID, err := uuid.Parse(req.PressSessionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid press session id")
		return
	}
	var location *domain.GeoPoint
	if req.Location != nil {
		location = &domain.GeoPoint{Lat: req.Location.Lat, Lng: req.Location.Lng}
	}

	alert, err := h.svc.Create(r.Context(), userID, tripID, pressSessionID, location)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAlertResponse(alert))
}

// GetAlert handles GET /alerts/{alertID}.
func (h *SOSHandler) GetAlert(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	alertID, ok := pathUUID(r, "alertID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	alert, err := h.svc.Get(r.Context(), userID, alertID)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAlertResponse(alert))
}

// ListActive handles GET /alerts/active.
func (h *SOSHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	alerts, err := h.svc.ListActive(r.Context(), userID)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAlertResponses(alerts))
}

// ListAlerts handles GET /alerts with optional status, tripId, limit and
// offset query parameters.
func (h *SOSHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter, err := parseAlertFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	alerts, total, err := h.svc.List(r.Context(), userID, filter)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, alertListResponse{
		Alerts: toAlertResponses(alerts),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// ResolveAlert handles POST /alerts/{alertID}/resolve.
func (h *SOSHandler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	alertID, ok := pathUUID(r, "alertID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	var req resolveAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	alert, err := h.svc.Resolve(r.Context(), userID, alertID, req.Note)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAlertResponse(alert))
}

func parseAlertFilter(r *http.Request) (domain.AlertFilter, error) {
	var filter domain.AlertFilter
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		status := domain.AlertStatus(raw)
		filter.Status = &status
	}
	if raw := q.Get("tripId"); raw != "" {
		tripID, err := uuid.Parse(raw)
		if err != nil {
			return filter, domain.NewValidationError("tripId", "must be a uuid")
		}
		filter.TripID = &tripID
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, domain.NewValidationError("limit", "must be an integer")
		}
		filter.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return filter, domain.NewValidationError("offset", "must be an integer")
		}
		filter.Offset = offset
	}

	return filter, nil
}

func toTriggerStatusResponse(status sos.Status) triggerStatusResponse {
	resp := triggerStatusResponse{
		State:          string(status.State),
		RemainingTicks: status.RemainingTicks,
		ActiveAlerts:   toAlertResponses(status.ActiveAlerts),
	}
	if status.SessionID != uuid.Nil {
		id := status.SessionID.String()
		resp.SessionID = &id
	}
	return resp
}

func toAlertResponses(alerts []*domain.SOSAlert) []alertResponse {
	resp := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		resp = append(resp, toAlertResponse(a))
	}
	return resp
}

func toAlertResponse(a *domain.SOSAlert) alertResponse {
	resp := alertResponse{
		ID:             a.ID.String(),
		TripID:         a.TripID.String(),
		PressSessionID: a.PressSessionID.String(),
		TriggeredAt:    a.TriggeredAt,
		Status:         a.Status.String(),
		ResolvedAt:     a.ResolvedAt,
		ResolutionNote: a.ResolutionNote,
	}
	if a.Location != nil {
		resp.Location = &locationResponse{Lat: a.Location.Lat, Lng: a.Location.Lng}
	}
	return resp
}
