package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
)

// safetyInfoService defines the minimal interface needed by SafetyHandler.
type safetyInfoService interface {
	SafetyInfo(ctx context.Context, tripID uuid.UUID) (*domain.SafetyInfo, error)
}

// SafetyHandler serves the per-trip emergency contact sheet.
type SafetyHandler struct {
	svc safetyInfoService
	log *slog.Logger
}

// NewSafetyHandler creates a SafetyHandler.
func NewSafetyHandler(svc safetyInfoService, logger *slog.Logger) *SafetyHandler {
	return &SafetyHandler{svc: svc, log: logger.With("handler", "safety")}
}

// safetyInfoResponse omits the authority webhook: it is escalation
// configuration, not client-facing contact data.
type safetyInfoResponse struct {
	TripID           string   `json:"tripId"`
	GuideName        string   `json:"guideName"`
	GuidePhone       string   `json:"guidePhone"`
	EmergencyNumbers []string `json:"emergencyNumbers"`
	MeetingPoint     *string  `json:"meetingPoint,omitempty"`
	NearestHospital  *string  `json:"nearestHospital,omitempty"`
}

// Get handles GET /trips/{tripID}/safety-info.
func (h *SafetyHandler) Get(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(r, "tripID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid trip id")
		return
	}

	info, err := h.svc.SafetyInfo(r.Context(), tripID)
	if err != nil {
		handleError(r.Context(), h.log, w, err)
		return
	}

	writeJSON(w, http.StatusOK, safetyInfoResponse{
		TripID:           info.TripID.String(),
		GuideName:        info.GuideName,
		GuidePhone:       info.GuidePhone,
		EmergencyNumbers: info.EmergencyNumbers,
		MeetingPoint:     info.MeetingPoint,
		NearestHospital:  info.NearestHospital,
	})
}
