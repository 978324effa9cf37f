package domain

import (
	"time"

	"github.com/google/uuid"
)

// EquipmentItem is one entry of the canonical, organizer-defined equipment
// and document list for a trip. Participants never edit it; their completion
// state lives in client state records keyed by the item ID.
type EquipmentItem struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	Category    ChecklistCategory
	Name        string
	Description *string
	Required    bool
	Position    int
}

// TripDocument is a downloadable document attached to a trip, merged with the
// participant's locally tracked download state.
type TripDocument struct {
	ID           uuid.UUID
	TripID       uuid.UUID
	Name         string
	Type         DocumentType
	URL          string
	Downloaded   bool
	DownloadDate *time.Time
}

// SafetyInfo is the per-trip emergency contact sheet served by the external
// safety-information service.
type SafetyInfo struct {
	TripID           uuid.UUID
	GuideName        string
	GuidePhone       string
	EmergencyNumbers []string
	MeetingPoint     *string
	NearestHospital  *string
	AuthorityWebhook *string
}
