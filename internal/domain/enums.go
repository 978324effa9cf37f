package domain

// ChecklistCategory groups checklist and equipment items on the safety screen.
type ChecklistCategory string

const (
	CategoryDevice        ChecklistCategory = "DEVICE"
	CategoryPreparation   ChecklistCategory = "PREPARATION"
	CategoryMedical       ChecklistCategory = "MEDICAL"
	CategoryCommunication ChecklistCategory = "COMMUNICATION"
	CategoryClothing      ChecklistCategory = "CLOTHING"
	CategoryGear          ChecklistCategory = "GEAR"
	CategoryDocuments     ChecklistCategory = "DOCUMENTS"
	CategoryFood          ChecklistCategory = "FOOD"
	CategoryHygiene       ChecklistCategory = "HYGIENE"
	CategoryOther         ChecklistCategory = "OTHER"
)

func (c ChecklistCategory) String() string { return string(c) }

func (c ChecklistCategory) IsValid() bool {
	switch c {
	case CategoryDevice, CategoryPreparation, CategoryMedical, CategoryCommunication,
		CategoryClothing, CategoryGear, CategoryDocuments, CategoryFood,
		CategoryHygiene, CategoryOther:
		return true
	}
	return false
}

// ChecklistState is the per-trip readiness progression. READY may regress to
// IN_PROGRESS when a required item is unchecked again; COMPLETED is terminal
// for a trip attempt (a snapshot exists).
type ChecklistState string

const (
	ChecklistStateNotStarted ChecklistState = "NOT_STARTED"
	ChecklistStateInProgress ChecklistState = "IN_PROGRESS"
	ChecklistStateReady      ChecklistState = "READY"
	ChecklistStateCompleted  ChecklistState = "COMPLETED"
)

func (s ChecklistState) String() string { return string(s) }

func (s ChecklistState) IsValid() bool {
	switch s {
	case ChecklistStateNotStarted, ChecklistStateInProgress, ChecklistStateReady, ChecklistStateCompleted:
		return true
	}
	return false
}

// AlertStatus is the lifecycle state of an SOS alert. RESOLVED is terminal.
type AlertStatus string

const (
	AlertStatusActive   AlertStatus = "ACTIVE"
	AlertStatusResolved AlertStatus = "RESOLVED"
)

func (s AlertStatus) String() string { return string(s) }

func (s AlertStatus) IsValid() bool {
	switch s {
	case AlertStatusActive, AlertStatusResolved:
		return true
	}
	return false
}

// DocumentType identifies the kind of downloadable trip document.
type DocumentType string

const (
	DocumentTypePDF    DocumentType = "PDF"
	DocumentTypeMap    DocumentType = "MAP"
	DocumentTypeTicket DocumentType = "TICKET"
	DocumentTypeGPX    DocumentType = "GPX"
	DocumentTypeOther  DocumentType = "OTHER"
)

func (t DocumentType) String() string { return string(t) }

func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypePDF, DocumentTypeMap, DocumentTypeTicket, DocumentTypeGPX, DocumentTypeOther:
		return true
	}
	return false
}

// StateKind namespaces per-trip client state records.
type StateKind string

const (
	StateKindChecklist StateKind = "checklist"
	StateKindDocuments StateKind = "documents"
)

func (k StateKind) String() string { return string(k) }

func (k StateKind) IsValid() bool {
	switch k {
	case StateKindChecklist, StateKindDocuments:
		return true
	}
	return false
}
