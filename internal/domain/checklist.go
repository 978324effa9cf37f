package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ChecklistItem is one entry of a participant's pre-trip safety checklist.
// Only Required items determine trip readiness; Checked and Notes are the
// participant's local completion state layered over the canonical list.
type ChecklistItem struct {
	ID          uuid.UUID
	Category    ChecklistCategory
	Name        string
	Description *string
	Checked     bool
	Required    bool
	Notes       *string
}

// ChecklistSnapshot is the immutable record written when the readiness gate
// passes. It is never mutated; a new trip attempt produces a new snapshot.
type ChecklistSnapshot struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	TripID      uuid.UUID
	Items       []ChecklistItem
	CompletedAt time.Time
}

// BuildFromCanonical turns the organizer-defined equipment list into a fresh
// checklist: one unchecked item per canonical entry, canonical order kept.
func BuildFromCanonical(equipment []EquipmentItem) []ChecklistItem {
	items := make([]ChecklistItem, 0, len(equipment))
	for _, eq := range equipment {
		items = append(items, ChecklistItem{
			ID:          eq.ID,
			Category:    eq.Category,
			Name:        eq.Name,
			Description: eq.Description,
			Required:    eq.Required,
		})
	}
	return items
}

// MergeWithPersisted reconciles the canonical checklist against previously
// persisted completion state. For each canonical item, Checked and Notes are
// copied from the persisted item with the same ID if present; canonical items
// with no persisted match stay unchecked. Persisted items with no canonical
// match are dropped: the canonical list is authoritative for existence, so an
// organizer edit cannot leave orphaned, permanently-complete ghost items.
// The result preserves canonical order and is deterministic.
func MergeWithPersisted(canonical, persisted []ChecklistItem) []ChecklistItem {
	byID := make(map[uuid.UUID]ChecklistItem, len(persisted))
	for _, p := range persisted {
		byID[p.ID] = p
	}

	merged := make([]ChecklistItem, len(canonical))
	for i, c := range canonical {
		if p, ok := byID[c.ID]; ok {
			c.Checked = p.Checked
			c.Notes = p.Notes
		}
		merged[i] = c
	}
	return merged
}

// Progress returns the completion percentage, rounded to the nearest integer.
// An empty checklist has progress 0.
func Progress(items []ChecklistItem) int {
	if len(items) == 0 {
		return 0
	}
	checked := 0
	for _, it := range items {
		if it.Checked {
			checked++
		}
	}
	return int(math.Round(float64(checked) / float64(len(items)) * 100))
}

// Gate reports whether the trip may start: every Required item must be
// Checked. Optional items never affect the result. The gate is computed live
// from the current item state, so unchecking a required item immediately
// reverts readiness.
func Gate(items []ChecklistItem) bool {
	for _, it := range items {
		if it.Required && !it.Checked {
			return false
		}
	}
	return true
}

// ChecklistStateOf derives the per-trip readiness state from the current
// items and whether a completion snapshot has already been written.
func ChecklistStateOf(items []ChecklistItem, hasSnapshot bool) ChecklistState {
	if hasSnapshot {
		return ChecklistStateCompleted
	}
	anyChecked := false
	for _, it := range items {
		if it.Checked {
			anyChecked = true
			break
		}
	}
	if !anyChecked {
		return ChecklistStateNotStarted
	}
	if Gate(items) {
		return ChecklistStateReady
	}
	return ChecklistStateInProgress
}
