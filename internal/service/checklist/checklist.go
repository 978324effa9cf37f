package checklist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
)

// Get assembles the current checklist for a user and trip: the canonical
// equipment list merged with the user's saved progress.
func (s *Service) Get(ctx context.Context, userID, tripID uuid.UUID) (View, error) {
	items, err := s.assemble(ctx, userID, tripID)
	if err != nil {
		return View{}, err
	}

	hasSnapshot, err := s.hasSnapshot(ctx, userID, tripID)
	if err != nil {
		return View{}, err
	}

	return buildView(tripID, items, hasSnapshot), nil
}

// Toggle sets the checked flag on one item and saves progress.
// Returns domain.ErrNotFound if the item is not part of the trip's checklist.
func (s *Service) Toggle(ctx context.Context, userID, tripID, itemID uuid.UUID, checked bool) (View, error) {
	return s.updateItem(ctx, userID, tripID, itemID, func(it *domain.ChecklistItem) error {
		it.Checked = checked
		return nil
	})
}

// SetNotes replaces the free-form note on one item and saves progress.
// Returns domain.ErrNotFound if the item is not part of the trip's checklist.
func (s *Service) SetNotes(ctx context.Context, userID, tripID, itemID uuid.UUID, notes *string) (View, error) {
	if err := s.validateNotes(notes); err != nil {
		return View{}, err
	}

	return s.updateItem(ctx, userID, tripID, itemID, func(it *domain.ChecklistItem) error {
		it.Notes = notes
		return nil
	})
}

// Reset discards the user's saved progress for a trip.
// The checklist returns to its canonical unchecked form.
func (s *Service) Reset(ctx context.Context, userID, tripID uuid.UUID) (View, error) {
	// Validate the trip exists before touching state.
	canonical, err := s.equipment.ListByTrip(ctx, tripID)
	if err != nil {
		return View{}, fmt.Errorf("reset checklist: %w", err)
	}

	if err := s.state.Remove(ctx, userID, tripID, domain.StateKindChecklist); err != nil {
		return View{}, fmt.Errorf("reset checklist: %w: %w", domain.ErrStorage, err)
	}

	items := domain.BuildFromCanonical(canonical)

	hasSnapshot, err := s.hasSnapshot(ctx, userID, tripID)
	if err != nil {
		return View{}, err
	}

	return buildView(tripID, items, hasSnapshot), nil
}

// assemble loads the canonical equipment list and merges saved progress onto it.
func (s *Service) assemble(ctx context.Context, userID, tripID uuid.UUID) ([]domain.ChecklistItem, error) {
	canonical, err := s.equipment.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("load equipment: %w", err)
	}

	persisted, err := s.loadPersisted(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	return domain.MergeWithPersisted(domain.BuildFromCanonical(canonical), persisted), nil
}

// updateItem applies a mutation to one merged item and persists the result.
func (s *Service) updateItem(ctx context.Context, userID, tripID, itemID uuid.UUID, mutate func(*domain.ChecklistItem) error) (View, error) {
	items, err := s.assemble(ctx, userID, tripID)
	if err != nil {
		return View{}, err
	}

	found := false
	for i := range items {
		if items[i].ID == itemID {
			if err := mutate(&items[i]); err != nil {
				return View{}, err
			}
			found = true
			break
		}
	}
	if !found {
		return View{}, fmt.Errorf("checklist item %s: %w", itemID, domain.ErrNotFound)
	}

	if err := s.savePersisted(ctx, userID, tripID, items); err != nil {
		return View{}, err
	}

	hasSnapshot, err := s.hasSnapshot(ctx, userID, tripID)
	if err != nil {
		return View{}, err
	}

	return buildView(tripID, items, hasSnapshot), nil
}

func (s *Service) hasSnapshot(ctx context.Context, userID, tripID uuid.UUID) (bool, error) {
	_, err := s.snapshots.GetLatest(ctx, userID, tripID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load snapshot: %w", err)
	}
	return true, nil
}
