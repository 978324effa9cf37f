package clientstate_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/adapter/postgres/clientstate"
	"github.com/summitpath/summitpath-backend/internal/adapter/postgres/testhelper"
	"github.com/summitpath/summitpath-backend/internal/domain"
)

func TestRepo_GetAbsent(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := clientstate.New(pool)
	ctx := context.Background()

	tripID := testhelper.SeedTrip(t, pool)

	value, ok, err := repo.Get(ctx, uuid.New(), tripID, domain.StateKindChecklist)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected absent key")
	}
	if value != "" {
		t.Errorf("expected empty value for absent key, got %q", value)
	}
}

func TestRepo_SetGetRoundTrip(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := clientstate.New(pool)
	ctx := context.Background()

	userID := uuid.New()
	tripID := testhelper.SeedTrip(t, pool)

	blob := `[{"id":"a","checked":true}]`
	if err := repo.Set(ctx, userID, tripID, domain.StateKindChecklist, blob); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := repo.Get(ctx, userID, tripID, domain.StateKindChecklist)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected key to be present")
	}
	if got != blob {
		t.Errorf("value: got %q, want %q", got, blob)
	}
}

func TestRepo_SetOverwrites(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := clientstate.New(pool)
	ctx := context.Background()

	userID := uuid.New()
	tripID := testhelper.SeedTrip(t, pool)

	if err := repo.Set(ctx, userID, tripID, domain.StateKindDocuments, "v1"); err != nil {
		t.Fatalf("Set v1: %v", err)
	}
	if err := repo.Set(ctx, userID, tripID, domain.StateKindDocuments, "v2"); err != nil {
		t.Fatalf("Set v2: %v", err)
	}

	got, ok, err := repo.Get(ctx, userID, tripID, domain.StateKindDocuments)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got != "v2" {
		t.Errorf("value: got %q, want v2", got)
	}
}

func TestRepo_KindsAreIndependent(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := clientstate.New(pool)
	ctx := context.Background()

	userID := uuid.New()
	tripID := testhelper.SeedTrip(t, pool)

	if err := repo.Set(ctx, userID, tripID, domain.StateKindChecklist, "checklist-blob"); err != nil {
		t.Fatalf("Set checklist: %v", err)
	}
	if err := repo.Set(ctx, userID, tripID, domain.StateKindDocuments, "documents-blob"); err != nil {
		t.Fatalf("Set documents: %v", err)
	}

	got, ok, err := repo.Get(ctx, userID, tripID, domain.StateKindChecklist)
	if err != nil || !ok || got != "checklist-blob" {
		t.Errorf("checklist kind: got %q ok=%v err=%v", got, ok, err)
	}
	got, ok, err = repo.Get(ctx, userID, tripID, domain.StateKindDocuments)
	if err != nil || !ok || got != "documents-blob" {
		t.Errorf("documents kind: got %q ok=%v err=%v", got, ok, err)
	}
}

func TestRepo_Remove(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	repo := clientstate.New(pool)
	ctx := context.Background()

	userID := uuid.New()
	tripID := testhelper.SeedTrip(t, pool)

	if err := repo.Set(ctx, userID, tripID, domain.StateKindChecklist, "blob"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := repo.Remove(ctx, userID, tripID, domain.StateKindChecklist); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	_, ok, err := repo.Get(ctx, userID, tripID, domain.StateKindChecklist)
	if err != nil {
		t.Fatalf("Get after remove: %v", err)
	}
	if ok {
		t.Error("expected key to be absent after Remove")
	}

	// Removing an absent key is a no-op.
	if err := repo.Remove(ctx, userID, tripID, domain.StateKindChecklist); err != nil {
		t.Fatalf("Remove absent: %v", err)
	}
}
