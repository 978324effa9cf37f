package testhelper

import (
	"context"
	"testing"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	tripID := SeedTrip(t, pool)

	// Verify trip exists in DB via SELECT.
	var name string
	err := pool.QueryRow(
		context.Background(),
		`SELECT name FROM trips WHERE id = $1`,
		tripID,
	).Scan(&name)
	if err != nil {
		t.Fatalf("expected trip in DB, got error: %v", err)
	}

	if name == "" {
		t.Fatal("expected non-empty trip name")
	}
}
