package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summitpath/summitpath-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedTrip creates a trip row and returns its ID.
func SeedTrip(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	tripID := uuid.New()

	_, err := pool.Exec(ctx,
		`INSERT INTO trips (id, name, destination, starts_at, ends_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		tripID, "Trip "+suffix, "Destination "+suffix, now.Add(24*time.Hour), now.Add(72*time.Hour), now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTrip insert trip: %v", err)
	}

	return tripID
}

// SeedEquipment creates canonical equipment items for a trip.
// Items alternate required/optional starting with required, ordered by position.
// Returns the created items in position order.
func SeedEquipment(t *testing.T, pool *pgxpool.Pool, tripID uuid.UUID, count int) []domain.EquipmentItem {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	categories := []domain.ChecklistCategory{
		domain.CategoryGear,
		domain.CategoryMedical,
		domain.CategoryClothing,
		domain.CategoryDocuments,
	}

	items := make([]domain.EquipmentItem, count)
	for i := 0; i < count; i++ {
		desc := "Seeded equipment " + suffix
		it := domain.EquipmentItem{
			ID:          uuid.New(),
			TripID:      tripID,
			Category:    categories[i%len(categories)],
			Name:        "Item " + suffix + "-" + string(rune('A'+i)),
			Description: &desc,
			Required:    i%2 == 0,
			Position:    i,
		}

		_, err := pool.Exec(ctx,
			`INSERT INTO trip_equipment (id, trip_id, category, name, description, required, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, it.TripID, string(it.Category), it.Name, it.Description, it.Required, it.Position,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedEquipment insert item[%d]: %v", i, err)
		}
		items[i] = it
	}

	return items
}

// SeedDocument creates a trip document row and returns the filled domain.TripDocument.
func SeedDocument(t *testing.T, pool *pgxpool.Pool, tripID uuid.UUID, docType domain.DocumentType) domain.TripDocument {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	doc := domain.TripDocument{
		ID:     uuid.New(),
		TripID: tripID,
		Name:   "Document " + suffix,
		Type:   docType,
		URL:    "https://files.example.com/" + suffix + ".pdf",
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO trip_documents (id, trip_id, name, doc_type, url)
		 VALUES ($1, $2, $3, $4, $5)`,
		doc.ID, doc.TripID, doc.Name, string(doc.Type), doc.URL,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedDocument insert document: %v", err)
	}

	return doc
}

// SeedAlert creates an ACTIVE alert row and returns the filled domain.SOSAlert.
func SeedAlert(t *testing.T, pool *pgxpool.Pool, userID, tripID uuid.UUID) domain.SOSAlert {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	alert := domain.SOSAlert{
		ID:             uuid.New(),
		UserID:         userID,
		TripID:         tripID,
		PressSessionID: uuid.New(),
		TriggeredAt:    now,
		Location:       &domain.GeoPoint{Lat: 46.5197, Lng: 6.6323},
		Status:         domain.AlertStatusActive,
		CreatedAt:      now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO sos_alerts (id, user_id, trip_id, press_session_id, triggered_at, latitude, longitude, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		alert.ID, alert.UserID, alert.TripID, alert.PressSessionID, alert.TriggeredAt,
		alert.Location.Lat, alert.Location.Lng, string(alert.Status), alert.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAlert insert alert: %v", err)
	}

	return alert
}
