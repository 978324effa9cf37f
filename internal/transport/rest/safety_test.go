package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
)

type safetyServiceMock struct {
	SafetyInfoFunc func(ctx context.Context, tripID uuid.UUID) (*domain.SafetyInfo, error)
}

func (m *safetyServiceMock) SafetyInfo(ctx context.Context, tripID uuid.UUID) (*domain.SafetyInfo, error) {
	return m.SafetyInfoFunc(ctx, tripID)
}

func TestSafety_Get_OK(t *testing.T) {
	t.Parallel()

	tripID := uuid.New()
	hook := "https://rescue.example.com/hook"
	meeting := "Trailhead parking lot"

	svc := &safetyServiceMock{
		SafetyInfoFunc: func(_ context.Context, tid uuid.UUID) (*domain.SafetyInfo, error) {
			if tid != tripID {
				t.Errorf("tripID = %v, want %v", tid, tripID)
			}
			return &domain.SafetyInfo{
				TripID:           tripID,
				GuideName:        "Lena Brunner",
				GuidePhone:       "+41 79 555 01 23",
				EmergencyNumbers: []string{"112", "1414"},
				MeetingPoint:     &meeting,
				AuthorityWebhook: &hook,
			}, nil
		},
	}
	router := testRouter(uuid.New(), Handlers{Safety: NewSafetyHandler(svc, testLogger())})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/"+tripID.String()+"/safety-info", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()

	var resp safetyInfoResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.GuidePhone != "+41 79 555 01 23" {
		t.Errorf("guidePhone = %q", resp.GuidePhone)
	}
	if len(resp.EmergencyNumbers) != 2 {
		t.Errorf("emergencyNumbers = %d, want 2", len(resp.EmergencyNumbers))
	}

	// The escalation webhook is internal configuration.
	if strings.Contains(body, hook) {
		t.Error("authority webhook must not be exposed to clients")
	}
}

func TestSafety_Get_NotPublished404(t *testing.T) {
	t.Parallel()

	svc := &safetyServiceMock{
		SafetyInfoFunc: func(_ context.Context, tripID uuid.UUID) (*domain.SafetyInfo, error) {
			return nil, fmt.Errorf("safety info for trip %s: %w", tripID, domain.ErrNotFound)
		},
	}
	router := testRouter(uuid.New(), Handlers{Safety: NewSafetyHandler(svc, testLogger())})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/"+uuid.New().String()+"/safety-info", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
