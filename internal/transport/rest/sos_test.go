package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/domain"
	"github.com/summitpath/summitpath-backend/internal/service/sos"
	"github.com/summitpath/summitpath-backend/internal/service/sos/holdtrigger"
)

type sosServiceMock struct {
	ArmFunc           func(ctx context.Context, userID, tripID uuid.UUID) (sos.Status, error)
	ReleaseFunc       func(ctx context.Context, userID, tripID uuid.UUID) (sos.Status, error)
	DisableFunc       func(ctx context.Context, userID, tripID uuid.UUID) (sos.Status, error)
	EnableFunc        func(ctx context.Context, userID, tripID uuid.UUID) (sos.Status, error)
	TriggerStatusFunc func(ctx context.Context, userID, tripID uuid.UUID) (sos.Status, error)
	CreateFunc        func(ctx context.Context, userID, tripID, pressSessionID uuid.UUID, location *domain.GeoPoint) (*domain.SOSAlert, error)
	GetFunc           func(ctx context.Context, userID, alertID uuid.UUID) (*domain.SOSAlert, error)
	ListActiveFunc    func(ctx context.Context, userID uuid.UUID) ([]*domain.SOSAlert, error)
	ListFunc          func(ctx context.Context, userID uuid.UUID, filter domain.AlertFilter) ([]*domain.SOSAlert, int, error)
	ResolveFunc       func(ctx context.Context, userID, alertID uuid.UUID, note *string) (*domain.SOSAlert, error)
}

func (m *sosServiceMock) Arm(ctx context.Context, userID, tripID uuid.UUID) (sos.Status, error) {
	return m.ArmFunc(ctx, userID, tripID)
}

func (m *sosServiceMock) Release(ctx context.Context, userID, tripID uuid.UUID) (sos.Status, error) {
	return m.ReleaseFunc(ctx, userID, tripID)
}

func (m *sosServiceMock) Disable(ctx context.Context, userID, tripID uuid.UUID) (sos.Status, error) {
	return m.DisableFunc(ctx, userID, tripID)
}

func (m *sosServiceMock) Enable(ctx context.Context, userID, tripID uuid.UUID) (sos.Status, error) {
	return m.EnableFunc(ctx, userID, tripID)
}

func (m *sosServiceMock) TriggerStatus(ctx context.Context, userID, tripID uuid.UUID) (sos.Status, error) {
	return m.TriggerStatusFunc(ctx, userID, tripID)
}

func (m *sosServiceMock) Create(ctx context.Context, userID, tripID, pressSessionID uuid.UUID, location *domain.GeoPoint) (*domain.SOSAlert, error) {
	return m.CreateFunc(ctx, userID, tripID, pressSessionID, location)
}

func (m *sosServiceMock) Get(ctx context.Context, userID, alertID uuid.UUID) (*domain.SOSAlert, error) {
	return m.GetFunc(ctx, userID, alertID)
}

func (m *sosServiceMock) ListActive(ctx context.Context, userID uuid.UUID) ([]*domain.SOSAlert, error) {
	return m.ListActiveFunc(ctx, userID)
}

func (m *sosServiceMock) List(ctx context.Context, userID uuid.UUID, filter domain.AlertFilter) ([]*domain.SOSAlert, int, error) {
	return m.ListFunc(ctx, userID, filter)
}

func (m *sosServiceMock) Resolve(ctx context.Context, userID, alertID uuid.UUID, note *string) (*domain.SOSAlert, error) {
	return m.ResolveFunc(ctx, userID, alertID, note)
}

func testAlert(tripID uuid.UUID) *domain.SOSAlert {
	return &domain.SOSAlert{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		TripID:         tripID,
		PressSessionID: uuid.New(),
		TriggeredAt:    time.Now().UTC(),
		Location:       &domain.GeoPoint{Lat: 46.5197, Lng: 6.6323},
		Status:         domain.AlertStatusActive,
	}
}

func TestSOS_Press_OK(t *testing.T) {
	t.Parallel()

	tripID := uuid.New()
	sessionID := uuid.New()

	svc := &sosServiceMock{
		ArmFunc: func(_ context.Context, _, tid uuid.UUID) (sos.Status, error) {
			if tid != tripID {
				t.Errorf("tripID = %v, want %v", tid, tripID)
			}
			return sos.Status{
				SessionID:      sessionID,
				State:          holdtrigger.StateArming,
				RemainingTicks: 3,
				ActiveAlerts:   []*domain.SOSAlert{},
			}, nil
		},
	}
	router := testRouter(uuid.New(), Handlers{SOS: NewSOSHandler(svc, testLogger())})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/"+tripID.String()+"/sos/press", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp triggerStatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.State != "ARMING" {
		t.Errorf("state = %q, want ARMING", resp.State)
	}
	if resp.RemainingTicks != 3 {
		t.Errorf("remainingTicks = %d, want 3", resp.RemainingTicks)
	}
	if resp.SessionID == nil || *resp.SessionID != sessionID.String() {
		t.Errorf("sessionId = %v, want %s", resp.SessionID, sessionID)
	}
}

func TestSOS_Status_OmitsNilSession(t *testing.T) {
	t.Parallel()

	svc := &sosServiceMock{
		TriggerStatusFunc: func(_ context.Context, _, _ uuid.UUID) (sos.Status, error) {
			return sos.Status{State: holdtrigger.StateIdle, ActiveAlerts: []*domain.SOSAlert{}}, nil
		},
	}
	router := testRouter(uuid.New(), Handlers{SOS: NewSOSHandler(svc, testLogger())})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/trips/"+uuid.New().String()+"/sos", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "sessionId") {
		t.Errorf("idle status must omit sessionId: %s", rec.Body.String())
	}
}

func TestSOS_CreateAlert_OK201(t *testing.T) {
	t.Parallel()

	tripID := uuid.New()
	pressSession := uuid.New()

	svc := &sosServiceMock{
		CreateFunc: func(_ context.Context, _, tid, psid uuid.UUID, loc *domain.GeoPoint) (*domain.SOSAlert, error) {
			if psid != pressSession {
				t.Errorf("pressSessionID = %v, want %v", psid, pressSession)
			}
			if loc != nil {
				t.Errorf("location = %v, want nil when the body carries none", loc)
			}
			alert := testAlert(tid)
			alert.PressSessionID = psid
			return alert, nil
		},
	}
	router := testRouter(uuid.New(), Handlers{SOS: NewSOSHandler(svc, testLogger())})

	body := fmt.Sprintf(`{"pressSessionId":%q}`, pressSession)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/"+tripID.String()+"/alerts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp alertResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ACTIVE" {
		t.Errorf("status = %q, want ACTIVE", resp.Status)
	}
	if resp.Location == nil {
		t.Error("expected location in response")
	}
}

func TestSOS_CreateAlert_WithCallerLocation(t *testing.T) {
	t.Parallel()

	tripID := uuid.New()
	pressSession := uuid.New()

	svc := &sosServiceMock{
		CreateFunc: func(_ context.Context, _, tid, psid uuid.UUID, loc *domain.GeoPoint) (*domain.SOSAlert, error) {
			if loc == nil {
				t.Fatal("expected the device fix from the request body")
			}
			if loc.Lat != 45.9237 || loc.Lng != 6.8694 {
				t.Errorf("location = %v/%v, want 45.9237/6.8694", loc.Lat, loc.Lng)
			}
			alert := testAlert(tid)
			alert.PressSessionID = psid
			alert.Location = loc
			return alert, nil
		},
	}
	router := testRouter(uuid.New(), Handlers{SOS: NewSOSHandler(svc, testLogger())})

	body := fmt.Sprintf(`{"pressSessionId":%q,"location":{"lat":45.9237,"lng":6.8694}}`, pressSession)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/"+tripID.String()+"/alerts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp alertResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Location == nil || resp.Location.Lat != 45.9237 {
		t.Errorf("response location = %+v, want the supplied fix", resp.Location)
	}
}

func TestSOS_CreateAlert_BadSessionID(t *testing.T) {
	t.Parallel()

	router := testRouter(uuid.New(), Handlers{})

	body := `{"pressSessionId":"garbage"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/"+uuid.New().String()+"/alerts", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestSOS_ListAlerts_ParsesFilter(t *testing.T) {
	t.Parallel()

	tripID := uuid.New()
	svc := &sosServiceMock{
		ListFunc: func(_ context.Context, _ uuid.UUID, filter domain.AlertFilter) ([]*domain.SOSAlert, int, error) {
			if filter.Status == nil || *filter.Status != domain.AlertStatusResolved {
				t.Errorf("status filter = %v, want RESOLVED", filter.Status)
			}
			if filter.TripID == nil || *filter.TripID != tripID {
				t.Errorf("trip filter = %v, want %v", filter.TripID, tripID)
			}
			if filter.Limit != 10 || filter.Offset != 20 {
				t.Errorf("limit/offset = %d/%d, want 10/20", filter.Limit, filter.Offset)
			}
			return []*domain.SOSAlert{testAlert(tripID)}, 1, nil
		},
	}
	router := testRouter(uuid.New(), Handlers{SOS: NewSOSHandler(svc, testLogger())})

	url := "/api/v1/alerts?status=RESOLVED&tripId=" + tripID.String() + "&limit=10&offset=20"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp alertListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Alerts) != 1 {
		t.Errorf("total/alerts = %d/%d, want 1/1", resp.Total, len(resp.Alerts))
	}
}

func TestSOS_ResolveAlert_OK(t *testing.T) {
	t.Parallel()

	alertID := uuid.New()
	svc := &sosServiceMock{
		ResolveFunc: func(_ context.Context, _, aid uuid.UUID, note *string) (*domain.SOSAlert, error) {
			if aid != alertID {
				t.Errorf("alertID = %v, want %v", aid, alertID)
			}
			if note == nil || *note != "false alarm" {
				t.Errorf("note = %v, want 'false alarm'", note)
			}
			now := time.Now().UTC()
			return &domain.SOSAlert{
				ID:             aid,
				Status:         domain.AlertStatusResolved,
				ResolvedAt:     &now,
				ResolutionNote: note,
			}, nil
		},
	}
	router := testRouter(uuid.New(), Handlers{SOS: NewSOSHandler(svc, testLogger())})

	body := `{"note":"false alarm"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/"+alertID.String()+"/resolve", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp alertResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "RESOLVED" {
		t.Errorf("status = %q, want RESOLVED", resp.Status)
	}
}

func TestSOS_ResolveAlert_Unknown404(t *testing.T) {
	t.Parallel()

	svc := &sosServiceMock{
		ResolveFunc: func(_ context.Context, _, _ uuid.UUID, _ *string) (*domain.SOSAlert, error) {
			return nil, domain.ErrNotFound
		},
	}
	router := testRouter(uuid.New(), Handlers{SOS: NewSOSHandler(svc, testLogger())})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/"+uuid.New().String()+"/resolve", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestSOS_ListActive_OK(t *testing.T) {
	t.Parallel()

	svc := &sosServiceMock{
		ListActiveFunc: func(_ context.Context, _ uuid.UUID) ([]*domain.SOSAlert, error) {
			return []*domain.SOSAlert{testAlert(uuid.New())}, nil
		},
	}
	router := testRouter(uuid.New(), Handlers{SOS: NewSOSHandler(svc, testLogger())})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts/active", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp []alertResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Errorf("alerts = %d, want 1", len(resp))
	}
}
