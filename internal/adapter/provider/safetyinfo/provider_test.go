package safetyinfo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProvider_FetchSafetyInfo_Success(t *testing.T) {
	t.Parallel()

	tripID := uuid.New()
	body := `{
		"guide_name": "Anna Keller",
		"guide_phone": "+41 79 555 01 23",
		"emergency_numbers": ["112", "1414"],
		"meeting_point": "Grindelwald station, platform 2",
		"nearest_hospital": "Spital Interlaken",
		"authority_webhook": "https://rescue.example.com/hooks/sos"
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/trips/" + tripID.String() + "/safety-info"
		if r.URL.Path != wantPath {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, newTestLogger())
	result, err := p.FetchSafetyInfo(context.Background(), tripID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}

	if result.GuideName != "Anna Keller" {
		t.Errorf("GuideName = %q", result.GuideName)
	}
	if len(result.EmergencyNumbers) != 2 || result.EmergencyNumbers[0] != "112" {
		t.Errorf("EmergencyNumbers = %v", result.EmergencyNumbers)
	}
	if result.MeetingPoint == nil || *result.MeetingPoint != "Grindelwald station, platform 2" {
		t.Errorf("MeetingPoint = %v", result.MeetingPoint)
	}
	if result.AuthorityWebhook == nil || *result.AuthorityWebhook != "https://rescue.example.com/hooks/sos" {
		t.Errorf("AuthorityWebhook = %v", result.AuthorityWebhook)
	}
}

func TestProvider_FetchSafetyInfo_OptionalFieldsAbsent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"guide_name": "Anna", "guide_phone": "+41 79 555 01 23"}`))
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, newTestLogger())
	result, err := p.FetchSafetyInfo(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.MeetingPoint != nil || result.NearestHospital != nil || result.AuthorityWebhook != nil {
		t.Errorf("expected nil optional fields, got %+v", result)
	}
	if result.EmergencyNumbers == nil || len(result.EmergencyNumbers) != 0 {
		t.Errorf("EmergencyNumbers should be empty non-nil slice, got %v", result.EmergencyNumbers)
	}
}

func TestProvider_FetchSafetyInfo_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, newTestLogger())
	result, err := p.FetchSafetyInfo(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result for 404, got %+v", result)
	}
}

func TestProvider_FetchSafetyInfo_RetriesOn5xx(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"guide_name": "Anna", "guide_phone": "123"}`))
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, newTestLogger())
	result, err := p.FetchSafetyInfo(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if result == nil || result.GuideName != "Anna" {
		t.Errorf("expected result from second attempt, got %+v", result)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}

func TestProvider_FetchSafetyInfo_FailsAfterRetry(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, newTestLogger())
	_, err := p.FetchSafetyInfo(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error after exhausted retry")
	}
}

func TestProvider_FetchSafetyInfo_BadJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, newTestLogger())
	_, err := p.FetchSafetyInfo(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected decode error")
	}
}
