//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/summitpath/summitpath-backend/internal/adapter/notify"
	"github.com/summitpath/summitpath-backend/internal/adapter/postgres/alert"
	"github.com/summitpath/summitpath-backend/internal/adapter/postgres/clientstate"
	"github.com/summitpath/summitpath-backend/internal/adapter/postgres/equipment"
	"github.com/summitpath/summitpath-backend/internal/adapter/postgres/snapshot"
	"github.com/summitpath/summitpath-backend/internal/adapter/postgres/testhelper"
	"github.com/summitpath/summitpath-backend/internal/adapter/postgres/tripdoc"
	"github.com/summitpath/summitpath-backend/internal/adapter/provider/geolocate"
	"github.com/summitpath/summitpath-backend/internal/adapter/provider/safetyinfo"
	authpkg "github.com/summitpath/summitpath-backend/internal/auth"
	"github.com/summitpath/summitpath-backend/internal/config"
	"github.com/summitpath/summitpath-backend/internal/service/checklist"
	"github.com/summitpath/summitpath-backend/internal/service/documents"
	"github.com/summitpath/summitpath-backend/internal/service/sos"
	"github.com/summitpath/summitpath-backend/internal/transport/middleware"
	"github.com/summitpath/summitpath-backend/internal/transport/rest"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	testJWTSecret = "e2e-test-secret-0123456789abcdef"
	testJWTIssuer = "summitpath"
)

// testServer is the full application stack running against a real database
// and stubbed external collaborators.
type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool

	// NotifyHits counts webhook deliveries received by the stub gateway.
	NotifyHits *atomic.Int32
}

// setupTestServer assembles the whole stack: migrated Postgres, stub
// safety-info, geolocation and notification services, real services and the
// real middleware chain.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Stub external collaborators.
	safetyInfoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"guide_name": "Lena Brunner",
			"guide_phone": "+41 79 555 01 23",
			"emergency_numbers": ["112", "1414"],
			"meeting_point": "Trailhead parking lot"
		}`)
	}))
	t.Cleanup(safetyInfoSrv.Close)

	geolocateSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"lat": 46.5197, "lng": 6.6323, "accuracy": 12.5}`)
	}))
	t.Cleanup(geolocateSrv.Close)

	notifyHits := &atomic.Int32{}
	notifySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		notifyHits.Add(1)
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(notifySrv.Close)

	// Repositories.
	alerts := alert.New(pool)
	snapshots := snapshot.New(pool)
	states := clientstate.New(pool)
	equipmentRepo := equipment.New(pool)
	docs := tripdoc.New(pool)

	// Services.
	checklistSvc := checklist.NewService(logger, equipmentRepo, states, snapshots, 500)
	documentsSvc := documents.NewService(logger, docs, states)
	sosSvc := sos.NewService(
		logger,
		alerts,
		geolocate.NewProvider(geolocateSrv.URL, logger),
		safetyinfo.NewProvider(safetyInfoSrv.URL, logger),
		notify.NewWebhookNotifier(notifySrv.URL, logger),
		nil,
		sos.Config{
			HoldTicks:         2,
			TickInterval:      20 * time.Millisecond,
			LocationTimeout:   time.Second,
			ResolveNoteMaxLen: 500,
		},
	)
	t.Cleanup(sosSvc.Close)

	// Transport.
	jwtManager := authpkg.NewJWTManager(testJWTSecret, testJWTIssuer)

	router := rest.NewRouter(rest.Handlers{
		Health:    rest.NewHealthHandler(pool, "e2e"),
		Checklist: rest.NewChecklistHandler(checklistSvc, logger),
		Documents: rest.NewDocumentsHandler(documentsSvc, logger),
		SOS:       rest.NewSOSHandler(sosSvc, logger),
		Safety:    rest.NewSafetyHandler(sosSvc, logger),
	}, middleware.Auth(jwtManager))

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(rateLimiter.Stop)

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,PUT,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type",
			AllowCredentials: true,
			MaxAge:           86400,
		}),
		rateLimiter.Limit(10000),
	)(router)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:        srv.URL,
		Client:     srv.Client(),
		Pool:       pool,
		NotifyHits: notifyHits,
	}
}

// issueToken signs an access token for userID the way the identity service does.
func issueToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    testJWTIssuer,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

// do performs an authenticated JSON request against the API.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	return resp
}

// decode reads and closes the response body into v.
func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// seedTrip creates a bare trip and returns its ID as a string for URL building.
func seedTrip(t *testing.T, ts *testServer) string {
	t.Helper()
	return testhelper.SeedTrip(t, ts.Pool).String()
}

// seedTripWithEquipment creates a trip with count equipment items and returns
// the trip ID as a string for URL building.
func seedTripWithEquipment(t *testing.T, ts *testServer, count int) string {
	t.Helper()
	tripID := testhelper.SeedTrip(t, ts.Pool)
	testhelper.SeedEquipment(t, ts.Pool, tripID, count)
	return tripID.String()
}
