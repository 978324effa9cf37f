package geolocate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/provider"
)

// Provider fetches the last reported device position for a user from the
// location gateway. Callers bound the lookup with a context deadline; the
// client timeout is only a backstop.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider for the given base URL.
func NewProvider(baseURL string, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "geolocate"),
	}
}

// SampleOnce fetches a single position fix for the user.
// Returns nil, nil if the gateway has no recent fix (HTTP 404).
// There is no retry: the caller treats any failure as "no location".
func (p *Provider) SampleOnce(ctx context.Context, userID uuid.UUID) (*provider.LocationFix, error) {
	reqURL := p.baseURL + "/positions/" + userID.String() + "/latest"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("geolocate: create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocate: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocate: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("geolocate: read body: %w", err)
	}

	var raw apiPosition
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("geolocate: decode json: %w", err)
	}

	fix := &provider.LocationFix{Lat: raw.Lat, Lng: raw.Lng}
	if raw.Accuracy > 0 {
		acc := raw.Accuracy
		fix.Accuracy = &acc
	}

	p.log.DebugContext(ctx, "geolocate fix",
		slog.String("user_id", userID.String()),
		slog.Float64("lat", fix.Lat),
		slog.Float64("lng", fix.Lng),
	)

	return fix, nil
}

// apiPosition represents the position payload from the location gateway.
type apiPosition struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy"`
}
