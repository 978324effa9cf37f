package safetyinfo

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

// Provider fetches per-trip safety contact data from the trip management service.
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
		log:        logger.With("adapter", "safetyinfo"),
	}
}

// FetchSafetyInfo fetches the safety contact block for a trip.
// Returns nil, nil if the trip has no safety info (HTTP 404).
func (p *Provider) FetchSafetyInfo(ctx context.Context, tripID uuid.UUID) (*provider.SafetyInfoResult, error) {
	reqURL := p.baseURL + "/trips/" + tripID.String() + "/safety-info"

	p.log.DebugContext(ctx, "safetyinfo request", slog.String("trip_id", tripID.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("safetyinfo: create request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, req, tripID)
	if err != nil {
		p.log.ErrorContext(ctx, "safetyinfo request failed",
			slog.String("trip_id", tripID.String()), slog.String("error", err.Error()))
		return nil, fmt.Errorf("safetyinfo: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("safetyinfo: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("safetyinfo: read body: %w", err)
	}

	var raw apiSafetyInfo
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("safetyinfo: decode json: %w", err)
	}

	result := mapAPIResponse(raw)

	p.log.DebugContext(ctx, "safetyinfo response",
		slog.String("trip_id", tripID.String()),
		slog.Int("status", resp.StatusCode),
		slog.Int("emergency_numbers", len(result.EmergencyNumbers)),
	)

	return result, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request, tripID uuid.UUID) (*http.Response, error) {
	resp, err := p.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	p.log.WarnContext(ctx, "safetyinfo retry",
		slog.String("trip_id", tripID.String()), slog.String("reason", reason))

	// Close body from the failed attempt before retrying.
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	resp, err = p.httpClient.Do(req)
	return resp, err
}

// mapAPIResponse converts the API payload into a provider.SafetyInfoResult.
// Empty optional fields become nil.
func mapAPIResponse(raw apiSafetyInfo) *provider.SafetyInfoResult {
	result := &provider.SafetyInfoResult{
		GuideName:        raw.GuideName,
		GuidePhone:       raw.GuidePhone,
		EmergencyNumbers: raw.EmergencyNumbers,
	}
	if result.EmergencyNumbers == nil {
		result.EmergencyNumbers = []string{}
	}

	if raw.MeetingPoint != "" {
		mp := raw.MeetingPoint
		result.MeetingPoint = &mp
	}
	if raw.NearestHospital != "" {
		nh := raw.NearestHospital
		result.NearestHospital = &nh
	}
	if raw.AuthorityWebhook != "" {
		aw := raw.AuthorityWebhook
		result.AuthorityWebhook = &aw
	}

	return result
}
