// Package notify delivers alert notifications to external emergency channels.
// Delivery is best effort: the alert row is already persisted before any
// notifier runs, and failures are logged, never propagated to the caller.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/summitpath/summitpath-backend/internal/domain"
)

// WebhookNotifier POSTs alert events to authority webhooks and the optional
// notification gateway.
type WebhookNotifier struct {
	gatewayURL string
	httpClient *http.Client
	log        *slog.Logger
}

// NewWebhookNotifier creates a WebhookNotifier.
// gatewayURL may be empty; then only per-trip authority webhooks are used.
func NewWebhookNotifier(gatewayURL string, logger *slog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		gatewayURL: gatewayURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "notify"),
	}
}

// alertPayload is the wire format sent to webhooks.
type alertPayload struct {
	AlertID     string   `json:"alert_id"`
	UserID      string   `json:"user_id"`
	TripID      string   `json:"trip_id"`
	TriggeredAt string   `json:"triggered_at"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	GuidePhone  string   `json:"guide_phone,omitempty"`
}

// NotifyAlert fans the alert out to every configured channel.
// Each target is attempted independently; one failure does not stop the rest.
func (n *WebhookNotifier) NotifyAlert(ctx context.Context, alert *domain.SOSAlert, info *domain.SafetyInfo) {
	payload := alertPayload{
		AlertID:     alert.ID.String(),
		UserID:      alert.UserID.String(),
		TripID:      alert.TripID.String(),
		TriggeredAt: alert.TriggeredAt.UTC().Format(time.RFC3339),
	}
	if alert.Location != nil {
		payload.Lat = &alert.Location.Lat
		payload.Lng = &alert.Location.Lng
	}
	if info != nil {
		payload.GuidePhone = info.GuidePhone
	}

	body, err := json.Marshal(payload)
	if err != nil {
		n.log.ErrorContext(ctx, "notify: marshal payload",
			slog.String("alert_id", alert.ID.String()), slog.String("error", err.Error()))
		return
	}

	targets := make([]string, 0, 2)
	if n.gatewayURL != "" {
		targets = append(targets, n.gatewayURL)
	}
	if info != nil && info.AuthorityWebhook != nil && *info.AuthorityWebhook != "" {
		targets = append(targets, *info.AuthorityWebhook)
	}

	if len(targets) == 0 {
		n.log.WarnContext(ctx, "notify: no delivery targets configured",
			slog.String("alert_id", alert.ID.String()))
		return
	}

	for _, target := range targets {
		if err := n.post(ctx, target, body); err != nil {
			n.log.ErrorContext(ctx, "notify: delivery failed",
				slog.String("alert_id", alert.ID.String()),
				slog.String("target", target),
				slog.String("error", err.Error()),
			)
			continue
		}
		n.log.InfoContext(ctx, "notify: alert delivered",
			slog.String("alert_id", alert.ID.String()),
			slog.String("target", target),
		)
	}
}

func (n *WebhookNotifier) post(ctx context.Context, target string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return nil
}
