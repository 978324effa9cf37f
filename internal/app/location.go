package app

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/internal/adapter/provider/geolocate"
	"github.com/summitpath/summitpath-backend/internal/provider"
)

type locationProvider interface {
	SampleOnce(ctx context.Context, userID uuid.UUID) (*provider.LocationFix, error)
}

// noLocation always reports "no fix available". Alerts created with it carry
// no position, which the pipeline treats the same as a lookup timeout.
type noLocation struct{}

func (noLocation) SampleOnce(context.Context, uuid.UUID) (*provider.LocationFix, error) {
	return nil, nil
}

func newLocationProvider(baseURL string, logger *slog.Logger) locationProvider {
	if baseURL == "" {
		logger.Warn("geolocation gateway not configured, alerts will carry no position")
		return noLocation{}
	}
	return geolocate.NewProvider(baseURL, logger)
}
