package admission

import (
	"context"
	"math"

	"go.uber.org/zap"

	"cafetab/internal/domain"
	apperrors "cafetab/internal/errors"
)

const earthRadiusM = 6371000.0

type SettingsStore interface {
	GetCafeSettings(ctx context.Context) (*domain.CafeSettings, error)
}

// GeofenceGuard admits requests originating inside a circular zone around the
// café. Staff requests bypass the check entirely.
type GeofenceGuard struct {
	settings SettingsStore
	logger   *zap.Logger
}

func NewGeofenceGuard(settings SettingsStore, logger *zap.Logger) *GeofenceGuard {
	return &GeofenceGuard{
		settings: settings,
		logger:   logger,
	}
}

func (g *GeofenceGuard) Admit(ctx context.Context, req Request) error {
	if req.Staff {
		return nil
	}

	if req.Latitude == nil || req.Longitude == nil {
		return apperrors.NewValidationError("coordinates required")
	}

	settings, err := g.settings.GetCafeSettings(ctx)
	if err != nil {
		return err
	}

	distance := Haversine(*req.Latitude, *req.Longitude, settings.Latitude, settings.Longitude)
	if distance > settings.GeofenceRadiusM {
		g.logger.Warn("order rejected outside geofence",
			zap.Float64("distanceM", distance),
			zap.Float64("radiusM", settings.GeofenceRadiusM),
		)
		return apperrors.NewForbiddenError("outside service area")
	}

	return nil
}

// Haversine returns the great-circle distance in meters between two
// (latitude, longitude) points given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
