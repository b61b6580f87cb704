package admission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cafetab/internal/domain"
	apperrors "cafetab/internal/errors"
)

type mockSettingsStore struct {
	GetCafeSettingsFunc func(ctx context.Context) (*domain.CafeSettings, error)
}

func (m *mockSettingsStore) GetCafeSettings(ctx context.Context) (*domain.CafeSettings, error) {
	return m.GetCafeSettingsFunc(ctx)
}

func cafeAt(lat, lon, radiusM float64) *mockSettingsStore {
	return &mockSettingsStore{
		GetCafeSettingsFunc: func(ctx context.Context) (*domain.CafeSettings, error) {
			return &domain.CafeSettings{
				Latitude:        lat,
				Longitude:       lon,
				GeofenceRadiusM: radiusM,
			}, nil
		},
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestHaversine_SamePointIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Haversine(12.9716, 77.5946, 12.9716, 77.5946))
}

func TestHaversine_Symmetric(t *testing.T) {
	d1 := Haversine(12.9716, 77.5946, 13.0358, 77.5970)
	d2 := Haversine(13.0358, 77.5970, 12.9716, 77.5946)

	assert.InDelta(t, d1, d2, 1e-9)
}

func TestHaversine_KnownDistance(t *testing.T) {
	// Paris to London, roughly 344 km.
	d := Haversine(48.8566, 2.3522, 51.5074, -0.1278)

	assert.InDelta(t, 344000, d, 2000)
}

func TestGeofenceGuard_ExactCafeCoordinatesAdmitted(t *testing.T) {
	// The café's own coordinates pass regardless of how small the radius is.
	guard := NewGeofenceGuard(cafeAt(12.9716, 77.5946, 0), zap.NewNop())

	err := guard.Admit(context.Background(), Request{
		Latitude:  floatPtr(12.9716),
		Longitude: floatPtr(77.5946),
	})

	assert.NoError(t, err)
}

func TestGeofenceGuard_InsideRadiusAdmitted(t *testing.T) {
	guard := NewGeofenceGuard(cafeAt(12.9716, 77.5946, 200), zap.NewNop())

	// ~110 m north of the café.
	err := guard.Admit(context.Background(), Request{
		Latitude:  floatPtr(12.9726),
		Longitude: floatPtr(77.5946),
	})

	assert.NoError(t, err)
}

func TestGeofenceGuard_TwiceRadiusRejected(t *testing.T) {
	cafeLat, cafeLon := 12.9716, 77.5946
	radius := 100.0
	guard := NewGeofenceGuard(cafeAt(cafeLat, cafeLon, radius), zap.NewNop())

	// Walk north until the point sits at exactly 2x the radius.
	probeLat := cafeLat + 0.0001
	for Haversine(probeLat, cafeLon, cafeLat, cafeLon) < 2*radius {
		probeLat += 0.0001
	}
	require.GreaterOrEqual(t, Haversine(probeLat, cafeLon, cafeLat, cafeLon), 2*radius)

	err := guard.Admit(context.Background(), Request{
		Latitude:  floatPtr(probeLat),
		Longitude: floatPtr(cafeLon),
	})

	fe, ok := apperrors.IsForbiddenError(err)
	require.True(t, ok)
	assert.Equal(t, "outside service area", fe.Message)
}

func TestGeofenceGuard_MissingCoordinates(t *testing.T) {
	guard := NewGeofenceGuard(cafeAt(12.9716, 77.5946, 100), zap.NewNop())

	cases := []Request{
		{},
		{Latitude: floatPtr(12.9716)},
		{Longitude: floatPtr(77.5946)},
	}

	for _, req := range cases {
		err := guard.Admit(context.Background(), req)

		ve, ok := apperrors.IsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "coordinates required", ve.Message)
	}
}

func TestGeofenceGuard_StaffBypassesCheck(t *testing.T) {
	// No coordinates and a tiny radius: only the staff marker lets this pass.
	guard := NewGeofenceGuard(cafeAt(12.9716, 77.5946, 1), zap.NewNop())

	err := guard.Admit(context.Background(), Request{Staff: true})

	assert.NoError(t, err)
}

func TestGeofenceGuard_SettingsStoreErrorPropagates(t *testing.T) {
	store := &mockSettingsStore{
		GetCafeSettingsFunc: func(ctx context.Context) (*domain.CafeSettings, error) {
			return nil, apperrors.NewUnavailableError("settings store timed out", nil)
		},
	}
	guard := NewGeofenceGuard(store, zap.NewNop())

	err := guard.Admit(context.Background(), Request{
		Latitude:  floatPtr(12.9716),
		Longitude: floatPtr(77.5946),
	})

	_, ok := apperrors.IsUnavailableError(err)
	assert.True(t, ok)
}
