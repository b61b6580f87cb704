package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafetab/internal/domain"
	"cafetab/internal/testutil"
)

func TestSettingsRepository_GetCafeSettings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	_, err := db.Exec(`
		INSERT INTO CafeSettings (id, latitude, longitude, geofence_radius_m)
		VALUES (1, 12.9716, 77.5946, 150)
	`)
	require.NoError(t, err)

	repo := NewMySQLSettingsRepository(db, domain.CafeSettings{}, 3*time.Second)

	settings, err := repo.GetCafeSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12.9716, settings.Latitude)
	assert.Equal(t, 77.5946, settings.Longitude)
	assert.Equal(t, 150.0, settings.GeofenceRadiusM)
}

func TestSettingsRepository_FallsBackToDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	defaults := domain.CafeSettings{Latitude: 1, Longitude: 2, GeofenceRadiusM: 50}
	repo := NewMySQLSettingsRepository(db, defaults, 3*time.Second)

	settings, err := repo.GetCafeSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaults, *settings)
}
