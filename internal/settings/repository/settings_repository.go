package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cafetab/internal/domain"
	apperrors "cafetab/internal/errors"
)

// MySQLSettingsRepository reads the singleton CafeSettings row. When the row
// has not been provisioned yet it falls back to the configured defaults.
type MySQLSettingsRepository struct {
	db       *sql.DB
	defaults domain.CafeSettings
	timeout  time.Duration
}

func NewMySQLSettingsRepository(db *sql.DB, defaults domain.CafeSettings, timeout time.Duration) *MySQLSettingsRepository {
	return &MySQLSettingsRepository{db: db, defaults: defaults, timeout: timeout}
}

func (r *MySQLSettingsRepository) GetCafeSettings(ctx context.Context) (*domain.CafeSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT latitude, longitude, geofence_radius_m
		FROM CafeSettings
		WHERE id = 1
	`

	var settings domain.CafeSettings
	err := r.db.QueryRowContext(ctx, query).Scan(
		&settings.Latitude, &settings.Longitude, &settings.GeofenceRadiusM,
	)

	if err == sql.ErrNoRows {
		defaults := r.defaults
		return &defaults, nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, apperrors.NewUnavailableError("settings store timed out", err)
	}
	if err != nil {
		return nil, fmt.Errorf("querying cafe settings: %w", err)
	}

	return &settings, nil
}
