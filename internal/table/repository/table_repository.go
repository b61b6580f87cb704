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

type MySQLTableRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewMySQLTableRepository(db *sql.DB, timeout time.Duration) *MySQLTableRepository {
	return &MySQLTableRepository{db: db, timeout: timeout}
}

func (r *MySQLTableRepository) FindByID(ctx context.Context, id uint) (*domain.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, number, created_at
		FROM Tables
		WHERE id = ?
	`

	var table domain.Table
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&table.ID, &table.Number, &table.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("table with id %d not found", id))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, apperrors.NewUnavailableError("table store timed out", err)
	}
	if err != nil {
		return nil, fmt.Errorf("querying table by id: %w", err)
	}

	return &table, nil
}
