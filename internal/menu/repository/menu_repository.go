package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cafetab/internal/domain"
	apperrors "cafetab/internal/errors"
)

type MySQLMenuRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewMySQLMenuRepository(db *sql.DB, timeout time.Duration) *MySQLMenuRepository {
	return &MySQLMenuRepository{db: db, timeout: timeout}
}

func (r *MySQLMenuRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT id, name, price, category, image_url, is_available, display_order,
		       created_at, updated_at
		FROM MenuItems
		WHERE id IN (%s)`,
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, apperrors.NewUnavailableError("menu store timed out", err)
	}
	if err != nil {
		return nil, fmt.Errorf("querying menu items: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		err := rows.Scan(
			&item.ID, &item.Name, &item.Price, &item.Category, &item.ImageURL,
			&item.IsAvailable, &item.DisplayOrder, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning menu item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu item rows: %w", err)
	}

	return items, nil
}

func (r *MySQLMenuRepository) ListAvailable(ctx context.Context) ([]domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, name, price, category, image_url, is_available, display_order,
		       created_at, updated_at
		FROM MenuItems
		WHERE is_available = 1
		ORDER BY display_order ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, apperrors.NewUnavailableError("menu store timed out", err)
	}
	if err != nil {
		return nil, fmt.Errorf("querying available menu items: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		err := rows.Scan(
			&item.ID, &item.Name, &item.Price, &item.Category, &item.ImageURL,
			&item.IsAvailable, &item.DisplayOrder, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning menu item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating menu item rows: %w", err)
	}

	return items, nil
}
