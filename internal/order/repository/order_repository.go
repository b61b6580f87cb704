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

type MySQLOrderRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewMySQLOrderRepository(db *sql.DB, timeout time.Duration) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db, timeout: timeout}
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapStoreErr("beginning insert transaction", err)
	}
	// MySQL ignores rollback if already committed.
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO Orders (order_number, table_id, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		order.OrderNumber, order.TableID, order.Status, order.Notes,
		order.CreatedAt, order.CreatedAt,
	)
	if err != nil {
		return nil, wrapStoreErr("inserting order", err)
	}

	orderID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting inserted order id: %w", err)
	}
	order.ID = uint(orderID)

	if err := insertItems(ctx, tx, order.ID, order.Items); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapStoreErr("committing order insert", err)
	}

	return r.FindByID(ctx, order.ID)
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, order_number, table_id, status, payment_type, notes,
		       created_at, updated_at
		FROM Orders
		WHERE id = ?
	`

	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.OrderNumber, &order.TableID, &order.Status,
		&order.PaymentType, &order.Notes, &order.CreatedAt, &order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, wrapStoreErr("querying order by id", err)
	}

	items, err := r.findItems(ctx, []uint{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]

	return &order, nil
}

// UpdateItems replaces the items and notes of a pending order. The status
// precondition is enforced in the same statement so a concurrent SetPaid
// cannot interleave a stale update.
func (r *MySQLOrderRepository) UpdateItems(ctx context.Context, id uint, items []domain.OrderLine, notes *string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapStoreErr("beginning update transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE Orders
		SET notes = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		notes, time.Now().UTC(), id, domain.OrderStatusPending,
	)
	if err != nil {
		return nil, wrapStoreErr("updating order", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return nil, r.preconditionFailure(ctx, id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM OrderItems WHERE order_id = ?`, id); err != nil {
		return nil, wrapStoreErr("clearing order items", err)
	}

	if err := insertItems(ctx, tx, id, items); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapStoreErr("committing order update", err)
	}

	return r.FindByID(ctx, id)
}

// SetPaid transitions a pending order to paid in a single compare-and-set
// statement. Zero affected rows means the order is missing or already paid.
func (r *MySQLOrderRepository) SetPaid(ctx context.Context, id uint, paymentType string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `
		UPDATE Orders
		SET status = ?, payment_type = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		domain.OrderStatusPaid, paymentType, time.Now().UTC(), id, domain.OrderStatusPending,
	)
	if err != nil {
		return nil, wrapStoreErr("marking order paid", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return nil, r.preconditionFailure(ctx, id)
	}

	return r.FindByID(ctx, id)
}

// Filter narrows FindAll. Zero values mean "no constraint".
type Filter struct {
	Status string
	From   *time.Time
	To     *time.Time
}

func (r *MySQLOrderRepository) FindAll(ctx context.Context, filter Filter) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.From != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, *filter.To)
	}

	query := `
		SELECT id, order_number, table_id, status, payment_type, notes,
		       created_at, updated_at
		FROM Orders`
	if len(conditions) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\t\tORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapStoreErr("querying orders", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []uint
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(
			&order.ID, &order.OrderNumber, &order.TableID, &order.Status,
			&order.PaymentType, &order.Notes, &order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	itemsByOrder, err := r.findItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}

	return orders, nil
}

// FindPaidBetween returns paid orders created in the inclusive window.
func (r *MySQLOrderRepository) FindPaidBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	return r.FindAll(ctx, Filter{
		Status: domain.OrderStatusPaid,
		From:   &from,
		To:     &to,
	})
}

func (r *MySQLOrderRepository) findItems(ctx context.Context, orderIDs []uint) (map[uint][]domain.OrderLine, error) {
	itemsByOrder := make(map[uint][]domain.OrderLine, len(orderIDs))
	if len(orderIDs) == 0 {
		return itemsByOrder, nil
	}

	placeholders := make([]string, len(orderIDs))
	args := make([]interface{}, 0, len(orderIDs))
	for i, id := range orderIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT order_id, id, item_id, name, price, quantity, category, image_url, note
		FROM OrderItems
		WHERE order_id IN (%s)
		ORDER BY id ASC`,
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapStoreErr("querying order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID uint
		var line domain.OrderLine
		err := rows.Scan(
			&orderID, &line.ID, &line.ItemID, &line.Name, &line.Price,
			&line.Quantity, &line.Category, &line.ImageURL, &line.Note,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		itemsByOrder[orderID] = append(itemsByOrder[orderID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return itemsByOrder, nil
}

// preconditionFailure disambiguates a zero-row CAS update: the order either
// does not exist or is no longer pending.
func (r *MySQLOrderRepository) preconditionFailure(ctx context.Context, id uint) error {
	var status string
	err := r.db.QueryRowContext(ctx, `SELECT status FROM Orders WHERE id = ?`, id).Scan(&status)

	if err == sql.ErrNoRows {
		return apperrors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return wrapStoreErr("checking order status", err)
	}

	return apperrors.NewConflictError("order is not pending")
}

func insertItems(ctx context.Context, tx *sql.Tx, orderID uint, items []domain.OrderLine) error {
	for _, line := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO OrderItems (order_id, item_id, name, price, quantity, category, image_url, note)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			orderID, line.ItemID, line.Name, line.Price, line.Quantity,
			line.Category, line.ImageURL, line.Note,
		)
		if err != nil {
			return wrapStoreErr("inserting order item", err)
		}
	}
	return nil
}

func wrapStoreErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewUnavailableError("order store timed out", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
