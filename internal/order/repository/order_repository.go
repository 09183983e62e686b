package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"poboard/internal/domain"
	"poboard/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `id, order_number, company_name, client_name, status, is_deleted,
       generated_by_username, generated_by_employee_id, order_through,
       order_date, estimated_dispatch_date, created_at, updated_at`

// List returns one page of the active (non-deleted) order list plus the
// pagination metadata computed from a COUNT over the same WHERE clause. All
// filtering happens here, before LIMIT/OFFSET, so the metadata and the rows
// always agree.
func (r *MySQLOrderRepository) List(ctx context.Context, f domain.ListFilter) ([]domain.Order, domain.Pagination, error) {
	where, args := buildFilterWhere(f.Status, f.Search, f.Dates, false)

	var total int
	countQuery := "SELECT COUNT(*) FROM orders " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, domain.Pagination{}, fmt.Errorf("counting orders: %w", err)
	}

	pagination := domain.NewPagination(total, f.Page, f.Limit)

	query := fmt.Sprintf(
		"SELECT %s FROM orders %s ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		orderColumns, where,
	)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	orders, err := r.queryOrders(ctx, query, args...)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	return orders, pagination, nil
}

// Search is the unpaginated listing used by the search endpoint.
func (r *MySQLOrderRepository) Search(ctx context.Context, query string, dates domain.DateRange, status domain.StatusFilter) ([]domain.Order, error) {
	where, args := buildFilterWhere(status, query, dates, false)

	q := fmt.Sprintf(
		"SELECT %s FROM orders %s ORDER BY created_at DESC, id DESC",
		orderColumns, where,
	)

	return r.queryOrders(ctx, q, args...)
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE id = ?", orderColumns)

	row := r.db.QueryRowContext(ctx, query, id)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return order, nil
}

func (r *MySQLOrderRepository) Create(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	query := `
		INSERT INTO orders (order_number, company_name, client_name, status,
		                    generated_by_username, generated_by_employee_id,
		                    order_through, order_date, estimated_dispatch_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		order.OrderNumber, order.CompanyName, order.ClientName, string(order.Status),
		order.GeneratedBy.Username, order.GeneratedBy.EmployeeID,
		order.OrderThrough, order.OrderDate, order.EstimatedDispatchDate,
	)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting inserted order id: %w", err)
	}
	order.ID = uint(id)

	return nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = ? WHERE id = ? AND is_deleted = 0`

	result, err := r.db.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}

	return nil
}

// SoftDelete moves an active order into the recycle bin. Deleting an already
// deleted or missing order reports not found.
func (r *MySQLOrderRepository) SoftDelete(ctx context.Context, id uint) error {
	query := `UPDATE orders SET is_deleted = 1 WHERE id = ? AND is_deleted = 0`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft-deleting order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("active order with id %d not found", id))
	}

	return nil
}

func (r *MySQLOrderRepository) Restore(ctx context.Context, id uint) error {
	query := `UPDATE orders SET is_deleted = 0 WHERE id = ? AND is_deleted = 1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("restoring order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found in recycle bin", id))
	}

	return nil
}

// RestoreMany flips is_deleted back for every id currently in the recycle
// bin and returns the affected row count. The caller owns the transaction
// and decides whether a partial match is acceptable.
func (r *MySQLOrderRepository) RestoreMany(ctx context.Context, tx *sql.Tx, ids []uint) (int64, error) {
	query := fmt.Sprintf(
		"UPDATE orders SET is_deleted = 0 WHERE is_deleted = 1 AND id IN (%s)",
		placeholders(len(ids)),
	)

	result, err := tx.ExecContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return 0, fmt.Errorf("restoring orders: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected, nil
}

// DeletePermanently removes a soft-deleted order for good. Only rows already
// in the recycle bin qualify; an active order must be soft-deleted first.
func (r *MySQLOrderRepository) DeletePermanently(ctx context.Context, id uint) error {
	query := `DELETE FROM orders WHERE id = ? AND is_deleted = 1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("permanently deleting order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("order with id %d not found in recycle bin", id))
	}

	return nil
}

func (r *MySQLOrderRepository) DeleteManyPermanently(ctx context.Context, tx *sql.Tx, ids []uint) (int64, error) {
	query := fmt.Sprintf(
		"DELETE FROM orders WHERE is_deleted = 1 AND id IN (%s)",
		placeholders(len(ids)),
	)

	result, err := tx.ExecContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return 0, fmt.Errorf("permanently deleting orders: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected, nil
}

func (r *MySQLOrderRepository) ListRecycleBin(ctx context.Context) ([]domain.Order, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM orders WHERE is_deleted = 1 ORDER BY updated_at DESC, id DESC",
		orderColumns,
	)

	return r.queryOrders(ctx, query)
}

// StatusCounts aggregates per-status totals over non-deleted orders only;
// recycle-bin rows never contribute to the dashboard cards.
func (r *MySQLOrderRepository) StatusCounts(ctx context.Context) (domain.StatusCounts, error) {
	query := `SELECT status, COUNT(*) FROM orders WHERE is_deleted = 0 GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return domain.StatusCounts{}, fmt.Errorf("counting orders by status: %w", err)
	}
	defer rows.Close()

	var counts domain.StatusCounts
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return domain.StatusCounts{}, fmt.Errorf("scanning status count: %w", err)
		}

		counts.Total += n
		switch domain.OrderStatus(status) {
		case domain.OrderStatusPending:
			counts.Pending = n
		case domain.OrderStatusCompleted:
			counts.Completed = n
		case domain.OrderStatusDelayed:
			counts.Delayed = n
		case domain.OrderStatusRejected:
			counts.Rejected = n
		}
	}
	if err := rows.Err(); err != nil {
		return domain.StatusCounts{}, fmt.Errorf("iterating status counts: %w", err)
	}

	return counts, nil
}

func (r *MySQLOrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}

	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order     domain.Order
		status    string
		orderDate sql.NullTime
		dispatch  sql.NullTime
	)

	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.CompanyName, &order.ClientName,
		&status, &order.IsDeleted,
		&order.GeneratedBy.Username, &order.GeneratedBy.EmployeeID, &order.OrderThrough,
		&orderDate, &dispatch, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatus(status)
	if orderDate.Valid {
		t := orderDate.Time
		order.OrderDate = &t
	}
	if dispatch.Valid {
		t := dispatch.Time
		order.EstimatedDispatchDate = &t
	}

	return &order, nil
}

func buildFilterWhere(status domain.StatusFilter, search string, dates domain.DateRange, deleted bool) (string, []any) {
	conds := []string{"is_deleted = ?"}
	args := []any{deleted}

	if status != domain.StatusFilterAll && status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(status))
	}

	if q := strings.TrimSpace(search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		conds = append(conds, "(LOWER(order_number) LIKE ? OR LOWER(company_name) LIKE ? OR LOWER(client_name) LIKE ?)")
		args = append(args, like, like, like)
	}

	if dates.From != nil {
		conds = append(conds, "DATE(COALESCE(order_date, created_at)) >= DATE(?)")
		args = append(args, *dates.From)
	}
	if dates.To != nil {
		conds = append(conds, "DATE(COALESCE(order_date, created_at)) <= DATE(?)")
		args = append(args, *dates.To)
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func idArgs(ids []uint) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
