package repository

import (
	"context"
	"database/sql"
	"fmt"

	"poboard/internal/domain"
)

type MySQLLineItemRepository struct {
	db *sql.DB
}

func NewMySQLLineItemRepository(db *sql.DB) *MySQLLineItemRepository {
	return &MySQLLineItemRepository{db: db}
}

// ListByOrderIDs loads the line items for a set of orders in one query,
// keyed by order id.
func (r *MySQLLineItemRepository) ListByOrderIDs(ctx context.Context, orderIDs []uint) (map[uint][]domain.LineItem, error) {
	items := make(map[uint][]domain.LineItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return items, nil
	}

	query := fmt.Sprintf(`
		SELECT id, order_id, name, quantity, unit_price, remark
		FROM order_items
		WHERE order_id IN (%s)
		ORDER BY order_id, id`,
		placeholders(len(orderIDs)),
	)

	rows, err := r.db.QueryContext(ctx, query, idArgs(orderIDs)...)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var li domain.LineItem
		if err := rows.Scan(&li.ID, &li.OrderID, &li.Name, &li.Quantity, &li.UnitPrice, &li.Remark); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		items[li.OrderID] = append(items[li.OrderID], li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order items: %w", err)
	}

	return items, nil
}

func (r *MySQLLineItemRepository) InsertMany(ctx context.Context, tx *sql.Tx, orderID uint, items []domain.LineItem) error {
	query := `INSERT INTO order_items (order_id, name, quantity, unit_price, remark) VALUES (?, ?, ?, ?, ?)`

	for i := range items {
		result, err := tx.ExecContext(ctx, query,
			orderID, items[i].Name, items[i].Quantity, items[i].UnitPrice, items[i].Remark,
		)
		if err != nil {
			return fmt.Errorf("inserting order item: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting inserted item id: %w", err)
		}
		items[i].ID = uint(id)
		items[i].OrderID = orderID
	}

	return nil
}
