package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"poboard/internal/domain"
	"poboard/internal/errors"
)

type OrderRepository interface {
	List(ctx context.Context, f domain.ListFilter) ([]domain.Order, domain.Pagination, error)
	Search(ctx context.Context, query string, dates domain.DateRange, status domain.StatusFilter) ([]domain.Order, error)
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	Create(ctx context.Context, tx *sql.Tx, order *domain.Order) error
	UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error
	RestoreMany(ctx context.Context, tx *sql.Tx, ids []uint) (int64, error)
	DeletePermanently(ctx context.Context, id uint) error
	DeleteManyPermanently(ctx context.Context, tx *sql.Tx, ids []uint) (int64, error)
	ListRecycleBin(ctx context.Context) ([]domain.Order, error)
	StatusCounts(ctx context.Context) (domain.StatusCounts, error)
}

type LineItemRepository interface {
	ListByOrderIDs(ctx context.Context, orderIDs []uint) (map[uint][]domain.LineItem, error)
	InsertMany(ctx context.Context, tx *sql.Tx, orderID uint, items []domain.LineItem) error
}

// OrderService owns the order lifecycle: listing/search, creation, status
// changes, and the soft-delete → recycle-bin → restore/purge workflow. Batch
// restore and purge run in a transaction so a failed batch leaves the
// recycle bin untouched and the caller's selection retryable.
type OrderService struct {
	db     *sql.DB
	orders OrderRepository
	items  LineItemRepository
	logger *zap.Logger
}

func NewOrderService(db *sql.DB, orders OrderRepository, items LineItemRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		db:     db,
		orders: orders,
		items:  items,
		logger: logger,
	}
}

func (s *OrderService) List(ctx context.Context, f domain.ListFilter) ([]domain.Order, domain.Pagination, error) {
	orders, pagination, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	if err := s.attachItems(ctx, orders); err != nil {
		return nil, domain.Pagination{}, err
	}

	return orders, pagination, nil
}

func (s *OrderService) Search(ctx context.Context, query string, dates domain.DateRange, status domain.StatusFilter) ([]domain.Order, error) {
	orders, err := s.orders.Search(ctx, query, dates, status)
	if err != nil {
		return nil, err
	}

	if err := s.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	itemsByOrder, err := s.items.ListByOrderIDs(ctx, []uint{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = itemsByOrder[order.ID]

	return order, nil
}

func (s *OrderService) Create(ctx context.Context, order *domain.Order) error {
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	if !order.Status.Valid() {
		return errors.NewValidationError("invalid order status", errors.ValidationDetail{
			Field:   "status",
			Message: fmt.Sprintf("status %q is not a known order status", order.Status),
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.orders.Create(ctx, tx, order); err != nil {
		return err
	}
	if err := s.items.InsertMany(ctx, tx, order.ID, order.Items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing order creation: %w", err)
	}

	s.logger.Info("order created",
		zap.Uint("orderId", order.ID),
		zap.String("orderNumber", order.OrderNumber),
	)
	return nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error {
	if !status.Valid() {
		return errors.NewValidationError("invalid order status", errors.ValidationDetail{
			Field:   "status",
			Message: fmt.Sprintf("status %q is not a known order status", status),
		})
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.logger.Info("order status updated", zap.Uint("orderId", id), zap.String("status", string(status)))
	return nil
}

func (s *OrderService) SoftDelete(ctx context.Context, id uint) error {
	if err := s.orders.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("order moved to recycle bin", zap.Uint("orderId", id))
	return nil
}

func (s *OrderService) Restore(ctx context.Context, id uint) error {
	if err := s.orders.Restore(ctx, id); err != nil {
		return err
	}

	s.logger.Info("order restored", zap.Uint("orderId", id))
	return nil
}

// RestoreBatch restores every id or none. A partial match rolls back so the
// caller can correct the selection and retry.
func (s *OrderService) RestoreBatch(ctx context.Context, ids []uint) error {
	ids, err := validateBatch(ids)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	affected, err := s.orders.RestoreMany(ctx, tx, ids)
	if err != nil {
		return err
	}
	if affected != int64(len(ids)) {
		return errors.NewNotFoundError("one or more orders not found in recycle bin")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch restore: %w", err)
	}

	s.logger.Info("orders restored", zap.Int("count", len(ids)))
	return nil
}

func (s *OrderService) DeletePermanently(ctx context.Context, id uint) error {
	if err := s.orders.DeletePermanently(ctx, id); err != nil {
		return err
	}

	s.logger.Info("order permanently deleted", zap.Uint("orderId", id))
	return nil
}

func (s *OrderService) DeleteBatchPermanently(ctx context.Context, ids []uint) error {
	ids, err := validateBatch(ids)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	affected, err := s.orders.DeleteManyPermanently(ctx, tx, ids)
	if err != nil {
		return err
	}
	if affected != int64(len(ids)) {
		return errors.NewNotFoundError("one or more orders not found in recycle bin")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch delete: %w", err)
	}

	s.logger.Info("orders permanently deleted", zap.Int("count", len(ids)))
	return nil
}

func (s *OrderService) RecycleBin(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.ListRecycleBin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (s *OrderService) StatusCounts(ctx context.Context) (domain.StatusCounts, error) {
	return s.orders.StatusCounts(ctx)
}

func (s *OrderService) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uint, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	itemsByOrder, err := s.items.ListByOrderIDs(ctx, ids)
	if err != nil {
		return err
	}

	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}
	return nil
}

func validateBatch(ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, errors.NewValidationError("empty batch", errors.ValidationDetail{
			Field:   "ids",
			Message: "ids must not be empty",
		})
	}

	seen := make(map[uint]bool, len(ids))
	deduped := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			return nil, errors.NewValidationError("invalid batch", errors.ValidationDetail{
				Field:   "ids",
				Message: "each id must be a positive integer",
			})
		}
		if !seen[id] {
			seen[id] = true
			deduped = append(deduped, id)
		}
	}

	return deduped, nil
}
