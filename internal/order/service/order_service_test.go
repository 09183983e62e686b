package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"poboard/internal/domain"
	"poboard/internal/errors"
)

type mockOrderRepo struct {
	OrderRepository
	listFn         func(ctx context.Context, f domain.ListFilter) ([]domain.Order, domain.Pagination, error)
	searchFn       func(ctx context.Context, query string, dates domain.DateRange, status domain.StatusFilter) ([]domain.Order, error)
	updateStatusFn func(ctx context.Context, id uint, status domain.OrderStatus) error
	recycleBinFn   func(ctx context.Context) ([]domain.Order, error)
	restoreManyFn  func(ctx context.Context, tx *sql.Tx, ids []uint) (int64, error)
}

func (m *mockOrderRepo) List(ctx context.Context, f domain.ListFilter) ([]domain.Order, domain.Pagination, error) {
	return m.listFn(ctx, f)
}

func (m *mockOrderRepo) Search(ctx context.Context, query string, dates domain.DateRange, status domain.StatusFilter) ([]domain.Order, error) {
	return m.searchFn(ctx, query, dates, status)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error {
	return m.updateStatusFn(ctx, id, status)
}

func (m *mockOrderRepo) ListRecycleBin(ctx context.Context) ([]domain.Order, error) {
	return m.recycleBinFn(ctx)
}

func (m *mockOrderRepo) RestoreMany(ctx context.Context, tx *sql.Tx, ids []uint) (int64, error) {
	return m.restoreManyFn(ctx, tx, ids)
}

type mockItemRepo struct {
	LineItemRepository
	listByOrderIDsFn func(ctx context.Context, orderIDs []uint) (map[uint][]domain.LineItem, error)
}

func (m *mockItemRepo) ListByOrderIDs(ctx context.Context, orderIDs []uint) (map[uint][]domain.LineItem, error) {
	return m.listByOrderIDsFn(ctx, orderIDs)
}

func TestOrderService_ListAttachesItems(t *testing.T) {
	orders := &mockOrderRepo{
		listFn: func(ctx context.Context, f domain.ListFilter) ([]domain.Order, domain.Pagination, error) {
			return []domain.Order{{ID: 1}, {ID: 2}},
				domain.Pagination{CurrentPage: 1, TotalPages: 1, TotalOrders: 2, Limit: 10}, nil
		},
	}

	var requestedIDs []uint
	items := &mockItemRepo{
		listByOrderIDsFn: func(ctx context.Context, orderIDs []uint) (map[uint][]domain.LineItem, error) {
			requestedIDs = orderIDs
			return map[uint][]domain.LineItem{
				1: {{OrderID: 1, Name: "valve", Quantity: 2, UnitPrice: decimal.NewFromInt(5)}},
			}, nil
		},
	}

	svc := NewOrderService(nil, orders, items, zap.NewNop())
	got, pagination, err := svc.List(context.Background(), domain.ListFilter{Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, requestedIDs, "items are loaded with one query for the whole page")
	require.Len(t, got, 2)
	assert.Len(t, got[0].Items, 1)
	assert.Empty(t, got[1].Items)
	assert.Equal(t, 2, pagination.TotalOrders)
}

func TestOrderService_ListSkipsItemLookupWhenEmpty(t *testing.T) {
	orders := &mockOrderRepo{
		listFn: func(ctx context.Context, f domain.ListFilter) ([]domain.Order, domain.Pagination, error) {
			return nil, domain.Pagination{CurrentPage: 1, TotalPages: 1, Limit: 10}, nil
		},
	}
	items := &mockItemRepo{
		listByOrderIDsFn: func(ctx context.Context, orderIDs []uint) (map[uint][]domain.LineItem, error) {
			t.Fatal("no item lookup expected for an empty page")
			return nil, nil
		},
	}

	svc := NewOrderService(nil, orders, items, zap.NewNop())
	got, _, err := svc.List(context.Background(), domain.ListFilter{Page: 1, Limit: 10})

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOrderService_SearchPassesCriteriaThrough(t *testing.T) {
	var gotQuery string
	var gotStatus domain.StatusFilter
	orders := &mockOrderRepo{
		searchFn: func(ctx context.Context, query string, dates domain.DateRange, status domain.StatusFilter) ([]domain.Order, error) {
			gotQuery = query
			gotStatus = status
			return []domain.Order{{ID: 3}}, nil
		},
	}
	items := &mockItemRepo{
		listByOrderIDsFn: func(ctx context.Context, orderIDs []uint) (map[uint][]domain.LineItem, error) {
			return nil, nil
		},
	}

	svc := NewOrderService(nil, orders, items, zap.NewNop())
	got, err := svc.Search(context.Background(), "acme", domain.DateRange{}, domain.StatusFilter(domain.OrderStatusDelayed))

	require.NoError(t, err)
	assert.Equal(t, "acme", gotQuery)
	assert.Equal(t, domain.StatusFilter(domain.OrderStatusDelayed), gotStatus)
	assert.Len(t, got, 1)
}

func TestOrderService_CreateRejectsUnknownStatus(t *testing.T) {
	svc := NewOrderService(nil, &mockOrderRepo{}, &mockItemRepo{}, zap.NewNop())

	err := svc.Create(context.Background(), &domain.Order{OrderNumber: "PO-001", Status: "archived"})
	ve, ok := errors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "status", ve.Details[0].Field)
}

func TestOrderService_UpdateStatusRejectsUnknownStatus(t *testing.T) {
	orders := &mockOrderRepo{
		updateStatusFn: func(ctx context.Context, id uint, status domain.OrderStatus) error {
			t.Fatal("repository must not be reached with an invalid status")
			return nil
		},
	}

	svc := NewOrderService(nil, orders, &mockItemRepo{}, zap.NewNop())
	err := svc.UpdateStatus(context.Background(), 1, "all")

	_, ok := errors.IsValidationError(err)
	assert.True(t, ok, "\"all\" is a filter value, not an order status")
}

func TestOrderService_UpdateStatusDelegates(t *testing.T) {
	var gotID uint
	orders := &mockOrderRepo{
		updateStatusFn: func(ctx context.Context, id uint, status domain.OrderStatus) error {
			gotID = id
			return nil
		},
	}

	svc := NewOrderService(nil, orders, &mockItemRepo{}, zap.NewNop())
	require.NoError(t, svc.UpdateStatus(context.Background(), 8, domain.OrderStatusCompleted))
	assert.Equal(t, uint(8), gotID)
}

func TestOrderService_RestoreBatchRejectsEmptyBatch(t *testing.T) {
	svc := NewOrderService(nil, &mockOrderRepo{}, &mockItemRepo{}, zap.NewNop())

	err := svc.RestoreBatch(context.Background(), nil)
	ve, ok := errors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "ids", ve.Details[0].Field)
}

func TestOrderService_DeleteBatchRejectsZeroID(t *testing.T) {
	svc := NewOrderService(nil, &mockOrderRepo{}, &mockItemRepo{}, zap.NewNop())

	err := svc.DeleteBatchPermanently(context.Background(), []uint{1, 0, 3})
	ve, ok := errors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "ids", ve.Details[0].Field)
}

func TestValidateBatch_Dedupes(t *testing.T) {
	got, err := validateBatch([]uint{3, 1, 3, 2, 1})

	require.NoError(t, err)
	assert.Equal(t, []uint{3, 1, 2}, got, "duplicates collapse, first occurrence order kept")
}

func TestOrderService_RecycleBinAttachesItems(t *testing.T) {
	orders := &mockOrderRepo{
		recycleBinFn: func(ctx context.Context) ([]domain.Order, error) {
			return []domain.Order{{ID: 5, IsDeleted: true}}, nil
		},
	}
	items := &mockItemRepo{
		listByOrderIDsFn: func(ctx context.Context, orderIDs []uint) (map[uint][]domain.LineItem, error) {
			return map[uint][]domain.LineItem{5: {{OrderID: 5, Name: "gasket", Quantity: 1, UnitPrice: decimal.NewFromInt(2)}}}, nil
		},
	}

	svc := NewOrderService(nil, orders, items, zap.NewNop())
	got, err := svc.RecycleBin(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Items, 1)
}
