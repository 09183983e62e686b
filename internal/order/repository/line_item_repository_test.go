package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poboard/internal/domain"
	"poboard/internal/testutil"
)

func TestLineItemRepository_InsertAndListByOrderIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	items := NewMySQLLineItemRepository(db)
	ctx := context.Background()

	first := insertOrder(t, db, "PO-1", "Acme", "Jane", domain.OrderStatusPending, false)
	second := insertOrder(t, db, "PO-2", "Globex", "Homer", domain.OrderStatusPending, false)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	remark := "urgent"
	firstItems := []domain.LineItem{
		{Name: "valve", Quantity: 3, UnitPrice: decimal.NewFromFloat(12.50), Remark: &remark},
		{Name: "gasket", Quantity: 2, UnitPrice: decimal.NewFromFloat(4.25)},
	}
	require.NoError(t, items.InsertMany(ctx, tx, first, firstItems))
	require.NoError(t, items.InsertMany(ctx, tx, second, []domain.LineItem{
		{Name: "pipe", Quantity: 1, UnitPrice: decimal.NewFromInt(30)},
	}))
	require.NoError(t, tx.Commit())

	assert.NotZero(t, firstItems[0].ID, "inserted ids are written back")

	byOrder, err := items.ListByOrderIDs(ctx, []uint{first, second})
	require.NoError(t, err)

	require.Len(t, byOrder[first], 2)
	assert.Equal(t, "valve", byOrder[first][0].Name)
	assert.True(t, byOrder[first][0].UnitPrice.Equal(decimal.NewFromFloat(12.50)))
	require.NotNil(t, byOrder[first][0].Remark)
	assert.Equal(t, "urgent", *byOrder[first][0].Remark)
	require.Len(t, byOrder[second], 1)
}

func TestLineItemRepository_ListByOrderIDs_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	items := NewMySQLLineItemRepository(db)

	byOrder, err := items.ListByOrderIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, byOrder)
}
