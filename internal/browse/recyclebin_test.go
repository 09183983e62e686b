package browse

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"poboard/internal/domain"
	apperrors "poboard/internal/errors"
)

type fakeBinAPI struct {
	mu           sync.Mutex
	binOrders    []domain.Order
	binErr       error
	restored     []uint
	restoredMany [][]uint
	purged       []uint
	purgedMany   [][]uint
	mutateErr    error
}

func (f *fakeBinAPI) RecycleBin(ctx context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.binErr != nil {
		return nil, f.binErr
	}
	out := make([]domain.Order, len(f.binOrders))
	copy(out, f.binOrders)
	return out, nil
}

func (f *fakeBinAPI) Restore(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.restored = append(f.restored, id)
	return nil
}

func (f *fakeBinAPI) RestoreMany(ctx context.Context, ids []uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.restoredMany = append(f.restoredMany, ids)
	return nil
}

func (f *fakeBinAPI) DeletePermanently(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.purged = append(f.purged, id)
	return nil
}

func (f *fakeBinAPI) DeleteManyPermanently(ctx context.Context, ids []uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.purgedMany = append(f.purgedMany, ids)
	return nil
}

func deletedOrders(ids ...uint) []domain.Order {
	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Order{ID: id, IsDeleted: true})
	}
	return out
}

func loadedBin(t *testing.T, api *fakeBinAPI) *RecycleBin {
	t.Helper()
	bin := NewRecycleBin(api, zap.NewNop())
	require.NoError(t, bin.Load(context.Background()))
	return bin
}

func TestRecycleBin_ToggleIgnoresUnknownIDs(t *testing.T) {
	bin := loadedBin(t, &fakeBinAPI{binOrders: deletedOrders(1, 2)})

	bin.Toggle(1)
	bin.Toggle(99)

	assert.Equal(t, []uint{1}, bin.Selected())
}

func TestRecycleBin_ToggleFlipsSelection(t *testing.T) {
	bin := loadedBin(t, &fakeBinAPI{binOrders: deletedOrders(1, 2)})

	bin.Toggle(2)
	assert.Equal(t, []uint{2}, bin.Selected())
	bin.Toggle(2)
	assert.Empty(t, bin.Selected())
}

func TestRecycleBin_ToggleSelectAll(t *testing.T) {
	bin := loadedBin(t, &fakeBinAPI{binOrders: deletedOrders(3, 1, 2)})

	bin.ToggleSelectAll()
	assert.Equal(t, []uint{1, 2, 3}, bin.Selected(), "select-all covers exactly the loaded rows")

	bin.ToggleSelectAll()
	assert.Empty(t, bin.Selected(), "a second toggle with everything selected clears")
}

func TestRecycleBin_ToggleSelectAllFromPartialSelection(t *testing.T) {
	bin := loadedBin(t, &fakeBinAPI{binOrders: deletedOrders(1, 2, 3)})

	bin.Toggle(2)
	bin.ToggleSelectAll()

	assert.Equal(t, []uint{1, 2, 3}, bin.Selected())
}

func TestRecycleBin_LoadPrunesSelection(t *testing.T) {
	api := &fakeBinAPI{binOrders: deletedOrders(1, 2, 3)}
	bin := loadedBin(t, api)

	bin.Toggle(1)
	bin.Toggle(3)

	// Order 3 left the bin between loads.
	api.mu.Lock()
	api.binOrders = deletedOrders(1, 2)
	api.mu.Unlock()

	require.NoError(t, bin.Load(context.Background()))
	assert.Equal(t, []uint{1}, bin.Selected())
}

func TestRecycleBin_RestoreEmptySelection(t *testing.T) {
	bin := loadedBin(t, &fakeBinAPI{binOrders: deletedOrders(1)})

	err := bin.RestoreSelected(context.Background())
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "selection", ve.Details[0].Field)
}

func TestRecycleBin_SingleSelectionUsesSingleEndpoint(t *testing.T) {
	api := &fakeBinAPI{binOrders: deletedOrders(1, 2)}
	bin := loadedBin(t, api)

	bin.Toggle(2)
	require.NoError(t, bin.RestoreSelected(context.Background()))

	assert.Equal(t, []uint{2}, api.restored)
	assert.Empty(t, api.restoredMany, "one id must not take the batch route")
	assert.Empty(t, bin.Selected())
}

func TestRecycleBin_MultiSelectionUsesBatchEndpoint(t *testing.T) {
	api := &fakeBinAPI{binOrders: deletedOrders(1, 2, 3)}
	bin := loadedBin(t, api)

	bin.Toggle(1)
	bin.Toggle(3)
	require.NoError(t, bin.RestoreSelected(context.Background()))

	assert.Empty(t, api.restored)
	require.Len(t, api.restoredMany, 1)
	assert.Equal(t, []uint{1, 3}, api.restoredMany[0])
}

func TestRecycleBin_DeleteSelectedRouting(t *testing.T) {
	api := &fakeBinAPI{binOrders: deletedOrders(1, 2)}
	bin := loadedBin(t, api)

	bin.ToggleSelectAll()
	require.NoError(t, bin.DeleteSelected(context.Background()))

	assert.Empty(t, api.purged)
	require.Len(t, api.purgedMany, 1)
	assert.Equal(t, []uint{1, 2}, api.purgedMany[0])
}

func TestRecycleBin_FailedMutationKeepsSelection(t *testing.T) {
	api := &fakeBinAPI{
		binOrders: deletedOrders(1, 2),
		mutateErr: apperrors.NewRejectionError(500, "storage unavailable"),
	}
	bin := loadedBin(t, api)

	bin.ToggleSelectAll()
	err := bin.DeleteSelected(context.Background())

	require.Error(t, err)
	assert.Equal(t, []uint{1, 2}, bin.Selected(), "a failed batch leaves the selection for retry")
}

func TestRecycleBin_SuccessReloadsAndFiresHook(t *testing.T) {
	api := &fakeBinAPI{binOrders: deletedOrders(1, 2)}
	bin := loadedBin(t, api)

	var hookFired bool
	bin.SetOnMutated(func() { hookFired = true })

	bin.Toggle(1)

	// The server drops the restored row from the next bin listing.
	api.mu.Lock()
	api.binOrders = deletedOrders(2)
	api.mu.Unlock()

	require.NoError(t, bin.RestoreSelected(context.Background()))

	assert.True(t, hookFired)
	orders := bin.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, uint(2), orders[0].ID)
}
