package browse

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"poboard/internal/domain"
	apperrors "poboard/internal/errors"
)

// RecycleBinAPI is the slice of the backend the recycle-bin view needs.
type RecycleBinAPI interface {
	RecycleBin(ctx context.Context) ([]domain.Order, error)
	Restore(ctx context.Context, id uint) error
	RestoreMany(ctx context.Context, ids []uint) error
	DeletePermanently(ctx context.Context, id uint) error
	DeleteManyPermanently(ctx context.Context, ids []uint) error
}

// RecycleBin drives the soft-deleted order view: loading the bin, a
// selection set over the currently loaded rows, and the restore / permanent
// delete flows. Mutations are confirm-then-mutate: local state changes only
// after the server acknowledges, and a failed batch leaves the selection
// intact for retry.
type RecycleBin struct {
	mu        sync.Mutex
	api       RecycleBinAPI
	logger    *zap.Logger
	orders    []domain.Order
	selected  map[uint]bool
	onMutated func()
}

func NewRecycleBin(api RecycleBinAPI, logger *zap.Logger) *RecycleBin {
	return &RecycleBin{
		api:      api,
		logger:   logger,
		selected: make(map[uint]bool),
	}
}

// SetOnMutated registers a hook fired after a confirmed restore or purge,
// for refreshing the active list and the dependent status counts.
func (b *RecycleBin) SetOnMutated(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onMutated = fn
}

// Load fetches the recycle bin and prunes the selection to ids still
// present, so the selection never references rows that are gone.
func (b *RecycleBin) Load(ctx context.Context) error {
	orders, err := b.api.RecycleBin(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.orders = orders

	visible := make(map[uint]bool, len(orders))
	for _, o := range orders {
		visible[o.ID] = true
	}
	for id := range b.selected {
		if !visible[id] {
			delete(b.selected, id)
		}
	}
	b.mu.Unlock()

	return nil
}

func (b *RecycleBin) Orders() []domain.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Order, len(b.orders))
	copy(out, b.orders)
	return out
}

// Toggle flips the selection of one loaded row; unknown ids are ignored.
func (b *RecycleBin) Toggle(id uint) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.loadedLocked(id) {
		return
	}
	if b.selected[id] {
		delete(b.selected, id)
	} else {
		b.selected[id] = true
	}
}

// ToggleSelectAll selects exactly the currently loaded set, or clears the
// selection when every loaded row is already selected. Rows on pages never
// fetched are not affected.
func (b *RecycleBin) ToggleSelectAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.orders) > 0 && len(b.selected) == len(b.orders) {
		b.selected = make(map[uint]bool)
		return
	}

	b.selected = make(map[uint]bool, len(b.orders))
	for _, o := range b.orders {
		b.selected[o.ID] = true
	}
}

func (b *RecycleBin) Selected() []uint {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selectedLocked()
}

func (b *RecycleBin) ClearSelection() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = make(map[uint]bool)
}

// RestoreSelected restores the selected orders: the single-item endpoint for
// one id, the batch endpoint for more. On success the selection is cleared
// and the bin reloaded; on failure both are left untouched.
func (b *RecycleBin) RestoreSelected(ctx context.Context) error {
	return b.mutateSelected(ctx, "restore", b.api.Restore, b.api.RestoreMany)
}

// DeleteSelected permanently deletes the selected orders, with the same
// single-versus-batch routing and failure policy as RestoreSelected.
func (b *RecycleBin) DeleteSelected(ctx context.Context) error {
	return b.mutateSelected(ctx, "permanent delete", b.api.DeletePermanently, b.api.DeleteManyPermanently)
}

func (b *RecycleBin) mutateSelected(
	ctx context.Context,
	action string,
	single func(context.Context, uint) error,
	batch func(context.Context, []uint) error,
) error {
	b.mu.Lock()
	ids := b.selectedLocked()
	b.mu.Unlock()

	if len(ids) == 0 {
		return apperrors.NewValidationError("nothing selected", apperrors.ValidationDetail{
			Field:   "selection",
			Message: "select at least one order",
		})
	}

	var err error
	if len(ids) == 1 {
		err = single(ctx, ids[0])
	} else {
		err = batch(ctx, ids)
	}
	if err != nil {
		b.logger.Warn(action+" failed", zap.Int("count", len(ids)), zap.Error(err))
		return err
	}

	b.logger.Info(action+" confirmed", zap.Int("count", len(ids)))

	b.mu.Lock()
	b.selected = make(map[uint]bool)
	fn := b.onMutated
	b.mu.Unlock()

	if err := b.Load(ctx); err != nil {
		b.logger.Warn("reloading recycle bin after "+action, zap.Error(err))
	}
	if fn != nil {
		fn()
	}
	return nil
}

func (b *RecycleBin) loadedLocked(id uint) bool {
	for _, o := range b.orders {
		if o.ID == id {
			return true
		}
	}
	return false
}

func (b *RecycleBin) selectedLocked() []uint {
	ids := make([]uint, 0, len(b.selected))
	for id := range b.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
