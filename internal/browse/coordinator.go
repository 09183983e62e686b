package browse

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"poboard/internal/domain"
	apperrors "poboard/internal/errors"
)

// DefaultDebounce is the settle window for the search box.
const DefaultDebounce = 500 * time.Millisecond

// OrderAPI is the slice of the backend the coordinator needs.
type OrderAPI interface {
	ListOrders(ctx context.Context, f domain.ListFilter) ([]domain.Order, domain.Pagination, error)
	SoftDelete(ctx context.Context, id uint) error
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSucceeded
	PhaseFailed
)

// State is the subscribable result snapshot. Loading, failed, and succeeded
// are mutually exclusive phases; stale rows are never paired with a spinner
// and an error at the same time.
type State struct {
	Phase      Phase
	Orders     []domain.Order
	Pagination domain.Pagination
	Err        error
	// FieldErrors hold client-detected validation problems (invalid date
	// range). They are resolved locally and never reach the network.
	FieldErrors []apperrors.ValidationDetail
}

// Coordinator issues paginated, filtered order fetches whenever the status
// filter, settled search text, date range, page, or an external refresh
// signal changes. Responses carry a monotonically increasing sequence
// number; only the latest sequence may write state, and issuing a new fetch
// cancels the previous request's context. That makes the orders collection
// single-writer even with overlapping requests in flight.
type Coordinator struct {
	mu     sync.Mutex
	api    OrderAPI
	logger *zap.Logger
	limit  int
	now    func() time.Time

	status domain.StatusFilter
	search string
	dates  domain.DateRange
	page   int

	seq    uint64
	cancel context.CancelFunc

	state     State
	subs      []func(State)
	onMutated func()

	debouncer *Debouncer[string]
}

func NewCoordinator(api OrderAPI, logger *zap.Logger, pageSize int, debounce time.Duration) *Coordinator {
	if pageSize < 1 {
		pageSize = 10
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	c := &Coordinator{
		api:    api,
		logger: logger,
		limit:  pageSize,
		now:    time.Now,
		status: domain.StatusFilterAll,
		page:   1,
		state:  State{Phase: PhaseIdle},
	}
	c.debouncer = NewDebouncer(debounce, c.applySearch)
	return c
}

// Subscribe registers a listener invoked on every state change. Listeners
// run outside the coordinator lock.
func (c *Coordinator) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// SetOnMutated registers a hook fired after a confirmed server-side
// mutation, for refreshing dependent aggregates such as the status counts.
func (c *Coordinator) SetOnMutated(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMutated = fn
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) Criteria() domain.ListFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteriaLocked()
}

// SetStatusFilter switches the status filter, resets to page 1, and
// re-fetches. Values outside the closed filter set are rejected.
func (c *Coordinator) SetStatusFilter(f domain.StatusFilter) error {
	if !f.Valid() {
		return apperrors.NewValidationError("invalid status filter", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status must be all, pending, completed, delayed, or rejected",
		})
	}

	c.mu.Lock()
	c.status = f
	c.page = 1
	notify := c.fetchLocked()
	c.mu.Unlock()
	notify()
	return nil
}

// SetSearchQuery feeds the debouncer; the fetch fires once the value has
// settled for the debounce window.
func (c *Coordinator) SetSearchQuery(q string) {
	c.debouncer.Set(q)
}

func (c *Coordinator) applySearch(q string) {
	c.mu.Lock()
	if q == c.search {
		c.mu.Unlock()
		return
	}
	c.search = q
	c.page = 1
	notify := c.fetchLocked()
	c.mu.Unlock()
	notify()
}

// SetDateRange validates the range against the clock before anything else.
// An invalid range sets field-level errors and does not fetch; typing can
// continue and a later valid range clears them.
func (c *Coordinator) SetDateRange(from, to *time.Time) error {
	dates := domain.DateRange{From: from, To: to}

	if err := dates.Validate(c.now()); err != nil {
		ve, _ := apperrors.IsValidationError(err)

		c.mu.Lock()
		c.state.FieldErrors = ve.Details
		notify := c.notifyFuncLocked()
		c.mu.Unlock()
		notify()
		return err
	}

	c.mu.Lock()
	c.state.FieldErrors = nil
	c.dates = dates
	c.page = 1
	notify := c.fetchLocked()
	c.mu.Unlock()
	notify()
	return nil
}

// ChangePage moves to target and re-fetches; targets outside the known page
// bounds are a no-op.
func (c *Coordinator) ChangePage(target int) bool {
	c.mu.Lock()
	totalPages := c.state.Pagination.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	if target < 1 || target > totalPages {
		c.mu.Unlock()
		return false
	}
	c.page = target
	notify := c.fetchLocked()
	c.mu.Unlock()
	notify()
	return true
}

// TriggerRefresh re-fetches with unchanged criteria. Sibling flows (create,
// delete, restore) flip this after a confirmed mutation.
func (c *Coordinator) TriggerRefresh() {
	c.mu.Lock()
	notify := c.fetchLocked()
	c.mu.Unlock()
	notify()
}

// SoftDelete asks the server to move the order to the recycle bin. Local
// state changes only after the server confirms: the row disappears via the
// forced re-fetch, and the mutation hook refreshes dependent counts.
func (c *Coordinator) SoftDelete(ctx context.Context, id uint) error {
	if err := c.api.SoftDelete(ctx, id); err != nil {
		c.logger.Warn("soft delete failed", zap.Uint("orderId", id), zap.Error(err))
		return err
	}

	c.logger.Info("order soft-deleted", zap.Uint("orderId", id))
	c.TriggerRefresh()

	c.mu.Lock()
	fn := c.onMutated
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
	return nil
}

// Close cancels the pending debounce emission and any in-flight fetch.
func (c *Coordinator) Close() {
	c.debouncer.Stop()

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
}

func (c *Coordinator) criteriaLocked() domain.ListFilter {
	return domain.ListFilter{
		Status: c.status,
		Search: c.search,
		Dates:  c.dates,
		Page:   c.page,
		Limit:  c.limit,
	}
}

// fetchLocked starts a new fetch under the caller's lock and returns the
// notification for the loading transition, to be run after unlocking.
func (c *Coordinator) fetchLocked() func() {
	c.seq++
	seq := c.seq

	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	f := c.criteriaLocked()

	c.state.Phase = PhaseLoading
	c.state.Err = nil

	go c.run(ctx, seq, f)

	return c.notifyFuncLocked()
}

func (c *Coordinator) run(ctx context.Context, seq uint64, f domain.ListFilter) {
	orders, pagination, err := c.api.ListOrders(ctx, f)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded response", zap.Uint64("seq", seq))
		return
	}

	if err != nil {
		c.state.Phase = PhaseFailed
		c.state.Err = err
	} else {
		c.state.Phase = PhaseSucceeded
		c.state.Orders = orders
		c.state.Pagination = pagination
		c.state.Err = nil
	}

	notify := c.notifyFuncLocked()
	c.mu.Unlock()
	notify()
}

func (c *Coordinator) notifyFuncLocked() func() {
	st := c.state
	subs := make([]func(State), len(c.subs))
	copy(subs, c.subs)

	return func() {
		for _, fn := range subs {
			fn(st)
		}
	}
}
