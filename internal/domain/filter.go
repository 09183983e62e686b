package domain

import (
	"time"

	"poboard/internal/errors"
)

// DateRange filters orders by their effective date. Either bound may be nil.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// Validate checks the range against the reference clock. A violated bound is
// reported as a field-level validation error; callers surface it inline and
// must not issue a fetch with the invalid range.
func (r DateRange) Validate(now time.Time) error {
	var details []errors.ValidationDetail

	if r.From != nil && r.From.After(now) {
		details = append(details, errors.ValidationDetail{
			Field:   "fromDate",
			Message: "fromDate must not be in the future",
		})
	}
	if r.To != nil && r.To.After(now) {
		details = append(details, errors.ValidationDetail{
			Field:   "toDate",
			Message: "toDate must not be in the future",
		})
	}
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		details = append(details, errors.ValidationDetail{
			Field:   "toDate",
			Message: "toDate must not be before fromDate",
		})
	}

	if len(details) > 0 {
		return errors.NewValidationError("invalid date range", details...)
	}
	return nil
}

// Contains reports whether t falls inside the range. Bounds are inclusive;
// the To bound covers the whole day when set to midnight.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(endOfDay(*r.To)) {
		return false
	}
	return true
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// ListFilter is the combined criteria for one page of the active order list.
type ListFilter struct {
	Status StatusFilter
	Search string
	Dates  DateRange
	Page   int
	Limit  int
}

// Pagination is the server-reported paging metadata for a listing. It is the
// single authority for page counts; clients never recompute it from a
// locally filtered slice.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalOrders int
	Limit       int
}

// NewPagination derives the metadata for a listing of totalOrders rows at
// limit rows per page. TotalPages is clamped to a minimum of 1 so that an
// empty result still has a valid current page.
func NewPagination(totalOrders, page, limit int) Pagination {
	if limit < 1 {
		limit = 1
	}
	totalPages := (totalOrders + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalOrders: totalOrders,
		Limit:       limit,
	}
}

// StatusCounts are the dashboard-card aggregates over non-deleted orders.
type StatusCounts struct {
	Total     int
	Pending   int
	Completed int
	Delayed   int
	Rejected  int
}
