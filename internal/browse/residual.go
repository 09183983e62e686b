package browse

import "poboard/internal/domain"

// ResidualCriteria is the in-memory filter applied over an already-loaded
// page of orders. It covers the transient window between a local mutation
// and the next fetch, where the loaded page and the server can disagree.
type ResidualCriteria struct {
	Status domain.StatusFilter
	Query  string
	// DeletedView disables the soft-delete exclusion; the recycle-bin view
	// sets it.
	DeletedView bool
}

// FilterLoaded narrows a loaded page of orders: soft-deleted rows out
// (unless the deleted view is requested), then status, then free-text query
// over order number, company name, and client name. The function is pure and
// idempotent; it never recomputes pagination, which stays server-owned.
func FilterLoaded(orders []domain.Order, c ResidualCriteria) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if !c.DeletedView && o.IsDeleted {
			continue
		}
		if c.Status != "" && !c.Status.Matches(o.Status) {
			continue
		}
		if !o.MatchesQuery(c.Query) {
			continue
		}
		out = append(out, o)
	}
	return out
}
