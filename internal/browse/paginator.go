package browse

import "poboard/internal/domain"

// TotalPages is the page count for totalItems rows at pageSize rows per
// page, clamped to a minimum of 1.
func TotalPages(totalItems, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if totalItems < 0 {
		totalItems = 0
	}
	pages := (totalItems + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Paginator tracks the current page against a page count that comes either
// from a client-side total or from server pagination metadata. The server
// metadata, when applied, is authoritative.
type Paginator struct {
	current    int
	totalPages int
	totalItems int
	pageSize   int
}

func NewPaginator(totalItems, pageSize int) *Paginator {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Paginator{
		current:    1,
		totalPages: TotalPages(totalItems, pageSize),
		totalItems: totalItems,
		pageSize:   pageSize,
	}
}

// ApplyServer adopts server-reported metadata, clamping the current page
// into the new bounds.
func (p *Paginator) ApplyServer(meta domain.Pagination) {
	p.totalItems = meta.TotalOrders
	if meta.Limit > 0 {
		p.pageSize = meta.Limit
	}
	p.totalPages = meta.TotalPages
	if p.totalPages < 1 {
		p.totalPages = 1
	}
	if meta.CurrentPage >= 1 && meta.CurrentPage <= p.totalPages {
		p.current = meta.CurrentPage
	} else if p.current > p.totalPages {
		p.current = p.totalPages
	}
}

// ChangePage moves to target and reports whether it did. Targets outside
// [1, TotalPages] are a no-op.
func (p *Paginator) ChangePage(target int) bool {
	if target < 1 || target > p.totalPages {
		return false
	}
	p.current = target
	return true
}

func (p *Paginator) CurrentPage() int { return p.current }
func (p *Paginator) TotalPages() int  { return p.totalPages }
func (p *Paginator) TotalItems() int  { return p.totalItems }
func (p *Paginator) HasPrev() bool    { return p.current > 1 }
func (p *Paginator) HasNext() bool    { return p.current < p.totalPages }

// PageNumbers is the contiguous 1..TotalPages sequence for rendering page
// buttons.
func (p *Paginator) PageNumbers() []int {
	nums := make([]int, p.totalPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}
