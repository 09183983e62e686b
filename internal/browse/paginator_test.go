package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poboard/internal/domain"
)

func TestTotalPages(t *testing.T) {
	cases := []struct {
		items, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{12, 5, 3},
		{5, 5, 1},
		{100, 7, 15},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, TotalPages(c.items, c.size), "items=%d size=%d", c.items, c.size)
	}
}

func TestTotalPages_DegenerateInputs(t *testing.T) {
	assert.Equal(t, 1, TotalPages(-5, 10))
	assert.Equal(t, 7, TotalPages(7, 0), "non-positive page size falls back to 1")
}

func TestPaginator_ChangePageBounds(t *testing.T) {
	p := NewPaginator(25, 10)
	require.Equal(t, 3, p.TotalPages())

	assert.False(t, p.ChangePage(0))
	assert.False(t, p.ChangePage(-1))
	assert.False(t, p.ChangePage(4))
	assert.Equal(t, 1, p.CurrentPage(), "out-of-range targets are a no-op")

	assert.True(t, p.ChangePage(3))
	assert.Equal(t, 3, p.CurrentPage())
	assert.True(t, p.ChangePage(1))
	assert.Equal(t, 1, p.CurrentPage())
}

func TestPaginator_BoundaryControls(t *testing.T) {
	p := NewPaginator(30, 10)

	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())

	p.ChangePage(3)
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())
}

func TestPaginator_PageNumbers(t *testing.T) {
	p := NewPaginator(22, 10)
	assert.Equal(t, []int{1, 2, 3}, p.PageNumbers())

	empty := NewPaginator(0, 10)
	assert.Equal(t, []int{1}, empty.PageNumbers())
}

func TestPaginator_ApplyServer(t *testing.T) {
	p := NewPaginator(0, 10)

	p.ApplyServer(domain.Pagination{CurrentPage: 2, TotalPages: 4, TotalOrders: 37, Limit: 10})
	assert.Equal(t, 2, p.CurrentPage())
	assert.Equal(t, 4, p.TotalPages())
	assert.Equal(t, 37, p.TotalItems())
}

func TestPaginator_ApplyServer_ClampsCurrentPage(t *testing.T) {
	p := NewPaginator(50, 10)
	p.ChangePage(5)

	// Filters narrowed; the server now reports fewer pages.
	p.ApplyServer(domain.Pagination{CurrentPage: 7, TotalPages: 2, TotalOrders: 12, Limit: 10})
	assert.Equal(t, 2, p.CurrentPage())
	assert.Equal(t, 2, p.TotalPages())
}
