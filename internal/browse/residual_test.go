package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poboard/internal/domain"
)

func sampleOrders() []domain.Order {
	return []domain.Order{
		{ID: 1, OrderNumber: "PO-001", CompanyName: "Acme", ClientName: "Jane", Status: domain.OrderStatusPending},
		{ID: 2, OrderNumber: "PO-002", CompanyName: "Globex", ClientName: "Homer", Status: domain.OrderStatusCompleted},
		{ID: 3, OrderNumber: "PO-003", CompanyName: "Initech", ClientName: "Peter", Status: domain.OrderStatusCompleted, IsDeleted: true},
		{ID: 4, OrderNumber: "PO-004", CompanyName: "Acme", ClientName: "Bart", Status: domain.OrderStatusDelayed},
	}
}

func TestFilterLoaded_ExcludesDeletedByDefault(t *testing.T) {
	got := FilterLoaded(sampleOrders(), ResidualCriteria{Status: domain.StatusFilterAll})

	require.Len(t, got, 3)
	for _, o := range got {
		assert.False(t, o.IsDeleted)
	}
}

func TestFilterLoaded_DeletedViewKeepsDeleted(t *testing.T) {
	got := FilterLoaded(sampleOrders(), ResidualCriteria{Status: domain.StatusFilterAll, DeletedView: true})
	assert.Len(t, got, 4)
}

func TestFilterLoaded_StatusFilter(t *testing.T) {
	got := FilterLoaded(sampleOrders(), ResidualCriteria{Status: domain.StatusFilter(domain.OrderStatusCompleted)})

	require.Len(t, got, 1, "the deleted completed order must not slip through")
	assert.Equal(t, uint(2), got[0].ID)
}

func TestFilterLoaded_Query(t *testing.T) {
	got := FilterLoaded(sampleOrders(), ResidualCriteria{Status: domain.StatusFilterAll, Query: "acme"})

	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].ID)
	assert.Equal(t, uint(4), got[1].ID)

	got = FilterLoaded(sampleOrders(), ResidualCriteria{Status: domain.StatusFilterAll, Query: "po-002"})
	require.Len(t, got, 1)
	assert.Equal(t, uint(2), got[0].ID)
}

func TestFilterLoaded_Idempotent(t *testing.T) {
	criteria := []ResidualCriteria{
		{Status: domain.StatusFilterAll},
		{Status: domain.StatusFilter(domain.OrderStatusCompleted)},
		{Status: domain.StatusFilterAll, Query: "acme"},
		{Status: domain.StatusFilter(domain.OrderStatusDelayed), Query: "po", DeletedView: true},
	}

	for _, c := range criteria {
		once := FilterLoaded(sampleOrders(), c)
		twice := FilterLoaded(once, c)
		assert.Equal(t, once, twice, "criteria %+v", c)
	}
}

func TestFilterLoaded_EmptyInput(t *testing.T) {
	assert.Empty(t, FilterLoaded(nil, ResidualCriteria{Status: domain.StatusFilterAll}))
}
