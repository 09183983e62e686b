package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GeneratedBy identifies the user who authored an order.
type GeneratedBy struct {
	Username   string
	EmployeeID string
}

// LineItem is a single product line on a purchase order.
type LineItem struct {
	ID        uint
	OrderID   uint
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Remark    *string
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type Order struct {
	ID                    uint
	OrderNumber           string
	CompanyName           string
	ClientName            string
	Status                OrderStatus
	IsDeleted             bool
	GeneratedBy           GeneratedBy
	OrderThrough          *string
	Items                 []LineItem
	OrderDate             *time.Time
	EstimatedDispatchDate *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, li := range o.Items {
		total = total.Add(li.Subtotal())
	}
	return total
}

// MatchesQuery reports whether the query is a case-insensitive substring of
// the order number, company name, or client name. An empty query matches.
func (o Order) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(o.OrderNumber), q) ||
		strings.Contains(strings.ToLower(o.CompanyName), q) ||
		strings.Contains(strings.ToLower(o.ClientName), q)
}

// EffectiveDate is the date used for range filtering: the explicit order date
// when present, otherwise the creation timestamp.
func (o Order) EffectiveDate() time.Time {
	if o.OrderDate != nil {
		return *o.OrderDate
	}
	return o.CreatedAt
}
