package domain

import (
	"fmt"
	"strings"
)

// OrderStatus is the processing state of a purchase order. Exactly one value
// at a time; soft deletion is tracked separately on the order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusDelayed   OrderStatus = "delayed"
	OrderStatusRejected  OrderStatus = "rejected"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusCompleted,
	OrderStatusDelayed,
	OrderStatusRejected,
}

func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusDelayed, OrderStatusRejected:
		return true
	}
	return false
}

func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return s, nil
}

// StatusFilter is the listing filter: the four statuses plus "all". It is a
// closed set; anything else must be rejected at the boundary it arrives on.
type StatusFilter string

const StatusFilterAll StatusFilter = "all"

func ParseStatusFilter(raw string) (StatusFilter, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" || trimmed == string(StatusFilterAll) {
		return StatusFilterAll, nil
	}
	status, err := ParseOrderStatus(trimmed)
	if err != nil {
		return "", fmt.Errorf("unknown status filter %q", raw)
	}
	return StatusFilter(status), nil
}

func (f StatusFilter) Valid() bool {
	return f == StatusFilterAll || OrderStatus(f).Valid()
}

// Matches reports whether an order with the given status passes the filter.
func (f StatusFilter) Matches(s OrderStatus) bool {
	return f == StatusFilterAll || OrderStatus(f) == s
}

func (f StatusFilter) String() string {
	return string(f)
}
