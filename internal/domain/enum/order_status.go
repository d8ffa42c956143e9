package enum

import "strings"

// OrderStatus represents the lifecycle state of a table order.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusIssued    OrderStatus = "ISSUED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Is compares statuses case-insensitively; stored rows from older data
// may carry lowercase values.
func (s OrderStatus) Is(other OrderStatus) bool {
	return strings.EqualFold(string(s), string(other))
}

func (s OrderStatus) String() string {
	return string(s)
}
