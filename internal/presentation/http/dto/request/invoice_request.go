package request

import (
	"encoding/json"
	"strconv"
	"strings"
)

// IssueInvoiceRequest represents an issuance request. OrderID is left
// untyped because clients have been observed to send it as a number or
// a numeric string; ResolveOrderID performs the coercion.
type IssueInvoiceRequest struct {
	OrderID        any      `json:"order_id"`
	Number         string   `json:"number" binding:"omitempty,max=100"`
	Date           string   `json:"date" binding:"omitempty,datetime=2006-01-02"`
	CustomerID     *int64   `json:"customer_id"`
	SubTotal       *float64 `json:"sub_total"`
	DiscountPct    *float64 `json:"discount_pct"`
	DiscountAmount *float64 `json:"discount_amount"`
	TaxPct         *float64 `json:"tax_pct"`
	TaxAmount      *float64 `json:"tax_amount"`
	Total          *float64 `json:"total"`
	PaymentMethod  string   `json:"payment_method" binding:"omitempty,max=50"`
	Branch         string   `json:"branch" binding:"omitempty,max=100"`
	Status         string   `json:"status" binding:"omitempty,oneof=draft posted"`
	Lines          any      `json:"lines"`
}

// ResolveOrderID coerces the order id to a positive integer. The bool
// is false when the id is absent, non-numeric, fractional, or not
// positive.
func (r *IssueInvoiceRequest) ResolveOrderID() (int64, bool) {
	switch v := r.OrderID.(type) {
	case nil:
		return 0, false
	case float64:
		if v <= 0 || v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		id, err := v.Int64()
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || id <= 0 {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}

// InvoiceFilterRequest represents invoice filter parameters
type InvoiceFilterRequest struct {
	Branch    string `form:"branch"`
	Status    string `form:"status"`
	Number    string `form:"number"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
