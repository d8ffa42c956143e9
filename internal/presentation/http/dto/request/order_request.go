package request

// SaveDraftRequest represents a table-side draft save. Lines is left
// untyped; POS clients send either a JSON array or a (sometimes doubly)
// JSON-encoded string of one.
type SaveDraftRequest struct {
	OrderID       *int64 `json:"order_id"`
	Branch        string `json:"branch" binding:"omitempty,max=100"`
	TableNo       string `json:"table_no" binding:"omitempty,max=50"`
	Lines         any    `json:"lines"`
	CustomerID    *int64 `json:"customer_id"`
	CustomerName  string `json:"customer_name" binding:"omitempty,max=255"`
	PaymentMethod string `json:"payment_method" binding:"omitempty,max=50"`
}

// OrderFilterRequest represents order filter parameters
type OrderFilterRequest struct {
	Branch    string `form:"branch"`
	TableNo   string `form:"table_no"`
	Status    string `form:"status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
