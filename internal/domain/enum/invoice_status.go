package enum

// InvoiceStatus represents the posting state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "draft"
	InvoiceStatusPosted InvoiceStatus = "posted"
	InvoiceStatusVoid   InvoiceStatus = "void"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

// InvoiceType distinguishes sale invoices from purchase-side ones that
// share the same table.
type InvoiceType string

const (
	InvoiceTypeSale     InvoiceType = "sale"
	InvoiceTypePurchase InvoiceType = "purchase"
)
