package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matbakh-pos/matbakh-api/internal/domain/enum"
	"gorm.io/gorm"
)

// LineSet stores an order's raw lines as a jsonb column. Drafts keep the
// heterogeneous shape clients send (one meta row plus item rows); the
// canonical form only exists on the invoice after issuance.
type LineSet []map[string]any

// Value implements driver.Valuer.
func (l LineSet) Value() (driver.Value, error) {
	if l == nil {
		l = LineSet{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *LineSet) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for LineSet", value)
	}
}

// GormDataType tells GORM which column type to use.
func (LineSet) GormDataType() string {
	return "jsonb"
}

// Order represents a mutable table-side draft order. It is edited
// repeatedly while in DRAFT and converted exactly once into an invoice.
// A non-nil InvoiceID implies status ISSUED, and a DRAFT order always
// has a nil InvoiceID.
type Order struct {
	ID             int64            `gorm:"primaryKey" json:"id"`
	Branch         string           `gorm:"size:100;not null;index" json:"branch"`
	TableNo        string           `gorm:"size:50;column:table_no;index" json:"table_no"`
	Status         enum.OrderStatus `gorm:"size:20;not null;default:DRAFT;index" json:"status"`
	Lines          LineSet          `gorm:"type:jsonb" json:"lines"`
	InvoiceID      *int64           `gorm:"index" json:"invoice_id,omitempty"`
	CustomerID     *int64           `gorm:"index" json:"customer_id,omitempty"`
	CustomerName   string           `gorm:"size:255" json:"customer_name,omitempty"`
	SubTotal       float64          `gorm:"type:decimal(20,4);default:0" json:"sub_total"`
	DiscountPct    float64          `gorm:"type:decimal(7,4);default:0" json:"discount_pct"`
	DiscountAmount float64          `gorm:"type:decimal(20,4);default:0" json:"discount_amount"`
	TaxPct         float64          `gorm:"type:decimal(7,4);default:0" json:"tax_pct"`
	TaxAmount      float64          `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	Total          float64          `gorm:"type:decimal(20,4);default:0" json:"total"`
	PaymentMethod  string           `gorm:"size:50" json:"payment_method"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Invoice  *Invoice  `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
