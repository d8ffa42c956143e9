package entity

import (
	"time"

	"github.com/matbakh-pos/matbakh-api/internal/domain/enum"
	"github.com/matbakh-pos/matbakh-api/pkg/lineitems"
	"gorm.io/gorm"
)

// Invoice represents an issued sale invoice. Once created its lines are
// never mutated; the only post-creation write in the issuance flow
// attaches the journal entry id, inside the same transaction. The unique
// index on Number makes duplicate invoice numbers structurally
// impossible regardless of how the sequence was computed.
type Invoice struct {
	ID             int64              `gorm:"primaryKey" json:"id"`
	Number         string             `gorm:"size:100;uniqueIndex;not null" json:"number"`
	Date           time.Time          `gorm:"type:date;not null" json:"date"`
	CustomerID     *int64             `gorm:"index" json:"customer_id,omitempty"`
	Lines          lineitems.ItemList `gorm:"type:jsonb;not null" json:"lines"`
	SubTotal       float64            `gorm:"type:decimal(20,4);default:0" json:"sub_total"`
	DiscountPct    float64            `gorm:"type:decimal(7,4);default:0" json:"discount_pct"`
	DiscountAmount float64            `gorm:"type:decimal(20,4);default:0" json:"discount_amount"`
	TaxPct         float64            `gorm:"type:decimal(7,4);default:0" json:"tax_pct"`
	TaxAmount      float64            `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	Total          float64            `gorm:"type:decimal(20,4);default:0" json:"total"`
	PaymentMethod  string             `gorm:"size:50" json:"payment_method"`
	Status         enum.InvoiceStatus `gorm:"size:20;not null;default:draft;index" json:"status"`
	Branch         string             `gorm:"size:100;not null;index" json:"branch"`
	Type           enum.InvoiceType   `gorm:"size:20;not null;default:sale;index" json:"type"`
	JournalEntryID *int64             `gorm:"index" json:"journal_entry_id,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}
