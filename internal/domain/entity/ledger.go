package entity

import (
	"time"

	"github.com/matbakh-pos/matbakh-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Account is a ledger account in the chart of accounts.
type Account struct {
	ID        int64            `gorm:"primaryKey" json:"id"`
	Code      string           `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name      string           `gorm:"size:255;not null" json:"name"`
	Type      enum.AccountType `gorm:"size:20;not null" json:"type"`
	IsActive  bool             `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TableName returns the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}

// JournalEntry is a double-entry ledger record. Its lines always balance:
// the sum of debits equals the sum of credits.
type JournalEntry struct {
	ID         int64         `gorm:"primaryKey" json:"id"`
	Date       time.Time     `gorm:"type:date;not null;index" json:"date"`
	Memo       string        `gorm:"size:255" json:"memo"`
	Branch     string        `gorm:"size:100;index" json:"branch"`
	SourceType string        `gorm:"size:50;index" json:"source_type"`
	SourceID   int64         `gorm:"index" json:"source_id"`
	Lines      []JournalLine `gorm:"foreignKey:JournalEntryID" json:"lines,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// TableName returns the table name for the JournalEntry model
func (JournalEntry) TableName() string {
	return "journal_entries"
}

// JournalLine is one debit or credit leg of a journal entry.
type JournalLine struct {
	ID             int64           `gorm:"primaryKey" json:"id"`
	JournalEntryID int64           `gorm:"not null;index" json:"journal_entry_id"`
	AccountID      int64           `gorm:"not null;index" json:"account_id"`
	Debit          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"debit"`
	Credit         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"credit"`
	CreatedAt      time.Time       `json:"created_at"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

// TableName returns the table name for the JournalLine model
func (JournalLine) TableName() string {
	return "journal_lines"
}
