package entity

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a partner on the sale side (dine-in regulars,
// delivery platforms, corporate accounts).
type Customer struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	NameEn    string         `gorm:"size:255" json:"name_en"`
	Email     *string        `gorm:"size:255" json:"email,omitempty"`
	Phone     *string        `gorm:"size:50" json:"phone,omitempty"`
	TaxID     *string        `gorm:"size:50;column:tax_id" json:"tax_id,omitempty"`
	Address   *string        `gorm:"type:text" json:"address,omitempty"`
	Branch    string         `gorm:"size:100;index" json:"branch"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Orders   []Order   `gorm:"foreignKey:CustomerID" json:"-"`
	Invoices []Invoice `gorm:"foreignKey:CustomerID" json:"-"`
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
