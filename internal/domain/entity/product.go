package entity

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a menu item orderable at a table.
type Product struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	NameEn    string         `gorm:"size:255" json:"name_en"`
	Category  string         `gorm:"size:100;index" json:"category"`
	Price     float64        `gorm:"type:decimal(20,4);default:0" json:"price"`
	Branch    string         `gorm:"size:100;index" json:"branch"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
