package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are JSON numbers (1299.99), not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog record. The database owns it; cached copies are
// disposable projections and never authoritative.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       uint            `gorm:"not null" json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
