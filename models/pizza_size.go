package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PizzaSize represents a selectable pizza size. PriceModifier is added to
// the product base price when the size is chosen.
type PizzaSize struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	PriceModifier decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price_modifier"`
	IsAvailable   bool            `gorm:"not null" json:"is_available"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the PizzaSize model
func (PizzaSize) TableName() string {
	return "pizza_sizes"
}
