package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Topping represents an extra that can be added to a pizza for a surcharge.
type Topping struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	IsAvailable bool            `gorm:"not null" json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Topping model
func (Topping) TableName() string {
	return "toppings"
}
