package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product categories shown on the storefront and in the back-office menu.
const (
	CategoryPizza    = "Pizza"
	CategoryBeverage = "Beverage"
	CategorySide     = "Side"
	CategoryDessert  = "Dessert"
)

// Product represents a menu item. Price is the base price; for pizzas the
// size modifier and topping prices are added on top at order time.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	Description string          `json:"description"`
	Ingredients string          `json:"ingredients"`
	Category    string          `gorm:"not null;default:'Pizza';index" json:"category"`
	IsAvailable bool            `gorm:"not null" json:"is_available"`
	ImageS3Key  *string         `json:"image_s3_key,omitempty"`
	ImageURL    *string         `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for image
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// ValidCategory reports whether the given category is one of the known set
func ValidCategory(category string) bool {
	switch category {
	case CategoryPizza, CategoryBeverage, CategorySide, CategoryDessert:
		return true
	}
	return false
}
