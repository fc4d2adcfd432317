package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marco-delgado/pizzeria-api/models"
)

// PricingMode selects how the unit price of each line is resolved.
type PricingMode int

const (
	// PriceWithOverrides uses the caller-supplied price when present and
	// falls back to the catalog price. Used by back-office order creation,
	// where the override carries size/topping modifiers summed client-side.
	PriceWithOverrides PricingMode = iota

	// PriceFromCatalog ignores caller-supplied prices and always reprices
	// from the current catalog price. Used when an order's items are
	// replaced from the back-office.
	PriceFromCatalog

	// PriceTrustingClient uses the caller-supplied price, falling back to
	// zero when absent. Used by the public checkout path, which trusts the
	// storefront's composed price as-is.
	PriceTrustingClient
)

// OrderLine is one requested line of an order before pricing
type OrderLine struct {
	ProductID uint             `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,gt=0"`
	Size      string           `json:"size"`
	Toppings  []string         `json:"toppings"`
	Price     *decimal.Decimal `json:"price"`
}

// PricedItem is one priced line ready to be persisted as an OrderItem
type PricedItem struct {
	ProductID uint
	Size      string
	Toppings  models.Toppings
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// NotFoundError reports a referenced entity that does not exist. Any such
// line fails the whole pricing call: no partial result is returned.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// IsNotFound reports whether err wraps a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// PriceLines resolves a unit price for every requested line and computes
// per-line subtotals and the grand total. Subtotals are rounded once, at
// subtotal level; the total is accumulated in decimal arithmetic so no
// rounding error compounds across lines.
func PriceLines(db *gorm.DB, lines []OrderLine, mode PricingMode) ([]PricedItem, decimal.Decimal, error) {
	items := make([]PricedItem, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		var product models.Product
		if err := db.First(&product, line.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, decimal.Zero, &NotFoundError{Entity: "product", ID: line.ProductID}
			}
			return nil, decimal.Zero, fmt.Errorf("failed to load product %d: %w", line.ProductID, err)
		}

		var unitPrice decimal.Decimal
		switch mode {
		case PriceFromCatalog:
			unitPrice = product.Price
		case PriceTrustingClient:
			if line.Price != nil {
				unitPrice = *line.Price
			}
		default:
			if line.Price != nil {
				unitPrice = *line.Price
			} else {
				unitPrice = product.Price
			}
		}

		subtotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		total = total.Add(subtotal)

		items = append(items, PricedItem{
			ProductID: product.ID,
			Size:      line.Size,
			Toppings:  models.Toppings(line.Toppings),
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  subtotal,
		})
	}

	return items, total, nil
}

// ComposeUnitPrice sums the storefront display price of a pizza
// configuration: base price plus size modifier plus every topping.
func ComposeUnitPrice(basePrice decimal.Decimal, size *models.PizzaSize, toppings []models.Topping) decimal.Decimal {
	price := basePrice
	if size != nil {
		price = price.Add(size.PriceModifier)
	}
	for _, topping := range toppings {
		price = price.Add(topping.Price)
	}
	return price
}
