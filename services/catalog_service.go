package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/marco-delgado/pizzeria-api/models"
)

// Menu is the storefront payload: the featured pizzas plus everything
// needed to customize one.
type Menu struct {
	Products   []models.Product   `json:"products"`
	PizzaSizes []models.PizzaSize `json:"pizza_sizes"`
	Toppings   []models.Topping   `json:"toppings"`
}

// StorefrontMenu loads the six newest available pizzas together with the
// available sizes and toppings.
func StorefrontMenu(db *gorm.DB) (*Menu, error) {
	menu := &Menu{}

	err := db.Where("is_available = ? AND category = ?", true, models.CategoryPizza).
		Order("created_at DESC").
		Limit(6).
		Find(&menu.Products).Error
	if err != nil {
		return nil, err
	}

	if err := db.Where("is_available = ?", true).Find(&menu.PizzaSizes).Error; err != nil {
		return nil, err
	}

	if err := db.Where("is_available = ?", true).Find(&menu.Toppings).Error; err != nil {
		return nil, err
	}

	return menu, nil
}

// UnknownOptionError reports a size or topping name that is not on the
// available catalog.
type UnknownOptionError struct {
	Kind string
	Name string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("%s %q is not available", e.Kind, e.Name)
}

// QuotePrice composes the storefront display price of one configuration:
// the product base price plus the chosen size modifier and each topping.
// Size and topping names must refer to available catalog entries.
func QuotePrice(db *gorm.DB, productID uint, sizeName string, toppingNames []string) (decimal.Decimal, error) {
	var product models.Product
	if err := db.Where("is_available = ?", true).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, &NotFoundError{Entity: "product", ID: productID}
		}
		return decimal.Zero, err
	}

	var size *models.PizzaSize
	if sizeName != "" {
		var s models.PizzaSize
		if err := db.Where("name = ? AND is_available = ?", sizeName, true).First(&s).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return decimal.Zero, &UnknownOptionError{Kind: "size", Name: sizeName}
			}
			return decimal.Zero, err
		}
		size = &s
	}

	toppings := make([]models.Topping, 0, len(toppingNames))
	for _, name := range toppingNames {
		var topping models.Topping
		if err := db.Where("name = ? AND is_available = ?", name, true).First(&topping).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return decimal.Zero, &UnknownOptionError{Kind: "topping", Name: name}
			}
			return decimal.Zero, err
		}
		toppings = append(toppings, topping)
	}

	return ComposeUnitPrice(product.Price, size, toppings), nil
}

// AvailableProducts loads every available product, for the order forms
func AvailableProducts(db *gorm.DB) ([]models.Product, error) {
	var products []models.Product
	if err := db.Where("is_available = ?", true).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
