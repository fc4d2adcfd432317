package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/marco-delgado/pizzeria-api/config"
	"github.com/marco-delgado/pizzeria-api/services"
)

// GetMenu handles GET /api/v1/menu - the public storefront payload: the
// featured available pizzas plus the sizes and toppings used by the pizza
// customizer
func GetMenu(c *gin.Context) {
	db := config.GetDB()

	menu, err := services.StorefrontMenu(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load menu",
			},
		})
		return
	}

	attachImageURLs(menu.Products)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    menu,
	})
}

// GetMenuPrice handles GET /api/v1/menu/price - the composed display price
// of one configuration (product_id, optional size, repeated toppings), so
// the storefront shows the price the kitchen would charge
func GetMenuPrice(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Query("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "product_id must be a positive integer",
			},
		})
		return
	}

	db := config.GetDB()

	price, err := services.QuotePrice(db, uint(productID), c.Query("size"), c.QueryArray("toppings"))
	if err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PRODUCT_NOT_FOUND",
					"message": "Product not found",
				},
			})
			return
		}

		var unknown *services.UnknownOptionError
		if errors.As(err, &unknown) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": unknown.Error(),
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compose price",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"unit_price": price,
		},
	})
}
