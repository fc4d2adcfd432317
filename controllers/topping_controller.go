package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/marco-delgado/pizzeria-api/config"
	"github.com/marco-delgado/pizzeria-api/models"
)

// ToppingRequest represents the request body for creating or updating a
// topping
type ToppingRequest struct {
	Name        string          `json:"name" binding:"required,max=255"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable *bool           `json:"is_available" binding:"required"`
}

// ListToppings handles GET /api/v1/toppings
func ListToppings(c *gin.Context) {
	db := config.GetDB()

	var toppings []models.Topping
	if err := db.Find(&toppings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load toppings",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toppings,
	})
}

// CreateTopping handles POST /api/v1/toppings
func CreateTopping(c *gin.Context) {
	var req ToppingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Price must not be negative",
			},
		})
		return
	}

	topping := models.Topping{
		Name:        req.Name,
		Price:       req.Price,
		IsAvailable: *req.IsAvailable,
	}

	db := config.GetDB()
	if err := db.Create(&topping).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create topping",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    topping,
	})
}

// UpdateTopping handles PUT /api/v1/toppings/:id
func UpdateTopping(c *gin.Context) {
	var req ToppingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Price must not be negative",
			},
		})
		return
	}

	db := config.GetDB()

	var topping models.Topping
	if err := db.First(&topping, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOPPING_NOT_FOUND",
				"message": "Topping not found",
			},
		})
		return
	}

	topping.Name = req.Name
	topping.Price = req.Price
	topping.IsAvailable = *req.IsAvailable

	if err := db.Save(&topping).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update topping",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    topping,
	})
}

// DeleteTopping handles DELETE /api/v1/toppings/:id. Order items keep
// their denormalized topping labels regardless.
func DeleteTopping(c *gin.Context) {
	db := config.GetDB()

	var topping models.Topping
	if err := db.First(&topping, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOPPING_NOT_FOUND",
				"message": "Topping not found",
			},
		})
		return
	}

	if err := db.Delete(&topping).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete topping",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Topping deleted",
	})
}
