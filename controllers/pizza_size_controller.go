package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/marco-delgado/pizzeria-api/config"
	"github.com/marco-delgado/pizzeria-api/models"
)

// PizzaSizeRequest represents the request body for creating or updating a
// pizza size
type PizzaSizeRequest struct {
	Name          string          `json:"name" binding:"required,max=255"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	IsAvailable   *bool           `json:"is_available" binding:"required"`
}

// ListPizzaSizes handles GET /api/v1/pizza-sizes
func ListPizzaSizes(c *gin.Context) {
	db := config.GetDB()

	var sizes []models.PizzaSize
	if err := db.Find(&sizes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load pizza sizes",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sizes,
	})
}

// CreatePizzaSize handles POST /api/v1/pizza-sizes
func CreatePizzaSize(c *gin.Context) {
	var req PizzaSizeRequest
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

	if req.PriceModifier.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Price modifier must not be negative",
			},
		})
		return
	}

	size := models.PizzaSize{
		Name:          req.Name,
		PriceModifier: req.PriceModifier,
		IsAvailable:   *req.IsAvailable,
	}

	db := config.GetDB()
	if err := db.Create(&size).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create pizza size",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    size,
	})
}

// UpdatePizzaSize handles PUT /api/v1/pizza-sizes/:id
func UpdatePizzaSize(c *gin.Context) {
	var req PizzaSizeRequest
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

	if req.PriceModifier.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Price modifier must not be negative",
			},
		})
		return
	}

	db := config.GetDB()

	var size models.PizzaSize
	if err := db.First(&size, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SIZE_NOT_FOUND",
				"message": "Pizza size not found",
			},
		})
		return
	}

	size.Name = req.Name
	size.PriceModifier = req.PriceModifier
	size.IsAvailable = *req.IsAvailable

	if err := db.Save(&size).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update pizza size",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    size,
	})
}

// DeletePizzaSize handles DELETE /api/v1/pizza-sizes/:id. Orders keep the
// size label they were created with, so deleting a size never touches
// order history.
func DeletePizzaSize(c *gin.Context) {
	db := config.GetDB()

	var size models.PizzaSize
	if err := db.First(&size, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SIZE_NOT_FOUND",
				"message": "Pizza size not found",
			},
		})
		return
	}

	if err := db.Delete(&size).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete pizza size",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Pizza size deleted",
	})
}
