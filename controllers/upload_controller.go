package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marco-delgado/pizzeria-api/config"
	"github.com/marco-delgado/pizzeria-api/models"
	"github.com/marco-delgado/pizzeria-api/services"
	"github.com/marco-delgado/pizzeria-api/utils"
)

// UploadProductImage handles POST /api/v1/products/:id/image - validates
// and uploads a PNG product photo to S3 and stores the key on the product.
// A previous photo, if any, is removed afterwards.
func UploadProductImage(c *gin.Context) {
	db := config.GetDB()

	var product models.Product
	if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "An image file is required under the 'image' field",
			},
		})
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Image storage is not configured",
			},
		})
		return
	}

	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		if uploadErr, ok := err.(*utils.FileUploadError); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": "Failed to store the image",
			},
		})
		return
	}

	// Copy the value: the update below writes the new key back into the
	// struct, so a pointer alias would see the new key, not the old one.
	previousKey := ""
	if product.ImageS3Key != nil {
		previousKey = *product.ImageS3Key
	}
	if err := db.Model(&product).Update("image_s3_key", imageKey).Error; err != nil {
		// The row was not updated; don't leave the fresh object behind
		_ = imageService.DeleteImage(imageKey)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save image reference",
			},
		})
		return
	}

	if previousKey != "" && previousKey != imageKey {
		_ = imageService.DeleteImage(previousKey)
	}

	setImageURL(&product)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProductImage handles DELETE /api/v1/products/:id/image
func DeleteProductImage(c *gin.Context) {
	db := config.GetDB()

	var product models.Product
	if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	if product.ImageS3Key == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "IMAGE_NOT_FOUND",
				"message": "Product has no image",
			},
		})
		return
	}

	imageKey := *product.ImageS3Key
	if err := db.Model(&product).Update("image_s3_key", nil).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to clear image reference",
			},
		})
		return
	}

	if imageService := services.GetImageService(); imageService != nil {
		_ = imageService.DeleteImage(imageKey)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product image deleted",
	})
}
