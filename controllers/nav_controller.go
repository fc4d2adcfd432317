package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marco-delgado/pizzeria-api/middleware"
	"github.com/marco-delgado/pizzeria-api/services"
)

// GetNavigation handles GET /api/v1/navigation - returns the back-office
// navigation entries visible to the authenticated staff member's role
func GetNavigation(c *gin.Context) {
	staff, err := middleware.GetStaff(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not resolve the calling staff profile",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.NavigationForRole(staff.Role),
	})
}
