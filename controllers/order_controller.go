package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marco-delgado/pizzeria-api/config"
	"github.com/marco-delgado/pizzeria-api/models"
	"github.com/marco-delgado/pizzeria-api/services"
)

// CreateOrderRequest represents the request body for creating an order
// from the back-office. Per-line price overrides carry size/topping
// modifiers already summed by the order form.
type CreateOrderRequest struct {
	CustomerID  uint                 `json:"customer_id" binding:"required"`
	Type        string               `json:"type" binding:"required"`
	PickupTime  *string              `json:"pickup_time"`
	TableNumber *string              `json:"table_number"`
	Items       []services.OrderLine `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderRequest represents the request body for PATCH /orders/:id.
// All fields are optional; a request carrying only a status is handled as
// a lightweight single-field update.
type UpdateOrderRequest struct {
	Status      *string               `json:"status"`
	Type        *string               `json:"type"`
	PickupTime  *string               `json:"pickup_time"`
	TableNumber *string               `json:"table_number"`
	CustomerID  *uint                 `json:"customer_id"`
	Items       *[]services.OrderLine `json:"items" binding:"omitempty,dive"`
}

// CheckoutRequest represents the public storefront checkout body. Contact
// fields replace customer_id; the customer is upserted by email.
type CheckoutRequest struct {
	Name    string               `json:"name" binding:"required,max=255"`
	Email   string               `json:"email" binding:"required,email,max=255"`
	Phone   string               `json:"phone" binding:"required,max=20"`
	Address string               `json:"address" binding:"required,max=500"`
	City    string               `json:"city" binding:"required,max=100"`
	Items   []services.OrderLine `json:"items" binding:"required,min=1,dive"`
}

// ListOrders handles GET /api/v1/orders - lists orders with customer and
// items, newest first
func ListOrders(c *gin.Context) {
	db := config.GetDB()

	var orders []models.Order
	if err := db.Preload("Customer").Preload("Items").Preload("Items.Product").
		Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// NewOrderForm handles GET /api/v1/orders/create - returns the lookups the
// order form needs: available products and all customers
func NewOrderForm(c *gin.Context) {
	db := config.GetDB()

	products, err := services.AvailableProducts(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load products",
			},
		})
		return
	}

	var customers []models.Customer
	if err := db.Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load customers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"products":  products,
			"customers": customers,
		},
	})
}

// CreateOrder handles POST /api/v1/orders - creates an order with its
// items inside one transaction. Either every row commits or none do.
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
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

	if !models.ValidOrderType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Order type must be Delivery, Dine-in or Takeaway",
			},
		})
		return
	}

	db := config.GetDB()

	var customer models.Customer
	if err := db.First(&customer, req.CustomerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_NOT_FOUND",
				"message": "Referenced customer does not exist",
			},
		})
		return
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		priced, total, err := services.PriceLines(tx, req.Items, services.PriceWithOverrides)
		if err != nil {
			return err
		}

		order = models.Order{
			OrderNumber: models.NewOrderNumber(),
			CustomerID:  customer.ID,
			Status:      models.StatusPending,
			Type:        req.Type,
			PickupTime:  req.PickupTime,
			TableNumber: req.TableNumber,
			TotalAmount: total,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Create(orderItemsFor(order.ID, priced)).Error
	})
	if err != nil {
		respondOrderWriteError(c, err)
		return
	}

	if err := db.Preload("Customer").Preload("Items").Preload("Items.Product").
		First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// EditOrderForm handles GET /api/v1/orders/:id/edit - returns one order
// plus the lookups the edit form needs
func EditOrderForm(c *gin.Context) {
	db := config.GetDB()

	var order models.Order
	if err := db.Preload("Customer").Preload("Items").Preload("Items.Product").
		First(&order, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	products, err := services.AvailableProducts(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load products",
			},
		})
		return
	}

	var customers []models.Customer
	if err := db.Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load customers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":     order,
			"products":  products,
			"customers": customers,
		},
	})
}

// UpdateOrder handles PATCH /api/v1/orders/:id. A body carrying only a
// status is a lightweight single-field update; anything else runs in a
// transaction, and a present items list replaces the whole item set,
// repriced from the current catalog.
func UpdateOrder(c *gin.Context) {
	var req UpdateOrderRequest
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

	db := config.GetDB()

	var order models.Order
	if err := db.First(&order, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Status must be Pending, Delivering, Completed or Cancelled",
				},
			})
			return
		}
		if !models.CanTransition(order.Status, *req.Status) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TRANSITION",
					"message": "Order cannot move from " + order.Status + " to " + *req.Status,
				},
			})
			return
		}
	}

	if req.Type != nil && !models.ValidOrderType(*req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Order type must be Delivery, Dine-in or Takeaway",
			},
		})
		return
	}

	statusOnly := req.Status != nil && req.Type == nil && req.PickupTime == nil &&
		req.TableNumber == nil && req.CustomerID == nil && req.Items == nil

	if statusOnly {
		if err := db.Model(&order).Update("status", *req.Status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update order status",
				},
			})
			return
		}
		respondWithOrder(c, db, order.ID, http.StatusOK)
		return
	}

	if req.CustomerID != nil {
		var customer models.Customer
		if err := db.First(&customer, *req.CustomerID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CUSTOMER_NOT_FOUND",
					"message": "Referenced customer does not exist",
				},
			})
			return
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if req.Status != nil {
			updates["status"] = *req.Status
		}
		if req.Type != nil {
			updates["type"] = *req.Type
		}
		if req.PickupTime != nil {
			updates["pickup_time"] = *req.PickupTime
		}
		if req.TableNumber != nil {
			updates["table_number"] = *req.TableNumber
		}
		if req.CustomerID != nil {
			updates["customer_id"] = *req.CustomerID
		}

		if req.Items != nil {
			// Replace the item set as a whole: delete everything, then
			// reinsert repriced from the authoritative catalog price.
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}

			priced, total, err := services.PriceLines(tx, *req.Items, services.PriceFromCatalog)
			if err != nil {
				return err
			}
			if len(priced) > 0 {
				if err := tx.Create(orderItemsFor(order.ID, priced)).Error; err != nil {
					return err
				}
			}
			updates["total_amount"] = total
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(updates).Error
	})
	if err != nil {
		respondOrderWriteError(c, err)
		return
	}

	respondWithOrder(c, db, order.ID, http.StatusOK)
}

// Checkout handles POST /api/v1/checkout - the public storefront order
// path. The customer is upserted by email and the storefront's composed
// line prices are trusted as-is.
func Checkout(c *gin.Context) {
	var req CheckoutRequest
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

	db := config.GetDB()

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		// Find or create the customer by email. Contact fields are
		// overwritten on every checkout with that email.
		var customer models.Customer
		err := tx.Where("email = ?", req.Email).First(&customer).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			customer = models.Customer{
				Name:    req.Name,
				Email:   req.Email,
				Phone:   req.Phone,
				Address: req.Address,
				City:    req.City,
			}
			if err := tx.Create(&customer).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			customer.Name = req.Name
			customer.Phone = req.Phone
			customer.Address = req.Address
			customer.City = req.City
			if err := tx.Save(&customer).Error; err != nil {
				return err
			}
		}

		priced, total, err := services.PriceLines(tx, req.Items, services.PriceTrustingClient)
		if err != nil {
			return err
		}

		order = models.Order{
			OrderNumber: models.NewOrderNumber(),
			CustomerID:  customer.ID,
			Status:      models.StatusPending,
			Type:        models.TypeDelivery,
			TotalAmount: total,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Create(orderItemsFor(order.ID, priced)).Error
	})
	if err != nil {
		respondOrderWriteError(c, err)
		return
	}

	respondWithOrder(c, db, order.ID, http.StatusCreated)
}

// orderItemsFor turns priced lines into OrderItem rows for an order
func orderItemsFor(orderID uint, priced []services.PricedItem) []models.OrderItem {
	items := make([]models.OrderItem, len(priced))
	for i, p := range priced {
		items[i] = models.OrderItem{
			OrderID:   orderID,
			ProductID: p.ProductID,
			Size:      p.Size,
			Toppings:  p.Toppings,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
			Subtotal:  p.Subtotal,
		}
	}
	return items
}

// respondWithOrder reloads an order with its relations and writes the
// success envelope
func respondWithOrder(c *gin.Context, db *gorm.DB, orderID uint, status int) {
	var order models.Order
	if err := db.Preload("Customer").Preload("Items").Preload("Items.Product").
		First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load order details",
			},
		})
		return
	}

	c.JSON(status, gin.H{
		"success": true,
		"data":    order,
	})
}

// respondOrderWriteError maps a failed order write to the right error
// envelope. Referential failures abort the whole transaction, so by the
// time we get here nothing was persisted.
func respondOrderWriteError(c *gin.Context, err error) {
	if services.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "Failed to save order",
		},
	})
}
