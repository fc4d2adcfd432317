package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/marco-delgado/pizzeria-api/config"
	"github.com/marco-delgado/pizzeria-api/models"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, name, price string) models.Product {
	product := models.Product{
		Name:        name,
		Price:       decimal.RequireFromString(price),
		Category:    models.CategoryPizza,
		IsAvailable: true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to seed product %s: %v", name, err)
	}
	return product
}

func seedOrderCustomer(t *testing.T, db *gorm.DB, email string) models.Customer {
	customer := models.Customer{
		Name:    "Seed Customer",
		Email:   email,
		Phone:   "555-0101",
		Address: "1 Main St",
		City:    "Naples",
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("Failed to seed customer %s: %v", email, err)
	}
	return customer
}

// assertAmount compares a JSON money field against an expected decimal value
func assertAmount(t *testing.T, expected string, got interface{}) {
	t.Helper()
	gotStr, ok := got.(string)
	if !assert.True(t, ok, "expected money field to be a string, got %T", got) {
		return
	}
	want := decimal.RequireFromString(expected)
	assert.True(t, want.Equal(decimal.RequireFromString(gotStr)),
		"expected amount %s, got %s", expected, gotStr)
}

func TestCreateOrder(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)

	customer := seedOrderCustomer(t, db, "alice@example.com")
	margherita := seedCatalogProduct(t, db, "Margherita", "12.50")
	cola := seedCatalogProduct(t, db, "Cola", "3.00")

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name: "Successfully create order with composed line prices",
			requestBody: map[string]interface{}{
				"customer_id": customer.ID,
				"type":        "Delivery",
				"items": []map[string]interface{}{
					{
						"product_id": margherita.ID,
						"quantity":   2,
						"size":       "Large",
						"toppings":   []string{"Mushrooms", "Olives"},
						"price":      15, // base 12.50 + size and topping modifiers
					},
					{
						"product_id": cola.ID,
						"quantity":   1,
					},
				},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.True(t, response["success"].(bool))
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "Pending", data["status"])
				assert.Equal(t, "Delivery", data["type"])
				assert.Equal(t, float64(customer.ID), data["customer_id"])
				assert.True(t, strings.HasPrefix(data["order_number"].(string), "ORD-"))

				// Overridden line: 15 x 2 = 30; catalog fallback: 3 x 1 = 3
				assertAmount(t, "33", data["total_amount"])

				items := data["items"].([]interface{})
				assert.Equal(t, 2, len(items))

				pizza := items[0].(map[string]interface{})
				assertAmount(t, "15", pizza["unit_price"])
				assertAmount(t, "30", pizza["subtotal"])
				assert.Equal(t, "Large", pizza["size"])
				toppings := pizza["toppings"].([]interface{})
				assert.Equal(t, 2, len(toppings))

				drink := items[1].(map[string]interface{})
				assertAmount(t, "3", drink["unit_price"])

				// Customer relationship is loaded
				customerData := data["customer"].(map[string]interface{})
				assert.Equal(t, customer.Email, customerData["email"])
			},
		},
		{
			name: "Fail with unknown customer",
			requestBody: map[string]interface{}{
				"customer_id": 9999,
				"type":        "Delivery",
				"items": []map[string]interface{}{
					{"product_id": margherita.ID, "quantity": 1},
				},
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "CUSTOMER_NOT_FOUND",
		},
		{
			name: "Fail with unknown order type",
			requestBody: map[string]interface{}{
				"customer_id": customer.ID,
				"type":        "Drone drop",
				"items": []map[string]interface{}{
					{"product_id": margherita.ID, "quantity": 1},
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with empty items",
			requestBody: map[string]interface{}{
				"customer_id": customer.ID,
				"type":        "Delivery",
				"items":       []map[string]interface{}{},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with zero quantity",
			requestBody: map[string]interface{}{
				"customer_id": customer.ID,
				"type":        "Delivery",
				"items": []map[string]interface{}{
					{"product_id": margherita.ID, "quantity": 0},
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with unknown product",
			requestBody: map[string]interface{}{
				"customer_id": customer.ID,
				"type":        "Delivery",
				"items": []map[string]interface{}{
					{"product_id": 9999, "quantity": 1},
				},
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "PRODUCT_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/orders", CreateOrder)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestCreateOrder_RollsBackOnUnknownProduct(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)

	customer := seedOrderCustomer(t, db, "alice@example.com")
	margherita := seedCatalogProduct(t, db, "Margherita", "12.50")

	router := setupTestRouter()
	router.POST("/orders", CreateOrder)

	// Second line references a product that does not exist
	body, _ := json.Marshal(map[string]interface{}{
		"customer_id": customer.ID,
		"type":        "Takeaway",
		"items": []map[string]interface{}{
			{"product_id": margherita.ID, "quantity": 2},
			{"product_id": 9999, "quantity": 1},
		},
	})
	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	// The whole transaction rolled back: no order header, no item rows
	var orderCount, itemCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.OrderItem{}).Count(&itemCount)
	assert.Equal(t, int64(0), orderCount)
	assert.Equal(t, int64(0), itemCount)
}

func TestListOrders(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)

	customer := seedOrderCustomer(t, db, "alice@example.com")
	margherita := seedCatalogProduct(t, db, "Margherita", "12.50")

	for i := 1; i <= 3; i++ {
		order := models.Order{
			OrderNumber: fmt.Sprintf("ORD-TEST%04d", i),
			CustomerID:  customer.ID,
			Status:      models.StatusPending,
			Type:        models.TypeDelivery,
			TotalAmount: decimal.RequireFromString("12.50"),
			Items: []models.OrderItem{
				{
					ProductID: margherita.ID,
					Quantity:  1,
					UnitPrice: decimal.RequireFromString("12.50"),
					Subtotal:  decimal.RequireFromString("12.50"),
				},
			},
		}
		if err := db.Create(&order).Error; err != nil {
			t.Fatalf("Failed to seed order: %v", err)
		}
	}

	router := setupTestRouter()
	router.GET("/orders", ListOrders)

	req, _ := http.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response["success"].(bool))

	data := response["data"].([]interface{})
	assert.Equal(t, 3, len(data))

	// Newest first, with customer and items preloaded
	first := data[0].(map[string]interface{})
	assert.Equal(t, "ORD-TEST0003", first["order_number"])

	customerData := first["customer"].(map[string]interface{})
	assert.Equal(t, customer.Email, customerData["email"])

	items := first["items"].([]interface{})
	assert.Equal(t, 1, len(items))
	product := items[0].(map[string]interface{})["product"].(map[string]interface{})
	assert.Equal(t, "Margherita", product["name"])
}

func TestNewOrderForm(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)

	seedOrderCustomer(t, db, "alice@example.com")
	seedCatalogProduct(t, db, "Margherita", "12.50")

	// Unavailable products stay off the order form
	hidden := seedCatalogProduct(t, db, "Retired Special", "20.00")
	db.Model(&hidden).Update("is_available", false)

	router := setupTestRouter()
	router.GET("/orders/create", NewOrderForm)

	req, _ := http.NewRequest(http.MethodGet, "/orders/create", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	products := data["products"].([]interface{})
	assert.Equal(t, 1, len(products))
	customers := data["customers"].([]interface{})
	assert.Equal(t, 1, len(customers))
}

func TestEditOrderForm(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)

	customer := seedOrderCustomer(t, db, "alice@example.com")
	margherita := seedCatalogProduct(t, db, "Margherita", "12.50")

	order := models.Order{
		OrderNumber: "ORD-EDIT0001",
		CustomerID:  customer.ID,
		Status:      models.StatusPending,
		Type:        models.TypeDelivery,
		TotalAmount: decimal.RequireFromString("12.50"),
		Items: []models.OrderItem{
			{
				ProductID: margherita.ID,
				Quantity:  1,
				UnitPrice: decimal.RequireFromString("12.50"),
				Subtotal:  decimal.RequireFromString("12.50"),
			},
		},
	}
	db.Create(&order)

	router := setupTestRouter()
	router.GET("/orders/:id/edit", EditOrderForm)

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d/edit", order.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	orderData := data["order"].(map[string]interface{})
	assert.Equal(t, "ORD-EDIT0001", orderData["order_number"])
	assert.Equal(t, 1, len(orderData["items"].([]interface{})))
	assert.NotNil(t, data["products"])
	assert.NotNil(t, data["customers"])

	// Unknown order
	req, _ = http.NewRequest(http.MethodGet, "/orders/9999/edit", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateOrder_StatusTransitions(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)

	customer := seedOrderCustomer(t, db, "alice@example.com")

	tests := []struct {
		name           string
		currentStatus  string
		newStatus      string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Pending to Delivering",
			currentStatus:  models.StatusPending,
			newStatus:      models.StatusDelivering,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Delivering to Completed",
			currentStatus:  models.StatusDelivering,
			newStatus:      models.StatusCompleted,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Pending to Cancelled",
			currentStatus:  models.StatusPending,
			newStatus:      models.StatusCancelled,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Same status is a no-op",
			currentStatus:  models.StatusPending,
			newStatus:      models.StatusPending,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Pending cannot skip to Completed",
			currentStatus:  models.StatusPending,
			newStatus:      models.StatusCompleted,
			expectedStatus: http.StatusConflict,
			expectedError:  "INVALID_TRANSITION",
		},
		{
			name:           "Completed is terminal",
			currentStatus:  models.StatusCompleted,
			newStatus:      models.StatusDelivering,
			expectedStatus: http.StatusConflict,
			expectedError:  "INVALID_TRANSITION",
		},
		{
			name:           "Cancelled is terminal",
			currentStatus:  models.StatusCancelled,
			newStatus:      models.StatusPending,
			expectedStatus: http.StatusConflict,
			expectedError:  "INVALID_TRANSITION",
		},
		{
			name:           "Unknown status is rejected",
			currentStatus:  models.StatusPending,
			newStatus:      "Lost",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := models.Order{
				OrderNumber: models.NewOrderNumber(),
				CustomerID:  customer.ID,
				Status:      tt.currentStatus,
				Type:        models.TypeDelivery,
				TotalAmount: decimal.RequireFromString("10.00"),
			}
			if err := db.Create(&order).Error; err != nil {
				t.Fatalf("Failed to seed order: %v", err)
			}

			router := setupTestRouter()
			router.PATCH("/orders/:id", UpdateOrder)

			body, _ := json.Marshal(map[string]interface{}{"status": tt.newStatus})
			req, _ := http.NewRequest(http.MethodPatch, fmt.Sprintf("/orders/%d", order.ID), bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var persisted models.Order
			db.First(&persisted, order.ID)

			if tt.expectedError != "" {
				var response map[string]interface{}
				json.Unmarshal(w.Body.Bytes(), &response)
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])

				// Rejected updates leave the stored status untouched
				assert.Equal(t, tt.currentStatus, persisted.Status)
			} else {
				assert.Equal(t, tt.newStatus, persisted.Status)
			}
		})
	}
}

func TestUpdateOrder_StatusOnlyKeepsDenormalizedPrices(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)

	customer := seedOrderCustomer(t, db, "alice@example.com")
	margherita := seedCatalogProduct(t, db, "Margherita", "18.99")

	order := models.Order{
		OrderNumber: "ORD-DENORM01",
		CustomerID:  customer.ID,
		Status:      models.StatusPending,
		Type:        models.TypeDelivery,
		TotalAmount: decimal.RequireFromString("37.98"),
		Items: []models.OrderItem{
			{
				ProductID: margherita.ID,
				Quantity:  2,
				UnitPrice: decimal.RequireFromString("18.99"),
				Subtotal:  decimal.RequireFromString("37.98"),
			},
		},
	}
	db.Create(&order)

	// The catalog price changes after the order was placed
	db.Model(&models.Product{}).Where("id = ?", margherita.ID).
		Update("price", decimal.RequireFromString("25.00"))

	router := setupTestRouter()
	router.PATCH("/orders/:id", UpdateOrder)

	body, _ := json.Marshal(map[string]interface{}{"status": models.StatusDelivering})
	req, _ := http.NewRequest(http.MethodPatch, fmt.Sprintf("/orders/%d", order.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	// The stored line price and total never move with the catalog
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Delivering", data["status"])
	assertAmount(t, "37.98", data["total_amount"])

	items := data["items"].([]interface{})
	assertAmount(t, "18.99", items[0].(map[string]interface{})["unit_price"])
}

func TestUpdateOrder_ReplacesItems(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)

	customer := seedOrderCustomer(t, db, "alice@example.com")
	margherita := seedCatalogProduct(t, db, "Margherita", "12.50")
	diavola := seedCatalogProduct(t, db, "Diavola", "14.00")

	order := models.Order{
		OrderNumber: "ORD-REPLACE1",
		CustomerID:  customer.ID,
		Status:      models.StatusPending,
		Type:        models.TypeDelivery,
		TotalAmount: decimal.RequireFromString("25.00"),
		Items: []models.OrderItem{
			{
				ProductID: margherita.ID,
				Quantity:  2,
				UnitPrice: decimal.RequireFromString("12.50"),
				Subtotal:  decimal.RequireFromString("25.00"),
			},
		},
	}
	db.Create(&order)

	router := setupTestRouter()
	router.PATCH("/orders/:id", UpdateOrder)

	// Replace the items with one Diavola. The client sends a bogus price;
	// edits always reprice from the catalog.
	body, _ := json.Marshal(map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": diavola.ID, "quantity": 1, "price": 1},
		},
	})
	req, _ := http.NewRequest(http.MethodPatch, fmt.Sprintf("/orders/%d", order.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	assert.Equal(t, 1, len(items))

	item := items[0].(map[string]interface{})
	assert.Equal(t, float64(diavola.ID), item["product_id"])
	assertAmount(t, "14", item["unit_price"])
	assertAmount(t, "14", data["total_amount"])

	// The old rows are gone, not orphaned
	var itemCount int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount)
	assert.Equal(t, int64(1), itemCount)
}

func TestUpdateOrder_ClearsItems(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)

	customer := seedOrderCustomer(t, db, "alice@example.com")
	margherita := seedCatalogProduct(t, db, "Margherita", "12.50")

	order := models.Order{
		OrderNumber: "ORD-CLEAR001",
		CustomerID:  customer.ID,
		Status:      models.StatusPending,
		Type:        models.TypeDelivery,
		TotalAmount: decimal.RequireFromString("12.50"),
		Items: []models.OrderItem{
			{
				ProductID: margherita.ID,
				Quantity:  1,
				UnitPrice: decimal.RequireFromString("12.50"),
				Subtotal:  decimal.RequireFromString("12.50"),
			},
		},
	}
	db.Create(&order)

	router := setupTestRouter()
	router.PATCH("/orders/:id", UpdateOrder)

	body, _ := json.Marshal(map[string]interface{}{
		"items": []map[string]interface{}{},
	})
	req, _ := http.NewRequest(http.MethodPatch, fmt.Sprintf("/orders/%d", order.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, 0, len(data["items"].([]interface{})))
	assertAmount(t, "0", data["total_amount"])

	var itemCount int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount)
	assert.Equal(t, int64(0), itemCount)
}

func TestUpdateOrder_ChangeCustomerAndType(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)

	alice := seedOrderCustomer(t, db, "alice@example.com")
	bob := seedOrderCustomer(t, db, "bob@example.com")

	order := models.Order{
		OrderNumber: "ORD-MOVE0001",
		CustomerID:  alice.ID,
		Status:      models.StatusPending,
		Type:        models.TypeDelivery,
		TotalAmount: decimal.RequireFromString("10.00"),
	}
	db.Create(&order)

	router := setupTestRouter()
	router.PATCH("/orders/:id", UpdateOrder)

	tableNumber := "7"
	body, _ := json.Marshal(map[string]interface{}{
		"customer_id":  bob.ID,
		"type":         models.TypeDineIn,
		"table_number": tableNumber,
	})
	req, _ := http.NewRequest(http.MethodPatch, fmt.Sprintf("/orders/%d", order.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var persisted models.Order
	db.First(&persisted, order.ID)
	assert.Equal(t, bob.ID, persisted.CustomerID)
	assert.Equal(t, models.TypeDineIn, persisted.Type)
	assert.Equal(t, "7", *persisted.TableNumber)

	// Unknown customer is rejected
	body, _ = json.Marshal(map[string]interface{}{"customer_id": 9999})
	req, _ = http.NewRequest(http.MethodPatch, fmt.Sprintf("/orders/%d", order.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "CUSTOMER_NOT_FOUND", errorData["code"])
}

func TestUpdateOrder_NotFound(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.PATCH("/orders/:id", UpdateOrder)

	body, _ := json.Marshal(map[string]interface{}{"status": models.StatusDelivering})
	req, _ := http.NewRequest(http.MethodPatch, "/orders/9999", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "ORDER_NOT_FOUND", errorData["code"])
}

func TestCheckout(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)

	margherita := seedCatalogProduct(t, db, "Margherita", "15.00")

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name: "Successful checkout trusts the storefront price",
			requestBody: map[string]interface{}{
				"name":    "Alice Doe",
				"email":   "alice@example.com",
				"phone":   "555-0101",
				"address": "1 Main St",
				"city":    "Naples",
				"items": []map[string]interface{}{
					{
						"product_id": margherita.ID,
						"quantity":   2,
						"size":       "Large",
						"toppings":   []string{"Mushrooms"},
						"price":      21.5, // composed by the storefront customizer
					},
				},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "Pending", data["status"])
				assert.Equal(t, "Delivery", data["type"])
				assertAmount(t, "43", data["total_amount"])

				items := data["items"].([]interface{})
				assertAmount(t, "21.5", items[0].(map[string]interface{})["unit_price"])
			},
		},
		{
			name: "Missing line price falls back to zero",
			requestBody: map[string]interface{}{
				"name":    "Bob Roe",
				"email":   "bob@example.com",
				"phone":   "555-0102",
				"address": "2 Side St",
				"city":    "Naples",
				"items": []map[string]interface{}{
					{"product_id": margherita.ID, "quantity": 1},
				},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assertAmount(t, "0", data["total_amount"])
			},
		},
		{
			name: "Fail with invalid email",
			requestBody: map[string]interface{}{
				"name":    "Alice Doe",
				"email":   "not-an-email",
				"phone":   "555-0101",
				"address": "1 Main St",
				"city":    "Naples",
				"items": []map[string]interface{}{
					{"product_id": margherita.ID, "quantity": 1},
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with missing contact fields",
			requestBody: map[string]interface{}{
				"email": "alice@example.com",
				"items": []map[string]interface{}{
					{"product_id": margherita.ID, "quantity": 1},
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with empty cart",
			requestBody: map[string]interface{}{
				"name":    "Alice Doe",
				"email":   "alice@example.com",
				"phone":   "555-0101",
				"address": "1 Main St",
				"city":    "Naples",
				"items":   []map[string]interface{}{},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/checkout", Checkout)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/checkout", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestCheckout_UpsertsCustomerByEmail(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)

	margherita := seedCatalogProduct(t, db, "Margherita", "15.00")
	existing := seedOrderCustomer(t, db, "alice@example.com")

	router := setupTestRouter()
	router.POST("/checkout", Checkout)

	body, _ := json.Marshal(map[string]interface{}{
		"name":    "Alice Updated",
		"email":   "alice@example.com",
		"phone":   "555-9999",
		"address": "9 New Ave",
		"city":    "Rome",
		"items": []map[string]interface{}{
			{"product_id": margherita.ID, "quantity": 1, "price": 15},
		},
	})
	req, _ := http.NewRequest(http.MethodPost, "/checkout", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	// No duplicate row; the contact fields were overwritten in place
	var customerCount int64
	db.Model(&models.Customer{}).Count(&customerCount)
	assert.Equal(t, int64(1), customerCount)

	var customer models.Customer
	db.First(&customer, existing.ID)
	assert.Equal(t, "Alice Updated", customer.Name)
	assert.Equal(t, "555-9999", customer.Phone)
	assert.Equal(t, "9 New Ave", customer.Address)
	assert.Equal(t, "Rome", customer.City)

	var order models.Order
	db.First(&order)
	assert.Equal(t, existing.ID, order.CustomerID)
}

func TestCheckout_RollsBackCustomerOnUnknownProduct(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.POST("/checkout", Checkout)

	body, _ := json.Marshal(map[string]interface{}{
		"name":    "Alice Doe",
		"email":   "alice@example.com",
		"phone":   "555-0101",
		"address": "1 Main St",
		"city":    "Naples",
		"items": []map[string]interface{}{
			{"product_id": 9999, "quantity": 1, "price": 10},
		},
	})
	req, _ := http.NewRequest(http.MethodPost, "/checkout", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	// The customer upsert happened inside the same transaction, so the
	// failed pricing leaves nothing behind
	var customerCount, orderCount int64
	db.Model(&models.Customer{}).Count(&customerCount)
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Equal(t, int64(0), customerCount)
	assert.Equal(t, int64(0), orderCount)
}
