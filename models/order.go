package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. Pending -> Delivering -> Completed, with Cancelled
// reachable from Pending and Delivering. Completed and Cancelled are
// terminal.
const (
	StatusPending    = "Pending"
	StatusDelivering = "Delivering"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"
)

// Order types
const (
	TypeDelivery = "Delivery"
	TypeDineIn   = "Dine-in"
	TypeTakeaway = "Takeaway"
)

// statusTransitions is the set of legal edges of the order status machine
var statusTransitions = map[string][]string{
	StatusPending:    {StatusDelivering, StatusCancelled},
	StatusDelivering: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// Order represents a placed order with its denormalized total
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderNumber string          `gorm:"uniqueIndex;not null" json:"order_number"`
	CustomerID  uint            `gorm:"not null;index" json:"customer_id"`
	Customer    Customer        `gorm:"foreignKey:CustomerID" json:"customer"`
	Status      string          `gorm:"not null;default:'Pending'" json:"status"`
	Type        string          `gorm:"not null" json:"type"`
	PickupTime  *string         `json:"pickup_time,omitempty"`
	TableNumber *string         `json:"table_number,omitempty"`
	TotalAmount decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"total_amount"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents one line of an order. Size, toppings and unit price
// are denormalized at creation time: later catalog changes never alter
// them.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Product   Product         `gorm:"foreignKey:ProductID" json:"product"`
	Size      string          `json:"size"`
	Toppings  Toppings        `gorm:"type:text" json:"toppings"`
	Quantity  int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"subtotal"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// Toppings is a list of denormalized topping labels stored as a JSON text
// column so the same schema works on postgres and the sqlite test driver.
type Toppings []string

// Value implements driver.Valuer
func (t Toppings) Value() (driver.Value, error) {
	if t == nil {
		t = Toppings{}
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (t *Toppings) Scan(value interface{}) error {
	if value == nil {
		*t = Toppings{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("cannot scan %T into Toppings", value)
	}
}

// ValidStatus reports whether the given status is one of the known set
func ValidStatus(status string) bool {
	_, ok := statusTransitions[status]
	return ok
}

// ValidOrderType reports whether the given type is one of the known set
func ValidOrderType(orderType string) bool {
	switch orderType {
	case TypeDelivery, TypeDineIn, TypeTakeaway:
		return true
	}
	return false
}

// CanTransition reports whether moving an order from one status to another
// is a legal edge of the status machine. Setting the current status again
// is allowed (no-op update).
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NewOrderNumber generates a short human-facing order reference
func NewOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
