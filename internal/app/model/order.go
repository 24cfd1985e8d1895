package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the back-office may move an order from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID         uint            `gorm:"primarykey" json:"id"`                                  // order ID
	UserID     *uint           `gorm:"index" json:"user_id,omitempty"`                        // nil for guest checkout
	FirstName  string          `gorm:"type:varchar(100);not null" json:"first_name"`          // shipping snapshot
	LastName   string          `gorm:"type:varchar(100);not null" json:"last_name"`
	Email      string          `gorm:"type:varchar(255);not null" json:"email"`
	Phone      string          `gorm:"type:varchar(50)" json:"phone"`
	Address    string          `gorm:"type:varchar(255);not null" json:"address"`
	City       string          `gorm:"type:varchar(100);not null" json:"city"`
	PostalCode string          `gorm:"type:varchar(20);not null" json:"postal_code"`
	Country    string          `gorm:"type:varchar(100);not null" json:"country"`
	Total      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`              // sum of line subtotals
	Status     OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderLine keeps a snapshot of the product so history survives product deletion.
type OrderLine struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	OrderID     uint            `gorm:"not null;index" json:"order_id"`
	ProductID   *uint           `gorm:"index" json:"product_id,omitempty"` // nil once the product row is gone
	ProductName string          `gorm:"type:varchar(150);not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"` // price at checkout
	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"-"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}
