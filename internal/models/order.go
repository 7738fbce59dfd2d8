package models

import "time"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// PaymentMethod identifies how an order is settled.
type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "cod"
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
)

// Valid reports whether the method is one the storefront accepts.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentCard || m == PaymentUPI
}

// PaymentStatus tracks settlement for an order.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// OrderItem is a snapshot of a cart line at order-creation time.
// It never tracks later catalog changes.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`    // unit price at the time of order
	Subtotal  float64 `json:"subtotal"` // Price * Quantity
}

// ShippingAddress is the delivery address snapshot stored on an order.
type ShippingAddress struct {
	FullName   string `json:"full_name" validate:"required,min=2,max=100"`
	Phone      string `json:"phone" validate:"required,min=7,max=20"`
	Street     string `json:"street" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,min=4,max=10"`
	Country    string `json:"country" validate:"required"`
}

// Order represents a customer order. The customer reference is either
// UserID (authenticated) or GuestSessionID plus GuestEmail, never both.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber     string          `json:"order_number" gorm:"uniqueIndex;type:varchar(20)"`
	UserID          string          `json:"user_id,omitempty" gorm:"index;type:varchar(36)"`
	GuestSessionID  string          `json:"guest_session_id,omitempty" gorm:"index;type:varchar(36)"`
	GuestEmail      string          `json:"guest_email,omitempty" gorm:"type:varchar(255)"`
	Items           []OrderItem     `json:"items" gorm:"serializer:json"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"serializer:json"`
	PaymentMethod   PaymentMethod   `json:"payment_method" gorm:"type:varchar(16)"`
	PaymentStatus   PaymentStatus   `json:"payment_status" gorm:"type:varchar(16)"`
	TransactionID   string          `json:"transaction_id,omitempty" gorm:"type:varchar(64)"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(16)"`
	Subtotal        float64         `json:"subtotal"`
	Shipping        float64         `json:"shipping"`
	Tax             float64         `json:"tax"`
	Discount        float64         `json:"discount"`
	GiftWrap        float64         `json:"gift_wrap"`
	Total           float64         `json:"total"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
