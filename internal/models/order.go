package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. An order is created PENDING, moves to PROCESSING once an
// online payment is verified (COD orders stay PENDING until fulfilment),
// and can be cancelled from PENDING or PROCESSING only. CANCELLED and
// DELIVERED are terminal.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusCancelled  = "CANCELLED"
	OrderStatusDelivered  = "DELIVERED"
)

// Payment methods accepted at checkout.
const (
	PaymentMethodCOD    = "COD"
	PaymentMethodOnline = "ONLINE"
)

// OrderItem is a single line of an order. Price is the unit price captured
// from the catalog when the order was placed; later catalog price changes
// never affect it.
type OrderItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     string          `json:"-" gorm:"type:varchar(36);index"`
	ProductID   string          `json:"product_id" gorm:"type:varchar(36)"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
}

// Cost returns the line total for this item.
func (i OrderItem) Cost() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a customer order. TotalPrice is computed server-side
// from the item snapshots and is never taken from client input.
// RazorpayOrderID is set only when an ONLINE order's remote payment intent
// was created successfully; PaymentID only after signature verification.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"user_id" gorm:"type:varchar(36);index"`
	Items           []OrderItem     `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	TotalPrice      decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2)"`
	Status          string          `json:"status" gorm:"type:varchar(20);index"`
	ShippingAddress string          `json:"shipping_address"`
	PaymentID       string          `json:"payment_id,omitempty" gorm:"type:varchar(64)"`
	RazorpayOrderID string          `json:"razorpay_order_id,omitempty" gorm:"type:varchar(64);index"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Cancellable reports whether the order may still be cancelled.
func (o *Order) Cancellable() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}

// PaymentMethod is derived: an order carries a payment id (or a pending
// remote order id) only when paid online.
func (o *Order) PaymentMethod() string {
	if o.PaymentID != "" || o.RazorpayOrderID != "" {
		return PaymentMethodOnline
	}
	return PaymentMethodCOD
}
