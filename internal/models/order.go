package models

import "time"

// OrderStatus is the shipping state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
)

var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusShipped:   1,
	OrderStatusDelivered: 2,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// CanAdvanceTo reports whether moving from s to next keeps the order moving forward
// (or leaves it where it is).
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	if !ok {
		return false
	}
	return to == from || to == from+1
}

// Order binds a drone to its buyer and seller.
type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	DroneID   uint        `gorm:"not null;index" json:"drone_id"`
	BuyerID   uint        `gorm:"not null;index" json:"buyer_id"`
	SellerID  uint        `gorm:"not null;index" json:"seller_id"`
	Status    OrderStatus `gorm:"size:20;not null;default:pending" json:"status"`
	Drone     *Drone      `gorm:"foreignKey:DroneID" json:"drone,omitempty"`
	Seller    *User       `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

// Payment records an amount paid by a user against an order.
type Payment struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	OrderID   uint          `gorm:"not null;index" json:"order_id"`
	UserID    uint          `gorm:"not null;index" json:"user_id"`
	Amount    float64       `gorm:"not null" json:"amount"`
	Status    PaymentStatus `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
