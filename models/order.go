package models

import (
	"time"
)

type OrderStatus string

// Order lifecycle: CREATED is the only non-terminal state. The transition to
// VERIFIED or FAILED happens exactly once; replayed verification callbacks
// are rejected against the stored status.
const (
	OrderCreated  OrderStatus = "CREATED"
	OrderVerified OrderStatus = "VERIFIED"
	OrderFailed   OrderStatus = "FAILED"
)

type Order struct {
	ID             string      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID         string      `json:"userId" gorm:"column:user_id;type:uuid;not null"`
	PlanID         string      `json:"planId" gorm:"column:plan_id;type:uuid;not null"`
	Amount         int         `json:"amount"`
	Currency       string      `json:"currency" gorm:"type:varchar(5)"`
	GatewayOrderID string      `json:"gatewayOrderId" gorm:"column:gateway_order_id;uniqueIndex"`
	PaymentID      string      `json:"paymentId" gorm:"column:payment_id"`
	IdempotencyKey string      `json:"-" gorm:"column:idempotency_key;index"`
	Status         OrderStatus `json:"status" gorm:"type:varchar(10);default:'CREATED'"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

type OrderCreate struct {
	PlanType       string `json:"plan_type" binding:"required"`
	IdempotencyKey string `json:"idempotency_key"`
}

type PaymentVerify struct {
	PaymentID string `json:"payment_id" binding:"required"`
	OrderID   string `json:"order_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

func (Order) TableName() string {
	return "orders"
}
