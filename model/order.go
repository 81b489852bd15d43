package model

import "time"

type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderApproved OrderStatus = "approved"
	OrderCanceled OrderStatus = "canceled"
	// Reachable by the payment/returns collaborator, never set here.
	OrderReturned OrderStatus = "returned"
	OrderPaid     OrderStatus = "paid"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
	PaymentFailed PaymentStatus = "failed"
)

type Order struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"user_id"`
	BookID        int64         `json:"book_id"`
	Quantity      int           `json:"quantity"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod *string       `json:"payment_method,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
}
