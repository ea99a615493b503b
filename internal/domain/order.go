package domain

import "time"

// OrderStatus represents the fulfilment status of a store order
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

// Order представляет заказ магазина. Управление составом заказа живет во
// внешнем storefront; здесь заказ нужен только для сопоставления платежей.
type Order struct {
	ID            int64
	UserID        int64
	TotalAmount   float64
	Status        OrderStatus
	PaymentStatus PaymentStatus
	TransactionID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AwaitsPayment returns true if the order can still accept a payment callback
func (o *Order) AwaitsPayment() bool {
	return o.PaymentStatus == PaymentPending && o.Status == OrderPending
}
