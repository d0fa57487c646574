package models

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order represents a placed order. Items are snapshots of the cart taken at
// checkout and are never recomputed from the live catalog.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Date            string      `json:"date"`  // YYYY-MM-DD
	Total           float64     `json:"total"` // sum of price * quantity at checkout
	Tax             float64     `json:"tax"`
	Status          OrderStatus `json:"status"`
	Items           []CartItem  `json:"items"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method,omitempty"`
}

// AmountDue is what the customer was charged: total plus tax.
func (o Order) AmountDue() float64 {
	return o.Total + o.Tax
}
