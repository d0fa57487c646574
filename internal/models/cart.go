package models

// CartItem is a product line in the cart. Quantity is always at least 1.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

