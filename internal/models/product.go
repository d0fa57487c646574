package models

// Product represents a catalog entry in the store.
// OriginalPrice, IsNew and Sold are optional; their zero values mean "not set".
type Product struct {
	ID            int     `json:"id"`
	Name          string  `json:"name" validate:"required,min=3,max=100"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	OriginalPrice float64 `json:"original_price,omitempty" validate:"omitempty,gt=0"`
	Rating        float64 `json:"rating" validate:"gte=0,lte=5"`
	Reviews       int     `json:"reviews" validate:"gte=0"`
	Image         string  `json:"image"`
	Category      string  `json:"category" validate:"required,max=50"`
	Description   string  `json:"description" validate:"omitempty,max=500"`
	IsNew         bool    `json:"is_new,omitempty"`
	Stock         int     `json:"stock" validate:"gte=0"`
	Sold          int     `json:"sold,omitempty" validate:"gte=0"`
}

// OnSale reports whether the product carries a struck-through original price.
func (p Product) OnSale() bool {
	return p.OriginalPrice > 0 && p.OriginalPrice > p.Price
}
