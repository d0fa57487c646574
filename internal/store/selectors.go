package store

import (
	"sort"
	"strings"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// TaxRate is the flat sales tax applied to the cart subtotal.
var TaxRate = decimal.RequireFromString("0.08")

// CategoryAll is the category sentinel that disables category filtering.
const CategoryAll = "All"

// LowStockThreshold marks products that need restocking on the dashboard.
const LowStockThreshold = 10

// SortKey orders a filtered product list.
type SortKey string

const (
	SortNewest    SortKey = "newest" // catalog order
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
)

// Totals are the derived amounts of a cart. They are never stored.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// CartTotals computes subtotal = Σ price × quantity, tax = subtotal × TaxRate,
// free shipping and total = subtotal + tax.
func CartTotals(cart []models.CartItem) Totals {
	subtotal := decimal.Zero
	count := 0
	for _, item := range cart {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
		count += item.Quantity
	}
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal:  subtotal,
		Tax:       tax,
		Shipping:  decimal.Zero,
		Total:     subtotal.Add(tax),
		ItemCount: count,
	}
}

// ProductFilter configures FilterProducts. MaxPrice <= 0 means no upper bound;
// an empty Category behaves like CategoryAll.
type ProductFilter struct {
	Category string  `query:"category"`
	MaxPrice float64 `query:"max_price"`
	Search   string  `query:"q"`
	Sort     SortKey `query:"sort"`
	OnSale   bool    `query:"on_sale"`
}

// FilterProducts returns a new slice with the products matching f, sorted by
// f.Sort. The input is not modified.
func FilterProducts(products []models.Product, f ProductFilter) []models.Product {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if f.Category != "" && f.Category != CategoryAll && p.Category != f.Category {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		if f.OnSale && !p.OnSale() {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	}
	return out
}

// Categories returns CategoryAll followed by each distinct category in the
// order it first appears in the catalog.
func Categories(products []models.Product) []string {
	out := []string{CategoryAll}
	seen := make(map[string]bool)
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// FeaturedProducts is the first four catalog entries.
func FeaturedProducts(products []models.Product) []models.Product {
	return window(products, 0, 4)
}

// FlashSaleProducts is the catalog window shown in the flash-sale strip.
func FlashSaleProducts(products []models.Product) []models.Product {
	return window(products, 5, 9)
}

func window(products []models.Product, from, to int) []models.Product {
	if from > len(products) {
		from = len(products)
	}
	if to > len(products) {
		to = len(products)
	}
	return append([]models.Product{}, products[from:to]...)
}

// FindProduct looks a product up by id.
func FindProduct(products []models.Product, id int) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// FindOrder looks an order up by id.
func FindOrder(orders []models.Order, id string) (models.Order, bool) {
	for _, o := range orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

// NextProductID is one more than the largest id in the catalog.
func NextProductID(products []models.Product) int {
	max := 0
	for _, p := range products {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

// OrdersForUser returns the orders owned by userID, most recent first.
func OrdersForUser(orders []models.Order, userID string) []models.Order {
	out := make([]models.Order, 0)
	for _, o := range orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

// Stats is the admin dashboard overview.
type Stats struct {
	TotalRevenue   decimal.Decimal            `json:"total_revenue"`
	TotalOrders    int                        `json:"total_orders"`
	TotalProducts  int                        `json:"total_products"`
	UnitsInStock   int                        `json:"units_in_stock"`
	OrdersByStatus map[models.OrderStatus]int `json:"orders_by_status"`
	LowStock       []models.Product           `json:"low_stock"`
}

// DashboardStats summarises orders and inventory for the admin dashboard.
func DashboardStats(s AppState) Stats {
	st := Stats{
		TotalRevenue:   decimal.Zero,
		TotalOrders:    len(s.Orders),
		TotalProducts:  len(s.Products),
		OrdersByStatus: make(map[models.OrderStatus]int),
		LowStock:       []models.Product{},
	}
	for _, o := range s.Orders {
		st.TotalRevenue = st.TotalRevenue.Add(decimal.NewFromFloat(o.Total))
		st.OrdersByStatus[o.Status]++
	}
	for _, p := range s.Products {
		st.UnitsInStock += p.Stock
		if p.Stock < LowStockThreshold {
			st.LowStock = append(st.LowStock, p)
		}
	}
	return st
}
