package services

import (
	"fmt"

	"storefront/internal/models"
	"storefront/internal/store"
)

// CartSummary is the cart together with its derived totals.
type CartSummary struct {
	Items  []models.CartItem `json:"items"`
	Totals store.Totals      `json:"totals"`
}

// MaxLineQuantity caps the units of one product a cart line may hold.
const MaxLineQuantity = 99

// CartService handles the shopping cart. Guests may use it too.
type CartService struct {
	store *store.Store
}

// NewCartService creates a new CartService.
func NewCartService(st *store.Store) *CartService {
	return &CartService{store: st}
}

// Summary returns the cart and its totals.
func (s *CartService) Summary() CartSummary {
	cart := s.store.State().Cart
	return CartSummary{
		Items:  cart,
		Totals: store.CartTotals(cart),
	}
}

// AddItem adds quantity units of a catalog product, one ADD_TO_CART per unit,
// and persists the cart once. The resulting line may not exceed
// MaxLineQuantity.
func (s *CartService) AddItem(productID, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	if quantity > MaxLineQuantity {
		return quantityError()
	}
	return s.store.DispatchBatch(func(st store.AppState) ([]store.Action, error) {
		product, ok := store.FindProduct(st.Products, productID)
		if !ok {
			return nil, fmt.Errorf("product with ID %d: %w", productID, ErrNotFound)
		}
		if lineQuantity(st.Cart, productID)+quantity > MaxLineQuantity {
			return nil, quantityError()
		}
		actions := make([]store.Action, quantity)
		for i := range actions {
			actions[i] = store.AddToCart{Product: product}
		}
		return actions, nil
	})
}

// SetQuantity sets the quantity of a cart line; values below 1 become 1.
func (s *CartService) SetQuantity(productID, quantity int) error {
	if quantity > MaxLineQuantity {
		return quantityError()
	}
	return s.store.DispatchFunc(func(st store.AppState) (store.Action, error) {
		if !inCart(st.Cart, productID) {
			return nil, fmt.Errorf("product %d is not in the cart: %w", productID, ErrNotFound)
		}
		return store.UpdateQuantity{ID: productID, Quantity: quantity}, nil
	})
}

// RemoveItem drops a cart line.
func (s *CartService) RemoveItem(productID int) error {
	return s.store.DispatchFunc(func(st store.AppState) (store.Action, error) {
		if !inCart(st.Cart, productID) {
			return nil, fmt.Errorf("product %d is not in the cart: %w", productID, ErrNotFound)
		}
		return store.RemoveFromCart{ID: productID}, nil
	})
}

// Clear empties the cart.
func (s *CartService) Clear() error {
	return s.store.Dispatch(store.ClearCart{})
}

func inCart(cart []models.CartItem, id int) bool {
	for _, item := range cart {
		if item.ID == id {
			return true
		}
	}
	return false
}

func lineQuantity(cart []models.CartItem, id int) int {
	for _, item := range cart {
		if item.ID == id {
			return item.Quantity
		}
	}
	return 0
}

func quantityError() *ValidationError {
	return fieldError("quantity", fmt.Sprintf("Quantity per product cannot exceed %d", MaxLineQuantity))
}
