// Package store holds the storefront's application state, the closed set of
// actions that change it, the pure reducer defining every transition and the
// selectors derived from it.
package store

import "storefront/internal/models"

// AppState is the whole client-side state of the storefront.
//
// Invariants: every cart item id is a product id in Products, and
// IsAuthenticated implies User != nil.
type AppState struct {
	Cart            []models.CartItem `json:"cart"`
	User            *models.User      `json:"user"`
	IsAuthenticated bool              `json:"is_authenticated"`
	Products        []models.Product  `json:"products"`
	Orders          []models.Order    `json:"orders"`
	Messages        []models.Message  `json:"messages"`
	IsLoading       bool              `json:"is_loading"`
}

// InitialState is the state before INIT_APP has loaded anything.
func InitialState() AppState {
	return AppState{
		Cart:      []models.CartItem{},
		Products:  []models.Product{},
		Orders:    []models.Order{},
		Messages:  []models.Message{},
		IsLoading: true,
	}
}

// Clone returns a deep copy of s. Order items are copied too, so the clone
// shares no backing arrays with s.
func (s AppState) Clone() AppState {
	out := s
	out.Cart = append([]models.CartItem{}, s.Cart...)
	out.Products = append([]models.Product{}, s.Products...)
	out.Messages = append([]models.Message{}, s.Messages...)
	out.Orders = make([]models.Order, len(s.Orders))
	for i, o := range s.Orders {
		o.Items = append([]models.CartItem{}, o.Items...)
		out.Orders[i] = o
	}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}
