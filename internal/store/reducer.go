package store

import "storefront/internal/models"

// Reduce returns the state that results from applying action to state.
// It is pure: state is never modified, and any collection that changes is
// rebuilt into a new slice. Actions on ids that do not exist are no-ops, and
// unknown action types return state unchanged.
func Reduce(state AppState, action Action) AppState {
	next := state

	switch a := action.(type) {
	case InitApp:
		next.Products = append([]models.Product{}, a.Products...)
		next.Orders = append([]models.Order{}, a.Orders...)
		next.Messages = append([]models.Message{}, a.Messages...)
		next.Cart = restoreCart(a.Cart, next.Products)
		next.IsLoading = false

	case SetLoading:
		next.IsLoading = a.Loading

	case LoginSuccess:
		if a.User.ID == "" {
			return state
		}
		u := a.User
		next.User = &u
		next.IsAuthenticated = true
		next.IsLoading = false

	case Logout:
		next.User = nil
		next.IsAuthenticated = false
		next.Cart = []models.CartItem{}

	case UpdateUser:
		if state.User == nil {
			return state
		}
		u := a.Patch.Apply(*state.User)
		next.User = &u

	case AddToCart:
		if _, ok := FindProduct(state.Products, a.Product.ID); !ok {
			return state
		}
		next.Cart = addToCart(state.Cart, a.Product)

	case RemoveFromCart:
		next.Cart = make([]models.CartItem, 0, len(state.Cart))
		for _, item := range state.Cart {
			if item.ID != a.ID {
				next.Cart = append(next.Cart, item)
			}
		}

	case UpdateQuantity:
		qty := a.Quantity
		if qty < 1 {
			qty = 1
		}
		next.Cart = make([]models.CartItem, len(state.Cart))
		for i, item := range state.Cart {
			if item.ID == a.ID {
				item.Quantity = qty
			}
			next.Cart[i] = item
		}

	case ClearCart:
		next.Cart = []models.CartItem{}

	case AddProduct:
		next.Products = append([]models.Product{a.Product}, state.Products...)

	case UpdateProduct:
		next.Products = make([]models.Product, len(state.Products))
		for i, p := range state.Products {
			if p.ID == a.Product.ID {
				p = a.Product
			}
			next.Products[i] = p
		}

	case DeleteProduct:
		next.Products = make([]models.Product, 0, len(state.Products))
		for _, p := range state.Products {
			if p.ID != a.ID {
				next.Products = append(next.Products, p)
			}
		}
		next.Cart = make([]models.CartItem, 0, len(state.Cart))
		for _, item := range state.Cart {
			if item.ID != a.ID {
				next.Cart = append(next.Cart, item)
			}
		}

	case UpdateOrderStatus:
		next.Orders = make([]models.Order, len(state.Orders))
		for i, o := range state.Orders {
			if o.ID == a.OrderID {
				o.Status = a.Status
			}
			next.Orders[i] = o
		}

	case PlaceOrder:
		order := a.Order
		order.Items = append([]models.CartItem{}, a.Order.Items...)
		next.Orders = append([]models.Order{order}, state.Orders...)
		next.Cart = []models.CartItem{}

	case SendMessage:
		next.Messages = append(append(make([]models.Message, 0, len(state.Messages)+1), state.Messages...), a.Message)

	default:
		return state
	}

	return next
}

func addToCart(cart []models.CartItem, p models.Product) []models.CartItem {
	out := make([]models.CartItem, 0, len(cart)+1)
	found := false
	for _, item := range cart {
		if item.ID == p.ID {
			item.Quantity++
			found = true
		}
		out = append(out, item)
	}
	if !found {
		out = append(out, models.CartItem{Product: p, Quantity: 1})
	}
	return out
}

// restoreCart keeps the persisted entries whose product still exists,
// merging duplicates and clamping quantities to at least 1.
func restoreCart(saved []models.CartItem, products []models.Product) []models.CartItem {
	out := make([]models.CartItem, 0, len(saved))
	index := make(map[int]int, len(saved))
	for _, item := range saved {
		if _, ok := FindProduct(products, item.ID); !ok {
			continue
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if i, dup := index[item.ID]; dup {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return out
}
