package services

import (
	"fmt"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/store"

	"github.com/google/uuid"
)

// Checkout defaults, used when neither the request nor the profile has a value.
const (
	DefaultShippingAddress = "123 Test St"
	DefaultPaymentMethod   = "Credit Card"
)

// CheckoutRequest carries the optional shipping and payment details.
type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"omitempty,max=200"`
	PaymentMethod   string `json:"payment_method" validate:"omitempty,max=50"`
}

// OrderService handles checkout, order history and admin order management.
type OrderService struct {
	store     *store.Store
	publisher EventPublisher
	latency   time.Duration
}

// NewOrderService creates a new OrderService. publisher may be nil, in which
// case no events are published.
func NewOrderService(st *store.Store, publisher EventPublisher, latency time.Duration) *OrderService {
	return &OrderService{
		store:     st,
		publisher: publisher,
		latency:   latency,
	}
}

// Checkout turns the current cart into an order after the simulated payment
// latency. Once started, it always runs to completion.
func (s *OrderService) Checkout(req CheckoutRequest) (*models.Order, error) {
	if err := checkoutReady(s.store.State()); err != nil {
		return nil, err
	}

	res := <-simulate(s.latency, func() (models.Order, error) {
		var placed models.Order
		err := s.store.DispatchFunc(func(st store.AppState) (store.Action, error) {
			if err := checkoutReady(st); err != nil {
				return nil, err
			}
			placed = buildOrder(st, req, time.Now())
			return store.PlaceOrder{Order: placed}, nil
		})
		return placed, err
	})
	if res.err != nil {
		return nil, fmt.Errorf("failed to place order: %w", res.err)
	}

	publishOrderEvent(s.publisher, EventOrderPlaced, res.value)
	return &res.value, nil
}

func checkoutReady(st store.AppState) error {
	if !st.IsAuthenticated || st.User == nil {
		return ErrNotAuthenticated
	}
	if len(st.Cart) == 0 {
		return ErrEmptyCart
	}
	return nil
}

// buildOrder snapshots the cart into a new order. Items are copied, so later
// catalog or cart changes never reach the order.
func buildOrder(st store.AppState, req CheckoutRequest, now time.Time) models.Order {
	totals := store.CartTotals(st.Cart)

	address := strings.TrimSpace(req.ShippingAddress)
	if address == "" {
		address = st.User.Address
	}
	if address == "" {
		address = DefaultShippingAddress
	}
	payment := strings.TrimSpace(req.PaymentMethod)
	if payment == "" {
		payment = DefaultPaymentMethod
	}

	return models.Order{
		ID:              "ORD-" + strings.ToUpper(uuid.New().String()[:8]),
		UserID:          st.User.ID,
		Date:            now.Format("2006-01-02"),
		Total:           totals.Subtotal.Round(2).InexactFloat64(),
		Tax:             totals.Tax.Round(2).InexactFloat64(),
		Status:          models.OrderPending,
		Items:           append([]models.CartItem{}, st.Cart...),
		ShippingAddress: address,
		PaymentMethod:   payment,
	}
}

// MyOrders returns the logged-in user's orders, most recent first.
func (s *OrderService) MyOrders() ([]models.Order, error) {
	st := s.store.State()
	if !st.IsAuthenticated || st.User == nil {
		return nil, ErrNotAuthenticated
	}
	return store.OrdersForUser(st.Orders, st.User.ID), nil
}

// GetAllOrders retrieves all orders, most recent first.
func (s *OrderService) GetAllOrders() []models.Order {
	return s.store.State().Orders
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	o, ok := store.FindOrder(s.store.State().Orders, id)
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return &o, nil
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fieldError("status", fmt.Sprintf("invalid order status: %s", status))
	}

	var updated models.Order
	err := s.store.DispatchFunc(func(st store.AppState) (store.Action, error) {
		o, ok := store.FindOrder(st.Orders, id)
		if !ok {
			return nil, fmt.Errorf("order with ID %s not found for status update: %w", id, ErrNotFound)
		}
		o.Status = status
		updated = o
		return store.UpdateOrderStatus{OrderID: id, Status: status}, nil
	})
	if err != nil {
		return nil, err
	}

	publishOrderEvent(s.publisher, EventOrderStatusUpdated, updated)
	return &updated, nil
}

// Stats returns the admin dashboard overview.
func (s *OrderService) Stats() store.Stats {
	return store.DashboardStats(s.store.State())
}
