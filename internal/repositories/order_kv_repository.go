package repositories

import (
	"fmt"

	"storefront/internal/models"
)

// KVOrderRepository stores orders as one JSON list, most recent first.
type KVOrderRepository struct {
	kv KVStore
}

// NewKVOrderRepository creates a new KVOrderRepository.
func NewKVOrderRepository(kv KVStore) *KVOrderRepository {
	return &KVOrderRepository{
		kv: kv,
	}
}

// GetAll returns all orders, most recent first.
func (r *KVOrderRepository) GetAll() ([]models.Order, error) {
	orders, err := getList[models.Order](r.kv, KeyOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID returns an order by its ID.
func (r *KVOrderRepository) GetByID(id string) (*models.Order, error) {
	orders, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
}

// Create prepends a new order.
func (r *KVOrderRepository) Create(order *models.Order) error {
	orders, err := r.GetAll()
	if err != nil {
		return err
	}
	orders = append([]models.Order{*order}, orders...)
	return setJSON(r.kv, KeyOrders, orders)
}

// UpdateStatus updates the status of an order.
func (r *KVOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	orders, err := r.GetAll()
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].ID == id {
			orders[i].Status = status
			return setJSON(r.kv, KeyOrders, orders)
		}
	}
	return fmt.Errorf("order with ID %s not found for status update: %w", id, ErrNotFound)
}
