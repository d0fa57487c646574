package repositories

import (
	"fmt"

	"storefront/internal/models"
)

// CartRepository persists the client's cart between restarts.
type CartRepository interface {
	Get() ([]models.CartItem, error)
	Save(items []models.CartItem) error
}

// KVCartRepository stores the cart under a single key.
type KVCartRepository struct {
	kv KVStore
}

// NewKVCartRepository creates a new KVCartRepository.
func NewKVCartRepository(kv KVStore) *KVCartRepository {
	return &KVCartRepository{kv: kv}
}

// Get returns the persisted cart, empty when none was saved.
func (r *KVCartRepository) Get() ([]models.CartItem, error) {
	items, err := getList[models.CartItem](r.kv, KeyCart)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return items, nil
}

// Save overwrites the persisted cart.
func (r *KVCartRepository) Save(items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	return setJSON(r.kv, KeyCart, items)
}
