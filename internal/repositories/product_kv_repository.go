package repositories

import (
	"fmt"

	"storefront/internal/models"
)

// KVProductRepository stores the catalog as one JSON list, newest first.
type KVProductRepository struct {
	kv KVStore
}

// NewKVProductRepository creates a new KVProductRepository.
func NewKVProductRepository(kv KVStore) *KVProductRepository {
	return &KVProductRepository{
		kv: kv,
	}
}

// GetAll returns the catalog in stored order.
func (r *KVProductRepository) GetAll() ([]models.Product, error) {
	products, err := getList[models.Product](r.kv, KeyProducts)
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID returns a product by its ID.
func (r *KVProductRepository) GetByID(id int) (*models.Product, error) {
	products, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
}

// Create prepends a product. The caller assigns the ID.
func (r *KVProductRepository) Create(product *models.Product) error {
	products, err := r.GetAll()
	if err != nil {
		return err
	}
	products = append([]models.Product{*product}, products...)
	return setJSON(r.kv, KeyProducts, products)
}

// Update replaces the product with the same ID.
func (r *KVProductRepository) Update(product *models.Product) error {
	products, err := r.GetAll()
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == product.ID {
			products[i] = *product
			return setJSON(r.kv, KeyProducts, products)
		}
	}
	return fmt.Errorf("product with ID %d not found for update: %w", product.ID, ErrNotFound)
}

// Delete removes a product by its ID.
func (r *KVProductRepository) Delete(id int) error {
	products, err := r.GetAll()
	if err != nil {
		return err
	}
	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return fmt.Errorf("product with ID %d not found for deletion: %w", id, ErrNotFound)
	}
	return setJSON(r.kv, KeyProducts, kept)
}
