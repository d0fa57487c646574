package services

import (
	"fmt"

	"storefront/internal/models"
	"storefront/internal/store"

	"github.com/go-playground/validator/v10"
)

// PlaceholderImage is used for admin-created products without an image.
const PlaceholderImage = "https://picsum.photos/400/400"

// ProductService handles catalog browsing and admin catalog edits.
// Admin gating happens in the HTTP layer.
type ProductService struct {
	store    *store.Store
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(st *store.Store) *ProductService {
	return &ProductService{
		store:    st,
		validate: newValidator(),
	}
}

// ListProducts returns the catalog filtered and sorted by f.
func (s *ProductService) ListProducts(f store.ProductFilter) []models.Product {
	return store.FilterProducts(s.store.State().Products, f)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id int) (*models.Product, error) {
	p, ok := store.FindProduct(s.store.State().Products, id)
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	return &p, nil
}

// Categories lists "All" followed by the catalog's categories.
func (s *ProductService) Categories() []string {
	return store.Categories(s.store.State().Products)
}

// Showcase is the home page product selection.
type Showcase struct {
	Featured  []models.Product `json:"featured"`
	FlashSale []models.Product `json:"flash_sale"`
}

// Showcase returns the featured and flash-sale products.
func (s *ProductService) Showcase() Showcase {
	products := s.store.State().Products
	return Showcase{
		Featured:  store.FeaturedProducts(products),
		FlashSale: store.FlashSaleProducts(products),
	}
}

// CreateProduct assigns the next ID, fills defaults and adds the product to
// the front of the catalog.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if product.Image == "" {
		product.Image = PlaceholderImage
	}
	product.Rating = 0
	product.Reviews = 0
	product.Sold = 0
	if err := s.validateProduct(product); err != nil {
		return err
	}
	return s.store.DispatchFunc(func(st store.AppState) (store.Action, error) {
		product.ID = store.NextProductID(st.Products)
		return store.AddProduct{Product: *product}, nil
	})
}

// UpdateProduct replaces an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := s.validateProduct(product); err != nil {
		return err
	}
	return s.store.DispatchFunc(func(st store.AppState) (store.Action, error) {
		if _, ok := store.FindProduct(st.Products, product.ID); !ok {
			return nil, fmt.Errorf("product with ID %d not found for update: %w", product.ID, ErrNotFound)
		}
		return store.UpdateProduct{Product: *product}, nil
	})
}

// DeleteProduct deletes a product by its ID. It is also dropped from the cart.
func (s *ProductService) DeleteProduct(id int) error {
	return s.store.DispatchFunc(func(st store.AppState) (store.Action, error) {
		if _, ok := store.FindProduct(st.Products, id); !ok {
			return nil, fmt.Errorf("product with ID %d not found for deletion: %w", id, ErrNotFound)
		}
		return store.DeleteProduct{ID: id}, nil
	})
}

func (s *ProductService) validateProduct(p *models.Product) error {
	if err := validateStruct(s.validate, p); err != nil {
		return err
	}
	if p.OriginalPrice != 0 && p.OriginalPrice <= p.Price {
		return fieldError("original_price", "Original price must be greater than price")
	}
	return nil
}
