package repositories

import (
	"fmt"
	"log"
	"time"

	"storefront/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdminEmail and SeedAdminPassword are the credentials of the seeded admin.
const (
	SeedAdminEmail    = "admin@luxe.com"
	SeedAdminPassword = "admin"
)

// SeedProducts is the catalog written on first run.
var SeedProducts = []models.Product{
	{
		ID: 1, Name: "Sony WH-1000XM5 Wireless Noise Cancelling Headphones",
		Price: 348, OriginalPrice: 399, Rating: 4.8, Reviews: 1250,
		Image:       "https://images.unsplash.com/photo-1618366712010-f4ae9c647dcb?auto=format&fit=crop&w=500&q=80",
		Category:    "Electronics",
		Description: "Industry-leading noise cancellation optimized to you. Magnificent Sound, engineered to perfection.",
		Stock:       45, Sold: 200, IsNew: true,
	},
	{
		ID: 2, Name: "MacBook Air M2 13-inch 256GB",
		Price: 1099, OriginalPrice: 1199, Rating: 4.9, Reviews: 850,
		Image:       "https://images.unsplash.com/photo-1611186871348-b1ce696e52c9?auto=format&fit=crop&w=500&q=80",
		Category:    "Electronics",
		Description: "Supercharged by M2 chip. 13.6-inch Liquid Retina display. Up to 18 hours of battery life.",
		Stock:       20, Sold: 150,
	},
	{
		ID: 3, Name: "Premium Leather Weekend Bag",
		Price: 185, Rating: 4.6, Reviews: 120,
		Image:       "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?auto=format&fit=crop&w=500&q=80",
		Category:    "Fashion",
		Description: "Handcrafted from full-grain leather. Perfect for short trips and gym visits.",
		Stock:       15, Sold: 45,
	},
	{
		ID: 4, Name: "Smart Home Security Camera System",
		Price: 249, OriginalPrice: 299, Rating: 4.5, Reviews: 340,
		Image:       "https://images.unsplash.com/photo-1558002038-10914cba6b97?auto=format&fit=crop&w=500&q=80",
		Category:    "Home",
		Description: "2K Resolution, 365-day battery life, AI detection, and weather resistance.",
		Stock:       50, Sold: 120,
	},
	{
		ID: 5, Name: "Minimalist Automatic Watch",
		Price: 159, Rating: 4.7, Reviews: 89,
		Image:       "https://images.unsplash.com/photo-1524592094714-0f0654e20314?auto=format&fit=crop&w=500&q=80",
		Category:    "Accessories",
		Description: "Japanese automatic movement, sapphire crystal glass, genuine leather strap.",
		Stock:       30, Sold: 60,
	},
	{
		ID: 6, Name: "Organic Vitamin C Serum",
		Price: 35, Rating: 4.4, Reviews: 450,
		Image:       "https://images.unsplash.com/photo-1620916566398-39f1143ab7be?auto=format&fit=crop&w=500&q=80",
		Category:    "Beauty",
		Description: "Brightens skin tone and reduces signs of aging. 100% vegan and cruelty-free.",
		Stock:       100, Sold: 800,
	},
	{
		ID: 7, Name: "Ergonomic Office Chair",
		Price: 299, OriginalPrice: 450, Rating: 4.6, Reviews: 210,
		Image:       "https://images.unsplash.com/photo-1505843490538-5133c6c7d0e1?auto=format&fit=crop&w=500&q=80",
		Category:    "Home",
		Description: "Designed for all-day comfort with lumbar support and breathable mesh.",
		Stock:       10, Sold: 95,
	},
	{
		ID: 8, Name: "Running Shoes - Speed Pro",
		Price: 120, Rating: 4.8, Reviews: 560,
		Image:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff?auto=format&fit=crop&w=500&q=80",
		Category:    "Sports",
		Description: "Lightweight, responsive cushioning for your fastest runs yet.",
		Stock:       60, Sold: 300, IsNew: true,
	},
}

// Seed writes the default tables that are not present yet. Existing tables
// are never overwritten, so it is safe to call on every start.
func Seed(kv KVStore) error {
	now := time.Now()

	seeders := []struct {
		key   string
		value func() (interface{}, error)
	}{
		{KeyProducts, func() (interface{}, error) { return SeedProducts, nil }},
		{KeyUsers, func() (interface{}, error) {
			hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash admin password: %w", err)
			}
			admin := models.UserRecord{
				User: models.User{
					ID:       "admin-01",
					Name:     "System Admin",
					Email:    SeedAdminEmail,
					Role:     models.RoleAdmin,
					Avatar:   "https://ui-avatars.com/api/?name=Admin&background=0D8ABC&color=fff",
					JoinedAt: now,
				},
				PasswordHash: string(hash),
			}
			return []models.UserRecord{admin}, nil
		}},
		{KeyOrders, func() (interface{}, error) { return []models.Order{}, nil }},
		{KeyMessages, func() (interface{}, error) {
			return []models.Message{{
				ID:        "m1",
				SenderID:  "system",
				Text:      "Hello! Welcome to LuxeMarket support.",
				Timestamp: now.Add(-100 * time.Second),
				IsAdmin:   true,
			}}, nil
		}},
	}

	for _, s := range seeders {
		ok, err := kv.Has(s.key)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", s.key, err)
		}
		if ok {
			continue
		}
		v, err := s.value()
		if err != nil {
			return err
		}
		if err := setJSON(kv, s.key, v); err != nil {
			return err
		}
		log.Printf("Seeded %s", s.key)
	}
	return nil
}
