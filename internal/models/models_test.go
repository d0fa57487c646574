package models_test

import (
	"encoding/json"
	"testing"

	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []models.OrderStatus{
		models.OrderPending, models.OrderProcessing, models.OrderShipped, models.OrderDelivered, models.OrderCancelled,
	} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, models.OrderStatus("pending").Valid())
	assert.False(t, models.OrderStatus("").Valid())
}

func TestProduct_OnSale(t *testing.T) {
	assert.True(t, models.Product{Price: 348, OriginalPrice: 399}.OnSale())
	assert.False(t, models.Product{Price: 348}.OnSale())
	assert.False(t, models.Product{Price: 348, OriginalPrice: 300}.OnSale())
}

func TestUserPatch_Apply(t *testing.T) {
	u := models.User{ID: "user-1", Name: "Jane", Email: "jane@example.com", Role: models.RoleUser}
	phone := "555-0100"
	name := "Jane Doe"

	got := models.UserPatch{Name: &name, Phone: &phone}.Apply(u)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "555-0100", got.Phone)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, models.RoleUser, got.Role)
	assert.Equal(t, "Jane", u.Name)

	assert.Equal(t, u, models.UserPatch{}.Apply(u))
}

func TestUser_JSONHasNoPassword(t *testing.T) {
	record := models.UserRecord{
		User:         models.User{ID: "user-1", Email: "jane@example.com"},
		PasswordHash: "$2a$10$secret",
	}
	body, err := json.Marshal(record.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), "secret")

	body, err = json.Marshal(models.AuthResponse{User: record.Public(), Token: "t"})
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
}

func TestCartItem_JSONFlattensProduct(t *testing.T) {
	item := models.CartItem{Product: models.Product{ID: 3, Name: "Bag", Price: 185}, Quantity: 2}
	body, err := json.Marshal(item)
	require.NoError(t, err)

	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &flat))
	assert.Equal(t, float64(3), flat["id"])
	assert.Equal(t, float64(2), flat["quantity"])
	assert.NotContains(t, flat, "original_price")
}
