package app_test

import (
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig() config.Config {
	return config.Config{
		StorageDriver: config.DriverMemory,
		JWTSecret:     "test_jwt_secret",
	}
}

func TestNew_ServesHealthAndSeededCatalog(t *testing.T) {
	storefront, err := app.New(repositories.NewMemoryKVStore(), nil, testConfig())
	require.NoError(t, err)

	st := storefront.Store.State()
	assert.False(t, st.IsLoading)
	assert.False(t, st.IsAuthenticated)
	assert.Len(t, st.Products, len(repositories.SeedProducts))
	assert.Len(t, st.Messages, 1)
	assert.Empty(t, st.Orders)

	resp, err := storefront.Router.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"status":"healthy"`)

	resp, err = storefront.Router.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNew_RestoresSessionAndCartAfterRestart(t *testing.T) {
	kv := repositories.NewMemoryKVStore()

	first, err := app.New(kv, nil, testConfig())
	require.NoError(t, err)
	res, err := first.Auth.Register(services.RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	require.NoError(t, first.Cart.AddItem(3, 2))

	second, err := app.New(kv, nil, testConfig())
	require.NoError(t, err)

	st := second.Store.State()
	assert.True(t, st.IsAuthenticated)
	if assert.NotNil(t, st.User) {
		assert.Equal(t, res.User.ID, st.User.ID)
	}
	if assert.Len(t, st.Cart, 1) {
		assert.Equal(t, 3, st.Cart[0].ID)
		assert.Equal(t, 2, st.Cart[0].Quantity)
	}
}

func TestNew_DiscardsSessionSignedWithOtherSecret(t *testing.T) {
	kv := repositories.NewMemoryKVStore()

	first, err := app.New(kv, nil, testConfig())
	require.NoError(t, err)
	_, err = first.Auth.Login(repositories.SeedAdminEmail, repositories.SeedAdminPassword)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.JWTSecret = "rotated"
	second, err := app.New(kv, nil, cfg)
	require.NoError(t, err)

	assert.False(t, second.Store.State().IsAuthenticated)
	ok, err := kv.Has(repositories.KeySession)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckout_PublishesOrderPlaced(t *testing.T) {
	publisher := new(MockPublisher)
	publisher.On("Publish", services.EventOrderPlaced, mock.Anything).Return(nil).Once()
	publisher.On("Publish", services.EventOrderStatusUpdated, mock.Anything).Return(errors.New("broker down")).Once()

	storefront, err := app.New(repositories.NewMemoryKVStore(), publisher, testConfig())
	require.NoError(t, err)
	_, err = storefront.Auth.Login(repositories.SeedAdminEmail, repositories.SeedAdminPassword)
	require.NoError(t, err)
	require.NoError(t, storefront.Cart.AddItem(1, 1))

	order, err := storefront.Orders.Checkout(services.CheckoutRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)

	// A failing broker never fails the operation.
	updated, err := storefront.Orders.UpdateOrderStatus(order.ID, models.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, updated.Status)

	publisher.AssertExpectations(t)
}

func TestOpenStorage(t *testing.T) {
	cfg := testConfig()
	kv, closeFn, err := app.OpenStorage(cfg)
	require.NoError(t, err)
	assert.IsType(t, &repositories.MemoryKVStore{}, kv)
	assert.NoError(t, closeFn())

	cfg.StorageDriver = config.DriverSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "storefront.db")
	kv, closeFn, err = app.OpenStorage(cfg)
	require.NoError(t, err)
	require.NoError(t, kv.Set(repositories.KeyCart, []byte("[]")))
	got, err := kv.Get(repositories.KeyCart)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
	assert.NoError(t, closeFn())

	cfg.StorageDriver = "cassandra"
	_, _, err = app.OpenStorage(cfg)
	assert.Error(t, err)
}
