// Package app is the composition root of the storefront: it builds the
// store, services and HTTP router on top of a key-value backend.
package app

import (
	"fmt"
	"log"
	"time"

	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/internal/store"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// App bundles the running storefront.
type App struct {
	Store    *store.Store
	Auth     *services.AuthService
	Products *services.ProductService
	Cart     *services.CartService
	Orders   *services.OrderService
	Chat     *services.ChatService
	Router   *fiber.App
}

// New seeds kv, initialises the store from it, restores any persisted
// session and wires the HTTP routes. publisher may be nil.
func New(kv repositories.KVStore, publisher services.EventPublisher, cfg config.Config) (*App, error) {
	if err := repositories.Seed(kv); err != nil {
		return nil, fmt.Errorf("failed to seed storage: %w", err)
	}

	repos := repositories.NewKVRepositories(kv)
	st := store.New(repos)

	a := &App{
		Store: st,
		Auth: services.NewAuthService(repos.Users, repos.Session, st, services.AuthConfig{
			JWTSecret: cfg.JWTSecret,
			TokenTTL:  cfg.TokenTTL,
			Latency:   cfg.AuthLatency,
		}),
		Products: services.NewProductService(st),
		Cart:     services.NewCartService(st),
		Orders:   services.NewOrderService(st, publisher, cfg.CheckoutLatency),
		Chat:     services.NewChatService(st, cfg.ChatReplyDelay),
	}

	if err := a.initialise(cfg.InitLatency); err != nil {
		return nil, err
	}
	a.Router = a.routes()
	return a, nil
}

// initialise waits out the simulated startup latency, loads the persisted
// snapshot and then restores the session.
func (a *App) initialise(latency time.Duration) error {
	if latency > 0 {
		time.Sleep(latency)
	}
	if err := a.Store.Dispatch(store.InitApp{}); err != nil {
		return fmt.Errorf("failed to initialise state: %w", err)
	}
	if err := a.Auth.RestoreSession(); err != nil {
		log.Printf("Failed to restore session: %v", err)
	}
	st := a.Store.State()
	log.Printf("Storefront ready: %d products, %d orders, %d cart lines",
		len(st.Products), len(st.Orders), len(st.Cart))
	return nil
}

func (a *App) routes() *fiber.App {
	router := fiber.New(fiber.Config{AppName: "storefront"})
	router.Use(recover.New())
	router.Use(fiberlogger.New())

	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	authHandler := handlers.NewAuthHandler(a.Auth)
	productHandler := handlers.NewProductHandler(a.Products)
	cartHandler := handlers.NewCartHandler(a.Cart)
	orderHandler := handlers.NewOrderHandler(a.Orders)
	chatHandler := handlers.NewChatHandler(a.Chat)

	apiV1 := router.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	chatHandler.RegisterRoutes(apiV1)

	// Admin routes
	admin := apiV1.Group("/admin", middleware.AuthRequired(a.Auth), middleware.RoleRequired(models.RoleAdmin))
	productHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)

	// Bearer-protected routes
	protected := apiV1.Group("", middleware.AuthRequired(a.Auth), middleware.SessionRequired(a.Auth))
	authHandler.RegisterProtectedRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	return router
}

// Close stops accepting requests and waits for scheduled chat replies.
func (a *App) Close() error {
	err := a.Router.Shutdown()
	a.Chat.Wait()
	return err
}
