package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	kv, closeStorage, err := app.OpenStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.StorageDriver, err)
	}
	defer func() {
		if err := closeStorage(); err != nil {
			log.Printf("Error closing storage: %v", err)
		}
	}()

	// Order events are optional; the storefront runs without a broker.
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, order events disabled: %v", err)
		} else {
			publisher = mqClient
			if err := mqClient.ConsumeOrderEvents(services.HandleOrderEvent); err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}
	}

	storefront, err := app.New(kv, publisher, cfg)
	if err != nil {
		log.Fatalf("Failed to start storefront: %v", err)
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.AppPort)
		if err := storefront.Router.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	done := make(chan error, 1)
	go func() { done <- storefront.Close() }()
	select {
	case err := <-done:
		if err != nil {
			log.Printf("Error during Fiber shutdown: %v", err)
		}
	case <-time.After(cfg.ShutdownTimeout):
		log.Printf("Shutdown timed out after %s", cfg.ShutdownTimeout)
	}

	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			log.Printf("Error closing RabbitMQ client: %v", err)
		}
	}
	log.Println("Server gracefully stopped")
}
