package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"storefront/internal/models"
)

// Routing keys of the order events.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusUpdated = "order.status_updated"
)

// EventPublisher delivers order events to a broker. pkg/rabbitmq.Client
// satisfies it.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// OrderEvent is the body of every published order event.
type OrderEvent struct {
	Event      string             `json:"event"`
	OrderID    string             `json:"order_id"`
	UserID     string             `json:"user_id"`
	Status     models.OrderStatus `json:"status"`
	Total      float64            `json:"total"`
	AmountDue  float64            `json:"amount_due"`
	ItemCount  int                `json:"item_count"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// publishOrderEvent is best effort: failures are logged, never returned.
func publishOrderEvent(p EventPublisher, event string, order models.Order) {
	if p == nil {
		log.Println("Event publisher is not configured. Skipping message publication.")
		return
	}

	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	body, err := json.Marshal(OrderEvent{
		Event:      event,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		Total:      order.Total,
		AmountDue:  order.AmountDue(),
		ItemCount:  count,
		OccurredAt: time.Now(),
	})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	if err := p.Publish(event, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", event, order.ID, err)
		return
	}
	log.Printf("Successfully published %s event for order %s", event, order.ID)
}

// HandleOrderEvent decodes an order event delivered by the broker and logs
// it. Malformed bodies are rejected so the consumer can dead-letter them.
func HandleOrderEvent(routingKey string, body []byte) error {
	var evt OrderEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return fmt.Errorf("failed to decode %s event: %w", routingKey, err)
	}
	if evt.OrderID == "" {
		return fmt.Errorf("%s event without order id", routingKey)
	}
	log.Printf("Order event %s: order %s is %s (%d items, total %.2f)",
		routingKey, evt.OrderID, evt.Status, evt.ItemCount, evt.Total)
	return nil
}
