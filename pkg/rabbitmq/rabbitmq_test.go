package rabbitmq_test

import (
	"os"
	"testing"
	"time"

	"storefront/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient connects to RABBITMQ_URL and skips the test when it is unset.
func newTestClient(t *testing.T) *rabbitmq.Client {
	t.Helper()
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		t.Skip("RABBITMQ_URL not set")
	}
	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: url, Exchange: "storefront.orders.test"})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := rabbitmq.NewClient(rabbitmq.Config{URL: "amqp://127.0.0.1:1/"})
	assert.Error(t, err)
}

func TestClient_PublishAndConsume(t *testing.T) {
	client := newTestClient(t)

	received := make(chan string, 1)
	require.NoError(t, client.ConsumeOrderEvents(func(routingKey string, body []byte) error {
		select {
		case received <- routingKey + " " + string(body):
		default:
		}
		return nil
	}))

	require.NoError(t, client.Publish("order.placed", []byte(`{"order_id":"ORD-1"}`)))

	select {
	case got := <-received:
		assert.Equal(t, `order.placed {"order_id":"ORD-1"}`, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no order event received")
	}
}
