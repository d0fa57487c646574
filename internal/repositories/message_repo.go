package repositories

import (
	"fmt"

	"storefront/internal/models"
)

// MessageRepository defines the interface for chat message access.
// Messages are append-only.
type MessageRepository interface {
	GetAll() ([]models.Message, error)
	Append(message *models.Message) error
}

// KVMessageRepository stores messages as one JSON list in send order.
type KVMessageRepository struct {
	kv KVStore
}

// NewKVMessageRepository creates a new KVMessageRepository.
func NewKVMessageRepository(kv KVStore) *KVMessageRepository {
	return &KVMessageRepository{kv: kv}
}

// GetAll returns all messages in send order.
func (r *KVMessageRepository) GetAll() ([]models.Message, error) {
	msgs, err := getList[models.Message](r.kv, KeyMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return msgs, nil
}

// Append adds a message at the end.
func (r *KVMessageRepository) Append(message *models.Message) error {
	msgs, err := r.GetAll()
	if err != nil {
		return err
	}
	return setJSON(r.kv, KeyMessages, append(msgs, *message))
}
