package repositories

import (
	"fmt"

	"storefront/internal/models"
)

// SessionRepository persists the single active session.
type SessionRepository interface {
	Get() (*models.Session, error)
	Save(session *models.Session) error
	Delete() error
}

// KVSessionRepository stores the session under a single key.
type KVSessionRepository struct {
	kv KVStore
}

// NewKVSessionRepository creates a new KVSessionRepository.
func NewKVSessionRepository(kv KVStore) *KVSessionRepository {
	return &KVSessionRepository{kv: kv}
}

// Get returns the persisted session or an error wrapping ErrKeyNotFound.
func (r *KVSessionRepository) Get() (*models.Session, error) {
	var s models.Session
	if err := getJSON(r.kv, KeySession, &s); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// Save overwrites the persisted session.
func (r *KVSessionRepository) Save(session *models.Session) error {
	return setJSON(r.kv, KeySession, session)
}

// Delete removes the persisted session.
func (r *KVSessionRepository) Delete() error {
	if err := r.kv.Delete(KeySession); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
