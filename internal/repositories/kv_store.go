package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Keys of the persisted tables. Each table is a single JSON blob.
const (
	KeyProducts = "products"
	KeyUsers    = "users"
	KeyOrders   = "orders"
	KeyMessages = "messages"
	KeySession  = "session"
	KeyCart     = "cart"
)

var (
	// ErrKeyNotFound is returned by a KVStore when the key has never been set.
	ErrKeyNotFound = errors.New("key not found")
	// ErrNotFound is returned by the table repositories for a missing record.
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken is returned when a user write would give two accounts the
	// same email.
	ErrEmailTaken = errors.New("email already registered")
)

// KVStore is the key-value persistence boundary standing in for a backend.
// Values are opaque bytes; the table repositories store JSON in them.
type KVStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Has(key string) (bool, error)
}

// getJSON decodes the value at key into out.
func getJSON(kv KVStore, key string, out interface{}) error {
	data, err := kv.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// setJSON encodes v and stores it at key.
func setJSON(kv KVStore, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := kv.Set(key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// getList reads a JSON array table. A missing key reads as an empty table.
func getList[T any](kv KVStore, key string) ([]T, error) {
	var list []T
	if err := getJSON(kv, key, &list); err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return []T{}, nil
		}
		return nil, err
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}
