package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry is one row of the kv_entries table.
type KVEntry struct {
	Key       string `gorm:"column:kv_key;primaryKey;type:varchar(64)"`
	Value     []byte
	UpdatedAt time.Time
}

// TableName pins the table name regardless of naming strategy.
func (KVEntry) TableName() string {
	return "kv_entries"
}

// GORMKVStore is a GORM implementation of KVStore. It works with any GORM
// dialect; the application uses SQLite and PostgreSQL.
type GORMKVStore struct {
	db *gorm.DB
}

// NewGORMKVStore creates a GORMKVStore and migrates its table.
func NewGORMKVStore(db *gorm.DB) (*GORMKVStore, error) {
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate kv_entries: %w", err)
	}
	return &GORMKVStore{
		db: db,
	}, nil
}

// Get retrieves the value stored at key.
func (s *GORMKVStore) Get(key string) ([]byte, error) {
	var entry KVEntry
	if err := s.db.First(&entry, "kv_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return entry.Value, nil
}

// Set inserts or replaces the value stored at key.
func (s *GORMKVStore) Set(key string, value []byte) error {
	entry := KVEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *GORMKVStore) Delete(key string) error {
	if err := s.db.Delete(&KVEntry{}, "kv_key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// Has reports whether key is present.
func (s *GORMKVStore) Has(key string) (bool, error) {
	var count int64
	if err := s.db.Model(&KVEntry{}).Where("kv_key = ?", key).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up key %s: %w", key, err)
	}
	return count > 0, nil
}
