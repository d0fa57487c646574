package repositories

import (
	"fmt"
	"strings"
	"sync"

	"storefront/internal/models"
)

// KVUserRepository stores user records as one JSON list. Writes are
// serialised so the email check and the write happen as one step; share one
// instance per KVStore.
type KVUserRepository struct {
	mu sync.Mutex
	kv KVStore
}

// NewKVUserRepository creates a new KVUserRepository.
func NewKVUserRepository(kv KVStore) *KVUserRepository {
	return &KVUserRepository{
		kv: kv,
	}
}

func (r *KVUserRepository) records() ([]models.UserRecord, error) {
	users, err := getList[models.UserRecord](r.kv, KeyUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// Create appends a user record. It fails with ErrEmailTaken if another
// record already has the email, compared case-insensitively.
func (r *KVUserRepository) Create(user *models.UserRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.records()
	if err != nil {
		return err
	}
	if emailTaken(users, user.Email, "") {
		return fmt.Errorf("user with email %s: %w", user.Email, ErrEmailTaken)
	}
	users = append(users, *user)
	if err := setJSON(r.kv, KeyUsers, users); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user record by email, compared case-insensitively.
func (r *KVUserRepository) GetByEmail(email string) (*models.UserRecord, error) {
	users, err := r.records()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
}

// GetByID retrieves a user record by ID.
func (r *KVUserRepository) GetByID(id string) (*models.UserRecord, error) {
	users, err := r.records()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
}

// GetAll returns every user without password hashes.
func (r *KVUserRepository) GetAll() ([]models.User, error) {
	users, err := r.records()
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

// Update merges patch into the stored user and returns the public result.
// Switching to an email held by another user fails with ErrEmailTaken.
func (r *KVUserRepository) Update(id string, patch models.UserPatch) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.records()
	if err != nil {
		return nil, err
	}
	if patch.Email != nil && emailTaken(users, *patch.Email, id) {
		return nil, fmt.Errorf("user with email %s: %w", *patch.Email, ErrEmailTaken)
	}
	for i := range users {
		if users[i].ID == id {
			users[i].User = patch.Apply(users[i].User)
			if err := setJSON(r.kv, KeyUsers, users); err != nil {
				return nil, fmt.Errorf("failed to update user: %w", err)
			}
			u := users[i].Public()
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with ID %s not found for update: %w", id, ErrNotFound)
}

func emailTaken(users []models.UserRecord, email, exceptID string) bool {
	for _, u := range users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
