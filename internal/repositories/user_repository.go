package repositories

import "storefront/internal/models"

// UserRepository defines the interface for user data access.
// Only Create, GetByEmail and GetByID see password hashes; everything else
// deals in public users.
type UserRepository interface {
	Create(user *models.UserRecord) error
	GetByEmail(email string) (*models.UserRecord, error)
	GetByID(id string) (*models.UserRecord, error)
	GetAll() ([]models.User, error)
	Update(id string, patch models.UserPatch) (*models.User, error)
}
