package repositories

import "sanitasi/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	// ExistsBy reports whether a user other than excludeID stores value in
	// the unique column field (username, email or id_transaksi).
	ExistsBy(field, value, excludeID string) (bool, error)
}
