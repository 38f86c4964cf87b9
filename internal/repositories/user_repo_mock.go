package repositories

import (
	"fmt"
	"sync"
	"time"

	"sanitasi/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
// Uniqueness is checked and the write applied under the same lock.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.duplicateLocked(user); err != nil {
		return err
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

// Update replaces an existing user.
func (r *MockUserRepository) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("user with ID %s %w", user.ID, ErrNotFound)
	}
	if err := r.duplicateLocked(user); err != nil {
		return err
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

// GetByUsername returns a user by username.
func (r *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.find("username", username)
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.find("email", email)
}

// GetByID returns a user by its ID.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s %w", id, ErrNotFound)
	}
	return &user, nil
}

// ExistsBy reports whether another user already stores value in field.
func (r *MockUserRepository) ExistsBy(field, value, excludeID string) (bool, error) {
	if err := checkUniqueField(field); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, u := range r.users {
		if id != excludeID && uniqueValue(&u, field) == value {
			return true, nil
		}
	}
	return false, nil
}

func (r *MockUserRepository) find(field, value string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if uniqueValue(&u, field) == value {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with %s %s %w", field, value, ErrNotFound)
}

func (r *MockUserRepository) duplicateLocked(user *models.User) error {
	for _, field := range uniqueColumns {
		value := uniqueValue(user, field)
		for id, u := range r.users {
			if id != user.ID && uniqueValue(&u, field) == value {
				return &DuplicateError{Field: field, Value: value}
			}
		}
	}
	return nil
}
