package repositories

import (
	"errors"
	"fmt"

	"sanitasi/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
// The *gorm.DB is expected to be opened with TranslateError enabled so
// constraint violations surface as gorm.ErrDuplicatedKey.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user. Uniqueness is re-checked inside the insert
// transaction; a violation that still slips through is reported by the
// unique indexes and mapped to a DuplicateError.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := findDuplicate(tx, user); err != nil {
			return err
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return r.translate("create", user, err)
	}
	return nil
}

// Update saves every column of an existing user.
func (r *GORMUserRepository) Update(user *models.User) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := findDuplicate(tx, user); err != nil {
			return err
		}
		res := tx.Model(&models.User{}).Where("id = ?", user.ID).Select("*").Omit("created_at").Updates(user)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user with ID %s %w", user.ID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return r.translate("update", user, err)
	}
	return nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.first("username", username)
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.first("email", email)
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	return r.first("id", id)
}

// ExistsBy reports whether another user already stores value in field.
func (r *GORMUserRepository) ExistsBy(field, value, excludeID string) (bool, error) {
	if err := checkUniqueField(field); err != nil {
		return false, err
	}
	n, err := countOthers(r.db, field, value, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check user %s: %w", field, err)
	}
	return n > 0, nil
}

func (r *GORMUserRepository) first(column, value string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, column+" = ?", value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with %s %s %w", column, value, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by %s %s: %w", column, value, err)
	}
	return &user, nil
}

// translate maps a constraint violation raised by the database to the
// column that collided, looking the conflicting row up after the fact.
func (r *GORMUserRepository) translate(op string, user *models.User, err error) error {
	var dup *DuplicateError
	if errors.As(err, &dup) || errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if found := findDuplicate(r.db, user); found != nil && errors.As(found, &dup) {
			return dup
		}
		return &DuplicateError{}
	}
	return fmt.Errorf("failed to %s user: %w", op, err)
}

// findDuplicate returns a DuplicateError for the first unique column of
// user already used by another row.
func findDuplicate(db *gorm.DB, user *models.User) error {
	for _, field := range uniqueColumns {
		value := uniqueValue(user, field)
		n, err := countOthers(db, field, value, user.ID)
		if err != nil {
			return fmt.Errorf("failed to check user %s: %w", field, err)
		}
		if n > 0 {
			return &DuplicateError{Field: field, Value: value}
		}
	}
	return nil
}

func countOthers(db *gorm.DB, field, value, excludeID string) (int64, error) {
	var n int64
	q := db.Model(&models.User{}).Where(field+" = ?", value)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n, err
}
