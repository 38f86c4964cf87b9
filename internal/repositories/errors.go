package repositories

import (
	"errors"
	"fmt"

	"sanitasi/internal/models"
)

// ErrNotFound is wrapped by lookups that match no user.
var ErrNotFound = errors.New("not found")

// DuplicateError reports a write rejected by a uniqueness constraint.
// Field is empty when the store could not tell which column collided.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	if e.Field == "" {
		return "user violates a uniqueness constraint"
	}
	return fmt.Sprintf("user with %s %q already exists", e.Field, e.Value)
}

// uniqueColumns are the user columns that must not repeat across users.
var uniqueColumns = []string{"username", "email", "id_transaksi"}

func uniqueValue(user *models.User, field string) string {
	switch field {
	case "username":
		return user.Username
	case "email":
		return user.Email
	case "id_transaksi":
		return user.IDTransaksi
	}
	return ""
}

func checkUniqueField(field string) error {
	for _, c := range uniqueColumns {
		if c == field {
			return nil
		}
	}
	return fmt.Errorf("field %q is not a unique user column", field)
}
