package database_test

import (
	"fmt"
	"testing"

	"sanitasi/internal/config"
	"sanitasi/internal/database"
	"sanitasi/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteMigratesUsers(t *testing.T) {
	db, err := database.Open(config.Config{
		DatabaseDriver: "sqlite",
		DatabaseDSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)

	assert.NoError(t, database.Ping(db))
	assert.True(t, db.Migrator().HasTable(&models.User{}))
	for _, column := range []string{"username", "email", "id_transaksi"} {
		assert.True(t, db.Migrator().HasColumn(&models.User{}, column), column)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open(config.Config{DatabaseDriver: "mysql", DatabaseDSN: "x"})
	assert.EqualError(t, err, `unsupported database driver "mysql"`)
}
