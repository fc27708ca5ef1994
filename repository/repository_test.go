package repository

import (
	"testing"

	"github.com/Diome1804/projet-todo/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Task{},
		&models.TaskPermission{},
		&models.ActionLog{},
	))
	return db
}

// seedUser inserts a user and returns its id.
func seedUser(t *testing.T, db *gorm.DB, email, name string) uint {
	t.Helper()
	u := models.User{Email: email, Password: "x", Name: name, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

// seedTask inserts a task owned by userID and returns it.
func seedTask(t *testing.T, db *gorm.DB, userID uint, name string, completed bool) models.Task {
	t.Helper()
	task := models.Task{Name: name, Description: name + " details", Completed: completed, UserID: userID}
	require.NoError(t, db.Create(&task).Error)
	return task
}

func boolPtr(b bool) *bool { return &b }
