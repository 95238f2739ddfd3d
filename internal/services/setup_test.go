package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/todoflow/todoflow-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Todo{},
		&models.AuditLog{},
	)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "hashed",
		Role:     "user",
	}
	require.NoError(t, db.Create(&user).Error, "failed to create test user")
	return &user
}

// createTestTodos inserts n todos with strictly increasing creation
// timestamps so listing order is unambiguous in assertions.
func createTestTodos(t *testing.T, db *gorm.DB, userID uuid.UUID, n int) []models.Todo {
	t.Helper()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	todos := make([]models.Todo, n)
	for i := 0; i < n; i++ {
		todos[i] = models.Todo{
			ID:        uuid.New(),
			UserID:    userID,
			Title:     fmt.Sprintf("todo %03d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, db.Create(&todos[i]).Error, "failed to create test todo")
	}
	return todos
}

func createTestTodo(t *testing.T, db *gorm.DB, userID uuid.UUID, title string) *models.Todo {
	t.Helper()

	todo := models.Todo{
		ID:     uuid.New(),
		UserID: userID,
		Title:  title,
	}
	require.NoError(t, db.Create(&todo).Error, "failed to create test todo")
	return &todo
}
