package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todoflow/todoflow-backend/internal/models"
	"gorm.io/gorm"
)

func newAdminService(db *gorm.DB) *AdminService {
	return NewAdminService(db, NewTodoService(db, NewSubscriptionService(db)))
}

func auditCount(t *testing.T, db *gorm.DB, action string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("action = ?", action).Count(&count).Error)
	return count
}

func TestAdminService_FindUserByEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminService(db)
	createTestUser(t, db, "alice@example.com")

	t.Run("exact match", func(t *testing.T) {
		user, err := svc.FindUserByEmail("alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("miss is not found, not an empty user", func(t *testing.T) {
		user, err := svc.FindUserByEmail("nobody@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Nil(t, user)
	})
}

func TestAdminService_ListTodosForUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminService(db)
	user := createTestUser(t, db, "alice@example.com")
	createTestTodos(t, db, user.ID, 12)

	todos, totalPages, currentPage, err := svc.ListTodosForUser(user.ID, 2)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
	assert.Equal(t, 2, totalPages)
	assert.Equal(t, 2, currentPage)
}

func TestAdminService_SetSubscription(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminService(db)
	admin := createTestUser(t, db, "admin@example.com")
	user := createTestUser(t, db, "alice@example.com")

	t.Run("activating computes a one-month end date", func(t *testing.T) {
		updated, err := svc.SetSubscription(admin.ID, user.ID, true)
		require.NoError(t, err)
		assert.True(t, updated.IsSubscribed)
		require.NotNil(t, updated.SubscriptionEnds)
		assert.WithinDuration(t, addCalendarMonth(time.Now()), *updated.SubscriptionEnds, 5*time.Second)
		assert.EqualValues(t, 1, auditCount(t, db, "subscription.set"))
	})

	t.Run("deactivating clears the end date", func(t *testing.T) {
		updated, err := svc.SetSubscription(admin.ID, user.ID, false)
		require.NoError(t, err)
		assert.False(t, updated.IsSubscribed)
		assert.Nil(t, updated.SubscriptionEnds)

		var stored models.User
		require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
		assert.Nil(t, stored.SubscriptionEnds)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.SetSubscription(admin.ID, uuid.New(), true)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAdminService_SetTodoCompletion(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminService(db)
	admin := createTestUser(t, db, "admin@example.com")
	user := createTestUser(t, db, "alice@example.com")
	todo := createTestTodo(t, db, user.ID, "Buy milk")

	t.Run("succeeds regardless of owner", func(t *testing.T) {
		updated, err := svc.SetTodoCompletion(admin.ID, todo.ID, true)
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, user.ID, updated.UserID)
		assert.EqualValues(t, 1, auditCount(t, db, "todo.set_completion"))
	})

	t.Run("unknown todo", func(t *testing.T) {
		_, err := svc.SetTodoCompletion(admin.ID, uuid.New(), true)
		assert.ErrorIs(t, err, ErrTodoNotFound)
	})
}

func TestAdminService_DeleteTodo(t *testing.T) {
	db := setupTestDB(t)
	svc := newAdminService(db)
	admin := createTestUser(t, db, "admin@example.com")
	user := createTestUser(t, db, "alice@example.com")

	t.Run("succeeds regardless of owner", func(t *testing.T) {
		todo := createTestTodo(t, db, user.ID, "Buy milk")
		require.NoError(t, svc.DeleteTodo(admin.ID, todo.ID))

		var count int64
		require.NoError(t, db.Model(&models.Todo{}).Where("id = ?", todo.ID).Count(&count).Error)
		assert.Zero(t, count)
		assert.EqualValues(t, 1, auditCount(t, db, "todo.delete"))
	})

	t.Run("unknown todo", func(t *testing.T) {
		err := svc.DeleteTodo(admin.ID, uuid.New())
		assert.ErrorIs(t, err, ErrTodoNotFound)
	})
}
