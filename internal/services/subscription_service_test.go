package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todoflow/todoflow-backend/internal/models"
)

func TestAddCalendarMonth(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "plain month",
			in:   time.Date(2026, time.March, 15, 9, 30, 0, 0, time.UTC),
			want: time.Date(2026, time.April, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			name: "jan 31 clamps to feb 28",
			in:   time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "jan 31 clamps to feb 29 in a leap year",
			in:   time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "march 31 clamps to april 30",
			in:   time.Date(2026, time.March, 31, 23, 59, 59, 0, time.UTC),
			want: time.Date(2026, time.April, 30, 23, 59, 59, 0, time.UTC),
		},
		{
			name: "december rolls into january",
			in:   time.Date(2026, time.December, 31, 12, 0, 0, 0, time.UTC),
			want: time.Date(2027, time.January, 31, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.want.Equal(addCalendarMonth(tc.in)),
				"got %s, want %s", addCalendarMonth(tc.in), tc.want)
		})
	}
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubscriptionService(db)
	user := createTestUser(t, db, "alice@example.com")

	t.Run("activates for one calendar month", func(t *testing.T) {
		before := time.Now()
		updated, err := svc.Subscribe(user.ID)
		require.NoError(t, err)

		assert.True(t, updated.IsSubscribed)
		require.NotNil(t, updated.SubscriptionEnds)
		expected := addCalendarMonth(before)
		assert.WithinDuration(t, expected, *updated.SubscriptionEnds, 5*time.Second)
	})

	t.Run("re-subscribing restarts from now instead of stacking", func(t *testing.T) {
		stale := time.Now().Add(48 * time.Hour)
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
			Update("subscription_ends", stale).Error)

		updated, err := svc.Subscribe(user.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.SubscriptionEnds)
		assert.WithinDuration(t, addCalendarMonth(time.Now()), *updated.SubscriptionEnds, 5*time.Second)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Subscribe(uuid.New())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestSubscriptionService_Status(t *testing.T) {
	t.Run("active subscription is returned untouched", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewSubscriptionService(db)
		user := createTestUser(t, db, "alice@example.com")
		ends := time.Now().Add(72 * time.Hour).Truncate(time.Second)
		require.NoError(t, db.Model(user).Updates(map[string]interface{}{
			"is_subscribed":     true,
			"subscription_ends": ends,
		}).Error)

		got, err := svc.Status(user.ID)
		require.NoError(t, err)
		assert.True(t, got.IsSubscribed)
		require.NotNil(t, got.SubscriptionEnds)
		assert.WithinDuration(t, ends, *got.SubscriptionEnds, time.Second)
	})

	t.Run("past end date is expired on read and written back", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewSubscriptionService(db)
		user := createTestUser(t, db, "alice@example.com")
		require.NoError(t, db.Model(user).Updates(map[string]interface{}{
			"is_subscribed":     true,
			"subscription_ends": time.Now().Add(-time.Minute),
		}).Error)

		got, err := svc.Status(user.ID)
		require.NoError(t, err)
		assert.False(t, got.IsSubscribed)
		assert.Nil(t, got.SubscriptionEnds)

		// The reset was persisted, not just reported.
		var stored models.User
		require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
		assert.False(t, stored.IsSubscribed)
		assert.Nil(t, stored.SubscriptionEnds)
	})

	t.Run("never-subscribed user", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewSubscriptionService(db)
		user := createTestUser(t, db, "alice@example.com")

		got, err := svc.Status(user.ID)
		require.NoError(t, err)
		assert.False(t, got.IsSubscribed)
		assert.Nil(t, got.SubscriptionEnds)
	})

	t.Run("unknown user", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewSubscriptionService(db)

		_, err := svc.Status(uuid.New())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestSubscriptionService_CanCreateTodo(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubscriptionService(db)

	t.Run("under the quota", func(t *testing.T) {
		user := createTestUser(t, db, "two@example.com")
		createTestTodos(t, db, user.ID, 2)

		ok, err := svc.CanCreateTodo(user.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("at the quota", func(t *testing.T) {
		user := createTestUser(t, db, "three@example.com")
		createTestTodos(t, db, user.ID, FreeTodoLimit)

		ok, err := svc.CanCreateTodo(user.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("subscribed user ignores the quota", func(t *testing.T) {
		user := createTestUser(t, db, "subscribed@example.com")
		require.NoError(t, db.Model(user).Updates(map[string]interface{}{
			"is_subscribed":     true,
			"subscription_ends": time.Now().Add(24 * time.Hour),
		}).Error)
		createTestTodos(t, db, user.ID, 100)

		ok, err := svc.CanCreateTodo(user.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
