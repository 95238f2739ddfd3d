package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/todoflow/todoflow-backend/internal/models"
	"gorm.io/gorm"
)

// FreeTodoLimit is the number of todos a non-subscribed user may hold
// before creation is blocked. Part of the product contract, so a code
// constant rather than config.
const FreeTodoLimit = 3

var ErrUserNotFound = errors.New("user not found")

type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Status returns the user's subscription state, expiring it first if
// the end date has passed. Expiry is written back so later reads see
// the corrected state without re-deriving it; there is no background
// sweep. The conditional WHERE keeps the reset from clobbering a
// concurrent subscribe that already moved the end date forward.
func (s *SubscriptionService) Status(userID uuid.UUID) (*models.User, error) {
	return s.status(s.db, userID)
}

func (s *SubscriptionService) status(db *gorm.DB, userID uuid.UUID) (*models.User, error) {
	err := db.Model(&models.User{}).
		Where("id = ? AND subscription_ends IS NOT NULL AND subscription_ends < ?", userID, time.Now()).
		Updates(map[string]interface{}{
			"is_subscribed":     false,
			"subscription_ends": nil,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to expire subscription: %w", err)
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// Subscribe activates the subscription for one calendar month from now.
// Re-subscribing always restarts the month from the call time; it never
// stacks onto a remaining period. Payment capture is intentionally
// absent here: callers are trusted until a payment step exists.
func (s *SubscriptionService) Subscribe(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	ends := addCalendarMonth(time.Now())
	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"is_subscribed":     true,
		"subscription_ends": ends,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to activate subscription: %w", err)
	}

	user.IsSubscribed = true
	user.SubscriptionEnds = &ends
	return &user, nil
}

// CanCreateTodo reports whether the user may create another todo:
// subscribed (after lazy expiry), or under the free quota. Advisory for
// the UI; TodoService.Create re-checks inside its insert transaction.
func (s *SubscriptionService) CanCreateTodo(userID uuid.UUID) (bool, error) {
	return s.canCreateTodo(s.db, userID)
}

func (s *SubscriptionService) canCreateTodo(db *gorm.DB, userID uuid.UUID) (bool, error) {
	user, err := s.status(db, userID)
	if err != nil {
		return false, err
	}
	if user.IsSubscribed {
		return true, nil
	}

	var count int64
	if err := db.Model(&models.Todo{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count todos: %w", err)
	}
	return count < FreeTodoLimit, nil
}

// addCalendarMonth returns t plus one calendar month, keeping the
// day-of-month and clamping to the last valid day when the target month
// is shorter (Jan 31 -> Feb 28/29).
func addCalendarMonth(t time.Time) time.Time {
	y, m, d := t.Date()

	// Day 0 of month+2 is the last day of month+1; time.Date
	// normalizes month overflow past December.
	lastDay := time.Date(y, m+2, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(y, m+1, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
