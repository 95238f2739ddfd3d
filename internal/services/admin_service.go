package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/todoflow/todoflow-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminService is the privileged path: it mutates any user's todos and
// subscription without ownership checks. Role verification happens in
// the route middleware before any of these methods run; every mutation
// leaves an audit row.
type AdminService struct {
	db    *gorm.DB
	todos *TodoService
}

func NewAdminService(db *gorm.DB, todos *TodoService) *AdminService {
	return &AdminService{db: db, todos: todos}
}

// FindUserByEmail resolves a user by exact email match. A miss is
// ErrUserNotFound, not an empty user.
func (s *AdminService) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// ListTodosForUser paginates the target user's todos with the same
// algorithm as the owner-facing listing, minus the search filter.
func (s *AdminService) ListTodosForUser(userID uuid.UUID, page int) ([]models.Todo, int, int, error) {
	return s.todos.List(userID, page, "")
}

// SetSubscription toggles the target user's subscription. Activating
// computes the end date exactly like a self-serve subscribe;
// deactivating clears it.
func (s *AdminService) SetSubscription(adminID, userID uuid.UUID, subscribed bool) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	updates := map[string]interface{}{
		"is_subscribed":     subscribed,
		"subscription_ends": nil,
	}
	user.IsSubscribed = subscribed
	user.SubscriptionEnds = nil
	if subscribed {
		ends := addCalendarMonth(time.Now())
		updates["subscription_ends"] = ends
		user.SubscriptionEnds = &ends
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	s.audit(adminID, "subscription.set", &user.ID, map[string]interface{}{
		"is_subscribed": subscribed,
	})
	return &user, nil
}

// SetTodoCompletion updates any todo's completed flag by id, regardless
// of owner.
func (s *AdminService) SetTodoCompletion(adminID, todoID uuid.UUID, completed bool) (*models.Todo, error) {
	var todo models.Todo
	if err := s.db.First(&todo, "id = ?", todoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to load todo: %w", err)
	}

	if err := s.db.Model(&todo).Update("completed", completed).Error; err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	todo.Completed = completed

	s.audit(adminID, "todo.set_completion", &todo.UserID, map[string]interface{}{
		"todo_id":   todoID.String(),
		"completed": completed,
	})
	return &todo, nil
}

// DeleteTodo removes any todo by id, regardless of owner.
func (s *AdminService) DeleteTodo(adminID, todoID uuid.UUID) error {
	var todo models.Todo
	if err := s.db.First(&todo, "id = ?", todoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("failed to load todo: %w", err)
	}

	if err := s.db.Delete(&todo).Error; err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	s.audit(adminID, "todo.delete", &todo.UserID, map[string]interface{}{
		"todo_id": todoID.String(),
		"title":   todo.Title,
	})
	return nil
}

// audit writes the trail row best-effort: a failed audit insert is
// logged, not surfaced, so it cannot roll back an already-applied
// admin action.
func (s *AdminService) audit(adminID uuid.UUID, action string, targetUserID *uuid.UUID, detail map[string]interface{}) {
	entry := models.AuditLog{
		ID:           uuid.New(),
		AdminID:      adminID,
		Action:       action,
		TargetUserID: targetUserID,
	}
	if detail != nil {
		if b, err := json.Marshal(detail); err == nil {
			entry.Detail = datatypes.JSON(b)
		}
	}

	if err := s.db.Create(&entry).Error; err != nil {
		slog.Error("failed to write audit log", "action", action, "admin_id", adminID, "error", err)
	}
}
