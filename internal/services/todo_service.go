package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/todoflow/todoflow-backend/internal/models"
	"gorm.io/gorm"
)

// PageSize is the fixed number of todos per listing page.
const PageSize = 10

var (
	ErrTodoNotFound  = errors.New("todo not found")
	ErrEmptyTitle    = errors.New("title must not be empty")
	ErrQuotaExceeded = errors.New("free todo limit reached")
)

type TodoService struct {
	db            *gorm.DB
	subscriptions *SubscriptionService
}

func NewTodoService(db *gorm.DB, subscriptions *SubscriptionService) *TodoService {
	return &TodoService{db: db, subscriptions: subscriptions}
}

// List returns one page of the user's todos, optionally filtered by a
// case-insensitive substring match on the title. Ordering is creation
// order with the id as tiebreak, so repeated calls paginate
// identically. A page past the end returns an empty list with the
// requested page echoed back as currentPage.
func (s *TodoService) List(userID uuid.UUID, page int, search string) ([]models.Todo, int, int, error) {
	if page < 1 {
		page = 1
	}

	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("user_id = ?", userID)
		if search != "" {
			db = db.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
		}
		return db
	}

	var total int64
	if err := s.db.Model(&models.Todo{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count todos: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(PageSize)))
	if totalPages < 1 {
		totalPages = 1
	}

	var todos []models.Todo
	err := s.db.Scopes(scope).
		Order("created_at ASC, id ASC").
		Limit(PageSize).
		Offset((page - 1) * PageSize).
		Find(&todos).Error
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, totalPages, page, nil
}

// Create inserts a todo after re-checking the quota inside the same
// transaction, closing the check-then-act window between a UI-side
// CanCreateTodo and the insert.
func (s *TodoService) Create(userID uuid.UUID, title string) (*models.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	todo := models.Todo{
		ID:     uuid.New(),
		UserID: userID,
		Title:  title,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		allowed, err := s.subscriptions.canCreateTodo(tx, userID)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrQuotaExceeded
		}
		return tx.Create(&todo).Error
	})
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return &todo, nil
}

// SetCompleted updates the completed flag on the user's own todo. A
// todo owned by someone else reports not-found rather than leaking its
// existence.
func (s *TodoService) SetCompleted(userID, todoID uuid.UUID, completed bool) (*models.Todo, error) {
	var todo models.Todo
	if err := s.db.Where("id = ? AND user_id = ?", todoID, userID).First(&todo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to load todo: %w", err)
	}

	if err := s.db.Model(&todo).Update("completed", completed).Error; err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	todo.Completed = completed
	return &todo, nil
}

// Delete removes the user's own todo, with the same ownership scoping
// as SetCompleted.
func (s *TodoService) Delete(userID, todoID uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", todoID, userID).Delete(&models.Todo{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete todo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTodoNotFound
	}
	return nil
}
