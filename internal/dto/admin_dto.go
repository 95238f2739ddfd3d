package dto

import (
	"time"

	"github.com/todoflow/todoflow-backend/internal/models"
)

// AdminUpdateRequest covers both admin mutations on the same resource:
// a subscription toggle ({email, isSubscribed}) or a todo completion
// change ({email, todoId, todoCompleted}). Pointer fields distinguish
// "absent" from zero values.
type AdminUpdateRequest struct {
	Email         string  `json:"email"`
	IsSubscribed  *bool   `json:"isSubscribed"`
	TodoID        *string `json:"todoId"`
	TodoCompleted *bool   `json:"todoCompleted"`
}

type AdminDeleteTodoRequest struct {
	TodoID string `json:"todoId"`
}

// AdminUserResponse is a user as the admin dashboard sees it, with the
// current page of their todos embedded.
type AdminUserResponse struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	Role             string         `json:"role"`
	IsSubscribed     bool           `json:"isSubscribed"`
	SubscriptionEnds *time.Time     `json:"subscriptionEnds"`
	Todos            []TodoResponse `json:"todos"`
}

type AdminSearchResponse struct {
	User        AdminUserResponse `json:"user"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
}

func ToAdminUserResponse(user *models.User, todos []models.Todo) AdminUserResponse {
	return AdminUserResponse{
		ID:               user.ID.String(),
		Email:            user.Email,
		Role:             user.Role,
		IsSubscribed:     user.IsSubscribed,
		SubscriptionEnds: user.SubscriptionEnds,
		Todos:            ToTodoResponses(todos),
	}
}
