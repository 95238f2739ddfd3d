package dto

import (
	"time"

	"github.com/todoflow/todoflow-backend/internal/models"
)

type CreateTodoRequest struct {
	Title string `json:"title"`
}

type UpdateTodoRequest struct {
	Completed bool `json:"completed"`
}

type TodoResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TodoListResponse struct {
	Todos       []TodoResponse `json:"todos"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

func ToTodoResponse(todo *models.Todo) TodoResponse {
	return TodoResponse{
		ID:        todo.ID.String(),
		UserID:    todo.UserID.String(),
		Title:     todo.Title,
		Completed: todo.Completed,
		CreatedAt: todo.CreatedAt,
		UpdatedAt: todo.UpdatedAt,
	}
}

func ToTodoResponses(todos []models.Todo) []TodoResponse {
	out := make([]TodoResponse, len(todos))
	for i := range todos {
		out[i] = ToTodoResponse(&todos[i])
	}
	return out
}
