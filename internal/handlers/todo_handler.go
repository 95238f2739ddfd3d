package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/todoflow/todoflow-backend/internal/dto"
	"github.com/todoflow/todoflow-backend/internal/principal"
	"github.com/todoflow/todoflow-backend/internal/services"
)

type TodoHandler struct {
	todoService *services.TodoService
}

func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// List handles GET /todos - returns one page of the caller's todos,
// optionally filtered by a title search term.
func (h *TodoHandler) List(c *fiber.Ctx) error {
	userID, err := principal.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	search := c.Query("search")

	todos, totalPages, currentPage, err := h.todoService.List(userID, page, search)
	if err != nil {
		slog.Error("failed to list todos", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch todos",
		})
	}

	return c.JSON(dto.TodoListResponse{
		Todos:       dto.ToTodoResponses(todos),
		TotalPages:  totalPages,
		CurrentPage: currentPage,
	})
}

// Create handles POST /todos.
func (h *TodoHandler) Create(c *fiber.Ctx) error {
	userID, err := principal.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	todo, err := h.todoService.Create(userID, req.Title)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyTitle):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Title is required",
			})
		case errors.Is(err, services.ErrQuotaExceeded):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Free todo limit reached. Subscribe to add more todos.",
			})
		}
		slog.Error("failed to create todo", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create todo",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ToTodoResponse(todo))
}

// Update handles PUT /todos/:id - toggles the completed flag.
func (h *TodoHandler) Update(c *fiber.Ctx) error {
	userID, err := principal.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	todoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid todo id",
		})
	}

	var req dto.UpdateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	todo, err := h.todoService.SetCompleted(userID, todoID, req.Completed)
	if err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Todo not found",
			})
		}
		slog.Error("failed to update todo", "user_id", userID, "todo_id", todoID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update todo",
		})
	}

	return c.JSON(dto.ToTodoResponse(todo))
}

// Delete handles DELETE /todos/:id.
func (h *TodoHandler) Delete(c *fiber.Ctx) error {
	userID, err := principal.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	todoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid todo id",
		})
	}

	if err := h.todoService.Delete(userID, todoID); err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Todo not found",
			})
		}
		slog.Error("failed to delete todo", "user_id", userID, "todo_id", todoID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete todo",
		})
	}

	return c.JSON(dto.MessageResponse{Success: true, Message: "Todo deleted"})
}
