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

// AdminHandler serves the admin dashboard. Role checks happen in the
// AdminRequired middleware; these handlers assume an admin caller.
type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// Search handles GET /admin?email=&page= - resolves a user by exact
// email and returns them with one page of their todos.
func (h *AdminHandler) Search(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "email query parameter is required",
		})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	user, err := h.adminService.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		slog.Error("admin user lookup failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch user",
		})
	}

	todos, totalPages, currentPage, err := h.adminService.ListTodosForUser(user.ID, page)
	if err != nil {
		slog.Error("admin todo listing failed", "target_user_id", user.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch todos",
		})
	}

	return c.JSON(dto.AdminSearchResponse{
		User:        dto.ToAdminUserResponse(user, todos),
		TotalPages:  totalPages,
		CurrentPage: currentPage,
	})
}

// Update handles PUT /admin - either toggles a user's subscription
// ({email, isSubscribed}) or sets a todo's completion
// ({email, todoId, todoCompleted}).
func (h *AdminHandler) Update(c *fiber.Ctx) error {
	adminID, err := principal.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.AdminUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if req.TodoID != nil {
		if req.TodoCompleted == nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "todoCompleted is required when todoId is set",
			})
		}
		todoID, err := uuid.Parse(*req.TodoID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid todo id",
			})
		}

		todo, err := h.adminService.SetTodoCompletion(adminID, todoID, *req.TodoCompleted)
		if err != nil {
			if errors.Is(err, services.ErrTodoNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
					Error: true, Message: "Todo not found",
				})
			}
			slog.Error("admin todo update failed", "todo_id", todoID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to update todo",
			})
		}
		return c.JSON(dto.ToTodoResponse(todo))
	}

	if req.IsSubscribed == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "isSubscribed or todoId is required",
		})
	}

	user, err := h.adminService.FindUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		slog.Error("admin user lookup failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch user",
		})
	}

	updated, err := h.adminService.SetSubscription(adminID, user.ID, *req.IsSubscribed)
	if err != nil {
		slog.Error("admin subscription update failed", "target_user_id", user.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update subscription",
		})
	}

	return c.JSON(dto.ToAdminUserResponse(updated, nil))
}

// DeleteTodo handles DELETE /admin - removes any todo by id.
func (h *AdminHandler) DeleteTodo(c *fiber.Ctx) error {
	adminID, err := principal.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.AdminDeleteTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	todoID, err := uuid.Parse(req.TodoID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid todo id",
		})
	}

	if err := h.adminService.DeleteTodo(adminID, todoID); err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Todo not found",
			})
		}
		slog.Error("admin todo delete failed", "todo_id", todoID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete todo",
		})
	}

	return c.JSON(dto.MessageResponse{Success: true, Message: "Todo deleted"})
}
