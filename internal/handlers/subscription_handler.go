package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/todoflow/todoflow-backend/internal/dto"
	"github.com/todoflow/todoflow-backend/internal/principal"
	"github.com/todoflow/todoflow-backend/internal/services"
)

type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Status handles GET /subscription. The read applies lazy expiry, so a
// lapsed subscription comes back as not subscribed and stays that way.
func (h *SubscriptionHandler) Status(c *fiber.Ctx) error {
	userID, err := principal.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	user, err := h.subscriptionService.Status(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		slog.Error("failed to read subscription status", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch subscription status",
		})
	}

	return c.JSON(dto.SubscriptionStatusResponse{
		IsSubscribed:     user.IsSubscribed,
		SubscriptionEnds: user.SubscriptionEnds,
	})
}

// Subscribe handles POST /subscription. Payment capture is a known
// stub: activation trusts the caller until a payment step is designed.
func (h *SubscriptionHandler) Subscribe(c *fiber.Ctx) error {
	userID, err := principal.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	user, err := h.subscriptionService.Subscribe(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "User not found",
			})
		}
		slog.Error("failed to activate subscription", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to activate subscription",
		})
	}

	return c.JSON(dto.SubscribeResponse{
		Success:          true,
		Message:          "Subscription successful",
		SubscriptionEnds: user.SubscriptionEnds,
	})
}
