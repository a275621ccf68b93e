package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AccountEraser interface {
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type AccountHandler struct {
	service AccountEraser
}

func NewAccountHandler(service AccountEraser) *AccountHandler {
	return &AccountHandler{service: service}
}

// Delete cascades a full account erasure: stored media, dependent rows,
// profile row, auth identity.
func (h *AccountHandler) Delete(c *fiber.Ctx) error {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if req.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user_id"})
	}

	if err := h.service.DeleteAccount(c.UserContext(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}
