package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type NicknameChecker interface {
	CheckAvailability(nickname, userID string) (bool, error)
}

type NicknameHandler struct {
	service NicknameChecker
}

func NewNicknameHandler(service NicknameChecker) *NicknameHandler {
	return &NicknameHandler{service: service}
}

// Check reports whether a nickname is free. The optional user_id marks
// the requester so that keeping one's own nickname counts as available.
func (h *NicknameHandler) Check(c *fiber.Ctx) error {
	var req struct {
		Nickname string `json:"nickname"`
		UserID   string `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if req.Nickname == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "nickname is required"})
	}

	available, err := h.service.CheckAvailability(req.Nickname, req.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"available": available})
}
