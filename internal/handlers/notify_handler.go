package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/whatif-labs/milkyway-backend/internal/services"
)

type MemoNotifier interface {
	Notify(ctx context.Context, input services.NotifyInput) (*services.NotifyResult, error)
}

type NotifyHandler struct {
	service MemoNotifier
}

func NewNotifyHandler(service MemoNotifier) *NotifyHandler {
	return &NotifyHandler{service: service}
}

// Notify fans a new-public-memo push notification out to every user who
// saved the book. Expected "nothing to send" situations come back as 200
// with a descriptive message; only validation and hard dependency
// failures are errors.
func (h *NotifyHandler) Notify(c *fiber.Ctx) error {
	var req struct {
		BookID             string `json:"book_id"`
		MemoID             string `json:"memo_id"`
		MemoContent        string `json:"memo_content"`
		MemoAuthorNickname string `json:"memo_author_nickname"`
		MemoAuthorID       string `json:"memo_author_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if req.BookID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "book_id is required"})
	}
	if req.MemoID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "memo_id is required"})
	}
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid book_id"})
	}
	memoID, err := uuid.Parse(req.MemoID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid memo_id"})
	}

	result, err := h.service.Notify(c.UserContext(), services.NotifyInput{
		BookID:         bookID,
		MemoID:         memoID,
		Content:        req.MemoContent,
		AuthorNickname: req.MemoAuthorNickname,
		AuthorID:       req.MemoAuthorID,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}
