package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/whatif-labs/milkyway-backend/internal/models"
	"github.com/whatif-labs/milkyway-backend/internal/services"
)

type MemoReader interface {
	GetByID(id uuid.UUID) (*models.Memo, error)
	ListPublic(bookID uuid.UUID, limit, offset int, includeCount bool) ([]models.Memo, int64, bool, error)
}

type MemoHandler struct {
	service MemoReader
}

func NewMemoHandler(service MemoReader) *MemoHandler {
	return &MemoHandler{service: service}
}

// GetByID returns one memo with book and author metadata. Visibility is
// deliberately ignored; the detail view is reached from contexts the
// caller is already allowed to see.
func (h *MemoHandler) GetByID(c *fiber.Ctx) error {
	var req struct {
		MemoID string `json:"memo_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if req.MemoID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "memo_id is required"})
	}
	memoID, err := uuid.Parse(req.MemoID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid memo_id"})
	}

	memo, err := h.service.GetByID(memoID)
	if err != nil {
		if errors.Is(err, services.ErrMemoNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "memo not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"memo": memo})
}

// ListPublic returns one page of a book's public memos. The exact total
// is only computed on the first page; later pages approximate hasMore
// from the page length.
func (h *MemoHandler) ListPublic(c *fiber.Ctx) error {
	var req struct {
		BookID       string `json:"book_id"`
		Limit        int    `json:"limit"`
		Offset       int    `json:"offset"`
		IncludeCount *bool  `json:"include_count"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if req.BookID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "book_id is required"})
	}
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid book_id"})
	}

	limit, offset := services.NormalizePage(req.Limit, req.Offset)
	includeCount := req.IncludeCount == nil || *req.IncludeCount

	memos, total, hasMore, err := h.service.ListPublic(bookID, limit, offset, includeCount)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"memos":   memos,
		"hasMore": hasMore,
		"total":   total,
	})
}
