package handlers

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/whatif-labs/milkyway-backend/internal/booksearch"
)

type BookSearcher interface {
	Search(ctx context.Context, query string) ([]booksearch.Item, int, error)
}

type SearchHandler struct {
	service BookSearcher
}

func NewSearchHandler(service BookSearcher) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search proxies the query to the external book search API and returns
// up to 100 aggregated results. Upstream error detail is logged only;
// the client always gets a generic 500.
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query is required"})
	}

	items, total, err := h.service.Search(c.UserContext(), req.Query)
	if err != nil {
		slog.Error("book search failed", "query", req.Query, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{
		"items": items,
		"total": total,
	})
}
