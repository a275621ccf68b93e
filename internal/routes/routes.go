package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/whatif-labs/milkyway-backend/internal/handlers"
)

func Setup(
	app *fiber.App,
	healthHandler *handlers.HealthHandler,
	nicknameHandler *handlers.NicknameHandler,
	accountHandler *handlers.AccountHandler,
	memoHandler *handlers.MemoHandler,
	notifyHandler *handlers.NotifyHandler,
	searchHandler *handlers.SearchHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	api.Post("/check-nickname", nicknameHandler.Check)
	api.Post("/delete-user", accountHandler.Delete)
	api.Post("/get-memo-by-id", memoHandler.GetByID)
	api.Post("/get-public-book-memos", memoHandler.ListPublic)
	api.Post("/notify-new-public-memo", notifyHandler.Notify)
	api.Post("/search-books", searchHandler.Search)
}
