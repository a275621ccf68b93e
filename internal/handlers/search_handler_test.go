package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whatif-labs/milkyway-backend/internal/booksearch"
)

type fakeBookSearcher struct {
	items    []booksearch.Item
	total    int
	err      error
	gotQuery string
}

func (f *fakeBookSearcher) Search(_ context.Context, query string) ([]booksearch.Item, int, error) {
	f.gotQuery = query
	return f.items, f.total, f.err
}

func newSearchApp(svc BookSearcher) *fiber.App {
	app := fiber.New()
	app.Post("/api/search-books", NewSearchHandler(svc).Search)
	return app
}

func TestSearch_Success(t *testing.T) {
	svc := &fakeBookSearcher{
		items: []booksearch.Item{{Title: "데미안", Author: "헤르만 헤세"}},
		total: 137,
	}
	app := newSearchApp(svc)

	resp := postJSON(t, app, "/api/search-books", map[string]any{"query": "데미안"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(137), body["total"])
	assert.Len(t, body["items"], 1)
	assert.Equal(t, "데미안", svc.gotQuery)
}

func TestSearch_MissingQuery(t *testing.T) {
	app := newSearchApp(&fakeBookSearcher{})

	resp := postJSON(t, app, "/api/search-books", map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearch_UpstreamFailureIsGeneric(t *testing.T) {
	app := newSearchApp(&fakeBookSearcher{err: errors.New("naver: 429 too many requests")})

	resp := postJSON(t, app, "/api/search-books", map[string]any{"query": "데미안"})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	// Upstream detail must not leak to the caller.
	assert.Equal(t, "Internal Server Error", decodeBody(t, resp)["error"])
}
