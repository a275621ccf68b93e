package handlers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whatif-labs/milkyway-backend/internal/models"
	"github.com/whatif-labs/milkyway-backend/internal/services"
)

type fakeMemoReader struct {
	memo    *models.Memo
	getErr  error
	memos   []models.Memo
	total   int64
	hasMore bool
	listErr error

	gotBookID       uuid.UUID
	gotLimit        int
	gotOffset       int
	gotIncludeCount bool
}

func (f *fakeMemoReader) GetByID(id uuid.UUID) (*models.Memo, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.memo, nil
}

func (f *fakeMemoReader) ListPublic(bookID uuid.UUID, limit, offset int, includeCount bool) ([]models.Memo, int64, bool, error) {
	f.gotBookID = bookID
	f.gotLimit = limit
	f.gotOffset = offset
	f.gotIncludeCount = includeCount
	return f.memos, f.total, f.hasMore, f.listErr
}

func newMemoApp(svc MemoReader) *fiber.App {
	app := fiber.New()
	h := NewMemoHandler(svc)
	app.Post("/api/get-memo-by-id", h.GetByID)
	app.Post("/api/get-public-book-memos", h.ListPublic)
	return app
}

func TestMemoGetByID_Found(t *testing.T) {
	memoID := uuid.New()
	svc := &fakeMemoReader{memo: &models.Memo{
		ID:         memoID,
		Content:    "두고두고 읽고 싶은 문장",
		Visibility: models.VisibilityPrivate,
		Book:       &models.Book{Title: "데미안"},
		User:       &models.User{Nickname: "책벌레"},
	}}
	app := newMemoApp(svc)

	resp := postJSON(t, app, "/api/get-memo-by-id", map[string]any{"memo_id": memoID.String()})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	memo, ok := body["memo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, memoID.String(), memo["id"])
	// Private memos are still returned by direct fetch.
	assert.Equal(t, "private", memo["visibility"])
	assert.Equal(t, "데미안", memo["books"].(map[string]any)["title"])
	assert.Equal(t, "책벌레", memo["users"].(map[string]any)["nickname"])
}

func TestMemoGetByID_NotFound(t *testing.T) {
	app := newMemoApp(&fakeMemoReader{getErr: services.ErrMemoNotFound})

	resp := postJSON(t, app, "/api/get-memo-by-id", map[string]any{"memo_id": uuid.NewString()})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "memo not found", decodeBody(t, resp)["error"])
}

func TestMemoGetByID_MissingID(t *testing.T) {
	app := newMemoApp(&fakeMemoReader{})

	resp := postJSON(t, app, "/api/get-memo-by-id", map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMemoListPublic_FirstPage(t *testing.T) {
	svc := &fakeMemoReader{
		memos:   []models.Memo{{ID: uuid.New()}, {ID: uuid.New()}},
		total:   25,
		hasMore: true,
	}
	app := newMemoApp(svc)

	bookID := uuid.New()
	resp := postJSON(t, app, "/api/get-public-book-memos", map[string]any{"book_id": bookID.String()})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["hasMore"])
	assert.Equal(t, float64(25), body["total"])
	assert.Len(t, body["memos"], 2)

	assert.Equal(t, bookID, svc.gotBookID)
	assert.Equal(t, 10, svc.gotLimit)
	assert.Equal(t, 0, svc.gotOffset)
	assert.True(t, svc.gotIncludeCount)
}

func TestMemoListPublic_ClampsPagination(t *testing.T) {
	svc := &fakeMemoReader{}
	app := newMemoApp(svc)

	resp := postJSON(t, app, "/api/get-public-book-memos", map[string]any{
		"book_id":       uuid.NewString(),
		"limit":         200,
		"offset":        -7,
		"include_count": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 50, svc.gotLimit)
	assert.Equal(t, 0, svc.gotOffset)
	assert.False(t, svc.gotIncludeCount)
}

func TestMemoListPublic_EmptyPageIsAList(t *testing.T) {
	app := newMemoApp(&fakeMemoReader{memos: []models.Memo{}})

	resp := postJSON(t, app, "/api/get-public-book-memos", map[string]any{"book_id": uuid.NewString()})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	memos, ok := body["memos"].([]any)
	require.True(t, ok)
	assert.Empty(t, memos)
}

func TestMemoListPublic_MissingBookID(t *testing.T) {
	app := newMemoApp(&fakeMemoReader{})

	resp := postJSON(t, app, "/api/get-public-book-memos", map[string]any{"limit": 10})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
