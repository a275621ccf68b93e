package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNicknameChecker struct {
	available   bool
	err         error
	gotNickname string
	gotUserID   string
}

func (f *fakeNicknameChecker) CheckAvailability(nickname, userID string) (bool, error) {
	f.gotNickname = nickname
	f.gotUserID = userID
	return f.available, f.err
}

func newNicknameApp(svc NicknameChecker) *fiber.App {
	app := fiber.New()
	app.Post("/api/check-nickname", NewNicknameHandler(svc).Check)
	return app
}

func TestNicknameCheck_Available(t *testing.T) {
	svc := &fakeNicknameChecker{available: true}
	app := newNicknameApp(svc)

	resp := postJSON(t, app, "/api/check-nickname", map[string]any{
		"nickname": "별빛독서가",
		"user_id":  "u-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["available"])
	assert.Equal(t, "별빛독서가", svc.gotNickname)
	assert.Equal(t, "u-1", svc.gotUserID)
}

func TestNicknameCheck_Taken(t *testing.T) {
	app := newNicknameApp(&fakeNicknameChecker{available: false})

	resp := postJSON(t, app, "/api/check-nickname", map[string]any{"nickname": "taken"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decodeBody(t, resp)["available"])
}

func TestNicknameCheck_MissingNickname(t *testing.T) {
	app := newNicknameApp(&fakeNicknameChecker{})

	resp := postJSON(t, app, "/api/check-nickname", map[string]any{"user_id": "u-1"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, decodeBody(t, resp)["error"])
}

func TestNicknameCheck_LookupFailure(t *testing.T) {
	app := newNicknameApp(&fakeNicknameChecker{err: errors.New("connection refused")})

	resp := postJSON(t, app, "/api/check-nickname", map[string]any{"nickname": "x"})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "connection refused", decodeBody(t, resp)["error"])
}

func TestNicknameCheck_MethodNotAllowed(t *testing.T) {
	app := newNicknameApp(&fakeNicknameChecker{})

	req := httptest.NewRequest(http.MethodGet, "/api/check-nickname", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
