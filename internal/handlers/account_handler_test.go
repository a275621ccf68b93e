package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountEraser struct {
	err       error
	gotUserID uuid.UUID
	called    bool
}

func (f *fakeAccountEraser) DeleteAccount(_ context.Context, userID uuid.UUID) error {
	f.called = true
	f.gotUserID = userID
	return f.err
}

func newAccountApp(svc AccountEraser) *fiber.App {
	app := fiber.New()
	app.Post("/api/delete-user", NewAccountHandler(svc).Delete)
	return app
}

func TestAccountDelete_Success(t *testing.T) {
	svc := &fakeAccountEraser{}
	app := newAccountApp(svc)

	userID := uuid.New()
	resp := postJSON(t, app, "/api/delete-user", map[string]any{"user_id": userID.String()})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, true, decodeBody(t, resp)["success"])
	assert.True(t, svc.called)
	assert.Equal(t, userID, svc.gotUserID)
}

func TestAccountDelete_MissingUserID(t *testing.T) {
	svc := &fakeAccountEraser{}
	app := newAccountApp(svc)

	resp := postJSON(t, app, "/api/delete-user", map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, svc.called)
}

func TestAccountDelete_InvalidUserID(t *testing.T) {
	app := newAccountApp(&fakeAccountEraser{})

	resp := postJSON(t, app, "/api/delete-user", map[string]any{"user_id": "not-a-uuid"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAccountDelete_CascadeFailure(t *testing.T) {
	app := newAccountApp(&fakeAccountEraser{err: errors.New("failed to delete user profile: timeout")})

	resp := postJSON(t, app, "/api/delete-user", map[string]any{"user_id": uuid.NewString()})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "failed to delete user profile: timeout", decodeBody(t, resp)["error"])
}
