package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvilar/controlcar/internal/auth"
	"github.com/mvilar/controlcar/internal/middleware"
	"github.com/mvilar/controlcar/internal/models"
)

type fakeTokenDirectory struct {
	inserted []models.NotificationToken
	deleted  []string
}

func (f *fakeTokenDirectory) ListAllTokens(context.Context) ([]models.NotificationToken, error) {
	return f.inserted, nil
}

func (f *fakeTokenDirectory) InsertToken(_ context.Context, token models.NotificationToken) error {
	f.inserted = append(f.inserted, token)
	return nil
}

func (f *fakeTokenDirectory) DeleteToken(_ context.Context, userID, token string) error {
	f.deleted = append(f.deleted, userID+"/"+token)
	return nil
}

func authedRequest(method, url, body, userID string) *http.Request {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	claims := &auth.Claims{UserID: userID}
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, claims)
	return req.WithContext(ctx)
}

func TestTokenHandler_Register(t *testing.T) {
	dir := &fakeTokenDirectory{}
	handler := NewTokenHandler(dir)

	req := authedRequest(http.MethodPost, "/api/tokens", `{"token":"fcm-abc","platform":"android"}`, "u1")
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, dir.inserted, 1)
	assert.NotEmpty(t, dir.inserted[0].ID)
	assert.Equal(t, "u1", dir.inserted[0].UserID)
	assert.Equal(t, "fcm-abc", dir.inserted[0].Token)
	assert.Equal(t, "android", dir.inserted[0].Platform)
}

func TestTokenHandler_RegisterRequiresToken(t *testing.T) {
	handler := NewTokenHandler(&fakeTokenDirectory{})

	req := authedRequest(http.MethodPost, "/api/tokens", `{"platform":"ios"}`, "u1")
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenHandler_RegisterRejectsUnauthenticated(t *testing.T) {
	handler := NewTokenHandler(&fakeTokenDirectory{})

	req := httptest.NewRequest(http.MethodPost, "/api/tokens", strings.NewReader(`{"token":"x"}`))
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenHandler_Unregister(t *testing.T) {
	dir := &fakeTokenDirectory{}
	handler := NewTokenHandler(dir)

	req := authedRequest(http.MethodDelete, "/api/tokens?token=fcm-abc", "", "u1")
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"u1/fcm-abc"}, dir.deleted)
}

func TestTokenHandler_UnregisterRequiresToken(t *testing.T) {
	handler := NewTokenHandler(&fakeTokenDirectory{})

	req := authedRequest(http.MethodDelete, "/api/tokens", "", "u1")
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenHandler_MethodNotAllowed(t *testing.T) {
	handler := NewTokenHandler(&fakeTokenDirectory{})

	req := authedRequest(http.MethodPut, "/api/tokens", "", "u1")
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
