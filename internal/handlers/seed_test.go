package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvilar/controlcar/internal/models"
)

type recordingSeedStore struct {
	stubRecords

	vehicles  []models.Vehicle
	reminders []models.Reminder
}

func (r *recordingSeedStore) UpsertVehicle(_ context.Context, v models.Vehicle) error {
	r.vehicles = append(r.vehicles, v)
	return nil
}

func (r *recordingSeedStore) UpsertReminder(_ context.Context, rem models.Reminder) error {
	r.reminders = append(r.reminders, rem)
	return nil
}

func TestSeedHandler_CreatesRecordsPerTokenHolder(t *testing.T) {
	dir := &fakeTokenDirectory{inserted: []models.NotificationToken{
		{ID: "t1", UserID: "u1", Token: "fcm-1"},
		{ID: "t2", UserID: "u1", Token: "fcm-2"},
		{ID: "t3", UserID: "u2", Token: "fcm-3"},
		{ID: "t4", UserID: "", Token: "orphan"},
	}}
	store := &recordingSeedStore{}
	handler := NewSeedHandler(dir, store, store)
	handler.now = func() time.Time { return time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC) }

	req := httptest.NewRequest(http.MethodPost, "/api/admin/seed-test", nil)
	rec := httptest.NewRecorder()
	handler.Seed(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, float64(2), resp["users"])
	assert.Equal(t, float64(2), resp["created"])

	require.Len(t, store.vehicles, 2)
	require.Len(t, store.reminders, 2)
	for _, v := range store.vehicles {
		assert.Equal(t, "test-vehicle-"+v.UserID, v.ID)
		assert.Equal(t, 10000, v.CurrentMileage)
	}
	for _, rem := range store.reminders {
		require.NotNil(t, rem.DueDate)
		assert.Equal(t, time.Date(2024, 5, 22, 0, 0, 0, 0, time.UTC), *rem.DueDate)
		assert.False(t, rem.IsCompleted)
	}
}

func TestSeedHandler_RequiresPost(t *testing.T) {
	store := &recordingSeedStore{}
	handler := NewSeedHandler(&fakeTokenDirectory{}, store, store)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/seed-test", nil)
	rec := httptest.NewRecorder()
	handler.Seed(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
