package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mvilar/controlcar/internal/db"
	"github.com/mvilar/controlcar/internal/models"
)

// SeedHandler creates a test vehicle and a maintenance reminder due in seven
// days for every user holding a token. Meant for verifying the notification
// pipeline end to end on a staging database.
type SeedHandler struct {
	tokens    db.TokenDirectory
	vehicles  db.VehicleCollection
	reminders db.ReminderCollection

	now func() time.Time
}

// NewSeedHandler creates the seed handler.
func NewSeedHandler(tokens db.TokenDirectory, vehicles db.VehicleCollection, reminders db.ReminderCollection) *SeedHandler {
	return &SeedHandler{tokens: tokens, vehicles: vehicles, reminders: reminders, now: time.Now}
}

// Seed handles POST /api/admin/seed-test.
func (h *SeedHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tokens, err := h.tokens.ListAllTokens(r.Context())
	if err != nil {
		writeSeedError(w, err)
		return
	}
	users := make(map[string]bool)
	for _, t := range tokens {
		if t.UserID != "" {
			users[t.UserID] = true
		}
	}

	now := h.now()
	dueDate := time.Date(now.Year(), now.Month(), now.Day()+7, 0, 0, 0, 0, now.Location())
	created := 0
	for userID := range users {
		vehicleID := "test-vehicle-" + userID
		vehicle := models.Vehicle{
			ID:             vehicleID,
			UserID:         userID,
			Model:          "Teste",
			Plate:          "TEST-1234",
			CurrentMileage: 10000,
		}
		if err := h.vehicles.UpsertVehicle(r.Context(), vehicle); err != nil {
			writeSeedError(w, err)
			return
		}

		due := dueDate
		reminder := models.Reminder{
			ID:          "test-maint-" + userID,
			UserID:      userID,
			VehicleID:   vehicleID,
			Description: "Manutenção de teste",
			DueDate:     &due,
			IsCompleted: false,
			Priority:    models.PriorityMedium,
		}
		if err := h.reminders.UpsertReminder(r.Context(), reminder); err != nil {
			writeSeedError(w, err)
			return
		}
		created++
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":      true,
		"users":   len(users),
		"created": created,
	})
}

func writeSeedError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": err.Error()})
}
