package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mvilar/controlcar/internal/reminder"
)

// ReminderHandler exposes the on-demand trigger for the evaluation job.
type ReminderHandler struct {
	job         *reminder.Job
	defaultDays int
}

// NewReminderHandler creates the trigger handler.
func NewReminderHandler(job *reminder.Job, defaultDays int) *ReminderHandler {
	return &ReminderHandler{job: job, defaultDays: defaultDays}
}

type runResponse struct {
	OK         bool              `json:"ok"`
	DaysBefore int               `json:"daysBefore"`
	Summary    *reminder.Summary `json:"summary,omitempty"`
}

// RunNow triggers one evaluation pass. The optional daysBefore (or days)
// query parameter overrides the lookahead; non-numeric or out-of-range values
// silently fall back to the configured default. The response reports ok even
// when the run aborted internally, matching the fire-and-forget contract of
// the scheduled path.
func (h *ReminderHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days := h.defaultDays
	raw := r.URL.Query().Get("daysBefore")
	if raw == "" {
		raw = r.URL.Query().Get("days")
	}
	if raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			days = reminder.ClampDaysBefore(n, h.defaultDays)
		}
	}

	summary, _ := h.job.Run(r.Context(), days)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runResponse{OK: true, DaysBefore: days, Summary: summary})
}
