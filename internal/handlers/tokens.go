package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/mvilar/controlcar/internal/db"
	"github.com/mvilar/controlcar/internal/middleware"
	"github.com/mvilar/controlcar/internal/models"
)

// TokenHandler manages device push token opt-in and opt-out.
type TokenHandler struct {
	tokens db.TokenDirectory
}

// NewTokenHandler creates a token handler.
func NewTokenHandler(tokens db.TokenDirectory) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

type tokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform,omitempty"`
}

// Handle dispatches register (POST) and unregister (DELETE) for the
// authenticated user's device token.
func (h *TokenHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.register(w, r)
	case http.MethodDelete:
		h.unregister(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TokenHandler) register(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	var req tokenRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		http.Error(w, "Token is required", http.StatusBadRequest)
		return
	}

	token := models.NotificationToken{
		ID:       uuid.NewString(),
		UserID:   claims.UserID,
		Token:    req.Token,
		Platform: req.Platform,
	}
	if err := h.tokens.InsertToken(r.Context(), token); err != nil {
		http.Error(w, "Failed to register token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (h *TokenHandler) unregister(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Token is required", http.StatusBadRequest)
		return
	}
	if err := h.tokens.DeleteToken(r.Context(), claims.UserID, token); err != nil {
		http.Error(w, "Failed to unregister token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
