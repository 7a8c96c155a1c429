package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mvilar/controlcar/internal/models"
)

// Snapshot is the persisted shape of the local state, the counterpart of the
// web client's local-storage blob.
type Snapshot struct {
	UserID     string            `json:"currentUserId"`
	FamilyID   string            `json:"currentFamilyId,omitempty"`
	Vehicles   []models.Vehicle  `json:"vehicles"`
	Fuelings   []models.Fueling  `json:"fuelings"`
	Reminders  []models.Reminder `json:"reminders"`
	Trips      []models.Trip     `json:"trips"`
	Documents  []models.Document `json:"documents"`
	Fines      []models.Fine     `json:"fines"`
	LastSyncAt *time.Time        `json:"lastSyncAt,omitempty"`
}

// Persister saves and restores local state between sessions.
type Persister interface {
	Save(snapshot Snapshot) error
	Load() (*Snapshot, error)
}

// FilePersister stores the snapshot as a JSON file.
type FilePersister struct {
	Path string
}

// Save writes the snapshot, creating parent directories as needed.
func (p *FilePersister) Save(snapshot Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return os.WriteFile(p.Path, data, 0o644)
}

// Load reads the snapshot. A missing file is not an error; it returns nil.
func (p *FilePersister) Load() (*Snapshot, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	return &snapshot, nil
}
