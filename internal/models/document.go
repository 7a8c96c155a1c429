package models

import (
	"time"
)

// Document represents a vehicle-related document (insurance, licensing, ...)
// with an optional expiry date.
type Document struct {
	ID        string     `bson:"_id,omitempty" json:"documentId"`
	VehicleID string     `bson:"vehicleId,omitempty" json:"vehicleId,omitempty"`
	UserID    string     `bson:"userId" json:"userId"`
	FamilyID  string     `bson:"familyId,omitempty" json:"familyId,omitempty"`
	Title     string     `bson:"title,omitempty" json:"title,omitempty"`
	Type      string     `bson:"type,omitempty" json:"type,omitempty"`
	DueDate   *time.Time `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	CreatedAt time.Time  `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// DisplayName returns the title, falling back to the type, then a generic label.
func (d *Document) DisplayName() string {
	if d.Title != "" {
		return d.Title
	}
	if d.Type != "" {
		return d.Type
	}
	return "Documento"
}
