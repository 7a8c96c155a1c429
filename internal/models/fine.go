package models

import (
	"time"
)

// Fine represents a traffic fine with an optional payment due date, monetary
// value and licence point count.
type Fine struct {
	ID          string     `bson:"_id,omitempty" json:"fineId"`
	VehicleID   string     `bson:"vehicleId,omitempty" json:"vehicleId,omitempty"`
	UserID      string     `bson:"userId" json:"userId"`
	FamilyID    string     `bson:"familyId,omitempty" json:"familyId,omitempty"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	DueDate     *time.Time `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Value       *float64   `bson:"value,omitempty" json:"value,omitempty"`
	Points      *int       `bson:"points,omitempty" json:"points,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// DisplayName returns the description, falling back to a generic label.
func (f *Fine) DisplayName() string {
	if f.Description != "" {
		return f.Description
	}
	return "Multa"
}
