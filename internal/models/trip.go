package models

import (
	"time"
)

// Trip represents a planned or completed trip.
type Trip struct {
	ID          string     `bson:"_id,omitempty" json:"tripId"`
	VehicleID   string     `bson:"vehicleId,omitempty" json:"vehicleId,omitempty"`
	UserID      string     `bson:"userId" json:"userId"`
	FamilyID    string     `bson:"familyId,omitempty" json:"familyId,omitempty"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Origin      string     `bson:"origin,omitempty" json:"origin,omitempty"`
	Destination string     `bson:"destination,omitempty" json:"destination,omitempty"`
	Date        *time.Time `bson:"date,omitempty" json:"date,omitempty"`
	IsCompleted bool       `bson:"isCompleted" json:"isCompleted"`
}
