package models

import (
	"time"
)

// Vehicle represents a tracked vehicle. IDs are client-generated UUIDs so that
// records created offline keep their identity after a sync.
type Vehicle struct {
	ID             string    `bson:"_id,omitempty" json:"vehicleId"`
	UserID         string    `bson:"userId" json:"userId"`
	FamilyID       string    `bson:"familyId,omitempty" json:"familyId,omitempty"`
	Model          string    `bson:"model" json:"model"`
	Plate          string    `bson:"plate" json:"plate"`
	Year           int       `bson:"year,omitempty" json:"year,omitempty"`
	CurrentMileage int       `bson:"currentMileage" json:"currentMileage"`
	CreatedAt      time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// Label builds the display label used in notification bodies.
func (v *Vehicle) Label() string {
	if v == nil {
		return ""
	}
	return v.Model + " " + v.Plate
}
