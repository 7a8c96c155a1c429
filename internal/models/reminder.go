package models

import (
	"time"
)

// Priority represents the urgency of a maintenance reminder
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValidPriority checks if a priority is valid
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Reminder represents a maintenance reminder for a vehicle. DueDate and
// DueMileage are both optional; a reminder carrying neither is never due.
type Reminder struct {
	ID              string     `bson:"_id,omitempty" json:"reminderId"`
	VehicleID       string     `bson:"vehicleId" json:"vehicleId"`
	UserID          string     `bson:"userId" json:"userId"`
	FamilyID        string     `bson:"familyId,omitempty" json:"familyId,omitempty"`
	Description     string     `bson:"description" json:"description"`
	DueDate         *time.Time `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	DueMileage      *int       `bson:"dueMileage,omitempty" json:"dueMileage,omitempty"`
	IsCompleted     bool       `bson:"isCompleted" json:"isCompleted"`
	RepeatEveryDays *int       `bson:"repeatEveryDays,omitempty" json:"repeatEveryDays,omitempty"`
	Priority        Priority   `bson:"priority" json:"priority"`
	CreatedAt       time.Time  `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// Repeats reports whether completing the reminder should spawn a next occurrence.
func (r *Reminder) Repeats() bool {
	return r.RepeatEveryDays != nil && *r.RepeatEveryDays > 0
}
