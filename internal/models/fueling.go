package models

import (
	"time"
)

// Fueling represents a fuel purchase. PricePerLiter is derived, never stored
// by the client directly.
type Fueling struct {
	ID            string    `bson:"_id,omitempty" json:"fuelingId"`
	VehicleID     string    `bson:"vehicleId" json:"vehicleId"`
	UserID        string    `bson:"userId" json:"userId"`
	FamilyID      string    `bson:"familyId,omitempty" json:"familyId,omitempty"`
	Date          time.Time `bson:"date" json:"date"`
	Odometer      int       `bson:"odometer" json:"odometer"`
	Liters        float64   `bson:"liters" json:"liters"`
	TotalCost     float64   `bson:"totalCost" json:"totalCost"`
	PricePerLiter float64   `bson:"pricePerLiter" json:"pricePerLiter"`
}
