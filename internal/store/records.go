package store

import (
	"context"
	"math"
	"sort"

	"github.com/mvilar/controlcar/internal/models"
)

// PricePerLiter derives the unit price of a fill-up, rounded to two decimals.
func PricePerLiter(totalCost, liters float64) float64 {
	if liters <= 0 {
		return 0
	}
	return math.Round(totalCost/liters*100) / 100
}

// AverageKmPerLiter computes consumption over odometer-sorted fill-ups.
// Only pairs with a positive odometer delta and positive liters count.
func AverageKmPerLiter(fuelings []models.Fueling) float64 {
	if len(fuelings) < 2 {
		return 0
	}
	sorted := append([]models.Fueling(nil), fuelings...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Odometer < sorted[j].Odometer })

	var totalDistance, totalLiters float64
	for i := 1; i < len(sorted); i++ {
		distance := float64(sorted[i].Odometer - sorted[i-1].Odometer)
		if distance > 0 && sorted[i].Liters > 0 {
			totalDistance += distance
			totalLiters += sorted[i].Liters
		}
	}
	if totalLiters == 0 {
		return 0
	}
	return math.Round(totalDistance/totalLiters*100) / 100
}

// Fuelings returns a copy of the fueling list.
func (s *Store) Fuelings() []models.Fueling {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Fueling(nil), s.fuelings...)
}

// FuelingsForVehicle returns the fill-ups of one vehicle.
func (s *Store) FuelingsForVehicle(vehicleID string) []models.Fueling {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Fueling
	for _, f := range s.fuelings {
		if f.VehicleID == vehicleID {
			out = append(out, f)
		}
	}
	return out
}

// AverageConsumptionForVehicle returns km per liter over a vehicle's history.
func (s *Store) AverageConsumptionForVehicle(vehicleID string) float64 {
	return AverageKmPerLiter(s.FuelingsForVehicle(vehicleID))
}

// AddFueling adds a fill-up, deriving its price per liter.
func (s *Store) AddFueling(ctx context.Context, fueling models.Fueling) models.Fueling {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fueling.ID == "" {
		fueling.ID = s.newID()
	}
	fueling.PricePerLiter = PricePerLiter(fueling.TotalCost, fueling.Liters)
	fueling.UserID = s.userID
	fueling.FamilyID = s.familyID
	s.fuelings = append(s.fuelings, fueling)
	if s.remoteEnabledLocked() {
		s.syncRemote("upsert fueling", func() error { return s.remote.UpsertFueling(ctx, fueling) })
	}
	s.persistLocked()
	return fueling
}

// UpdateFueling replaces a fill-up by id, re-deriving its price per liter.
func (s *Store) UpdateFueling(ctx context.Context, fueling models.Fueling) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.fuelings {
		if s.fuelings[i].ID == fueling.ID {
			fueling.UserID = s.fuelings[i].UserID
			fueling.FamilyID = s.fuelings[i].FamilyID
			fueling.PricePerLiter = PricePerLiter(fueling.TotalCost, fueling.Liters)
			s.fuelings[i] = fueling
			if s.remoteEnabledLocked() {
				s.syncRemote("upsert fueling", func() error { return s.remote.UpsertFueling(ctx, fueling) })
			}
			break
		}
	}
	s.persistLocked()
}

// RemoveFueling removes a fill-up by id.
func (s *Store) RemoveFueling(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.fuelings[:0]
	for _, f := range s.fuelings {
		if f.ID != id {
			out = append(out, f)
		}
	}
	s.fuelings = out
	if s.remoteEnabledLocked() {
		s.syncRemote("delete fueling", func() error { return s.remote.DeleteFueling(ctx, id) })
	}
	s.persistLocked()
}

// Trips returns a copy of the trip list.
func (s *Store) Trips() []models.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Trip(nil), s.trips...)
}

// AddTrip adds an incomplete trip.
func (s *Store) AddTrip(ctx context.Context, trip models.Trip) models.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	if trip.ID == "" {
		trip.ID = s.newID()
	}
	trip.IsCompleted = false
	trip.UserID = s.userID
	trip.FamilyID = s.familyID
	s.trips = append(s.trips, trip)
	if s.remoteEnabledLocked() {
		s.syncRemote("upsert trip", func() error { return s.remote.UpsertTrip(ctx, trip) })
	}
	s.persistLocked()
	return trip
}

// UpdateTrip replaces a trip by id.
func (s *Store) UpdateTrip(ctx context.Context, trip models.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.trips {
		if s.trips[i].ID == trip.ID {
			trip.UserID = s.trips[i].UserID
			trip.FamilyID = s.trips[i].FamilyID
			s.trips[i] = trip
			if s.remoteEnabledLocked() {
				s.syncRemote("upsert trip", func() error { return s.remote.UpsertTrip(ctx, trip) })
			}
			break
		}
	}
	s.persistLocked()
}

// ToggleTrip flips a trip's completion flag. Trips never recur.
func (s *Store) ToggleTrip(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.trips {
		if s.trips[i].ID == id {
			s.trips[i].IsCompleted = !s.trips[i].IsCompleted
			if s.remoteEnabledLocked() {
				toggled := s.trips[i]
				s.syncRemote("upsert trip", func() error { return s.remote.UpsertTrip(ctx, toggled) })
			}
			break
		}
	}
	s.persistLocked()
}

// RemoveTrip removes a trip by id.
func (s *Store) RemoveTrip(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.trips[:0]
	for _, t := range s.trips {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.trips = out
	if s.remoteEnabledLocked() {
		s.syncRemote("delete trip", func() error { return s.remote.DeleteTrip(ctx, id) })
	}
	s.persistLocked()
}

// Documents returns a copy of the document list.
func (s *Store) Documents() []models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Document(nil), s.documents...)
}

// AddDocument adds a document record.
func (s *Store) AddDocument(ctx context.Context, document models.Document) models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if document.ID == "" {
		document.ID = s.newID()
	}
	document.UserID = s.userID
	document.FamilyID = s.familyID
	s.documents = append(s.documents, document)
	if s.remoteEnabledLocked() {
		s.syncRemote("upsert document", func() error { return s.remote.UpsertDocument(ctx, document) })
	}
	s.persistLocked()
	return document
}

// UpdateDocument replaces a document record by id.
func (s *Store) UpdateDocument(ctx context.Context, document models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.documents {
		if s.documents[i].ID == document.ID {
			document.UserID = s.documents[i].UserID
			document.FamilyID = s.documents[i].FamilyID
			s.documents[i] = document
			if s.remoteEnabledLocked() {
				s.syncRemote("upsert document", func() error { return s.remote.UpsertDocument(ctx, document) })
			}
			break
		}
	}
	s.persistLocked()
}

// RemoveDocument removes a document record by id.
func (s *Store) RemoveDocument(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.documents[:0]
	for _, d := range s.documents {
		if d.ID != id {
			out = append(out, d)
		}
	}
	s.documents = out
	if s.remoteEnabledLocked() {
		s.syncRemote("delete document", func() error { return s.remote.DeleteDocument(ctx, id) })
	}
	s.persistLocked()
}

// Fines returns a copy of the fine list.
func (s *Store) Fines() []models.Fine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Fine(nil), s.fines...)
}

// AddFine adds a fine record.
func (s *Store) AddFine(ctx context.Context, fine models.Fine) models.Fine {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fine.ID == "" {
		fine.ID = s.newID()
	}
	fine.UserID = s.userID
	fine.FamilyID = s.familyID
	s.fines = append(s.fines, fine)
	if s.remoteEnabledLocked() {
		s.syncRemote("upsert fine", func() error { return s.remote.UpsertFine(ctx, fine) })
	}
	s.persistLocked()
	return fine
}

// UpdateFine replaces a fine record by id.
func (s *Store) UpdateFine(ctx context.Context, fine models.Fine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.fines {
		if s.fines[i].ID == fine.ID {
			fine.UserID = s.fines[i].UserID
			fine.FamilyID = s.fines[i].FamilyID
			s.fines[i] = fine
			if s.remoteEnabledLocked() {
				s.syncRemote("upsert fine", func() error { return s.remote.UpsertFine(ctx, fine) })
			}
			break
		}
	}
	s.persistLocked()
}

// RemoveFine removes a fine record by id.
func (s *Store) RemoveFine(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.fines[:0]
	for _, f := range s.fines {
		if f.ID != id {
			out = append(out, f)
		}
	}
	s.fines = out
	if s.remoteEnabledLocked() {
		s.syncRemote("delete fine", func() error { return s.remote.DeleteFine(ctx, id) })
	}
	s.persistLocked()
}
