// Package store holds the client-side state container: the local copy of a
// user's collections, persisted between sessions and pushed to the remote
// record store best-effort after every mutation (last write wins). It is an
// explicit container handed to its callers, never a package-level singleton.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mvilar/controlcar/internal/db"
	"github.com/mvilar/controlcar/internal/models"
)

// OfflineUserID marks a session that must never touch the remote store.
const OfflineUserID = "offline"

// Remote is the record-store surface the container syncs against.
type Remote interface {
	db.VehicleCollection
	db.ReminderCollection
	db.DocumentCollection
	db.FineCollection
	db.FuelingCollection
	db.TripCollection
}

// Store is the per-session state container.
type Store struct {
	mu      sync.Mutex
	persist Persister
	remote  Remote

	userID   string
	familyID string

	vehicles  []models.Vehicle
	fuelings  []models.Fueling
	reminders []models.Reminder
	trips     []models.Trip
	documents []models.Document
	fines     []models.Fine

	syncEnabled bool
	lastSyncAt  time.Time

	now   func() time.Time
	newID func() string
}

// New creates an empty container. remote may be nil for offline-only use.
func New(persist Persister, remote Remote) *Store {
	return &Store{
		persist: persist,
		remote:  remote,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// SignIn initializes the session: restore the persisted snapshot when it
// belongs to the same user, then pull remote data on top of it. Remote wins
// over local state, matching the last-write-wins sync model.
func (s *Store) SignIn(ctx context.Context, userID, familyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userID = userID
	s.familyID = familyID
	s.resetLocked()

	if s.persist != nil {
		snapshot, err := s.persist.Load()
		if err != nil {
			return err
		}
		if snapshot != nil && snapshot.UserID == userID {
			s.applySnapshotLocked(snapshot)
		}
	}

	if s.remoteEnabledLocked() {
		if err := s.pullRemoteLocked(ctx); err != nil {
			return err
		}
		s.syncEnabled = true
		s.lastSyncAt = s.now()
	}

	s.persistLocked()
	return nil
}

// SignOut tears the session down and clears persisted state.
func (s *Store) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	s.familyID = ""
	s.syncEnabled = false
	s.resetLocked()
	s.persistLocked()
}

func (s *Store) resetLocked() {
	s.vehicles = nil
	s.fuelings = nil
	s.reminders = nil
	s.trips = nil
	s.documents = nil
	s.fines = nil
}

func (s *Store) applySnapshotLocked(snapshot *Snapshot) {
	s.vehicles = snapshot.Vehicles
	s.reminders = snapshot.Reminders
	s.trips = snapshot.Trips
	s.documents = snapshot.Documents
	s.fines = snapshot.Fines
	s.fuelings = make([]models.Fueling, len(snapshot.Fuelings))
	for i, f := range snapshot.Fuelings {
		f.PricePerLiter = PricePerLiter(f.TotalCost, f.Liters)
		s.fuelings[i] = f
	}
}

func (s *Store) pullRemoteLocked(ctx context.Context) error {
	var (
		vehicles  []models.Vehicle
		reminders []models.Reminder
		documents []models.Document
		fines     []models.Fine
		err       error
	)
	if s.familyID != "" {
		vehicles, err = s.remote.ListVehiclesByFamily(ctx, s.familyID)
		if err == nil {
			reminders, err = s.remote.ListRemindersByFamily(ctx, s.familyID)
		}
		if err == nil {
			documents, err = s.remote.ListDocumentsByFamily(ctx, s.familyID)
		}
		if err == nil {
			fines, err = s.remote.ListFinesByFamily(ctx, s.familyID)
		}
	} else {
		vehicles, err = s.remote.ListVehiclesByUser(ctx, s.userID)
		if err == nil {
			reminders, err = s.remote.ListRemindersByUser(ctx, s.userID)
		}
		if err == nil {
			documents, err = s.remote.ListDocumentsByUser(ctx, s.userID)
		}
		if err == nil {
			fines, err = s.remote.ListFinesByUser(ctx, s.userID)
		}
	}
	if err != nil {
		return err
	}
	fuelings, err := s.remote.ListFuelingsByUser(ctx, s.userID)
	if err != nil {
		return err
	}
	trips, err := s.remote.ListTripsByUser(ctx, s.userID)
	if err != nil {
		return err
	}

	s.vehicles = vehicles
	s.reminders = reminders
	s.documents = documents
	s.fines = fines
	s.trips = trips
	s.fuelings = make([]models.Fueling, len(fuelings))
	for i, f := range fuelings {
		f.PricePerLiter = PricePerLiter(f.TotalCost, f.Liters)
		s.fuelings[i] = f
	}
	return nil
}

func (s *Store) remoteEnabledLocked() bool {
	return s.remote != nil && s.userID != "" && s.userID != OfflineUserID
}

func (s *Store) persistLocked() {
	if s.persist == nil {
		return
	}
	snapshot := Snapshot{
		UserID:    s.userID,
		FamilyID:  s.familyID,
		Vehicles:  s.vehicles,
		Fuelings:  s.fuelings,
		Reminders: s.reminders,
		Trips:     s.trips,
		Documents: s.documents,
		Fines:     s.fines,
	}
	if !s.lastSyncAt.IsZero() {
		t := s.lastSyncAt
		snapshot.LastSyncAt = &t
	}
	if err := s.persist.Save(snapshot); err != nil {
		log.WithError(err).Error("failed to persist local state")
	}
}

// syncRemote runs a best-effort remote write. Sync failures are logged and
// never fail the local mutation; the next full pull reconciles.
func (s *Store) syncRemote(what string, fn func() error) {
	if err := fn(); err != nil {
		log.WithError(err).WithField("op", what).Error("remote sync failed")
		return
	}
	s.lastSyncAt = s.now()
}

// SyncEnabled reports whether remote sync is active for this session.
func (s *Store) SyncEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncEnabled
}

// LastSyncAt returns the time of the last successful remote write or pull.
func (s *Store) LastSyncAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSyncAt
}

// Vehicles returns a copy of the vehicle list.
func (s *Store) Vehicles() []models.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Vehicle(nil), s.vehicles...)
}

// AddVehicle adds a vehicle, assigning identity and ownership.
func (s *Store) AddVehicle(ctx context.Context, vehicle models.Vehicle) models.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if vehicle.ID == "" {
		vehicle.ID = s.newID()
	}
	vehicle.UserID = s.userID
	vehicle.FamilyID = s.familyID
	vehicle.CreatedAt = s.now()
	s.vehicles = append(s.vehicles, vehicle)
	if s.remoteEnabledLocked() {
		s.syncRemote("upsert vehicle", func() error { return s.remote.UpsertVehicle(ctx, vehicle) })
	}
	s.persistLocked()
	return vehicle
}

// UpdateVehicle replaces a vehicle by id.
func (s *Store) UpdateVehicle(ctx context.Context, vehicle models.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.vehicles {
		if s.vehicles[i].ID == vehicle.ID {
			vehicle.UserID = s.vehicles[i].UserID
			vehicle.FamilyID = s.vehicles[i].FamilyID
			s.vehicles[i] = vehicle
			if s.remoteEnabledLocked() {
				s.syncRemote("upsert vehicle", func() error { return s.remote.UpsertVehicle(ctx, vehicle) })
			}
			break
		}
	}
	s.persistLocked()
}

// UpdateVehicleMileage sets a vehicle's current odometer reading.
func (s *Store) UpdateVehicleMileage(ctx context.Context, id string, mileage int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.vehicles {
		if s.vehicles[i].ID == id {
			s.vehicles[i].CurrentMileage = mileage
			if s.remoteEnabledLocked() {
				s.syncRemote("update mileage", func() error { return s.remote.UpdateVehicleMileage(ctx, id, mileage) })
			}
			break
		}
	}
	s.persistLocked()
}

// RemoveVehicle removes a vehicle and cascades over its fuelings, reminders,
// documents and fines, locally and remotely.
func (s *Store) RemoveVehicle(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles = filterVehicles(s.vehicles, id)
	s.fuelings = filterFuelingsByVehicle(s.fuelings, id)
	s.reminders = filterRemindersByVehicle(s.reminders, id)
	s.documents = filterDocumentsByVehicle(s.documents, id)
	s.fines = filterFinesByVehicle(s.fines, id)
	if s.remoteEnabledLocked() {
		s.syncRemote("remove vehicle cascade", func() error { return s.remote.RemoveVehicleCascade(ctx, id) })
	}
	s.persistLocked()
}

func filterVehicles(in []models.Vehicle, id string) []models.Vehicle {
	out := in[:0]
	for _, v := range in {
		if v.ID != id {
			out = append(out, v)
		}
	}
	return out
}

func filterFuelingsByVehicle(in []models.Fueling, vehicleID string) []models.Fueling {
	out := in[:0]
	for _, f := range in {
		if f.VehicleID != vehicleID {
			out = append(out, f)
		}
	}
	return out
}

func filterRemindersByVehicle(in []models.Reminder, vehicleID string) []models.Reminder {
	out := in[:0]
	for _, r := range in {
		if r.VehicleID != vehicleID {
			out = append(out, r)
		}
	}
	return out
}

func filterDocumentsByVehicle(in []models.Document, vehicleID string) []models.Document {
	out := in[:0]
	for _, d := range in {
		if d.VehicleID != vehicleID {
			out = append(out, d)
		}
	}
	return out
}

func filterFinesByVehicle(in []models.Fine, vehicleID string) []models.Fine {
	out := in[:0]
	for _, f := range in {
		if f.VehicleID != vehicleID {
			out = append(out, f)
		}
	}
	return out
}
