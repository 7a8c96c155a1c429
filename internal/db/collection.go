package db

import (
	"context"

	"github.com/mvilar/controlcar/internal/models"
)

// TokenDirectory defines the interface over the notification token collection.
type TokenDirectory interface {
	ListAllTokens(ctx context.Context) ([]models.NotificationToken, error)
	InsertToken(ctx context.Context, token models.NotificationToken) error
	DeleteToken(ctx context.Context, userID, token string) error
}

// ReminderCollection defines the interface for maintenance reminder operations.
type ReminderCollection interface {
	ListRemindersByUser(ctx context.Context, userID string) ([]models.Reminder, error)
	ListRemindersByFamily(ctx context.Context, familyID string) ([]models.Reminder, error)
	UpsertReminder(ctx context.Context, reminder models.Reminder) error
	DeleteReminder(ctx context.Context, id string) error
}

// VehicleCollection defines the interface for vehicle operations. Removing a
// vehicle cascades over its dependent records, so dangling references never
// reach the evaluator.
type VehicleCollection interface {
	ListVehiclesByUser(ctx context.Context, userID string) ([]models.Vehicle, error)
	ListVehiclesByFamily(ctx context.Context, familyID string) ([]models.Vehicle, error)
	UpsertVehicle(ctx context.Context, vehicle models.Vehicle) error
	UpdateVehicleMileage(ctx context.Context, id string, mileage int) error
	RemoveVehicleCascade(ctx context.Context, id string) error
}

// DocumentCollection defines the interface for document record operations.
type DocumentCollection interface {
	ListDocumentsByUser(ctx context.Context, userID string) ([]models.Document, error)
	ListDocumentsByFamily(ctx context.Context, familyID string) ([]models.Document, error)
	UpsertDocument(ctx context.Context, document models.Document) error
	DeleteDocument(ctx context.Context, id string) error
}

// FineCollection defines the interface for fine record operations.
type FineCollection interface {
	ListFinesByUser(ctx context.Context, userID string) ([]models.Fine, error)
	ListFinesByFamily(ctx context.Context, familyID string) ([]models.Fine, error)
	UpsertFine(ctx context.Context, fine models.Fine) error
	DeleteFine(ctx context.Context, id string) error
}

// FuelingCollection defines the interface for fueling record operations.
type FuelingCollection interface {
	ListFuelingsByUser(ctx context.Context, userID string) ([]models.Fueling, error)
	UpsertFueling(ctx context.Context, fueling models.Fueling) error
	DeleteFueling(ctx context.Context, id string) error
}

// TripCollection defines the interface for trip record operations.
type TripCollection interface {
	ListTripsByUser(ctx context.Context, userID string) ([]models.Trip, error)
	UpsertTrip(ctx context.Context, trip models.Trip) error
	DeleteTrip(ctx context.Context, id string) error
}
