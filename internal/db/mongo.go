package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mvilar/controlcar/internal/models"
)

// Collection names. The maintenances collection kept its historical name
// after the rename from "reminders".
const (
	CollectionVehicles  = "vehicles"
	CollectionReminders = "maintenances"
	CollectionDocuments = "documents"
	CollectionFines     = "fines"
	CollectionFuelings  = "fuelings"
	CollectionTrips     = "trips"
	CollectionTokens    = "notificationTokens"
)

// Connect connects to MongoDB and verifies the connection with a ping.
func Connect(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// MongoStore implements every record collection interface over one database.
type MongoStore struct {
	DB *mongo.Database
}

// NewMongoStore wraps a database handle.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{DB: db}
}

func (s *MongoStore) coll(name string) *mongo.Collection {
	return s.DB.Collection(name)
}

func upsert(ctx context.Context, coll *mongo.Collection, id string, doc interface{}) error {
	if id == "" {
		return fmt.Errorf("record has no id")
	}
	opts := options.Replace().SetUpsert(true)
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, opts)
	return err
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Tokens

// ListAllTokens returns every registered device token across all users.
func (s *MongoStore) ListAllTokens(ctx context.Context) ([]models.NotificationToken, error) {
	cursor, err := s.coll(CollectionTokens).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var tokens []models.NotificationToken
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// InsertToken registers a device token for a user.
func (s *MongoStore) InsertToken(ctx context.Context, token models.NotificationToken) error {
	token.CreatedAt = time.Now()
	_, err := s.coll(CollectionTokens).InsertOne(ctx, token)
	return err
}

// DeleteToken removes one device token for a user (device opt-out).
func (s *MongoStore) DeleteToken(ctx context.Context, userID, token string) error {
	_, err := s.coll(CollectionTokens).DeleteMany(ctx, bson.M{"userId": userID, "token": token})
	return err
}

// Reminders

// ListRemindersByUser returns all maintenance reminders owned by a user.
func (s *MongoStore) ListRemindersByUser(ctx context.Context, userID string) ([]models.Reminder, error) {
	return s.findReminders(ctx, bson.M{"userId": userID})
}

// ListRemindersByFamily returns all maintenance reminders in a family scope.
func (s *MongoStore) ListRemindersByFamily(ctx context.Context, familyID string) ([]models.Reminder, error) {
	return s.findReminders(ctx, bson.M{"familyId": familyID})
}

func (s *MongoStore) findReminders(ctx context.Context, filter bson.M) ([]models.Reminder, error) {
	cursor, err := s.coll(CollectionReminders).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var reminders []models.Reminder
	if err := cursor.All(ctx, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

// UpsertReminder writes a reminder, replacing any previous version of the
// same id (last write wins).
func (s *MongoStore) UpsertReminder(ctx context.Context, reminder models.Reminder) error {
	return upsert(ctx, s.coll(CollectionReminders), reminder.ID, reminder)
}

// DeleteReminder removes a reminder by id.
func (s *MongoStore) DeleteReminder(ctx context.Context, id string) error {
	return deleteByID(ctx, s.coll(CollectionReminders), id)
}

// Vehicles

// ListVehiclesByUser returns all vehicles owned by a user.
func (s *MongoStore) ListVehiclesByUser(ctx context.Context, userID string) ([]models.Vehicle, error) {
	return s.findVehicles(ctx, bson.M{"userId": userID})
}

// ListVehiclesByFamily returns all vehicles in a family scope.
func (s *MongoStore) ListVehiclesByFamily(ctx context.Context, familyID string) ([]models.Vehicle, error) {
	return s.findVehicles(ctx, bson.M{"familyId": familyID})
}

func (s *MongoStore) findVehicles(ctx context.Context, filter bson.M) ([]models.Vehicle, error) {
	cursor, err := s.coll(CollectionVehicles).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var vehicles []models.Vehicle
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// UpsertVehicle writes a vehicle, replacing any previous version.
func (s *MongoStore) UpsertVehicle(ctx context.Context, vehicle models.Vehicle) error {
	return upsert(ctx, s.coll(CollectionVehicles), vehicle.ID, vehicle)
}

// UpdateVehicleMileage sets the current odometer reading of a vehicle.
func (s *MongoStore) UpdateVehicleMileage(ctx context.Context, id string, mileage int) error {
	res, err := s.coll(CollectionVehicles).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"currentMileage": mileage}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveVehicleCascade deletes a vehicle and every record referencing it.
// Fuelings, reminders, documents and fines cascade; trips do not reference a
// vehicle strictly and are kept.
func (s *MongoStore) RemoveVehicleCascade(ctx context.Context, id string) error {
	if err := deleteByID(ctx, s.coll(CollectionVehicles), id); err != nil {
		return err
	}
	filter := bson.M{"vehicleId": id}
	for _, name := range []string{CollectionFuelings, CollectionReminders, CollectionDocuments, CollectionFines} {
		if _, err := s.coll(name).DeleteMany(ctx, filter); err != nil {
			return fmt.Errorf("cascade delete on %s: %w", name, err)
		}
	}
	return nil
}

// Documents

// ListDocumentsByUser returns all document records owned by a user.
func (s *MongoStore) ListDocumentsByUser(ctx context.Context, userID string) ([]models.Document, error) {
	return s.findDocuments(ctx, bson.M{"userId": userID})
}

// ListDocumentsByFamily returns all document records in a family scope.
func (s *MongoStore) ListDocumentsByFamily(ctx context.Context, familyID string) ([]models.Document, error) {
	return s.findDocuments(ctx, bson.M{"familyId": familyID})
}

func (s *MongoStore) findDocuments(ctx context.Context, filter bson.M) ([]models.Document, error) {
	cursor, err := s.coll(CollectionDocuments).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var documents []models.Document
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, err
	}
	return documents, nil
}

// UpsertDocument writes a document record, replacing any previous version.
func (s *MongoStore) UpsertDocument(ctx context.Context, document models.Document) error {
	return upsert(ctx, s.coll(CollectionDocuments), document.ID, document)
}

// DeleteDocument removes a document record by id.
func (s *MongoStore) DeleteDocument(ctx context.Context, id string) error {
	return deleteByID(ctx, s.coll(CollectionDocuments), id)
}

// Fines

// ListFinesByUser returns all fines owned by a user.
func (s *MongoStore) ListFinesByUser(ctx context.Context, userID string) ([]models.Fine, error) {
	return s.findFines(ctx, bson.M{"userId": userID})
}

// ListFinesByFamily returns all fines in a family scope.
func (s *MongoStore) ListFinesByFamily(ctx context.Context, familyID string) ([]models.Fine, error) {
	return s.findFines(ctx, bson.M{"familyId": familyID})
}

func (s *MongoStore) findFines(ctx context.Context, filter bson.M) ([]models.Fine, error) {
	cursor, err := s.coll(CollectionFines).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var fines []models.Fine
	if err := cursor.All(ctx, &fines); err != nil {
		return nil, err
	}
	return fines, nil
}

// UpsertFine writes a fine, replacing any previous version.
func (s *MongoStore) UpsertFine(ctx context.Context, fine models.Fine) error {
	return upsert(ctx, s.coll(CollectionFines), fine.ID, fine)
}

// DeleteFine removes a fine by id.
func (s *MongoStore) DeleteFine(ctx context.Context, id string) error {
	return deleteByID(ctx, s.coll(CollectionFines), id)
}

// Fuelings

// ListFuelingsByUser returns all fuelings owned by a user.
func (s *MongoStore) ListFuelingsByUser(ctx context.Context, userID string) ([]models.Fueling, error) {
	cursor, err := s.coll(CollectionFuelings).Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	var fuelings []models.Fueling
	if err := cursor.All(ctx, &fuelings); err != nil {
		return nil, err
	}
	return fuelings, nil
}

// UpsertFueling writes a fueling, replacing any previous version.
func (s *MongoStore) UpsertFueling(ctx context.Context, fueling models.Fueling) error {
	return upsert(ctx, s.coll(CollectionFuelings), fueling.ID, fueling)
}

// DeleteFueling removes a fueling by id.
func (s *MongoStore) DeleteFueling(ctx context.Context, id string) error {
	return deleteByID(ctx, s.coll(CollectionFuelings), id)
}

// Trips

// ListTripsByUser returns all trips owned by a user.
func (s *MongoStore) ListTripsByUser(ctx context.Context, userID string) ([]models.Trip, error) {
	cursor, err := s.coll(CollectionTrips).Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	var trips []models.Trip
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// UpsertTrip writes a trip, replacing any previous version.
func (s *MongoStore) UpsertTrip(ctx context.Context, trip models.Trip) error {
	return upsert(ctx, s.coll(CollectionTrips), trip.ID, trip)
}

// DeleteTrip removes a trip by id.
func (s *MongoStore) DeleteTrip(ctx context.Context, id string) error {
	return deleteByID(ctx, s.coll(CollectionTrips), id)
}
