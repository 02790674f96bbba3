package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"edutrack-backend-go/internal/models"
)

// mongoDeviceRepository implements the DeviceRepository interface using
// MongoDB.
type mongoDeviceRepository struct {
	collection *mongo.Collection
}

// NewMongoDeviceRepository creates a new instance of mongoDeviceRepository.
func NewMongoDeviceRepository(database *mongo.Database) DeviceRepository {
	return &mongoDeviceRepository{collection: database.Collection(DevicesCollection)}
}

func (r *mongoDeviceRepository) GetByID(ctx context.Context, deviceID string) (*models.Device, error) {
	oid, err := primitive.ObjectIDFromHex(deviceID)
	if err != nil {
		return nil, fmt.Errorf("device with ID '%s': %w", deviceID, ErrNotFound)
	}

	var device models.Device
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&device); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("device with ID '%s': %w", deviceID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get device with ID '%s': %w", deviceID, err)
	}
	return &device, nil
}

func (r *mongoDeviceRepository) List(ctx context.Context, locationID, schoolID string) ([]models.Device, error) {
	filter := bson.M{}
	if locationID != "" {
		oid, err := primitive.ObjectIDFromHex(locationID)
		if err != nil {
			return nil, nil
		}
		filter["location"] = oid
	} else if schoolID != "" {
		oid, err := primitive.ObjectIDFromHex(schoolID)
		if err != nil {
			return nil, nil
		}
		filter["school"] = oid
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer cursor.Close(ctx)

	var devices []models.Device
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, fmt.Errorf("failed to decode devices: %w", err)
	}
	return devices, nil
}

func (r *mongoDeviceRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Device, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find devices by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	var devices []models.Device
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, fmt.Errorf("failed to decode devices: %w", err)
	}
	return devices, nil
}

func (r *mongoDeviceRepository) CountByLocation(ctx context.Context, locationID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(locationID)
	if err != nil {
		return 0, nil
	}
	count, err := r.collection.CountDocuments(ctx, bson.M{"location": oid})
	if err != nil {
		return 0, fmt.Errorf("failed to count devices at location '%s': %w", locationID, err)
	}
	return count, nil
}

func (r *mongoDeviceRepository) CountBySchool(ctx context.Context, schoolID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(schoolID)
	if err != nil {
		return 0, nil
	}
	count, err := r.collection.CountDocuments(ctx, bson.M{"school": oid})
	if err != nil {
		return 0, fmt.Errorf("failed to count devices in school '%s': %w", schoolID, err)
	}
	return count, nil
}

func (r *mongoDeviceRepository) Create(ctx context.Context, device *models.Device) (string, error) {
	now := time.Now().UTC()
	device.ID = primitive.NewObjectID()
	device.CreatedAt = now
	device.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, device); err != nil {
		return "", fmt.Errorf("failed to create device: %w", err)
	}
	return device.ID.Hex(), nil
}

func (r *mongoDeviceRepository) Update(ctx context.Context, device *models.Device) error {
	if device.ID.IsZero() {
		return errors.New("device ID cannot be empty for Update operation")
	}
	device.UpdatedAt = time.Now().UTC()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": device.ID}, device)
	if err != nil {
		return fmt.Errorf("failed to update device with ID '%s': %w", device.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("device with ID '%s': %w", device.ID.Hex(), ErrNotFound)
	}
	return nil
}

func (r *mongoDeviceRepository) UpdateStatus(ctx context.Context, deviceID string, status models.DeviceStatus) error {
	oid, err := primitive.ObjectIDFromHex(deviceID)
	if err != nil {
		return fmt.Errorf("device with ID '%s': %w", deviceID, ErrNotFound)
	}

	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update status of device '%s': %w", deviceID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("device with ID '%s': %w", deviceID, ErrNotFound)
	}
	return nil
}

func (r *mongoDeviceRepository) Delete(ctx context.Context, deviceID string) error {
	oid, err := primitive.ObjectIDFromHex(deviceID)
	if err != nil {
		return fmt.Errorf("device with ID '%s': %w", deviceID, ErrNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete device with ID '%s': %w", deviceID, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("device with ID '%s': %w", deviceID, ErrNotFound)
	}
	return nil
}
