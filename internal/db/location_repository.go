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

// mongoLocationRepository implements the LocationRepository interface using
// MongoDB.
type mongoLocationRepository struct {
	collection *mongo.Collection
}

// NewMongoLocationRepository creates a new instance of
// mongoLocationRepository.
func NewMongoLocationRepository(database *mongo.Database) LocationRepository {
	return &mongoLocationRepository{collection: database.Collection(LocationsCollection)}
}

func (r *mongoLocationRepository) GetByID(ctx context.Context, locationID string) (*models.Location, error) {
	oid, err := primitive.ObjectIDFromHex(locationID)
	if err != nil {
		return nil, fmt.Errorf("location with ID '%s': %w", locationID, ErrNotFound)
	}

	var location models.Location
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&location); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("location with ID '%s': %w", locationID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get location with ID '%s': %w", locationID, err)
	}
	return &location, nil
}

func (r *mongoLocationRepository) List(ctx context.Context, schoolID string) ([]models.Location, error) {
	filter := bson.M{}
	if schoolID != "" {
		oid, err := primitive.ObjectIDFromHex(schoolID)
		if err != nil {
			return nil, nil
		}
		filter["school"] = oid
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer cursor.Close(ctx)

	var locations []models.Location
	if err := cursor.All(ctx, &locations); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}
	return locations, nil
}

func (r *mongoLocationRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Location, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find locations by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	var locations []models.Location
	if err := cursor.All(ctx, &locations); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}
	return locations, nil
}

func (r *mongoLocationRepository) CountBySchool(ctx context.Context, schoolID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(schoolID)
	if err != nil {
		return 0, nil
	}
	count, err := r.collection.CountDocuments(ctx, bson.M{"school": oid})
	if err != nil {
		return 0, fmt.Errorf("failed to count locations in school '%s': %w", schoolID, err)
	}
	return count, nil
}

func (r *mongoLocationRepository) Create(ctx context.Context, location *models.Location) (string, error) {
	now := time.Now().UTC()
	location.ID = primitive.NewObjectID()
	location.CreatedAt = now
	location.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, location); err != nil {
		return "", fmt.Errorf("failed to create location: %w", err)
	}
	return location.ID.Hex(), nil
}

func (r *mongoLocationRepository) Update(ctx context.Context, location *models.Location) error {
	if location.ID.IsZero() {
		return errors.New("location ID cannot be empty for Update operation")
	}
	location.UpdatedAt = time.Now().UTC()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": location.ID}, location)
	if err != nil {
		return fmt.Errorf("failed to update location with ID '%s': %w", location.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("location with ID '%s': %w", location.ID.Hex(), ErrNotFound)
	}
	return nil
}

func (r *mongoLocationRepository) Delete(ctx context.Context, locationID string) error {
	oid, err := primitive.ObjectIDFromHex(locationID)
	if err != nil {
		return fmt.Errorf("location with ID '%s': %w", locationID, ErrNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete location with ID '%s': %w", locationID, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("location with ID '%s': %w", locationID, ErrNotFound)
	}
	return nil
}
