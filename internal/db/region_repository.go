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

// mongoRegionRepository implements the RegionRepository interface using
// MongoDB.
type mongoRegionRepository struct {
	collection *mongo.Collection
}

// NewMongoRegionRepository creates a new instance of mongoRegionRepository.
func NewMongoRegionRepository(database *mongo.Database) RegionRepository {
	return &mongoRegionRepository{collection: database.Collection(RegionsCollection)}
}

func (r *mongoRegionRepository) GetByID(ctx context.Context, regionID string) (*models.Region, error) {
	oid, err := primitive.ObjectIDFromHex(regionID)
	if err != nil {
		return nil, fmt.Errorf("region with ID '%s': %w", regionID, ErrNotFound)
	}

	var region models.Region
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&region); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("region with ID '%s': %w", regionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get region with ID '%s': %w", regionID, err)
	}
	return &region, nil
}

func (r *mongoRegionRepository) GetByName(ctx context.Context, name, excludeID string) (*models.Region, error) {
	filter := bson.M{"name": name}
	if excludeID != "" {
		if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			filter["_id"] = bson.M{"$ne": oid}
		}
	}

	var region models.Region
	if err := r.collection.FindOne(ctx, filter).Decode(&region); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up region by name: %w", err)
	}
	return &region, nil
}

func (r *mongoRegionRepository) List(ctx context.Context) ([]models.Region, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	defer cursor.Close(ctx)

	var regions []models.Region
	if err := cursor.All(ctx, &regions); err != nil {
		return nil, fmt.Errorf("failed to decode regions: %w", err)
	}
	return regions, nil
}

func (r *mongoRegionRepository) Create(ctx context.Context, region *models.Region) (string, error) {
	now := time.Now().UTC()
	region.ID = primitive.NewObjectID()
	region.CreatedAt = now
	region.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, region); err != nil {
		return "", fmt.Errorf("failed to create region: %w", err)
	}
	return region.ID.Hex(), nil
}

func (r *mongoRegionRepository) Update(ctx context.Context, region *models.Region) error {
	if region.ID.IsZero() {
		return errors.New("region ID cannot be empty for Update operation")
	}
	region.UpdatedAt = time.Now().UTC()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": region.ID}, region)
	if err != nil {
		return fmt.Errorf("failed to update region with ID '%s': %w", region.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("region with ID '%s': %w", region.ID.Hex(), ErrNotFound)
	}
	return nil
}

func (r *mongoRegionRepository) Delete(ctx context.Context, regionID string) error {
	oid, err := primitive.ObjectIDFromHex(regionID)
	if err != nil {
		return fmt.Errorf("region with ID '%s': %w", regionID, ErrNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete region with ID '%s': %w", regionID, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("region with ID '%s': %w", regionID, ErrNotFound)
	}
	return nil
}
