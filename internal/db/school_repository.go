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

// mongoSchoolRepository implements the SchoolRepository interface using
// MongoDB.
type mongoSchoolRepository struct {
	collection *mongo.Collection
}

// NewMongoSchoolRepository creates a new instance of mongoSchoolRepository.
func NewMongoSchoolRepository(database *mongo.Database) SchoolRepository {
	return &mongoSchoolRepository{collection: database.Collection(SchoolsCollection)}
}

func (r *mongoSchoolRepository) GetByID(ctx context.Context, schoolID string) (*models.School, error) {
	oid, err := primitive.ObjectIDFromHex(schoolID)
	if err != nil {
		return nil, fmt.Errorf("school with ID '%s': %w", schoolID, ErrNotFound)
	}

	var school models.School
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&school); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("school with ID '%s': %w", schoolID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get school with ID '%s': %w", schoolID, err)
	}
	return &school, nil
}

func (r *mongoSchoolRepository) List(ctx context.Context, regionID string) ([]models.School, error) {
	filter := bson.M{}
	if regionID != "" {
		oid, err := primitive.ObjectIDFromHex(regionID)
		if err != nil {
			return nil, nil
		}
		filter["region"] = oid
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	defer cursor.Close(ctx)

	var schools []models.School
	if err := cursor.All(ctx, &schools); err != nil {
		return nil, fmt.Errorf("failed to decode schools: %w", err)
	}
	return schools, nil
}

func (r *mongoSchoolRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.School, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find schools by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	var schools []models.School
	if err := cursor.All(ctx, &schools); err != nil {
		return nil, fmt.Errorf("failed to decode schools: %w", err)
	}
	return schools, nil
}

func (r *mongoSchoolRepository) CountByRegion(ctx context.Context, regionID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(regionID)
	if err != nil {
		return 0, nil
	}
	count, err := r.collection.CountDocuments(ctx, bson.M{"region": oid})
	if err != nil {
		return 0, fmt.Errorf("failed to count schools in region '%s': %w", regionID, err)
	}
	return count, nil
}

func (r *mongoSchoolRepository) Create(ctx context.Context, school *models.School) (string, error) {
	now := time.Now().UTC()
	school.ID = primitive.NewObjectID()
	school.CreatedAt = now
	school.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, school); err != nil {
		return "", fmt.Errorf("failed to create school: %w", err)
	}
	return school.ID.Hex(), nil
}

func (r *mongoSchoolRepository) Update(ctx context.Context, school *models.School) error {
	if school.ID.IsZero() {
		return errors.New("school ID cannot be empty for Update operation")
	}
	school.UpdatedAt = time.Now().UTC()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": school.ID}, school)
	if err != nil {
		return fmt.Errorf("failed to update school with ID '%s': %w", school.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("school with ID '%s': %w", school.ID.Hex(), ErrNotFound)
	}
	return nil
}

func (r *mongoSchoolRepository) Delete(ctx context.Context, schoolID string) error {
	oid, err := primitive.ObjectIDFromHex(schoolID)
	if err != nil {
		return fmt.Errorf("school with ID '%s': %w", schoolID, ErrNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete school with ID '%s': %w", schoolID, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("school with ID '%s': %w", schoolID, ErrNotFound)
	}
	return nil
}
