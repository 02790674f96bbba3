package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"edutrack-backend-go/internal/models"
)

// mongoDeviceLogRepository implements the DeviceLogRepository interface using
// MongoDB. The collection is append-only: nothing here updates or deletes.
type mongoDeviceLogRepository struct {
	collection *mongo.Collection
}

// NewMongoDeviceLogRepository creates a new instance of
// mongoDeviceLogRepository.
func NewMongoDeviceLogRepository(database *mongo.Database) DeviceLogRepository {
	return &mongoDeviceLogRepository{collection: database.Collection(DeviceLogsCollection)}
}

func (r *mongoDeviceLogRepository) Insert(ctx context.Context, entry *models.DeviceLog) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert device log: %w", err)
	}
	return nil
}

// buildLogFilter translates the typed filter into a bson query. It returns
// ok=false when a filter references an ID that cannot be valid ObjectID hex;
// such a filter matches nothing by construction.
func buildLogFilter(f models.LogFilter) (bson.M, bool) {
	filter := bson.M{}

	if f.Action != "" && f.Action != "all" {
		filter["action"] = f.Action
	}
	if f.DeviceID != "" {
		oid, err := primitive.ObjectIDFromHex(f.DeviceID)
		if err != nil {
			return nil, false
		}
		filter["device"] = oid
	}
	if f.UserID != "" {
		oid, err := primitive.ObjectIDFromHex(f.UserID)
		if err != nil {
			return nil, false
		}
		filter["performedBy"] = oid
	}
	if f.StartDate != nil || f.EndDate != nil {
		ts := bson.M{}
		if f.StartDate != nil {
			ts["$gte"] = *f.StartDate
		}
		if f.EndDate != nil {
			ts["$lte"] = *f.EndDate
		}
		filter["timestamp"] = ts
	}

	return filter, true
}

func (r *mongoDeviceLogRepository) Search(ctx context.Context, f models.LogFilter, skip, limit int64) ([]models.DeviceLog, int64, error) {
	filter, ok := buildLogFilter(f)
	if !ok {
		return nil, 0, nil
	}

	totalCount, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count device logs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query device logs: %w", err)
	}
	defer cursor.Close(ctx)

	var logs []models.DeviceLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode device logs: %w", err)
	}

	return logs, totalCount, nil
}

// EnsureIndexes creates the secondary indexes backing the filtered,
// timestamp-ordered queries.
func (r *mongoDeviceLogRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "device", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "performedBy", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "action", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
