package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"edutrack-backend-go/internal/config"
)

// Collection names.
const (
	UsersCollection      = "users"
	RegionsCollection    = "regions"
	SchoolsCollection    = "schools"
	LocationsCollection  = "locations"
	DevicesCollection    = "devices"
	DeviceLogsCollection = "device_logs"
)

const defaultConnectTimeout = 20 * time.Second

// Store owns the MongoDB client for the process. It is constructed once at
// startup, handed to the repositories, and closed at shutdown; there is no
// package-level client.
type Store struct {
	client   *mongo.Client
	database *mongo.Database
}

// Connect dials MongoDB using the URI and database from cfg and verifies the
// connection with a ping before returning.
func Connect(ctx context.Context, cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongodb config is required")
	}

	connectCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(defaultConnectTimeout).
		SetConnectTimeout(defaultConnectTimeout)

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{
		client:   client,
		database: client.Database(cfg.MongoDatabase),
	}, nil
}

// Database returns the handle repositories are built on.
func (s *Store) Database() *mongo.Database {
	return s.database
}

// Disconnect closes the underlying client.
func (s *Store) Disconnect(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}

	disconnectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.client.Disconnect(disconnectCtx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}
