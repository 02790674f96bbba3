package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"edutrack-backend-go/internal/models"
)

// ErrNotFound is returned when a referenced document does not exist. An ID
// that is not valid ObjectID hex is treated the same way: such a document
// cannot exist.
var ErrNotFound = errors.New("document not found")

// UserRepository defines the interface for user data storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByUsernameOrEmail returns a user matching either value, skipping
	// excludeID when non-empty. Used for duplicate checks.
	FindByUsernameOrEmail(ctx context.Context, username, email, excludeID string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) (string, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID string) error
}

// RegionRepository defines the interface for region data storage operations.
type RegionRepository interface {
	GetByID(ctx context.Context, regionID string) (*models.Region, error)
	// GetByName returns a region with the given name, skipping excludeID when
	// non-empty. Region names are unique.
	GetByName(ctx context.Context, name, excludeID string) (*models.Region, error)
	List(ctx context.Context) ([]models.Region, error)
	Create(ctx context.Context, region *models.Region) (string, error)
	Update(ctx context.Context, region *models.Region) error
	Delete(ctx context.Context, regionID string) error
}

// SchoolRepository defines the interface for school data storage operations.
type SchoolRepository interface {
	GetByID(ctx context.Context, schoolID string) (*models.School, error)
	List(ctx context.Context, regionID string) ([]models.School, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.School, error)
	CountByRegion(ctx context.Context, regionID string) (int64, error)
	Create(ctx context.Context, school *models.School) (string, error)
	Update(ctx context.Context, school *models.School) error
	Delete(ctx context.Context, schoolID string) error
}

// LocationRepository defines the interface for location data storage
// operations.
type LocationRepository interface {
	GetByID(ctx context.Context, locationID string) (*models.Location, error)
	List(ctx context.Context, schoolID string) ([]models.Location, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Location, error)
	CountBySchool(ctx context.Context, schoolID string) (int64, error)
	Create(ctx context.Context, location *models.Location) (string, error)
	Update(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, locationID string) error
}

// DeviceRepository defines the interface for device data storage operations.
type DeviceRepository interface {
	GetByID(ctx context.Context, deviceID string) (*models.Device, error)
	// List returns devices, optionally restricted to a location or, failing
	// that, a school.
	List(ctx context.Context, locationID, schoolID string) ([]models.Device, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Device, error)
	CountByLocation(ctx context.Context, locationID string) (int64, error)
	CountBySchool(ctx context.Context, schoolID string) (int64, error)
	Create(ctx context.Context, device *models.Device) (string, error)
	Update(ctx context.Context, device *models.Device) error
	UpdateStatus(ctx context.Context, deviceID string, status models.DeviceStatus) error
	Delete(ctx context.Context, deviceID string) error
}

// DeviceLogRepository defines the interface for the append-only device log.
// There is deliberately no update or delete: entries are immutable once
// written.
type DeviceLogRepository interface {
	Insert(ctx context.Context, entry *models.DeviceLog) error
	// Search returns one page of entries matching the filter, newest first,
	// along with the total match count.
	Search(ctx context.Context, filter models.LogFilter, skip, limit int64) ([]models.DeviceLog, int64, error)
	EnsureIndexes(ctx context.Context) error
}
