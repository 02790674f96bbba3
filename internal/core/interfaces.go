package core

import (
	"context"
	"errors"
	"net/http"

	"edutrack-backend-go/internal/models"
)

// ErrForbidden is returned when the actor's role does not permit the
// requested operation. Credential validity is the middleware's concern; by
// the time a service sees an Actor the token has already been verified.
var ErrForbidden = errors.New("insufficient role for this action")

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   string
	Role models.Role
}

// AuthService defines token issuance and verification.
type AuthService interface {
	// Login checks the credentials and returns a signed bearer token plus
	// the user it identifies.
	Login(ctx context.Context, req models.LoginRequest) (string, *models.User, error)
	// VerifyToken validates a bearer token and extracts the actor.
	VerifyToken(token string) (Actor, error)
	GetProfile(ctx context.Context, actorID string) (*models.UserView, error)
}

// UserService defines admin-only user management.
type UserService interface {
	ListUsers(ctx context.Context, actor Actor) ([]models.UserView, error)
	CreateUser(ctx context.Context, actor Actor, req models.CreateUserRequest) (*models.UserView, error)
	UpdateUser(ctx context.Context, actor Actor, userID string, req models.UpdateUserRequest) (*models.UserView, error)
	DeleteUser(ctx context.Context, actor Actor, userID string) error
}

// RegionService defines region management.
type RegionService interface {
	ListRegions(ctx context.Context) ([]models.Region, error)
	GetRegion(ctx context.Context, regionID string) (*models.Region, error)
	CreateRegion(ctx context.Context, actor Actor, req models.CreateRegionRequest) (*models.Region, error)
	UpdateRegion(ctx context.Context, actor Actor, regionID string, req models.UpdateRegionRequest) (*models.Region, error)
	DeleteRegion(ctx context.Context, actor Actor, regionID string) error
}

// SchoolService defines school management.
type SchoolService interface {
	ListSchools(ctx context.Context, regionID string) ([]models.School, error)
	GetSchool(ctx context.Context, schoolID string) (*models.School, error)
	CreateSchool(ctx context.Context, actor Actor, req models.CreateSchoolRequest) (*models.School, error)
	UpdateSchool(ctx context.Context, actor Actor, schoolID string, req models.UpdateSchoolRequest) (*models.School, error)
	DeleteSchool(ctx context.Context, actor Actor, schoolID string) error
}

// LocationService defines location (lab) management.
type LocationService interface {
	ListLocations(ctx context.Context, schoolID string) ([]models.Location, error)
	GetLocation(ctx context.Context, locationID string) (*models.Location, error)
	CreateLocation(ctx context.Context, actor Actor, req models.CreateLocationRequest) (*models.Location, error)
	UpdateLocation(ctx context.Context, actor Actor, locationID string, req models.UpdateLocationRequest) (*models.Location, error)
	DeleteLocation(ctx context.Context, actor Actor, locationID string) error
}

// DeviceService defines device CRUD and status transitions. Every mutation
// goes through the activity recorder before the operation is considered
// complete; recording failures never fail the mutation.
type DeviceService interface {
	ListDevices(ctx context.Context, locationID, schoolID string) ([]models.DeviceView, error)
	GetDevice(ctx context.Context, deviceID string) (*models.DeviceView, error)
	CreateDevice(ctx context.Context, actor Actor, req models.CreateDeviceRequest, r *http.Request) (*models.DeviceView, error)
	UpdateDevice(ctx context.Context, actor Actor, deviceID string, req models.UpdateDeviceRequest, r *http.Request) (*models.DeviceView, error)
	UpdateDeviceStatus(ctx context.Context, actor Actor, deviceID string, req models.UpdateDeviceStatusRequest, r *http.Request) (*models.Device, error)
	DeleteDevice(ctx context.Context, actor Actor, deviceID string, r *http.Request) error
}

// RecordParams describes one device mutation for the activity recorder.
type RecordParams struct {
	DeviceID           string
	DeviceName         string
	Action             models.LogAction
	ActorID            string
	DeactivationReason string
	OldValues          *models.LogValues
	NewValues          *models.LogValues
	// Request supplies IP and user agent; may be nil.
	Request *http.Request
}

// ActivityService records device activity and serves the audit trail.
type ActivityService interface {
	// Record appends one audit entry. It never returns an error: any failure
	// is logged server-side and swallowed so the caller's primary mutation is
	// unaffected. The returned entry is nil when recording failed.
	Record(ctx context.Context, p RecordParams) *models.DeviceLog
	ListLogs(ctx context.Context, filter models.LogFilter, page, limit int) (*models.LogPage, error)
	ListLogsForDevice(ctx context.Context, deviceID string, action models.LogAction, page, limit int) (*models.LogPage, error)
	// ExportLogs returns CSV rows (header included) for the filtered trail,
	// capped at the export row ceiling.
	ExportLogs(ctx context.Context, filter models.LogFilter, limit int) ([][]string, error)
}
