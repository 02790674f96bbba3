package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"edutrack-backend-go/internal/db"
	"edutrack-backend-go/internal/models"
)

// Custom errors for the DeviceService
var (
	ErrDeviceNotFound         = errors.New("device not found")
	ErrInvalidStatus          = errors.New("status must be 'active' or 'inactive'")
	ErrInvalidDeviceType      = errors.New("invalid device type")
	ErrReasonRequired         = errors.New("a deactivation reason is required when deactivating a device")
	ErrInvalidDate            = errors.New("invalid date format")
	ErrLocationSchoolMismatch = errors.New("location does not belong to the given school")
)

// deviceService implements the DeviceService interface. Every mutation is
// followed by a call to the activity recorder; a recording failure never
// rolls back or fails the mutation.
type deviceService struct {
	deviceRepo   db.DeviceRepository
	locationRepo db.LocationRepository
	schoolRepo   db.SchoolRepository
	activity     ActivityService
}

// NewDeviceService creates a new DeviceService instance.
func NewDeviceService(deviceRepo db.DeviceRepository, locationRepo db.LocationRepository, schoolRepo db.SchoolRepository, activity ActivityService) DeviceService {
	return &deviceService{
		deviceRepo:   deviceRepo,
		locationRepo: locationRepo,
		schoolRepo:   schoolRepo,
		activity:     activity,
	}
}

// parseDeviceDate accepts RFC 3339 or a bare date. An empty string clears the
// field.
func parseDeviceDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return &t, nil
}

func (s *deviceService) ListDevices(ctx context.Context, locationID, schoolID string) ([]models.DeviceView, error) {
	devices, err := s.deviceRepo.List(ctx, locationID, schoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return s.resolveViews(ctx, devices)
}

func (s *deviceService) GetDevice(ctx context.Context, deviceID string) (*models.DeviceView, error) {
	device, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	views, err := s.resolveViews(ctx, []models.Device{*device})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *deviceService) CreateDevice(ctx context.Context, actor Actor, req models.CreateDeviceRequest, r *http.Request) (*models.DeviceView, error) {
	if !actor.Role.CanManageDevices() {
		return nil, ErrForbidden
	}
	if !req.DeviceType.IsValid() {
		return nil, ErrInvalidDeviceType
	}

	status := req.Status
	if status == "" {
		status = models.DeviceStatusActive
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	location, school, err := s.resolvePlacement(ctx, req.Location, req.School)
	if err != nil {
		return nil, err
	}

	purchaseDate, err := parseDeviceDate(req.PurchaseDate)
	if err != nil {
		return nil, err
	}
	warrantyExpiry, err := parseDeviceDate(req.WarrantyExpiry)
	if err != nil {
		return nil, err
	}

	device := &models.Device{
		Name:           req.Name,
		DeviceType:     req.DeviceType,
		Location:       location.ID,
		School:         school.ID,
		Status:         status,
		SerialNumber:   req.SerialNumber,
		PurchaseDate:   purchaseDate,
		WarrantyExpiry: warrantyExpiry,
	}
	if _, err := s.deviceRepo.Create(ctx, device); err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	s.activity.Record(ctx, RecordParams{
		DeviceID:   device.ID.Hex(),
		DeviceName: device.Name,
		Action:     models.LogActionCreated,
		ActorID:    actor.ID,
		NewValues:  snapshot(device, location.Name),
		Request:    r,
	})

	return &models.DeviceView{Device: *device, LocationName: location.Name, SchoolName: school.Name}, nil
}

func (s *deviceService) UpdateDevice(ctx context.Context, actor Actor, deviceID string, req models.UpdateDeviceRequest, r *http.Request) (*models.DeviceView, error) {
	if !actor.Role.CanManageDevices() {
		return nil, ErrForbidden
	}
	if !req.DeviceType.IsValid() {
		return nil, ErrInvalidDeviceType
	}

	device, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("failed to get device for update: %w", err)
	}

	status := req.Status
	if status == "" {
		status = device.Status
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	deactivating := device.Status == models.DeviceStatusActive && status == models.DeviceStatusInactive
	activating := device.Status == models.DeviceStatusInactive && status == models.DeviceStatusActive
	if deactivating && strings.TrimSpace(req.DeactivationReason) == "" {
		return nil, ErrReasonRequired
	}

	location, school, err := s.resolvePlacement(ctx, req.Location, req.School)
	if err != nil {
		return nil, err
	}

	purchaseDate, err := parseDeviceDate(req.PurchaseDate)
	if err != nil {
		return nil, err
	}
	warrantyExpiry, err := parseDeviceDate(req.WarrantyExpiry)
	if err != nil {
		return nil, err
	}

	oldLocationName := location.Name
	if device.Location != location.ID {
		if old, err := s.locationRepo.GetByID(ctx, device.Location.Hex()); err == nil {
			oldLocationName = old.Name
		} else {
			oldLocationName = "Unknown Location"
		}
	}
	oldSnapshot := snapshot(device, oldLocationName)

	updated := *device
	updated.Name = req.Name
	updated.DeviceType = req.DeviceType
	updated.Location = location.ID
	updated.School = school.ID
	updated.Status = status
	updated.SerialNumber = req.SerialNumber
	updated.PurchaseDate = purchaseDate
	updated.WarrantyExpiry = warrantyExpiry

	if err := s.deviceRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("failed to update device: %w", err)
	}

	newSnapshot := snapshot(&updated, location.Name)

	// A status flip gets its own entry; the generic "updated" entry covers
	// any remaining field change. One PUT can therefore yield zero, one or
	// two entries.
	if deactivating || activating {
		action := models.LogActionDeactivated
		if activating {
			action = models.LogActionActivated
		}
		s.activity.Record(ctx, RecordParams{
			DeviceID:           updated.ID.Hex(),
			DeviceName:         updated.Name,
			Action:             action,
			ActorID:            actor.ID,
			DeactivationReason: req.DeactivationReason,
			OldValues:          oldSnapshot,
			NewValues:          newSnapshot,
			Request:            r,
		})
	}

	if oldSnapshot.Name != newSnapshot.Name ||
		oldSnapshot.DeviceType != newSnapshot.DeviceType ||
		oldSnapshot.Location != newSnapshot.Location {
		s.activity.Record(ctx, RecordParams{
			DeviceID:   updated.ID.Hex(),
			DeviceName: updated.Name,
			Action:     models.LogActionUpdated,
			ActorID:    actor.ID,
			OldValues:  oldSnapshot,
			NewValues:  newSnapshot,
			Request:    r,
		})
	}

	return &models.DeviceView{Device: updated, LocationName: location.Name, SchoolName: school.Name}, nil
}

func (s *deviceService) UpdateDeviceStatus(ctx context.Context, actor Actor, deviceID string, req models.UpdateDeviceStatusRequest, r *http.Request) (*models.Device, error) {
	if !actor.Role.CanManageDevices() {
		return nil, ErrForbidden
	}
	if !req.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if req.Status == models.DeviceStatusInactive && strings.TrimSpace(req.DeactivationReason) == "" {
		return nil, ErrReasonRequired
	}

	device, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("failed to get device for status update: %w", err)
	}

	// No-op transition: succeed without touching the log.
	if device.Status == req.Status {
		return device, nil
	}

	oldStatus := device.Status
	if err := s.deviceRepo.UpdateStatus(ctx, deviceID, req.Status); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("failed to update device status: %w", err)
	}
	device.Status = req.Status
	device.UpdatedAt = time.Now().UTC()

	action := models.LogActionActivated
	reason := ""
	if req.Status == models.DeviceStatusInactive {
		action = models.LogActionDeactivated
		reason = req.DeactivationReason
	}

	s.activity.Record(ctx, RecordParams{
		DeviceID:           device.ID.Hex(),
		DeviceName:         device.Name,
		Action:             action,
		ActorID:            actor.ID,
		DeactivationReason: reason,
		OldValues:          &models.LogValues{Status: string(oldStatus)},
		NewValues:          &models.LogValues{Status: string(req.Status)},
		Request:            r,
	})

	return device, nil
}

func (s *deviceService) DeleteDevice(ctx context.Context, actor Actor, deviceID string, r *http.Request) error {
	if !actor.Role.CanManageDevices() {
		return ErrForbidden
	}

	device, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrDeviceNotFound
		}
		return fmt.Errorf("failed to get device for delete: %w", err)
	}

	locationName := "Unknown Location"
	if loc, err := s.locationRepo.GetByID(ctx, device.Location.Hex()); err == nil {
		locationName = loc.Name
	}

	if err := s.deviceRepo.Delete(ctx, deviceID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrDeviceNotFound
		}
		return fmt.Errorf("failed to delete device: %w", err)
	}

	s.activity.Record(ctx, RecordParams{
		DeviceID:   device.ID.Hex(),
		DeviceName: device.Name,
		Action:     models.LogActionDeleted,
		ActorID:    actor.ID,
		OldValues:  snapshot(device, locationName),
		Request:    r,
	})

	return nil
}

// resolvePlacement validates that both the location and the school exist and
// that the location actually sits inside the school.
func (s *deviceService) resolvePlacement(ctx context.Context, locationID, schoolID string) (*models.Location, *models.School, error) {
	location, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, ErrLocationNotFound
		}
		return nil, nil, fmt.Errorf("failed to resolve location for device: %w", err)
	}

	school, err := s.schoolRepo.GetByID(ctx, schoolID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, ErrSchoolNotFound
		}
		return nil, nil, fmt.Errorf("failed to resolve school for device: %w", err)
	}

	if location.School != school.ID {
		return nil, nil, ErrLocationSchoolMismatch
	}
	return location, school, nil
}

// snapshot captures the logged subset of device fields.
func snapshot(d *models.Device, locationName string) *models.LogValues {
	return &models.LogValues{
		Status:     string(d.Status),
		Location:   locationName,
		DeviceType: string(d.DeviceType),
		Name:       d.Name,
	}
}

// resolveViews attaches location and school names to a batch of devices,
// substituting placeholders when a parent has gone missing.
func (s *deviceService) resolveViews(ctx context.Context, devices []models.Device) ([]models.DeviceView, error) {
	locationIDs := make([]primitive.ObjectID, 0, len(devices))
	schoolIDs := make([]primitive.ObjectID, 0, len(devices))
	seenLocations := make(map[primitive.ObjectID]bool)
	seenSchools := make(map[primitive.ObjectID]bool)
	for _, d := range devices {
		if !seenLocations[d.Location] {
			seenLocations[d.Location] = true
			locationIDs = append(locationIDs, d.Location)
		}
		if !seenSchools[d.School] {
			seenSchools[d.School] = true
			schoolIDs = append(schoolIDs, d.School)
		}
	}

	locations, err := s.locationRepo.FindByIDs(ctx, locationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve locations for devices: %w", err)
	}
	schools, err := s.schoolRepo.FindByIDs(ctx, schoolIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schools for devices: %w", err)
	}

	locationNames := make(map[primitive.ObjectID]string, len(locations))
	for _, l := range locations {
		locationNames[l.ID] = l.Name
	}
	schoolNames := make(map[primitive.ObjectID]string, len(schools))
	for _, sc := range schools {
		schoolNames[sc.ID] = sc.Name
	}

	views := make([]models.DeviceView, 0, len(devices))
	for _, d := range devices {
		v := models.DeviceView{Device: d}
		if name, ok := locationNames[d.Location]; ok {
			v.LocationName = name
		} else {
			v.LocationName = "Unknown Location"
		}
		if name, ok := schoolNames[d.School]; ok {
			v.SchoolName = name
		} else {
			v.SchoolName = "Unknown School"
		}
		views = append(views, v)
	}
	return views, nil
}
