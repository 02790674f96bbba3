package core

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"edutrack-backend-go/internal/models"
)

type deviceTestEnv struct {
	service  DeviceService
	logs     *fakeDeviceLogRepo
	devices  *fakeDeviceRepo
	school   models.School
	location models.Location
	admin    Actor
}

func newDeviceTestEnv(t *testing.T) *deviceTestEnv {
	t.Helper()

	users := newFakeUserRepo()
	regions := newFakeRegionRepo()
	schools := newFakeSchoolRepo()
	locations := newFakeLocationRepo()
	devices := newFakeDeviceRepo()
	logs := newFakeDeviceLogRepo()

	_, school, location := seedHierarchy(regions, schools, locations)

	admin := models.User{ID: primitive.NewObjectID(), Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin}
	users.users[admin.ID.Hex()] = admin

	activity := NewActivityService(logs, devices, users, zap.NewNop())
	service := NewDeviceService(devices, locations, schools, activity)

	return &deviceTestEnv{
		service:  service,
		logs:     logs,
		devices:  devices,
		school:   school,
		location: location,
		admin:    Actor{ID: admin.ID.Hex(), Role: models.RoleAdmin},
	}
}

func TestCreateDeviceRecordsCreation(t *testing.T) {
	env := newDeviceTestEnv(t)
	req := models.CreateDeviceRequest{
		Name:       "Front Desk PC",
		DeviceType: models.DeviceTypeDesktop,
		Location:   env.location.ID.Hex(),
		School:     env.school.ID.Hex(),
	}

	view, err := env.service.CreateDevice(context.Background(), env.admin, req, httptest.NewRequest("POST", "/api/v1/devices", nil))
	if err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}
	if view.Status != models.DeviceStatusActive {
		t.Errorf("status = %q, want default %q", view.Status, models.DeviceStatusActive)
	}
	if view.LocationName != env.location.Name || view.SchoolName != env.school.Name {
		t.Errorf("resolved names = (%q, %q), want (%q, %q)", view.LocationName, view.SchoolName, env.location.Name, env.school.Name)
	}

	if len(env.logs.entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(env.logs.entries))
	}
	entry := env.logs.entries[0]
	if entry.Action != models.LogActionCreated {
		t.Errorf("action = %q, want %q", entry.Action, models.LogActionCreated)
	}
	if entry.NewValues == nil || entry.NewValues.Name != "Front Desk PC" {
		t.Errorf("new values = %+v, want name snapshot", entry.NewValues)
	}
	if entry.OldValues != nil {
		t.Errorf("old values = %+v, want nil for a creation", entry.OldValues)
	}
}

func TestCreateDeviceForbiddenForFaculty(t *testing.T) {
	env := newDeviceTestEnv(t)
	faculty := Actor{ID: primitive.NewObjectID().Hex(), Role: models.RoleFaculty}
	req := models.CreateDeviceRequest{
		Name:       "Rogue PC",
		DeviceType: models.DeviceTypeDesktop,
		Location:   env.location.ID.Hex(),
		School:     env.school.ID.Hex(),
	}

	_, err := env.service.CreateDevice(context.Background(), faculty, req, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if len(env.devices.devices) != 0 {
		t.Errorf("device count = %d, want 0 after forbidden create", len(env.devices.devices))
	}
	if len(env.logs.entries) != 0 {
		t.Errorf("log entries = %d, want 0 after forbidden create", len(env.logs.entries))
	}
}

func TestCreateDeviceLocationSchoolMismatch(t *testing.T) {
	env := newDeviceTestEnv(t)

	otherSchool := models.School{ID: primitive.NewObjectID(), Name: "Riverside Academy", Region: primitive.NewObjectID()}
	// Register the school so only the mismatch fails, not the lookup.
	schools := env.service.(*deviceService).schoolRepo.(*fakeSchoolRepo)
	schools.schools[otherSchool.ID.Hex()] = otherSchool

	req := models.CreateDeviceRequest{
		Name:       "Misplaced PC",
		DeviceType: models.DeviceTypeDesktop,
		Location:   env.location.ID.Hex(),
		School:     otherSchool.ID.Hex(),
	}
	_, err := env.service.CreateDevice(context.Background(), env.admin, req, nil)
	if !errors.Is(err, ErrLocationSchoolMismatch) {
		t.Fatalf("err = %v, want ErrLocationSchoolMismatch", err)
	}
}

func TestUpdateDeviceStatusTransitions(t *testing.T) {
	tests := []struct {
		name          string
		initialStatus models.DeviceStatus
		req           models.UpdateDeviceStatusRequest
		wantErr       error
		wantLogged    int
		wantAction    models.LogAction
	}{
		{
			name:          "deactivation requires a reason",
			initialStatus: models.DeviceStatusActive,
			req:           models.UpdateDeviceStatusRequest{Status: models.DeviceStatusInactive},
			wantErr:       ErrReasonRequired,
		},
		{
			name:          "no-op transition logs nothing",
			initialStatus: models.DeviceStatusActive,
			req:           models.UpdateDeviceStatusRequest{Status: models.DeviceStatusActive},
			wantLogged:    0,
		},
		{
			name:          "whitespace-only reason rejected",
			initialStatus: models.DeviceStatusActive,
			req:           models.UpdateDeviceStatusRequest{Status: models.DeviceStatusInactive, DeactivationReason: "   "},
			wantErr:       ErrReasonRequired,
		},
		{
			name:          "deactivation with reason logs one entry",
			initialStatus: models.DeviceStatusActive,
			req:           models.UpdateDeviceStatusRequest{Status: models.DeviceStatusInactive, DeactivationReason: "Broken screen"},
			wantLogged:    1,
			wantAction:    models.LogActionDeactivated,
		},
		{
			name:          "activation logs one entry",
			initialStatus: models.DeviceStatusInactive,
			req:           models.UpdateDeviceStatusRequest{Status: models.DeviceStatusActive},
			wantLogged:    1,
			wantAction:    models.LogActionActivated,
		},
		{
			name:          "unknown status rejected",
			initialStatus: models.DeviceStatusActive,
			req:           models.UpdateDeviceStatusRequest{Status: "retired"},
			wantErr:       ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newDeviceTestEnv(t)
			device := seedDevice(env.devices, env.location, env.school, tt.initialStatus)

			updated, err := env.service.UpdateDeviceStatus(context.Background(), env.admin, device.ID.Hex(), tt.req, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if len(env.logs.entries) != 0 {
					t.Errorf("log entries = %d, want 0 after error", len(env.logs.entries))
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateDeviceStatus: %v", err)
			}
			if updated.Status != tt.req.Status {
				t.Errorf("status = %q, want %q", updated.Status, tt.req.Status)
			}

			if len(env.logs.entries) != tt.wantLogged {
				t.Fatalf("log entries = %d, want %d", len(env.logs.entries), tt.wantLogged)
			}
			if tt.wantLogged == 1 {
				entry := env.logs.entries[0]
				if entry.Action != tt.wantAction {
					t.Errorf("action = %q, want %q", entry.Action, tt.wantAction)
				}
				if entry.DeactivationReason != tt.req.DeactivationReason {
					t.Errorf("reason = %q, want %q", entry.DeactivationReason, tt.req.DeactivationReason)
				}
				if entry.OldValues == nil || entry.OldValues.Status != string(tt.initialStatus) {
					t.Errorf("old values = %+v, want status %q", entry.OldValues, tt.initialStatus)
				}
				if entry.NewValues == nil || entry.NewValues.Status != string(tt.req.Status) {
					t.Errorf("new values = %+v, want status %q", entry.NewValues, tt.req.Status)
				}
			}
		})
	}
}

func TestUpdateDeviceLogEntries(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(device models.Device, req *models.UpdateDeviceRequest)
		wantErr     error
		wantActions []models.LogAction
	}{
		{
			name:        "unchanged update logs nothing",
			mutate:      func(models.Device, *models.UpdateDeviceRequest) {},
			wantActions: nil,
		},
		{
			name: "rename logs one updated entry",
			mutate: func(_ models.Device, req *models.UpdateDeviceRequest) {
				req.Name = "Renamed PC"
			},
			wantActions: []models.LogAction{models.LogActionUpdated},
		},
		{
			name: "deactivation plus rename logs two entries",
			mutate: func(_ models.Device, req *models.UpdateDeviceRequest) {
				req.Name = "Renamed PC"
				req.Status = models.DeviceStatusInactive
				req.DeactivationReason = "Decommissioned"
			},
			wantActions: []models.LogAction{models.LogActionDeactivated, models.LogActionUpdated},
		},
		{
			name: "deactivation without reason rejected",
			mutate: func(_ models.Device, req *models.UpdateDeviceRequest) {
				req.Status = models.DeviceStatusInactive
			},
			wantErr: ErrReasonRequired,
		},
		{
			name: "deactivation with whitespace-only reason rejected",
			mutate: func(_ models.Device, req *models.UpdateDeviceRequest) {
				req.Status = models.DeviceStatusInactive
				req.DeactivationReason = " \t "
			},
			wantErr: ErrReasonRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newDeviceTestEnv(t)
			device := seedDevice(env.devices, env.location, env.school, models.DeviceStatusActive)

			req := models.UpdateDeviceRequest{
				Name:       device.Name,
				DeviceType: device.DeviceType,
				Location:   device.Location.Hex(),
				School:     device.School.Hex(),
				Status:     device.Status,
			}
			tt.mutate(device, &req)

			_, err := env.service.UpdateDevice(context.Background(), env.admin, device.ID.Hex(), req, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateDevice: %v", err)
			}

			var got []models.LogAction
			for _, e := range env.logs.entries {
				got = append(got, e.Action)
			}
			if len(got) != len(tt.wantActions) {
				t.Fatalf("logged actions = %v, want %v", got, tt.wantActions)
			}
			for i := range got {
				if got[i] != tt.wantActions[i] {
					t.Errorf("logged actions = %v, want %v", got, tt.wantActions)
					break
				}
			}
		})
	}
}

func TestUpdateDeviceStatusEntryCarriesFullSnapshots(t *testing.T) {
	env := newDeviceTestEnv(t)
	device := seedDevice(env.devices, env.location, env.school, models.DeviceStatusActive)

	req := models.UpdateDeviceRequest{
		Name:               device.Name,
		DeviceType:         device.DeviceType,
		Location:           device.Location.Hex(),
		School:             device.School.Hex(),
		Status:             models.DeviceStatusInactive,
		DeactivationReason: "Decommissioned",
	}
	if _, err := env.service.UpdateDevice(context.Background(), env.admin, device.ID.Hex(), req, nil); err != nil {
		t.Fatalf("UpdateDevice: %v", err)
	}

	if len(env.logs.entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(env.logs.entries))
	}
	entry := env.logs.entries[0]
	if entry.Action != models.LogActionDeactivated {
		t.Fatalf("action = %q, want %q", entry.Action, models.LogActionDeactivated)
	}

	// A full update logs the complete field snapshots on the status entry,
	// not just the status pair.
	if entry.OldValues == nil || entry.OldValues.Name != device.Name ||
		entry.OldValues.Location != env.location.Name ||
		entry.OldValues.Status != string(models.DeviceStatusActive) {
		t.Errorf("old values = %+v, want full pre-update snapshot", entry.OldValues)
	}
	if entry.NewValues == nil || entry.NewValues.Name != device.Name ||
		entry.NewValues.Location != env.location.Name ||
		entry.NewValues.Status != string(models.DeviceStatusInactive) {
		t.Errorf("new values = %+v, want full post-update snapshot", entry.NewValues)
	}
}

func TestDeleteDeviceRecordsSnapshot(t *testing.T) {
	env := newDeviceTestEnv(t)
	device := seedDevice(env.devices, env.location, env.school, models.DeviceStatusActive)

	if err := env.service.DeleteDevice(context.Background(), env.admin, device.ID.Hex(), nil); err != nil {
		t.Fatalf("DeleteDevice: %v", err)
	}
	if len(env.devices.devices) != 0 {
		t.Errorf("device count = %d, want 0", len(env.devices.devices))
	}

	if len(env.logs.entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(env.logs.entries))
	}
	entry := env.logs.entries[0]
	if entry.Action != models.LogActionDeleted {
		t.Errorf("action = %q, want %q", entry.Action, models.LogActionDeleted)
	}
	if entry.OldValues == nil || entry.OldValues.Name != device.Name || entry.OldValues.Location != env.location.Name {
		t.Errorf("old values = %+v, want full pre-delete snapshot", entry.OldValues)
	}
}

func TestGetDeviceNotFound(t *testing.T) {
	env := newDeviceTestEnv(t)

	_, err := env.service.GetDevice(context.Background(), primitive.NewObjectID().Hex())
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("err = %v, want ErrDeviceNotFound", err)
	}
	// Malformed IDs behave the same as missing documents.
	_, err = env.service.GetDevice(context.Background(), "not-a-hex-id")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("err = %v, want ErrDeviceNotFound for malformed ID", err)
	}
}
