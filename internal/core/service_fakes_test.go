package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"edutrack-backend-go/internal/db"
	"edutrack-backend-go/internal/models"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID string) (*models.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *fakeUserRepo) FindByUsernameOrEmail(_ context.Context, username, email, excludeID string) (*models.User, error) {
	for id, u := range r.users {
		if id == excludeID {
			continue
		}
		if u.Username == username || u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := r.users[id.Hex()]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (string, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID.Hex()] = *user
	return user.ID.Hex(), nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID.Hex()]; !ok {
		return db.ErrNotFound
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[user.ID.Hex()] = *user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, userID string) error {
	if _, ok := r.users[userID]; !ok {
		return db.ErrNotFound
	}
	delete(r.users, userID)
	return nil
}

type fakeRegionRepo struct {
	regions map[string]models.Region
}

func newFakeRegionRepo() *fakeRegionRepo {
	return &fakeRegionRepo{regions: make(map[string]models.Region)}
}

func (r *fakeRegionRepo) GetByID(_ context.Context, regionID string) (*models.Region, error) {
	reg, ok := r.regions[regionID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &reg, nil
}

func (r *fakeRegionRepo) GetByName(_ context.Context, name, excludeID string) (*models.Region, error) {
	for id, reg := range r.regions {
		if id == excludeID {
			continue
		}
		if reg.Name == name {
			reg := reg
			return &reg, nil
		}
	}
	return nil, db.ErrNotFound
}

func (r *fakeRegionRepo) List(_ context.Context) ([]models.Region, error) {
	out := make([]models.Region, 0, len(r.regions))
	for _, reg := range r.regions {
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeRegionRepo) Create(_ context.Context, region *models.Region) (string, error) {
	if region.ID.IsZero() {
		region.ID = primitive.NewObjectID()
	}
	r.regions[region.ID.Hex()] = *region
	return region.ID.Hex(), nil
}

func (r *fakeRegionRepo) Update(_ context.Context, region *models.Region) error {
	if _, ok := r.regions[region.ID.Hex()]; !ok {
		return db.ErrNotFound
	}
	r.regions[region.ID.Hex()] = *region
	return nil
}

func (r *fakeRegionRepo) Delete(_ context.Context, regionID string) error {
	if _, ok := r.regions[regionID]; !ok {
		return db.ErrNotFound
	}
	delete(r.regions, regionID)
	return nil
}

type fakeSchoolRepo struct {
	schools map[string]models.School
}

func newFakeSchoolRepo() *fakeSchoolRepo {
	return &fakeSchoolRepo{schools: make(map[string]models.School)}
}

func (r *fakeSchoolRepo) GetByID(_ context.Context, schoolID string) (*models.School, error) {
	s, ok := r.schools[schoolID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSchoolRepo) List(_ context.Context, regionID string) ([]models.School, error) {
	var out []models.School
	for _, s := range r.schools {
		if regionID == "" || s.Region.Hex() == regionID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeSchoolRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.School, error) {
	var out []models.School
	for _, id := range ids {
		if s, ok := r.schools[id.Hex()]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSchoolRepo) CountByRegion(_ context.Context, regionID string) (int64, error) {
	var count int64
	for _, s := range r.schools {
		if s.Region.Hex() == regionID {
			count++
		}
	}
	return count, nil
}

func (r *fakeSchoolRepo) Create(_ context.Context, school *models.School) (string, error) {
	if school.ID.IsZero() {
		school.ID = primitive.NewObjectID()
	}
	r.schools[school.ID.Hex()] = *school
	return school.ID.Hex(), nil
}

func (r *fakeSchoolRepo) Update(_ context.Context, school *models.School) error {
	if _, ok := r.schools[school.ID.Hex()]; !ok {
		return db.ErrNotFound
	}
	r.schools[school.ID.Hex()] = *school
	return nil
}

func (r *fakeSchoolRepo) Delete(_ context.Context, schoolID string) error {
	if _, ok := r.schools[schoolID]; !ok {
		return db.ErrNotFound
	}
	delete(r.schools, schoolID)
	return nil
}

type fakeLocationRepo struct {
	locations map[string]models.Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{locations: make(map[string]models.Location)}
}

func (r *fakeLocationRepo) GetByID(_ context.Context, locationID string) (*models.Location, error) {
	l, ok := r.locations[locationID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &l, nil
}

func (r *fakeLocationRepo) List(_ context.Context, schoolID string) ([]models.Location, error) {
	var out []models.Location
	for _, l := range r.locations {
		if schoolID == "" || l.School.Hex() == schoolID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeLocationRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Location, error) {
	var out []models.Location
	for _, id := range ids {
		if l, ok := r.locations[id.Hex()]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLocationRepo) CountBySchool(_ context.Context, schoolID string) (int64, error) {
	var count int64
	for _, l := range r.locations {
		if l.School.Hex() == schoolID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLocationRepo) Create(_ context.Context, location *models.Location) (string, error) {
	if location.ID.IsZero() {
		location.ID = primitive.NewObjectID()
	}
	r.locations[location.ID.Hex()] = *location
	return location.ID.Hex(), nil
}

func (r *fakeLocationRepo) Update(_ context.Context, location *models.Location) error {
	if _, ok := r.locations[location.ID.Hex()]; !ok {
		return db.ErrNotFound
	}
	r.locations[location.ID.Hex()] = *location
	return nil
}

func (r *fakeLocationRepo) Delete(_ context.Context, locationID string) error {
	if _, ok := r.locations[locationID]; !ok {
		return db.ErrNotFound
	}
	delete(r.locations, locationID)
	return nil
}

type fakeDeviceRepo struct {
	devices map[string]models.Device
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{devices: make(map[string]models.Device)}
}

func (r *fakeDeviceRepo) GetByID(_ context.Context, deviceID string) (*models.Device, error) {
	d, ok := r.devices[deviceID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &d, nil
}

func (r *fakeDeviceRepo) List(_ context.Context, locationID, schoolID string) ([]models.Device, error) {
	var out []models.Device
	for _, d := range r.devices {
		switch {
		case locationID != "":
			if d.Location.Hex() == locationID {
				out = append(out, d)
			}
		case schoolID != "":
			if d.School.Hex() == schoolID {
				out = append(out, d)
			}
		default:
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeDeviceRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Device, error) {
	var out []models.Device
	for _, id := range ids {
		if d, ok := r.devices[id.Hex()]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDeviceRepo) CountByLocation(_ context.Context, locationID string) (int64, error) {
	var count int64
	for _, d := range r.devices {
		if d.Location.Hex() == locationID {
			count++
		}
	}
	return count, nil
}

func (r *fakeDeviceRepo) CountBySchool(_ context.Context, schoolID string) (int64, error) {
	var count int64
	for _, d := range r.devices {
		if d.School.Hex() == schoolID {
			count++
		}
	}
	return count, nil
}

func (r *fakeDeviceRepo) Create(_ context.Context, device *models.Device) (string, error) {
	if device.ID.IsZero() {
		device.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	device.CreatedAt = now
	device.UpdatedAt = now
	r.devices[device.ID.Hex()] = *device
	return device.ID.Hex(), nil
}

func (r *fakeDeviceRepo) Update(_ context.Context, device *models.Device) error {
	if _, ok := r.devices[device.ID.Hex()]; !ok {
		return db.ErrNotFound
	}
	device.UpdatedAt = time.Now().UTC()
	r.devices[device.ID.Hex()] = *device
	return nil
}

func (r *fakeDeviceRepo) UpdateStatus(_ context.Context, deviceID string, status models.DeviceStatus) error {
	d, ok := r.devices[deviceID]
	if !ok {
		return db.ErrNotFound
	}
	d.Status = status
	d.UpdatedAt = time.Now().UTC()
	r.devices[deviceID] = d
	return nil
}

func (r *fakeDeviceRepo) Delete(_ context.Context, deviceID string) error {
	if _, ok := r.devices[deviceID]; !ok {
		return db.ErrNotFound
	}
	delete(r.devices, deviceID)
	return nil
}

// fakeDeviceLogRepo replays the append-only semantics of the real collection.
// Setting failInsert makes every Insert return an error.
type fakeDeviceLogRepo struct {
	entries    []models.DeviceLog
	failInsert bool
}

func newFakeDeviceLogRepo() *fakeDeviceLogRepo {
	return &fakeDeviceLogRepo{}
}

func (r *fakeDeviceLogRepo) Insert(_ context.Context, entry *models.DeviceLog) error {
	if r.failInsert {
		return errors.New("insert failed")
	}
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeDeviceLogRepo) Search(_ context.Context, f models.LogFilter, skip, limit int64) ([]models.DeviceLog, int64, error) {
	var matched []models.DeviceLog
	for _, e := range r.entries {
		if f.Action != "" && f.Action != "all" && e.Action != f.Action {
			continue
		}
		if f.DeviceID != "" && e.Device.Hex() != f.DeviceID {
			continue
		}
		if f.UserID != "" && e.PerformedBy.Hex() != f.UserID {
			continue
		}
		if f.StartDate != nil && e.Timestamp.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && e.Timestamp.After(*f.EndDate) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Timestamp.After(matched[j].Timestamp) })

	total := int64(len(matched))
	if skip >= total {
		return nil, total, nil
	}
	matched = matched[skip:]
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeDeviceLogRepo) EnsureIndexes(_ context.Context) error { return nil }

// seedHierarchy creates a region, school and location chain for device tests.
func seedHierarchy(regions *fakeRegionRepo, schools *fakeSchoolRepo, locations *fakeLocationRepo) (models.Region, models.School, models.Location) {
	region := models.Region{ID: primitive.NewObjectID(), Name: "North District"}
	regions.regions[region.ID.Hex()] = region

	school := models.School{ID: primitive.NewObjectID(), Name: "Hillside High", Address: "1 Hill Rd", Region: region.ID}
	schools.schools[school.ID.Hex()] = school

	location := models.Location{ID: primitive.NewObjectID(), Name: "Computer Lab A", School: school.ID}
	locations.locations[location.ID.Hex()] = location

	return region, school, location
}

func seedDevice(devices *fakeDeviceRepo, location models.Location, school models.School, status models.DeviceStatus) models.Device {
	device := models.Device{
		ID:         primitive.NewObjectID(),
		Name:       fmt.Sprintf("Lab PC %d", len(devices.devices)+1),
		DeviceType: models.DeviceTypeDesktop,
		Location:   location.ID,
		School:     school.ID,
		Status:     status,
	}
	devices.devices[device.ID.Hex()] = device
	return device
}
