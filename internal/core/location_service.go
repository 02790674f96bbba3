package core

import (
	"context"
	"errors"
	"fmt"

	"edutrack-backend-go/internal/db"
	"edutrack-backend-go/internal/models"
)

// Custom errors for the LocationService
var (
	ErrLocationNotFound   = errors.New("location not found")
	ErrLocationHasDevices = errors.New("location still has devices attached")
)

// locationService implements the LocationService interface.
type locationService struct {
	locationRepo db.LocationRepository
	schoolRepo   db.SchoolRepository
	deviceRepo   db.DeviceRepository
}

// NewLocationService creates a new LocationService instance.
func NewLocationService(locationRepo db.LocationRepository, schoolRepo db.SchoolRepository, deviceRepo db.DeviceRepository) LocationService {
	return &locationService{
		locationRepo: locationRepo,
		schoolRepo:   schoolRepo,
		deviceRepo:   deviceRepo,
	}
}

func (s *locationService) ListLocations(ctx context.Context, schoolID string) ([]models.Location, error) {
	locations, err := s.locationRepo.List(ctx, schoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

func (s *locationService) GetLocation(ctx context.Context, locationID string) (*models.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return location, nil
}

func (s *locationService) CreateLocation(ctx context.Context, actor Actor, req models.CreateLocationRequest) (*models.Location, error) {
	if !actor.Role.CanManageDevices() {
		return nil, ErrForbidden
	}

	school, err := s.schoolRepo.GetByID(ctx, req.School)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, fmt.Errorf("failed to resolve school for location: %w", err)
	}

	location := &models.Location{
		Name:        req.Name,
		Description: req.Description,
		Floor:       req.Floor,
		Building:    req.Building,
		School:      school.ID,
	}
	if _, err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return location, nil
}

func (s *locationService) UpdateLocation(ctx context.Context, actor Actor, locationID string, req models.UpdateLocationRequest) (*models.Location, error) {
	if !actor.Role.CanManageDevices() {
		return nil, ErrForbidden
	}

	location, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to get location for update: %w", err)
	}

	if req.Name != nil {
		location.Name = *req.Name
	}
	if req.Description != nil {
		location.Description = *req.Description
	}
	if req.Floor != nil {
		location.Floor = req.Floor
	}
	if req.Building != nil {
		location.Building = *req.Building
	}
	if req.School != nil {
		school, err := s.schoolRepo.GetByID(ctx, *req.School)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, ErrSchoolNotFound
			}
			return nil, fmt.Errorf("failed to resolve school for location: %w", err)
		}
		location.School = school.ID
	}

	if err := s.locationRepo.Update(ctx, location); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return location, nil
}

func (s *locationService) DeleteLocation(ctx context.Context, actor Actor, locationID string) error {
	if !actor.Role.CanManageDevices() {
		return ErrForbidden
	}

	count, err := s.deviceRepo.CountByLocation(ctx, locationID)
	if err != nil {
		return fmt.Errorf("failed to count devices at location: %w", err)
	}
	if count > 0 {
		return ErrLocationHasDevices
	}

	if err := s.locationRepo.Delete(ctx, locationID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrLocationNotFound
		}
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return nil
}
