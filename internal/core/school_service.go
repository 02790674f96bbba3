package core

import (
	"context"
	"errors"
	"fmt"

	"edutrack-backend-go/internal/db"
	"edutrack-backend-go/internal/models"
)

// Custom errors for the SchoolService
var (
	ErrSchoolNotFound     = errors.New("school not found")
	ErrSchoolHasLocations = errors.New("school still has locations attached")
)

// schoolService implements the SchoolService interface. Writes are open to
// admins and engineers.
type schoolService struct {
	schoolRepo   db.SchoolRepository
	regionRepo   db.RegionRepository
	locationRepo db.LocationRepository
}

// NewSchoolService creates a new SchoolService instance.
func NewSchoolService(schoolRepo db.SchoolRepository, regionRepo db.RegionRepository, locationRepo db.LocationRepository) SchoolService {
	return &schoolService{
		schoolRepo:   schoolRepo,
		regionRepo:   regionRepo,
		locationRepo: locationRepo,
	}
}

func (s *schoolService) ListSchools(ctx context.Context, regionID string) ([]models.School, error) {
	schools, err := s.schoolRepo.List(ctx, regionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	return schools, nil
}

func (s *schoolService) GetSchool(ctx context.Context, schoolID string) (*models.School, error) {
	school, err := s.schoolRepo.GetByID(ctx, schoolID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, fmt.Errorf("failed to get school: %w", err)
	}
	return school, nil
}

func (s *schoolService) CreateSchool(ctx context.Context, actor Actor, req models.CreateSchoolRequest) (*models.School, error) {
	if !actor.Role.CanManageDevices() {
		return nil, ErrForbidden
	}

	region, err := s.regionRepo.GetByID(ctx, req.Region)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrRegionNotFound
		}
		return nil, fmt.Errorf("failed to resolve region for school: %w", err)
	}

	school := &models.School{
		Name:    req.Name,
		Address: req.Address,
		Region:  region.ID,
	}
	if _, err := s.schoolRepo.Create(ctx, school); err != nil {
		return nil, fmt.Errorf("failed to create school: %w", err)
	}
	return school, nil
}

func (s *schoolService) UpdateSchool(ctx context.Context, actor Actor, schoolID string, req models.UpdateSchoolRequest) (*models.School, error) {
	if !actor.Role.CanManageDevices() {
		return nil, ErrForbidden
	}

	school, err := s.schoolRepo.GetByID(ctx, schoolID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, fmt.Errorf("failed to get school for update: %w", err)
	}

	if req.Name != nil {
		school.Name = *req.Name
	}
	if req.Address != nil {
		school.Address = *req.Address
	}
	if req.Region != nil {
		region, err := s.regionRepo.GetByID(ctx, *req.Region)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return nil, ErrRegionNotFound
			}
			return nil, fmt.Errorf("failed to resolve region for school: %w", err)
		}
		school.Region = region.ID
	}

	if err := s.schoolRepo.Update(ctx, school); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, fmt.Errorf("failed to update school: %w", err)
	}
	return school, nil
}

func (s *schoolService) DeleteSchool(ctx context.Context, actor Actor, schoolID string) error {
	if !actor.Role.CanManageDevices() {
		return ErrForbidden
	}

	count, err := s.locationRepo.CountBySchool(ctx, schoolID)
	if err != nil {
		return fmt.Errorf("failed to count locations in school: %w", err)
	}
	if count > 0 {
		return ErrSchoolHasLocations
	}

	if err := s.schoolRepo.Delete(ctx, schoolID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrSchoolNotFound
		}
		return fmt.Errorf("failed to delete school: %w", err)
	}
	return nil
}
