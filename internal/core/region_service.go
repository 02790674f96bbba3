package core

import (
	"context"
	"errors"
	"fmt"

	"edutrack-backend-go/internal/db"
	"edutrack-backend-go/internal/models"
)

// Custom errors for the RegionService
var (
	ErrRegionNotFound   = errors.New("region not found")
	ErrRegionNameTaken  = errors.New("a region with this name already exists")
	ErrRegionHasSchools = errors.New("region still has schools attached")
)

// regionService implements the RegionService interface. Reads are open to any
// authenticated user; writes are admin-only.
type regionService struct {
	regionRepo db.RegionRepository
	schoolRepo db.SchoolRepository
}

// NewRegionService creates a new RegionService instance.
func NewRegionService(regionRepo db.RegionRepository, schoolRepo db.SchoolRepository) RegionService {
	return &regionService{
		regionRepo: regionRepo,
		schoolRepo: schoolRepo,
	}
}

func (s *regionService) ListRegions(ctx context.Context) ([]models.Region, error) {
	regions, err := s.regionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	return regions, nil
}

func (s *regionService) GetRegion(ctx context.Context, regionID string) (*models.Region, error) {
	region, err := s.regionRepo.GetByID(ctx, regionID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrRegionNotFound
		}
		return nil, fmt.Errorf("failed to get region: %w", err)
	}
	return region, nil
}

func (s *regionService) CreateRegion(ctx context.Context, actor Actor, req models.CreateRegionRequest) (*models.Region, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	if _, err := s.regionRepo.GetByName(ctx, req.Name, ""); err == nil {
		return nil, ErrRegionNameTaken
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check region name: %w", err)
	}

	region := &models.Region{
		Name:        req.Name,
		Description: req.Description,
	}
	if _, err := s.regionRepo.Create(ctx, region); err != nil {
		return nil, fmt.Errorf("failed to create region: %w", err)
	}
	return region, nil
}

func (s *regionService) UpdateRegion(ctx context.Context, actor Actor, regionID string, req models.UpdateRegionRequest) (*models.Region, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}

	region, err := s.regionRepo.GetByID(ctx, regionID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrRegionNotFound
		}
		return nil, fmt.Errorf("failed to get region for update: %w", err)
	}

	if req.Name != nil {
		if _, err := s.regionRepo.GetByName(ctx, *req.Name, regionID); err == nil {
			return nil, ErrRegionNameTaken
		} else if !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("failed to check region name: %w", err)
		}
		region.Name = *req.Name
	}
	if req.Description != nil {
		region.Description = *req.Description
	}

	if err := s.regionRepo.Update(ctx, region); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrRegionNotFound
		}
		return nil, fmt.Errorf("failed to update region: %w", err)
	}
	return region, nil
}

func (s *regionService) DeleteRegion(ctx context.Context, actor Actor, regionID string) error {
	if actor.Role != models.RoleAdmin {
		return ErrForbidden
	}

	count, err := s.schoolRepo.CountByRegion(ctx, regionID)
	if err != nil {
		return fmt.Errorf("failed to count schools in region: %w", err)
	}
	if count > 0 {
		return ErrRegionHasSchools
	}

	if err := s.regionRepo.Delete(ctx, regionID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrRegionNotFound
		}
		return fmt.Errorf("failed to delete region: %w", err)
	}
	return nil
}
