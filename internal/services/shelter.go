package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drims/disaster-server/internal/models"
	"github.com/drims/disaster-server/internal/store"
)

// ShelterService handles authority-managed shelters and the public
// shelter listing. The occupancy invariant (0 <= occupancy <= capacity)
// is checked on every create and update.
type ShelterService struct {
	store  store.Store
	logger *zap.SugaredLogger
}

// NewShelterService creates a new shelter service.
func NewShelterService(st store.Store, logger *zap.SugaredLogger) *ShelterService {
	return &ShelterService{store: st, logger: logger}
}

func validateShelter(req *models.ShelterSubmission) error {
	if req.Name == "" || req.Address == "" {
		return fmt.Errorf("%w: name and address are required", ErrValidation)
	}
	if req.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1", ErrValidation)
	}
	if req.CurrentOccupancy < 0 {
		return fmt.Errorf("%w: current occupancy cannot be negative", ErrValidation)
	}
	if req.CurrentOccupancy > req.Capacity {
		return fmt.Errorf("%w: current occupancy cannot exceed capacity", ErrValidation)
	}
	return nil
}

// Create adds a shelter. Authority only.
func (s *ShelterService) Create(ctx context.Context, actor models.Actor, req *models.ShelterSubmission) (*models.Shelter, error) {
	if err := requireRole(actor, models.RoleAuthority); err != nil {
		return nil, err
	}
	if err := validateShelter(req); err != nil {
		return nil, err
	}

	shelter := &models.Shelter{
		ID:               uuid.New(),
		Name:             req.Name,
		Address:          req.Address,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Capacity:         req.Capacity,
		CurrentOccupancy: req.CurrentOccupancy,
		ContactInfo:      req.ContactInfo,
		IsActive:         true,
		CreatedAt:        time.Now(),
	}
	if req.IsActive != nil {
		shelter.IsActive = *req.IsActive
	}

	if err := s.store.CreateShelter(ctx, shelter); err != nil {
		return nil, fmt.Errorf("create shelter: %w", err)
	}

	s.logger.Infow("Shelter created", "id", shelter.ID, "name", shelter.Name, "capacity", shelter.Capacity)
	return shelter, nil
}

// Update edits a shelter. Authority only. A submission violating the
// occupancy invariant is rejected and the stored values are retained.
func (s *ShelterService) Update(ctx context.Context, actor models.Actor, id uuid.UUID, req *models.ShelterSubmission) (*models.Shelter, error) {
	if err := requireRole(actor, models.RoleAuthority); err != nil {
		return nil, err
	}

	shelter, err := s.store.GetShelter(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: shelter %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get shelter: %w", err)
	}

	if err := validateShelter(req); err != nil {
		return nil, err
	}

	shelter.Name = req.Name
	shelter.Address = req.Address
	shelter.Latitude = req.Latitude
	shelter.Longitude = req.Longitude
	shelter.Capacity = req.Capacity
	shelter.CurrentOccupancy = req.CurrentOccupancy
	shelter.ContactInfo = req.ContactInfo
	if req.IsActive != nil {
		shelter.IsActive = *req.IsActive
	}

	if err := s.store.UpdateShelter(ctx, shelter); err != nil {
		return nil, fmt.Errorf("update shelter: %w", err)
	}

	s.logger.Infow("Shelter updated", "id", shelter.ID, "occupancy", shelter.CurrentOccupancy, "capacity", shelter.Capacity)
	return shelter, nil
}

// ToggleActive flips a shelter's active flag. Authority only.
func (s *ShelterService) ToggleActive(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Shelter, error) {
	if err := requireRole(actor, models.RoleAuthority); err != nil {
		return nil, err
	}

	shelter, err := s.store.GetShelter(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: shelter %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get shelter: %w", err)
	}

	shelter.IsActive = !shelter.IsActive
	if err := s.store.UpdateShelter(ctx, shelter); err != nil {
		return nil, fmt.Errorf("update shelter: %w", err)
	}

	s.logger.Infow("Shelter active flag toggled", "id", shelter.ID, "is_active", shelter.IsActive)
	return shelter, nil
}

// List returns shelters matching the filter together with aggregate
// statistics over the filtered set.
func (s *ShelterService) List(ctx context.Context, f store.ShelterFilter) (*models.ShelterList, error) {
	shelters, err := s.store.ListShelters(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list shelters: %w", err)
	}

	list := &models.ShelterList{
		Shelters:      make([]models.ShelterView, 0, len(shelters)),
		TotalShelters: len(shelters),
	}
	for _, sh := range shelters {
		list.Shelters = append(list.Shelters, models.NewShelterView(sh))
		if !sh.IsFull() {
			list.AvailableShelters++
		}
		list.AvailableCapacity += sh.Availability()
	}
	return list, nil
}
