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

// AidRequestService handles aid request submission and the authority side
// of the status transition engine.
//
// The direct status-update entry point accepts only the pending ->
// approved|rejected edges. in_progress and completed are reachable solely
// as side effects of the assignment lifecycle (see AssignmentService), so
// requesting them here is an illegal transition.
type AidRequestService struct {
	store  store.Store
	logger *zap.SugaredLogger
}

// NewAidRequestService creates a new aid request service.
func NewAidRequestService(st store.Store, logger *zap.SugaredLogger) *AidRequestService {
	return &AidRequestService{store: st, logger: logger}
}

// Create submits an aid request. Citizens only. Requests start pending.
func (s *AidRequestService) Create(ctx context.Context, actor models.Actor, req *models.AidRequestSubmission) (*models.AidRequest, error) {
	if err := requireRole(actor, models.RoleCitizen); err != nil {
		return nil, err
	}
	if !models.ValidAidType(req.AidType) {
		return nil, fmt.Errorf("%w: unknown aid type %q", ErrValidation, req.AidType)
	}
	if req.NumPeople < 1 {
		return nil, fmt.Errorf("%w: num_people must be at least 1", ErrValidation)
	}
	if req.Location == "" || req.Description == "" {
		return nil, fmt.Errorf("%w: location and description are required", ErrValidation)
	}
	if req.ShelterID != nil {
		if _, err := s.store.GetShelter(ctx, *req.ShelterID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("%w: shelter %s", ErrNotFound, *req.ShelterID)
			}
			return nil, fmt.Errorf("get shelter: %w", err)
		}
	}

	request := &models.AidRequest{
		ID:          uuid.New(),
		RequesterID: actor.ID,
		AidType:     req.AidType,
		Description: req.Description,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		NumPeople:   req.NumPeople,
		Status:      models.AidRequestPending,
		RequestedAt: time.Now(),
		ShelterID:   req.ShelterID,
	}

	if err := s.store.CreateAidRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("create aid request: %w", err)
	}

	s.logger.Infow("Aid request submitted",
		"id", request.ID,
		"aid_type", request.AidType,
		"num_people", request.NumPeople,
	)
	return request, nil
}

// ListMine returns the actor's own aid requests, newest first.
func (s *AidRequestService) ListMine(ctx context.Context, actor models.Actor) ([]models.AidRequest, error) {
	if err := requireRole(actor, models.RoleCitizen); err != nil {
		return nil, err
	}
	requests, err := s.store.ListAidRequests(ctx, store.AidRequestFilter{RequesterID: actor.ID})
	if err != nil {
		return nil, fmt.Errorf("list aid requests: %w", err)
	}
	return requests, nil
}

// List returns aid requests matching the filter. Authority only.
func (s *AidRequestService) List(ctx context.Context, actor models.Actor, f store.AidRequestFilter) ([]models.AidRequest, error) {
	if err := requireRole(actor, models.RoleAuthority); err != nil {
		return nil, err
	}
	requests, err := s.store.ListAidRequests(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list aid requests: %w", err)
	}
	return requests, nil
}

// Get returns a single aid request, visible to its requester and to
// authorities.
func (s *AidRequestService) Get(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.AidRequest, error) {
	request, err := s.store.GetAidRequest(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: aid request %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get aid request: %w", err)
	}
	if actor.Role != models.RoleAuthority && actor.ID != request.RequesterID {
		return nil, fmt.Errorf("%w: not the requester", ErrPermissionDenied)
	}
	return request, nil
}

// Detail returns the aid request read model shown to authorities.
func (s *AidRequestService) Detail(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.AidRequestDetail, error) {
	if err := requireRole(actor, models.RoleAuthority); err != nil {
		return nil, err
	}

	request, err := s.store.GetAidRequest(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: aid request %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get aid request: %w", err)
	}

	requester, err := s.store.GetUser(ctx, request.RequesterID)
	if err != nil {
		return nil, fmt.Errorf("get requester: %w", err)
	}

	return &models.AidRequestDetail{
		ID:            request.ID,
		AidType:       request.AidType,
		Status:        request.Status,
		Location:      request.Location,
		NumPeople:     request.NumPeople,
		Description:   request.Description,
		RequestedAt:   request.RequestedAt,
		RequesterName: requester.FullName(),
	}, nil
}

// UpdateStatus applies an authority-invoked status transition.
//
// Target values outside the status domain fail with ErrInvalidStatus.
// Within the domain, only pending -> approved and pending -> rejected are
// legal here; both record the acting authority in approved_by.
func (s *AidRequestService) UpdateStatus(ctx context.Context, actor models.Actor, id uuid.UUID, target string) (*models.AidRequest, error) {
	if err := requireRole(actor, models.RoleAuthority); err != nil {
		return nil, err
	}

	status := models.AidRequestStatus(target)
	if !models.ValidAidRequestStatus(status) {
		return nil, fmt.Errorf("%w: %q is not an aid request status", ErrInvalidStatus, target)
	}

	var updated *models.AidRequest
	err := s.store.Tx(ctx, func(tx store.Store) error {
		request, err := tx.GetAidRequest(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: aid request %s", ErrNotFound, id)
			}
			return fmt.Errorf("get aid request: %w", err)
		}

		if request.Status != models.AidRequestPending ||
			(status != models.AidRequestApproved && status != models.AidRequestRejected) {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, request.Status, status)
		}

		authority := actor.ID
		request.Status = status
		request.ApprovedBy = &authority
		if err := tx.UpdateAidRequest(ctx, request); err != nil {
			return fmt.Errorf("update aid request: %w", err)
		}
		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Aid request status updated",
		"id", updated.ID,
		"status", updated.Status,
		"by", actor.ID,
	)
	return updated, nil
}
