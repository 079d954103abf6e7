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

// AssignmentService is the assignment coordinator and the volunteer side
// of the status transition engine. Every transition that touches more
// than one row runs as a single transaction: the assignment row, the
// linked aid request and the volunteer's availability move together or
// not at all.
type AssignmentService struct {
	store  store.Store
	logger *zap.SugaredLogger
}

// NewAssignmentService creates a new assignment service.
func NewAssignmentService(st store.Store, logger *zap.SugaredLogger) *AssignmentService {
	return &AssignmentService{store: st, logger: logger}
}

// Assign binds a volunteer to an approved aid request. Authority only.
//
// Preconditions are checked in order, each with its own rejection: the
// aid request must exist, the target must be a volunteer with a profile,
// the request must be approved, and no active assignment may already
// exist for it. The duplicate check runs inside the transaction so two
// concurrent assignments of the same request cannot both succeed.
func (s *AssignmentService) Assign(ctx context.Context, actor models.Actor, req *models.AssignmentRequest) (*models.VolunteerAssignment, error) {
	if err := requireRole(actor, models.RoleAuthority); err != nil {
		return nil, err
	}

	var assignment *models.VolunteerAssignment
	err := s.store.Tx(ctx, func(tx store.Store) error {
		request, err := tx.GetAidRequest(ctx, req.AidRequestID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: aid request %s", ErrNotFound, req.AidRequestID)
			}
			return fmt.Errorf("get aid request: %w", err)
		}

		volunteer, err := tx.GetUser(ctx, req.VolunteerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: user %s", ErrNotAVolunteer, req.VolunteerID)
			}
			return fmt.Errorf("get volunteer: %w", err)
		}
		if volunteer.Role != models.RoleVolunteer {
			return fmt.Errorf("%w: user %s has role %s", ErrNotAVolunteer, volunteer.ID, volunteer.Role)
		}
		profile, err := tx.GetVolunteerProfile(ctx, volunteer.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: user %s has no volunteer profile", ErrNotAVolunteer, volunteer.ID)
			}
			return fmt.Errorf("get volunteer profile: %w", err)
		}

		if request.Status != models.AidRequestApproved {
			return fmt.Errorf("%w: aid request must be approved before assigning, is %s", ErrInvalidState, request.Status)
		}

		taken, err := tx.HasActiveAssignment(ctx, request.ID)
		if err != nil {
			return fmt.Errorf("check existing assignment: %w", err)
		}
		if taken {
			return fmt.Errorf("%w: aid request %s already has an active assignment", ErrInvalidState, request.ID)
		}

		assignment = &models.VolunteerAssignment{
			ID:           uuid.New(),
			VolunteerID:  volunteer.ID,
			AidRequestID: request.ID,
			AssignedBy:   actor.ID,
			Status:       models.AssignmentAssigned,
			AssignedAt:   time.Now(),
			Notes:        req.Notes,
		}
		if err := tx.CreateAssignment(ctx, assignment); err != nil {
			return fmt.Errorf("create assignment: %w", err)
		}

		request.Status = models.AidRequestInProgress
		if err := tx.UpdateAidRequest(ctx, request); err != nil {
			return fmt.Errorf("update aid request: %w", err)
		}

		profile.Availability = models.Unavailable
		if err := tx.UpdateVolunteerProfile(ctx, profile); err != nil {
			return fmt.Errorf("update volunteer profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Volunteer assigned",
		"assignment", assignment.ID,
		"aid_request", assignment.AidRequestID,
		"volunteer", assignment.VolunteerID,
		"by", actor.ID,
	)
	return assignment, nil
}

// UpdateStatus applies a volunteer-invoked transition to the volunteer's
// own assignment.
//
// Legal steps are assigned -> in_progress and in_progress -> completed.
// Completing sets completed_at, flips the linked aid request to completed
// when it is still in_progress, and releases the volunteer back to
// available, all in one transaction.
func (s *AssignmentService) UpdateStatus(ctx context.Context, actor models.Actor, id uuid.UUID, target string) (*models.VolunteerAssignment, error) {
	if err := requireRole(actor, models.RoleVolunteer); err != nil {
		return nil, err
	}

	status := models.AssignmentStatus(target)
	if !models.ValidAssignmentStatus(status) {
		return nil, fmt.Errorf("%w: %q is not an assignment status", ErrInvalidStatus, target)
	}

	var updated *models.VolunteerAssignment
	err := s.store.Tx(ctx, func(tx store.Store) error {
		assignment, err := tx.GetAssignment(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: assignment %s", ErrNotFound, id)
			}
			return fmt.Errorf("get assignment: %w", err)
		}
		if assignment.VolunteerID != actor.ID {
			return fmt.Errorf("%w: assignment belongs to another volunteer", ErrPermissionDenied)
		}

		switch {
		case assignment.Status == models.AssignmentAssigned && status == models.AssignmentInProgress:
			assignment.Status = models.AssignmentInProgress
			if err := tx.UpdateAssignment(ctx, assignment); err != nil {
				return fmt.Errorf("update assignment: %w", err)
			}

		case assignment.Status == models.AssignmentInProgress && status == models.AssignmentCompleted:
			now := time.Now()
			assignment.Status = models.AssignmentCompleted
			assignment.CompletedAt = &now
			if err := tx.UpdateAssignment(ctx, assignment); err != nil {
				return fmt.Errorf("update assignment: %w", err)
			}

			request, err := tx.GetAidRequest(ctx, assignment.AidRequestID)
			if err != nil {
				return fmt.Errorf("get aid request: %w", err)
			}
			if request.Status == models.AidRequestInProgress {
				request.Status = models.AidRequestCompleted
				if err := tx.UpdateAidRequest(ctx, request); err != nil {
					return fmt.Errorf("update aid request: %w", err)
				}
			}

			profile, err := tx.GetVolunteerProfile(ctx, assignment.VolunteerID)
			if err != nil {
				return fmt.Errorf("get volunteer profile: %w", err)
			}
			profile.Availability = models.Available
			if err := tx.UpdateVolunteerProfile(ctx, profile); err != nil {
				return fmt.Errorf("update volunteer profile: %w", err)
			}

		default:
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, assignment.Status, status)
		}

		updated = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Assignment status updated",
		"assignment", updated.ID,
		"status", updated.Status,
		"volunteer", actor.ID,
	)
	return updated, nil
}

// Cancel aborts an assignment that has not finished. Authority only.
// The volunteer is released back to available and the aid request returns
// to approved, making it assignable again.
func (s *AssignmentService) Cancel(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.VolunteerAssignment, error) {
	if err := requireRole(actor, models.RoleAuthority); err != nil {
		return nil, err
	}

	var cancelled *models.VolunteerAssignment
	err := s.store.Tx(ctx, func(tx store.Store) error {
		assignment, err := tx.GetAssignment(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: assignment %s", ErrNotFound, id)
			}
			return fmt.Errorf("get assignment: %w", err)
		}
		if assignment.Status.Terminal() {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, assignment.Status, models.AssignmentCancelled)
		}

		assignment.Status = models.AssignmentCancelled
		if err := tx.UpdateAssignment(ctx, assignment); err != nil {
			return fmt.Errorf("update assignment: %w", err)
		}

		request, err := tx.GetAidRequest(ctx, assignment.AidRequestID)
		if err != nil {
			return fmt.Errorf("get aid request: %w", err)
		}
		if request.Status == models.AidRequestInProgress {
			request.Status = models.AidRequestApproved
			if err := tx.UpdateAidRequest(ctx, request); err != nil {
				return fmt.Errorf("update aid request: %w", err)
			}
		}

		profile, err := tx.GetVolunteerProfile(ctx, assignment.VolunteerID)
		if err != nil {
			return fmt.Errorf("get volunteer profile: %w", err)
		}
		profile.Availability = models.Available
		if err := tx.UpdateVolunteerProfile(ctx, profile); err != nil {
			return fmt.Errorf("update volunteer profile: %w", err)
		}

		cancelled = assignment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Assignment cancelled",
		"assignment", cancelled.ID,
		"aid_request", cancelled.AidRequestID,
		"volunteer", cancelled.VolunteerID,
		"by", actor.ID,
	)
	return cancelled, nil
}

// ListMine returns the volunteer's own assignments, newest first.
func (s *AssignmentService) ListMine(ctx context.Context, actor models.Actor) ([]models.VolunteerAssignment, error) {
	if err := requireRole(actor, models.RoleVolunteer); err != nil {
		return nil, err
	}
	assignments, err := s.store.ListAssignmentsByVolunteer(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}
