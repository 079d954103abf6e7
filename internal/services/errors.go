// Package services contains the workflow core: the status transition
// engine, the assignment coordinator and the entity operations around
// them. Services are called by handlers and talk to the store.
package services

import (
	"errors"
	"fmt"

	"github.com/drims/disaster-server/internal/models"
)

// Error taxonomy. Every operation failure wraps exactly one of these
// sentinels; handlers map them to HTTP status codes with errors.Is.
var (
	// ErrPermissionDenied: the actor's role does not allow the operation,
	// or the actor does not own the target entity.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound: a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState: the entity is not in a status that allows the
	// operation (e.g. assigning a non-approved aid request).
	ErrInvalidState = errors.New("invalid state")
	// ErrIllegalTransition: the target status is in the declared domain
	// but not reachable from the current status.
	ErrIllegalTransition = errors.New("illegal status transition")
	// ErrInvalidStatus: the target status is outside the declared domain.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrNotAVolunteer: the assignment target lacks the volunteer role or
	// a volunteer profile.
	ErrNotAVolunteer = errors.New("not a volunteer")
	// ErrValidation: malformed input (occupancy above capacity, password
	// mismatch, profile for a non-volunteer, ...).
	ErrValidation = errors.New("validation failed")
)

// requireRole is the single capability gate invoked at the top of every
// privileged operation.
func requireRole(actor models.Actor, role models.Role) error {
	if actor.Role != role {
		return fmt.Errorf("%w: operation requires role %q", ErrPermissionDenied, role)
	}
	return nil
}
