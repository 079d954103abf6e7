// Package store defines the persistence contract for the application's
// entities. Two implementations exist: the PostgreSQL store in
// internal/postgres and the in-memory Memory store used by tests and
// local development.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/drims/disaster-server/internal/models"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("store: not found")

// ErrProfileRole is returned when a volunteer profile is written for a
// user whose role is not volunteer.
var ErrProfileRole = errors.New("store: volunteer profile requires volunteer role")

// Date-range buckets for report filtering.
const (
	RangeToday = "today"
	RangeWeek  = "week"
	RangeMonth = "month"
)

// Sort keys for report listings.
const (
	SortDateDesc     = "date_desc"
	SortDateAsc      = "date_asc"
	SortSeverityDesc = "severity_desc"
	SortSeverityAsc  = "severity_asc"
)

// Capacity buckets for shelter filtering.
const (
	CapacitySmall  = "small"  // < 50
	CapacityMedium = "medium" // 50..100
	CapacityLarge  = "large"  // > 100
)

// Occupancy filters for shelter listings.
const (
	OccupancyAvailable = "available"
	OccupancyFull      = "full"
)

// ReportFilter narrows and orders a disaster report listing.
// Zero values mean "no filter".
type ReportFilter struct {
	DisasterType models.DisasterType
	Severity     int
	DateRange    string
	Location     string
	SortBy       string
	ActiveOnly   bool
}

// ShelterFilter narrows a shelter listing.
type ShelterFilter struct {
	Location   string
	Capacity   string
	Occupancy  string
	ActiveOnly bool
}

// AidRequestFilter narrows an aid request listing.
type AidRequestFilter struct {
	RequesterID uuid.UUID
	AidType     models.AidType
	Status      models.AidRequestStatus
}

// VolunteerFilter narrows a volunteer profile listing.
type VolunteerFilter struct {
	Availability models.Availability
	SkillID      uuid.UUID
}

// Store is the persistence contract. All mutations of status, availability
// and occupancy go through the workflow services, which use Tx to make
// multi-row writes atomic.
type Store interface {
	// Tx runs fn against a transactional view of the store. If fn returns
	// an error every write made inside it is rolled back.
	Tx(ctx context.Context, fn func(Store) error) error

	// Users
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error

	// Disaster reports
	CreateDisasterReport(ctx context.Context, r *models.DisasterReport) error
	GetDisasterReport(ctx context.Context, id uuid.UUID) (*models.DisasterReport, error)
	UpdateDisasterReport(ctx context.Context, r *models.DisasterReport) error
	ListDisasterReports(ctx context.Context, f ReportFilter) ([]models.DisasterReport, error)

	// Shelters
	CreateShelter(ctx context.Context, s *models.Shelter) error
	GetShelter(ctx context.Context, id uuid.UUID) (*models.Shelter, error)
	UpdateShelter(ctx context.Context, s *models.Shelter) error
	ListShelters(ctx context.Context, f ShelterFilter) ([]models.Shelter, error)

	// Aid requests
	CreateAidRequest(ctx context.Context, r *models.AidRequest) error
	GetAidRequest(ctx context.Context, id uuid.UUID) (*models.AidRequest, error)
	UpdateAidRequest(ctx context.Context, r *models.AidRequest) error
	ListAidRequests(ctx context.Context, f AidRequestFilter) ([]models.AidRequest, error)

	// Skills
	CreateSkill(ctx context.Context, s *models.Skill) error
	ListSkills(ctx context.Context) ([]models.Skill, error)
	GetSkills(ctx context.Context, ids []uuid.UUID) ([]models.Skill, error)

	// Volunteer profiles
	CreateVolunteerProfile(ctx context.Context, p *models.VolunteerProfile) error
	GetVolunteerProfile(ctx context.Context, userID uuid.UUID) (*models.VolunteerProfile, error)
	UpdateVolunteerProfile(ctx context.Context, p *models.VolunteerProfile) error
	ListVolunteerProfiles(ctx context.Context, f VolunteerFilter) ([]models.VolunteerProfile, error)

	// Assignments
	CreateAssignment(ctx context.Context, a *models.VolunteerAssignment) error
	GetAssignment(ctx context.Context, id uuid.UUID) (*models.VolunteerAssignment, error)
	UpdateAssignment(ctx context.Context, a *models.VolunteerAssignment) error
	ListAssignmentsByVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]models.VolunteerAssignment, error)
	CountAssignmentsByVolunteer(ctx context.Context, volunteerID uuid.UUID) (int, error)
	// HasActiveAssignment reports whether any non-cancelled assignment
	// exists for the aid request.
	HasActiveAssignment(ctx context.Context, aidRequestID uuid.UUID) (bool, error)

	// Dashboard
	DashboardCounts(ctx context.Context) (*models.DashboardStats, error)
}
