// Package models defines the data structures used across the application.
// These map to the PostgreSQL schema.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's fixed role, assigned at registration.
type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleVolunteer Role = "volunteer"
	RoleAuthority Role = "authority"
)

// ValidRole reports whether r is one of the declared roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleCitizen, RoleVolunteer, RoleAuthority:
		return true
	}
	return false
}

// Actor identifies the authenticated caller of an operation.
// It is extracted from the JWT by the auth middleware.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// User represents a registered account. Role gates every workflow operation.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Role         Role      `json:"role" db:"role"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	Address      string    `json:"address,omitempty" db:"address"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	DateJoined   time.Time `json:"date_joined" db:"date_joined"`
}

// FullName returns "first last", falling back to the username.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// DisasterType classifies a disaster report.
type DisasterType string

const (
	DisasterFlood     DisasterType = "flood"
	DisasterLandslide DisasterType = "landslide"
	DisasterHaze      DisasterType = "haze"
	DisasterOther     DisasterType = "other"
)

// ValidDisasterType reports whether t is one of the declared types.
func ValidDisasterType(t DisasterType) bool {
	switch t {
	case DisasterFlood, DisasterLandslide, DisasterHaze, DisasterOther:
		return true
	}
	return false
}

// DamageLevel grades infrastructure damage on a disaster report.
type DamageLevel string

const (
	DamageLow          DamageLevel = "low"
	DamageModerate     DamageLevel = "moderate"
	DamageSevere       DamageLevel = "severe"
	DamageCatastrophic DamageLevel = "catastrophic"
)

// ValidDamageLevel reports whether l is one of the declared levels.
func ValidDamageLevel(l DamageLevel) bool {
	switch l {
	case DamageLow, DamageModerate, DamageSevere, DamageCatastrophic:
		return true
	}
	return false
}

// Severity bounds for disaster reports (1=Low .. 4=Critical).
const (
	SeverityMin = 1
	SeverityMax = 4
)

// DisasterReport is a citizen-submitted disaster sighting. IsActive is a
// visibility flag toggled by authorities; everything else is immutable
// after creation.
type DisasterReport struct {
	ID                   uuid.UUID    `json:"id" db:"id"`
	ReporterID           uuid.UUID    `json:"reporter_id" db:"reporter_id"`
	DisasterType         DisasterType `json:"disaster_type" db:"disaster_type"`
	Location             string       `json:"location" db:"location"`
	Latitude             float64      `json:"latitude" db:"latitude"`
	Longitude            float64      `json:"longitude" db:"longitude"`
	Severity             int          `json:"severity" db:"severity"`
	Description          string       `json:"description" db:"description"`
	ReportedAt           time.Time    `json:"reported_at" db:"reported_at"`
	IsActive             bool         `json:"is_active" db:"is_active"`
	PeopleAffected       *int         `json:"people_affected,omitempty" db:"people_affected"`
	AreaAffected         *float64     `json:"area_affected,omitempty" db:"area_affected"`
	InfrastructureDamage *DamageLevel `json:"infrastructure_damage,omitempty" db:"infrastructure_damage"`
}

// Shelter is an authority-managed refuge with tracked occupancy.
// Invariant: 0 <= CurrentOccupancy <= Capacity.
type Shelter struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Address          string    `json:"address" db:"address"`
	Latitude         float64   `json:"latitude" db:"latitude"`
	Longitude        float64   `json:"longitude" db:"longitude"`
	Capacity         int       `json:"capacity" db:"capacity"`
	CurrentOccupancy int       `json:"current_occupancy" db:"current_occupancy"`
	ContactInfo      string    `json:"contact_info,omitempty" db:"contact_info"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// Availability returns the number of free places, never negative.
func (s *Shelter) Availability() int {
	if free := s.Capacity - s.CurrentOccupancy; free > 0 {
		return free
	}
	return 0
}

// IsFull reports whether the shelter has no free places.
func (s *Shelter) IsFull() bool {
	return s.CurrentOccupancy >= s.Capacity
}

// OccupancyPercentage returns occupancy as a percentage of capacity,
// 0 when capacity is not positive.
func (s *Shelter) OccupancyPercentage() float64 {
	if s.Capacity > 0 {
		return float64(s.CurrentOccupancy) / float64(s.Capacity) * 100
	}
	return 0
}

// AidType classifies an aid request.
type AidType string

const (
	AidFood    AidType = "food"
	AidShelter AidType = "shelter"
	AidRescue  AidType = "rescue"
	AidMedical AidType = "medical"
	AidOther   AidType = "other"
)

// ValidAidType reports whether t is one of the declared types.
func ValidAidType(t AidType) bool {
	switch t {
	case AidFood, AidShelter, AidRescue, AidMedical, AidOther:
		return true
	}
	return false
}

// AidRequestStatus is the lifecycle state of an aid request.
//
//	pending -> approved -> in_progress -> completed
//	pending -> rejected
//
// in_progress is entered only when a volunteer is assigned, completed only
// when the assignment completes. rejected and completed are terminal.
type AidRequestStatus string

const (
	AidRequestPending    AidRequestStatus = "pending"
	AidRequestApproved   AidRequestStatus = "approved"
	AidRequestInProgress AidRequestStatus = "in_progress"
	AidRequestCompleted  AidRequestStatus = "completed"
	AidRequestRejected   AidRequestStatus = "rejected"
)

// ValidAidRequestStatus reports whether s is in the declared status domain.
func ValidAidRequestStatus(s AidRequestStatus) bool {
	switch s {
	case AidRequestPending, AidRequestApproved, AidRequestInProgress,
		AidRequestCompleted, AidRequestRejected:
		return true
	}
	return false
}

// AidRequest is a citizen's submitted need for help.
type AidRequest struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	RequesterID uuid.UUID        `json:"requester_id" db:"requester_id"`
	AidType     AidType          `json:"aid_type" db:"aid_type"`
	Description string           `json:"description" db:"description"`
	Location    string           `json:"location" db:"location"`
	Latitude    float64          `json:"latitude" db:"latitude"`
	Longitude   float64          `json:"longitude" db:"longitude"`
	NumPeople   int              `json:"num_people" db:"num_people"`
	Status      AidRequestStatus `json:"status" db:"status"`
	RequestedAt time.Time        `json:"requested_at" db:"requested_at"`
	ShelterID   *uuid.UUID       `json:"shelter_id,omitempty" db:"shelter_id"`
	ApprovedBy  *uuid.UUID       `json:"approved_by,omitempty" db:"approved_by"`
}

// Skill is reference data describing a volunteer capability.
type Skill struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
}

// Availability is a volunteer's busy/free flag, toggled by the assignment
// lifecycle. Not a calendar.
type Availability string

const (
	Available   Availability = "available"
	Unavailable Availability = "unavailable"
)

// ValidAvailability reports whether a is one of the declared values.
func ValidAvailability(a Availability) bool {
	return a == Available || a == Unavailable
}

// VolunteerProfile is one-to-one with a user whose role is volunteer.
type VolunteerProfile struct {
	UserID       uuid.UUID    `json:"user_id" db:"user_id"`
	SkillIDs     []uuid.UUID  `json:"skill_ids" db:"skill_ids"`
	Availability Availability `json:"availability" db:"availability"`
}

// AssignmentStatus is the lifecycle state of a volunteer assignment.
//
//	assigned -> in_progress -> completed
//	assigned | in_progress -> cancelled (authority)
type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentCancelled  AssignmentStatus = "cancelled"
)

// ValidAssignmentStatus reports whether s is in the declared status domain.
func ValidAssignmentStatus(s AssignmentStatus) bool {
	switch s {
	case AssignmentAssigned, AssignmentInProgress, AssignmentCompleted,
		AssignmentCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is accepted from s.
func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentCompleted || s == AssignmentCancelled
}

// VolunteerAssignment binds one volunteer to one approved aid request.
// At most one non-cancelled assignment may exist per aid request.
type VolunteerAssignment struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	VolunteerID  uuid.UUID        `json:"volunteer_id" db:"volunteer_id"`
	AidRequestID uuid.UUID        `json:"aid_request_id" db:"aid_request_id"`
	AssignedBy   uuid.UUID        `json:"assigned_by" db:"assigned_by"`
	Status       AssignmentStatus `json:"status" db:"status"`
	AssignedAt   time.Time        `json:"assigned_at" db:"assigned_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty" db:"completed_at"`
	Notes        string           `json:"notes,omitempty" db:"notes"`
}
