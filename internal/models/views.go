package models

import (
	"time"

	"github.com/google/uuid"
)

// AidRequestDetail is the read model served to authorities reviewing a
// single aid request.
type AidRequestDetail struct {
	ID            uuid.UUID        `json:"id"`
	AidType       AidType          `json:"aid_type"`
	Status        AidRequestStatus `json:"status"`
	Location      string           `json:"location"`
	NumPeople     int              `json:"num_people"`
	Description   string           `json:"description"`
	RequestedAt   time.Time        `json:"requested_at"`
	RequesterName string           `json:"requester_name"`
}

// AvailableVolunteer is one row of the candidate list shown when assigning
// a volunteer to an aid request.
type AvailableVolunteer struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Skills           []string  `json:"skills"`
	AssignmentsCount int       `json:"assignments_count"`
}

// AssignmentSummary is one assignment row in a volunteer's history.
type AssignmentSummary struct {
	ID          uuid.UUID        `json:"id"`
	AidType     AidType          `json:"aid_type"`
	Location    string           `json:"location"`
	Status      AssignmentStatus `json:"status"`
	AssignedAt  time.Time        `json:"assigned_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// VolunteerDetail is the full volunteer profile read model.
type VolunteerDetail struct {
	ID              uuid.UUID           `json:"id"`
	Username        string              `json:"username"`
	FullName        string              `json:"full_name"`
	Email           string              `json:"email"`
	Phone           string              `json:"phone,omitempty"`
	Address         string              `json:"address,omitempty"`
	DateJoined      time.Time           `json:"date_joined"`
	Availability    Availability        `json:"availability"`
	Skills          []string            `json:"skills"`
	AssignmentCount int                 `json:"assignment_count"`
	Assignments     []AssignmentSummary `json:"assignments"`
}

// ShelterView is a shelter together with its derived occupancy values.
type ShelterView struct {
	Shelter
	Availability        int     `json:"availability"`
	IsFull              bool    `json:"is_full"`
	OccupancyPercentage float64 `json:"occupancy_percentage"`
}

// NewShelterView computes the derived fields for s.
func NewShelterView(s Shelter) ShelterView {
	return ShelterView{
		Shelter:             s,
		Availability:        s.Availability(),
		IsFull:              s.IsFull(),
		OccupancyPercentage: s.OccupancyPercentage(),
	}
}

// ShelterList is the shelter listing with aggregate statistics.
type ShelterList struct {
	Shelters          []ShelterView `json:"shelters"`
	TotalShelters     int           `json:"total_shelters"`
	AvailableShelters int           `json:"available_shelters"`
	AvailableCapacity int           `json:"available_capacity"`
}

// DashboardStats are the authority dashboard counters.
type DashboardStats struct {
	TotalReports        int `json:"total_reports"`
	ActiveReports       int `json:"active_reports"`
	TotalAidRequests    int `json:"total_aid_requests"`
	PendingAidRequests  int `json:"pending_aid_requests"`
	TotalVolunteers     int `json:"total_volunteers"`
	AvailableVolunteers int `json:"available_volunteers"`
	TotalShelters       int `json:"total_shelters"`
	AvailableShelters   int `json:"available_shelters"`
}

// HealthStatus is the health check response.
type HealthStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime,omitempty"`
	Database string `json:"database,omitempty"`
}
