package models

import "github.com/google/uuid"

// Registration is the request body for creating an account.
// The authority role cannot be self-registered.
type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Role            Role   `json:"role"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ReportSubmission is the request body for filing a disaster report.
type ReportSubmission struct {
	DisasterType         DisasterType `json:"disaster_type"`
	Location             string       `json:"location"`
	Latitude             float64      `json:"latitude"`
	Longitude            float64      `json:"longitude"`
	Severity             int          `json:"severity"`
	Description          string       `json:"description"`
	PeopleAffected       *int         `json:"people_affected,omitempty"`
	AreaAffected         *float64     `json:"area_affected,omitempty"`
	InfrastructureDamage *DamageLevel `json:"infrastructure_damage,omitempty"`
}

// ShelterSubmission is the request body for creating or editing a shelter.
type ShelterSubmission struct {
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Capacity         int     `json:"capacity"`
	CurrentOccupancy int     `json:"current_occupancy"`
	ContactInfo      string  `json:"contact_info"`
	IsActive         *bool   `json:"is_active,omitempty"`
}

// AidRequestSubmission is the request body for requesting aid.
type AidRequestSubmission struct {
	AidType     AidType    `json:"aid_type"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	NumPeople   int        `json:"num_people"`
	ShelterID   *uuid.UUID `json:"shelter_id,omitempty"`
}

// ProfileUpdate is the request body for a volunteer editing their profile.
type ProfileUpdate struct {
	Availability Availability `json:"availability"`
	SkillIDs     []uuid.UUID  `json:"skill_ids"`
}

// AssignmentRequest is the request body for assigning a volunteer to an
// approved aid request.
type AssignmentRequest struct {
	AidRequestID uuid.UUID `json:"aid_request_id"`
	VolunteerID  uuid.UUID `json:"volunteer_id"`
	Notes        string    `json:"notes"`
}

// StatusUpdate is the request body for the status-update endpoints.
type StatusUpdate struct {
	Status string `json:"status"`
}

// SkillSubmission is the request body for creating a skill.
type SkillSubmission struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
