package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserFullName(t *testing.T) {
	u := User{Username: "aminah", FirstName: "Aminah", LastName: "Hassan"}
	assert.Equal(t, "Aminah Hassan", u.FullName())

	u = User{Username: "aminah", FirstName: "Aminah"}
	assert.Equal(t, "Aminah", u.FullName())

	u = User{Username: "aminah"}
	assert.Equal(t, "aminah", u.FullName())
}

func TestShelterDerivedFields(t *testing.T) {
	s := Shelter{Capacity: 100, CurrentOccupancy: 25}
	assert.Equal(t, 75, s.Availability())
	assert.False(t, s.IsFull())
	assert.InDelta(t, 25.0, s.OccupancyPercentage(), 0.001)

	s = Shelter{Capacity: 10, CurrentOccupancy: 10}
	assert.Equal(t, 0, s.Availability())
	assert.True(t, s.IsFull())

	// Guard against division by zero on malformed rows.
	s = Shelter{Capacity: 0, CurrentOccupancy: 0}
	assert.InDelta(t, 0.0, s.OccupancyPercentage(), 0.001)
}

func TestAssignmentStatusTerminal(t *testing.T) {
	assert.False(t, AssignmentAssigned.Terminal())
	assert.False(t, AssignmentInProgress.Terminal())
	assert.True(t, AssignmentCompleted.Terminal())
	assert.True(t, AssignmentCancelled.Terminal())
}

func TestStatusDomains(t *testing.T) {
	assert.True(t, ValidAidRequestStatus(AidRequestPending))
	assert.False(t, ValidAidRequestStatus("escalated"))
	assert.True(t, ValidAssignmentStatus(AssignmentCancelled))
	assert.False(t, ValidAssignmentStatus("paused"))
	assert.True(t, ValidRole(RoleAuthority))
	assert.False(t, ValidRole("admin"))
}
