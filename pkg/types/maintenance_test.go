package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaintenanceStatusTransitions(t *testing.T) {
	cases := []struct {
		from MaintenanceStatus
		to   MaintenanceStatus
		want bool
	}{
		{MaintenanceStatusSubmitted, MaintenanceStatusInProgress, true},
		{MaintenanceStatusSubmitted, MaintenanceStatusResolved, true},
		{MaintenanceStatusSubmitted, MaintenanceStatusClosed, true},
		{MaintenanceStatusInProgress, MaintenanceStatusResolved, true},
		{MaintenanceStatusInProgress, MaintenanceStatusSubmitted, false},
		{MaintenanceStatusResolved, MaintenanceStatusInProgress, false},
		{MaintenanceStatusResolved, MaintenanceStatusClosed, true},
		{MaintenanceStatusClosed, MaintenanceStatusResolved, false},
		{MaintenanceStatusResolved, MaintenanceStatusResolved, true},
		{MaintenanceStatusSubmitted, "bogus", false},
		{"bogus", MaintenanceStatusClosed, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestMaintenanceStatusTerminal(t *testing.T) {
	assert.False(t, MaintenanceStatusSubmitted.Terminal())
	assert.False(t, MaintenanceStatusInProgress.Terminal())
	assert.True(t, MaintenanceStatusResolved.Terminal())
	assert.True(t, MaintenanceStatusClosed.Terminal())
}

func TestUnitID(t *testing.T) {
	assert.Equal(t, "prop1_101", UnitID("prop1", "101"))
}

func TestUserRoleValid(t *testing.T) {
	assert.True(t, UserRoleAdmin.Valid())
	assert.True(t, UserRoleStaff.Valid())
	assert.True(t, UserRoleTenant.Valid())
	assert.False(t, UserRole("landlord").Valid())
}
