package authz

import (
	"errors"
	"testing"

	"homefix/internal/actor"
	"homefix/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func ticketTarget(createdBy uint, assignedTo *uint, status model.TicketStatus, buildingID uint) Target {
	return Target{
		Ticket: &model.Ticket{
			ID:         1,
			UnitID:     10,
			CreatedBy:  createdBy,
			AssignedTo: assignedTo,
			Status:     status,
		},
		BuildingID: buildingID,
	}
}

func TestAuthorize_ViewTicket(t *testing.T) {
	target := ticketTarget(100, uintPtr(200), model.StatusOpen, 5)

	tests := []struct {
		name    string
		actor   *actor.Actor
		allowed bool
	}{
		{"creator", &actor.Actor{UserID: 100, Role: model.RoleTenant, UnitID: 10}, true},
		{"assigned contractor", &actor.Actor{UserID: 200, Role: model.RoleContractor}, true},
		{"building representative", &actor.Actor{UserID: 300, Role: model.RoleRepresentative, BuildingID: 5}, true},
		{"representative of other building", &actor.Actor{UserID: 300, Role: model.RoleRepresentative, BuildingID: 6}, false},
		{"unrelated tenant", &actor.Actor{UserID: 400, Role: model.RoleTenant, UnitID: 99}, false},
		{"unassigned contractor", &actor.Actor{UserID: 500, Role: model.RoleContractor}, false},
		{"admin", &actor.Actor{UserID: 600, Role: model.RoleAdmin}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, OpViewTicket, target)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrNotAuthorized)
			}
		})
	}
}

func TestAuthorize_DeleteTicket(t *testing.T) {
	target := ticketTarget(100, uintPtr(200), model.StatusOpen, 5)

	assert.NoError(t, Authorize(&actor.Actor{UserID: 100, Role: model.RoleTenant}, OpDeleteTicket, target))
	assert.NoError(t, Authorize(&actor.Actor{UserID: 300, Role: model.RoleRepresentative, BuildingID: 5}, OpDeleteTicket, target))
	assert.NoError(t, Authorize(&actor.Actor{UserID: 600, Role: model.RoleAdmin}, OpDeleteTicket, target))

	// The assigned contractor may view but not delete.
	err := Authorize(&actor.Actor{UserID: 200, Role: model.RoleContractor}, OpDeleteTicket, target)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestAuthorize_AssignContractor(t *testing.T) {
	target := ticketTarget(100, nil, model.StatusOpen, 5)

	t.Run("representative of the building", func(t *testing.T) {
		err := Authorize(&actor.Actor{UserID: 300, Role: model.RoleRepresentative, BuildingID: 5}, OpAssignContractor, target)
		assert.NoError(t, err)
	})

	t.Run("representative of another building", func(t *testing.T) {
		err := Authorize(&actor.Actor{UserID: 300, Role: model.RoleRepresentative, BuildingID: 9}, OpAssignContractor, target)
		require.Error(t, err)
		var deny *DenyError
		require.True(t, errors.As(err, &deny))
		assert.Equal(t, "Predstavnik nije dodijeljen ovoj zgradi.", deny.Message)
	})

	t.Run("tenant", func(t *testing.T) {
		err := Authorize(&actor.Actor{UserID: 100, Role: model.RoleTenant, UnitID: 10}, OpAssignContractor, target)
		require.Error(t, err)
		var deny *DenyError
		require.True(t, errors.As(err, &deny))
		assert.Equal(t, "Samo predstavnik ili admin mogu dodijeliti majstora.", deny.Message)
	})

	t.Run("admin", func(t *testing.T) {
		assert.NoError(t, Authorize(&actor.Actor{UserID: 600, Role: model.RoleAdmin}, OpAssignContractor, target))
	})
}

func TestAuthorize_UpdateStatusAndComment(t *testing.T) {
	target := ticketTarget(100, uintPtr(200), model.StatusInProgress, 5)

	for _, op := range []Operation{OpUpdateStatus, OpUpdateComment} {
		assert.NoError(t, Authorize(&actor.Actor{UserID: 200, Role: model.RoleContractor}, op, target))
		assert.NoError(t, Authorize(&actor.Actor{UserID: 600, Role: model.RoleAdmin}, op, target))

		// Neither the creator nor the representative touch status or comment.
		assert.Error(t, Authorize(&actor.Actor{UserID: 100, Role: model.RoleTenant, UnitID: 10}, op, target))
		assert.Error(t, Authorize(&actor.Actor{UserID: 300, Role: model.RoleRepresentative, BuildingID: 5}, op, target))
	}
}

func TestAuthorize_CreateTicket(t *testing.T) {
	t.Run("tenant with unit", func(t *testing.T) {
		err := Authorize(&actor.Actor{UserID: 100, Role: model.RoleTenant, UnitID: 10}, OpCreateTicket, Target{})
		assert.NoError(t, err)
	})

	t.Run("tenant without unit link", func(t *testing.T) {
		err := Authorize(&actor.Actor{UserID: 100, Role: model.RoleTenant}, OpCreateTicket, Target{})
		assert.ErrorIs(t, err, ErrNotATenant)
	})

	t.Run("no admin override", func(t *testing.T) {
		err := Authorize(&actor.Actor{UserID: 600, Role: model.RoleAdmin}, OpCreateTicket, Target{})
		assert.ErrorIs(t, err, ErrNotATenant)
	})

	t.Run("contractor", func(t *testing.T) {
		err := Authorize(&actor.Actor{UserID: 200, Role: model.RoleContractor}, OpCreateTicket, Target{})
		require.Error(t, err)
		assert.Equal(t, "Korisnik nije registriran kao stanar.", err.Error())
	})
}

func TestAuthorize_CreateRating(t *testing.T) {
	resolved := ticketTarget(100, uintPtr(200), model.StatusResolved, 5)
	open := ticketTarget(100, uintPtr(200), model.StatusOpen, 5)

	t.Run("creator on resolved ticket", func(t *testing.T) {
		err := Authorize(&actor.Actor{UserID: 100, Role: model.RoleTenant, UnitID: 10}, OpCreateRating, resolved)
		assert.NoError(t, err)
	})

	t.Run("non-creator", func(t *testing.T) {
		err := Authorize(&actor.Actor{UserID: 400, Role: model.RoleTenant, UnitID: 10}, OpCreateRating, resolved)
		assert.ErrorIs(t, err, ErrNotCreator)
	})

	t.Run("admin is still creator-bound", func(t *testing.T) {
		err := Authorize(&actor.Actor{UserID: 600, Role: model.RoleAdmin}, OpCreateRating, resolved)
		assert.ErrorIs(t, err, ErrNotCreator)
	})

	t.Run("unresolved ticket", func(t *testing.T) {
		err := Authorize(&actor.Actor{UserID: 100, Role: model.RoleTenant, UnitID: 10}, OpCreateRating, open)
		assert.ErrorIs(t, err, ErrNotResolved)
	})

	t.Run("already rated", func(t *testing.T) {
		target := resolved
		target.HasRating = true
		err := Authorize(&actor.Actor{UserID: 100, Role: model.RoleTenant, UnitID: 10}, OpCreateRating, target)
		assert.ErrorIs(t, err, ErrAlreadyRated)
	})
}

func TestAuthorize_CreateBuilding(t *testing.T) {
	// A representative creates a building during onboarding, before any
	// linkage row exists.
	assert.NoError(t, Authorize(&actor.Actor{UserID: 300, Role: model.RoleRepresentative}, OpCreateBuilding, Target{}))
	assert.NoError(t, Authorize(&actor.Actor{UserID: 600, Role: model.RoleAdmin}, OpCreateBuilding, Target{}))

	err := Authorize(&actor.Actor{UserID: 100, Role: model.RoleTenant, UnitID: 10}, OpCreateBuilding, Target{})
	require.Error(t, err)
	assert.Equal(t, "Only representatives can create buildings", err.Error())
}

func TestAuthorize_InviteTenant(t *testing.T) {
	assert.NoError(t, Authorize(&actor.Actor{UserID: 300, Role: model.RoleRepresentative, BuildingID: 5}, OpInviteTenant, Target{BuildingID: 5}))
	assert.NoError(t, Authorize(&actor.Actor{UserID: 600, Role: model.RoleAdmin}, OpInviteTenant, Target{}))
	assert.Error(t, Authorize(&actor.Actor{UserID: 200, Role: model.RoleContractor}, OpInviteTenant, Target{}))
}

func TestDenyError_Unwrap(t *testing.T) {
	err := Authorize(&actor.Actor{UserID: 1, Role: model.RoleContractor}, OpCreateTicket, Target{})
	require.Error(t, err)

	var deny *DenyError
	require.True(t, errors.As(err, &deny))
	assert.Equal(t, OpCreateTicket, deny.Op)
	assert.ErrorIs(t, err, ErrNotATenant)
}
