package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleMember.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("root").Valid())
	assert.False(t, Role("").Valid())
}

func TestCaller_IsAdmin(t *testing.T) {
	var nilCaller *Caller
	assert.False(t, nilCaller.IsAdmin())
	assert.False(t, (&Caller{Role: RoleMember}).IsAdmin())
	assert.True(t, (&Caller{Role: RoleAdmin}).IsAdmin())
}

func TestCaller_CanManage(t *testing.T) {
	owner := uuid.Must(uuid.NewV7())
	other := uuid.Must(uuid.NewV7())

	t.Run("Owner", func(t *testing.T) {
		caller := &Caller{ID: owner, Role: RoleMember}
		assert.True(t, caller.CanManage(owner))
	})

	t.Run("NotOwner", func(t *testing.T) {
		caller := &Caller{ID: other, Role: RoleMember}
		assert.False(t, caller.CanManage(owner))
	})

	t.Run("Admin", func(t *testing.T) {
		caller := &Caller{ID: other, Role: RoleAdmin}
		assert.True(t, caller.CanManage(owner))
	})

	t.Run("NilCaller", func(t *testing.T) {
		var caller *Caller
		assert.False(t, caller.CanManage(owner))
	})
}
