package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole(t *testing.T) {
	assert.Equal(t, "member", RoleMember.String())
	assert.Equal(t, "admin", RoleAdmin.String())
	assert.Equal(t, "unknown", Role(9).String())

	assert.Equal(t, RoleAdmin, RoleAdmin.Ensure())
	assert.Equal(t, RoleUnknown, Role(-1).Ensure())
}
