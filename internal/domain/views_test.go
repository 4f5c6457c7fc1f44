package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewFor(t *testing.T) {
	cases := []struct {
		role   UserRole
		kind   ViewKind
		action string
	}{
		{RoleOwner, ViewOwner, "products"},
		{RoleManager, ViewStaff, "manage_inventory"},
		{RoleEmployee, ViewStaff, "register_sale"},
		{RoleCashier, ViewStaff, "point_of_sale"},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			v, err := ViewFor(tc.role)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, v.Kind)
			assert.Contains(t, v.Actions, tc.action)
		})
	}

	_, err := ViewFor("user")
	assert.Error(t, err)
}

func TestUserRole(t *testing.T) {
	assert.True(t, RoleOwner.Valid())
	assert.False(t, RoleOwner.IsStaff())
	assert.True(t, RoleCashier.IsStaff())
	assert.False(t, UserRole("admin").Valid())
}
