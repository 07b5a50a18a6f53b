package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoleSatisfies(t *testing.T) {
	cases := []struct {
		have     Role
		required Role
		want     bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleUser, true},
		{RoleUser, RoleUser, true},
		{RoleUser, RoleAdmin, false},
		{Role("superuser"), RoleUser, false},
		{RoleAdmin, Role("superuser"), false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, tc.have.Satisfies(tc.required),
			"have=%s required=%s", tc.have, tc.required)
	}
}

func TestRoleValid(t *testing.T) {
	require.True(t, RoleUser.Valid())
	require.True(t, RoleAdmin.Valid())
	require.False(t, Role("").Valid())
	require.False(t, Role("root").Valid())
}
