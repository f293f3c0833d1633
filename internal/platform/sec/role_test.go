// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkpress-io/inkpress/internal/platform/sec"
)

/*
TestParse verifies raw role strings map onto the closed role set and that
unknown values degrade to the lowest privilege.
*/
func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want sec.UserRole
	}{
		{"admin", "admin", sec.RoleAdmin},
		{"editor", "editor", sec.RoleEditor},
		{"user", "user", sec.RoleUser},
		{"unknown_degrades", "superuser", sec.RoleUser},
		{"empty_degrades", "", sec.RoleUser},
		{"case_sensitive", "Admin", sec.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sec.Parse(tt.raw))
		})
	}
}

/*
TestCapabilities verifies the per-role capability matrix.
*/
func TestCapabilities(t *testing.T) {
	tests := []struct {
		role        sec.UserRole
		canAuthor   bool
		canModerate bool
	}{
		{sec.RoleAdmin, true, true},
		{sec.RoleEditor, true, false},
		{sec.RoleUser, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.canAuthor, tt.role.CanAuthor())
			assert.Equal(t, tt.canModerate, tt.role.CanModerate())
		})
	}
}

/*
TestAtLeast verifies the role hierarchy comparisons used by route guards.
*/
func TestAtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleEditor))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleUser))
	assert.True(t, sec.RoleEditor.AtLeast(sec.RoleUser))
	assert.True(t, sec.RoleUser.AtLeast(sec.RoleUser))

	assert.False(t, sec.RoleUser.AtLeast(sec.RoleEditor))
	assert.False(t, sec.RoleEditor.AtLeast(sec.RoleAdmin))
}
