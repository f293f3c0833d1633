// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// Roles are a closed set. Adding a role means adding a constant here and
// teaching the capability methods below about it, which keeps role changes
// compile-time visible instead of scattered string comparisons.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can publish and manage stories
	RoleEditor UserRole = "editor"

	// Default role for standard registered users
	RoleUser UserRole = "user"
)

// Parse maps a raw role string from storage onto the closed [UserRole] set.
// Unknown values degrade to the lowest-privilege role rather than failing open.
func Parse(raw string) UserRole {
	switch UserRole(raw) {
	case RoleAdmin:
		return RoleAdmin
	case RoleEditor:
		return RoleEditor
	default:
		return RoleUser
	}
}

// # Capabilities

// CanAuthor reports whether the role may create new stories.
func (r UserRole) CanAuthor() bool {
	return r == RoleAdmin || r == RoleEditor
}

// CanModerate reports whether the role may mutate content it does not own.
func (r UserRole) CanModerate() bool {
	return r == RoleAdmin
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleEditor:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
