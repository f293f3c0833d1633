// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

/*
Package authz centralizes the content access-control decisions.

Every rule is a pure function over the authenticated principal and a minimal
resource view, so the same policy is enforced identically by HTTP handlers,
services, and background jobs.

# Fail Closed

Nil principals, unknown roles, and unknown statuses all deny. A rule only
grants when a positive condition matches.
*/
package authz

import (
	"github.com/inkpress-io/inkpress/internal/platform/sec"
)

// # Resource View

// Publication states a resource can be in.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// Resource is the minimal slice of a story or comment the policy needs:
// who owns it and whether it is published. Callers load these two fields
// before deciding, never after.
type Resource struct {
	OwnerID string
	Status  string
}

// # Decisions

// CanAuthor reports whether the principal may create new content.
// Only editors and admins author; plain users consume and comment.
func CanAuthor(principal *sec.AuthClaims) bool {
	if principal == nil {
		return false
	}
	return principal.UserRoleTyped().CanAuthor()
}

// CanMutate reports whether the principal may edit or delete the resource.
//
// # Rule
//
// The owner may always mutate their own content. Admins may mutate anything.
// Editors hold no special power over content they do not own.
func CanMutate(principal *sec.AuthClaims, resource Resource) bool {
	if principal == nil {
		return false
	}
	if principal.UserID != "" && principal.UserID == resource.OwnerID {
		return true
	}
	return principal.UserRoleTyped().CanModerate()
}

// CanView reports whether the principal may read the resource.
//
// Published content is visible to any authenticated principal. Unpublished
// content is visible only to its owner and to admins.
func CanView(principal *sec.AuthClaims, resource Resource) bool {
	if principal == nil {
		return false
	}
	if resource.Status == StatusPublished {
		return true
	}
	return CanMutate(principal, resource)
}
