// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkpress-io/inkpress/internal/content/authz"
	"github.com/inkpress-io/inkpress/internal/platform/sec"
)

func principal(userID string, role sec.UserRole) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: userID, Role: string(role)}
}

/*
TestCanAuthor checks which roles may create content.
*/
func TestCanAuthor(t *testing.T) {
	tests := []struct {
		name      string
		principal *sec.AuthClaims
		want      bool
	}{
		{"admin_can_author", principal("u1", sec.RoleAdmin), true},
		{"editor_can_author", principal("u2", sec.RoleEditor), true},
		{"user_cannot_author", principal("u3", sec.RoleUser), false},
		{"unknown_role_degrades_to_user", &sec.AuthClaims{UserID: "u4", Role: "superuser"}, false},
		{"anonymous_cannot_author", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authz.CanAuthor(tt.principal))
		})
	}
}

/*
TestCanMutate exercises the owner-or-admin mutation rule.
*/
func TestCanMutate(t *testing.T) {
	resource := authz.Resource{OwnerID: "9", Status: authz.StatusPublished}

	tests := []struct {
		name      string
		principal *sec.AuthClaims
		resource  authz.Resource
		want      bool
	}{
		{"owner_can_mutate", principal("9", sec.RoleUser), resource, true},
		{"other_user_cannot_mutate", principal("7", sec.RoleUser), resource, false},
		{"editor_cannot_mutate_others", principal("7", sec.RoleEditor), resource, false},
		{"admin_can_mutate_others", principal("7", sec.RoleAdmin), resource, true},
		{"anonymous_cannot_mutate", nil, resource, false},
		{"empty_owner_never_matches_empty_principal", &sec.AuthClaims{UserID: "", Role: "user"}, authz.Resource{OwnerID: ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authz.CanMutate(tt.principal, tt.resource))
		})
	}
}

/*
TestCanView exercises visibility: published is open to any authenticated
principal, drafts only to the owner and admins.
*/
func TestCanView(t *testing.T) {
	published := authz.Resource{OwnerID: "9", Status: authz.StatusPublished}
	draft := authz.Resource{OwnerID: "9", Status: authz.StatusDraft}

	tests := []struct {
		name      string
		principal *sec.AuthClaims
		resource  authz.Resource
		want      bool
	}{
		{"any_authenticated_views_published", principal("7", sec.RoleUser), published, true},
		{"anonymous_cannot_view_published", nil, published, false},
		{"owner_views_own_draft", principal("9", sec.RoleUser), draft, true},
		{"other_user_cannot_view_draft", principal("7", sec.RoleUser), draft, false},
		{"editor_cannot_view_others_draft", principal("7", sec.RoleEditor), draft, false},
		{"admin_views_any_draft", principal("7", sec.RoleAdmin), draft, true},
		{"unknown_status_falls_back_to_mutate_rule", principal("7", sec.RoleUser), authz.Resource{OwnerID: "9", Status: "archived"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authz.CanView(tt.principal, tt.resource))
		})
	}
}
