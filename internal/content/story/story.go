// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

/*
Package story defines the core publishing domain of Inkpress.

It manages the lifecycle of user-authored stories from draft to publication,
including listing, search, and the author dashboard view.

Core Responsibility:

  - Lifecycle: Draft and published states with owner-or-admin mutation rules.
  - Discovery: Paginated public feed with text search.
  - Dashboard: Per-author listing enriched with comment counts.

This package acts as the source of truth for all story-related data models.
*/
package story

import "time"

// # Domain Enums

// Status represents the publication state of a story.
type Status string

const (
	// StatusDraft indicates the story is visible only to its owner and admins.
	StatusDraft Status = "draft"

	// StatusPublished indicates the story is visible to all authenticated users.
	StatusPublished Status = "published"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished:
		return true
	}
	return false
}

// # Core Entities

// Story is the central aggregate of the Inkpress content domain.
type Story struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"` // URL-safe identifier
	Body      string    `json:"body"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// # Denormalized Display Fields
	// Populated by list queries, never persisted on the story row itself.
	AuthorName   string `json:"author_name,omitempty"`
	CommentCount int    `json:"comment_count,omitempty"`
}

// # Search & Filtering

// Filter holds the parameters for a filtered story list query.
type Filter struct {
	OwnerID string `json:"owner_id,omitempty"`
	Status  Status `json:"status,omitempty"`
	Query   string `json:"q,omitempty"` // Title/body search term
}

// # Field Identifiers

// Global field names for validation and response mapping.
const (
	FieldID     = "id"
	FieldTitle  = "title"
	FieldBody   = "body"
	FieldStatus = "status"
)
