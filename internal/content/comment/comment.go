// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

/*
Package comment implements discussion threads attached to stories.

Comments support one level of nesting via an optional parent reference.
Visibility follows the parent story: whoever may view the story may view
its comments.
*/
package comment

import "time"

// Comment is a single discussion entry on a story.
type Comment struct {
	ID        string    `json:"id"`
	StoryID   string    `json:"story_id"`
	UserID    string    `json:"user_id"`
	ParentID  *string   `json:"parent_id,omitempty"` // nil = top-level comment
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`

	// AuthorName is denormalized by list queries for display.
	AuthorName string `json:"author_name,omitempty"`
}

// # Field Identifiers

const (
	FieldID       = "id"
	FieldStoryID  = "story_id"
	FieldParentID = "parent_id"
	FieldBody     = "body"
)
