// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package schema

// ContentStoryTable represents the 'content.story' table
type ContentStoryTable struct {
	Table     string
	ID        string
	OwnerID   string
	Title     string
	Slug      string
	Body      string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// ContentStory is the schema definition for content.story
var ContentStory = ContentStoryTable{
	Table:     "content.story",
	ID:        "id",
	OwnerID:   "ownerid",
	Title:     "title",
	Slug:      "slug",
	Body:      "body",
	Status:    "status",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}
