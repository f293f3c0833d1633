// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package schema

// ContentCommentTable represents the 'content.comment' table
type ContentCommentTable struct {
	Table     string
	ID        string
	StoryID   string
	UserID    string
	ParentID  string
	Body      string
	CreatedAt string
}

// ContentComment is the schema definition for content.comment
var ContentComment = ContentCommentTable{
	Table:     "content.comment",
	ID:        "id",
	StoryID:   "storyid",
	UserID:    "userid",
	ParentID:  "parentid",
	Body:      "body",
	CreatedAt: "createdat",
}
