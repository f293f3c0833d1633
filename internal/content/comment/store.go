// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package comment

import (
	"context"
)

// Repository defines the data access contract for comments.
type Repository interface {

	/*
		Create persists a new comment.

		Parameters:
		  - context: context.Context
		  - comment: *Comment

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, comment *Comment) error

	/*
		FindByID returns the comment with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Comment: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindByID(context context.Context, id string) (*Comment, error)

	/*
		ListByStory returns every comment on a story, newest first, with
		author names attached.

		Parameters:
		  - context: context.Context
		  - storyID: string

		Returns:
		  - []Comment: All comments for the story
		  - error: Query failures
	*/
	ListByStory(context context.Context, storyID string) ([]Comment, error)

	/*
		Delete permanently removes a comment and its replies.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Deletion failures
	*/
	Delete(context context.Context, id string) error
}
