// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package story

import (
	"context"

	"github.com/inkpress-io/inkpress/pkg/pagination"
)

// Repository defines the data access contract for stories.
type Repository interface {

	/*
		Create persists a new story.

		Parameters:
		  - context: context.Context
		  - story: *Story

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, story *Story) error

	/*
		FindByID returns the story with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Story: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindByID(context context.Context, id string) (*Story, error)

	/*
		FindBySlug returns the story with the given slug.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Story: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindBySlug(context context.Context, slug string) (*Story, error)

	/*
		List returns a filtered, paginated page of stories plus the total
		match count.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - params: pagination.Params

		Returns:
		  - []Story: Page of results, newest first
		  - int: Total matching rows (for pagination metadata)
		  - error: Query failures
	*/
	List(context context.Context, filter Filter, params pagination.Params) ([]Story, int, error)

	/*
		ListByOwner returns the owner's stories with comment counts attached.
		Used by the author dashboard; includes drafts.

		Parameters:
		  - context: context.Context
		  - ownerID: string
		  - params: pagination.Params

		Returns:
		  - []Story: Page of results, newest first
		  - int: Total rows for the owner
		  - error: Query failures
	*/
	ListByOwner(context context.Context, ownerID string, params pagination.Params) ([]Story, int, error)

	/*
		Update persists changes to a story's mutable fields.

		Parameters:
		  - context: context.Context
		  - story: *Story

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, story *Story) error

	/*
		Delete permanently removes a story and its comments.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Deletion failures
	*/
	Delete(context context.Context, id string) error
}
