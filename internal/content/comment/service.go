// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package comment

import (
	"context"
	"fmt"

	"github.com/inkpress-io/inkpress/internal/audit"
	"github.com/inkpress-io/inkpress/internal/content/authz"
	"github.com/inkpress-io/inkpress/internal/content/story"
	"github.com/inkpress-io/inkpress/internal/platform/apperr"
	"github.com/inkpress-io/inkpress/internal/platform/sec"
	"github.com/inkpress-io/inkpress/pkg/uuid"
)

// Auditor is the write-only contract to the audit trail.
type Auditor interface {
	Emit(eventType, message, actorID string)
}

// Service implements the comment use cases.
//
// Comment visibility always follows the parent story: a principal who cannot
// view the story sees NotFound for its comments too.
type Service struct {
	repository Repository
	stories    story.Repository
	auditor    Auditor
}

// NewService constructs a new comment [Service].
func NewService(repository Repository, stories story.Repository, auditor Auditor) *Service {
	return &Service{repository: repository, stories: stories, auditor: auditor}
}

// CreateInput holds the data required to post a comment.
type CreateInput struct {
	StoryID  string
	ParentID string // optional, empty for top-level comments
	Body     string
}

/*
Create posts a comment on a published story.

Description: The story must exist, be visible to the principal, and be
published; drafts accept no discussion. A reply's parent must belong to the
same story.

Parameters:
  - context: context.Context
  - principal: *sec.AuthClaims
  - input: CreateInput

Returns:
  - *Comment: Created entity
  - err: NotFound, Unprocessable, or storage errors
*/
func (service *Service) Create(context context.Context, principal *sec.AuthClaims, input CreateInput) (*Comment, error) {
	if principal == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	parent, err := service.visibleStory(context, principal, input.StoryID)
	if err != nil {
		return nil, err
	}
	if parent.Status != story.StatusPublished {
		return nil, apperr.Unprocessable("Comments are only allowed on published stories")
	}

	var parentID *string
	if input.ParentID != "" {
		parentComment, err := service.repository.FindByID(context, input.ParentID)
		if err != nil {
			return nil, err
		}
		if parentComment.StoryID != input.StoryID {
			return nil, apperr.Unprocessable("Parent comment belongs to a different story")
		}
		parentID = &parentComment.ID
	}

	entity := &Comment{
		ID:       uuid.New(),
		StoryID:  input.StoryID,
		UserID:   principal.UserID,
		ParentID: parentID,
		Body:     input.Body,
	}

	if err := service.repository.Create(context, entity); err != nil {
		return nil, fmt.Errorf("comment_service_create_failed: %w", err)
	}

	service.auditor.Emit(audit.EventCommentCreate, "Comment posted on story "+input.StoryID, principal.UserID)

	return entity, nil
}

/*
ListByStory returns a story's comments, newest first.

Parameters:
  - context: context.Context
  - principal: *sec.AuthClaims
  - storyID: string

Returns:
  - []Comment: All comments with author names
  - err: NotFound or query failures
*/
func (service *Service) ListByStory(context context.Context, principal *sec.AuthClaims, storyID string) ([]Comment, error) {
	if _, err := service.visibleStory(context, principal, storyID); err != nil {
		return nil, err
	}

	comments, err := service.repository.ListByStory(context, storyID)
	if err != nil {
		return nil, fmt.Errorf("comment_service_list_failed: %w", err)
	}

	return comments, nil
}

/*
Delete removes a comment and its replies on behalf of the principal.

Description: The comment's author and admins may delete; everyone else is
refused. Replies cascade with the comment.

Parameters:
  - context: context.Context
  - principal: *sec.AuthClaims
  - commentID: string

Returns:
  - err: Forbidden, NotFound, or storage errors
*/
func (service *Service) Delete(context context.Context, principal *sec.AuthClaims, commentID string) error {
	entity, err := service.repository.FindByID(context, commentID)
	if err != nil {
		return err
	}

	resource := authz.Resource{OwnerID: entity.UserID, Status: authz.StatusPublished}
	if !authz.CanMutate(principal, resource) {
		return apperr.Forbidden("You do not have permission to delete this comment")
	}

	if err := service.repository.Delete(context, entity.ID); err != nil {
		return fmt.Errorf("comment_service_delete_failed: %w", err)
	}

	service.auditor.Emit(audit.EventCommentDelete, "Comment deleted from story "+entity.StoryID, principal.UserID)

	return nil
}

// visibleStory loads the story and enforces the view policy, mapping a
// policy miss to NotFound so draft existence stays hidden.
func (service *Service) visibleStory(context context.Context, principal *sec.AuthClaims, storyID string) (*story.Story, error) {
	entity, err := service.stories.FindByID(context, storyID)
	if err != nil {
		return nil, err
	}

	resource := authz.Resource{OwnerID: entity.OwnerID, Status: string(entity.Status)}
	if !authz.CanView(principal, resource) {
		return nil, apperr.NotFound("Story")
	}

	return entity, nil
}
