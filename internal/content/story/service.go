// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package story

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkpress-io/inkpress/internal/audit"
	"github.com/inkpress-io/inkpress/internal/content/authz"
	"github.com/inkpress-io/inkpress/internal/platform/apperr"
	"github.com/inkpress-io/inkpress/internal/platform/sec"
	"github.com/inkpress-io/inkpress/pkg/pagination"
	"github.com/inkpress-io/inkpress/pkg/slug"
	"github.com/inkpress-io/inkpress/pkg/uuid"
)

// # Contracts & Types

// Auditor is the write-only contract to the audit trail.
type Auditor interface {
	Emit(eventType, message, actorID string)
}

// Service implements the story publishing use cases.
//
// # Authorization
//
// Every mutating operation loads the target story first and checks the
// principal against the [authz] policy before touching storage. Decisions
// fail closed: a nil principal never passes any gate.
type Service struct {
	repository Repository
	auditor    Auditor
}

// NewService constructs a new story [Service].
func NewService(repository Repository, auditor Auditor) *Service {
	return &Service{repository: repository, auditor: auditor}
}

// # Authoring Flow

// CreateInput holds the data required to author a new story.
type CreateInput struct {
	Title  string
	Body   string
	Status Status
}

/*
Create authors a new story owned by the principal.

Description: Requires authoring capability (editor or admin). The slug is
derived from the title with a short ID suffix so retitled duplicates never
collide.

Parameters:
  - context: context.Context
  - principal: *sec.AuthClaims
  - input: CreateInput

Returns:
  - *Story: Created entity
  - err: Forbidden, validation, or storage errors
*/
func (service *Service) Create(context context.Context, principal *sec.AuthClaims, input CreateInput) (*Story, error) {
	if !authz.CanAuthor(principal) {
		return nil, apperr.Forbidden("You do not have permission to publish stories")
	}

	status := input.Status
	if status == "" {
		status = StatusPublished
	}
	if !status.IsValid() {
		return nil, apperr.Unprocessable("Unknown story status")
	}

	id := uuid.New()
	entity := &Story{
		ID:      id,
		OwnerID: principal.UserID,
		Title:   strings.TrimSpace(input.Title),
		Slug:    buildSlug(input.Title, id),
		Body:    input.Body,
		Status:  status,
	}

	if err := service.repository.Create(context, entity); err != nil {
		return nil, fmt.Errorf("story_service_create_failed: %w", err)
	}

	service.auditor.Emit(audit.EventStoryCreate, "Story created: "+entity.Title, principal.UserID)

	return entity, nil
}

// # Reading Flow

/*
GetBySlug resolves a story for the principal, enforcing visibility.

Description: Published stories are readable by any authenticated user.
Drafts resolve only for the owner and admins; everyone else receives
NotFound rather than Forbidden so draft existence is not leaked.

Parameters:
  - context: context.Context
  - principal: *sec.AuthClaims
  - storySlug: string

Returns:
  - *Story: Hydrated entity
  - err: NotFound or storage errors
*/
func (service *Service) GetBySlug(context context.Context, principal *sec.AuthClaims, storySlug string) (*Story, error) {
	entity, err := service.repository.FindBySlug(context, storySlug)
	if err != nil {
		return nil, err
	}

	if !authz.CanView(principal, resourceOf(entity)) {
		return nil, apperr.NotFound("Story")
	}

	return entity, nil
}

/*
ListPublished returns the public feed: published stories, newest first,
with optional title/body search.

Parameters:
  - context: context.Context
  - searchQuery: string (empty for no filtering)
  - params: pagination.Params

Returns:
  - []Story: Page of results
  - pagination.Meta: Metadata for the response envelope
  - err: Query failures
*/
func (service *Service) ListPublished(context context.Context, searchQuery string, params pagination.Params) ([]Story, pagination.Meta, error) {
	filter := Filter{
		Status: StatusPublished,
		Query:  strings.TrimSpace(searchQuery),
	}

	stories, total, err := service.repository.List(context, filter, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("story_service_list_failed: %w", err)
	}

	return stories, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
Dashboard returns the principal's own stories, drafts included, with
comment counts.

Parameters:
  - context: context.Context
  - principal: *sec.AuthClaims
  - params: pagination.Params

Returns:
  - []Story: Page of results
  - pagination.Meta: Metadata for the response envelope
  - err: Unauthorized or query failures
*/
func (service *Service) Dashboard(context context.Context, principal *sec.AuthClaims, params pagination.Params) ([]Story, pagination.Meta, error) {
	if principal == nil {
		return nil, pagination.Meta{}, apperr.Unauthorized("Authentication required")
	}

	stories, total, err := service.repository.ListByOwner(context, principal.UserID, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("story_service_dashboard_failed: %w", err)
	}

	return stories, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// # Mutation Flow

// UpdateInput holds the mutable story fields.
type UpdateInput struct {
	Title  string
	Body   string
	Status Status
}

/*
Update edits an existing story on behalf of the principal.

Description: Owner-or-admin only. Load-then-check: the current owner and
status come from storage, never from the request, so a forged payload cannot
widen access.

Parameters:
  - context: context.Context
  - principal: *sec.AuthClaims
  - storyID: string
  - input: UpdateInput

Returns:
  - *Story: Updated entity
  - err: Forbidden, NotFound, or storage errors
*/
func (service *Service) Update(context context.Context, principal *sec.AuthClaims, storyID string, input UpdateInput) (*Story, error) {
	entity, err := service.repository.FindByID(context, storyID)
	if err != nil {
		return nil, err
	}

	if !authz.CanMutate(principal, resourceOf(entity)) {
		return nil, apperr.Forbidden("You do not have permission to modify this story")
	}

	if !input.Status.IsValid() {
		return nil, apperr.Unprocessable("Unknown story status")
	}

	entity.Title = strings.TrimSpace(input.Title)
	entity.Slug = buildSlug(input.Title, entity.ID)
	entity.Body = input.Body
	entity.Status = input.Status

	if err := service.repository.Update(context, entity); err != nil {
		return nil, fmt.Errorf("story_service_update_failed: %w", err)
	}

	service.auditor.Emit(audit.EventStoryUpdate, "Story updated: "+entity.Title, principal.UserID)

	return entity, nil
}

/*
Delete removes a story and its comments on behalf of the principal.

Description: Owner-or-admin only, with the same load-then-check ordering
as Update.

Parameters:
  - context: context.Context
  - principal: *sec.AuthClaims
  - storyID: string

Returns:
  - err: Forbidden, NotFound, or storage errors
*/
func (service *Service) Delete(context context.Context, principal *sec.AuthClaims, storyID string) error {
	entity, err := service.repository.FindByID(context, storyID)
	if err != nil {
		return err
	}

	if !authz.CanMutate(principal, resourceOf(entity)) {
		return apperr.Forbidden("You do not have permission to delete this story")
	}

	if err := service.repository.Delete(context, entity.ID); err != nil {
		return fmt.Errorf("story_service_delete_failed: %w", err)
	}

	service.auditor.Emit(audit.EventStoryDelete, "Story deleted: "+entity.Title, principal.UserID)

	return nil
}

// # Helpers

// resourceOf projects a story onto the minimal policy view.
func resourceOf(entity *Story) authz.Resource {
	return authz.Resource{OwnerID: entity.OwnerID, Status: string(entity.Status)}
}

// buildSlug derives a unique URL slug from the title plus the first ID
// segment, so two stories with the same title stay addressable.
func buildSlug(title, id string) string {
	base := slug.From(title)
	suffix := id
	if i := strings.IndexByte(id, '-'); i > 0 {
		suffix = id[:i]
	}
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
