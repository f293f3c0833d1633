// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package story_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress-io/inkpress/internal/content/story"
	"github.com/inkpress-io/inkpress/internal/platform/apperr"
	"github.com/inkpress-io/inkpress/internal/platform/sec"
	"github.com/inkpress-io/inkpress/pkg/pagination"
)

// # Test Doubles

type fakeRepository struct {
	stories map[string]*story.Story // keyed by ID
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{stories: map[string]*story.Story{}}
}

func (r *fakeRepository) Create(_ context.Context, entity *story.Story) error {
	r.stories[entity.ID] = entity
	return nil
}

func (r *fakeRepository) FindByID(_ context.Context, id string) (*story.Story, error) {
	if s, ok := r.stories[id]; ok {
		return s, nil
	}
	return nil, apperr.NotFound("Story")
}

func (r *fakeRepository) FindBySlug(_ context.Context, slug string) (*story.Story, error) {
	for _, s := range r.stories {
		if s.Slug == slug {
			return s, nil
		}
	}
	return nil, apperr.NotFound("Story")
}

func (r *fakeRepository) List(_ context.Context, filter story.Filter, _ pagination.Params) ([]story.Story, int, error) {
	matches := []story.Story{}
	for _, s := range r.stories {
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		matches = append(matches, *s)
	}
	return matches, len(matches), nil
}

func (r *fakeRepository) ListByOwner(_ context.Context, ownerID string, _ pagination.Params) ([]story.Story, int, error) {
	matches := []story.Story{}
	for _, s := range r.stories {
		if s.OwnerID == ownerID {
			matches = append(matches, *s)
		}
	}
	return matches, len(matches), nil
}

func (r *fakeRepository) Update(_ context.Context, entity *story.Story) error {
	r.stories[entity.ID] = entity
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, id string) error {
	delete(r.stories, id)
	return nil
}

type fakeAuditor struct {
	events []string
}

func (a *fakeAuditor) Emit(eventType, _, _ string) {
	a.events = append(a.events, eventType)
}

func principal(userID string, role sec.UserRole) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: userID, Username: "writer", Role: string(role)}
}

func newFixture() (*story.Service, *fakeRepository, *fakeAuditor) {
	repository := newFakeRepository()
	auditor := &fakeAuditor{}
	return story.NewService(repository, auditor), repository, auditor
}

// # Authoring

func TestService_Create_RequiresAuthorCapability(t *testing.T) {
	service, _, _ := newFixture()

	_, err := service.Create(context.Background(), principal("u1", sec.RoleUser), story.CreateInput{
		Title: "The Last Lighthouse",
		Body:  "A keeper refuses to leave.",
	})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "FORBIDDEN", appError.Code)
}

func TestService_Create_EditorPublishes(t *testing.T) {
	service, repository, auditor := newFixture()

	entity, err := service.Create(context.Background(), principal("u1", sec.RoleEditor), story.CreateInput{
		Title: "The Last Lighthouse",
		Body:  "A keeper refuses to leave.",
	})
	require.NoError(t, err)

	assert.Equal(t, "u1", entity.OwnerID)
	assert.Equal(t, story.StatusPublished, entity.Status, "status defaults to published")
	assert.Contains(t, entity.Slug, "the-last-lighthouse")
	assert.NotNil(t, repository.stories[entity.ID])
	assert.Equal(t, []string{"story_create"}, auditor.events)
}

func TestService_Create_RejectsAnonymous(t *testing.T) {
	service, _, _ := newFixture()

	_, err := service.Create(context.Background(), nil, story.CreateInput{
		Title: "Ghost Draft",
		Body:  "Should never persist.",
	})
	require.Error(t, err)
}

// # Visibility

func TestService_GetBySlug_DraftHiddenFromOthers(t *testing.T) {
	service, _, _ := newFixture()

	draft, err := service.Create(context.Background(), principal("owner", sec.RoleEditor), story.CreateInput{
		Title:  "Unfinished Business",
		Body:   "Still being written.",
		Status: story.StatusDraft,
	})
	require.NoError(t, err)

	// Owner sees their draft.
	found, err := service.GetBySlug(context.Background(), principal("owner", sec.RoleEditor), draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, found.ID)

	// Admin sees any draft.
	_, err = service.GetBySlug(context.Background(), principal("root", sec.RoleAdmin), draft.Slug)
	require.NoError(t, err)

	// Everyone else gets NotFound, not Forbidden, so drafts stay invisible.
	_, err = service.GetBySlug(context.Background(), principal("stranger", sec.RoleUser), draft.Slug)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "NOT_FOUND", appError.Code)
}

// # Mutation

func TestService_Update_OwnerOrAdminOnly(t *testing.T) {
	service, _, _ := newFixture()

	entity, err := service.Create(context.Background(), principal("owner", sec.RoleEditor), story.CreateInput{
		Title: "First Draft",
		Body:  "Original body text.",
	})
	require.NoError(t, err)

	input := story.UpdateInput{Title: "Second Draft", Body: "Edited body text.", Status: story.StatusPublished}

	// Another editor is refused.
	_, err = service.Update(context.Background(), principal("rival", sec.RoleEditor), entity.ID, input)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	// The owner succeeds.
	updated, err := service.Update(context.Background(), principal("owner", sec.RoleEditor), entity.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Second Draft", updated.Title)

	// An admin succeeds on someone else's story.
	_, err = service.Update(context.Background(), principal("root", sec.RoleAdmin), entity.ID, input)
	require.NoError(t, err)
}

func TestService_Delete_OwnerOrAdminOnly(t *testing.T) {
	service, repository, auditor := newFixture()

	entity, err := service.Create(context.Background(), principal("owner", sec.RoleEditor), story.CreateInput{
		Title: "Short Lived",
		Body:  "About to disappear.",
	})
	require.NoError(t, err)

	err = service.Delete(context.Background(), principal("stranger", sec.RoleUser), entity.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	err = service.Delete(context.Background(), principal("owner", sec.RoleEditor), entity.ID)
	require.NoError(t, err)
	assert.NotContains(t, repository.stories, entity.ID)
	assert.Contains(t, auditor.events, "story_delete")
}
