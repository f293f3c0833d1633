// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package comment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress-io/inkpress/internal/content/comment"
	"github.com/inkpress-io/inkpress/internal/content/story"
	"github.com/inkpress-io/inkpress/internal/platform/apperr"
	"github.com/inkpress-io/inkpress/internal/platform/sec"
	"github.com/inkpress-io/inkpress/pkg/pagination"
)

// # Test Doubles

type fakeCommentRepository struct {
	comments map[string]*comment.Comment
}

func newFakeCommentRepository() *fakeCommentRepository {
	return &fakeCommentRepository{comments: map[string]*comment.Comment{}}
}

func (r *fakeCommentRepository) Create(_ context.Context, entity *comment.Comment) error {
	r.comments[entity.ID] = entity
	return nil
}

func (r *fakeCommentRepository) FindByID(_ context.Context, id string) (*comment.Comment, error) {
	if c, ok := r.comments[id]; ok {
		return c, nil
	}
	return nil, apperr.NotFound("Comment")
}

func (r *fakeCommentRepository) ListByStory(_ context.Context, storyID string) ([]comment.Comment, error) {
	matches := []comment.Comment{}
	for _, c := range r.comments {
		if c.StoryID == storyID {
			matches = append(matches, *c)
		}
	}
	return matches, nil
}

func (r *fakeCommentRepository) Delete(_ context.Context, id string) error {
	delete(r.comments, id)
	return nil
}

// fakeStoryRepository serves only the lookups the comment service performs.
type fakeStoryRepository struct {
	stories map[string]*story.Story
}

func (r *fakeStoryRepository) Create(_ context.Context, entity *story.Story) error {
	r.stories[entity.ID] = entity
	return nil
}

func (r *fakeStoryRepository) FindByID(_ context.Context, id string) (*story.Story, error) {
	if s, ok := r.stories[id]; ok {
		return s, nil
	}
	return nil, apperr.NotFound("Story")
}

func (r *fakeStoryRepository) FindBySlug(_ context.Context, _ string) (*story.Story, error) {
	return nil, apperr.NotFound("Story")
}

func (r *fakeStoryRepository) List(_ context.Context, _ story.Filter, _ pagination.Params) ([]story.Story, int, error) {
	return nil, 0, nil
}

func (r *fakeStoryRepository) ListByOwner(_ context.Context, _ string, _ pagination.Params) ([]story.Story, int, error) {
	return nil, 0, nil
}

func (r *fakeStoryRepository) Update(_ context.Context, _ *story.Story) error { return nil }

func (r *fakeStoryRepository) Delete(_ context.Context, _ string) error { return nil }

type fakeAuditor struct {
	events []string
}

func (a *fakeAuditor) Emit(eventType, _, _ string) {
	a.events = append(a.events, eventType)
}

func principal(userID string, role sec.UserRole) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: userID, Username: "reader", Role: string(role)}
}

func newFixture() (*comment.Service, *fakeCommentRepository, *fakeAuditor, *fakeStoryRepository) {
	comments := newFakeCommentRepository()
	stories := &fakeStoryRepository{stories: map[string]*story.Story{
		"story-pub":   {ID: "story-pub", OwnerID: "author-1", Title: "Published", Status: story.StatusPublished},
		"story-draft": {ID: "story-draft", OwnerID: "author-1", Title: "Draft", Status: story.StatusDraft},
	}}
	auditor := &fakeAuditor{}
	return comment.NewService(comments, stories, auditor), comments, auditor, stories
}

// # Posting

func TestService_Create_OnPublishedStory(t *testing.T) {
	service, repository, auditor, _ := newFixture()

	entity, err := service.Create(context.Background(), principal("u1", sec.RoleUser), comment.CreateInput{
		StoryID: "story-pub",
		Body:    "Loved the ending.",
	})
	require.NoError(t, err)

	assert.Equal(t, "u1", entity.UserID)
	assert.Nil(t, entity.ParentID)
	assert.NotNil(t, repository.comments[entity.ID])
	assert.Equal(t, []string{"comment_create"}, auditor.events)
}

func TestService_Create_RejectsDraftStory(t *testing.T) {
	service, _, _, _ := newFixture()

	// The draft's owner can see it but still cannot open discussion on it.
	_, err := service.Create(context.Background(), principal("author-1", sec.RoleEditor), comment.CreateInput{
		StoryID: "story-draft",
		Body:    "Note to self.",
	})
	require.Error(t, err)
	assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)

	// Everyone else cannot even see the draft.
	_, err = service.Create(context.Background(), principal("u1", sec.RoleUser), comment.CreateInput{
		StoryID: "story-draft",
		Body:    "First!",
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestService_Create_ThreadsUnderParent(t *testing.T) {
	service, _, _, _ := newFixture()
	ctx := context.Background()

	top, err := service.Create(ctx, principal("u1", sec.RoleUser), comment.CreateInput{
		StoryID: "story-pub",
		Body:    "Loved the ending.",
	})
	require.NoError(t, err)

	reply, err := service.Create(ctx, principal("u2", sec.RoleUser), comment.CreateInput{
		StoryID:  "story-pub",
		ParentID: top.ID,
		Body:     "Agreed, completely.",
	})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, top.ID, *reply.ParentID)
}

func TestService_Create_RejectsCrossStoryParent(t *testing.T) {
	service, _, _, stories := newFixture()
	ctx := context.Background()

	stories.stories["story-other"] = &story.Story{
		ID: "story-other", OwnerID: "author-2", Title: "Elsewhere", Status: story.StatusPublished,
	}

	top, err := service.Create(ctx, principal("u1", sec.RoleUser), comment.CreateInput{
		StoryID: "story-other",
		Body:    "Different thread.",
	})
	require.NoError(t, err)

	_, err = service.Create(ctx, principal("u2", sec.RoleUser), comment.CreateInput{
		StoryID:  "story-pub",
		ParentID: top.ID,
		Body:     "Grafted reply.",
	})
	require.Error(t, err)
	assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
}

// # Reading

func TestService_ListByStory_FollowsStoryVisibility(t *testing.T) {
	service, _, _, _ := newFixture()
	ctx := context.Background()

	_, err := service.Create(ctx, principal("u1", sec.RoleUser), comment.CreateInput{
		StoryID: "story-pub",
		Body:    "Loved the ending.",
	})
	require.NoError(t, err)

	comments, err := service.ListByStory(ctx, principal("u2", sec.RoleUser), "story-pub")
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	_, err = service.ListByStory(ctx, principal("u2", sec.RoleUser), "story-draft")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Deleting

func TestService_Delete_AuthorOrAdminOnly(t *testing.T) {
	service, repository, auditor, _ := newFixture()
	ctx := context.Background()

	entity, err := service.Create(ctx, principal("u1", sec.RoleUser), comment.CreateInput{
		StoryID: "story-pub",
		Body:    "Loved the ending.",
	})
	require.NoError(t, err)

	// A different reader, even the story's author, is refused.
	err = service.Delete(ctx, principal("author-1", sec.RoleEditor), entity.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	// The comment's author succeeds.
	err = service.Delete(ctx, principal("u1", sec.RoleUser), entity.ID)
	require.NoError(t, err)
	assert.NotContains(t, repository.comments, entity.ID)
	assert.Contains(t, auditor.events, "comment_delete")
}

func TestService_Delete_AdminModerates(t *testing.T) {
	service, repository, _, _ := newFixture()
	ctx := context.Background()

	entity, err := service.Create(ctx, principal("u1", sec.RoleUser), comment.CreateInput{
		StoryID: "story-pub",
		Body:    "Something unkind.",
	})
	require.NoError(t, err)

	err = service.Delete(ctx, principal("root", sec.RoleAdmin), entity.ID)
	require.NoError(t, err)
	assert.NotContains(t, repository.comments, entity.ID)
}
