// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkpress-io/inkpress/internal/platform/constants"
	"github.com/inkpress-io/inkpress/internal/platform/middleware"
	requestutil "github.com/inkpress-io/inkpress/internal/platform/request"
	"github.com/inkpress-io/inkpress/internal/platform/respond"
	"github.com/inkpress-io/inkpress/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements comment-related HTTP endpoints.
type Handler struct {
	commentService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{commentService: service}
}

// StoryRoutes returns the router mounted under /stories/{storyID}/comments.
func (handler *Handler) StoryRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.create)

	return router
}

// Routes returns the standalone comment router (deletion by comment ID).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Delete("/{id}", handler.remove)

	return router
}

// # Request Payloads

type commentRequest struct {
	Body     string `json:"body"`
	ParentID string `json:"parent_id"`
}

/*
List serves every comment on a story, newest first.

GET /api/v1/stories/{storyID}/comments

Response:
  - 200: []Comment: Comments with author names
  - 404: ErrNotFound: Story unknown or not visible to the principal
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	storyID := requestutil.Param(request, "storyID")

	validator := &validate.Validator{}
	validator.UUID(FieldStoryID, storyID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comments, err := handler.commentService.ListByStory(request.Context(), requestutil.Principal(request), storyID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comments)
}

/*
Create posts a comment on a story.

POST /api/v1/stories/{storyID}/comments

Request:
  - Body: commentRequest (Body, optional ParentID for replies)

Response:
  - 201: Comment: Created entity
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 404: ErrNotFound: Story unknown or not visible
  - 422: ErrUnprocessable: Story not published, or parent mismatch
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	storyID := requestutil.Param(request, "storyID")

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.UUID(FieldStoryID, storyID).
		Required(FieldBody, input.Body).
		MinLen(FieldBody, input.Body, constants.CommentMinLen).
		MaxLen(FieldBody, input.Body, constants.CommentMaxLen)

	if input.ParentID != "" {
		validator.UUID(FieldParentID, input.ParentID)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.commentService.Create(request.Context(), requestutil.Principal(request), CreateInput{
		StoryID:  storyID,
		ParentID: input.ParentID,
		Body:     input.Body,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

/*
Remove deletes a comment and its replies.

DELETE /api/v1/comments/{id}

Response:
  - 204: No Content: Comment deleted
  - 403: ErrForbidden: Principal is neither author nor admin
  - 404: ErrNotFound: Unknown comment
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	commentID := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	validator.UUID(FieldID, commentID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.commentService.Delete(request.Context(), requestutil.Principal(request), commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
