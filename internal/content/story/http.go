// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package story

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inkpress-io/inkpress/internal/platform/constants"
	"github.com/inkpress-io/inkpress/internal/platform/middleware"
	requestutil "github.com/inkpress-io/inkpress/internal/platform/request"
	"github.com/inkpress-io/inkpress/internal/platform/respond"
	"github.com/inkpress-io/inkpress/internal/platform/sec"
	"github.com/inkpress-io/inkpress/internal/platform/validate"
	"github.com/inkpress-io/inkpress/pkg/pagination"
	"github.com/inkpress-io/inkpress/pkg/slice"
)

// # Definitions & Constructors

// Handler implements story-related HTTP endpoints.
type Handler struct {
	storyService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{storyService: service}
}

// Routes returns a [chi.Router] configured with story-specific routes.
//
// # Endpoints
//   - GET  /           : Published feed with optional text search.
//   - GET  /dashboard  : Author dashboard with comment counts.
//   - GET  /{slug}     : Single story by slug.
//   - POST /           : Author a new story.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// All story endpoints require an authenticated principal.
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Get("/dashboard", handler.dashboard)
	router.Get("/{slug}", handler.get)

	// Authoring requires at least editor. The service re-checks capability
	// and ownership; this guard just rejects plain readers at the edge.
	router.With(middleware.RequireRole(sec.RoleEditor)).Post("/", handler.create)

	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.remove)

	return router
}

// # Request Payloads

type storyRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Status string `json:"status"`
}

// validateStory applies the shared field rules for create and update.
func validateStory(input storyRequest) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, constants.TitleMaxLen).
		Required(FieldBody, input.Body).
		MinLen(FieldBody, input.Body, constants.ContentMinLen).
		MaxLen(FieldBody, input.Body, constants.ContentMaxLen)

	if input.Status != "" {
		validator.OneOf(FieldStatus, input.Status, string(StatusDraft), string(StatusPublished))
	}

	return validator.Err()
}

// feedItem is the summary view served by the public feed. The full body is
// only delivered by the single-story endpoint.
type feedItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Excerpt    string `json:"excerpt"`
	AuthorName string `json:"author_name"`
	CreatedAt  string `json:"created_at"`
}

// feedExcerptLen bounds the body preview in feed responses.
const feedExcerptLen = 300

func toFeedItem(entity Story) feedItem {
	excerpt := entity.Body
	if len(excerpt) > feedExcerptLen {
		excerpt = excerpt[:feedExcerptLen]
	}

	return feedItem{
		ID:         entity.ID,
		Title:      entity.Title,
		Slug:       entity.Slug,
		Excerpt:    excerpt,
		AuthorName: entity.AuthorName,
		CreatedAt:  entity.CreatedAt.Format(time.RFC3339),
	}
}

/*
List serves the published story feed.

GET /api/v1/stories?q=&page=&limit=

Description: Paginated, newest first, with optional case-insensitive search
over title and body via the "q" query parameter. Defaults to 5 stories per page.

Response:
  - 200: PaginatedEnvelope: Story summaries and pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequestDefault(request, constants.StoriesPerPage)
	searchQuery := request.URL.Query().Get("q")

	stories, meta, err := handler.storyService.ListPublished(request.Context(), searchQuery, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, slice.Map(stories, toFeedItem), meta)
}

/*
Dashboard serves the authenticated author's own stories.

GET /api/v1/stories/dashboard?page=&limit=

Description: Includes drafts and per-story comment counts.

Response:
  - 200: PaginatedEnvelope: Stories and pagination metadata
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) dashboard(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequestDefault(request, constants.StoriesPerPage)

	stories, meta, err := handler.storyService.Dashboard(request.Context(), requestutil.Principal(request), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, stories, meta)
}

/*
Get resolves a single story by slug.

GET /api/v1/stories/{slug}

Response:
  - 200: Story: Hydrated entity
  - 404: ErrNotFound: Unknown slug, or a draft the principal may not view
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	storySlug := requestutil.Param(request, "slug")

	entity, err := handler.storyService.GetBySlug(request.Context(), requestutil.Principal(request), storySlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
Create authors a new story.

POST /api/v1/stories

Request:
  - Body: storyRequest (Title, Body, Status)

Response:
  - 201: Story: Created entity
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 403: ErrForbidden: Principal lacks authoring capability
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input storyRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := validateStory(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.storyService.Create(request.Context(), requestutil.Principal(request), CreateInput{
		Title:  input.Title,
		Body:   input.Body,
		Status: Status(input.Status),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

/*
Update edits an existing story.

PUT /api/v1/stories/{id}

Request:
  - Body: storyRequest (Title, Body, Status)

Response:
  - 200: Story: Updated entity
  - 403: ErrForbidden: Principal is neither owner nor admin
  - 404: ErrNotFound: Unknown story
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	storyID := requestutil.Param(request, "id")

	var input storyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.UUID(FieldID, storyID).
		Required(FieldStatus, input.Status)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validateStory(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.storyService.Update(request.Context(), requestutil.Principal(request), storyID, UpdateInput{
		Title:  input.Title,
		Body:   input.Body,
		Status: Status(input.Status),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
Remove deletes a story and its comments.

DELETE /api/v1/stories/{id}

Response:
  - 204: No Content: Story deleted
  - 403: ErrForbidden: Principal is neither owner nor admin
  - 404: ErrNotFound: Unknown story
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	storyID := requestutil.Param(request, "id")

	validator := &validate.Validator{}
	validator.UUID(FieldID, storyID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.storyService.Delete(request.Context(), requestutil.Principal(request), storyID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
