// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package story

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpress-io/inkpress/internal/platform/apperr"
	"github.com/inkpress-io/inkpress/internal/platform/database/schema"
	"github.com/inkpress-io/inkpress/internal/platform/dberr"
	"github.com/inkpress-io/inkpress/pkg/pagination"
)

// PostgresRepository implements the story [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the story Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// storyColumns is the aliased projection shared by every hydrating query,
// joined with the author's username.
func storyColumns() string {
	return fmt.Sprintf(
		"s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, a.%s",
		schema.ContentStory.ID, schema.ContentStory.OwnerID, schema.ContentStory.Title,
		schema.ContentStory.Slug, schema.ContentStory.Body, schema.ContentStory.Status,
		schema.ContentStory.CreatedAt, schema.ContentStory.UpdatedAt,
		schema.UserAccount.Username,
	)
}

// storyFrom is the FROM clause pairing each story with its author row.
func storyFrom() string {
	return fmt.Sprintf(
		"FROM %s s JOIN %s a ON a.%s = s.%s",
		schema.ContentStory.Table, schema.UserAccount.Table,
		schema.UserAccount.ID, schema.ContentStory.OwnerID,
	)
}

/*
Create persists a new story record into the content.story table.

Description: Slug collisions hit the unique index and surface as
[apperr.Conflict] through the dberr mapping.

Parameters:
  - context: context.Context
  - story: *Story

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, story *Story) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.ContentStory.Table,
		schema.ContentStory.ID, schema.ContentStory.OwnerID, schema.ContentStory.Title,
		schema.ContentStory.Slug, schema.ContentStory.Body, schema.ContentStory.Status,
		schema.ContentStory.CreatedAt, schema.ContentStory.UpdatedAt,
	)

	now := time.Now()
	if story.CreatedAt.IsZero() {
		story.CreatedAt = now
	}
	story.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		story.ID,
		story.OwnerID,
		story.Title,
		story.Slug,
		story.Body,
		story.Status,
		story.CreatedAt,
		story.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_story_repo_create_failed: %w", err))
	}

	return nil
}

/*
FindByID retrieves a story by its unique ID, joined with the author name.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Story: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Story, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE s.%s = $1`,
		storyColumns(), storyFrom(), schema.ContentStory.ID,
	)

	story, err := scanStory(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Story")
		}
		return nil, fmt.Errorf("postgres_story_repo_find_by_id_failed: %w", err)
	}

	return story, nil
}

/*
FindBySlug retrieves a story by its URL slug, joined with the author name.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Story: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Story, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE s.%s = $1`,
		storyColumns(), storyFrom(), schema.ContentStory.Slug,
	)

	story, err := scanStory(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Story")
		}
		return nil, fmt.Errorf("postgres_story_repo_find_by_slug_failed: %w", err)
	}

	return story, nil
}

/*
List returns a filtered, paginated page of stories, newest first.

Description: The filter supports status, owner, and a case-insensitive title
search. The total match count is fetched with the same predicate so the
pagination metadata always agrees with the page contents.

Parameters:
  - context: context.Context
  - filter: Filter
  - params: pagination.Params

Returns:
  - []Story: Page of results
  - int: Total matching rows
  - error: Query failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, params pagination.Params) ([]Story, int, error) {

	// Build the shared predicate once so COUNT and SELECT cannot diverge.
	where := " WHERE 1=1"
	args := []any{}
	argIndex := 1

	if filter.Status != "" {
		where += fmt.Sprintf(" AND s.%s = $%d", schema.ContentStory.Status, argIndex)
		args = append(args, filter.Status)
		argIndex++
	}
	if filter.OwnerID != "" {
		where += fmt.Sprintf(" AND s.%s = $%d", schema.ContentStory.OwnerID, argIndex)
		args = append(args, filter.OwnerID)
		argIndex++
	}
	if filter.Query != "" {
		where += fmt.Sprintf(" AND (s.%s ILIKE $%d OR s.%s ILIKE $%d)",
			schema.ContentStory.Title, argIndex, schema.ContentStory.Body, argIndex)
		args = append(args, "%"+filter.Query+"%")
		argIndex++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s s", schema.ContentStory.Table) + where

	var total int
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_story_repo_count_failed: %w", err)
	}

	pageQuery := fmt.Sprintf("SELECT %s %s", storyColumns(), storyFrom()) + where +
		fmt.Sprintf(" ORDER BY s.%s DESC LIMIT $%d OFFSET $%d", schema.ContentStory.CreatedAt, argIndex, argIndex+1)
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_story_repo_list_failed: %w", err)
	}
	defer rows.Close()

	stories := []Story{}
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_story_repo_list_scan_failed: %w", err)
		}
		stories = append(stories, *story)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_story_repo_list_rows_failed: %w", err)
	}

	return stories, total, nil
}

/*
ListByOwner returns the owner's stories with comment counts, newest first.

Description: Backs the author dashboard. Drafts are included; the comment
count comes from a LEFT JOIN so stories without comments report zero.

Parameters:
  - context: context.Context
  - ownerID: string
  - params: pagination.Params

Returns:
  - []Story: Page of results
  - int: Total rows for the owner
  - error: Query failures
*/
func (repository *PostgresRepository) ListByOwner(context context.Context, ownerID string, params pagination.Params) ([]Story, int, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1",
		schema.ContentStory.Table, schema.ContentStory.OwnerID,
	)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_story_repo_owner_count_failed: %w", err)
	}

	pageQuery := fmt.Sprintf(`
		SELECT %s, COUNT(c.%s) AS commentcount
		%s
		LEFT JOIN %s c ON c.%s = s.%s
		WHERE s.%s = $1
		GROUP BY s.%s, a.%s
		ORDER BY s.%s DESC
		LIMIT $2 OFFSET $3`,
		storyColumns(), schema.ContentComment.ID,
		storyFrom(),
		schema.ContentComment.Table, schema.ContentComment.StoryID, schema.ContentStory.ID,
		schema.ContentStory.OwnerID,
		schema.ContentStory.ID, schema.UserAccount.Username,
		schema.ContentStory.CreatedAt,
	)

	rows, err := repository.pool.Query(context, pageQuery, ownerID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_story_repo_list_by_owner_failed: %w", err)
	}
	defer rows.Close()

	stories := []Story{}
	for rows.Next() {
		story := Story{}
		err := rows.Scan(
			&story.ID,
			&story.OwnerID,
			&story.Title,
			&story.Slug,
			&story.Body,
			&story.Status,
			&story.CreatedAt,
			&story.UpdatedAt,
			&story.AuthorName,
			&story.CommentCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_story_repo_list_by_owner_scan_failed: %w", err)
		}
		stories = append(stories, story)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_story_repo_list_by_owner_rows_failed: %w", err)
	}

	return stories, total, nil
}

/*
Update persists changes to a story's mutable fields.

Parameters:
  - context: context.Context
  - story: *Story

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) Update(context context.Context, story *Story) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6
		WHERE %s = $1`,
		schema.ContentStory.Table,
		schema.ContentStory.Title, schema.ContentStory.Slug, schema.ContentStory.Body,
		schema.ContentStory.Status, schema.ContentStory.UpdatedAt,
		schema.ContentStory.ID,
	)

	story.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		story.ID,
		story.Title,
		story.Slug,
		story.Body,
		story.Status,
		story.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_story_repo_update_failed: %w", err))
	}

	return nil
}

/*
Delete permanently removes a story. Comments cascade at the schema level.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Deletion failures
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.ContentStory.Table, schema.ContentStory.ID,
	)

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_story_repo_delete_failed: %w", err)
	}
	return nil
}

// scanStory hydrates one story row (without comment count) from any pgx row source.
func scanStory(row pgx.Row) (*Story, error) {
	story := &Story{}
	err := row.Scan(
		&story.ID,
		&story.OwnerID,
		&story.Title,
		&story.Slug,
		&story.Body,
		&story.Status,
		&story.CreatedAt,
		&story.UpdatedAt,
		&story.AuthorName,
	)
	if err != nil {
		return nil, err
	}
	return story, nil
}
