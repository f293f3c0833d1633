// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package comment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpress-io/inkpress/internal/platform/apperr"
	"github.com/inkpress-io/inkpress/internal/platform/database/schema"
)

// PostgresRepository implements the comment [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the comment Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create persists a new comment record into the content.comment table.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.ContentComment.Table,
		schema.ContentComment.ID, schema.ContentComment.StoryID, schema.ContentComment.UserID,
		schema.ContentComment.ParentID, schema.ContentComment.Body, schema.ContentComment.CreatedAt,
	)

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		comment.ID,
		comment.StoryID,
		comment.UserID,
		comment.ParentID,
		comment.Body,
		comment.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_comment_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a comment by its unique ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Comment: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.ContentComment.ID, schema.ContentComment.StoryID, schema.ContentComment.UserID,
		schema.ContentComment.ParentID, schema.ContentComment.Body, schema.ContentComment.CreatedAt,
		schema.ContentComment.Table,
		schema.ContentComment.ID,
	)

	comment := &Comment{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&comment.ID,
		&comment.StoryID,
		&comment.UserID,
		&comment.ParentID,
		&comment.Body,
		&comment.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_comment_repo_find_by_id_failed: %w", err)
	}

	return comment, nil
}

/*
ListByStory retrieves every comment for a story, newest first.

Description: Author usernames are joined in for display. Threading is
reconstructed client-side from parent_id.

Parameters:
  - context: context.Context
  - storyID: string

Returns:
  - []Comment: All comments for the story
  - error: Query failures
*/
func (repository *PostgresRepository) ListByStory(context context.Context, storyID string) ([]Comment, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, a.%s
		FROM %s c
		JOIN %s a ON a.%s = c.%s
		WHERE c.%s = $1
		ORDER BY c.%s DESC`,
		schema.ContentComment.ID, schema.ContentComment.StoryID, schema.ContentComment.UserID,
		schema.ContentComment.ParentID, schema.ContentComment.Body, schema.ContentComment.CreatedAt,
		schema.UserAccount.Username,
		schema.ContentComment.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.ContentComment.UserID,
		schema.ContentComment.StoryID,
		schema.ContentComment.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, storyID)
	if err != nil {
		return nil, fmt.Errorf("postgres_comment_repo_list_failed: %w", err)
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		comment := Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.StoryID,
			&comment.UserID,
			&comment.ParentID,
			&comment.Body,
			&comment.CreatedAt,
			&comment.AuthorName,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_comment_repo_list_scan_failed: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_comment_repo_list_rows_failed: %w", err)
	}

	return comments, nil
}

/*
Delete permanently removes a comment. Replies cascade at the schema level.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Deletion failures
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.ContentComment.Table, schema.ContentComment.ID,
	)

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_comment_repo_delete_failed: %w", err)
	}
	return nil
}
