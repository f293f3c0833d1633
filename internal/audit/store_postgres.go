// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpress-io/inkpress/internal/platform/database/schema"
)

// PostgresSink implements the Sink interface using pgx.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink creates a new PostgreSQL implementation of the audit Sink.
func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

/*
Record persists a single audit event into the system.auditlog table.

Parameters:
  - context: context.Context
  - event: Event

Returns:
  - error: Execution errors
*/
func (sink *PostgresSink) Record(context context.Context, event Event) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5)`,
		schema.SystemAuditLog.Table,
		schema.SystemAuditLog.ID, schema.SystemAuditLog.ActorID, schema.SystemAuditLog.EventType,
		schema.SystemAuditLog.Message, schema.SystemAuditLog.CreatedAt,
	)

	_, err := sink.pool.Exec(context, query,
		event.ID,
		event.ActorID,
		event.EventType,
		event.Message,
		event.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_audit_sink_record_failed: %w", err)
	}

	return nil
}
