// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

/*
Package audit records security-relevant platform events.

Every successful login, registration, and content mutation emits one event
to the audit trail. The trail is a write-only side channel: producers must
never block on it, and a failing sink must never fail the primary operation.

Architecture:

  - Sink: Storage contract for persisting a single event.
  - Recorder: Asynchronous producer facade with a bounded in-memory queue
    drained by a background goroutine.
*/
package audit

import (
	"context"
	"time"
)

// # Event Types

const (
	EventUserRegister  = "user_register"
	EventUserLogin     = "user_login"
	EventUserLogout    = "user_logout"
	EventStoryCreate   = "story_create"
	EventStoryUpdate   = "story_update"
	EventStoryDelete   = "story_delete"
	EventCommentCreate = "comment_create"
	EventCommentDelete = "comment_delete"
)

// Event is a single audit trail entry.
type Event struct {
	ID        string    `json:"id"`
	EventType string    `json:"event_type"`
	Message   string    `json:"message"`
	ActorID   string    `json:"actor_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Sink defines the storage contract for persisting audit events.
type Sink interface {

	/*
		Record persists a single audit event.

		Parameters:
		  - context: context.Context
		  - event: Event

		Returns:
		  - error: Persistence failures
	*/
	Record(context context.Context, event Event) error
}
