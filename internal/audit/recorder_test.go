// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package audit_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress-io/inkpress/internal/audit"
)

// memorySink collects recorded events behind a mutex.
type memorySink struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

func (s *memorySink) Record(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func (s *memorySink) recorded() []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Event(nil), s.events...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

/*
TestRecorder_DeliversEvents verifies emitted events reach the sink with
identity fields populated, and that Close flushes the backlog.
*/
func TestRecorder_DeliversEvents(t *testing.T) {
	sink := &memorySink{}
	ctx, cancel := context.WithCancel(context.Background())

	recorder := audit.NewRecorder(ctx, sink, testLogger())

	recorder.Emit(audit.EventUserLogin, "User logged in", "user-1")
	recorder.Emit(audit.EventStoryCreate, "Story created", "user-2")
	recorder.Emit(audit.EventUserLogout, "User logged out", "")

	cancel()
	recorder.Close()

	events := sink.recorded()
	require.Len(t, events, 3)

	assert.Equal(t, audit.EventUserLogin, events[0].EventType)
	assert.Equal(t, "user-1", events[0].ActorID)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].CreatedAt.IsZero())

	assert.Empty(t, events[2].ActorID, "system events may carry no actor")
}

/*
TestRecorder_SinkFailureDoesNotBlockEmit verifies a failing sink never
propagates to producers: Emit stays non-blocking and Close still returns.
*/
func TestRecorder_SinkFailureDoesNotBlockEmit(t *testing.T) {
	sink := &memorySink{err: errors.New("storage offline")}
	ctx, cancel := context.WithCancel(context.Background())

	recorder := audit.NewRecorder(ctx, sink, testLogger())

	for i := 0; i < 10; i++ {
		recorder.Emit(audit.EventUserLogin, "User logged in", "user-1")
	}

	cancel()
	recorder.Close()

	assert.Empty(t, sink.recorded(), "failed writes are swallowed, not retried")
}
