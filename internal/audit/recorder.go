// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: dev@inkpress.io

package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/inkpress-io/inkpress/pkg/uuid"
)

// Opinionated recorder defaults.
const (
	// defaultQueueSize bounds the in-memory event backlog. When the queue is
	// full, new events are dropped (and counted) rather than blocking the
	// request path.
	defaultQueueSize = 1024

	// sinkWriteTimeout caps how long the drain goroutine waits on the sink
	// for a single event.
	sinkWriteTimeout = 5 * time.Second
)

// Recorder is the asynchronous front door to the audit trail.
//
// # Concurrency
//
// Emit is safe for concurrent use and never blocks: events are handed to a
// bounded channel drained by a single background goroutine. A slow or failing
// sink therefore cannot stall or fail the primary authentication and
// authorization paths.
type Recorder struct {
	sink   Sink
	logger *slog.Logger
	queue  chan Event
	done   chan struct{}
}

// NewRecorder constructs a [Recorder] and starts its drain goroutine.
//
// The provided context bounds the recorder's lifetime: when it is cancelled
// the drain goroutine flushes the remaining backlog and exits.
func NewRecorder(context context.Context, sink Sink, logger *slog.Logger) *Recorder {
	recorder := &Recorder{
		sink:   sink,
		logger: logger,
		queue:  make(chan Event, defaultQueueSize),
		done:   make(chan struct{}),
	}

	go recorder.drain(context)

	return recorder
}

// Emit enqueues one audit event. Fire-and-forget: if the queue is full the
// event is dropped with a warning, never blocking the caller.
func (recorder *Recorder) Emit(eventType, message, actorID string) {
	event := Event{
		ID:        uuid.New(),
		EventType: eventType,
		Message:   message,
		ActorID:   actorID,
		CreatedAt: time.Now(),
	}

	select {
	case recorder.queue <- event:
	default:
		recorder.logger.Warn("audit_queue_full_event_dropped",
			slog.String("event_type", eventType),
		)
	}
}

// Close waits for the drain goroutine to finish flushing. Call after the
// recorder's context has been cancelled during shutdown.
func (recorder *Recorder) Close() {
	<-recorder.done
}

// drain consumes queued events and writes them to the sink one at a time.
func (recorder *Recorder) drain(lifetime context.Context) {
	defer close(recorder.done)

	for {
		select {
		case event := <-recorder.queue:
			recorder.write(event)

		case <-lifetime.Done():
			// Flush whatever is still buffered, then exit.
			for {
				select {
				case event := <-recorder.queue:
					recorder.write(event)
				default:
					return
				}
			}
		}
	}
}

// write persists a single event. Failures are logged and swallowed: the
// audit trail is best-effort by contract.
func (recorder *Recorder) write(event Event) {
	writeCtx, cancel := context.WithTimeout(context.Background(), sinkWriteTimeout)
	defer cancel()

	if err := recorder.sink.Record(writeCtx, event); err != nil {
		recorder.logger.Error("audit_sink_write_failed",
			slog.String("event_type", event.EventType),
			slog.Any("error", err),
		)
	}
}
