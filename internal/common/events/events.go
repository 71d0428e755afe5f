// Package events publishes domain events (completed searches, venue
// enrichments) to a message bus without blocking the request path.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"dining-search/internal/common/logger"
)

const (
	TypeSearchCompleted = "search.completed"
	TypeVenueEnriched   = "venue.enriched"
)

type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Key       string      `json:"key,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps a payload with a fresh id and the current time.
func NewEvent(eventType, key string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Key:       key,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }

// AsyncPublisher hands events to the underlying publisher on a detached
// context so callers never wait on the bus.
type AsyncPublisher struct {
	next    Publisher
	timeout time.Duration
	logger  logger.Logger
	wg      sync.WaitGroup
}

func NewAsyncPublisher(next Publisher, timeout time.Duration, log logger.Logger) *AsyncPublisher {
	if next == nil {
		next = NoopPublisher{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AsyncPublisher{
		next:    next,
		timeout: timeout,
		logger:  logger.Component(log, "event-publisher"),
	}
}

// Publish returns immediately; delivery errors are logged.
func (p *AsyncPublisher) Publish(_ context.Context, event Event) error {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		if err := p.next.Publish(ctx, event); err != nil {
			p.logger.Warn("event publish failed", map[string]interface{}{
				"eventId":   event.ID,
				"eventType": event.Type,
				"error":     err.Error(),
			})
		}
	}()
	return nil
}

// Close waits for in-flight deliveries, at most one publish timeout, then
// closes the underlying publisher.
func (p *AsyncPublisher) Close() error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(p.timeout):
		p.logger.Warn("closing with events still in flight", map[string]interface{}{
			"timeout": p.timeout.String(),
		})
	}
	return p.next.Close()
}
