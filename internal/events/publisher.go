package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("events")

// MultiPublisher hands each event to every publisher and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// RedisPublisher mirrors events to the session's Redis channel.
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	ctx, span := tracer.Start(ctx, "RedisPublisher.Publish")
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, SessionChannel(event.SessionID), data).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to publish event")
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

type subscriber struct {
	ch        chan Event
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Fanout delivers events in-process to the subscribers of each session. A subscriber
// whose buffer is full is dropped and its channel closed.
type Fanout struct {
	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	buffer int
}

func NewFanout(buffer int) *Fanout {
	if buffer < 1 {
		buffer = 1
	}
	return &Fanout{
		subs:   make(map[string]map[*subscriber]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a subscriber for a session. The returned func unsubscribes and
// closes the channel; it is safe to call more than once.
func (f *Fanout) Subscribe(sessionID string) (<-chan Event, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	set := f.subs[sessionID]
	if set == nil {
		set = make(map[*subscriber]struct{})
		f.subs[sessionID] = set
	}
	sub := &subscriber{ch: make(chan Event, f.buffer)}
	set[sub] = struct{}{}

	unsub := func() {
		f.mu.Lock()
		f.remove(sessionID, sub)
		f.mu.Unlock()
		sub.close()
	}
	return sub.ch, unsub
}

func (f *Fanout) Publish(_ context.Context, event Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for sub := range f.subs[event.SessionID] {
		select {
		case sub.ch <- event:
		default:
			// drop slow subscriber
			f.remove(event.SessionID, sub)
			sub.close()
		}
	}
	if event.Type == SessionClosed {
		for sub := range f.subs[event.SessionID] {
			sub.close()
		}
		delete(f.subs, event.SessionID)
	}
	return nil
}

// Subscribers returns the number of live subscribers of a session.
func (f *Fanout) Subscribers(sessionID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[sessionID])
}

// remove must be called with f.mu held.
func (f *Fanout) remove(sessionID string, sub *subscriber) {
	set, ok := f.subs[sessionID]
	if !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(f.subs, sessionID)
	}
}
