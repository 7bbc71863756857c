package hub

import (
	"context"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/events"
	"ctchen222/tictactoe/internal/session"
	"ctchen222/tictactoe/internal/telemetry"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hub")

var ErrSessionNotFound = errors.New("session not found")

const subscriberBuffer = 16

// Config holds the defaults applied to every session the hub creates.
type Config struct {
	ThinkDelay        time.Duration
	IdleTTL           time.Duration
	SweepInterval     time.Duration
	DefaultDifficulty bot.Difficulty
}

// Hub owns every live session on this server.
type Hub struct {
	cfg       Config
	mu        sync.RWMutex
	sessions  map[string]*session.Session
	fanout    *events.Fanout
	publisher events.Publisher
	metrics   *telemetry.Metrics
}

// NewHub creates a hub. Session events go to local subscribers and then to publisher,
// which may be nil.
func NewHub(cfg Config, publisher events.Publisher, metrics *telemetry.Metrics) *Hub {
	fanout := events.NewFanout(subscriberBuffer)
	pubs := events.MultiPublisher{fanout}
	if publisher != nil {
		pubs = append(pubs, publisher)
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	return &Hub{
		cfg:       cfg,
		sessions:  make(map[string]*session.Session),
		fanout:    fanout,
		publisher: pubs,
		metrics:   metrics,
	}
}

// Create starts a new session with a fresh ID.
func (h *Hub) Create(ctx context.Context, opts session.Options) (*session.Session, error) {
	ctx, span := tracer.Start(ctx, "hub.Create", trace.WithAttributes(
		attribute.String("session.mode", string(opts.Mode)),
	))
	defer span.End()

	if opts.Difficulty == "" {
		opts.Difficulty = h.cfg.DefaultDifficulty
	}
	if opts.ThinkDelay == 0 {
		opts.ThinkDelay = h.cfg.ThinkDelay
	}
	if opts.Metrics == nil {
		opts.Metrics = h.metrics
	}

	id := uuid.New().String()
	span.SetAttributes(attribute.String("session.id", id))
	s, err := session.New(id, opts, h.publisher)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create session")
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()

	if err := s.Start(ctx); err != nil {
		_ = h.Remove(ctx, id)
		return nil, err
	}
	slog.InfoContext(ctx, "Session created", "session.id", id, "session.mode", s.Mode())
	return s, nil
}

// Get returns the session with id.
func (h *Hub) Get(id string) (*session.Session, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Remove closes the session with id and forgets it.
func (h *Hub) Remove(ctx context.Context, id string) error {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.Close(ctx)
	return nil
}

// Subscribe streams the events of session id until the returned func is called or the
// session closes. The read lock is held while subscribing so a concurrent Remove closes
// the session only after the subscriber is registered.
func (h *Hub) Subscribe(id string) (<-chan events.Event, func(), error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.sessions[id]; !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	ch, unsubscribe := h.fanout.Subscribe(id)
	return ch, unsubscribe, nil
}

// Len is the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Shutdown closes every session.
func (h *Hub) Shutdown(ctx context.Context) {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*session.Session)
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close(ctx)
	}
	slog.InfoContext(ctx, "Hub shut down", "sessions.closed", len(sessions))
}
