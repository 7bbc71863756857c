package hub

import (
	"context"
	"ctchen222/tictactoe/internal/session"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Run evicts idle sessions until ctx is done, then closes the rest.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.Shutdown(context.WithoutCancel(ctx))
			return
		case now := <-ticker.C:
			h.evictIdle(ctx, now)
		}
	}
}

// evictIdle closes sessions with no accepted call for longer than IdleTTL.
func (h *Hub) evictIdle(ctx context.Context, now time.Time) int {
	if h.cfg.IdleTTL <= 0 {
		return 0
	}

	h.mu.Lock()
	var idle []*session.Session
	for id, s := range h.sessions {
		if now.Sub(s.LastActive()) > h.cfg.IdleTTL {
			idle = append(idle, s)
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()

	if len(idle) == 0 {
		return 0
	}

	ctx, span := tracer.Start(ctx, "hub.evictIdle", trace.WithAttributes(
		attribute.Int("sessions.evicted", len(idle)),
	))
	defer span.End()

	for _, s := range idle {
		slog.InfoContext(ctx, "Evicting idle session", "session.id", s.ID, "last.active", s.LastActive())
		s.Close(ctx)
	}
	return len(idle)
}
