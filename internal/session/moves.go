package session

import (
	"context"
	"ctchen222/tictactoe/internal/events"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/player"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Submit plays index for the human whose turn it is. A rejected move is reported in the
// result, not as an error; the error is only set when the session can no longer play.
func (s *Session) Submit(ctx context.Context, index int) (game.MoveResult, error) {
	ctx, span := tracer.Start(ctx, "session.Submit", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.Int("move.index", index),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		span.SetStatus(codes.Error, "Session closed")
		return game.MoveResult{}, ErrClosed
	}

	if s.isComputerTurnLocked() {
		slog.WarnContext(ctx, "move submitted during the computer's turn", "session.id", s.ID, "move.index", index)
		span.SetAttributes(attribute.Bool("move.valid", false))
		return game.MoveResult{Message: game.MessageInvalidMove, Err: ErrNotYourTurn}, nil
	}

	p := s.players[s.controller.CurrentPlayerSign()]
	res := s.applyLocked(ctx, p, index)
	if res.Valid && s.isComputerTurnLocked() {
		s.scheduleComputerMoveLocked()
	}
	return res, nil
}

// applyLocked submits index for p and publishes the outcome.
func (s *Session) applyLocked(ctx context.Context, p *player.Player, index int) game.MoveResult {
	ctx, span := tracer.Start(ctx, "session.applyMove", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("player.id", p.ID),
		attribute.String("player.mark", string(p.Mark)),
		attribute.Bool("player.bot", p.IsBot),
		attribute.Int("move.index", index),
	))
	defer span.End()

	res := s.controller.SubmitMove(index)
	s.metrics.Moves.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("move.valid", res.Valid),
		attribute.String("player.mark", string(p.Mark)),
	))
	span.SetAttributes(attribute.Bool("move.valid", res.Valid))

	if !res.Valid {
		slog.WarnContext(ctx, "invalid move from player", "session.id", s.ID, "player.id", p.ID, "move.index", index, "error", res.Err)
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, "Invalid move")
		return res
	}
	s.touchLocked()

	payload := events.MoveAppliedPayload{
		PlayerID: p.ID,
		Mark:     p.Mark,
		Index:    index,
		Result:   res,
		Board:    s.controller.Grid(),
	}
	if !s.controller.IsOver() {
		payload.Next = s.controller.CurrentPlayerSign()
	}
	s.publishLocked(ctx, events.MoveApplied, payload)

	if s.controller.IsOver() {
		status := s.controller.Status()
		s.metrics.Rounds.Add(ctx, 1, metric.WithAttributes(
			attribute.String("round.outcome", status.String()),
			attribute.String("round.winner", string(s.controller.Winner())),
		))
		s.publishLocked(ctx, events.RoundOver, events.RoundOverPayload{
			Winner: s.controller.Winner(),
			Draw:   status == game.Draw,
			Scores: s.controller.Scores(),
		})
		slog.InfoContext(ctx, "Round over", "session.id", s.ID, "round.outcome", status.String(), "round.winner", s.controller.Winner())
	}
	return res
}

// scheduleComputerMoveLocked starts the deferred computer move under a new generation.
// Any move already pending is cancelled first.
func (s *Session) scheduleComputerMoveLocked() {
	s.cancelPendingLocked()
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelPending = cancel
	s.pending.Add(1)
	go s.runComputerMove(ctx, cancel, s.generation, s.thinkDelay)
}

// cancelPendingLocked drops any pending computer move and moves to a new generation so
// a move that already woke up cannot land.
func (s *Session) cancelPendingLocked() {
	if s.cancelPending != nil {
		s.cancelPending()
		s.cancelPending = nil
	}
	s.generation++
}

func (s *Session) runComputerMove(ctx context.Context, cancel context.CancelFunc, generation uint64, delay time.Duration) {
	defer s.pending.Done()
	defer cancel()

	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || ctx.Err() != nil {
		slog.DebugContext(ctx, "dropping stale computer move", "session.id", s.ID, "generation", generation)
		return
	}
	s.cancelPending = nil
	if s.closed || !s.isComputerTurnLocked() {
		return
	}

	ctx, span := tracer.Start(ctx, "session.computerMove", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("computer.difficulty", string(s.computer.Difficulty())),
	))
	defer span.End()

	mark := s.controller.CurrentPlayerSign()
	start := time.Now()
	index, err := s.computer.SelectMove(s.controller.Grid(), mark, mark.Opponent())
	s.metrics.ComputerThink.Record(ctx, float64(time.Since(start).Microseconds())/1000, metric.WithAttributes(
		attribute.String("computer.difficulty", string(s.computer.Difficulty())),
	))
	if err != nil {
		slog.ErrorContext(ctx, "computer could not select a move", "session.id", s.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Computer could not select a move")
		return
	}

	span.SetAttributes(attribute.Int("move.index", index))
	s.applyLocked(ctx, s.players[mark], index)
}

// ComputerPending reports whether a computer move is scheduled and not yet applied.
func (s *Session) ComputerPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelPending != nil
}
