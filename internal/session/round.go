package session

import (
	"context"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/events"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/player"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// State is a snapshot of a session.
type State struct {
	ID              string           `json:"id"`
	Mode            Mode             `json:"mode"`
	Difficulty      bot.Difficulty   `json:"difficulty,omitempty"`
	Players         []*player.Player `json:"players"`
	Board           game.Grid        `json:"board"`
	FirstMark       game.Mark        `json:"first_mark"`
	Next            game.Mark        `json:"next,omitempty"`
	Status          string           `json:"status"`
	Winner          game.Mark        `json:"winner,omitempty"`
	Over            bool             `json:"over"`
	Scores          game.Scores      `json:"scores"`
	ComputerPending bool             `json:"computer_pending"`
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		ID:              s.ID,
		Mode:            s.mode,
		Board:           s.controller.Grid(),
		FirstMark:       s.controller.FirstMover(),
		Status:          s.controller.Status().String(),
		Winner:          s.controller.Winner(),
		Over:            s.controller.IsOver(),
		Scores:          s.controller.Scores(),
		ComputerPending: s.cancelPending != nil,
	}
	if !st.Over {
		st.Next = s.controller.CurrentPlayerSign()
	}
	if s.computer != nil {
		st.Difficulty = s.computer.Difficulty()
	}
	for _, p := range s.playersLocked() {
		cp := *p
		st.Players = append(st.Players, &cp)
	}
	return st
}

// ResetRound clears the board, keeps the scores and cancels any pending computer move.
// When the computer holds the first seat its opening move is scheduled again.
func (s *Session) ResetRound(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "session.ResetRound", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		span.SetStatus(codes.Error, "Session closed")
		return ErrClosed
	}

	s.cancelPendingLocked()
	s.controller.ResetRound()
	s.touchLocked()
	s.publishLocked(ctx, events.RoundReset, events.RoundResetPayload{FirstMark: s.controller.FirstMover()})
	slog.InfoContext(ctx, "Round reset", "session.id", s.ID, "first.mark", s.controller.FirstMover())

	if s.isComputerTurnLocked() {
		s.scheduleComputerMoveLocked()
	}
	return nil
}

// ResetScores zeroes both scores. The round in play is untouched.
func (s *Session) ResetScores(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "session.ResetScores", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		span.SetStatus(codes.Error, "Session closed")
		return ErrClosed
	}

	s.controller.ResetScores()
	s.touchLocked()
	s.publishLocked(ctx, events.ScoresReset, events.ScoresResetPayload{Scores: s.controller.Scores()})
	return nil
}

// SetDifficulty changes the computer's level. It is refused while a round is being
// played: after the first move and before the round is over.
func (s *Session) SetDifficulty(ctx context.Context, d bot.Difficulty) error {
	ctx, span := tracer.Start(ctx, "session.SetDifficulty", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("computer.difficulty", string(d)),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkBetweenRoundsLocked(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Difficulty change refused")
		return err
	}
	if s.computer == nil {
		span.SetStatus(codes.Error, "No computer player")
		return ErrNoComputer
	}
	if err := s.computer.SetDifficulty(d); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unknown difficulty")
		return err
	}

	s.touchLocked()
	s.publishLocked(ctx, events.DifficultyChanged, events.DifficultyChangedPayload{Difficulty: string(d)})
	slog.InfoContext(ctx, "Difficulty changed", "session.id", s.ID, "computer.difficulty", d)
	return nil
}

// Seating says who moves first and, against the computer, which mark the human plays.
// HumanMark is ignored in human mode.
type Seating struct {
	FirstMark game.Mark
	HumanMark game.Mark
}

// Configure reseats the players and starts a fresh round. Scores are kept.
func (s *Session) Configure(ctx context.Context, seating Seating) error {
	ctx, span := tracer.Start(ctx, "session.Configure", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("first.mark", string(seating.FirstMark)),
		attribute.String("human.mark", string(seating.HumanMark)),
	))
	defer span.End()

	if !seating.FirstMark.Valid() {
		span.SetStatus(codes.Error, "Invalid first mark")
		return game.ErrInvalidMark
	}
	if seating.HumanMark != game.None && !seating.HumanMark.Valid() {
		span.SetStatus(codes.Error, "Invalid human mark")
		return game.ErrInvalidMark
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkBetweenRoundsLocked(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Reconfiguration refused")
		return err
	}

	s.cancelPendingLocked()
	if err := s.controller.ConfigurePlayers(seating.FirstMark); err != nil {
		return err
	}
	if s.computer != nil && seating.HumanMark != game.None {
		s.seat(seating.HumanMark)
	}
	s.touchLocked()
	s.publishLocked(ctx, events.RoundReset, events.RoundResetPayload{FirstMark: seating.FirstMark})

	if s.isComputerTurnLocked() {
		s.scheduleComputerMoveLocked()
	}
	return nil
}

// checkBetweenRoundsLocked refuses changes once a round has moves on the board and is
// still being played.
func (s *Session) checkBetweenRoundsLocked() error {
	if s.closed {
		return ErrClosed
	}
	if s.controller.Moves() > 0 && !s.controller.IsOver() {
		return ErrRoundInProgress
	}
	return nil
}

// PlayerByID returns the seated player with id.
func (s *Session) PlayerByID(id string) (*player.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	players := s.playersLocked()
	i := slices.IndexFunc(players, func(p *player.Player) bool { return p.ID == id })
	if i < 0 {
		return nil, false
	}
	cp := *players[i]
	return &cp, true
}

func (s *Session) playersLocked() []*player.Player {
	out := make([]*player.Player, 0, len(s.players))
	for _, mark := range []game.Mark{game.PlayerX, game.PlayerO} {
		if p, ok := s.players[mark]; ok {
			out = append(out, p)
		}
	}
	return out
}
