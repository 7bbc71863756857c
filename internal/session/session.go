package session

import (
	"context"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/events"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/player"
	"ctchen222/tictactoe/internal/telemetry"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("session")

// Mode tells whether the second seat is a human or the computer.
type Mode string

const (
	ModeHuman    Mode = "human"
	ModeComputer Mode = "computer"
)

var (
	ErrRoundInProgress = errors.New("round in progress")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrClosed          = errors.New("session closed")
	ErrUnknownMode     = errors.New("unknown mode")
	ErrNoComputer      = errors.New("session has no computer player")
)

// Options configure a new session. Zero values pick the standard setup: X moves first
// and, against the computer, the human plays X on Easy.
type Options struct {
	Mode       Mode
	Difficulty bot.Difficulty
	HumanMark  game.Mark
	FirstMark  game.Mark
	ThinkDelay time.Duration
	Rand       *rand.Rand
	Metrics    *telemetry.Metrics
}

// Session is one game between two seats. It owns the controller and serializes every
// call to it; the deferred computer move is the only goroutine it starts.
type Session struct {
	ID string

	mu         sync.Mutex
	mode       Mode
	controller *game.Controller
	computer   *bot.Computer
	players    map[game.Mark]*player.Player
	publisher  events.Publisher
	metrics    *telemetry.Metrics
	thinkDelay time.Duration

	// generation changes whenever a pending computer move must not land any more.
	generation    uint64
	cancelPending context.CancelFunc
	pending       sync.WaitGroup

	closed     bool
	lastActive time.Time
}

// New creates a session. Nothing is published until Start.
func New(id string, opts Options, publisher events.Publisher) (*Session, error) {
	if opts.Mode == "" {
		opts.Mode = ModeHuman
	}
	if opts.Mode != ModeHuman && opts.Mode != ModeComputer {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, opts.Mode)
	}
	if opts.FirstMark == game.None {
		opts.FirstMark = game.PlayerX
	}
	if opts.HumanMark == game.None {
		opts.HumanMark = game.PlayerX
	}
	if !opts.FirstMark.Valid() || !opts.HumanMark.Valid() {
		return nil, game.ErrInvalidMark
	}
	if opts.Metrics == nil {
		opts.Metrics = telemetry.NoopMetrics()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	s := &Session{
		ID:         id,
		mode:       opts.Mode,
		controller: game.NewController(),
		publisher:  publisher,
		metrics:    opts.Metrics,
		thinkDelay: opts.ThinkDelay,
		lastActive: time.Now(),
	}
	if err := s.controller.ConfigurePlayers(opts.FirstMark); err != nil {
		return nil, err
	}

	switch opts.Mode {
	case ModeComputer:
		if opts.Difficulty != "" && !opts.Difficulty.Valid() {
			return nil, fmt.Errorf("%w: %q", bot.ErrUnknownDifficulty, opts.Difficulty)
		}
		var botOpts []bot.Option
		if opts.Rand != nil {
			botOpts = append(botOpts, bot.WithRand(opts.Rand))
		}
		s.computer = bot.NewComputer(opts.Difficulty, botOpts...)
		s.seat(opts.HumanMark)
	default:
		s.players = map[game.Mark]*player.Player{
			game.PlayerX: player.NewPlayer(uuid.New().String(), game.PlayerX),
			game.PlayerO: player.NewPlayer(uuid.New().String(), game.PlayerO),
		}
	}
	return s, nil
}

// seat gives the human humanMark and the computer the other mark, keeping player IDs.
func (s *Session) seat(humanMark game.Mark) {
	human, computer := s.humanPlayerLocked(), s.botPlayerLocked()
	if human == nil {
		human = player.NewPlayer(uuid.New().String(), humanMark)
	}
	if computer == nil {
		computer = bot.NewBotPlayer(humanMark.Opponent())
	}
	human.Mark = humanMark
	computer.Mark = humanMark.Opponent()
	s.players = map[game.Mark]*player.Player{
		human.Mark:    human,
		computer.Mark: computer,
	}
}

// Start announces the session and, when the computer moves first, schedules its move.
func (s *Session) Start(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "session.Start", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("session.mode", string(s.mode)),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	payload := events.SessionStartedPayload{
		Mode:      string(s.mode),
		FirstMark: s.controller.FirstMover(),
	}
	if s.computer != nil {
		payload.Difficulty = string(s.computer.Difficulty())
	}
	s.publishLocked(ctx, events.SessionStarted, payload)
	slog.InfoContext(ctx, "Session started", "session.id", s.ID, "session.mode", s.mode)

	if s.isComputerTurnLocked() {
		s.scheduleComputerMoveLocked()
	}
	return nil
}

// Close cancels any pending computer move, announces the end of the session and waits
// for the computer goroutine to exit.
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancelPendingLocked()
	s.publishLocked(ctx, events.SessionClosed, nil)
	s.mu.Unlock()

	s.pending.Wait()
	slog.InfoContext(ctx, "Session closed", "session.id", s.ID)
}

func (s *Session) Mode() Mode {
	return s.mode
}

// LastActive is the time of the last accepted call.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) touchLocked() {
	s.lastActive = time.Now()
}

func (s *Session) publishLocked(ctx context.Context, eventType string, payload any) {
	event, err := events.New(s.ID, eventType, payload)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build event", "session.id", s.ID, "event.type", eventType, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "session.id", s.ID, "event.type", eventType, "error", err)
	}
}

func (s *Session) humanPlayerLocked() *player.Player {
	for _, p := range s.players {
		if !p.IsBot {
			return p
		}
	}
	return nil
}

func (s *Session) botPlayerLocked() *player.Player {
	for _, p := range s.players {
		if p.IsBot {
			return p
		}
	}
	return nil
}

func (s *Session) isComputerTurnLocked() bool {
	if s.computer == nil || s.controller.IsOver() {
		return false
	}
	p := s.players[s.controller.CurrentPlayerSign()]
	return p != nil && p.IsBot
}
