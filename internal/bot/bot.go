package bot

import (
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/player"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// Difficulty selects the move strategy of the computer player.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var (
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrNoAvailableMoves  = errors.New("no available moves")
)

// ParseDifficulty accepts easy, medium or hard in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
	}
	return d, nil
}

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// Computer picks moves for the bot seat. It never touches the live board: every
// decision works on a Grid copy.
type Computer struct {
	difficulty Difficulty
	rng        *rand.Rand
}

type Option func(*Computer)

// WithRand makes random choices reproducible.
func WithRand(r *rand.Rand) Option {
	return func(c *Computer) {
		c.rng = r
	}
}

// NewComputer creates a computer player. An invalid difficulty falls back to Easy.
func NewComputer(difficulty Difficulty, opts ...Option) *Computer {
	if !difficulty.Valid() {
		difficulty = Easy
	}
	c := &Computer{
		difficulty: difficulty,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Computer) Difficulty() Difficulty {
	return c.difficulty
}

// SetDifficulty changes the strategy. Callers are expected to do this between rounds.
func (c *Computer) SetDifficulty(d Difficulty) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDifficulty, d)
	}
	c.difficulty = d
	return nil
}

// SelectMove returns the cell index the computer plays as mine against opponent.
func (c *Computer) SelectMove(grid game.Grid, mine, opponent game.Mark) (int, error) {
	if grid.IsFull() {
		return -1, ErrNoAvailableMoves
	}

	switch c.difficulty {
	case Medium:
		return mediumMove(grid, mine, opponent, c.rng), nil
	case Hard:
		return hardMove(grid, mine, opponent), nil
	default:
		return easyMove(grid, c.rng), nil
	}
}

// NewBotPlayer creates the player record for the computer seat.
func NewBotPlayer(mark game.Mark) *player.Player {
	botID := "bot-" + uuid.New().String()[:8]
	p := player.NewPlayer(botID, mark)
	p.IsBot = true
	return p
}
