package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Status is the round state.
type Status int

const (
	InProgress Status = iota
	Won
	Draw
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// Messages reported back to the caller of SubmitMove.
const (
	MessageInvalidMove = "Invalid move!"
	MessageCellTaken   = "Cell taken!"
	MessageDraw        = "It's a draw!"
)

var (
	ErrInvalidMove = errors.New("invalid move")
	ErrCellTaken   = errors.New("cell already taken")
	ErrGameOver    = errors.New("game already finished")
	ErrInvalidMark = errors.New("mark must be X or O")
)

// WinMessage is the message reported when mark completes a line.
func WinMessage(mark Mark) string {
	return fmt.Sprintf("Player %s wins!", mark)
}

// MoveResult is what SubmitMove reports. Rejections are not faults: Valid is false and
// Message says why. Err carries the matching sentinel for errors.Is.
type MoveResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Scores is the cumulative win tally per mark.
type Scores struct {
	X int `json:"X"`
	O int `json:"O"`
}

// Of returns the score of mark.
func (s Scores) Of(mark Mark) int {
	switch mark {
	case PlayerX:
		return s.X
	case PlayerO:
		return s.O
	default:
		return 0
	}
}

// Controller sequences turns over a Board and keeps the score across rounds.
// Seat 0 always moves first; which mark sits there is set by ConfigurePlayers.
type Controller struct {
	board   *Board
	seats   [2]Mark
	current int
	status  Status
	winner  Mark
	scores  Scores
}

// NewController returns a controller with X in the first seat.
func NewController() *Controller {
	return &Controller{
		board: NewBoard(),
		seats: [2]Mark{PlayerX, PlayerO},
	}
}

// ConfigurePlayers seats first at index 0 and its opponent at index 1, then resets the
// round. Scores are kept.
func (c *Controller) ConfigurePlayers(first Mark) error {
	if !first.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMark, first)
	}
	c.seats = [2]Mark{first, first.Opponent()}
	c.ResetRound()
	return nil
}

// SubmitMove plays the current player's mark at index.
func (c *Controller) SubmitMove(index int) MoveResult {
	if c.IsOver() {
		return MoveResult{Message: MessageInvalidMove, Err: fmt.Errorf("%w: %w", ErrInvalidMove, ErrGameOver)}
	}
	if !inRange(index) {
		return MoveResult{Message: MessageInvalidMove, Err: fmt.Errorf("%w: %w: %d", ErrInvalidMove, ErrOutOfRange, index)}
	}

	mark := c.CurrentPlayerSign()
	if !c.board.SetCell(index, mark) {
		return MoveResult{Message: MessageCellTaken, Err: fmt.Errorf("%w: %d", ErrCellTaken, index)}
	}

	grid := c.board.Grid()
	if EvaluateWinner(grid, mark) {
		c.status = Won
		c.winner = mark
		c.addPoint(mark)
		return MoveResult{Valid: true, Message: WinMessage(mark)}
	}
	if grid.IsFull() {
		c.status = Draw
		return MoveResult{Valid: true, Message: MessageDraw}
	}

	c.current = (c.current + 1) % 2
	return MoveResult{Valid: true}
}

// ResetRound clears the board and hands the turn back to seat 0.
func (c *Controller) ResetRound() {
	c.board.Reset()
	c.current = 0
	c.status = InProgress
	c.winner = None
}

// ResetScores zeroes the tally. The round is untouched.
func (c *Controller) ResetScores() {
	c.scores = Scores{}
}

func (c *Controller) addPoint(mark Mark) {
	switch mark {
	case PlayerX:
		c.scores.X++
	case PlayerO:
		c.scores.O++
	}
}

func (c *Controller) CurrentPlayerSign() Mark { return c.seats[c.current] }
func (c *Controller) FirstMover() Mark { return c.seats[0] }
func (c *Controller) IsOver() bool { return c.status != InProgress }
func (c *Controller) Status() Status { return c.status }
func (c *Controller) Winner() Mark { return c.winner }
func (c *Controller) Scores() Scores { return c.scores }
func (c *Controller) Grid() Grid { return c.board.Grid() }
func (c *Controller) Moves() int { return c.board.Filled() }

// RandomMark picks X or O with equal probability.
func RandomMark() Mark {
	if rand.IntN(2) == 0 {
		return PlayerX
	}
	return PlayerO
}
