package console

import (
	"bufio"
	"context"
	"ctchen222/tictactoe/internal/events"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/session"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
)

const eventBuffer = 32

// Console plays a session over a line-based terminal.
type Console struct {
	in   *bufio.Scanner
	out  io.Writer
	opts session.Options
}

func New(in io.Reader, out io.Writer, opts session.Options) *Console {
	return &Console{in: bufio.NewScanner(in), out: out, opts: opts}
}

// Run plays rounds until the player declines another one or input ends.
func (c *Console) Run(ctx context.Context) error {
	fanout := events.NewFanout(eventBuffer)
	id := uuid.New().String()
	s, err := session.New(id, c.opts, fanout)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	stream, unsubscribe := fanout.Subscribe(id)
	defer unsubscribe()
	defer s.Close(context.WithoutCancel(ctx))

	computerMoves := make(chan int, eventBuffer)
	go forwardComputerMoves(stream, computerMark(s.State()), computerMoves)

	if err := s.Start(ctx); err != nil {
		return err
	}

	for {
		c.drainComputerMoves(computerMoves)
		st := s.State()

		if st.Over {
			c.printBoard(st)
			fmt.Fprintln(c.out, outcome(st.Board))
			c.printScores(st)
			again, err := c.askPlayAgain()
			if err != nil || !again {
				fmt.Fprintln(c.out, "Thanks for playing!")
				return err
			}
			if err := s.ResetRound(ctx); err != nil {
				return err
			}
			continue
		}

		if computerTurn(st) {
			select {
			case idx := <-computerMoves:
				fmt.Fprintf(c.out, "Computer plays %d\n", idx)
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		c.printBoard(st)
		idx, ok, err := c.readMove(st.Next)
		if err == io.EOF {
			fmt.Fprintln(c.out, "Thanks for playing!")
			return nil
		}
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(c.out, game.MessageInvalidMove)
			continue
		}

		res, err := s.Submit(ctx, idx)
		if err != nil {
			return err
		}
		if !res.Valid {
			fmt.Fprintln(c.out, res.Message)
		}
	}
}

// forwardComputerMoves keeps the subscription drained and passes on the cells played
// with mark. In a human game mark is None and nothing is forwarded.
func forwardComputerMoves(stream <-chan events.Event, mark game.Mark, out chan<- int) {
	for e := range stream {
		if e.Type != events.MoveApplied {
			continue
		}
		var p events.MoveAppliedPayload
		if err := json.Unmarshal(e.Payload, &p); err != nil {
			slog.Error("failed to decode move event", "error", err)
			continue
		}
		if mark != game.None && p.Mark == mark {
			out <- p.Index
		}
	}
}

func (c *Console) drainComputerMoves(moves <-chan int) {
	for {
		select {
		case idx := <-moves:
			fmt.Fprintf(c.out, "Computer plays %d\n", idx)
		default:
			return
		}
	}
}

func computerMark(st session.State) game.Mark {
	for _, p := range st.Players {
		if p.IsBot {
			return p.Mark
		}
	}
	return game.None
}

func computerTurn(st session.State) bool {
	for _, p := range st.Players {
		if p.Mark == st.Next {
			return p.IsBot
		}
	}
	return false
}

func (c *Console) printBoard(st session.State) {
	fmt.Fprintln(c.out)
	fmt.Fprint(c.out, st.Board.String())
	fmt.Fprintln(c.out)
}

// outcome announces a finished round, whichever seat made the last move.
func outcome(grid game.Grid) string {
	if winner := game.CheckWinner(grid); winner != game.None {
		return game.WinMessage(winner)
	}
	if game.IsDraw(grid) {
		return game.MessageDraw
	}
	return ""
}

func (c *Console) printScores(st session.State) {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Player\tScore")
	for _, mark := range []game.Mark{game.PlayerX, game.PlayerO} {
		fmt.Fprintf(w, "%s\t%d\n", mark, st.Scores.Of(mark))
	}
	_ = w.Flush()
}

// readMove prompts for a cell. ok is false when the line is not a number.
func (c *Console) readMove(mark game.Mark) (int, bool, error) {
	fmt.Fprintf(c.out, "Player %s, enter your move (0-8): ", mark)
	line, err := c.readLine()
	if err != nil {
		return 0, false, err
	}
	idx, err := strconv.Atoi(line)
	if err != nil {
		return 0, false, nil
	}
	return idx, true, nil
}

func (c *Console) askPlayAgain() (bool, error) {
	fmt.Fprint(c.out, "Play again? (y/n): ")
	line, err := c.readLine()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}
