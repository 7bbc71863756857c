package game

import (
	"errors"
	"strings"
)

// Mark represents the mark of a player (X, O) or an empty cell.
type Mark string

const (
	None    Mark = ""
	PlayerX Mark = "X"
	PlayerO Mark = "O"
)

// Board boundaries
const (
	BoardSize = 9
	BorderMin = 0 // First index of the board
	BorderMax = 8 // Last index of the board
)

var ErrOutOfRange = errors.New("cell index out of range")

// Valid reports whether m is a player mark.
func (m Mark) Valid() bool {
	return m == PlayerX || m == PlayerO
}

// Opponent returns the opposing mark. None has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return None
	}
}

// Grid is a row-major snapshot of the nine cells (0,1,2 / 3,4,5 / 6,7,8).
type Grid [BoardSize]Mark

// EmptyCells returns the indexes of the empty cells in ascending order.
func (g Grid) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range g {
		if cell == None {
			cells = append(cells, i)
		}
	}
	return cells
}

// IsFull reports whether every cell holds a mark.
func (g Grid) IsFull() bool {
	for _, cell := range g {
		if cell == None {
			return false
		}
	}
	return true
}

// Count returns the number of cells holding a mark.
func (g Grid) Count() int {
	n := 0
	for _, cell := range g {
		if cell != None {
			n++
		}
	}
	return n
}

// String renders the grid for a terminal.
func (g Grid) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}
		for col := 0; col < 3; col++ {
			cell := g[row*3+col]
			if cell == None {
				cell = " "
			}
			if col > 0 {
				sb.WriteString("|")
			}
			sb.WriteString(" " + string(cell) + " ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Board holds the live grid. SetCell is the only way a cell gets a mark.
type Board struct {
	cells Grid
}

func NewBoard() *Board {
	return &Board{}
}

// Cell returns the mark at index.
func (b *Board) Cell(index int) (Mark, error) {
	if !inRange(index) {
		return None, ErrOutOfRange
	}
	return b.cells[index], nil
}

// SetCell writes mark at index if the index is in range, the cell is empty and the
// mark is X or O. It reports whether the write happened.
func (b *Board) SetCell(index int, mark Mark) bool {
	if !inRange(index) || !mark.Valid() || b.cells[index] != None {
		return false
	}
	b.cells[index] = mark
	return true
}

// Reset clears every cell.
func (b *Board) Reset() {
	b.cells = Grid{}
}

// Grid returns a copy of the cells.
func (b *Board) Grid() Grid {
	return b.cells
}

// Filled returns the number of occupied cells.
func (b *Board) Filled() int {
	return b.cells.Count()
}

func inRange(index int) bool {
	return index >= BorderMin && index <= BorderMax
}
