package game

import (
	"errors"
	"testing"
)

func TestBoard_SetCell(t *testing.T) {
	tests := []struct {
		name  string
		index int
		mark  Mark
		want  bool
	}{
		{name: "first cell", index: 0, mark: PlayerX, want: true},
		{name: "last cell", index: 8, mark: PlayerO, want: true},
		{name: "negative index", index: -1, mark: PlayerX, want: false},
		{name: "index past the board", index: 9, mark: PlayerX, want: false},
		{name: "empty mark", index: 4, mark: None, want: false},
		{name: "unknown mark", index: 4, mark: Mark("Z"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBoard()
			if got := b.SetCell(tt.index, tt.mark); got != tt.want {
				t.Errorf("SetCell(%d, %q) got = %v, want %v", tt.index, tt.mark, got, tt.want)
			}
			wantFilled := 0
			if tt.want {
				wantFilled = 1
			}
			if b.Filled() != wantFilled {
				t.Errorf("Filled() got = %d, want %d", b.Filled(), wantFilled)
			}
		})
	}
}

func TestBoard_SetCellNeverOverwrites(t *testing.T) {
	b := NewBoard()
	if !b.SetCell(4, PlayerX) {
		t.Fatal("first write to an empty cell was refused")
	}
	if b.SetCell(4, PlayerO) {
		t.Error("SetCell overwrote an occupied cell")
	}
	if got, _ := b.Cell(4); got != PlayerX {
		t.Errorf("Cell(4) got = %q, want %q", got, PlayerX)
	}
}

func TestBoard_Cell(t *testing.T) {
	b := NewBoard()
	b.SetCell(2, PlayerO)

	got, err := b.Cell(2)
	if err != nil || got != PlayerO {
		t.Errorf("Cell(2) got = (%q, %v), want (%q, nil)", got, err, PlayerO)
	}
	if _, err := b.Cell(9); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Cell(9) err = %v, want ErrOutOfRange", err)
	}
	if _, err := b.Cell(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Cell(-1) err = %v, want ErrOutOfRange", err)
	}
}

func TestBoard_Reset(t *testing.T) {
	b := NewBoard()
	for i := range BoardSize {
		b.SetCell(i, PlayerX)
	}
	b.Reset()
	if b.Grid() != (Grid{}) {
		t.Errorf("Reset() left cells behind: %v", b.Grid())
	}
}

func TestGrid_EmptyCells(t *testing.T) {
	grid := Grid{
		PlayerX, None, PlayerO,
		None, PlayerX, None,
		PlayerO, None, PlayerX,
	}
	want := []int{1, 3, 5, 7}
	got := grid.EmptyCells()
	if len(got) != len(want) {
		t.Fatalf("EmptyCells() got = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("EmptyCells() got = %v, want %v", got, want)
		}
	}
}

func TestGrid_IsFull(t *testing.T) {
	tests := []struct {
		name string
		grid Grid
		want bool
	}{
		{
			name: "Empty board is not full",
			grid: Grid{},
			want: false,
		},
		{
			name: "Partial board is not full",
			grid: Grid{
				PlayerX, None, None,
				None, PlayerO, None,
				None, None, None,
			},
			want: false,
		},
		{
			name: "Full board is full",
			grid: Grid{
				PlayerX, PlayerO, PlayerX,
				PlayerX, PlayerO, PlayerO,
				PlayerO, PlayerX, PlayerX,
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.grid.IsFull(); got != tt.want {
				t.Errorf("IsFull() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGrid_String(t *testing.T) {
	grid := Grid{
		PlayerX, None, None,
		None, PlayerO, None,
		None, None, PlayerX,
	}
	want := " X |   |   \n" +
		"---+---+---\n" +
		"   | O |   \n" +
		"---+---+---\n" +
		"   |   | X \n"
	if got := grid.String(); got != want {
		t.Errorf("String() got =\n%s\nwant\n%s", got, want)
	}
}

func TestMark_Opponent(t *testing.T) {
	if PlayerX.Opponent() != PlayerO || PlayerO.Opponent() != PlayerX {
		t.Error("X and O must be each other's opponent")
	}
	if None.Opponent() != None {
		t.Errorf("None.Opponent() got = %q, want empty", None.Opponent())
	}
}

func TestRandomMark(t *testing.T) {
	// Not a statistical test, only checks both marks show up.
	seenX := false
	seenO := false
	for i := 0; i < 100; i++ {
		mark := RandomMark()
		if mark != PlayerX && mark != PlayerO {
			t.Errorf("RandomMark() returned invalid mark: %v", mark)
		}
		if mark == PlayerX {
			seenX = true
		}
		if mark == PlayerO {
			seenO = true
		}
	}

	if !seenX || !seenO {
		t.Errorf("RandomMark() did not return both marks over 100 runs. Seen X: %v, Seen O: %v", seenX, seenO)
	}
}
