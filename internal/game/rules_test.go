package game

import (
	"testing"
)

func TestCheckWinner(t *testing.T) {
	tests := []struct {
		name string
		grid Grid
		want Mark
	}{
		{
			name: "No winner - empty board",
			grid: Grid{},
			want: None,
		},
		{
			name: "No winner - partial board",
			grid: Grid{
				PlayerX, None, None,
				None, PlayerO, None,
				None, None, None,
			},
			want: None,
		},
		{
			name: "X wins - first row",
			grid: Grid{
				PlayerX, PlayerX, PlayerX,
				None, PlayerO, None,
				None, None, PlayerO,
			},
			want: PlayerX,
		},
		{
			name: "O wins - second column",
			grid: Grid{
				PlayerX, PlayerO, None,
				PlayerX, PlayerO, None,
				None, PlayerO, None,
			},
			want: PlayerO,
		},
		{
			name: "X wins - main diagonal",
			grid: Grid{
				PlayerX, None, None,
				None, PlayerX, None,
				None, None, PlayerX,
			},
			want: PlayerX,
		},
		{
			name: "O wins - anti-diagonal",
			grid: Grid{
				None, None, PlayerO,
				None, PlayerO, None,
				PlayerO, None, None,
			},
			want: PlayerO,
		},
		{
			name: "No winner - full board (draw)",
			grid: Grid{
				PlayerX, PlayerO, PlayerX,
				PlayerX, PlayerO, PlayerO,
				PlayerO, PlayerX, PlayerX,
			},
			want: None,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckWinner(tt.grid); got != tt.want {
				t.Errorf("CheckWinner() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateWinner_EveryCombo(t *testing.T) {
	for _, combo := range WinningCombos {
		var grid Grid
		for _, idx := range combo {
			grid[idx] = PlayerO
		}
		if !EvaluateWinner(grid, PlayerO) {
			t.Errorf("EvaluateWinner(%v, O) = false, want true", combo)
		}
		if EvaluateWinner(grid, PlayerX) {
			t.Errorf("EvaluateWinner(%v, X) = true, want false", combo)
		}
	}
}

func TestEvaluateWinner_NoneNeverWins(t *testing.T) {
	if EvaluateWinner(Grid{}, None) {
		t.Error("EvaluateWinner(empty, None) = true, want false")
	}
}

func TestIsDraw(t *testing.T) {
	tests := []struct {
		name string
		grid Grid
		want bool
	}{
		{
			name: "Empty board is not a draw",
			grid: Grid{},
			want: false,
		},
		{
			name: "Full board without line is a draw",
			grid: Grid{
				PlayerX, PlayerO, PlayerX,
				PlayerX, PlayerO, PlayerO,
				PlayerO, PlayerX, PlayerX,
			},
			want: true,
		},
		{
			name: "Full board with winner is not a draw",
			grid: Grid{
				PlayerX, PlayerX, PlayerX,
				PlayerO, PlayerO, PlayerX,
				PlayerO, PlayerX, PlayerO,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDraw(tt.grid); got != tt.want {
				t.Errorf("IsDraw() got = %v, want %v", got, tt.want)
			}
		})
	}
}
