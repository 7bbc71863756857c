package bot

import (
	"ctchen222/tictactoe/internal/game"
	"math/rand/v2"
)

const (
	center   = 4
	winScore = 10
)

// easyMove makes a completely random move.
func easyMove(grid game.Grid, rng *rand.Rand) int {
	available := grid.EmptyCells()
	if len(available) == 0 {
		return -1 // No moves left
	}
	return available[rng.IntN(len(available))]
}

// mediumMove will win if it can, block if it must, take the center if free, otherwise
// move randomly.
func mediumMove(grid game.Grid, botMark, opponentMark game.Mark, rng *rand.Rand) int {
	// 1. Win
	if idx, ok := findWinningMove(grid, botMark); ok {
		return idx
	}

	// 2. Block
	if idx, ok := findWinningMove(grid, opponentMark); ok {
		return idx
	}

	// 3. Center
	if grid[center] == game.None {
		return center
	}

	// 4. Random
	return easyMove(grid, rng)
}

// hardMove runs a full minimax search. Cells are tried 0 to 8 and only a strictly
// better score replaces the best move, so ties go to the lowest index.
func hardMove(grid game.Grid, botMark, opponentMark game.Mark) int {
	bestScore := -winScore - 1
	bestMove := -1
	for idx := range grid {
		if grid[idx] != game.None {
			continue
		}
		grid[idx] = botMark
		score := minimax(&grid, 0, false, botMark, opponentMark)
		grid[idx] = game.None
		if score > bestScore {
			bestScore = score
			bestMove = idx
		}
	}
	return bestMove
}

// minimax scores the position from botMark's point of view. A win is worth
// winScore-depth and a loss depth-winScore, so quick wins and slow losses rank higher.
func minimax(grid *game.Grid, depth int, maximizing bool, botMark, opponentMark game.Mark) int {
	if game.EvaluateWinner(*grid, botMark) {
		return winScore - depth
	}
	if game.EvaluateWinner(*grid, opponentMark) {
		return depth - winScore
	}
	if grid.IsFull() {
		return 0
	}

	mark := opponentMark
	best := winScore + 1
	if maximizing {
		mark = botMark
		best = -winScore - 1
	}

	for idx := range grid {
		if grid[idx] != game.None {
			continue
		}
		grid[idx] = mark
		score := minimax(grid, depth+1, !maximizing, botMark, opponentMark)
		grid[idx] = game.None

		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}

// findWinningMove returns the lowest empty cell that completes a line for mark.
func findWinningMove(grid game.Grid, mark game.Mark) (int, bool) {
	for idx := range grid {
		if grid[idx] != game.None {
			continue
		}
		grid[idx] = mark
		won := game.EvaluateWinner(grid, mark)
		grid[idx] = game.None
		if won {
			return idx, true
		}
	}
	return -1, false
}
