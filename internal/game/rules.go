package game

// WinningCombos lists every line of three: rows, columns, then diagonals.
var WinningCombos = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // Rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // Columns
	{0, 4, 8}, {2, 4, 6}, // Diagonals
}

// EvaluateWinner reports whether mark occupies all three cells of any combo.
// Both the controller and the computer player decide wins through this function.
func EvaluateWinner(grid Grid, mark Mark) bool {
	if !mark.Valid() {
		return false
	}
	for _, combo := range WinningCombos {
		if grid[combo[0]] == mark && grid[combo[1]] == mark && grid[combo[2]] == mark {
			return true
		}
	}
	return false
}

// CheckWinner returns the mark holding a complete line, or None.
func CheckWinner(grid Grid) Mark {
	for _, mark := range []Mark{PlayerX, PlayerO} {
		if EvaluateWinner(grid, mark) {
			return mark
		}
	}
	return None
}

// IsDraw reports a full grid without a winner.
func IsDraw(grid Grid) bool {
	return grid.IsFull() && CheckWinner(grid) == None
}
