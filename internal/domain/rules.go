package domain

// the four line orientations: horizontal, vertical, diagonal / and diagonal \
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{-1, 1},
}

// CheckWin scans the whole board for four-in-a-row of piece.
func (b *Board) CheckWin(piece Cell) bool {
	if piece == Empty {
		return false
	}

	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			for _, d := range directions {
				if b.lineFrom(row, col, d[0], d[1], piece) {
					return true
				}
			}
		}
	}

	return false
}

// lineFrom reports whether ToWin cells starting at (row, col) and stepping
// by (deltaRow, deltaCol) all hold piece.
func (b *Board) lineFrom(row, col, deltaRow, deltaCol int, piece Cell) bool {
	endRow := row + deltaRow*(ToWin-1)
	endCol := col + deltaCol*(ToWin-1)
	if !inBounds(endRow, endCol) {
		return false
	}

	for i := 0; i < ToWin; i++ {
		if b.grid[row+deltaRow*i][col+deltaCol*i] != piece {
			return false
		}
	}
	return true
}

// winsAt only checks lines passing through (row, col). On a board that had
// no four-in-a-row before the piece at (row, col) was placed this gives the
// same answer as CheckWin.
func (b *Board) winsAt(row, col int, piece Cell) bool {
	for _, d := range directions {
		total := 1 +
			b.CountInDirection(row, col, d[0], d[1], piece) +
			b.CountInDirection(row, col, -d[0], -d[1], piece)
		if total >= ToWin {
			return true
		}
	}
	return false
}

// CountInDirection counts consecutive cells of piece next to (row, col),
// not including (row, col) itself.
func (b *Board) CountInDirection(row, col, deltaRow, deltaCol int, piece Cell) int {
	count := 0
	r, c := row+deltaRow, col+deltaCol
	for inBounds(r, c) && b.grid[r][c] == piece {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}

func inBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Columns
}
