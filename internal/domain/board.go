package domain

import (
	"fmt"
	"strings"
)

// Board is a single Connect Four game: the grid, whose turn it is and
// whether the game has finished. Row 0 is the bottom row.
//
// A Board is not safe for concurrent use; see service/game for a
// serialised wrapper.
type Board struct {
	grid   [Rows][Columns]Cell
	turn   Cell
	status GameStatus
	winner Cell
	moves  int
}

// NewBoard returns an empty board with PlayerOne to move.
func NewBoard() *Board {
	return &Board{
		turn:   PlayerOne,
		status: StatusInProgress,
		winner: Empty,
	}
}

func checkColumn(column int) error {
	if column < 0 || column >= Columns {
		return fmt.Errorf("%w: %d", ErrOutOfRange, column)
	}
	return nil
}

// IsColumnPlayable reports whether the top cell of column is still empty.
func (b *Board) IsColumnPlayable(column int) (bool, error) {
	if err := checkColumn(column); err != nil {
		return false, err
	}
	return b.grid[Rows-1][column] == Empty, nil
}

// NextOpenRow returns the row a piece dropped into column would land on.
func (b *Board) NextOpenRow(column int) (int, error) {
	if err := checkColumn(column); err != nil {
		return -1, err
	}

	for row := 0; row < Rows; row++ {
		if b.grid[row][column] == Empty {
			return row, nil
		}
	}

	return -1, fmt.Errorf("%w: %d", ErrColumnFull, column)
}

// At returns the cell at (row, column).
func (b *Board) At(row, column int) (Cell, error) {
	if row < 0 || row >= Rows {
		return Empty, fmt.Errorf("%w: row %d", ErrOutOfRange, row)
	}
	if err := checkColumn(column); err != nil {
		return Empty, err
	}
	return b.grid[row][column], nil
}

// Grid returns a copy of the cells, indexed [row][column].
func (b *Board) Grid() [Rows][Columns]Cell {
	return b.grid
}

// Turn is the player to move next. It does not change once the game is over.
func (b *Board) Turn() Cell {
	return b.turn
}

// Status is InProgress until a win or draw.
func (b *Board) Status() GameStatus {
	return b.status
}

// Winner is Empty unless Status is StatusWon.
func (b *Board) Winner() Cell {
	return b.winner
}

// Moves is the number of occupied cells.
func (b *Board) Moves() int {
	return b.moves
}

// IsTerminal reports whether the game is won or drawn.
func (b *Board) IsTerminal() bool {
	return b.status.IsTerminal()
}

// IsFull reports whether every cell is occupied.
func (b *Board) IsFull() bool {
	return b.moves == Cells
}

// PlayableColumns lists every column that can still take a piece.
func (b *Board) PlayableColumns() []int {
	columns := []int{}
	for col := 0; col < Columns; col++ {
		if b.grid[Rows-1][col] == Empty {
			columns = append(columns, col)
		}
	}
	return columns
}

// String draws the board top row first, one character per cell.
func (b *Board) String() string {
	var sb strings.Builder
	for row := Rows - 1; row >= 0; row-- {
		for col := 0; col < Columns; col++ {
			switch b.grid[row][col] {
			case PlayerOne:
				sb.WriteByte('X')
			case PlayerTwo:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// IntGrid converts the grid to plain ints, bottom row first.
// This is the shape stored in results and sent to browser clients.
func IntGrid(grid [Rows][Columns]Cell) [][]int {
	out := make([][]int, Rows)
	for row := range grid {
		out[row] = make([]int, Columns)
		for col, cell := range grid[row] {
			out[row][col] = int(cell)
		}
	}
	return out
}
