package domain

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// play applies every column in order and fails the test on the first error.
func play(t *testing.T, b *Board, columns ...int) MoveResult {
	t.Helper()
	var last MoveResult
	for i, col := range columns {
		res, err := b.ApplyMove(col)
		require.NoErrorf(t, err, "move %d (column %d)", i+1, col)
		last = res
	}
	return last
}

// boardFromRows builds a board from strings given top row first,
// using 'X' for PlayerOne, 'O' for PlayerTwo and '.' for Empty.
func boardFromRows(rows ...string) *Board {
	b := NewBoard()
	for i, line := range rows {
		row := Rows - 1 - i
		for col, ch := range line {
			switch ch {
			case 'X':
				b.grid[row][col] = PlayerOne
				b.moves++
			case 'O':
				b.grid[row][col] = PlayerTwo
				b.moves++
			}
		}
	}
	return b
}

// drawSequence fills the board without ever making four in a row.
// Columns are paired so that cell colours follow (row + col/2) parity.
func drawSequence() []int {
	pair := func(a, b int) []int {
		return []int{a, b, b, a, a, b, b, a, a, b, b, a}
	}
	seq := []int{}
	seq = append(seq, pair(0, 2)...)
	seq = append(seq, pair(1, 3)...)
	seq = append(seq, pair(4, 6)...)
	seq = append(seq, 5, 5, 5, 5, 5, 5)
	return seq
}

func TestNewBoard(t *testing.T) {
	b := NewBoard()

	assert.Equal(t, PlayerOne, b.Turn())
	assert.Equal(t, StatusInProgress, b.Status())
	assert.Equal(t, Empty, b.Winner())
	assert.Equal(t, 0, b.Moves())
	assert.False(t, b.IsTerminal())
	assert.Equal(t, [Rows][Columns]Cell{}, b.Grid())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, b.PlayableColumns())
}

func TestColumnBounds(t *testing.T) {
	b := NewBoard()

	for _, col := range []int{-1, Columns, 100} {
		_, err := b.IsColumnPlayable(col)
		assert.ErrorIs(t, err, ErrOutOfRange)

		_, err = b.NextOpenRow(col)
		assert.ErrorIs(t, err, ErrOutOfRange)

		_, err = b.ApplyMove(col)
		assert.ErrorIs(t, err, ErrOutOfRange)
	}

	_, err := b.At(Rows, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = b.At(0, -1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	assert.Equal(t, PlayerOne, b.Turn())
	assert.Equal(t, 0, b.Moves())
}

func TestGravity(t *testing.T) {
	b := NewBoard()

	for k := 0; k < Rows; k++ {
		row, err := b.NextOpenRow(3)
		require.NoError(t, err)
		assert.Equal(t, k, row)

		res := play(t, b, 3)
		assert.Equal(t, k, res.Row)
		assert.Equal(t, 3, res.Column)

		for r := 0; r < Rows; r++ {
			cell, err := b.At(r, 3)
			require.NoError(t, err)
			if r <= k {
				assert.NotEqual(t, Empty, cell, "row %d should be occupied", r)
			} else {
				assert.Equal(t, Empty, cell, "row %d should be empty", r)
			}
		}
	}
}

func TestTurnAlternation(t *testing.T) {
	b := NewBoard()

	res := play(t, b, 0)
	assert.Equal(t, PlayerOne, res.Player)
	assert.Equal(t, MovePlaced, res.Kind)
	assert.Equal(t, PlayerTwo, b.Turn())

	res = play(t, b, 0)
	assert.Equal(t, PlayerTwo, res.Player)
	assert.Equal(t, PlayerOne, b.Turn())

	_, err := b.ApplyMove(-1)
	require.Error(t, err)
	assert.Equal(t, PlayerOne, b.Turn())
}

func TestColumnFull(t *testing.T) {
	b := NewBoard()
	play(t, b, 0, 0, 0, 0, 0, 0)

	playable, err := b.IsColumnPlayable(0)
	require.NoError(t, err)
	assert.False(t, playable)

	_, err = b.NextOpenRow(0)
	assert.ErrorIs(t, err, ErrColumnFull)

	before := *b
	_, err = b.ApplyMove(0)
	assert.ErrorIs(t, err, ErrColumnFull)
	assert.True(t, errors.Is(err, ErrColumnFull))
	assert.Equal(t, before, *b)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, b.PlayableColumns())
}

func TestHorizontalWin(t *testing.T) {
	b := NewBoard()

	// PlayerOne on row 0 columns 0..3, PlayerTwo stacks on top
	moves := []int{0, 0, 1, 1, 2, 2}
	for _, col := range moves {
		res := play(t, b, col)
		assert.Equal(t, MovePlaced, res.Kind)
		assert.False(t, b.IsTerminal())
	}

	res := play(t, b, 3)
	assert.Equal(t, MoveWin, res.Kind)
	assert.Equal(t, PlayerOne, res.Player)
	assert.Equal(t, 0, res.Row)
	assert.Equal(t, 3, res.Column)
	assert.Equal(t, StatusWon, b.Status())
	assert.Equal(t, PlayerOne, b.Winner())
	assert.True(t, b.CheckWin(PlayerOne))
	assert.False(t, b.CheckWin(PlayerTwo))
}

func TestVerticalWin(t *testing.T) {
	b := NewBoard()
	play(t, b, 0, 1, 0, 1, 0, 1)
	assert.False(t, b.IsTerminal())

	res := play(t, b, 0)
	assert.Equal(t, MoveWin, res.Kind)
	assert.Equal(t, 3, res.Row)
	assert.Equal(t, PlayerOne, b.Winner())
}

func TestAscendingDiagonalWin(t *testing.T) {
	b := NewBoard()

	// PlayerTwo ends up on (0,0) (1,1) (2,2) (3,3)
	play(t, b, 1, 0, 2, 1, 2, 2, 3, 3, 3)
	assert.False(t, b.IsTerminal())

	res := play(t, b, 3)
	assert.Equal(t, MoveWin, res.Kind)
	assert.Equal(t, PlayerTwo, res.Player)
	assert.Equal(t, 3, res.Row)
	assert.Equal(t, StatusWon, b.Status())
	assert.Equal(t, PlayerTwo, b.Winner())
	assert.True(t, b.CheckWin(PlayerTwo))
}

func TestDescendingDiagonalWin(t *testing.T) {
	b := NewBoard()

	// PlayerOne ends up on (3,0) (2,1) (1,2) (0,3)
	play(t, b, 3, 2, 2, 1, 0, 1, 1, 0, 6, 0)
	assert.False(t, b.IsTerminal())

	res := play(t, b, 0)
	assert.Equal(t, MoveWin, res.Kind)
	assert.Equal(t, PlayerOne, res.Player)
	assert.Equal(t, 3, res.Row)
	assert.Equal(t, 0, res.Column)
}

func TestDraw(t *testing.T) {
	b := NewBoard()
	seq := drawSequence()
	require.Len(t, seq, Cells)

	for i, col := range seq[:len(seq)-1] {
		res, err := b.ApplyMove(col)
		require.NoErrorf(t, err, "move %d", i+1)
		require.Equal(t, MovePlaced, res.Kind, "move %d", i+1)
	}

	res := play(t, b, seq[len(seq)-1])
	assert.Equal(t, MoveDraw, res.Kind)
	assert.Equal(t, StatusDraw, b.Status())
	assert.Equal(t, Empty, b.Winner())
	assert.True(t, b.IsFull())
	assert.Empty(t, b.PlayableColumns())
	assert.False(t, b.CheckWin(PlayerOne))
	assert.False(t, b.CheckWin(PlayerTwo))

	before := *b
	for col := 0; col < Columns; col++ {
		_, err := b.ApplyMove(col)
		assert.ErrorIs(t, err, ErrGameOver)
	}
	assert.Equal(t, before, *b)
}

func TestGameOverIsAbsorbing(t *testing.T) {
	b := NewBoard()
	play(t, b, 0, 1, 0, 1, 0, 1, 0)
	require.Equal(t, StatusWon, b.Status())

	before := *b
	for _, col := range []int{-1, 2, 0, Columns} {
		_, err := b.ApplyMove(col)
		assert.ErrorIs(t, err, ErrGameOver)
	}
	assert.Equal(t, before, *b)
}

func TestCheckWinNoFalsePositive(t *testing.T) {
	b := boardFromRows(
		".......",
		".......",
		"O..X...",
		"XO.OX..",
		"OXXOOX.",
		"XXXOOOX",
	)

	assert.False(t, b.CheckWin(PlayerOne))
	assert.False(t, b.CheckWin(PlayerTwo))
	assert.False(t, b.CheckWin(Empty))
}

func TestCheckWinOrientations(t *testing.T) {
	tests := []struct {
		name  string
		rows  []string
		piece Cell
	}{
		{
			name:  "horizontal top row",
			rows:  []string{"...OOOO", ".......", ".......", ".......", ".......", "......."},
			piece: PlayerTwo,
		},
		{
			name:  "vertical right edge",
			rows:  []string{".......", ".......", "......X", "......X", "......X", "......X"},
			piece: PlayerOne,
		},
		{
			name:  "ascending diagonal",
			rows:  []string{"......O", ".....O.", "....O..", "...O...", ".......", "......."},
			piece: PlayerTwo,
		},
		{
			name:  "descending diagonal",
			rows:  []string{".......", ".......", "X......", ".X.....", "..X....", "...X..."},
			piece: PlayerOne,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := boardFromRows(tt.rows...)
			assert.True(t, b.CheckWin(tt.piece))
			assert.False(t, b.CheckWin(tt.piece.Opponent()))
		})
	}
}

// The incremental check used by ApplyMove must agree with a full scan on
// every board a real game can reach.
func TestIncrementalCheckMatchesFullScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for game := 0; game < 500; game++ {
		b := NewBoard()
		for !b.IsTerminal() {
			columns := b.PlayableColumns()
			require.NotEmpty(t, columns)

			res, err := b.ApplyMove(columns[rng.Intn(len(columns))])
			require.NoError(t, err)

			assert.Equal(t, res.Kind == MoveWin, b.CheckWin(res.Player), "game %d\n%s", game, b)
			assert.False(t, b.CheckWin(res.Player.Opponent()), "game %d\n%s", game, b)
		}
	}
}

func TestBoardString(t *testing.T) {
	b := NewBoard()
	play(t, b, 3, 3, 4)

	want := "" +
		".......\n" +
		".......\n" +
		".......\n" +
		".......\n" +
		"...O...\n" +
		"...XX..\n"
	assert.Equal(t, want, b.String())
}

func TestIntGrid(t *testing.T) {
	b := NewBoard()
	play(t, b, 6, 6)

	grid := IntGrid(b.Grid())
	require.Len(t, grid, Rows)
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 1}, grid[0])
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 2}, grid[1])
}
