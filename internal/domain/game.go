package domain

// MoveKind tells what a successful move did to the game.
type MoveKind string

const (
	MovePlaced MoveKind = "placed"
	MoveWin    MoveKind = "win"
	MoveDraw   MoveKind = "draw"
)

// MoveResult describes an applied move.
type MoveResult struct {
	Kind   MoveKind
	Player Cell
	Row    int
	Column int
}

// ApplyMove drops the current player's piece into column.
//
// On error nothing about the board changes: ErrGameOver once the game has
// finished, ErrOutOfRange for a bad column and ErrColumnFull when the column
// has no room left.
func (b *Board) ApplyMove(column int) (MoveResult, error) {
	if b.IsTerminal() {
		return MoveResult{}, ErrGameOver
	}

	row, err := b.NextOpenRow(column)
	if err != nil {
		return MoveResult{}, err
	}

	player := b.turn
	b.grid[row][column] = player
	b.moves++

	result := MoveResult{Player: player, Row: row, Column: column}

	if b.winsAt(row, column, player) {
		b.status = StatusWon
		b.winner = player
		result.Kind = MoveWin
		return result, nil
	}

	if b.IsFull() {
		b.status = StatusDraw
		result.Kind = MoveDraw
		return result, nil
	}

	b.turn = player.Opponent()
	result.Kind = MovePlaced
	return result, nil
}
