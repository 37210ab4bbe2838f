package domain

// Cell is the content of one board position.
type Cell int

const (
	Empty     Cell = 0
	PlayerOne Cell = 1
	PlayerTwo Cell = 2
)

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
	Cells   = Rows * Columns
)

func (c Cell) String() string {
	switch c {
	case PlayerOne:
		return "player_one"
	case PlayerTwo:
		return "player_two"
	default:
		return "empty"
	}
}

// Number is the 1-based player number shown to users, 0 for Empty.
func (c Cell) Number() int {
	return int(c)
}

// Opponent returns the other player. Empty has no opponent.
func (c Cell) Opponent() Cell {
	switch c {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	default:
		return Empty
	}
}

// GameStatus is where a game is in its lifecycle.
type GameStatus string

const (
	StatusInProgress GameStatus = "in_progress"
	StatusWon        GameStatus = "won"
	StatusDraw       GameStatus = "draw"
)

// IsTerminal reports whether no further moves are accepted.
func (s GameStatus) IsTerminal() bool {
	return s == StatusWon || s == StatusDraw
}

// Error is a constant error value, so callers can match it with errors.Is.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrOutOfRange Error = "column out of range"
	ErrColumnFull Error = "column is full"
	ErrGameOver   Error = "game is over"
)
