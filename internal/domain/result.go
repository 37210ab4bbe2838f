package domain

import "time"

// Result is the record of a finished game.
type Result struct {
	GameID          string     `json:"gameId"`
	Status          GameStatus `json:"status"`
	Winner          Cell       `json:"winner"`
	TotalMoves      int        `json:"totalMoves"`
	DurationSeconds int        `json:"durationSeconds"`
	StartedAt       time.Time  `json:"startedAt"`
	FinishedAt      time.Time  `json:"finishedAt"`
	Board           [][]int    `json:"board"`
}

// NewResult captures a finished board. It returns false while the game is
// still in progress.
func NewResult(gameID string, b *Board, startedAt, finishedAt time.Time) (Result, bool) {
	if !b.IsTerminal() {
		return Result{}, false
	}

	return Result{
		GameID:          gameID,
		Status:          b.Status(),
		Winner:          b.Winner(),
		TotalMoves:      b.Moves(),
		DurationSeconds: int(finishedAt.Sub(startedAt).Seconds()),
		StartedAt:       startedAt,
		FinishedAt:      finishedAt,
		Board:           IntGrid(b.Grid()),
	}, true
}
