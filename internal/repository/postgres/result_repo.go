package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iamasit07/connect4/internal/domain"
)

type ResultRepo struct {
	DB *sql.DB
}

func NewResultRepo(db *sql.DB) *ResultRepo {
	return &ResultRepo{DB: db}
}

// Record saves a finished game. Recording the same game twice keeps the
// latest values.
func (r *ResultRepo) Record(ctx context.Context, result domain.Result) error {
	boardJSON, err := json.Marshal(result.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %w", err)
	}

	query := `
	INSERT INTO game_result (game_id, status, winner, total_moves, duration_seconds, started_at, finished_at, board_state)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (game_id) DO UPDATE SET
		status = EXCLUDED.status,
		winner = EXCLUDED.winner,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		finished_at = EXCLUDED.finished_at,
		board_state = EXCLUDED.board_state;
	`

	_, err = r.DB.ExecContext(ctx, query,
		result.GameID,
		string(result.Status),
		int(result.Winner),
		result.TotalMoves,
		result.DurationSeconds,
		result.StartedAt,
		result.FinishedAt,
		boardJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game result: %w", err)
	}
	return nil
}

const selectResult = `
	SELECT game_id, status, winner, total_moves, duration_seconds, started_at, finished_at, board_state
	FROM game_result
	`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (domain.Result, error) {
	var (
		result    domain.Result
		status    string
		winner    int
		boardJSON []byte
	)

	err := row.Scan(
		&result.GameID,
		&status,
		&winner,
		&result.TotalMoves,
		&result.DurationSeconds,
		&result.StartedAt,
		&result.FinishedAt,
		&boardJSON,
	)
	if err != nil {
		return domain.Result{}, err
	}

	result.Status = domain.GameStatus(status)
	result.Winner = domain.Cell(winner)

	if boardJSON != nil {
		if err := json.Unmarshal(boardJSON, &result.Board); err != nil {
			return domain.Result{}, fmt.Errorf("failed to unmarshal board state: %w", err)
		}
	}
	return result, nil
}

// Get returns a single result, or nil when the game is unknown.
func (r *ResultRepo) Get(ctx context.Context, gameID string) (*domain.Result, error) {
	row := r.DB.QueryRowContext(ctx, selectResult+`WHERE game_id = $1;`, gameID)

	result, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game result: %w", err)
	}
	return &result, nil
}

// Recent returns the latest finished games, newest first.
func (r *ResultRepo) Recent(ctx context.Context, limit int) ([]domain.Result, error) {
	rows, err := r.DB.QueryContext(ctx, selectResult+`ORDER BY finished_at DESC LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game results: %w", err)
	}
	defer rows.Close()

	results := []domain.Result{}
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game results: %w", err)
	}
	return results, nil
}

// DeleteOlderThan removes results that finished more than days ago.
func (r *ResultRepo) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM game_result WHERE finished_at < NOW() - make_interval(days => $1);`, days)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old game results: %w", err)
	}
	return res.RowsAffected()
}
