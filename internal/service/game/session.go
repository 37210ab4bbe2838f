package game

import (
	"sync"
	"time"

	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/pkg/uid"
	"go.uber.org/zap"
)

const ErrSessionClosed domain.Error = "session is closed"

// GameSession owns one board at a time. All access goes through its mutex so
// moves from a front end are applied one after another.
type GameSession struct {
	ID string

	gameID       string
	createdAt    time.Time
	lastActivity time.Time
	board        *domain.Board

	done      chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex
	service   *Service
}

// State is a point-in-time copy of a session for renderers.
type State struct {
	SessionID string
	GameID    string
	Grid      [domain.Rows][domain.Columns]domain.Cell
	Turn      domain.Cell
	Status    domain.GameStatus
	Winner    domain.Cell
	Moves     int
}

func newGameSession(s *Service) *GameSession {
	now := time.Now()
	gs := &GameSession{
		ID:           uid.GenerateGameID(),
		gameID:       uid.GenerateGameID(),
		createdAt:    now,
		lastActivity: now,
		board:        domain.NewBoard(),
		done:         make(chan struct{}),
		service:      s,
	}

	s.log.Info("game started", zap.String("session_id", gs.ID), zap.String("game_id", gs.gameID))
	return gs
}

// Move applies a move for whoever's turn it is.
func (gs *GameSession) Move(column int) (domain.MoveResult, State, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.isClosed() {
		return domain.MoveResult{}, gs.stateLocked(), ErrSessionClosed
	}

	gs.lastActivity = time.Now()

	result, err := gs.board.ApplyMove(column)
	if err != nil {
		return result, gs.stateLocked(), err
	}

	if result.Kind != domain.MovePlaced {
		gs.finishLocked()
	}

	return result, gs.stateLocked(), nil
}

func (gs *GameSession) finishLocked() {
	finishedAt := time.Now()
	res, ok := domain.NewResult(gs.gameID, gs.board, gs.createdAt, finishedAt)
	if !ok {
		return
	}

	gs.service.log.Info("game finished",
		zap.String("game_id", gs.gameID),
		zap.String("status", string(res.Status)),
		zap.String("winner", res.Winner.String()),
		zap.Int("moves", res.TotalMoves),
	)
	gs.service.saveAsync(res)
}

// Restart throws the current board away and starts a new game. A game that
// was still in progress is not recorded.
func (gs *GameSession) Restart() (State, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.isClosed() {
		return gs.stateLocked(), ErrSessionClosed
	}

	now := time.Now()
	gs.gameID = uid.GenerateGameID()
	gs.createdAt = now
	gs.lastActivity = now
	gs.board = domain.NewBoard()

	gs.service.log.Info("game restarted", zap.String("session_id", gs.ID), zap.String("game_id", gs.gameID))
	return gs.stateLocked(), nil
}

func (gs *GameSession) Snapshot() State {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.stateLocked()
}

func (gs *GameSession) stateLocked() State {
	return State{
		SessionID: gs.ID,
		GameID:    gs.gameID,
		Grid:      gs.board.Grid(),
		Turn:      gs.board.Turn(),
		Status:    gs.board.Status(),
		Winner:    gs.board.Winner(),
		Moves:     gs.board.Moves(),
	}
}

func (gs *GameSession) LastActivity() time.Time {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.lastActivity
}

// Close ends the session; Done is closed and further moves fail.
func (gs *GameSession) Close() {
	gs.closeOnce.Do(func() {
		close(gs.done)
	})
}

func (gs *GameSession) Done() <-chan struct{} {
	return gs.done
}

func (gs *GameSession) isClosed() bool {
	select {
	case <-gs.done:
		return true
	default:
		return false
	}
}
