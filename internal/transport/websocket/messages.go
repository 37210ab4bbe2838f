package websocket

import (
	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/service/game"
)

// client → server
const (
	MsgMove    = "move"
	MsgRestart = "restart"
	MsgState   = "state"
)

// server → client
const (
	MsgMoveMade       = "move_made"
	MsgGameOver       = "game_over"
	MsgError          = "error"
	MsgSessionExpired = "session_expired"
)

// ClientMessage is a frame from the browser. Column is nil when the frame
// has no "column" field, which is only valid for restart and state.
type ClientMessage struct {
	Type   string `json:"type"`
	Column *int   `json:"column,omitempty"`
}

type MovePayload struct {
	Kind   string `json:"kind"`
	Player int    `json:"player"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
}

type ServerMessage struct {
	Type        string       `json:"type"`
	Message     string       `json:"message,omitempty"`
	SessionID   string       `json:"sessionId,omitempty"`
	GameID      string       `json:"gameId,omitempty"`
	Board       [][]int      `json:"board,omitempty"`
	CurrentTurn int          `json:"currentTurn,omitempty"`
	Status      string       `json:"status,omitempty"`
	Winner      int          `json:"winner,omitempty"`
	Moves       int          `json:"moves"`
	Move        *MovePayload `json:"move,omitempty"`
}

// stateMessage fills the board part of a frame. Board rows are bottom first.
func stateMessage(msgType string, state game.State) ServerMessage {
	return ServerMessage{
		Type:        msgType,
		SessionID:   state.SessionID,
		GameID:      state.GameID,
		Board:       domain.IntGrid(state.Grid),
		CurrentTurn: state.Turn.Number(),
		Status:      string(state.Status),
		Winner:      state.Winner.Number(),
		Moves:       state.Moves,
	}
}

func moveMessage(result domain.MoveResult, state game.State) ServerMessage {
	msg := stateMessage(MsgMoveMade, state)
	msg.Move = &MovePayload{
		Kind:   string(result.Kind),
		Player: result.Player.Number(),
		Row:    result.Row,
		Column: result.Column,
	}
	return msg
}
