package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/internal/service/game"
	"go.uber.org/zap"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Handler serves one hot-seat game per WebSocket connection: the browser on
// the other end plays both sides.
type Handler struct {
	GameService    *game.Service
	SessionManager *game.SessionManager
	Upgrader       websocket.Upgrader
	log            *zap.Logger
}

// NewHandler creates a new WebSocket handler with dependencies
func NewHandler(gs *game.Service, sm *game.SessionManager, allowedOrigins []string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}

	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &Handler{
		GameService:    gs,
		SessionManager: sm,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: log.With(zap.String("component", "ws")),
	}
}

// Handle upgrades the request and runs the game loop for the connection.
func (h *Handler) Handle(c *gin.Context) {
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	h.handleConnection(conn)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(conn *websocket.Conn) {
	cl := newClient(conn)

	session := h.GameService.NewSession()
	h.SessionManager.Add(session)
	log := h.log.With(zap.String("session_id", session.ID))

	stop := make(chan struct{})
	defer func() {
		close(stop)
		h.SessionManager.Remove(session.ID)
		cl.close()
		log.Info("connection closed")
	}()

	// Set read deadline to detect stale connections
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Keep-alive pinger, also ends the connection once the session expires
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-session.Done():
				cl.send(ServerMessage{Type: MsgSessionExpired, Message: "Session expired after inactivity"})
				cl.close()
				return
			case <-ticker.C:
				if err := cl.ping(); err != nil {
					return
				}
			}
		}
	}()

	log.Info("connection opened")
	if err := cl.send(stateMessage(MsgState, session.Snapshot())); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Info("client disconnected unexpectedly", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug("invalid message format", zap.Error(err))
			cl.send(ServerMessage{Type: MsgError, Message: "Invalid message format"})
			continue
		}

		for _, reply := range h.processMessage(session, msg) {
			if err := cl.send(reply); err != nil {
				return
			}
		}
	}
}

// processMessage routes specific actions and returns the frames to send back.
func (h *Handler) processMessage(session *game.GameSession, msg ClientMessage) []ServerMessage {
	switch msg.Type {
	case MsgMove:
		if msg.Column == nil {
			reply := stateMessage(MsgError, session.Snapshot())
			reply.Message = "Missing column"
			return []ServerMessage{reply}
		}

		result, state, err := session.Move(*msg.Column)
		if err != nil {
			reply := stateMessage(MsgError, state)
			reply.Message = err.Error()
			return []ServerMessage{reply}
		}

		replies := []ServerMessage{moveMessage(result, state)}
		if result.Kind != domain.MovePlaced {
			replies = append(replies, stateMessage(MsgGameOver, state))
		}
		return replies

	case MsgRestart:
		state, err := session.Restart()
		if err != nil {
			return []ServerMessage{{Type: MsgError, Message: err.Error()}}
		}
		return []ServerMessage{stateMessage(MsgState, state)}

	case MsgState:
		return []ServerMessage{stateMessage(MsgState, session.Snapshot())}

	default:
		return []ServerMessage{{Type: MsgError, Message: "Unknown message type: " + msg.Type}}
	}
}
