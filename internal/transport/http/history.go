package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4/internal/domain"
	"github.com/iamasit07/connect4/pkg/uid"
	"go.uber.org/zap"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ResultStore is the read side of the results repository.
type ResultStore interface {
	Get(ctx context.Context, gameID string) (*domain.Result, error)
	Recent(ctx context.Context, limit int) ([]domain.Result, error)
}

type HistoryHandler struct {
	Results ResultStore // nil when no database is configured
	log     *zap.Logger
}

func NewHistoryHandler(results ResultStore, log *zap.Logger) *HistoryHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HistoryHandler{Results: results, log: log.With(zap.String("component", "history"))}
}

type resultResponse struct {
	GameID          string  `json:"gameId"`
	Result          string  `json:"result"` // "player_one", "player_two", "draw"
	TotalMoves      int     `json:"totalMoves"`
	DurationSeconds int     `json:"durationSeconds"`
	StartedAt       string  `json:"startedAt"`
	FinishedAt      string  `json:"finishedAt"`
	Board           [][]int `json:"board,omitempty"`
}

func toResponse(r domain.Result, withBoard bool) resultResponse {
	outcome := "draw"
	if r.Status == domain.StatusWon {
		outcome = r.Winner.String()
	}

	resp := resultResponse{
		GameID:          r.GameID,
		Result:          outcome,
		TotalMoves:      r.TotalMoves,
		DurationSeconds: r.DurationSeconds,
		StartedAt:       r.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:      r.FinishedAt.UTC().Format(time.RFC3339),
	}
	if withBoard {
		resp.Board = r.Board
	}
	return resp
}

// GetHistory lists the most recent finished games.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxLimit)
	}

	if h.Results == nil {
		c.JSON(http.StatusOK, []resultResponse{})
		return
	}

	results, err := h.Results.Recent(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("failed to fetch history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	history := make([]resultResponse, 0, len(results))
	for _, r := range results {
		history = append(history, toResponse(r, false))
	}
	c.JSON(http.StatusOK, history)
}

// GetGameDetails returns one finished game including its final board.
func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	gameID := c.Param("id")
	if !uid.IsGameID(gameID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game id"})
		return
	}

	if h.Results == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	result, err := h.Results.Get(c.Request.Context(), gameID)
	if err != nil {
		h.log.Error("failed to fetch game", zap.String("game_id", gameID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game"})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, toResponse(*result, true))
}
