package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4/internal/repository/redis"
	"go.uber.org/zap"
)

// ScoreStore is the read side of the scoreboard.
type ScoreStore interface {
	Totals(ctx context.Context) (redis.Totals, error)
	LastGame(ctx context.Context) (string, error)
}

// SessionCounter reports how many games are being played right now.
type SessionCounter interface {
	Count() int
}

type WatchHandler struct {
	Scores   ScoreStore // nil when no redis is configured
	Sessions SessionCounter
	log      *zap.Logger
}

func NewWatchHandler(scores ScoreStore, sessions SessionCounter, log *zap.Logger) *WatchHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WatchHandler{Scores: scores, Sessions: sessions, log: log.With(zap.String("component", "watch"))}
}

type scoreboardResponse struct {
	redis.Totals
	LastGameID  string `json:"lastGameId,omitempty"`
	ActiveGames int    `json:"activeGames"`
	Enabled     bool   `json:"enabled"`
}

// GetScoreboard returns all-time tallies and the number of live games.
func (h *WatchHandler) GetScoreboard(c *gin.Context) {
	resp := scoreboardResponse{}
	if h.Sessions != nil {
		resp.ActiveGames = h.Sessions.Count()
	}

	if h.Scores == nil {
		c.JSON(http.StatusOK, resp)
		return
	}

	ctx := c.Request.Context()
	totals, err := h.Scores.Totals(ctx)
	if err != nil {
		h.log.Error("failed to read scoreboard", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scoreboard unavailable"})
		return
	}

	last, err := h.Scores.LastGame(ctx)
	if err != nil {
		h.log.Warn("failed to read last game", zap.Error(err))
	}

	resp.Totals = totals
	resp.LastGameID = last
	resp.Enabled = true
	c.JSON(http.StatusOK, resp)
}

func (h *WatchHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
