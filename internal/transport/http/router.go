package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4/internal/transport/http/middleware"
	"go.uber.org/zap"
)

type RouterDeps struct {
	History        *HistoryHandler
	Watch          *WatchHandler
	WebSocket      gin.HandlerFunc
	AllowedOrigins []string
	Log            *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.ZapLogger(log), gin.Recovery())

	router.GET("/healthz", deps.Watch.Health)

	// WebSocket route checks the origin itself during the upgrade
	router.GET("/ws", deps.WebSocket)

	api := router.Group("/api")
	api.Use(middleware.CORSMiddleware(deps.AllowedOrigins, log))
	{
		api.GET("/results", deps.History.GetHistory)
		api.GET("/results/:id", deps.History.GetGameDetails)
		api.GET("/scoreboard", deps.Watch.GetScoreboard)

		// preflight requests are answered by the CORS middleware
		api.OPTIONS("/*path", func(c *gin.Context) {})
	}

	return router
}
