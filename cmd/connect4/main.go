package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4/internal/config"
	"github.com/iamasit07/connect4/internal/logger"
	"github.com/iamasit07/connect4/internal/repository/postgres"
	"github.com/iamasit07/connect4/internal/repository/redis"
	"github.com/iamasit07/connect4/internal/service/cleanup"
	"github.com/iamasit07/connect4/internal/service/game"
	transportHttp "github.com/iamasit07/connect4/internal/transport/http"
	"github.com/iamasit07/connect4/internal/transport/terminal"
	"github.com/iamasit07/connect4/internal/transport/websocket"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const usage = `usage: connect4 [serve [-port PORT]]

With no arguments a two-player game is started in the terminal.
"serve" starts the WebSocket and HTTP API server instead.`

func main() {
	if err := godotenv.Load(); err != nil {
		// running from a subdirectory during development
		_ = godotenv.Load("../.env")
	}

	cfg, warnings := config.LoadConfig()

	args := os.Args[1:]
	var err error
	switch {
	case len(args) == 0:
		err = runTerminal(cfg, warnings)
	case args[0] == "serve":
		err = runServer(cfg, warnings, args[1:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "connect4:", err)
		os.Exit(1)
	}
}

func logWarnings(log *zap.Logger, warnings []string) {
	for _, w := range warnings {
		log.Warn("config", zap.String("warning", w))
	}
}

// runTerminal plays one hot-seat session on the local terminal. Logs go to a
// file so they do not draw over the board.
func runTerminal(cfg *config.Config, warnings []string) error {
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "connect4.log")
	if err != nil {
		return err
	}
	defer log.Sync()
	logWarnings(log, warnings)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := game.NewService(nil, log)
	session := svc.NewSession()
	defer session.Close()

	ui := terminal.New(screen, session, cfg.CellWidth, log)
	err = ui.Run(ctx)
	svc.Close()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runServer(cfg *config.Config, warnings []string, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	port := fs.String("port", cfg.Port, "port to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer log.Sync()
	logWarnings(log, warnings)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var recorders game.MultiRecorder

	// Results store (optional)
	var (
		results transportHttp.ResultStore
		pruner  cleanup.ResultPruner
	)
	if cfg.DatabaseURL != "" {
		db, err := connectDatabase(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := postgres.NewResultRepo(db)
		results, pruner = repo, repo
		recorders = append(recorders, repo)
	} else {
		log.Info("DATABASE_URL not set, game results will not be stored")
	}

	// Scoreboard (optional, failures only disable it)
	var scores transportHttp.ScoreStore
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			log.Warn("scoreboard disabled", zap.Error(err))
		} else {
			defer client.Close()
			scoreboard := redis.NewScoreboard(client)
			scores = scoreboard
			recorders = append(recorders, scoreboard)
			log.Info("connected to redis", zap.String("addr", cfg.RedisURL))
		}
	}

	gameService := game.NewService(recorders, log)
	sessionManager := game.NewSessionManager(log)

	worker := cleanup.NewWorker(sessionManager, pruner, cfg.SessionIdleTimeout, cfg.ResultRetentionDays, cfg.CleanupInterval, log)
	go worker.Run(ctx)

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	wsHandler := websocket.NewHandler(gameService, sessionManager, cfg.AllowedOrigins, log)
	router := transportHttp.NewRouter(transportHttp.RouterDeps{
		History:        transportHttp.NewHistoryHandler(results, log),
		Watch:          transportHttp.NewWatchHandler(scores, sessionManager, log),
		WebSocket:      wsHandler.Handle,
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            log,
	})

	srv := &http.Server{
		Addr:    ":" + *port,
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", *port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info("server is shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	// hijacked websocket connections outlive Shutdown: end their games, then
	// let in-flight result writes finish before the stores close
	if n := sessionManager.CloseAll(); n > 0 {
		log.Info("closed live sessions", zap.Int("count", n))
	}
	gameService.Close()
	log.Info("server exited gracefully")
	return nil
}

func connectDatabase(ctx context.Context, cfg *config.Config, log *zap.Logger) (*sql.DB, error) {
	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
	if err != nil {
		return nil, err
	}

	log.Info("running database migrations")
	if err := postgres.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	log.Info("database migration completed")
	return db, nil
}
