package game

import (
	"context"
	"sync"
	"time"

	"github.com/iamasit07/connect4/internal/domain"
	"go.uber.org/zap"
)

const saveTimeout = 10 * time.Second

// Service is the entry point for game logic (facade). It hands out sessions
// and records finished games in the background.
type Service struct {
	recorder Recorder
	log      *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewService(recorder Recorder, log *zap.Logger) *Service {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		recorder: recorder,
		log:      log.With(zap.String("component", "game")),
	}
}

// NewSession starts a fresh game.
func (s *Service) NewSession() *GameSession {
	return newGameSession(s)
}

// saves the result in background so the player never waits on storage
func (s *Service) saveAsync(result domain.Result) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.log.Warn("service closed, result not recorded", zap.String("game_id", result.GameID))
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		if err := s.recorder.Record(ctx, result); err != nil {
			s.log.Error("failed to record result", zap.String("game_id", result.GameID), zap.Error(err))
			return
		}
		s.log.Debug("result recorded", zap.String("game_id", result.GameID))
	}()
}

// Wait blocks until every pending result has been handed to the recorder.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Close stops new result writes and waits for the pending ones. Games that
// finish afterwards are logged and dropped, so the stores can be closed once
// Close returns.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.wg.Wait()
}
