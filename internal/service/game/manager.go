package game

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionManager manages active game sessions
type SessionManager struct {
	sessions map[string]*GameSession // session ID → session
	mu       sync.RWMutex
	log      *zap.Logger
}

func NewSessionManager(log *zap.Logger) *SessionManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionManager{
		sessions: make(map[string]*GameSession),
		log:      log.With(zap.String("component", "session")),
	}
}

func (sm *SessionManager) Add(gs *GameSession) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[gs.ID] = gs
}

func (sm *SessionManager) Get(sessionID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	gs, ok := sm.sessions[sessionID]
	return gs, ok
}

// Remove closes the session and forgets it.
func (sm *SessionManager) Remove(sessionID string) {
	sm.mu.Lock()
	gs, ok := sm.sessions[sessionID]
	delete(sm.sessions, sessionID)
	sm.mu.Unlock()

	if ok {
		gs.Close()
	}
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// CleanupIdle closes sessions that have not seen a move or restart for
// longer than maxIdle and returns how many were removed.
func (sm *SessionManager) CleanupIdle(maxIdle time.Duration) int {
	now := time.Now()

	sm.mu.Lock()
	var stale []*GameSession
	for id, gs := range sm.sessions {
		if now.Sub(gs.LastActivity()) > maxIdle {
			stale = append(stale, gs)
			delete(sm.sessions, id)
		}
	}
	sm.mu.Unlock()

	for _, gs := range stale {
		gs.Close()
	}

	if len(stale) > 0 {
		sm.log.Info("removed idle sessions", zap.Int("count", len(stale)))
	}
	return len(stale)
}

// CloseAll closes every session, e.g. on shutdown, and returns how many
// there were.
func (sm *SessionManager) CloseAll() int {
	sm.mu.Lock()
	sessions := sm.sessions
	sm.sessions = make(map[string]*GameSession)
	sm.mu.Unlock()

	for _, gs := range sessions {
		gs.Close()
	}
	return len(sessions)
}
