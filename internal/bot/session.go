package bot

import (
	"sync"

	"twentyone/internal/game"
	"twentyone/internal/player"
)

// Session is one chat's running game: the table, the player's lifetime
// record and the latest snapshot pushed by the table's observer. All
// commands for a chat are serialized through the session mutex, which is
// the single control point the engine requires.
type Session struct {
	mu     sync.Mutex
	Table  *game.Table
	Player *player.Player
	Last   game.Snapshot
}

// Sessions keeps the per-chat sessions.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewSessions() *Sessions {
	return &Sessions{
		sessions: make(map[int64]*Session),
	}
}

func (s *Sessions) Get(chatID int64) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[chatID]
}

func (s *Sessions) Set(chatID int64, session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = session
}

func (s *Sessions) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
