package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/lazharichir/cardcounter/cards"
	"github.com/lazharichir/cardcounter/game"
	"github.com/lazharichir/cardcounter/store"
)

const saveTimeout = 5 * time.Second

// Session serializes access to the single game so REST and websocket
// clients can share it.
type Session struct {
	mu       sync.Mutex
	game     *game.GameState
	sessions *store.SessionStore
}

// NewSession wraps an initialized game
func NewSession(g *game.GameState, sessions *store.SessionStore) *Session {
	return &Session{game: g, sessions: sessions}
}

// Draw draws one card. It returns cards.ErrShoeEmpty when nothing is left.
func (s *Session) Draw(ctx context.Context) (cards.Card, game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.game.DrawCard(ctx)
	if !ok {
		return cards.Card{}, s.game.Snapshot(), cards.ErrShoeEmpty
	}
	return card, s.game.Snapshot(), nil
}

// Reshuffle starts a fresh shoe
func (s *Session) Reshuffle(ctx context.Context) game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.game.Reshuffle(ctx)
	return s.game.Snapshot()
}

// ReloadSettings re-reads the persisted settings into the game
func (s *Session) ReloadSettings(ctx context.Context) game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.game.ReloadSettings(ctx)
	return s.game.Snapshot()
}

// UpdateSettings persists new settings and reloads them. The save is not
// abandoned when ctx is cancelled.
func (s *Session) UpdateSettings(ctx context.Context, settings store.Settings) (game.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	if err := s.sessions.SaveSettings(saveCtx, settings); err != nil {
		return s.game.Snapshot(), err
	}
	s.game.ReloadSettings(ctx)
	return s.game.Snapshot(), nil
}

// Settings returns the settings the game is running with
func (s *Session) Settings() store.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return store.Settings{NumDecks: s.game.NumDecks(), CustomValues: s.game.Table()}
}

// Snapshot returns the current counts
func (s *Session) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.game.Snapshot()
}
