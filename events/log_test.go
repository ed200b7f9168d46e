package events

import (
	"testing"

	"github.com/lazharichir/cardcounter/cards"
	"github.com/stretchr/testify/assert"
)

func TestLog(t *testing.T) {
	t.Run("unbounded", func(t *testing.T) {
		log := NewLog(0)
		for i := 0; i < 10; i++ {
			log.Append(CardDrawn{Remaining: i})
		}
		assert.Len(t, log.Events(), 10)
	})

	t.Run("bounded keeps the newest", func(t *testing.T) {
		log := NewLog(3)
		for i := 0; i < 5; i++ {
			log.Append(CardDrawn{Remaining: i})
		}

		got := log.Events()
		assert.Equal(t, []Event{
			CardDrawn{Remaining: 2},
			CardDrawn{Remaining: 3},
			CardDrawn{Remaining: 4},
		}, got)
	})

	t.Run("events is a copy", func(t *testing.T) {
		log := NewLog(0)
		log.Append(ShoeExhausted{})
		got := log.Events()
		got[0] = nil
		assert.Equal(t, ShoeExhausted{}, log.Events()[0])
	})

	t.Run("reset", func(t *testing.T) {
		log := NewLog(0)
		log.Append(ShoeExhausted{})
		log.Reset()
		assert.Empty(t, log.Events())
	})
}

func TestRecentDraws(t *testing.T) {
	recent := NewRecentDraws(3)
	ace := CardDrawn{Card: cards.Card{Suit: cards.Spades, Rank: cards.Ace}}
	two := CardDrawn{Card: cards.Card{Suit: cards.Hearts, Rank: cards.Two}}

	recent.HandleEvent(ace)
	recent.HandleEvent(StorageDegraded{Reason: "ignored"})
	recent.HandleEvent(two)
	assert.Equal(t, []Event{ace, two}, recent.Events())

	for i := 0; i < 4; i++ {
		recent.HandleEvent(two)
	}
	assert.Len(t, recent.Events(), 3)

	recent.HandleEvent(ShoeReshuffled{NumDecks: 1, Remaining: 52})
	assert.Empty(t, recent.Events())
}

func TestEventNames(t *testing.T) {
	names := map[string]Event{
		"GAME_INITIALIZED":  GameInitialized{},
		"CARD_DRAWN":        CardDrawn{},
		"SHOE_EXHAUSTED":    ShoeExhausted{},
		"SHOE_RESHUFFLED":   ShoeReshuffled{},
		"SETTINGS_RELOADED": SettingsReloaded{},
		"STORAGE_DEGRADED":  StorageDegraded{},
	}
	for name, e := range names {
		assert.Equal(t, name, e.Name())
	}
}
