package events

import (
	"time"

	"github.com/lazharichir/cardcounter/cards"
	"github.com/lazharichir/cardcounter/count"
)

type EventHandler func(event Event)

type Event interface {
	Name() string
}

type GameInitialized struct {
	Rehydrated   bool      `json:"rehydrated"`
	NumDecks     int       `json:"numDecks"`
	Remaining    int       `json:"remainingCards"`
	RunningCount int       `json:"runningCount"`
	At           time.Time `json:"at"`
}

func (e GameInitialized) Name() string { return "GAME_INITIALIZED" }

type CardDrawn struct {
	Card         cards.Card `json:"card"`
	Remaining    int        `json:"remainingCards"`
	RunningCount int        `json:"runningCount"`
	At           time.Time  `json:"at"`
}

func (e CardDrawn) Name() string { return "CARD_DRAWN" }

// ShoeExhausted is emitted when a draw is attempted on an empty shoe.
type ShoeExhausted struct {
	At time.Time `json:"at"`
}

func (e ShoeExhausted) Name() string { return "SHOE_EXHAUSTED" }

type ShoeReshuffled struct {
	NumDecks  int       `json:"numDecks"`
	Remaining int       `json:"remainingCards"`
	At        time.Time `json:"at"`
}

func (e ShoeReshuffled) Name() string { return "SHOE_RESHUFFLED" }

type SettingsReloaded struct {
	NumDecks     int         `json:"numDecks"`
	CustomValues count.Table `json:"customValues"`
	At           time.Time   `json:"at"`
}

func (e SettingsReloaded) Name() string { return "SETTINGS_RELOADED" }

// StorageDegraded means the game could not read or write its records and
// is carrying on in memory.
type StorageDegraded struct {
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

func (e StorageDegraded) Name() string { return "STORAGE_DEGRADED" }
