package handlers

import (
	"errors"
	"fmt"

	"github.com/lazharichir/cardcounter/count"
	"github.com/lazharichir/cardcounter/store"
)

type Command interface {
	Name() string
}

type DrawCard struct{}

func (c DrawCard) Name() string { return "DRAW_CARD" }

type Reshuffle struct{}

func (c Reshuffle) Name() string { return "RESHUFFLE" }

type ReloadSettings struct{}

func (c ReloadSettings) Name() string { return "RELOAD_SETTINGS" }

type GetSnapshot struct{}

func (c GetSnapshot) Name() string { return "GET_SNAPSHOT" }

type UpdateSettings struct {
	NumDecks     int            `json:"numDecks" binding:"required,min=1"`
	CustomValues map[string]int `json:"customValues"`
}

func (c UpdateSettings) Name() string { return "UPDATE_SETTINGS" }

// ToSettings validates the command. A missing value table means Hi-Lo.
func (c UpdateSettings) ToSettings() (store.Settings, error) {
	if c.NumDecks < 1 {
		return store.Settings{}, errors.New("numDecks must be at least 1")
	}
	if c.CustomValues == nil {
		return store.Settings{NumDecks: c.NumDecks, CustomValues: count.DefaultTable()}, nil
	}

	table := make(count.Table, len(c.CustomValues))
	for label, v := range c.CustomValues {
		rank, err := count.ParseRank(label)
		if err != nil {
			return store.Settings{}, fmt.Errorf("customValues: %w", err)
		}
		table[rank] = v
	}
	return store.Settings{NumDecks: c.NumDecks, CustomValues: table}, nil
}
