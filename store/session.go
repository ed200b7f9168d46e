package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/lazharichir/cardcounter/cards"
	"github.com/lazharichir/cardcounter/count"
)

// Keys under which the two records live.
const (
	SettingsKey = "cardCounterSettings"
	StateKey    = "cardCounterState"
)

var (
	// ErrNoState means nothing has been persisted yet. It is not a failure.
	ErrNoState = errors.New("no prior state")
	// ErrMalformedRecord means a record exists but cannot be used.
	ErrMalformedRecord = errors.New("malformed persisted record")
)

// Settings are the user-editable options.
type Settings struct {
	NumDecks     int         `json:"numDecks"`
	CustomValues count.Table `json:"customValues"`
}

// DefaultSettings is one deck counted with Hi-Lo.
func DefaultSettings() Settings {
	return Settings{NumDecks: 1, CustomValues: count.DefaultTable()}
}

// State is the persisted shoe: the remaining cards in order, bottom first.
type State struct {
	NumDecks     int          `json:"numDecks"`
	Cards        []cards.Card `json:"cards"`
	RunningCount int          `json:"runningCount"`
}

type settingsRecord struct {
	NumDecks     *int           `json:"numDecks"`
	CustomValues map[string]int `json:"customValues"`
}

type stateRecord struct {
	NumDecks     *int          `json:"numDecks"`
	Cards        *[]cards.Card `json:"cards"`
	RunningCount *int          `json:"runningCount"`
}

// SessionStore encodes settings and state records onto a KeyValue medium.
// It holds no game state of its own.
type SessionStore struct {
	kv KeyValue
}

// NewSessionStore creates a session store over kv.
func NewSessionStore(kv KeyValue) *SessionStore {
	return &SessionStore{kv: kv}
}

// LoadSettings always returns usable settings. When the record is missing
// the defaults come back with a nil error. When the record is corrupt or the
// medium fails, the defaults come back together with an error wrapping
// ErrMalformedRecord or ErrStorageUnavailable so the caller can report it.
func (s *SessionStore) LoadSettings(ctx context.Context) (Settings, error) {
	raw, found, err := s.kv.Get(ctx, SettingsKey)
	if err != nil {
		return DefaultSettings(), wrapStorage(err)
	}
	if !found {
		return DefaultSettings(), nil
	}

	var rec settingsRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return DefaultSettings(), fmt.Errorf("%w: settings: %v", ErrMalformedRecord, err)
	}

	settings := DefaultSettings()
	if rec.NumDecks != nil && *rec.NumDecks >= 1 {
		settings.NumDecks = *rec.NumDecks
	}
	if rec.CustomValues != nil {
		table := make(count.Table, len(rec.CustomValues))
		for label, v := range rec.CustomValues {
			rank, err := count.ParseRank(label)
			if err != nil {
				continue
			}
			table[rank] = v
		}
		settings.CustomValues = table
	}
	return settings, nil
}

// SaveSettings overwrites the settings record.
func (s *SessionStore) SaveSettings(ctx context.Context, settings Settings) error {
	if settings.NumDecks < 1 {
		return fmt.Errorf("numDecks must be at least 1, got %d", settings.NumDecks)
	}
	if settings.CustomValues == nil {
		settings.CustomValues = count.DefaultTable()
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return wrapStorage(s.kv.Set(ctx, SettingsKey, string(data)))
}

// LoadState returns the persisted shoe. It returns ErrNoState when nothing
// was saved, and an error wrapping ErrMalformedRecord when the record cannot
// describe a real shoe.
func (s *SessionStore) LoadState(ctx context.Context) (State, error) {
	raw, found, err := s.kv.Get(ctx, StateKey)
	if err != nil {
		return State{}, wrapStorage(err)
	}
	if !found {
		return State{}, ErrNoState
	}

	var rec stateRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return State{}, fmt.Errorf("%w: state: %v", ErrMalformedRecord, err)
	}
	if rec.NumDecks == nil || rec.Cards == nil || rec.RunningCount == nil {
		return State{}, fmt.Errorf("%w: state: missing field", ErrMalformedRecord)
	}

	state := State{
		NumDecks:     *rec.NumDecks,
		Cards:        *rec.Cards,
		RunningCount: *rec.RunningCount,
	}
	if err := validateState(state); err != nil {
		return State{}, fmt.Errorf("%w: state: %v", ErrMalformedRecord, err)
	}
	return state, nil
}

// SaveState overwrites the state record with the given shoe and count.
func (s *SessionStore) SaveState(ctx context.Context, numDecks int, remaining []cards.Card, runningCount int) error {
	if remaining == nil {
		remaining = []cards.Card{}
	}
	data, err := json.Marshal(State{
		NumDecks:     numDecks,
		Cards:        remaining,
		RunningCount: runningCount,
	})
	if err != nil {
		return err
	}
	return wrapStorage(s.kv.Set(ctx, StateKey, string(data)))
}

func validateState(state State) error {
	if state.NumDecks < 1 {
		return fmt.Errorf("numDecks %d is below 1", state.NumDecks)
	}
	if len(state.Cards) > cards.DeckSize*state.NumDecks {
		return fmt.Errorf("%d cards exceed %d decks", len(state.Cards), state.NumDecks)
	}

	seen := make(map[cards.Card]int, cards.DeckSize)
	for i, c := range state.Cards {
		if !c.Valid() {
			return fmt.Errorf("card %d (%q of %q) is not a playing card", i, c.Rank, c.Suit)
		}
		seen[c]++
		if seen[c] > state.NumDecks {
			return fmt.Errorf("%s appears more than %d times", c, state.NumDecks)
		}
	}
	return nil
}

func wrapStorage(err error) error {
	if err == nil || errors.Is(err, ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
