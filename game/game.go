package game

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sanity-io/litter"

	"github.com/lazharichir/cardcounter/cards"
	"github.com/lazharichir/cardcounter/count"
	"github.com/lazharichir/cardcounter/events"
	"github.com/lazharichir/cardcounter/store"
)

// Status is the lifecycle stage of a GameState
type Status string

const (
	StatusUninitialized Status = "uninitialized"
	StatusReady         Status = "ready"
)

// Snapshot is the view handed to the presentation layer. It never
// exposes the cards still in the shoe.
type Snapshot struct {
	RemainingCards int    `json:"remainingCards"`
	RunningCount   int    `json:"runningCount"`
	NumDecks       int    `json:"numDecks"`
	StorageNotice  string `json:"storageNotice,omitempty"`
}

// GameState owns the shoe and the running count, and persists both after
// every change. It is not safe for concurrent use.
type GameState struct {
	sessions *store.SessionStore
	rng      cards.Source
	debug    bool

	status       Status
	numDecks     int
	table        count.Table
	shoe         *cards.Shoe
	runningCount int
	notice       string
	fallback     string

	history       *events.Log
	eventHandlers []events.EventHandler
}

// historySize bounds the in-memory event log.
const historySize = 256

// storeTimeout bounds every read or write of the session records.
const storeTimeout = 5 * time.Second

const noticePrefix = "progress is not being saved: "

// Option configures a GameState
type Option func(*GameState)

// WithSource sets the random source used for shuffling.
func WithSource(src cards.Source) Option {
	return func(g *GameState) { g.rng = src }
}

// WithStorageNotice marks the game as running on a stand-in medium because
// the configured one could not be opened. The notice stays up for the life
// of the game.
func WithStorageNotice(err error) Option {
	return func(g *GameState) {
		if err != nil {
			g.fallback = err.Error()
		}
	}
}

// WithDebug dumps loaded records and emitted events to the log.
func WithDebug(debug bool) Option {
	return func(g *GameState) { g.debug = debug }
}

// New creates an uninitialized game backed by sessions. Call Init before use.
func New(sessions *store.SessionStore, opts ...Option) *GameState {
	g := &GameState{
		sessions: sessions,
		status:   StatusUninitialized,
		numDecks: 1,
		table:    count.DefaultTable(),
		history:  events.NewLog(historySize),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Init loads settings, then either restores the persisted shoe exactly as it
// was or builds and shuffles a fresh one. A fresh shoe is saved at once.
func (g *GameState) Init(ctx context.Context) {
	if g.fallback != "" && g.status == StatusUninitialized {
		log.Printf("Storage unavailable, continuing in memory: %s", g.fallback)
		g.emitEvent(events.StorageDegraded{Reason: g.fallback, At: time.Now()})
	}

	g.applySettings(g.loadSettings(ctx))

	storeCtx, cancel := detach(ctx)
	state, err := g.sessions.LoadState(storeCtx)
	cancel()
	switch {
	case err == nil:
		if g.debug {
			log.Println("Restoring state:", litter.Sdump(state))
		}
		g.shoe = cards.ShoeFromCards(state.NumDecks, state.Cards)
		g.runningCount = state.RunningCount
		g.status = StatusReady
		g.emitEvent(events.GameInitialized{
			Rehydrated:   true,
			NumDecks:     g.shoe.NumDecks(),
			Remaining:    g.shoe.Remaining(),
			RunningCount: g.runningCount,
			At:           time.Now(),
		})
		return

	case errors.Is(err, store.ErrNoState):
		// first run

	case errors.Is(err, store.ErrMalformedRecord):
		log.Printf("Discarding saved shoe: %v", err)

	default:
		g.degrade(err)
	}

	g.freshShoe()
	g.status = StatusReady
	g.persist(ctx)

	g.emitEvent(events.GameInitialized{
		NumDecks:     g.shoe.NumDecks(),
		Remaining:    g.shoe.Remaining(),
		RunningCount: g.runningCount,
		At:           time.Now(),
	})
}

// DrawCard takes the top card from the shoe, adds its value to the running
// count and saves. ok is false when the shoe is empty; nothing changes then.
func (g *GameState) DrawCard(ctx context.Context) (card cards.Card, ok bool) {
	if g.status != StatusReady {
		return cards.Card{}, false
	}

	card, ok = g.shoe.Draw()
	if !ok {
		g.emitEvent(events.ShoeExhausted{At: time.Now()})
		return cards.Card{}, false
	}

	g.runningCount = count.Apply(card, g.table, g.runningCount)
	g.persist(ctx)

	g.emitEvent(events.CardDrawn{
		Card:         card,
		Remaining:    g.shoe.Remaining(),
		RunningCount: g.runningCount,
		At:           time.Now(),
	})
	return card, true
}

// Reshuffle throws the current shoe away and starts over with a freshly
// shuffled one sized by the configured deck count. The count goes back to 0.
func (g *GameState) Reshuffle(ctx context.Context) {
	if g.status != StatusReady {
		g.Init(ctx)
	}

	g.freshShoe()
	g.persist(ctx)

	g.emitEvent(events.ShoeReshuffled{
		NumDecks:  g.shoe.NumDecks(),
		Remaining: g.shoe.Remaining(),
		At:        time.Now(),
	})
}

// ReloadSettings re-reads the settings record. The new count values apply
// to the next draw. A new deck count applies from the next reshuffle.
func (g *GameState) ReloadSettings(ctx context.Context) {
	storeCtx, cancel := detach(ctx)
	settings, err := g.sessions.LoadSettings(storeCtx)
	cancel()
	if errors.Is(err, store.ErrStorageUnavailable) {
		g.degrade(err)
		return
	}
	if err != nil {
		log.Printf("Settings record unusable, using defaults: %v", err)
	}

	g.applySettings(settings)
	g.emitEvent(events.SettingsReloaded{
		NumDecks:     g.numDecks,
		CustomValues: g.table.Clone(),
		At:           time.Now(),
	})
}

// Snapshot returns the remaining card count and the running count.
func (g *GameState) Snapshot() Snapshot {
	snap := Snapshot{
		RunningCount:  g.runningCount,
		NumDecks:      g.numDecks,
		StorageNotice: g.StorageNotice(),
	}
	if g.shoe != nil {
		snap.RemainingCards = g.shoe.Remaining()
	}
	return snap
}

// Status returns the lifecycle stage
func (g *GameState) Status() Status {
	return g.status
}

// NumDecks returns the configured deck count used by the next reshuffle
func (g *GameState) NumDecks() int {
	return g.numDecks
}

// Table returns a copy of the active count values
func (g *GameState) Table() count.Table {
	return g.table.Clone()
}

// StorageNotice is empty while saving works, otherwise it says why
// progress is not being persisted.
func (g *GameState) StorageNotice() string {
	if g.notice != "" {
		return g.notice
	}
	if g.fallback != "" {
		return noticePrefix + g.fallback
	}
	return ""
}

// History returns the most recent emitted events, oldest first
func (g *GameState) History() []events.Event {
	return g.history.Events()
}

// AddEventHandler registers a handler called for every emitted event
func (g *GameState) AddEventHandler(handler events.EventHandler) {
	g.eventHandlers = append(g.eventHandlers, handler)
}

func (g *GameState) loadSettings(ctx context.Context) store.Settings {
	storeCtx, cancel := detach(ctx)
	defer cancel()

	settings, err := g.sessions.LoadSettings(storeCtx)
	if errors.Is(err, store.ErrStorageUnavailable) {
		g.degrade(err)
	} else if err != nil {
		log.Printf("Settings record unusable, using defaults: %v", err)
	}
	if g.debug {
		log.Println("Loaded settings:", litter.Sdump(settings))
	}
	return settings
}

func (g *GameState) applySettings(settings store.Settings) {
	g.numDecks = settings.NumDecks
	g.table = settings.CustomValues.Clone()
}

func (g *GameState) freshShoe() {
	g.shoe = cards.NewShoe(g.numDecks)
	g.shoe.Shuffle(g.rng)
	g.runningCount = 0
}

func (g *GameState) persist(ctx context.Context) {
	storeCtx, cancel := detach(ctx)
	defer cancel()

	err := g.sessions.SaveState(storeCtx, g.shoe.NumDecks(), g.shoe.Cards(), g.runningCount)
	if err != nil {
		g.degrade(err)
		return
	}
	g.notice = ""
}

// detach keeps the caller's values but not its cancellation: a draw that
// has been applied in memory is always saved, even if the caller went away.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
}

// degrade records a storage failure; play continues in memory.
func (g *GameState) degrade(err error) {
	log.Printf("Storage unavailable, continuing in memory: %v", err)

	first := g.notice == ""
	g.notice = noticePrefix + err.Error()
	if first {
		g.emitEvent(events.StorageDegraded{Reason: err.Error(), At: time.Now()})
	}
}

// emitEvent notifies all registered handlers of a new event
func (g *GameState) emitEvent(event events.Event) {
	if g.debug {
		log.Println("Emitting event:", event.Name(), litter.Sdump(event))
	}

	g.history.Append(event)

	for _, handler := range g.eventHandlers {
		handler(event)
	}
}
