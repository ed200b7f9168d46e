package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lazharichir/cardcounter/config"
	"github.com/lazharichir/cardcounter/events"
	"github.com/lazharichir/cardcounter/game"
	"github.com/lazharichir/cardcounter/server"
	"github.com/lazharichir/cardcounter/server/handlers"
	"github.com/lazharichir/cardcounter/store"
)

// recentDrawsShown is how many drawn cards stay visible to clients
const recentDrawsShown = 3

func main() {
	fmt.Println("Starting Card Counter Backend...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeKV, storeErr := openStoreOrMemory(ctx, cfg)
	defer closeKV()

	sessions := store.NewSessionStore(kv)
	recent := events.NewRecentDraws(recentDrawsShown)

	g := game.New(sessions, game.WithDebug(cfg.Debug), game.WithStorageNotice(storeErr))
	g.AddEventHandler(recent.HandleEvent)

	s := server.NewServer(handlers.NewSession(g, sessions), recent, cfg.Debug)
	g.AddEventHandler(s.HandleEvent)

	g.Init(ctx)
	snap := g.Snapshot()
	log.Printf("Shoe ready: %d cards left, running count %d", snap.RemainingCards, snap.RunningCount)

	if err := s.Start(ctx, cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// openStoreOrMemory opens the configured backend. When it cannot be opened
// play goes on in memory and the returned error says why.
func openStoreOrMemory(ctx context.Context, cfg config.Config) (store.KeyValue, func(), error) {
	kv, closeKV, err := openStore(ctx, cfg)
	if err == nil {
		return kv, closeKV, nil
	}
	log.Printf("Could not open %s store, progress will not be saved: %v", cfg.Backend, err)
	return store.NewInMemoryStore(), func() {}, err
}

// openStore builds the key-value backend named in the config
func openStore(ctx context.Context, cfg config.Config) (store.KeyValue, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case config.BackendMemory:
		log.Println("Using in-memory store, nothing survives a restart")
		return store.NewInMemoryStore(), noop, nil

	case config.BackendNATS:
		kv, err := store.NewNATSStore(ctx, cfg.NATSURL, cfg.NATSBucket)
		if err != nil {
			return nil, noop, err
		}
		log.Printf("Using NATS bucket %s at %s", cfg.NATSBucket, cfg.NATSURL)
		return kv, closer(kv), nil

	case config.BackendPostgres:
		kv, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		log.Println("Using Postgres store")
		return kv, closer(kv), nil

	default:
		kv, err := store.NewFileStore(cfg.StorePath)
		if err != nil {
			return nil, noop, err
		}
		log.Printf("Using file store at %s", kv.Path())
		return kv, noop, nil
	}
}

func closer(c interface{ Close() error }) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Printf("Error closing store: %v", err)
		}
	}
}
