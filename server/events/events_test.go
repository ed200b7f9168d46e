package events_test

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazharichir/cardcounter/cards"
	"github.com/lazharichir/cardcounter/events"
	"github.com/lazharichir/cardcounter/server/connection"
	serverevents "github.com/lazharichir/cardcounter/server/events"
)

func TestEncode(t *testing.T) {
	data, err := serverevents.Encode("SNAPSHOT", map[string]int{"remainingCards": 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"SNAPSHOT","payload":{"remainingCards":3}}`, string(data))
}

func TestDispatcher_HandleEvent(t *testing.T) {
	connMgr := connection.NewManager()
	go connMgr.Start()
	defer connMgr.Stop()

	client := connection.NewClient("c1", nil)
	connMgr.Register <- client
	require.Eventually(t, func() bool { return connMgr.Count() == 1 }, time.Second, 5*time.Millisecond)

	d := serverevents.NewDispatcher(connMgr, true)
	d.HandleEvent(events.CardDrawn{
		Card:         cards.Card{Suit: cards.Spades, Rank: cards.Ace},
		Remaining:    51,
		RunningCount: -1,
	})

	var envelope serverevents.EventEnvelope
	require.NoError(t, json.Unmarshal(<-client.Send, &envelope))
	assert.Equal(t, "CARD_DRAWN", envelope.Name)

	var payload events.CardDrawn
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, cards.Card{Suit: cards.Spades, Rank: cards.Ace}, payload.Card)
	assert.Equal(t, 51, payload.Remaining)
	assert.Equal(t, -1, payload.RunningCount)

	d.HandleEvent(events.StorageDegraded{Reason: "disk full"})
	require.NoError(t, json.Unmarshal(<-client.Send, &envelope))
	assert.Equal(t, "STORAGE_DEGRADED", envelope.Name)
}
