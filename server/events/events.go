package events

import (
	"log"

	"github.com/goccy/go-json"
	"github.com/sanity-io/litter"

	"github.com/lazharichir/cardcounter/events"
	"github.com/lazharichir/cardcounter/server/connection"
)

// EventEnvelope wraps an event with its name for client consumption
type EventEnvelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// Encode builds an envelope around payload and marshals it
func Encode(name string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(EventEnvelope{Name: name, Payload: data})
}

// Dispatcher handles routing events to clients
type Dispatcher struct {
	connMgr *connection.Manager
	debug   bool
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(connMgr *connection.Manager, debug bool) *Dispatcher {
	return &Dispatcher{
		connMgr: connMgr,
		debug:   debug,
	}
}

// HandleEvent sends a game event to every connected client. There is a
// single shoe per process so every client sees every event.
func (d *Dispatcher) HandleEvent(event events.Event) {
	envelopeData, err := Encode(event.Name(), event)
	if err != nil {
		log.Println("Failed to marshal event envelope:", err)
		return
	}

	if d.debug {
		log.Println("Dispatching event:", event.Name(), litter.Sdump(event))
	}

	if e, ok := event.(events.StorageDegraded); ok {
		log.Printf("Broadcasting storage notice: %s", e.Reason)
	}

	d.connMgr.Broadcast(envelopeData)
}
