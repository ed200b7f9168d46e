package events

import "sync"

// Log keeps the most recent events in memory, oldest first.
type Log struct {
	events []Event
	limit  int
	mutex  sync.RWMutex
}

// NewLog creates a log holding at most limit events. A limit of zero or
// less keeps everything.
func NewLog(limit int) *Log {
	return &Log{limit: limit}
}

// Append adds an event, evicting the oldest once the limit is reached.
func (l *Log) Append(event Event) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.events = append(l.events, event)
	if l.limit > 0 && len(l.events) > l.limit {
		l.events = l.events[len(l.events)-l.limit:]
	}
}

// Events returns a copy of the logged events.
func (l *Log) Events() []Event {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	result := make([]Event, len(l.events))
	copy(result, l.events)
	return result
}

// Reset forgets every logged event.
func (l *Log) Reset() {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.events = nil
}

// RecentDraws keeps the last few drawn cards for display, cleared on reshuffle.
type RecentDraws struct {
	log *Log
}

// NewRecentDraws creates a window over the last size draws.
func NewRecentDraws(size int) *RecentDraws {
	return &RecentDraws{log: NewLog(size)}
}

// HandleEvent is an EventHandler.
func (r *RecentDraws) HandleEvent(event Event) {
	switch event.(type) {
	case CardDrawn:
		r.log.Append(event)
	case ShoeReshuffled:
		r.log.Reset()
	}
}

// Events returns the visible draws, oldest first.
func (r *RecentDraws) Events() []Event {
	return r.log.Events()
}
