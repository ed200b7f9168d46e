// Package count assigns per-rank values to cards and accumulates the
// running count as they leave the shoe.
package count

import (
	"errors"
	"fmt"

	"github.com/lazharichir/cardcounter/cards"
)

// ErrUnknownRank is returned when a rank label cannot be parsed.
var ErrUnknownRank = errors.New("unknown rank")

// Table maps a rank to its signed count value.
type Table map[cards.Rank]int

// DefaultTable returns a fresh copy of the Hi-Lo system: 2-6 count +1,
// 7-9 count 0, tens, faces and aces count -1.
func DefaultTable() Table {
	return Table{
		cards.Two: 1, cards.Three: 1, cards.Four: 1, cards.Five: 1, cards.Six: 1,
		cards.Seven: 0, cards.Eight: 0, cards.Nine: 0,
		cards.Ten: -1, cards.Jack: -1, cards.Queen: -1, cards.King: -1, cards.Ace: -1,
	}
}

// Clone returns an independent copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for r, v := range t {
		out[r] = v
	}
	return out
}

// Missing lists the ranks with no entry, in build order.
func (t Table) Missing() []cards.Rank {
	var missing []cards.Rank
	for _, r := range cards.Ranks {
		if _, ok := t[r]; !ok {
			missing = append(missing, r)
		}
	}
	return missing
}

// ValueOf returns the count value of rank, or 0 when the table has no entry.
// A nil table counts everything as 0.
func ValueOf(rank cards.Rank, table Table) int {
	return table[rank]
}

// Apply returns runningCount advanced by the value of card.
func Apply(card cards.Card, table Table, runningCount int) int {
	return runningCount + ValueOf(card.Rank, table)
}

// Sum returns the count of a sequence of cards starting from zero.
func Sum(seq []cards.Card, table Table) int {
	total := 0
	for _, c := range seq {
		total = Apply(c, table, total)
	}
	return total
}

// ParseRank validates a rank label such as "10" or "K".
func ParseRank(label string) (cards.Rank, error) {
	r := cards.Rank(label)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRank, label)
	}
	return r, nil
}
