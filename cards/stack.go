package cards

import "strings"

// Stack represents an ordered run of cards
type Stack []Card

// NewStack creates a new stack from the given cards
func NewStack(cards ...Card) Stack {
	return Stack(cards)
}

// Counts tallies how many times each card appears in the stack.
func (s Stack) Counts() map[Card]int {
	counts := make(map[Card]int, 52)
	for _, c := range s {
		counts[c]++
	}
	return counts
}

func (s Stack) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
