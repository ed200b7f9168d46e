package cards

import (
	"errors"
	"math/rand/v2"
)

// DeckSize is the number of cards in one standard deck.
const DeckSize = 52

// ErrShoeEmpty is reported when a draw is attempted on an exhausted shoe.
var ErrShoeEmpty = errors.New("shoe is empty")

// Source picks a uniform index in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Shoe represents multiple decks of cards. The top of the shoe is the end
// of the stack so draws are O(1).
type Shoe struct {
	numDecks int
	cards    Stack
}

// NewShoe builds an unshuffled shoe of numDecks standard decks, suit-major
// and rank-minor. A count below one is treated as one.
func NewShoe(numDecks int) *Shoe {
	if numDecks < 1 {
		numDecks = 1
	}

	cards := make(Stack, 0, DeckSize*numDecks)
	for i := 0; i < numDecks; i++ {
		for _, suit := range Suits {
			for _, rank := range Ranks {
				cards = append(cards, Card{Suit: suit, Rank: rank})
			}
		}
	}

	return &Shoe{numDecks: numDecks, cards: cards}
}

// ShoeFromCards restores a shoe from a persisted card sequence, keeping its
// order exactly. The slice is copied.
func ShoeFromCards(numDecks int, cards []Card) *Shoe {
	restored := make(Stack, len(cards))
	copy(restored, cards)
	return &Shoe{numDecks: numDecks, cards: restored}
}

// Shuffle permutes the shoe in place with Fisher-Yates. A nil source uses
// the package-level generator.
func (s *Shoe) Shuffle(src Source) {
	if src == nil {
		src = globalSource{}
	}
	for i := len(s.cards) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes and returns the top card. ok is false when the shoe is empty,
// in which case the shoe is left untouched.
func (s *Shoe) Draw() (card Card, ok bool) {
	n := len(s.cards)
	if n == 0 {
		return Card{}, false
	}
	card = s.cards[n-1]
	s.cards = s.cards[:n-1]
	return card, true
}

// Remaining returns the number of cards left to draw
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// NumDecks returns how many decks the shoe was built from
func (s *Shoe) NumDecks() int {
	return s.numDecks
}

// Capacity returns the size of the shoe when freshly built
func (s *Shoe) Capacity() int {
	return DeckSize * s.numDecks
}

// Cards returns a copy of the remaining cards, bottom first.
func (s *Shoe) Cards() []Card {
	out := make([]Card, len(s.cards))
	copy(out, s.cards)
	return out
}
