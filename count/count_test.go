package count

import (
	"testing"

	"github.com/lazharichir/cardcounter/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	require.Len(t, table, 13)
	assert.Empty(t, table.Missing())

	tests := []struct {
		rank cards.Rank
		want int
	}{
		{cards.Two, 1}, {cards.Three, 1}, {cards.Four, 1}, {cards.Five, 1}, {cards.Six, 1},
		{cards.Seven, 0}, {cards.Eight, 0}, {cards.Nine, 0},
		{cards.Ten, -1}, {cards.Jack, -1}, {cards.Queen, -1}, {cards.King, -1}, {cards.Ace, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValueOf(tt.rank, table), "rank %s", tt.rank)
	}

	// a balanced system sums to zero over a full deck
	assert.Equal(t, 0, Sum(cards.NewShoe(1).Cards(), table))
}

func TestDefaultTable_IsACopy(t *testing.T) {
	table := DefaultTable()
	table[cards.Two] = 42

	assert.Equal(t, 1, DefaultTable()[cards.Two])
}

func TestValueOf_UnknownRank(t *testing.T) {
	table := Table{cards.Two: 1}

	assert.Equal(t, 0, ValueOf(cards.King, table))
	assert.Equal(t, 0, ValueOf("Z", table))
	assert.Equal(t, 0, ValueOf(cards.Two, nil))
	assert.Equal(t, []cards.Rank{
		cards.Three, cards.Four, cards.Five, cards.Six, cards.Seven, cards.Eight,
		cards.Nine, cards.Ten, cards.Jack, cards.Queen, cards.King, cards.Ace,
	}, table.Missing())
}

func TestApply(t *testing.T) {
	table := DefaultTable()

	rc := 0
	rc = Apply(cards.Card{Suit: cards.Hearts, Rank: cards.Two}, table, rc)
	assert.Equal(t, 1, rc)
	rc = Apply(cards.Card{Suit: cards.Spades, Rank: cards.King}, table, rc)
	assert.Equal(t, 0, rc)
	rc = Apply(cards.Card{Suit: cards.Clubs, Rank: cards.Seven}, table, rc)
	assert.Equal(t, 0, rc)

	assert.Equal(t, 4, Apply(cards.Card{Suit: cards.Clubs, Rank: cards.Ace}, table, 5), "apply starts from the given count")
}

func TestSum_CustomTable(t *testing.T) {
	table := Table{cards.Five: 2, cards.Ace: -2}
	seq := []cards.Card{
		{Suit: cards.Hearts, Rank: cards.Five},
		{Suit: cards.Hearts, Rank: cards.Nine},
		{Suit: cards.Hearts, Rank: cards.Five},
		{Suit: cards.Hearts, Rank: cards.Ace},
	}

	assert.Equal(t, 2, Sum(seq, table))
}

func TestTable_Clone(t *testing.T) {
	table := DefaultTable()
	clone := table.Clone()
	clone[cards.Ace] = 5

	assert.Equal(t, -1, table[cards.Ace])
	assert.Equal(t, 5, clone[cards.Ace])
}

func TestParseRank(t *testing.T) {
	r, err := ParseRank("10")
	require.NoError(t, err)
	assert.Equal(t, cards.Ten, r)

	_, err = ParseRank("11")
	assert.ErrorIs(t, err, ErrUnknownRank)
}
