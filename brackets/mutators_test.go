package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copa-samurai/tournament-api/models"
)

func TestApplySwapsExchangesSlots(t *testing.T) {
	b := newBracket(t, 4, models.ModalityIndividual)

	before1 := *b.Rounds[0].Matches[0].Competitor1.Competitor
	before2 := *b.Rounds[0].Matches[1].Competitor2.Competitor

	err := ApplySwaps(b, []Swap{{
		A: SlotRef{Round: 1, Match: 1, Slot: 1},
		B: SlotRef{Round: 1, Match: 2, Slot: 2},
	}})
	require.NoError(t, err)

	assert.Equal(t, before2, *b.Rounds[0].Matches[0].Competitor1.Competitor)
	assert.Equal(t, before1, *b.Rounds[0].Matches[1].Competitor2.Competitor)
}

func TestApplySwapsBadReferenceLeavesBracketUntouched(t *testing.T) {
	b := newBracket(t, 4, models.ModalityIndividual)
	original := *b.Rounds[0].Matches[0].Competitor1.Competitor

	err := ApplySwaps(b, []Swap{
		{
			A: SlotRef{Round: 1, Match: 1, Slot: 1},
			B: SlotRef{Round: 1, Match: 2, Slot: 2},
		},
		{
			A: SlotRef{Round: 1, Match: 99, Slot: 1},
			B: SlotRef{Round: 1, Match: 2, Slot: 1},
		},
	})
	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.Equal(t, original, *b.Rounds[0].Matches[0].Competitor1.Competitor)
}

func TestApplySwapsInvalidSlot(t *testing.T) {
	b := newBracket(t, 4, models.ModalityIndividual)
	err := ApplySwaps(b, []Swap{{
		A: SlotRef{Round: 1, Match: 1, Slot: 3},
		B: SlotRef{Round: 1, Match: 2, Slot: 1},
	}})
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestReorderUpdatesExecutionOrderOnly(t *testing.T) {
	b := newBracket(t, 8, models.ModalityIndividual)

	err := Reorder(b, 1, []OrderChange{
		{MatchNumber: 1, NewOrder: 4},
		{MatchNumber: 4, NewOrder: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, b.Rounds[0].Matches[0].Order)
	assert.Equal(t, 1, b.Rounds[0].Matches[3].Order)
	// Numbers and topology are untouched.
	assert.Equal(t, 1, b.Rounds[0].Matches[0].Number)
	assert.Equal(t, 1, b.Rounds[0].Matches[0].TopologyIndex)
	assert.Equal(t, 4, b.Rounds[0].Matches[3].TopologyIndex)
}

func TestReorderUnknownMatchFailsWhole(t *testing.T) {
	b := newBracket(t, 8, models.ModalityIndividual)

	err := Reorder(b, 1, []OrderChange{
		{MatchNumber: 1, NewOrder: 2},
		{MatchNumber: 77, NewOrder: 1},
	})
	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.Equal(t, 1, b.Rounds[0].Matches[0].Order)

	err = Reorder(b, 42, nil)
	assert.ErrorIs(t, err, ErrRoundNotFound)
}
