package brackets

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copa-samurai/tournament-api/models"
)

func competitors(n int) []Competitor {
	cs := make([]Competitor, n)
	for i := range cs {
		cs[i] = Competitor{ID: i + 1, DojoID: (i % 3) + 1}
	}
	return cs
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 8: 8, 9: 16, 16: 16, 17: 32, 100: 128}
	for n, want := range cases {
		assert.Equal(t, want, NextPowerOfTwo(n), "n=%d", n)
	}
}

func TestGenerateRejectsTooFewCompetitors(t *testing.T) {
	_, err := Generate(nil, models.ModalityIndividual)
	assert.ErrorIs(t, err, ErrNoCompetitors)

	_, err = Generate(competitors(1), models.ModalityIndividual)
	assert.ErrorIs(t, err, ErrNotEnoughCompetitors)
}

func TestGenerateStructure(t *testing.T) {
	for n := 2; n <= 33; n++ {
		rounds, err := Generate(competitors(n), models.ModalityIndividual)
		require.NoError(t, err, "n=%d", n)

		bracketSize := NextPowerOfTwo(n)
		totalRounds := 0
		for s := bracketSize; s > 1; s /= 2 {
			totalRounds++
		}
		require.Len(t, rounds, totalRounds, "n=%d", n)

		// Round k holds bracketSize / 2^k matches.
		expectMatches := bracketSize / 2
		for _, round := range rounds {
			assert.Len(t, round.Matches, expectMatches, "n=%d round=%d", n, round.Number)
			expectMatches /= 2
		}

		// Match numbers unique and strictly increasing across rounds.
		lastNumber := 0
		byeSlots := 0
		seated := 0
		for _, round := range rounds {
			for ti, match := range round.Matches {
				require.Equal(t, lastNumber+1, match.Number, "n=%d", n)
				lastNumber = match.Number
				assert.Equal(t, ti+1, match.TopologyIndex)
				assert.Equal(t, ti+1, match.Order)
				if match.Competitor1.Bye {
					byeSlots++
				}
				if match.Competitor2.Bye {
					byeSlots++
				}
				if match.Competitor1.Filled() {
					seated++
				}
				if match.Competitor2.Filled() {
					seated++
				}
			}
		}
		assert.Equal(t, bracketSize-n, byeSlots, "n=%d byes", n)
		assert.Equal(t, n, seated, "n=%d all competitors seated once", n)
	}
}

func TestGeneratePowerOfTwoHasNoByes(t *testing.T) {
	for _, n := range []int{2, 4, 8, 16} {
		rounds, err := Generate(competitors(n), models.ModalityIndividual)
		require.NoError(t, err)
		for _, match := range rounds[0].Matches {
			assert.False(t, match.HasBye(), "n=%d match=%d", n, match.Number)
			assert.Equal(t, models.MatchStatusPending, match.Status)
			assert.Nil(t, match.Winner)
		}
	}
}

func TestGenerateByeMatchesAutoFinish(t *testing.T) {
	rounds, err := Generate(competitors(5), models.ModalityIndividual)
	require.NoError(t, err)

	require.Len(t, rounds, 3)
	require.Len(t, rounds[0].Matches, 4)

	byeMatches := 0
	pendingMatches := 0
	for _, match := range rounds[0].Matches {
		if match.HasBye() {
			byeMatches++
			require.NotNil(t, match.Winner, "bye match %d must auto-finish", match.Number)
			assert.Equal(t, models.MatchStatusFinished, match.Status)
			// The winner is the one real competitor of the pairing.
			var seated *models.CompetitorRef
			if match.Competitor1.Filled() {
				seated = match.Competitor1.Competitor
			} else {
				seated = match.Competitor2.Competitor
			}
			require.NotNil(t, seated)
			assert.Equal(t, seated.ID, match.Winner.ID)
			assert.Equal(t, models.CompetitorParticipant, match.Winner.Type)
		} else {
			pendingMatches++
			assert.Equal(t, models.MatchStatusPending, match.Status)
			assert.True(t, match.Competitor1.Filled())
			assert.True(t, match.Competitor2.Filled())
		}
	}
	assert.Equal(t, 3, byeMatches)
	assert.Equal(t, 1, pendingMatches)

	// Later rounds are allocated empty.
	for _, round := range rounds[1:] {
		for _, match := range round.Matches {
			assert.True(t, match.Competitor1.Empty())
			assert.True(t, match.Competitor2.Empty())
			assert.Nil(t, match.Winner)
			assert.Equal(t, models.MatchStatusPending, match.Status)
		}
	}
}

func TestGenerateRoundNames(t *testing.T) {
	rounds, err := Generate(competitors(5), models.ModalityIndividual)
	require.NoError(t, err)
	require.Len(t, rounds, 3)
	assert.Equal(t, "Cuartos de Final", rounds[0].Name)
	assert.Equal(t, "Semifinal", rounds[1].Name)
	assert.Equal(t, "Final", rounds[2].Name)
}

func TestGenerateTwoCompetitors(t *testing.T) {
	rounds, err := Generate(competitors(2), models.ModalityIndividual)
	require.NoError(t, err)

	require.Len(t, rounds, 1)
	require.Len(t, rounds[0].Matches, 1)
	assert.Equal(t, "Final", rounds[0].Name)

	match := rounds[0].Matches[0]
	assert.Equal(t, models.MatchStatusPending, match.Status)
	assert.False(t, match.HasBye())
}

func TestGenerateTeamModalityTagsRefs(t *testing.T) {
	rounds, err := Generate(competitors(3), models.ModalityTeam)
	require.NoError(t, err)

	for _, match := range rounds[0].Matches {
		if match.Competitor1.Filled() {
			assert.Equal(t, models.CompetitorTeam, match.Competitor1.Competitor.Type)
		}
		if match.Winner != nil {
			assert.Equal(t, models.CompetitorTeam, match.Winner.Type)
		}
	}
}

func TestGenerateSpreadsByes(t *testing.T) {
	// 9 competitors in a 16 bracket leave 7 byes. Clustered byes would pair
	// two byes together; distributed insertion must never do that.
	for n := 2; n <= 40; n++ {
		seeded := SeedOrder(competitors(n), rand.New(rand.NewSource(7)))
		rounds, err := Generate(seeded, models.ModalityIndividual)
		require.NoError(t, err, "n=%d", n)
		for _, match := range rounds[0].Matches {
			assert.False(t, match.Competitor1.Bye && match.Competitor2.Bye,
				"n=%d match=%d pairs two byes", n, match.Number)
		}
	}
}
