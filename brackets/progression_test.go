package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copa-samurai/tournament-api/models"
)

func newBracket(t *testing.T, n int, modality models.Modality) *models.Bracket {
	t.Helper()
	rounds, err := Generate(competitors(n), modality)
	require.NoError(t, err)
	return &models.Bracket{
		ID:               1,
		CategoryID:       1,
		Modality:         modality,
		Rounds:           rounds,
		TotalCompetitors: n,
		Status:           models.BracketStatusGenerated,
	}
}

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

func seatedIDs(m models.Match) (int, int) {
	var a, b int
	if m.Competitor1.Filled() {
		a = m.Competitor1.Competitor.ID
	}
	if m.Competitor2.Filled() {
		b = m.Competitor2.Competitor.ID
	}
	return a, b
}

func TestRecordResultUnknownRoundOrMatch(t *testing.T) {
	b := newBracket(t, 4, models.ModalityIndividual)

	err := RecordResult(b, 9, 1, Result{WinnerID: intPtr(1)})
	assert.ErrorIs(t, err, ErrRoundNotFound)

	err = RecordResult(b, 1, 99, Result{WinnerID: intPtr(1)})
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestRecordResultRejectsUnseatedWinner(t *testing.T) {
	b := newBracket(t, 4, models.ModalityIndividual)

	err := RecordResult(b, 1, 1, Result{WinnerID: intPtr(999)})
	assert.ErrorIs(t, err, ErrWinnerNotSeated)
	assert.Equal(t, models.MatchStatusPending, b.Rounds[0].Matches[0].Status)
}

func TestRecordResultAdvancesWinner(t *testing.T) {
	b := newBracket(t, 8, models.ModalityIndividual)

	// Match with topology index 3 (1-indexed): winner lands in the next
	// round's match (3-1)/2+1 = 2, competitor1 slot since (3-1) is even.
	m := b.Rounds[0].Matches[2]
	winner, _ := seatedIDs(m)
	require.NotZero(t, winner)

	err := RecordResult(b, 1, m.Number, Result{WinnerID: intPtr(winner)})
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusFinished, b.Rounds[0].Matches[2].Status)
	require.NotNil(t, b.Rounds[0].Matches[2].Winner)
	assert.Equal(t, winner, b.Rounds[0].Matches[2].Winner.ID)

	target := b.Rounds[1].Matches[1]
	require.True(t, target.Competitor1.Filled())
	assert.Equal(t, winner, target.Competitor1.Competitor.ID)
	assert.True(t, target.Competitor2.Empty())

	// Odd topology parity fills competitor2: match 4 targets the same
	// next-round match but the other slot.
	m4 := b.Rounds[0].Matches[3]
	_, winner4 := seatedIDs(m4)
	err = RecordResult(b, 1, m4.Number, Result{WinnerID: intPtr(winner4)})
	require.NoError(t, err)

	target = b.Rounds[1].Matches[1]
	require.True(t, target.Competitor2.Filled())
	assert.Equal(t, winner4, target.Competitor2.Competitor.ID)
}

func TestRecordResultUsesTopologyNotDisplayOrder(t *testing.T) {
	b := newBracket(t, 8, models.ModalityIndividual)

	// Shuffle execution order of round 1; advancement must still follow
	// the structural positions assigned at generation.
	changes := []OrderChange{}
	for i, m := range b.Rounds[0].Matches {
		changes = append(changes, OrderChange{MatchNumber: m.Number, NewOrder: len(b.Rounds[0].Matches) - i})
	}
	require.NoError(t, Reorder(b, 1, changes))

	m := b.Rounds[0].Matches[0] // topology index 1 regardless of order
	winner, _ := seatedIDs(m)
	require.NoError(t, RecordResult(b, 1, m.Number, Result{WinnerID: intPtr(winner)}))

	target := b.Rounds[1].Matches[0]
	require.True(t, target.Competitor1.Filled())
	assert.Equal(t, winner, target.Competitor1.Competitor.ID)
}

func TestRecordResultFinalRoundDoesNotAdvance(t *testing.T) {
	b := newBracket(t, 2, models.ModalityIndividual)

	m := b.Rounds[0].Matches[0]
	winner, _ := seatedIDs(m)
	err := RecordResult(b, 1, m.Number, Result{WinnerID: intPtr(winner)})
	require.NoError(t, err)

	assert.Equal(t, models.BracketStatusFinished, b.Status)
}

func TestRecordResultTatamiAndNotesOnly(t *testing.T) {
	b := newBracket(t, 4, models.ModalityIndividual)

	err := RecordResult(b, 1, 1, Result{Tatami: intPtr(2), Notes: strPtr("mat two")})
	require.NoError(t, err)

	m := b.Rounds[0].Matches[0]
	require.NotNil(t, m.Tatami)
	assert.Equal(t, 2, *m.Tatami)
	require.NotNil(t, m.Notes)
	assert.Equal(t, "mat two", *m.Notes)
	assert.Equal(t, models.MatchStatusPending, m.Status)
	assert.Equal(t, models.BracketStatusGenerated, b.Status)
}

func TestComputeStatusLifecycle(t *testing.T) {
	b := newBracket(t, 5, models.ModalityIndividual)

	// Freshly generated: the three bye matches are finished but structural,
	// so the bracket still reports generated.
	assert.Equal(t, models.BracketStatusGenerated, ComputeStatus(b.Rounds))

	// Record the one real round-1 match: now in progress.
	var real models.Match
	for _, m := range b.Rounds[0].Matches {
		if !m.HasBye() {
			real = m
		}
	}
	winner, _ := seatedIDs(real)
	require.NoError(t, RecordResult(b, 1, real.Number, Result{WinnerID: intPtr(winner)}))
	assert.Equal(t, models.BracketStatusInProgress, b.Status)
}

func TestFullBracketRunToCompletion(t *testing.T) {
	b := newBracket(t, 5, models.ModalityIndividual)

	// Play every unfinished match round by round, always picking the
	// competitor1 side once both slots are seated.
	for ri := range b.Rounds {
		round := b.Rounds[ri]
		for _, m := range round.Matches {
			current := findMatch(findRound(b, round.Number), m.Number)
			if current.Status == models.MatchStatusFinished && ri == 0 {
				// Round-1 bye: push its winner forward explicitly, as an
				// admin re-recording the auto-result would.
				require.NoError(t, RecordResult(b, round.Number, m.Number, Result{WinnerID: intPtr(current.Winner.ID)}))
				continue
			}
			require.True(t, current.Competitor1.Filled(), "round %d match %d slot1", round.Number, m.Number)
			winner := current.Competitor1.Competitor.ID
			require.NoError(t, RecordResult(b, round.Number, m.Number, Result{WinnerID: intPtr(winner)}))
		}
	}

	assert.Equal(t, models.BracketStatusFinished, b.Status)
	final := b.Rounds[len(b.Rounds)-1].Matches[0]
	require.NotNil(t, final.Winner)
}

func TestResetRestoresGeneratedState(t *testing.T) {
	b := newBracket(t, 5, models.ModalityIndividual)

	// Capture the structural bye layout before playing.
	type byeState struct {
		bye1, bye2 bool
		winnerID   int
	}
	before := map[int]byeState{}
	for _, m := range b.Rounds[0].Matches {
		st := byeState{bye1: m.Competitor1.Bye, bye2: m.Competitor2.Bye}
		if m.Winner != nil {
			st.winnerID = m.Winner.ID
		}
		before[m.Number] = st
	}

	for _, m := range b.Rounds[0].Matches {
		current := findMatch(&b.Rounds[0], m.Number)
		var winner int
		if current.Winner != nil {
			winner = current.Winner.ID
		} else {
			winner = current.Competitor1.Competitor.ID
		}
		require.NoError(t, RecordResult(b, 1, m.Number, Result{WinnerID: intPtr(winner), Tatami: intPtr(1), Notes: strPtr("x")}))
	}
	require.NotEqual(t, models.BracketStatusGenerated, b.Status)

	Reset(b)

	assert.Equal(t, models.BracketStatusGenerated, b.Status)
	for _, m := range b.Rounds[0].Matches {
		st := before[m.Number]
		assert.Equal(t, st.bye1, m.Competitor1.Bye)
		assert.Equal(t, st.bye2, m.Competitor2.Bye)
		if st.bye1 || st.bye2 {
			require.NotNil(t, m.Winner, "bye auto-result must survive reset")
			assert.Equal(t, st.winnerID, m.Winner.ID)
			assert.Equal(t, models.MatchStatusFinished, m.Status)
		} else {
			assert.Nil(t, m.Winner)
			assert.Equal(t, models.MatchStatusPending, m.Status)
			assert.Nil(t, m.Tatami)
			assert.Nil(t, m.Notes)
		}
	}
	for _, round := range b.Rounds[1:] {
		for _, m := range round.Matches {
			assert.True(t, m.Competitor1.Empty())
			assert.True(t, m.Competitor2.Empty())
			assert.Nil(t, m.Winner)
			assert.Equal(t, models.MatchStatusPending, m.Status)
		}
	}
}
