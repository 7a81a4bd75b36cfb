package brackets

import (
	"errors"

	"github.com/copa-samurai/tournament-api/models"
)

var (
	ErrRoundNotFound    = errors.New("round not found in bracket")
	ErrMatchNotFound    = errors.New("match not found in round")
	ErrWinnerNotSeated  = errors.New("winner is not one of the match competitors")
	ErrInvalidSlot      = errors.New("slot must be 1 or 2")
	ErrNextRoundMissing = errors.New("next round has no match at the advancement position")
)

// Result carries an admin-recorded match outcome. WinnerID is optional:
// a request may update only tatami or notes without deciding the match.
type Result struct {
	WinnerID *int
	Tatami   *int
	Notes    *string
}

// RecordResult applies a result to the identified match, advances the
// winner into its slot in the next round, and recomputes bracket status.
//
// The advancement target is derived from the match's TopologyIndex, not
// its execution order: target match topology index = (t-1)/2 + 1 in the
// next round, competitor1 slot when (t-1) is even, competitor2 otherwise.
// Reordering execution therefore never corrupts the tree.
func RecordResult(b *models.Bracket, roundNumber, matchNumber int, res Result) error {
	round := findRound(b, roundNumber)
	if round == nil {
		return ErrRoundNotFound
	}
	match := findMatch(round, matchNumber)
	if match == nil {
		return ErrMatchNotFound
	}

	if res.WinnerID != nil {
		if !seated(match, *res.WinnerID) {
			return ErrWinnerNotSeated
		}

		winner := &models.CompetitorRef{
			Type: b.Modality.CompetitorType(),
			ID:   *res.WinnerID,
		}
		match.Winner = winner
		match.Status = models.MatchStatusFinished

		if roundNumber < len(b.Rounds) {
			if err := advance(b, roundNumber, match.TopologyIndex, winner.ID); err != nil {
				return err
			}
		}
	}

	if res.Tatami != nil {
		match.Tatami = res.Tatami
	}
	if res.Notes != nil {
		match.Notes = res.Notes
	}

	b.Status = ComputeStatus(b.Rounds)
	return nil
}

func advance(b *models.Bracket, roundNumber, topologyIndex, winnerID int) error {
	next := findRound(b, roundNumber+1)
	if next == nil {
		return ErrNextRoundMissing
	}

	targetTopology := (topologyIndex-1)/2 + 1
	var target *models.Match
	for i := range next.Matches {
		if next.Matches[i].TopologyIndex == targetTopology {
			target = &next.Matches[i]
			break
		}
	}
	if target == nil {
		return ErrNextRoundMissing
	}

	slot := models.CompetitorSlot{
		Competitor: &models.CompetitorRef{
			Type: b.Modality.CompetitorType(),
			ID:   winnerID,
		},
	}
	if (topologyIndex-1)%2 == 0 {
		target.Competitor1 = slot
	} else {
		target.Competitor2 = slot
	}
	return nil
}

// ComputeStatus derives the overall bracket status from its matches.
//
// The bracket is finished only when every match is finished. Matches that
// were auto-finished by a structural bye do not count as recorded progress,
// so a freshly generated bracket with byes still reports generated.
func ComputeStatus(rounds []models.Round) models.BracketStatus {
	allFinished := true
	anyProgress := false

	for _, round := range rounds {
		for _, match := range round.Matches {
			if match.Status != models.MatchStatusFinished {
				allFinished = false
			}
			if match.HasBye() {
				continue
			}
			if match.Status == models.MatchStatusFinished || match.Status == models.MatchStatusInProgress {
				anyProgress = true
			}
		}
	}

	switch {
	case allFinished:
		return models.BracketStatusFinished
	case anyProgress:
		return models.BracketStatusInProgress
	default:
		return models.BracketStatusGenerated
	}
}

// Reset rolls a bracket back to its just-generated state.
//
// Every match without a bye slot loses its winner, tatami and notes and
// returns to pending. Rounds after the first are emptied entirely. Round-1
// byes reflect structural seeding, not recorded results, so their slots and
// auto-finished winners are preserved.
func Reset(b *models.Bracket) {
	for ri := range b.Rounds {
		round := &b.Rounds[ri]
		for mi := range round.Matches {
			match := &round.Matches[mi]
			if round.Number == 1 {
				if match.HasBye() {
					continue
				}
				match.Winner = nil
				match.Status = models.MatchStatusPending
				match.Tatami = nil
				match.Notes = nil
				continue
			}
			match.Competitor1 = models.CompetitorSlot{}
			match.Competitor2 = models.CompetitorSlot{}
			match.Winner = nil
			match.Status = models.MatchStatusPending
			match.Tatami = nil
			match.Notes = nil
		}
	}
	b.Status = models.BracketStatusGenerated
}

func findRound(b *models.Bracket, number int) *models.Round {
	for i := range b.Rounds {
		if b.Rounds[i].Number == number {
			return &b.Rounds[i]
		}
	}
	return nil
}

func findMatch(round *models.Round, number int) *models.Match {
	for i := range round.Matches {
		if round.Matches[i].Number == number {
			return &round.Matches[i]
		}
	}
	return nil
}

func seated(m *models.Match, competitorID int) bool {
	if m.Competitor1.Filled() && m.Competitor1.Competitor.ID == competitorID {
		return true
	}
	if m.Competitor2.Filled() && m.Competitor2.Competitor.ID == competitorID {
		return true
	}
	return false
}
