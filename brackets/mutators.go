package brackets

import "github.com/copa-samurai/tournament-api/models"

// SlotRef addresses one competitor slot of one match.
type SlotRef struct {
	Round int
	Match int
	Slot  int // 1 or 2
}

// Swap exchanges the slot contents between two matches.
type Swap struct {
	A SlotRef
	B SlotRef
}

// ApplySwaps exchanges the referenced slot contents pairwise. This is a
// manual admin override: no attempt is made to keep the tree consistent
// with already recorded results. The whole list is validated before any
// swap is applied so a bad reference leaves the bracket untouched.
func ApplySwaps(b *models.Bracket, swaps []Swap) error {
	type resolved struct {
		a, b *models.CompetitorSlot
	}

	resolvedSwaps := make([]resolved, 0, len(swaps))
	for _, swap := range swaps {
		slotA, err := resolveSlot(b, swap.A)
		if err != nil {
			return err
		}
		slotB, err := resolveSlot(b, swap.B)
		if err != nil {
			return err
		}
		resolvedSwaps = append(resolvedSwaps, resolved{a: slotA, b: slotB})
	}

	for _, rs := range resolvedSwaps {
		*rs.a, *rs.b = *rs.b, *rs.a
	}
	return nil
}

func resolveSlot(b *models.Bracket, ref SlotRef) (*models.CompetitorSlot, error) {
	round := findRound(b, ref.Round)
	if round == nil {
		return nil, ErrRoundNotFound
	}
	match := findMatch(round, ref.Match)
	if match == nil {
		return nil, ErrMatchNotFound
	}
	switch ref.Slot {
	case 1:
		return &match.Competitor1, nil
	case 2:
		return &match.Competitor2, nil
	default:
		return nil, ErrInvalidSlot
	}
}

// OrderChange assigns a new execution order to a match.
type OrderChange struct {
	MatchNumber int
	NewOrder    int
}

// Reorder overwrites the execution order of the listed matches in one
// round. Match numbers and topology are untouched, so advancement is
// unaffected. Fails without applying anything if a match is unknown.
func Reorder(b *models.Bracket, roundNumber int, changes []OrderChange) error {
	round := findRound(b, roundNumber)
	if round == nil {
		return ErrRoundNotFound
	}

	targets := make([]*models.Match, 0, len(changes))
	for _, change := range changes {
		match := findMatch(round, change.MatchNumber)
		if match == nil {
			return ErrMatchNotFound
		}
		targets = append(targets, match)
	}

	for i, change := range changes {
		targets[i].Order = change.NewOrder
	}
	return nil
}
