package brackets

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/copa-samurai/tournament-api/models"
)

var (
	ErrNoCompetitors        = errors.New("cannot generate bracket with zero competitors")
	ErrNotEnoughCompetitors = errors.New("not enough competitors to generate a bracket (minimum 2)")
)

// NextPowerOfTwo returns the smallest power of two >= n.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Generate builds the full single-elimination round structure for an
// already seeded competitor order.
//
// The bracket size is the next power of two >= len(seeded); the difference
// is covered by byes spread across the seed order at even intervals rather
// than clustered at the end. Round 1 pairs consecutive seeds; a pairing
// against a bye is finished immediately with the real competitor as winner.
// Rounds 2..log2(size) are allocated with empty slots and filled by the
// progression engine as results are recorded.
//
// Match numbers are globally increasing across rounds. Each match also gets
// a TopologyIndex fixing its structural position within the round; Order
// starts equal to it but is editable by admins and never drives advancement.
func Generate(seeded []Competitor, modality models.Modality) ([]models.Round, error) {
	n := len(seeded)
	if n == 0 {
		return nil, ErrNoCompetitors
	}
	if n < 2 {
		return nil, ErrNotEnoughCompetitors
	}

	bracketSize := NextPowerOfTwo(n)
	totalByes := bracketSize - n
	totalRounds := bits.Len(uint(bracketSize)) - 1

	slots := make([]*Competitor, 0, bracketSize)
	for i := range seeded {
		c := seeded[i]
		slots = append(slots, &c)
	}

	if totalByes > 0 {
		step := n / totalByes
		if step < 1 {
			step = 1
		}
		positions := make([]int, totalByes)
		for i := 0; i < totalByes; i++ {
			positions[i] = i * step
		}
		// Insert in descending position order so earlier insertions do not
		// shift the remaining target indices.
		for i := len(positions) - 1; i >= 0; i-- {
			pos := positions[i]
			if pos > len(slots) {
				pos = len(slots)
			}
			slots = append(slots[:pos], append([]*Competitor{nil}, slots[pos:]...)...)
		}
	}

	if len(slots) != bracketSize {
		return nil, fmt.Errorf("seed layout produced %d slots, expected %d", len(slots), bracketSize)
	}

	refType := modality.CompetitorType()
	matchNumber := 1

	firstRound := models.Round{
		Number: 1,
		Name:   RoundName(1, totalRounds),
	}

	for i := 0; i < len(slots); i += 2 {
		comp1 := slots[i]
		comp2 := slots[i+1]
		if comp1 == nil && comp2 == nil {
			return nil, fmt.Errorf("two byes paired at round 1 position %d", i/2+1)
		}

		match := models.Match{
			Number:        matchNumber,
			TopologyIndex: i/2 + 1,
			Order:         i/2 + 1,
			Competitor1:   slotFor(comp1, refType),
			Competitor2:   slotFor(comp2, refType),
			Status:        models.MatchStatusPending,
		}
		matchNumber++

		// A competitor paired against a bye advances automatically.
		switch {
		case comp1 != nil && comp2 == nil:
			match.Winner = &models.CompetitorRef{Type: refType, ID: comp1.ID}
			match.Status = models.MatchStatusFinished
		case comp2 != nil && comp1 == nil:
			match.Winner = &models.CompetitorRef{Type: refType, ID: comp2.ID}
			match.Status = models.MatchStatusFinished
		}

		firstRound.Matches = append(firstRound.Matches, match)
	}

	rounds := []models.Round{firstRound}

	for r := 2; r <= totalRounds; r++ {
		matchesInRound := bracketSize >> uint(r)
		round := models.Round{
			Number: r,
			Name:   RoundName(r, totalRounds),
		}
		for i := 0; i < matchesInRound; i++ {
			round.Matches = append(round.Matches, models.Match{
				Number:        matchNumber,
				TopologyIndex: i + 1,
				Order:         i + 1,
				Status:        models.MatchStatusPending,
			})
			matchNumber++
		}
		rounds = append(rounds, round)
	}

	return rounds, nil
}

func slotFor(c *Competitor, refType models.CompetitorType) models.CompetitorSlot {
	if c == nil {
		return models.CompetitorSlot{Bye: true}
	}
	return models.CompetitorSlot{
		Competitor: &models.CompetitorRef{Type: refType, ID: c.ID},
	}
}
