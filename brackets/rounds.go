package brackets

import "fmt"

// RoundName maps a round index to its display label, counted from the end
// of the bracket: the last round is the Final, the one before it the
// Semifinal, and so on. Rounds deeper than the Octavos get a generic label.
func RoundName(round, totalRounds int) string {
	switch totalRounds - round + 1 {
	case 1:
		return "Final"
	case 2:
		return "Semifinal"
	case 3:
		return "Cuartos de Final"
	case 4:
		return "Octavos de Final"
	default:
		return fmt.Sprintf("Ronda %d", round)
	}
}
