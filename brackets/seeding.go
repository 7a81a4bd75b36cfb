package brackets

import (
	"math/rand"
	"sort"
)

// Competitor is the minimal view of a participant or team the seeding and
// generation algorithms need: a stable id and a dojo affiliation.
type Competitor struct {
	ID     int
	DojoID int
}

// SeedOrder produces the round-1 seed order for the given competitors.
//
// If every competitor belongs to the same dojo the order is a uniform
// shuffle. Otherwise competitors are grouped by dojo, shuffled within each
// group, groups sorted by descending size, and each group's members dealt
// alternately into two halves which are then concatenated. This pushes
// same-dojo competitors toward opposite halves of the bracket so they tend
// not to meet in early rounds. It is a heuristic, not an optimal matching.
//
// The rand source is injected so seeding is reproducible under test.
func SeedOrder(competitors []Competitor, rng *rand.Rand) []Competitor {
	byDojo := make(map[int][]Competitor)
	for _, c := range competitors {
		byDojo[c.DojoID] = append(byDojo[c.DojoID], c)
	}

	if len(byDojo) <= 1 {
		seeded := make([]Competitor, len(competitors))
		copy(seeded, competitors)
		rng.Shuffle(len(seeded), func(i, j int) {
			seeded[i], seeded[j] = seeded[j], seeded[i]
		})
		return seeded
	}

	type dojoGroup struct {
		dojoID  int
		members []Competitor
	}

	// Shuffle groups in ascending dojo id order so the rng is consumed in
	// a fixed sequence; ranging over the map would break reproducibility.
	dojoIDs := make([]int, 0, len(byDojo))
	for dojoID := range byDojo {
		dojoIDs = append(dojoIDs, dojoID)
	}
	sort.Ints(dojoIDs)

	groups := make([]dojoGroup, 0, len(byDojo))
	for _, dojoID := range dojoIDs {
		members := byDojo[dojoID]
		shuffled := make([]Competitor, len(members))
		copy(shuffled, members)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		groups = append(groups, dojoGroup{dojoID: dojoID, members: shuffled})
	}

	// Largest dojos first; dojo id tiebreak keeps the order total.
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].members) != len(groups[j].members) {
			return len(groups[i].members) > len(groups[j].members)
		}
		return groups[i].dojoID < groups[j].dojoID
	})

	half1 := make([]Competitor, 0, len(competitors))
	half2 := make([]Competitor, 0, len(competitors))
	for _, g := range groups {
		for i, c := range g.members {
			if i%2 == 0 {
				half1 = append(half1, c)
			} else {
				half2 = append(half2, c)
			}
		}
	}

	return append(half1, half2...)
}
