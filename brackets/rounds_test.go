package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundName(t *testing.T) {
	cases := []struct {
		round, total int
		want         string
	}{
		{1, 1, "Final"},
		{1, 2, "Semifinal"},
		{2, 2, "Final"},
		{1, 3, "Cuartos de Final"},
		{2, 3, "Semifinal"},
		{3, 3, "Final"},
		{1, 4, "Octavos de Final"},
		{1, 5, "Ronda 1"},
		{2, 5, "Ronda 2"},
		{2, 6, "Ronda 2"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RoundName(tc.round, tc.total), "round %d of %d", tc.round, tc.total)
	}
}
