package game

import (
	"math/rand/v2"

	"github.com/peterkuimelis/debatex/internal/content"
)

// SampleOptions picks the option set for one battle sub-phase: one winning
// option (when the pool has any) and up to BattleOptions-1 losing ones,
// shuffled. Options without a winning judgment count as weak.
func SampleOptions(options []content.Card, difficulty Difficulty, r *rand.Rand) []content.Card {
	var winning, weak []content.Card
	for _, o := range options {
		if o.Judgment.IsWinning() {
			winning = append(winning, o)
		} else {
			weak = append(weak, o)
		}
	}

	limit := difficulty.Settings().BattleOptions
	picked := pickN(r, winning, 1)
	picked = append(picked, pickN(r, weak, limit-1)...)
	shuffle(r, picked)
	return picked
}
