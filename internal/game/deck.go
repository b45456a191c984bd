package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/peterkuimelis/debatex/internal/content"
)

var ErrNoPlayableCards = errors.New("no playable cards")

// BuildHand deals the construct hand: every valid card for the stance plus
// a difficulty-sized sample of fake cards, shuffled together.
func BuildHand(topic *content.Topic, stance content.Stance, mode Mode, difficulty Difficulty, r *rand.Rand) ([]content.Card, error) {
	var valid, fakes []content.Card
	for _, c := range topic.CardsFor(stance) {
		if mode == ModeLogicLink && c.Type != content.CardReason && c.Type != content.CardEvidence {
			continue
		}
		if c.IsFake() {
			fakes = append(fakes, c)
		} else {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: topic %s, %s, %s mode", ErrNoPlayableCards, topic.ID, stance, mode)
	}

	hand := append(valid, pickN(r, fakes, difficulty.Settings().FakeCount)...)
	shuffle(r, hand)
	return hand, nil
}
