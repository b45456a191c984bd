package game

import (
	"slices"

	"github.com/peterkuimelis/debatex/internal/content"
)

// ReviewGroup is one complete line of argument for study.
type ReviewGroup struct {
	Group string
	Cards []content.Card
}

// ReviewGroups returns the non-fake cards for a stance grouped by logic
// group, groups in first-appearance order and cards in AREA order.
func ReviewGroups(topic *content.Topic, stance content.Stance) []ReviewGroup {
	var groups []ReviewGroup
	index := make(map[string]int)
	for _, c := range topic.CardsFor(stance) {
		if c.IsFake() {
			continue
		}
		i, ok := index[c.Group]
		if !ok {
			i = len(groups)
			index[c.Group] = i
			groups = append(groups, ReviewGroup{Group: c.Group})
		}
		groups[i].Cards = append(groups[i].Cards, c)
	}
	for i := range groups {
		sortByFlow(groups[i].Cards)
	}
	return groups
}

// ModelAnswer returns the exemplary construct for the session: the cards of
// the active logic group, or of the first valid group when none was chosen.
func ModelAnswer(topic *content.Topic, stance content.Stance, group string) []content.Card {
	groups := ReviewGroups(topic, stance)
	if len(groups) == 0 {
		return nil
	}
	for _, g := range groups {
		if g.Group == group {
			return g.Cards
		}
	}
	return groups[0].Cards
}

func sortByFlow(cards []content.Card) {
	order := ModeArea.Flow()
	rank := func(t content.CardType) int {
		if i := slices.Index(order, t); i >= 0 {
			return i
		}
		return len(order)
	}
	slices.SortStableFunc(cards, func(a, b content.Card) int {
		return rank(a.Type) - rank(b.Type)
	})
}
