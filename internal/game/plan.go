package game

import "github.com/peterkuimelis/debatex/internal/content"

// Round is one cross-examination and rebuttal cycle. A nil exchange means
// the topic has no usable material and the sub-phase is skipped.
type Round struct {
	CrossExam *content.Exchange
	Rebuttal  *content.Exchange
}

// BuildBattlePlan lays out the requested number of rounds, reusing authored
// exchanges cyclically when rounds outnumber them.
func BuildBattlePlan(topic *content.Topic, stance content.Stance, rounds int) []Round {
	if rounds <= 0 {
		rounds = DefaultRounds
	}
	cx := usable(topic.CrossExam.Exchanges(stance))
	reb := usable(topic.Rebuttal.Exchanges(stance))

	plan := make([]Round, rounds)
	for i := range plan {
		if len(cx) > 0 {
			plan[i].CrossExam = &cx[i%len(cx)]
		}
		if len(reb) > 0 {
			plan[i].Rebuttal = &reb[i%len(reb)]
		}
	}
	return plan
}

// closingFor returns the first closing exchange that offers options. The
// closing needs no prompt.
func closingFor(topic *content.Topic, stance content.Stance) *content.Exchange {
	for _, ex := range topic.Closing.Exchanges(stance) {
		if len(ex.Options) > 0 {
			return &ex
		}
	}
	return nil
}

func usable(list []content.Exchange) []content.Exchange {
	var out []content.Exchange
	for _, ex := range list {
		if ex.Usable() {
			out = append(out, ex)
		}
	}
	return out
}
