package view

import (
	"golang.org/x/text/language"

	"github.com/peterkuimelis/debatex/internal/content"
	"github.com/peterkuimelis/debatex/internal/game"
)

// TopicSummary is one entry of the topic list.
type TopicSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	TitleJP  string `json:"title_jp,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// TopicDetail adds what the setup screen needs to a summary.
type TopicDetail struct {
	TopicSummary
	Vocabulary []content.VocabEntry `json:"vocabulary"`
	Stances    []StanceInfo         `json:"stances"`
}

// StanceInfo reports how much material a stance has.
type StanceInfo struct {
	Stance          string `json:"stance"`
	PlayableCards   int    `json:"playable_cards"`
	CrossExamRounds int    `json:"cross_exam_rounds"`
	RebuttalRounds  int    `json:"rebuttal_rounds"`
	HasClosing      bool   `json:"has_closing"`
}

type DifficultyView struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	FakeCount     int    `json:"fake_count"`
	BattleOptions int    `json:"battle_options"`
	ShowHint      bool   `json:"show_hint"`
}

func BuildTopicSummary(t *content.Topic) TopicSummary {
	return TopicSummary{ID: t.ID, Title: t.Title, TitleJP: t.TitleJP, ImageURL: t.ImageURL}
}

func BuildTopicSummaries(topics []*content.Topic) []TopicSummary {
	out := make([]TopicSummary, 0, len(topics))
	for _, t := range topics {
		out = append(out, BuildTopicSummary(t))
	}
	return out
}

func BuildTopicDetail(t *content.Topic) TopicDetail {
	d := TopicDetail{TopicSummary: BuildTopicSummary(t), Vocabulary: t.Vocabulary}
	if d.Vocabulary == nil {
		d.Vocabulary = []content.VocabEntry{}
	}
	for _, s := range []content.Stance{content.StanceAffirmative, content.StanceNegative} {
		info := StanceInfo{Stance: string(s)}
		for _, c := range t.CardsFor(s) {
			if !c.IsFake() {
				info.PlayableCards++
			}
		}
		for _, ex := range t.CrossExam.Exchanges(s) {
			if ex.Usable() {
				info.CrossExamRounds++
			}
		}
		for _, ex := range t.Rebuttal.Exchanges(s) {
			if ex.Usable() {
				info.RebuttalRounds++
			}
		}
		for _, ex := range t.Closing.Exchanges(s) {
			if len(ex.Options) > 0 {
				info.HasClosing = true
			}
		}
		d.Stances = append(d.Stances, info)
	}
	return d
}

// BuildTopicReview renders review groups for both stances.
func BuildTopicReview(t *content.Topic, lang language.Tag) map[string][]ReviewGroupView {
	r := Renderer{Lang: lang, Difficulty: game.DifficultyMedium}
	return map[string][]ReviewGroupView{
		string(content.StanceAffirmative): BuildReview(t, content.StanceAffirmative, r),
		string(content.StanceNegative):    BuildReview(t, content.StanceNegative, r),
	}
}

func BuildDifficulties() []DifficultyView {
	var out []DifficultyView
	for _, d := range game.Difficulties() {
		s := d.Settings()
		out = append(out, DifficultyView{
			ID:            string(d),
			Label:         s.Label,
			FakeCount:     s.FakeCount,
			BattleOptions: s.BattleOptions,
			ShowHint:      s.ShowHint,
		})
	}
	return out
}
