package game

import (
	"testing"

	"github.com/peterkuimelis/debatex/internal/content"
)

func TestSetupResolve(t *testing.T) {
	defaults := Config{Difficulty: DifficultyMedium, Rounds: 2, TimerEnabled: true}

	cfg, err := Setup{TopicID: "t1"}.Resolve(defaults)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Stance != content.StanceAffirmative || cfg.Difficulty != DifficultyMedium || cfg.Rounds != 2 || !cfg.TimerEnabled {
		t.Errorf("defaults not kept: %+v", cfg)
	}

	cfg, err = Setup{Stance: "neg", Difficulty: "HARD", Mode: "logic_link", Rounds: 3, Seed: 9}.Resolve(defaults)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Stance != content.StanceNegative || cfg.Difficulty != DifficultyHard || cfg.Mode != ModeLogicLink || cfg.Rounds != 3 || cfg.Seed != 9 {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	for _, bad := range []Setup{{Stance: "neutral"}, {Difficulty: "nightmare"}, {Mode: "free"}} {
		if _, err := bad.Resolve(defaults); err == nil {
			t.Errorf("Resolve(%+v) should fail", bad)
		}
	}
}
