package game

import (
	"github.com/peterkuimelis/debatex/internal/content"
)

// Setup holds the raw choices from a setup screen or a protocol message.
// Empty fields keep the defaults.
type Setup struct {
	TopicID    string
	Stance     string
	Difficulty string
	Mode       string
	Rounds     int
	Seed       uint64
}

// Resolve overlays the setup on defaults and validates it.
func (s Setup) Resolve(defaults Config) (Config, error) {
	cfg := defaults
	if s.TopicID != "" {
		cfg.TopicID = s.TopicID
	}
	if cfg.Stance == "" {
		cfg.Stance = content.StanceAffirmative
	}
	if s.Stance != "" {
		stance, err := content.ParseStance(s.Stance)
		if err != nil {
			return Config{}, err
		}
		cfg.Stance = stance
	}
	if s.Difficulty != "" {
		d, err := ParseDifficulty(s.Difficulty)
		if err != nil {
			return Config{}, err
		}
		cfg.Difficulty = d
	}
	if s.Mode != "" {
		m, err := ParseMode(s.Mode)
		if err != nil {
			return Config{}, err
		}
		cfg.Mode = m
	}
	if s.Rounds > 0 {
		cfg.Rounds = s.Rounds
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	return cfg, nil
}
