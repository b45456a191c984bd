package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/peterkuimelis/debatex/internal/content"
	"github.com/peterkuimelis/debatex/internal/game"
	"github.com/peterkuimelis/debatex/internal/net"
	"github.com/peterkuimelis/debatex/internal/view"
)

// Config is the process configuration shared by all commands. Command line
// flags override these values.
type Config struct {
	TopicsDir      string  `env:"DEBATEX_TOPICS_DIR"`
	HTTPPort       string  `env:"DEBATEX_HTTP_PORT"       envDefault:"8080"`
	TCPPort        string  `env:"DEBATEX_TCP_PORT"        envDefault:"9000"`
	Timer          bool    `env:"DEBATEX_TIMER"           envDefault:"true"`
	RebuttalDamage bool    `env:"DEBATEX_REBUTTAL_DAMAGE" envDefault:"true"`
	Rounds         int     `env:"DEBATEX_ROUNDS"          envDefault:"1"`
	Difficulty     string  `env:"DEBATEX_DIFFICULTY"      envDefault:"easy"`
	Lang           string  `env:"DEBATEX_LANG"            envDefault:"en"`
	IntentRate     float64 `env:"DEBATEX_INTENT_RATE"     envDefault:"10"`
	IntentBurst    int     `env:"DEBATEX_INTENT_BURST"    envDefault:"5"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := game.ParseDifficulty(cfg.Difficulty); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Topics loads the topic store: TopicsDir when set, else the bundled topics.
func (c Config) Topics() (*content.Store, error) {
	if c.TopicsDir == "" {
		return content.Default()
	}
	return content.LoadDir(c.TopicsDir)
}

// SessionDefaults is the game config new sessions start from.
func (c Config) SessionDefaults() game.Config {
	d, err := game.ParseDifficulty(c.Difficulty)
	if err != nil {
		d = game.DifficultyEasy
	}
	return game.Config{
		Difficulty:     d,
		Rounds:         c.Rounds,
		TimerEnabled:   c.Timer,
		RebuttalDamage: c.RebuttalDamage,
	}
}

// SessionOptions builds what the terminal, web and MCP front ends hand to
// their sessions.
func (c Config) SessionOptions() (net.Options, error) {
	store, err := c.Topics()
	if err != nil {
		return net.Options{}, fmt.Errorf("load topics: %w", err)
	}
	lang, ok := view.ParseLanguage(c.Lang)
	if !ok {
		lang = view.DefaultLanguage()
	}
	return net.Options{
		Store:       store,
		Defaults:    c.SessionDefaults(),
		Lang:        lang,
		IntentRate:  c.IntentRate,
		IntentBurst: c.IntentBurst,
	}, nil
}
