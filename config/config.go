// Package config holds game rules and program settings. Defaults mirror the
// classic power-fruit rules; a YAML file can override any of them.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"snake-boom/game/types"
)

const (
	MinGridSize  = 6
	DefaultRows  = 20
	DefaultCols  = 30
	DataDir      = "data"
	DefaultStore = "file"
)

// FruitRules describes one power fruit: its score, how often it appears and
// how long it stays on the board when nobody eats it.
type FruitRules struct {
	Score      int           `yaml:"score"`
	SpawnEvery time.Duration `yaml:"spawn_every"`
	Lifetime   time.Duration `yaml:"lifetime"`
}

// Rules are the engine constants for one run.
type Rules struct {
	SnakeLength int `yaml:"snake_length"`

	InitialInterval time.Duration `yaml:"initial_interval"`
	IntervalStep    time.Duration `yaml:"interval_step"`
	MinInterval     time.Duration `yaml:"min_interval"`
	ElapsedInterval time.Duration `yaml:"elapsed_interval"`

	NormalScore int        `yaml:"normal_score"`
	Big         FruitRules `yaml:"big"`
	Golden      FruitRules `yaml:"golden"`
	Speed       FruitRules `yaml:"speed"`
	Freeze      FruitRules `yaml:"freeze"`

	BoostFactor    float64       `yaml:"boost_factor"`
	BoostDuration  time.Duration `yaml:"boost_duration"`
	FreezeDuration time.Duration `yaml:"freeze_duration"`

	HazardPeriod  time.Duration `yaml:"hazard_period"`
	HazardWarning time.Duration `yaml:"hazard_warning"`
	HazardArmed   time.Duration `yaml:"hazard_armed"`

	// MaxSpawnAttempts caps random placement tries; 0 means 4*rows*cols.
	MaxSpawnAttempts int `yaml:"max_spawn_attempts"`
}

// Fruit returns the rules for a power fruit kind.
func (r Rules) Fruit(kind types.FoodKind) FruitRules {
	switch kind {
	case types.FoodBig:
		return r.Big
	case types.FoodGolden:
		return r.Golden
	case types.FoodSpeed:
		return r.Speed
	case types.FoodFreeze:
		return r.Freeze
	default:
		return FruitRules{Score: r.NormalScore}
	}
}

// Score returns the points awarded for eating kind.
func (r Rules) Score(kind types.FoodKind) int {
	if kind == types.FoodNormal {
		return r.NormalScore
	}
	return r.Fruit(kind).Score
}

type Storage struct {
	// Backend is "file" (JSON) or "sqlite".
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type Autopilot struct {
	Enabled   bool   `yaml:"enabled"`
	TablePath string `yaml:"table_path"`
}

// Config is the full program configuration.
type Config struct {
	Rows      int       `yaml:"rows"`
	Cols      int       `yaml:"cols"`
	Seed      uint64    `yaml:"seed"`
	UI        string    `yaml:"ui"`
	Spectate  string    `yaml:"spectate"`
	LogFile   string    `yaml:"log_file"`
	Rules     Rules     `yaml:"rules"`
	Storage   Storage   `yaml:"storage"`
	Autopilot Autopilot `yaml:"autopilot"`
}

// DefaultRules returns the classic timings.
func DefaultRules() Rules {
	return Rules{
		SnakeLength:     3,
		InitialInterval: 400 * time.Millisecond,
		IntervalStep:    12 * time.Millisecond,
		MinInterval:     80 * time.Millisecond,
		ElapsedInterval: time.Second,

		NormalScore: 5,
		Big:         FruitRules{Score: 20, SpawnEvery: 5 * time.Second, Lifetime: 5 * time.Second},
		Golden:      FruitRules{Score: 50, SpawnEvery: 10 * time.Second, Lifetime: 6 * time.Second},
		Speed:       FruitRules{Score: 0, SpawnEvery: 12 * time.Second, Lifetime: 5 * time.Second},
		Freeze:      FruitRules{Score: 0, SpawnEvery: 15 * time.Second, Lifetime: 5 * time.Second},

		BoostFactor:    0.6,
		BoostDuration:  5 * time.Second,
		FreezeDuration: 5 * time.Second,

		HazardPeriod:  10 * time.Second,
		HazardWarning: 2 * time.Second,
		HazardArmed:   3 * time.Second,
	}
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Rows:  DefaultRows,
		Cols:  DefaultCols,
		UI:    "term",
		Rules: DefaultRules(),
		Storage: Storage{
			Backend: DefaultStore,
			Path:    DataDir + "/highscore.json",
		},
		Autopilot: Autopilot{
			TablePath: DataDir + "/autopilot.json",
		},
	}
}

// Load reads a YAML file on top of the defaults. A missing file is not an
// error when path is empty.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Rows < MinGridSize || c.Cols < MinGridSize {
		errs = append(errs, fmt.Errorf("grid must be at least %dx%d, got %dx%d", MinGridSize, MinGridSize, c.Rows, c.Cols))
	}
	if c.Storage.Backend != "file" && c.Storage.Backend != "sqlite" && c.Storage.Backend != "none" {
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}
	if err := c.Rules.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate checks that every duration and factor is usable.
func (r Rules) Validate() error {
	var errs []error
	positive := []struct {
		name string
		d    time.Duration
	}{
		{"initial_interval", r.InitialInterval},
		{"min_interval", r.MinInterval},
		{"elapsed_interval", r.ElapsedInterval},
		{"boost_duration", r.BoostDuration},
		{"freeze_duration", r.FreezeDuration},
		{"hazard_period", r.HazardPeriod},
		{"hazard_warning", r.HazardWarning},
		{"hazard_armed", r.HazardArmed},
	}
	for _, p := range positive {
		if p.d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", p.name))
		}
	}
	for _, kind := range types.PowerFruits {
		f := r.Fruit(kind)
		if f.SpawnEvery <= 0 || f.Lifetime <= 0 {
			errs = append(errs, fmt.Errorf("%s fruit needs positive spawn_every and lifetime", kind))
		}
		if f.Score < 0 {
			errs = append(errs, fmt.Errorf("%s fruit score must not be negative", kind))
		}
	}
	if r.IntervalStep < 0 {
		errs = append(errs, errors.New("interval_step must not be negative"))
	}
	if r.MinInterval > r.InitialInterval {
		errs = append(errs, errors.New("min_interval must not exceed initial_interval"))
	}
	if r.BoostFactor <= 0 || r.BoostFactor > 1 {
		errs = append(errs, fmt.Errorf("boost_factor must be in (0,1], got %v", r.BoostFactor))
	}
	if r.SnakeLength < 1 {
		errs = append(errs, errors.New("snake_length must be at least 1"))
	}
	if r.NormalScore < 0 {
		errs = append(errs, errors.New("normal_score must not be negative"))
	}
	return errors.Join(errs...)
}
