package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"snake-boom/game/types"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snake.yaml")
	content := `
rows: 12
cols: 16
rules:
  initial_interval: 250ms
  boost_duration: 3s
  golden:
    score: 75
    spawn_every: 20s
    lifetime: 4s
storage:
  backend: sqlite
  path: data/snake.db
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Rows != 12 || cfg.Cols != 16 {
		t.Errorf("expected 12x16, got %dx%d", cfg.Rows, cfg.Cols)
	}
	if cfg.Rules.InitialInterval != 250*time.Millisecond {
		t.Errorf("expected 250ms initial interval, got %v", cfg.Rules.InitialInterval)
	}
	if cfg.Rules.BoostDuration != 3*time.Second {
		t.Errorf("expected 3s boost, got %v", cfg.Rules.BoostDuration)
	}
	if cfg.Rules.Score(types.FoodGolden) != 75 {
		t.Errorf("expected golden score 75, got %d", cfg.Rules.Score(types.FoodGolden))
	}
	// untouched values keep their defaults
	if cfg.Rules.MinInterval != 80*time.Millisecond {
		t.Errorf("expected default min interval, got %v", cfg.Rules.MinInterval)
	}
	if cfg.Rules.Score(types.FoodBig) != 20 {
		t.Errorf("expected default big score, got %d", cfg.Rules.Score(types.FoodBig))
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("expected sqlite backend, got %q", cfg.Storage.Backend)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Rules.NormalScore != 5 {
		t.Errorf("expected normal score 5, got %d", cfg.Rules.NormalScore)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Rows = 4
	cfg.Rules.BoostFactor = 1.5
	cfg.Rules.HazardArmed = 0
	cfg.Storage.Backend = "redis"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"grid must be", "boost_factor", "hazard_armed", "storage backend"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %q, got %v", want, err)
		}
	}
}

func TestValidateReportsInFieldOrder(t *testing.T) {
	r := DefaultRules()
	r.HazardWarning = 0
	r.ElapsedInterval = 0
	r.InitialInterval = 0
	r.MinInterval = 0

	first := r.Validate()
	if first == nil {
		t.Fatal("expected validation errors")
	}
	want := "initial_interval must be positive\n" +
		"min_interval must be positive\n" +
		"elapsed_interval must be positive\n" +
		"hazard_warning must be positive"
	if got := first.Error(); got != want {
		t.Errorf("unexpected errors:\n%s\nwant:\n%s", got, want)
	}
	for i := 0; i < 10; i++ {
		if again := r.Validate(); again.Error() != first.Error() {
			t.Fatalf("error text changed between calls:\n%s\n%s", first, again)
		}
	}
}
