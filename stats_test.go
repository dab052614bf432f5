package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"snake-boom/config"
	"snake-boom/game"
	"snake-boom/game/types"
	"snake-boom/storage"
)

func TestPrintStatsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := printStats(&buf, storage.NewMemory()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "no runs recorded yet") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestPrintStats(t *testing.T) {
	store := storage.NewMemory()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, score := range []int{10, 20, 60} {
		begin := start.Add(time.Duration(i) * time.Minute)
		if err := store.RecordRun(game.RunRecord{
			ID:        string(rune('a' + i)),
			Score:     score,
			Reason:    types.ReasonWall,
			StartTime: begin,
			EndTime:   begin.Add(30 * time.Second),
			Elapsed:   30,
		}); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := printStats(&buf, store); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"games played:    3",
		"average score:   30.0",
		"median score:    20.0",
		"best score:      60",
		"last run:        60 points, Wall, 30s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFlagsApply(t *testing.T) {
	cfg := config.Default()
	flags{ui: "headless", rows: 12, store: "sqlite", autopilot: true, seed: 7}.apply(&cfg)

	if cfg.UI != "headless" || cfg.Rows != 12 || cfg.Cols != config.DefaultCols {
		t.Errorf("unexpected board settings %+v", cfg)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.Path != "" {
		t.Errorf("sqlite without a path should use its own default, got %+v", cfg.Storage)
	}
	if !cfg.Autopilot.Enabled || cfg.Seed != 7 {
		t.Errorf("autopilot or seed not applied: %+v", cfg)
	}
}
