package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"snake-boom/game"
)

func runs(scores ...int) []game.RunRecord {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]game.RunRecord, len(scores))
	for i, s := range scores {
		start := base.Add(time.Duration(i) * time.Minute)
		out[i] = game.RunRecord{
			ID:        string(rune('a' + i)),
			Score:     s,
			StartTime: start,
			EndTime:   start.Add(time.Duration(i+1) * time.Second),
		}
	}
	return out
}

func TestEmpty(t *testing.T) {
	s := New(0)
	if s.GamesPlayed() != 0 || s.AverageScore() != 0 || s.MedianScore() != 0 || s.MaxScore() != 0 {
		t.Error("empty stats should be all zero")
	}
}

func TestSingleRuns(t *testing.T) {
	s := FromRuns(runs(10, 30, 20), 10)

	if got := s.GamesPlayed(); got != 3 {
		t.Errorf("GamesPlayed = %d, want 3", got)
	}
	if got := s.AverageScore(); got != 20 {
		t.Errorf("AverageScore = %v, want 20", got)
	}
	if got := s.MedianScore(); got != 20 {
		t.Errorf("MedianScore = %v, want 20", got)
	}
	if got := s.MaxScore(); got != 30 {
		t.Errorf("MaxScore = %d, want 30", got)
	}
	if got := s.AverageDuration(); got != 2 {
		t.Errorf("AverageDuration = %v, want 2", got)
	}
	if got := s.MaxDuration(); got != 3 {
		t.Errorf("MaxDuration = %v, want 3", got)
	}
}

func TestGrouping(t *testing.T) {
	s := FromRuns(runs(1, 2, 3, 4, 5, 6, 7), 3)

	recs := s.Records()
	// two groups of three and one single run
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(recs), recs)
	}
	first := recs[0]
	if first.CompressionIndex != 1 || first.GamesCount != 3 {
		t.Errorf("unexpected first group %+v", first)
	}
	if first.AverageScore != 2 || first.MinScore != 1 || first.MaxScore != 3 {
		t.Errorf("unexpected group scores %+v", first)
	}
	if recs[2].CompressionIndex != 0 || recs[2].Score != 7 {
		t.Errorf("the newest run should stay ungrouped, got %+v", recs[2])
	}

	if got := s.GamesPlayed(); got != 7 {
		t.Errorf("GamesPlayed = %d, want 7", got)
	}
	if got := s.AverageScore(); got != 4 {
		t.Errorf("AverageScore = %v, want 4", got)
	}
	if got := s.MaxScore(); got != 7 {
		t.Errorf("MaxScore = %d, want 7", got)
	}
}

func TestGroupingCascades(t *testing.T) {
	scores := make([]int, 9)
	for i := range scores {
		scores[i] = i
	}
	s := FromRuns(runs(scores...), 3)

	recs := s.Records()
	if len(recs) != 1 || recs[0].CompressionIndex != 2 || recs[0].GamesCount != 9 {
		t.Fatalf("expected one second level group, got %+v", recs)
	}
	if recs[0].MinScore != 0 || recs[0].MaxScore != 8 {
		t.Errorf("unexpected range %+v", recs[0])
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	if err := FromRuns(runs(5, 15), 10).Report(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"games played:    2", "average score:   10.0", "best score:      15"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
