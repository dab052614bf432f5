// Package stats summarises the run history. Old runs are folded into groups
// of GroupSize so long histories stay small enough to chart.
package stats

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"snake-boom/game"
)

const GroupSize = 10

// Record is a single run or, when CompressionIndex > 0, a group of runs.
type Record struct {
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Score            int       `json:"score"`
	CompressionIndex int       `json:"compressionIndex"`
	GamesCount       int       `json:"gamesCount"`
	AverageScore     float64   `json:"averageScore"`
	MedianScore      float64   `json:"medianScore"`
	MaxScore         int       `json:"maxScore"`
	MinScore         int       `json:"minScore"`
	AverageDuration  float64   `json:"averageDuration"`
	MaxDuration      float64   `json:"maxDuration"`
	MinDuration      float64   `json:"minDuration"`
}

// Stats holds the grouped history.
type Stats struct {
	groupSize int
	records   []Record
	mu        sync.RWMutex
}

func New(groupSize int) *Stats {
	if groupSize < 2 {
		groupSize = GroupSize
	}
	return &Stats{groupSize: groupSize}
}

// FromRuns builds stats from a stored history.
func FromRuns(runs []game.RunRecord, groupSize int) *Stats {
	s := New(groupSize)
	for _, r := range runs {
		s.Add(r)
	}
	return s
}

// Add records one finished run.
func (s *Stats) Add(r game.RunRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := r.Duration().Seconds()
	s.records = append(s.records, Record{
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		Score:           r.Score,
		GamesCount:      1,
		AverageScore:    float64(r.Score),
		MedianScore:     float64(r.Score),
		MaxScore:        r.Score,
		MinScore:        r.Score,
		AverageDuration: d,
		MaxDuration:     d,
		MinDuration:     d,
	})
	s.group()
}

// group folds every full set of groupSize records at one compression level
// into a single record at the next level. Records arrive oldest first, so
// each level stays in chronological order.
func (s *Stats) group() {
	for level := 0; ; level++ {
		var same, rest []Record
		for _, r := range s.records {
			if r.CompressionIndex == level {
				same = append(same, r)
			} else {
				rest = append(rest, r)
			}
		}
		if len(same) < s.groupSize {
			return
		}

		full := len(same) / s.groupSize * s.groupSize
		for i := 0; i < full; i += s.groupSize {
			rest = append(rest, merge(same[i:i+s.groupSize], level+1))
		}
		s.records = append(rest, same[full:]...)
	}
}

func merge(group []Record, level int) Record {
	out := Record{
		StartTime:        group[0].StartTime,
		EndTime:          group[0].EndTime,
		CompressionIndex: level,
		MaxScore:         group[0].MaxScore,
		MinScore:         group[0].MinScore,
		MaxDuration:      group[0].MaxDuration,
		MinDuration:      group[0].MinDuration,
	}

	var totalScore, totalDuration float64
	var medians []float64
	for _, g := range group {
		out.MaxScore = max(out.MaxScore, g.MaxScore)
		out.MinScore = min(out.MinScore, g.MinScore)
		out.MaxDuration = max(out.MaxDuration, g.MaxDuration)
		out.MinDuration = min(out.MinDuration, g.MinDuration)
		if g.StartTime.Before(out.StartTime) {
			out.StartTime = g.StartTime
		}
		if g.EndTime.After(out.EndTime) {
			out.EndTime = g.EndTime
		}
		totalScore += g.AverageScore * float64(g.GamesCount)
		totalDuration += g.AverageDuration * float64(g.GamesCount)
		out.GamesCount += g.GamesCount
		// a group's median stands in for each of its games
		for i := 0; i < g.GamesCount; i++ {
			medians = append(medians, g.MedianScore)
		}
	}
	out.AverageScore = totalScore / float64(out.GamesCount)
	out.AverageDuration = totalDuration / float64(out.GamesCount)
	out.MedianScore = median(medians)
	return out
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	n := len(values)
	if n%2 == 0 {
		return (values[n/2-1] + values[n/2]) / 2
	}
	return values[n/2]
}

// Records returns the records oldest first.
func (s *Stats) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

func (s *Stats) GamesPlayed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, r := range s.records {
		total += r.GamesCount
	}
	return total
}

func (s *Stats) AverageScore() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	var games int
	for _, r := range s.records {
		total += r.AverageScore * float64(r.GamesCount)
		games += r.GamesCount
	}
	if games == 0 {
		return 0
	}
	return total / float64(games)
}

func (s *Stats) MedianScore() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []float64
	for _, r := range s.records {
		for i := 0; i < r.GamesCount; i++ {
			all = append(all, r.MedianScore)
		}
	}
	return median(all)
}

func (s *Stats) MaxScore() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best := 0
	for _, r := range s.records {
		best = max(best, r.MaxScore)
	}
	return best
}

// AverageDuration is in seconds.
func (s *Stats) AverageDuration() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	var games int
	for _, r := range s.records {
		total += r.AverageDuration * float64(r.GamesCount)
		games += r.GamesCount
	}
	if games == 0 {
		return 0
	}
	return total / float64(games)
}

// MaxDuration is in seconds.
func (s *Stats) MaxDuration() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var longest float64
	for _, r := range s.records {
		longest = max(longest, r.MaxDuration)
	}
	return longest
}

// Report writes a plain text summary to w.
func (s *Stats) Report(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"games played:    %d\n"+
			"average score:   %.1f\n"+
			"median score:    %.1f\n"+
			"best score:      %d\n"+
			"average length:  %.1fs\n"+
			"longest run:     %.1fs\n",
		s.GamesPlayed(), s.AverageScore(), s.MedianScore(), s.MaxScore(),
		s.AverageDuration(), s.MaxDuration())
	return err
}
