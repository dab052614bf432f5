package main

import (
	"fmt"
	"io"

	"snake-boom/game"
	"snake-boom/stats"
)

// printStats writes the history summary and the best runs to w.
func printStats(w io.Writer, history game.HistoryReader) error {
	runs, err := history.Runs()
	if err != nil {
		return fmt.Errorf("failed to read run history: %w", err)
	}
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no runs recorded yet")
		return err
	}

	if err := stats.FromRuns(runs, stats.GroupSize).Report(w); err != nil {
		return err
	}

	last := runs[len(runs)-1]
	_, err = fmt.Fprintf(w, "last run:        %d points, %s, %.0fs\n",
		last.Score, last.Reason, last.Duration().Seconds())
	return err
}
