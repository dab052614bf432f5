package game

import (
	"time"

	"snake-boom/game/types"
)

// Store persists the high score across restarts.
type Store interface {
	HighScore() (int, error)
	SetHighScore(score int) error
}

// RunRecord describes one finished run.
type RunRecord struct {
	ID        string          `json:"id"`
	Score     int             `json:"score"`
	Reason    types.EndReason `json:"reason"`
	StartTime time.Time       `json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
	Elapsed   int             `json:"elapsed"`
}

// Duration is the wall-clock length of the run.
func (r RunRecord) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// RunRecorder is implemented by stores that keep a run history.
type RunRecorder interface {
	RecordRun(RunRecord) error
}

// HistoryReader is implemented by stores that can list past runs.
type HistoryReader interface {
	Runs() ([]RunRecord, error)
}

type memoryStore struct {
	high int
}

func (m *memoryStore) HighScore() (int, error) { return m.high, nil }

func (m *memoryStore) SetHighScore(score int) error {
	m.high = score
	return nil
}
