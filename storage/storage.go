// Package storage persists the high score and the run history.
package storage

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"snake-boom/config"
	"snake-boom/game"
)

// MaxHistory caps how many runs the file store keeps.
const MaxHistory = 200

// Store is a high score store that also keeps a run history.
type Store interface {
	game.Store
	game.RunRecorder
	game.HistoryReader
	Close() error
}

// Open returns the store selected by cfg. An empty path falls back to a
// default file under config.DataDir.
func Open(cfg config.Storage, log zerolog.Logger) (Store, error) {
	path := cfg.Path
	switch cfg.Backend {
	case "file", "":
		if path == "" {
			path = filepath.Join(config.DataDir, "highscore.json")
		}
		return NewFileStore(path, log), nil
	case "sqlite":
		if path == "" {
			path = filepath.Join(config.DataDir, "snake.db")
		}
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case "none":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Memory keeps everything in process. Nothing survives a restart.
type Memory struct {
	mu   sync.Mutex
	high int
	runs []game.RunRecord
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) HighScore() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.high, nil
}

func (m *Memory) SetHighScore(score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.high = score
	return nil
}

func (m *Memory) RecordRun(r game.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, r)
	return nil
}

func (m *Memory) Runs() ([]game.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]game.RunRecord, len(m.runs))
	copy(out, m.runs)
	return out, nil
}

func (m *Memory) Close() error { return nil }
