package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"snake-boom/game"
)

var errCorrupt = errors.New("corrupt store file")

type fileState struct {
	HighScore int              `json:"highScore"`
	History   []game.RunRecord `json:"history"`
}

// FileStore keeps the high score and recent runs in one JSON file. Every
// call reads the file, so several processes sharing it see each other's
// writes.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
}

func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{
		path: path,
		log:  log.With().Str("component", "storage").Logger(),
	}
}

// HighScore returns 0 when the file does not exist yet.
func (s *FileStore) HighScore() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return 0, err
	}
	return state.HighScore, nil
}

func (s *FileStore) SetHighScore(score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadForWrite()
	if err != nil {
		return err
	}
	state.HighScore = score
	return s.save(state)
}

// RecordRun appends r to the history, dropping the oldest entries past
// MaxHistory.
func (s *FileStore) RecordRun(r game.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadForWrite()
	if err != nil {
		return err
	}
	state.History = append(state.History, r)
	if len(state.History) > MaxHistory {
		state.History = state.History[len(state.History)-MaxHistory:]
	}
	return s.save(state)
}

func (s *FileStore) Runs() ([]game.RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return nil, err
	}
	return state.History, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) load() (fileState, error) {
	var state fileState

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return state, nil
	}
	if err != nil {
		return state, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return fileState{}, fmt.Errorf("%w: failed to parse %s: %v", errCorrupt, s.path, err)
	}
	return state, nil
}

// loadForWrite is load for callers about to save. A corrupt file is moved
// aside to path.bad so the next save starts fresh without losing it.
func (s *FileStore) loadForWrite() (fileState, error) {
	state, err := s.load()
	if !errors.Is(err, errCorrupt) {
		return state, err
	}
	bad := s.path + ".bad"
	if rerr := os.Rename(s.path, bad); rerr != nil {
		return fileState{}, fmt.Errorf("failed to move aside corrupt %s: %w", s.path, rerr)
	}
	s.log.Warn().Err(err).Str("moved_to", bad).Msg("store file was corrupt, starting a new one")
	return fileState{}, nil
}

// save writes through a temp file in the same directory so a crash never
// leaves a half-written file behind.
func (s *FileStore) save(state fileState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
