package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/exp/rand"

	"snake-boom/game/types"
)

// Action is a move relative to the current heading.
type Action int

const (
	Straight Action = iota
	TurnLeft
	TurnRight

	numActions
)

func (a Action) String() string {
	switch a {
	case Straight:
		return "straight"
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	default:
		return "unknown"
	}
}

// Apply returns the absolute direction a produces from heading.
func (a Action) Apply(heading types.Direction) types.Direction {
	switch a {
	case TurnLeft:
		return heading.TurnLeft()
	case TurnRight:
		return heading.TurnRight()
	default:
		return heading
	}
}

// QTable maps a state key to the value of each action.
type QTable map[string][numActions]float64

type QLearning struct {
	QTable       QTable
	LearningRate float64
	Discount     float64
	Epsilon      float64
	TotalReward  float64
	Updates      int

	mu  sync.RWMutex
	rng *rand.Rand
}

func NewQLearning(seed uint64) *QLearning {
	return &QLearning{
		QTable:       make(QTable),
		LearningRate: 0.1,
		Discount:     0.9,
		Epsilon:      0.1,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// GetAction picks a random action with probability Epsilon and the best
// known one otherwise.
func (q *QLearning) GetAction(s State) Action {
	if q.rng.Float64() < q.Epsilon {
		return Action(q.rng.Intn(int(numActions)))
	}
	return q.BestAction(s)
}

// BestAction returns the highest valued action for s. Unknown states and
// ties favour going straight.
func (q *QLearning) BestAction(s State) Action {
	q.mu.RLock()
	defer q.mu.RUnlock()

	values := q.QTable[s.Key()]
	best := Straight
	for a := Straight; a < numActions; a++ {
		if values[a] > values[best] {
			best = a
		}
	}
	return best
}

// Value returns the stored value of action a in state s.
func (q *QLearning) Value(s State, a Action) float64 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.QTable[s.Key()][a]
}

// Update applies one Q-learning step. A terminal transition has no future
// value.
func (q *QLearning) Update(s State, a Action, reward float64, next State, terminal bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	key := s.Key()
	values := q.QTable[key]

	maxNextQ := 0.0
	if !terminal {
		maxNextQ = math.Inf(-1)
		for _, v := range q.QTable[next.Key()] {
			if v > maxNextQ {
				maxNextQ = v
			}
		}
	}

	current := values[a]
	values[a] = current + q.LearningRate*(reward+q.Discount*maxNextQ-current)
	q.QTable[key] = values

	q.TotalReward += reward
	q.Updates++
}

// Save writes the table as JSON, replacing the file atomically.
func (q *QLearning) Save(path string) error {
	q.mu.RLock()
	data, err := json.MarshalIndent(q.QTable, "", "  ")
	q.mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load replaces the table with the one stored at path. A missing file
// leaves the table empty and is not an error.
func (q *QLearning) Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	table := make(QTable)
	if err := json.Unmarshal(data, &table); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	q.mu.Lock()
	q.QTable = table
	q.mu.Unlock()
	return nil
}

// States returns the number of distinct states learned so far.
func (q *QLearning) States() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.QTable)
}
