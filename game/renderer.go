package game

import (
	"time"

	"snake-boom/game/manager"
	"snake-boom/game/types"
)

// HazardView is the hazard as shown to renderers.
type HazardView struct {
	Phase types.HazardPhase `json:"phase"`
	Cell  *types.Cell       `json:"cell,omitempty"`
	// Remaining is the time left in the current phase.
	Remaining time.Duration `json:"remaining"`
}

// Summary is attached to the final snapshot of a run.
type Summary struct {
	RunID        string          `json:"run_id"`
	Score        int             `json:"score"`
	HighScore    int             `json:"high_score"`
	NewHighScore bool            `json:"new_high_score"`
	Reason       types.EndReason `json:"reason"`
	Elapsed      int             `json:"elapsed"`
}

// Snapshot is an immutable copy of the engine state.
type Snapshot struct {
	Seq       uint64             `json:"seq"`
	RunID     string             `json:"run_id"`
	Grid      types.Grid         `json:"grid"`
	State     types.RunState     `json:"state"`
	Snake     []types.Cell       `json:"snake"`
	Direction types.Direction    `json:"direction"`
	Food      []manager.FoodItem `json:"food"`
	Hazard    HazardView         `json:"hazard"`
	Score     int                `json:"score"`
	HighScore int                `json:"high_score"`
	Elapsed   int                `json:"elapsed"`
	Interval  time.Duration      `json:"interval"`
	Boosted   bool               `json:"boosted"`
	Cue       types.Cue          `json:"cue"`
	Shake     bool               `json:"shake"`
	Summary   *Summary           `json:"summary,omitempty"`
}

// Head returns the snake head, if there is a snake.
func (s Snapshot) Head() (types.Cell, bool) {
	if len(s.Snake) == 0 {
		return types.Cell{}, false
	}
	return s.Snake[0], true
}

// FoodAt returns the kind of food at cell, if any.
func (s Snapshot) FoodAt(cell types.Cell) (types.FoodKind, bool) {
	for _, f := range s.Food {
		if f.Cell == cell {
			return f.Kind, true
		}
	}
	return 0, false
}

// Renderer receives a snapshot after every engine mutation. Render is called
// while the engine is locked: it must return quickly and must not call back
// into the engine on the same goroutine.
type Renderer interface {
	Render(Snapshot)
}

// MultiRenderer fans a snapshot out to several renderers in order.
type MultiRenderer []Renderer

func (m MultiRenderer) Render(s Snapshot) {
	for _, r := range m {
		if r != nil {
			r.Render(s)
		}
	}
}

type nopRenderer struct{}

func (nopRenderer) Render(Snapshot) {}
