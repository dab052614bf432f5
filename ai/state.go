package ai

import (
	"fmt"

	"snake-boom/game"
	"snake-boom/game/manager"
	"snake-boom/game/types"
)

// State is what the agent sees: where the target fruit lies relative to the
// heading and which relative moves are immediately lethal.
type State struct {
	// FoodAhead and FoodSide are -1, 0 or 1. Positive means ahead and to
	// the right of the heading.
	FoodAhead int
	FoodSide  int
	Danger    [numActions]bool
	Distance  int
}

// Key encodes the discrete part of the state. Distance is left out so
// similar situations share values.
func (s State) Key() string {
	return fmt.Sprintf("%d,%d,%d%d%d", s.FoodAhead, s.FoodSide,
		boolToInt(s.Danger[Straight]), boolToInt(s.Danger[TurnLeft]), boolToInt(s.Danger[TurnRight]))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Observe builds the state for snap. The target is the closest fruit.
func Observe(snap game.Snapshot) State {
	var s State
	head, ok := snap.Head()
	if !ok {
		return s
	}
	heading := snap.Direction
	if !heading.Valid() {
		heading = types.RIGHT
	}

	blocked := make(map[types.Cell]bool, len(snap.Snake))
	// the tail cell is still occupied when the head moves, collisions are
	// checked against the whole body
	for _, c := range snap.Snake {
		blocked[c] = true
	}
	if snap.Hazard.Cell != nil {
		blocked[*snap.Hazard.Cell] = true
	}
	for a := Straight; a < numActions; a++ {
		next := head.Add(a.Apply(heading))
		s.Danger[a] = !snap.Grid.Contains(next) || blocked[next]
	}

	target, found := closestFood(head, snap.Food)
	if !found {
		return s
	}
	dr, dc := target.Row-head.Row, target.Col-head.Col
	fr, fc := heading.Delta()
	rr, rc := heading.TurnRight().Delta()
	s.FoodAhead = sign(dr*fr + dc*fc)
	s.FoodSide = sign(dr*rr + dc*rc)
	s.Distance = abs(dr) + abs(dc)
	return s
}

func closestFood(head types.Cell, food []manager.FoodItem) (types.Cell, bool) {
	best, bestDist := types.Cell{}, -1
	for _, f := range food {
		d := abs(f.Cell.Row-head.Row) + abs(f.Cell.Col-head.Col)
		if bestDist < 0 || d < bestDist {
			best, bestDist = f.Cell, d
		}
	}
	return best, bestDist >= 0
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
