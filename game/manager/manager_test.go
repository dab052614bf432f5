package manager

import (
	"testing"
	"time"

	"golang.org/x/exp/rand"

	"snake-boom/game/entity"
	"snake-boom/game/types"
)

func TestCheckCollisionOrder(t *testing.T) {
	grid := types.Grid{Rows: 10, Cols: 10}
	cm := NewCollisionManager(grid)
	snake := entity.NewSnake(types.Cell{Row: 5, Col: 5}, 3)
	hazard := NewHazardManager()
	hazard.Arm(types.Cell{Row: 5, Col: 4})

	tests := []struct {
		name string
		pos  types.Cell
		want types.CollisionType
	}{
		{"wall above", types.Cell{Row: -1, Col: 5}, types.WallCollision},
		{"wall right", types.Cell{Row: 5, Col: 10}, types.WallCollision},
		{"self beats armed hazard on the same cell", types.Cell{Row: 5, Col: 4}, types.SelfCollision},
		{"free cell", types.Cell{Row: 0, Col: 0}, types.NoCollision},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cm.CheckCollision(tt.pos, snake, hazard); got != tt.want {
				t.Errorf("CheckCollision(%+v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}

	hazard.Arm(types.Cell{Row: 2, Col: 2})
	if got := cm.CheckCollision(types.Cell{Row: 2, Col: 2}, snake, hazard); got != types.BoomCollision {
		t.Errorf("expected boom collision, got %v", got)
	}

	hazard.Warn()
	if got := cm.CheckCollision(types.Cell{Row: 2, Col: 2}, snake, hazard); got != types.NoCollision {
		t.Errorf("warning hazard must not be lethal, got %v", got)
	}
}

func TestFoodManagerSpawnAvoidsSnakeAndOtherFood(t *testing.T) {
	grid := types.Grid{Rows: 6, Cols: 6}
	cm := NewCollisionManager(grid)
	fm := NewFoodManager(grid, cm, rand.New(rand.NewSource(7)), 0)
	snake := entity.NewSnake(types.Cell{Row: 3, Col: 3}, 3)
	blocked := types.Cell{Row: 0, Col: 0}

	for i := 0; i < 200; i++ {
		fm.Clear()
		fm.Place(types.FoodBig, types.Cell{Row: 1, Col: 1})

		cell, ok := fm.Spawn(types.FoodNormal, snake, func(c types.Cell) bool { return c == blocked })
		if !ok {
			t.Fatal("spawn failed on a mostly empty grid")
		}
		if snake.Contains(cell) {
			t.Fatalf("spawned on snake at %+v", cell)
		}
		if cell == blocked || cell == (types.Cell{Row: 1, Col: 1}) {
			t.Fatalf("spawned on an occupied cell %+v", cell)
		}
	}
}

func TestFoodManagerSpawnGivesUpOnFullGrid(t *testing.T) {
	grid := types.Grid{Rows: 6, Cols: 6}
	cm := NewCollisionManager(grid)
	fm := NewFoodManager(grid, cm, rand.New(rand.NewSource(1)), 50)

	everything := func(types.Cell) bool { return true }
	if _, ok := fm.Spawn(types.FoodGolden, nil, everything); ok {
		t.Fatal("expected spawn to fail when every cell is taken")
	}
	if _, ok := fm.Get(types.FoodGolden); ok {
		t.Error("failed spawn must leave the slot empty")
	}
}

func TestFoodManagerSlots(t *testing.T) {
	grid := types.Grid{Rows: 8, Cols: 8}
	fm := NewFoodManager(grid, NewCollisionManager(grid), rand.New(rand.NewSource(3)), 0)

	fm.Place(types.FoodNormal, types.Cell{Row: 1, Col: 1})
	fm.Place(types.FoodSpeed, types.Cell{Row: 2, Col: 2})
	fm.Place(types.FoodFreeze, types.Cell{Row: 3, Col: 3})

	if kind, ok := fm.At(types.Cell{Row: 2, Col: 2}); !ok || kind != types.FoodSpeed {
		t.Errorf("expected speed fruit at 2,2, got %v %v", kind, ok)
	}
	if len(fm.GetFoodList()) != 3 {
		t.Errorf("expected 3 items, got %d", len(fm.GetFoodList()))
	}

	fm.ClearPowerFruits()
	list := fm.GetFoodList()
	if len(list) != 1 || list[0].Kind != types.FoodNormal {
		t.Errorf("expected only normal food to remain, got %+v", list)
	}
}

func TestSpeedManagerFloorsAtMinimum(t *testing.T) {
	sm := NewSpeedManager(400*time.Millisecond, 12*time.Millisecond, 80*time.Millisecond, 0.6)

	for i := 0; i < 100; i++ {
		sm.SpeedUp()
		if sm.Interval() < 80*time.Millisecond {
			t.Fatalf("interval dropped to %v after %d steps", sm.Interval(), i+1)
		}
	}
	sm.Boost()
	if sm.Interval() != 80*time.Millisecond {
		t.Errorf("boost below the minimum should clamp, got %v", sm.Interval())
	}
}

func TestSpeedManagerBoostDoesNotCompound(t *testing.T) {
	sm := NewSpeedManager(400*time.Millisecond, 12*time.Millisecond, 80*time.Millisecond, 0.6)

	sm.Boost()
	first := sm.Interval()
	if first != 240*time.Millisecond {
		t.Fatalf("expected 240ms boosted interval, got %v", first)
	}
	sm.Boost()
	if sm.Interval() != first {
		t.Errorf("second boost compounded: %v", sm.Interval())
	}

	sm.SpeedUp()
	if sm.Base() != 388*time.Millisecond {
		t.Errorf("expected base 388ms, got %v", sm.Base())
	}

	sm.EndBoost()
	if sm.Interval() != 388*time.Millisecond {
		t.Errorf("ending the boost should restore the base, got %v", sm.Interval())
	}
}

func TestHazardPhases(t *testing.T) {
	hm := NewHazardManager()
	if hm.Phase() != types.HazardIdle {
		t.Fatalf("expected idle, got %v", hm.Phase())
	}

	hm.Warn()
	if _, ok := hm.Cell(); ok {
		t.Error("warning hazard must not occupy a cell")
	}

	hm.Arm(types.Cell{Row: 4, Col: 2})
	if c, ok := hm.Cell(); !ok || c != (types.Cell{Row: 4, Col: 2}) {
		t.Errorf("expected armed at 4,2, got %+v %v", c, ok)
	}

	hm.Clear()
	if hm.ArmedAt(types.Cell{Row: 4, Col: 2}) {
		t.Error("cleared hazard still armed")
	}
}
