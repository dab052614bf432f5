package manager

import (
	"golang.org/x/exp/rand"

	"snake-boom/game/entity"
	"snake-boom/game/types"
)

// FoodItem is one fruit on the board.
type FoodItem struct {
	Kind types.FoodKind `json:"kind"`
	Cell types.Cell     `json:"cell"`
}

// FoodManager keeps at most one item per food kind.
type FoodManager struct {
	grid         types.Grid
	slots        [types.NumFoodKinds]*types.Cell
	rng          *rand.Rand
	maxAttempts  int
	collisionMgr *CollisionManager
}

func NewFoodManager(grid types.Grid, collisionMgr *CollisionManager, rng *rand.Rand, maxAttempts int) *FoodManager {
	if maxAttempts <= 0 {
		maxAttempts = 4 * grid.Area()
	}
	return &FoodManager{
		grid:         grid,
		rng:          rng,
		maxAttempts:  maxAttempts,
		collisionMgr: collisionMgr,
	}
}

// GenerateFood draws uniform random cells until one passes
// ValidateSpawnPosition. It gives up after maxAttempts draws.
func (fm *FoodManager) GenerateFood(snake *entity.Snake, occupied ...func(types.Cell) bool) (types.Cell, bool) {
	for i := 0; i < fm.maxAttempts; i++ {
		food := types.Cell{
			Row: fm.rng.Intn(fm.grid.Rows),
			Col: fm.rng.Intn(fm.grid.Cols),
		}

		if fm.collisionMgr.ValidateSpawnPosition(food, snake, occupied...) {
			return food, true
		}
	}
	return types.Cell{}, false
}

// Spawn places kind at a random free cell, replacing any item of the same
// kind. Cells held by other food items are never chosen.
func (fm *FoodManager) Spawn(kind types.FoodKind, snake *entity.Snake, occupied ...func(types.Cell) bool) (types.Cell, bool) {
	fm.Remove(kind)
	cell, ok := fm.GenerateFood(snake, append(occupied, fm.Occupied)...)
	if !ok {
		return types.Cell{}, false
	}
	fm.Place(kind, cell)
	return cell, true
}

// Place puts kind at cell unconditionally.
func (fm *FoodManager) Place(kind types.FoodKind, cell types.Cell) {
	c := cell
	fm.slots[kind] = &c
}

func (fm *FoodManager) Remove(kind types.FoodKind) {
	fm.slots[kind] = nil
}

// Get returns the cell of kind when it is on the board.
func (fm *FoodManager) Get(kind types.FoodKind) (types.Cell, bool) {
	if fm.slots[kind] == nil {
		return types.Cell{}, false
	}
	return *fm.slots[kind], true
}

// At returns the food kind occupying cell, if any. Lower kinds win when two
// items share a cell, which only happens through Place.
func (fm *FoodManager) At(cell types.Cell) (types.FoodKind, bool) {
	for kind, c := range fm.slots {
		if c != nil && *c == cell {
			return types.FoodKind(kind), true
		}
	}
	return 0, false
}

// Occupied reports whether any food item sits on cell.
func (fm *FoodManager) Occupied(cell types.Cell) bool {
	_, ok := fm.At(cell)
	return ok
}

// Clear removes every item.
func (fm *FoodManager) Clear() {
	for kind := range fm.slots {
		fm.slots[kind] = nil
	}
}

// ClearPowerFruits removes everything but the normal food.
func (fm *FoodManager) ClearPowerFruits() {
	for _, kind := range types.PowerFruits {
		fm.slots[kind] = nil
	}
}

// GetFoodList returns every item on the board ordered by kind.
func (fm *FoodManager) GetFoodList() []FoodItem {
	list := make([]FoodItem, 0, len(fm.slots))
	for kind, c := range fm.slots {
		if c != nil {
			list = append(list, FoodItem{Kind: types.FoodKind(kind), Cell: *c})
		}
	}
	return list
}
