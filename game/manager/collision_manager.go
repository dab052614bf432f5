package manager

import (
	"snake-boom/game/entity"
	"snake-boom/game/types"
)

type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// CheckCollision classifies a candidate head cell. Checks run in a fixed
// order and the first match wins: wall, self, armed hazard.
func (cm *CollisionManager) CheckCollision(pos types.Cell, snake *entity.Snake, hazard *HazardManager) types.CollisionType {
	if cm.isWallCollision(pos) {
		return types.WallCollision
	}

	if snake.Contains(pos) {
		return types.SelfCollision
	}

	if hazard != nil && hazard.ArmedAt(pos) {
		return types.BoomCollision
	}

	return types.NoCollision
}

// isWallCollision checks if a position collides with walls
func (cm *CollisionManager) isWallCollision(pos types.Cell) bool {
	return !cm.grid.Contains(pos)
}

// ValidateSpawnPosition checks if a position is free for a new entity: on
// the grid, off the snake, and not rejected by any of the occupied checks.
func (cm *CollisionManager) ValidateSpawnPosition(pos types.Cell, snake *entity.Snake, occupied ...func(types.Cell) bool) bool {
	if cm.isWallCollision(pos) {
		return false
	}

	if snake != nil && snake.Contains(pos) {
		return false
	}

	for _, taken := range occupied {
		if taken != nil && taken(pos) {
			return false
		}
	}

	return true
}
