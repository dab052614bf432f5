package manager

import (
	"snake-boom/game/types"
)

// HazardManager tracks the boom through its phases. Only an armed hazard
// occupies a cell.
type HazardManager struct {
	phase types.HazardPhase
	cell  types.Cell
}

func NewHazardManager() *HazardManager {
	return &HazardManager{phase: types.HazardIdle}
}

func (hm *HazardManager) Phase() types.HazardPhase {
	return hm.phase
}

// Warn enters the cosmetic warning phase. Any armed cell is dropped.
func (hm *HazardManager) Warn() {
	hm.phase = types.HazardWarning
	hm.cell = types.Cell{}
}

// Arm makes the hazard lethal at cell.
func (hm *HazardManager) Arm(cell types.Cell) {
	hm.phase = types.HazardArmed
	hm.cell = cell
}

// Clear returns the hazard to idle.
func (hm *HazardManager) Clear() {
	hm.phase = types.HazardIdle
	hm.cell = types.Cell{}
}

// Cell returns the armed cell.
func (hm *HazardManager) Cell() (types.Cell, bool) {
	if hm.phase != types.HazardArmed {
		return types.Cell{}, false
	}
	return hm.cell, true
}

// ArmedAt reports whether cell holds an armed hazard.
func (hm *HazardManager) ArmedAt(cell types.Cell) bool {
	return hm.phase == types.HazardArmed && hm.cell == cell
}
