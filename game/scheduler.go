package game

import (
	"time"

	"snake-boom/clock"
	"snake-boom/game/types"
)

// slot names one cancellable scheduled process. Each slot holds at most one
// pending timer; arming a slot replaces what it held.
type slot int

const (
	slotMove slot = iota
	slotElapsed
	slotHazardSpawn
	slotHazardPhase
	slotBoost
	slotFreeze
	slotSpawnBase
	slotExpireBase = slotSpawnBase + slot(types.NumFoodKinds)
	numSlots       = slotExpireBase + slot(types.NumFoodKinds)
)

func spawnSlot(kind types.FoodKind) slot  { return slotSpawnBase + slot(kind) }
func expireSlot(kind types.FoodKind) slot { return slotExpireBase + slot(kind) }

// runClocks are suspended by pause and freeze.
var runClocks = []slot{slotMove, slotElapsed, slotHazardSpawn}

// scheduler tracks one timer and one token per slot. A callback only runs
// when its token is still current, so a timer that fired while its slot was
// being cancelled does nothing.
type scheduler struct {
	clock  clock.Clock
	timers [numSlots]clock.Timer
	tokens [numSlots]uint64
	seq    uint64
}

func newScheduler(c clock.Clock) *scheduler {
	return &scheduler{clock: c}
}

func (s *scheduler) cancel(sl slot) {
	if s.timers[sl] != nil {
		s.timers[sl].Stop()
		s.timers[sl] = nil
	}
	s.tokens[sl] = 0
}

func (s *scheduler) cancelAll() {
	for sl := slot(0); sl < numSlots; sl++ {
		s.cancel(sl)
	}
}

// arm replaces the slot's timer. guard must be called by the callback with
// the returned token before touching state.
func (s *scheduler) arm(sl slot, d time.Duration, fire func(token uint64)) {
	s.cancel(sl)
	s.seq++
	token := s.seq
	s.tokens[sl] = token
	s.timers[sl] = s.clock.AfterFunc(d, func() { fire(token) })
}

// claim reports whether token is still current for sl and, if so, marks
// the slot as fired.
func (s *scheduler) claim(sl slot, token uint64) bool {
	if s.tokens[sl] != token || token == 0 {
		return false
	}
	s.timers[sl] = nil
	s.tokens[sl] = 0
	return true
}
