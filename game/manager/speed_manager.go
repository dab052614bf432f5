package manager

import (
	"time"
)

// SpeedManager owns the movement interval. The base interval shrinks with
// every normal fruit; a boost scales the base without replacing it, so
// ending the boost always lands back on the current base.
type SpeedManager struct {
	initial time.Duration
	step    time.Duration
	min     time.Duration
	factor  float64

	base    time.Duration
	boosted bool
}

func NewSpeedManager(initial, step, min time.Duration, factor float64) *SpeedManager {
	sm := &SpeedManager{
		initial: initial,
		step:    step,
		min:     min,
		factor:  factor,
	}
	sm.Reset()
	return sm
}

// Reset restores the initial interval and drops any boost.
func (sm *SpeedManager) Reset() {
	sm.base = sm.clamp(sm.initial)
	sm.boosted = false
}

// Interval is the effective movement period.
func (sm *SpeedManager) Interval() time.Duration {
	if !sm.boosted {
		return sm.base
	}
	// truncated to whole milliseconds
	scaled := time.Duration(float64(sm.base.Milliseconds())*sm.factor) * time.Millisecond
	return sm.clamp(scaled)
}

// Base is the interval the game returns to when a boost ends.
func (sm *SpeedManager) Base() time.Duration {
	return sm.base
}

func (sm *SpeedManager) Boosted() bool {
	return sm.boosted
}

// SpeedUp applies one normal-fruit step to the base interval.
func (sm *SpeedManager) SpeedUp() {
	sm.base = sm.clamp(sm.base - sm.step)
}

// Boost turns the boost on. A second call while boosted changes nothing,
// boosts never compound.
func (sm *SpeedManager) Boost() {
	sm.boosted = true
}

// EndBoost turns the boost off.
func (sm *SpeedManager) EndBoost() {
	sm.boosted = false
}

func (sm *SpeedManager) clamp(d time.Duration) time.Duration {
	if d < sm.min {
		return sm.min
	}
	return d
}
