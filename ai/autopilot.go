package ai

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"snake-boom/game"
	"snake-boom/game/types"
)

// Driver is the part of the engine the autopilot steers.
type Driver interface {
	RequestDirection(types.Direction) bool
	Restart()
}

const (
	rewardFood   = 1.0
	rewardDeath  = -1.0
	rewardCloser = 0.5
	rewardAway   = -0.3
)

type step struct {
	runID string
	state State
	act   Action
	score int
}

// Autopilot plays the game with a Q-learning agent. It receives snapshots
// as a game.Renderer and acts from its own goroutine, so the engine lock is
// never held while it decides.
type Autopilot struct {
	agent     *QLearning
	driver    Driver
	log       zerolog.Logger
	tablePath string

	// AutoRestart starts a new run RestartDelay after each end.
	AutoRestart  bool
	RestartDelay time.Duration
	// SaveEvery saves the table after this many finished runs; 0 only
	// saves on shutdown.
	SaveEvery int

	snaps    chan game.Snapshot
	prev     *step
	lastHead types.Cell
	lastRun  string
	runs     int
	restart  bool
}

func NewAutopilot(agent *QLearning, driver Driver, tablePath string, log zerolog.Logger) *Autopilot {
	return &Autopilot{
		agent:        agent,
		driver:       driver,
		tablePath:    tablePath,
		log:          log.With().Str("component", "autopilot").Logger(),
		RestartDelay: time.Second,
		SaveEvery:    10,
		snaps:        make(chan game.Snapshot, 1),
	}
}

// Render keeps only the newest snapshot; an older unread one is dropped.
func (a *Autopilot) Render(s game.Snapshot) {
	select {
	case a.snaps <- s:
		return
	default:
	}
	select {
	case <-a.snaps:
	default:
	}
	select {
	case a.snaps <- s:
	default:
	}
}

// Run consumes snapshots until ctx is done, then saves the table.
func (a *Autopilot) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			a.save()
			return nil
		case snap := <-a.snaps:
			a.Step(snap)
			if a.restart {
				a.restart = false
				select {
				case <-ctx.Done():
					a.save()
					return nil
				case <-time.After(a.RestartDelay):
				}
				a.driver.Restart()
			}
		}
	}
}

// Step learns from the transition that led to snap and, while the run is
// going, picks the next move. Snapshots that did not move the snake are
// ignored.
func (a *Autopilot) Step(snap game.Snapshot) {
	switch snap.State {
	case types.Ended:
		a.finish(snap)
		return
	case types.Running:
	default:
		return
	}

	head, ok := snap.Head()
	if !ok {
		return
	}
	if snap.RunID == a.lastRun && head == a.lastHead && a.prev != nil {
		return
	}
	a.lastRun, a.lastHead = snap.RunID, head

	state := Observe(snap)
	if a.prev != nil && a.prev.runID == snap.RunID {
		a.agent.Update(a.prev.state, a.prev.act, a.reward(state, snap.Score), state, false)
	}

	act := a.agent.GetAction(state)
	a.driver.RequestDirection(act.Apply(snap.Direction))
	a.prev = &step{runID: snap.RunID, state: state, act: act, score: snap.Score}
}

func (a *Autopilot) reward(next State, score int) float64 {
	switch {
	case score > a.prev.score:
		return rewardFood
	case next.Distance < a.prev.state.Distance:
		return rewardCloser
	case next.Distance > a.prev.state.Distance:
		return rewardAway
	default:
		return 0
	}
}

func (a *Autopilot) finish(snap game.Snapshot) {
	if a.prev == nil || a.prev.runID != snap.RunID {
		return
	}
	prev := a.prev
	a.prev = nil

	reason := types.ReasonNone
	if snap.Summary != nil {
		reason = snap.Summary.Reason
	}
	died := reason == types.ReasonWall || reason == types.ReasonSelf || reason == types.ReasonBoom
	if died {
		a.agent.Update(prev.state, prev.act, rewardDeath, prev.state, true)
	}

	a.runs++
	a.log.Info().
		Str("run", snap.RunID).
		Int("score", snap.Score).
		Str("reason", string(reason)).
		Int("states", a.agent.States()).
		Msg("autopilot run finished")

	if a.SaveEvery > 0 && a.runs%a.SaveEvery == 0 {
		a.save()
	}
	// restarts and quits come from a player, who already decided what next
	if a.AutoRestart && died {
		a.restart = true
	}
}

func (a *Autopilot) save() {
	if a.tablePath == "" {
		return
	}
	if err := a.agent.Save(a.tablePath); err != nil {
		a.log.Warn().Err(err).Str("path", a.tablePath).Msg("failed to save q-table")
	}
}
