package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"snake-boom/clock"
	"snake-boom/config"
	"snake-boom/game/entity"
	"snake-boom/game/manager"
	"snake-boom/game/types"
)

// Options configures a new Engine. Grid and Rules are required; every other
// field has a usable zero value.
type Options struct {
	Grid     types.Grid
	Rules    config.Rules
	Clock    clock.Clock
	Seed     uint64
	Renderer Renderer
	Store    Store
	Logger   *zerolog.Logger
}

// Engine owns one game. All public methods and every timer callback run
// under mu, so state changes are serialised no matter which goroutine
// drives them.
type Engine struct {
	mu sync.Mutex

	grid     types.Grid
	rules    config.Rules
	clock    clock.Clock
	sched    *scheduler
	log      zerolog.Logger
	renderer Renderer
	store    Store

	collisionMgr *manager.CollisionManager
	foodMgr      *manager.FoodManager
	hazardMgr    *manager.HazardManager
	speedMgr     *manager.SpeedManager

	snake *entity.Snake
	next  types.Direction

	started bool
	ended   bool
	paused  bool
	frozen  bool

	runID     string
	startTime time.Time
	score     int
	highScore int
	elapsed   int
	summary   *Summary

	hazardDeadline time.Time
	cue            types.Cue
	shake          bool
	seq            uint64
}

func NewEngine(opts Options) (*Engine, error) {
	if err := opts.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	if opts.Grid.Rows < 1 || opts.Grid.Cols < opts.Rules.SnakeLength {
		return nil, fmt.Errorf("grid %dx%d cannot hold a snake of length %d",
			opts.Grid.Rows, opts.Grid.Cols, opts.Rules.SnakeLength)
	}

	e := &Engine{
		grid:     opts.Grid,
		rules:    opts.Rules,
		clock:    opts.Clock,
		renderer: opts.Renderer,
		store:    opts.Store,
	}
	if e.clock == nil {
		e.clock = clock.Real{}
	}
	if e.renderer == nil {
		e.renderer = nopRenderer{}
	}
	if e.store == nil {
		e.store = &memoryStore{}
	}
	if opts.Logger != nil {
		e.log = opts.Logger.With().Str("component", "engine").Logger()
	} else {
		e.log = zerolog.Nop()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))

	e.sched = newScheduler(e.clock)
	e.collisionMgr = manager.NewCollisionManager(e.grid)
	e.foodMgr = manager.NewFoodManager(e.grid, e.collisionMgr, rng, e.rules.MaxSpawnAttempts)
	e.hazardMgr = manager.NewHazardManager()
	e.speedMgr = manager.NewSpeedManager(e.rules.InitialInterval, e.rules.IntervalStep,
		e.rules.MinInterval, e.rules.BoostFactor)
	e.snake = e.centeredSnake()
	e.next = e.snake.Direction

	high, err := e.store.HighScore()
	if err != nil {
		e.log.Warn().Err(err).Msg("could not read high score, starting from 0")
	}
	e.highScore = high

	return e, nil
}

func (e *Engine) centeredSnake() *entity.Snake {
	head := types.Cell{Row: e.grid.Rows / 2, Col: e.grid.Cols / 2}
	if head.Col < e.rules.SnakeLength-1 {
		head.Col = e.rules.SnakeLength - 1
	}
	return entity.NewSnake(head, e.rules.SnakeLength)
}

// Start begins a fresh run. It replaces any run in progress without
// recording it; use Restart to end the current run first.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.start()
}

func (e *Engine) start() {
	e.sched.cancelAll()

	e.snake = e.centeredSnake()
	e.next = e.snake.Direction
	e.foodMgr.Clear()
	e.hazardMgr.Clear()
	e.speedMgr.Reset()

	e.started = true
	e.ended = false
	e.paused = false
	e.frozen = false
	e.score = 0
	e.elapsed = 0
	e.summary = nil
	e.hazardDeadline = time.Time{}
	e.runID = uuid.New().String()
	e.startTime = e.clock.Now()

	if _, ok := e.foodMgr.Spawn(types.FoodNormal, e.snake, e.hazardMgr.ArmedAt); !ok {
		e.log.Warn().Msg("no free cell for the first fruit")
	}

	e.armRunClocks()
	for _, kind := range types.PowerFruits {
		kind := kind
		e.every(spawnSlot(kind), e.rules.Fruit(kind).SpawnEvery, func() {
			e.spawnPowerFruit(kind)
		})
	}

	e.log.Info().
		Str("run", e.runID).
		Int("rows", e.grid.Rows).
		Int("cols", e.grid.Cols).
		Dur("interval", e.speedMgr.Interval()).
		Msg("run started")
	e.emit()
}

// Restart ends the current run, if one is live, and starts a new one.
func (e *Engine) Restart() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.live() {
		e.endRun(types.ReasonRestart)
	}
	e.start()
}

// Quit ends the current run, if one is live, so its score is recorded.
func (e *Engine) Quit() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.live() {
		e.endRun(types.ReasonQuit)
	}
}

// RequestDirection queues a turn for the next tick. Turns are only taken
// while the run is Running, and never when d reverses the direction the
// snake last moved in.
func (e *Engine) RequestDirection(d types.Direction) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !d.Valid() || e.state() != types.Running {
		return false
	}
	if d == e.snake.Direction.Opposite() {
		return false
	}
	e.next = d
	return true
}

// Tick advances the snake one cell. It does nothing unless the run is
// Running.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tick()
}

func (e *Engine) tick() {
	if e.state() != types.Running {
		return
	}

	e.snake.SetDirection(e.next)
	candidate := e.snake.NextHead()

	switch c := e.collisionMgr.CheckCollision(candidate, e.snake, e.hazardMgr); c {
	case types.NoCollision:
	case types.BoomCollision:
		e.cue = types.CueBoom
		e.shake = true
		e.endRun(types.ReasonFor(c))
		return
	default:
		e.cue = types.CueHit
		e.endRun(types.ReasonFor(c))
		return
	}

	kind, ate := e.foodMgr.At(candidate)
	e.snake.Move(candidate, ate)
	if ate {
		e.eat(kind)
	}
	e.emit()
}

func (e *Engine) eat(kind types.FoodKind) {
	e.foodMgr.Remove(kind)
	e.score += e.rules.Score(kind)
	e.cue = types.CueEat

	log := e.log.Debug().Str("run", e.runID).Stringer("kind", kind).Int("score", e.score)

	switch kind {
	case types.FoodNormal:
		e.speedMgr.SpeedUp()
		e.armMove()
		if _, ok := e.foodMgr.Spawn(types.FoodNormal, e.snake, e.hazardMgr.ArmedAt); !ok {
			e.log.Warn().Str("run", e.runID).Msg("no free cell for normal food")
		}
	case types.FoodSpeed:
		e.sched.cancel(expireSlot(kind))
		e.speedMgr.Boost()
		e.armMove()
		e.after(slotBoost, e.rules.BoostDuration, e.endBoost)
	case types.FoodFreeze:
		e.sched.cancel(expireSlot(kind))
		e.frozen = true
		e.suspendRunClocks()
		e.after(slotFreeze, e.rules.FreezeDuration, e.thaw)
	default:
		e.sched.cancel(expireSlot(kind))
	}

	log.Dur("interval", e.speedMgr.Interval()).Msg("fruit eaten")
}

func (e *Engine) endBoost() {
	e.speedMgr.EndBoost()
	e.armMove()
	e.emit()
}

func (e *Engine) thaw() {
	e.frozen = false
	if !e.paused {
		e.armRunClocks()
	}
	e.emit()
}

// TogglePause flips between Paused and not paused. It does nothing before
// the first start or after the run has ended.
func (e *Engine) TogglePause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.live() {
		return
	}
	if e.paused {
		e.resume()
	} else {
		e.pause()
	}
}

func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.live() && !e.paused {
		e.pause()
	}
}

func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.live() && e.paused {
		e.resume()
	}
}

func (e *Engine) pause() {
	e.paused = true
	e.suspendRunClocks()
	e.log.Debug().Str("run", e.runID).Msg("paused")
	e.emit()
}

func (e *Engine) resume() {
	e.paused = false
	if !e.frozen {
		e.armRunClocks()
	}
	e.log.Debug().Str("run", e.runID).Msg("resumed")
	e.emit()
}

func (e *Engine) tickElapsed() {
	if e.state() != types.Running {
		return
	}
	e.elapsed++
	e.emit()
}

// beginHazard opens the warning phase. The armed cell is only chosen when
// the warning ends, so the warning itself never blocks a cell.
func (e *Engine) beginHazard() {
	e.hazardMgr.Warn()
	e.hazardDeadline = e.clock.Now().Add(e.rules.HazardWarning)
	e.after(slotHazardPhase, e.rules.HazardWarning, e.armHazard)
	e.log.Debug().Str("run", e.runID).Msg("hazard warning")
	e.emit()
}

func (e *Engine) armHazard() {
	cell, ok := e.foodMgr.GenerateFood(e.snake, e.foodMgr.Occupied)
	if !ok {
		e.log.Debug().Str("run", e.runID).Msg("no free cell for the hazard, skipping")
		e.clearHazard()
		return
	}
	e.hazardMgr.Arm(cell)
	e.hazardDeadline = e.clock.Now().Add(e.rules.HazardArmed)
	e.cue = types.CueBoom
	e.shake = true
	e.after(slotHazardPhase, e.rules.HazardArmed, e.clearHazard)
	e.log.Debug().Str("run", e.runID).Int("row", cell.Row).Int("col", cell.Col).Msg("hazard armed")
	e.emit()
}

func (e *Engine) clearHazard() {
	e.hazardMgr.Clear()
	e.hazardDeadline = time.Time{}
	e.emit()
}

func (e *Engine) spawnPowerFruit(kind types.FoodKind) {
	cell, ok := e.foodMgr.Spawn(kind, e.snake, e.hazardMgr.ArmedAt)
	if !ok {
		e.log.Debug().Str("run", e.runID).Stringer("kind", kind).Msg("no free cell, spawn skipped")
		return
	}
	e.after(expireSlot(kind), e.rules.Fruit(kind).Lifetime, func() {
		e.foodMgr.Remove(kind)
		e.emit()
	})
	e.log.Debug().Str("run", e.runID).Stringer("kind", kind).
		Int("row", cell.Row).Int("col", cell.Col).Msg("power fruit spawned")
	e.emit()
}

// endRun stops every clock, clears transient entities and records the
// result. The normal food stays on the board.
func (e *Engine) endRun(reason types.EndReason) {
	e.sched.cancelAll()
	e.ended = true
	e.paused = false
	e.frozen = false
	e.foodMgr.ClearPowerFruits()
	e.hazardMgr.Clear()
	e.hazardDeadline = time.Time{}
	e.speedMgr.EndBoost()

	newHigh := e.score > e.highScore
	if newHigh {
		e.highScore = e.score
		if err := e.store.SetHighScore(e.score); err != nil {
			e.log.Warn().Err(err).Int("score", e.score).Msg("could not persist high score")
		}
	}

	now := e.clock.Now()
	if rec, ok := e.store.(RunRecorder); ok {
		err := rec.RecordRun(RunRecord{
			ID:        e.runID,
			Score:     e.score,
			Reason:    reason,
			StartTime: e.startTime,
			EndTime:   now,
			Elapsed:   e.elapsed,
		})
		if err != nil {
			e.log.Warn().Err(err).Str("run", e.runID).Msg("could not record run")
		}
	}

	e.summary = &Summary{
		RunID:        e.runID,
		Score:        e.score,
		HighScore:    e.highScore,
		NewHighScore: newHigh,
		Reason:       reason,
		Elapsed:      e.elapsed,
	}

	e.log.Info().
		Str("run", e.runID).
		Str("reason", string(reason)).
		Int("score", e.score).
		Int("high_score", e.highScore).
		Bool("new_high_score", newHigh).
		Dur("duration", now.Sub(e.startTime)).
		Msg("run ended")
	e.emit()
}

// live reports whether a run has started and not yet ended.
func (e *Engine) live() bool {
	return e.started && !e.ended
}

func (e *Engine) state() types.RunState {
	switch {
	case !e.started:
		return types.NotStarted
	case e.ended:
		return types.Ended
	case e.paused:
		return types.Paused
	case e.frozen:
		return types.Frozen
	default:
		return types.Running
	}
}

func (e *Engine) armRunClocks() {
	e.armMove()
	e.every(slotElapsed, e.rules.ElapsedInterval, e.tickElapsed)
	e.every(slotHazardSpawn, e.rules.HazardPeriod, e.beginHazard)
}

// armMove restarts the movement clock at the current interval. Paused and
// frozen runs keep it stopped; it is rearmed when they resume.
func (e *Engine) armMove() {
	if e.state() != types.Running {
		return
	}
	e.every(slotMove, e.speedMgr.Interval(), e.tick)
}

func (e *Engine) suspendRunClocks() {
	for _, sl := range runClocks {
		e.sched.cancel(sl)
	}
}

// after runs fn once, under the engine lock, d from now.
func (e *Engine) after(sl slot, d time.Duration, fn func()) {
	e.sched.arm(sl, d, func(token uint64) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if !e.sched.claim(sl, token) {
			return
		}
		fn()
	})
}

// every runs fn each period until the slot is cancelled or rearmed. The next
// firing is scheduled before fn runs so fn may replace or cancel it.
func (e *Engine) every(sl slot, period time.Duration, fn func()) {
	e.after(sl, period, func() {
		e.every(sl, period, fn)
		fn()
	})
}

func (e *Engine) emit() {
	e.seq++
	snap := e.snapshot()
	e.cue = types.CueNone
	e.shake = false
	e.renderer.Render(snap)
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) snapshot() Snapshot {
	snap := Snapshot{
		Seq:       e.seq,
		RunID:     e.runID,
		Grid:      e.grid,
		State:     e.state(),
		Snake:     e.snake.Cells(),
		Direction: e.next,
		Food:      e.foodMgr.GetFoodList(),
		Hazard:    HazardView{Phase: e.hazardMgr.Phase()},
		Score:     e.score,
		HighScore: e.highScore,
		Elapsed:   e.elapsed,
		Interval:  e.speedMgr.Interval(),
		Boosted:   e.speedMgr.Boosted(),
		Cue:       e.cue,
		Shake:     e.shake,
	}
	if cell, ok := e.hazardMgr.Cell(); ok {
		snap.Hazard.Cell = &cell
	}
	if !e.hazardDeadline.IsZero() {
		if left := e.hazardDeadline.Sub(e.clock.Now()); left > 0 {
			snap.Hazard.Remaining = left
		}
	}
	if e.summary != nil {
		s := *e.summary
		snap.Summary = &s
	}
	return snap
}

// State returns the current run state.
func (e *Engine) State() types.RunState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state()
}

// ErrNoHistory is returned by History when the store keeps no runs.
var ErrNoHistory = errors.New("store does not keep a run history")

// History lists the runs recorded by the store.
func (e *Engine) History() ([]RunRecord, error) {
	reader, ok := e.store.(HistoryReader)
	if !ok {
		return nil, ErrNoHistory
	}
	return reader.Runs()
}
