package types

// Grid represents the game grid dimensions
type Grid struct {
	Rows int
	Cols int
}

// Contains reports whether c lies inside the grid.
func (g Grid) Contains(c Cell) bool {
	return c.Row >= 0 && c.Row < g.Rows && c.Col >= 0 && c.Col < g.Cols
}

// Area returns the number of cells in the grid.
func (g Grid) Area() int {
	return g.Rows * g.Cols
}

// Cell is a (row, col) coordinate on the grid.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add returns the cell one step away from c in direction d.
func (c Cell) Add(d Direction) Cell {
	dr, dc := d.Delta()
	return Cell{Row: c.Row + dr, Col: c.Col + dc}
}

// Direction is a cardinal movement direction.
type Direction int

const (
	NONE Direction = iota
	UP
	RIGHT
	DOWN
	LEFT
)

// Delta returns the (row, col) step for d. Up decreases the row.
func (d Direction) Delta() (int, int) {
	switch d {
	case UP:
		return -1, 0
	case RIGHT:
		return 0, 1
	case DOWN:
		return 1, 0
	case LEFT:
		return 0, -1
	default:
		return 0, 0
	}
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case UP:
		return DOWN
	case RIGHT:
		return LEFT
	case DOWN:
		return UP
	case LEFT:
		return RIGHT
	default:
		return NONE
	}
}

// TurnLeft returns the direction after a 90 degree counter-clockwise turn.
func (d Direction) TurnLeft() Direction {
	switch d {
	case UP:
		return LEFT
	case RIGHT:
		return UP
	case DOWN:
		return RIGHT
	case LEFT:
		return DOWN
	default:
		return d
	}
}

// TurnRight returns the direction after a 90 degree clockwise turn.
func (d Direction) TurnRight() Direction {
	switch d {
	case UP:
		return RIGHT
	case RIGHT:
		return DOWN
	case DOWN:
		return LEFT
	case LEFT:
		return UP
	default:
		return d
	}
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	return d >= UP && d <= LEFT
}

func (d Direction) String() string {
	switch d {
	case UP:
		return "up"
	case RIGHT:
		return "right"
	case DOWN:
		return "down"
	case LEFT:
		return "left"
	default:
		return "none"
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// FoodKind identifies a collectible fruit.
type FoodKind int

const (
	FoodNormal FoodKind = iota
	FoodBig
	FoodGolden
	FoodSpeed
	FoodFreeze

	NumFoodKinds // must stay last
)

// PowerFruits lists every kind that is spawned on its own timer.
var PowerFruits = []FoodKind{FoodBig, FoodGolden, FoodSpeed, FoodFreeze}

func (k FoodKind) String() string {
	switch k {
	case FoodNormal:
		return "normal"
	case FoodBig:
		return "big"
	case FoodGolden:
		return "golden"
	case FoodSpeed:
		return "speed"
	case FoodFreeze:
		return "freeze"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name for JSON snapshots.
func (k FoodKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// RunState is the lifecycle state of one run.
type RunState int

const (
	NotStarted RunState = iota
	Running
	Paused
	Frozen
	Ended
)

func (s RunState) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Frozen:
		return "frozen"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

func (s RunState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CollisionType represents the type of collision
type CollisionType int

const (
	NoCollision CollisionType = iota
	WallCollision
	SelfCollision
	BoomCollision
)

// EndReason explains why a run ended.
type EndReason string

const (
	ReasonNone    EndReason = ""
	ReasonWall    EndReason = "Wall"
	ReasonSelf    EndReason = "Self"
	ReasonBoom    EndReason = "Boom"
	ReasonRestart EndReason = "Restart"
	ReasonQuit    EndReason = "Quit"
)

// ReasonFor maps a fatal collision to its end reason.
func ReasonFor(c CollisionType) EndReason {
	switch c {
	case WallCollision:
		return ReasonWall
	case SelfCollision:
		return ReasonSelf
	case BoomCollision:
		return ReasonBoom
	default:
		return ReasonNone
	}
}

// HazardPhase is the lifecycle phase of the boom hazard.
type HazardPhase int

const (
	HazardIdle HazardPhase = iota
	HazardWarning
	HazardArmed
)

func (p HazardPhase) String() string {
	switch p {
	case HazardWarning:
		return "warning"
	case HazardArmed:
		return "armed"
	default:
		return "idle"
	}
}

func (p HazardPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Cue is a one-frame sound hint for frontends.
type Cue int

const (
	CueNone Cue = iota
	CueEat
	CueHit
	CueBoom
)

func (c Cue) String() string {
	switch c {
	case CueEat:
		return "eat"
	case CueHit:
		return "hit"
	case CueBoom:
		return "boom"
	default:
		return ""
	}
}

func (c Cue) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
