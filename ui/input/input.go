// Package input maps player commands onto the engine. It is shared by the
// window and terminal frontends and has no toolkit dependency.
package input

import (
	"unicode"

	"snake-boom/game/types"
)

// Command is one player intent.
type Command int

const (
	None Command = iota
	Up
	Right
	Down
	Left
	Pause
	Start
	Restart
	Quit
)

// Controller is the engine surface a frontend drives.
type Controller interface {
	Start()
	Restart()
	Quit()
	TogglePause()
	RequestDirection(types.Direction) bool
	State() types.RunState
}

// FromRune maps a typed character. Arrows and other special keys are
// mapped by each frontend.
func FromRune(r rune) Command {
	switch unicode.ToLower(r) {
	case 'w', 'k':
		return Up
	case 'd', 'l':
		return Right
	case 's', 'j':
		return Down
	case 'a', 'h':
		return Left
	case ' ', 'p':
		return Pause
	case 'r':
		return Restart
	case 'q':
		return Quit
	default:
		return None
	}
}

// Direction returns the movement direction of cmd, or NONE.
func (c Command) Direction() types.Direction {
	switch c {
	case Up:
		return types.UP
	case Right:
		return types.RIGHT
	case Down:
		return types.DOWN
	case Left:
		return types.LEFT
	default:
		return types.NONE
	}
}

// Dispatch applies cmd to ctl. It reports true when the frontend should
// exit.
func Dispatch(ctl Controller, cmd Command) bool {
	switch cmd {
	case Up, Right, Down, Left:
		ctl.RequestDirection(cmd.Direction())
	case Pause:
		switch ctl.State() {
		case types.NotStarted, types.Ended:
			ctl.Start()
		default:
			ctl.TogglePause()
		}
	case Start:
		switch ctl.State() {
		case types.NotStarted, types.Ended:
			ctl.Start()
		case types.Paused:
			ctl.TogglePause()
		}
	case Restart:
		ctl.Restart()
	case Quit:
		ctl.Quit()
		return true
	}
	return false
}
