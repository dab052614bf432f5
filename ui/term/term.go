// Package term draws the game in a terminal with tcell.
package term

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"snake-boom/game"
	"snake-boom/game/types"
	"snake-boom/ui/input"
)

// Each board cell is two terminal columns wide so the board looks square.
const cellWidth = 2

var (
	styleDefault = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	styleBorder  = styleDefault.Foreground(tcell.ColorGray)
	styleHead    = styleDefault.Foreground(tcell.ColorLime)
	styleBody    = styleDefault.Foreground(tcell.ColorGreen)
	styleWarning = styleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHazard  = styleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorYellow).Bold(true)
	styleBanner  = styleDefault.Foreground(tcell.ColorGold).Bold(true)
	styleDim     = styleDefault.Foreground(tcell.ColorLightGray)
)

var foodGlyphs = map[types.FoodKind]struct {
	r     rune
	style tcell.Style
}{
	types.FoodNormal: {'●', styleDefault.Foreground(tcell.ColorRed)},
	types.FoodBig:    {'◆', styleDefault.Foreground(tcell.ColorOrange)},
	types.FoodGolden: {'★', styleDefault.Foreground(tcell.ColorGold)},
	types.FoodSpeed:  {'»', styleDefault.Foreground(tcell.ColorAqua)},
	types.FoodFreeze: {'*', styleDefault.Foreground(tcell.ColorLightCyan)},
}

type redraw struct{}

// Terminal renders snapshots on a tcell screen and turns key presses into
// engine commands.
type Terminal struct {
	screen tcell.Screen
	ctl    input.Controller
	log    zerolog.Logger

	mu   sync.Mutex
	snap game.Snapshot
	has  bool
	beep bool
}

func New(screen tcell.Screen, ctl input.Controller, log zerolog.Logger) *Terminal {
	return &Terminal{
		screen: screen,
		ctl:    ctl,
		log:    log.With().Str("component", "term").Logger(),
	}
}

// Render stores s and wakes the event loop. A full event queue only
// delays the redraw until the next snapshot.
func (t *Terminal) Render(s game.Snapshot) {
	t.mu.Lock()
	t.snap = s
	t.has = true
	if s.Cue != types.CueNone {
		t.beep = true
	}
	t.mu.Unlock()

	t.screen.PostEvent(tcell.NewEventInterrupt(redraw{}))
}

// Run handles events until the player quits or ctx is done. The caller
// owns the screen and must have initialised it.
func (t *Terminal) Run(ctx context.Context) error {
	t.screen.SetStyle(styleDefault)
	t.screen.HideCursor()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			t.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-stop:
		}
	}()

	t.draw()
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if input.Dispatch(t.ctl, keyCommand(ev)) {
				t.log.Debug().Msg("player quit")
				return nil
			}
		case *tcell.EventResize:
			t.screen.Sync()
			t.draw()
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
			t.draw()
		}
	}
}

func keyCommand(ev *tcell.EventKey) input.Command {
	switch ev.Key() {
	case tcell.KeyUp:
		return input.Up
	case tcell.KeyRight:
		return input.Right
	case tcell.KeyDown:
		return input.Down
	case tcell.KeyLeft:
		return input.Left
	case tcell.KeyEnter:
		return input.Start
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return input.Quit
	case tcell.KeyRune:
		return input.FromRune(ev.Rune())
	default:
		return input.None
	}
}

func (t *Terminal) draw() {
	t.mu.Lock()
	snap, has, beep := t.snap, t.has, t.beep
	t.beep = false
	t.mu.Unlock()

	t.screen.Clear()
	if !has {
		t.text(0, 0, "waiting for the game...", styleDim)
		t.screen.Show()
		return
	}

	// shake the board sideways for the frame that armed the hazard
	x0, y0 := 0, 2
	if snap.Shake {
		x0 = 1
	}

	t.header(snap)
	t.border(x0, y0, snap.Grid)

	for _, f := range snap.Food {
		g := foodGlyphs[f.Kind]
		t.cell(x0, y0, f.Cell, g.r, g.style)
	}
	if snap.Hazard.Cell != nil {
		t.cell(x0, y0, *snap.Hazard.Cell, '✸', styleHazard)
	}
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		style := styleBody
		if i == 0 {
			style = styleHead
		}
		t.cell(x0, y0, snap.Snake[i], '█', style)
	}

	footer := y0 + snap.Grid.Rows + 2
	t.footer(footer, snap)

	if beep {
		t.screen.Beep()
	}
	t.screen.Show()
}

func (t *Terminal) header(s game.Snapshot) {
	line := fmt.Sprintf("Score %d   High %d   Time %ds   Speed %dms",
		s.Score, s.HighScore, s.Elapsed, s.Interval.Milliseconds())
	if s.Boosted {
		line += " (boost)"
	}
	t.text(0, 0, line, styleDefault)

	status := s.State.String()
	if s.Hazard.Phase == types.HazardWarning {
		status = fmt.Sprintf("BOOM in %.0fs!", s.Hazard.Remaining.Seconds())
		t.text(0, 1, status, styleWarning)
		return
	}
	t.text(0, 1, status, styleDim)
}

func (t *Terminal) footer(y int, s game.Snapshot) {
	switch s.State {
	case types.NotStarted:
		t.text(0, y, "enter: start   arrows/wasd: move   space: pause   r: restart   q: quit", styleDim)
	case types.Paused:
		t.text(0, y, "paused, press space to resume", styleBanner)
	case types.Frozen:
		t.text(0, y, "frozen!", styleDefault.Foreground(tcell.ColorLightCyan))
	case types.Ended:
		if s.Summary == nil {
			return
		}
		msg := fmt.Sprintf("game over (%s), score %d", s.Summary.Reason, s.Summary.Score)
		if s.Summary.NewHighScore {
			msg += ", new high score!"
		}
		t.text(0, y, msg, styleBanner)
		t.text(0, y+1, "enter: play again   q: quit", styleDim)
	}
}

func (t *Terminal) border(x0, y0 int, g types.Grid) {
	w := g.Cols*cellWidth + 2
	h := g.Rows + 2
	for x := 0; x < w; x++ {
		t.screen.SetContent(x0+x, y0, '─', nil, styleBorder)
		t.screen.SetContent(x0+x, y0+h-1, '─', nil, styleBorder)
	}
	for y := 0; y < h; y++ {
		t.screen.SetContent(x0, y0+y, '│', nil, styleBorder)
		t.screen.SetContent(x0+w-1, y0+y, '│', nil, styleBorder)
	}
	t.screen.SetContent(x0, y0, '┌', nil, styleBorder)
	t.screen.SetContent(x0+w-1, y0, '┐', nil, styleBorder)
	t.screen.SetContent(x0, y0+h-1, '└', nil, styleBorder)
	t.screen.SetContent(x0+w-1, y0+h-1, '┘', nil, styleBorder)
}

// cell draws r in board cell c. The second column of the cell repeats r
// for the snake and stays blank for everything else.
func (t *Terminal) cell(x0, y0 int, c types.Cell, r rune, style tcell.Style) {
	x := x0 + 1 + c.Col*cellWidth
	y := y0 + 1 + c.Row
	t.screen.SetContent(x, y, r, nil, style)
	second := ' '
	if r == '█' {
		second = r
	}
	t.screen.SetContent(x+1, y, second, nil, style)
}

func (t *Terminal) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
