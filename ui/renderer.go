package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"

	"snake-boom/game"
	"snake-boom/game/types"
	"snake-boom/stats"
	"snake-boom/ui/input"
)

const (
	borderPadding = 10 // Padding around game area
	graphHeight   = 150
	shakeFor      = 300 * time.Millisecond
	flashFor      = 150 * time.Millisecond
)

var foodColors = map[types.FoodKind]rl.Color{
	types.FoodNormal: rl.Red,
	types.FoodBig:    rl.Orange,
	types.FoodGolden: rl.Gold,
	types.FoodSpeed:  rl.SkyBlue,
	types.FoodFreeze: rl.White,
}

// HistoryFunc returns the finished runs, oldest first.
type HistoryFunc func() ([]game.RunRecord, error)

// Window draws the game in a raylib window. Render may be called from any
// goroutine; Run must be called from the main goroutine.
type Window struct {
	ctl     input.Controller
	history HistoryFunc
	log     zerolog.Logger

	mu         sync.Mutex
	snap       game.Snapshot
	has        bool
	shakeUntil time.Time
	flashUntil time.Time
	flash      rl.Color
	stale      bool

	stats           *stats.Stats
	cellSize        int32
	screenWidth     int32
	screenHeight    int32
	totalGridWidth  int32
	totalGridHeight int32
	offsetX         int32
	offsetY         int32
}

func NewWindow(ctl input.Controller, history HistoryFunc, log zerolog.Logger) *Window {
	return &Window{
		ctl:     ctl,
		history: history,
		log:     log.With().Str("component", "window").Logger(),
		stale:   true,
		stats:   stats.New(stats.GroupSize),
	}
}

func (w *Window) Render(s game.Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.snap = s
	w.has = true
	now := time.Now()
	if s.Shake {
		w.shakeUntil = now.Add(shakeFor)
	}
	switch s.Cue {
	case types.CueEat:
		w.flash, w.flashUntil = rl.Fade(rl.Green, 0.15), now.Add(flashFor)
	case types.CueHit, types.CueBoom:
		w.flash, w.flashUntil = rl.Fade(rl.Red, 0.3), now.Add(flashFor)
	}
	if s.Summary != nil {
		w.stale = true
	}
}

// Run opens the window and draws until it is closed, the player quits or
// ctx is done. Closing the window ends the current run.
func (w *Window) Run(ctx context.Context, title string) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(1000, 800, title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		for _, cmd := range pollKeys() {
			if input.Dispatch(w.ctl, cmd) {
				return nil
			}
		}
		w.Draw()
	}
	w.ctl.Quit()
	return nil
}

func pollKeys() []input.Command {
	var cmds []input.Command
	keys := []struct {
		key int32
		cmd input.Command
	}{
		{rl.KeyUp, input.Up}, {rl.KeyW, input.Up},
		{rl.KeyRight, input.Right}, {rl.KeyD, input.Right},
		{rl.KeyDown, input.Down}, {rl.KeyS, input.Down},
		{rl.KeyLeft, input.Left}, {rl.KeyA, input.Left},
		{rl.KeySpace, input.Pause}, {rl.KeyP, input.Pause},
		{rl.KeyEnter, input.Start},
		{rl.KeyR, input.Restart},
		{rl.KeyQ, input.Quit},
	}
	for _, k := range keys {
		if rl.IsKeyPressed(k.key) {
			cmds = append(cmds, k.cmd)
		}
	}
	return cmds
}

func (w *Window) UpdateDimensions() {
	w.screenWidth = int32(rl.GetScreenWidth())
	w.screenHeight = int32(rl.GetScreenHeight())
}

func (w *Window) refreshStats() {
	w.mu.Lock()
	stale := w.stale
	w.stale = false
	w.mu.Unlock()
	if !stale || w.history == nil {
		return
	}

	runs, err := w.history()
	if err != nil {
		w.log.Debug().Err(err).Msg("no run history to chart")
		return
	}
	w.stats = stats.FromRuns(runs, stats.GroupSize)
}

func (w *Window) Draw() {
	w.refreshStats()

	w.mu.Lock()
	snap, has := w.snap, w.has
	shaking := time.Now().Before(w.shakeUntil)
	flash, flashing := w.flash, time.Now().Before(w.flashUntil)
	w.mu.Unlock()

	w.UpdateDimensions()
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(rl.Black)

	fontSize := w.screenHeight / 45 // Dynamic font size
	if !has {
		rl.DrawText("waiting for the game...", borderPadding, borderPadding, fontSize, rl.LightGray)
		return
	}

	// Calculate available space for grid after border padding, the stats line and graph
	availableWidth := w.screenWidth - (borderPadding * 2)
	availableHeight := w.screenHeight - (borderPadding * 4) - graphHeight - fontSize*2

	cellW := availableWidth / int32(snap.Grid.Cols)
	cellH := availableHeight / int32(snap.Grid.Rows)
	w.cellSize = max(min(cellW, cellH), 1)

	w.totalGridWidth = w.cellSize * int32(snap.Grid.Cols)
	w.totalGridHeight = w.cellSize * int32(snap.Grid.Rows)

	// Position grid under the stats line
	w.offsetX = borderPadding
	w.offsetY = borderPadding*2 + fontSize
	if shaking {
		w.offsetX += int32(rl.GetRandomValue(-4, 4))
		w.offsetY += int32(rl.GetRandomValue(-4, 4))
	}

	w.drawStatsLine(snap, fontSize)

	// Draw grid background
	rl.DrawRectangle(w.offsetX-1, w.offsetY-1, w.totalGridWidth+2, w.totalGridHeight+2, rl.DarkGray)
	for row := 0; row < snap.Grid.Rows; row++ {
		for col := 0; col < snap.Grid.Cols; col++ {
			x, y := w.cellOrigin(types.Cell{Row: row, Col: col})
			rl.DrawRectangleLines(x, y, w.cellSize, w.cellSize, rl.Gray)
		}
	}

	for _, f := range snap.Food {
		x, y := w.cellOrigin(f.Cell)
		rl.DrawRectangle(x, y, w.cellSize, w.cellSize, foodColors[f.Kind])
	}
	w.drawHazard(snap.Hazard)
	w.drawSnake(snap)

	if flashing {
		rl.DrawRectangle(w.offsetX, w.offsetY, w.totalGridWidth, w.totalGridHeight, flash)
	}
	w.drawOverlay(snap, fontSize)
	w.drawStatsGraph()
}

func (w *Window) cellOrigin(c types.Cell) (int32, int32) {
	return w.offsetX + int32(c.Col)*w.cellSize, w.offsetY + int32(c.Row)*w.cellSize
}

func (w *Window) drawSnake(snap game.Snapshot) {
	snakeColor := rl.Green
	if snap.State == types.Frozen {
		snakeColor = rl.SkyBlue
	}

	// tail first so the head is drawn on top
	for j := len(snap.Snake) - 1; j >= 0; j-- {
		x, y := w.cellOrigin(snap.Snake[j])
		color := snakeColor
		if j == len(snap.Snake)-1 && j > 0 { // Tail
			color = rl.White
		} else if j == 0 { // Head
			color = rl.Color{
				R: uint8(min(float32(snakeColor.R)*1.3, 255)),
				G: uint8(min(float32(snakeColor.G)*1.3, 255)),
				B: uint8(min(float32(snakeColor.B)*1.3, 255)),
				A: 255,
			}
		}
		rl.DrawRectangle(x, y, w.cellSize, w.cellSize, color)
		if j == 0 {
			w.drawDirection(x, y, snap.Direction)
		}
	}
}

// drawDirection draws a triangle on the head pointing where it is going.
func (w *Window) drawDirection(headX, headY int32, d types.Direction) {
	halfCell := w.cellSize / 2
	switch d {
	case types.RIGHT:
		rl.DrawTriangle(
			rl.Vector2{X: float32(headX + w.cellSize), Y: float32(headY + halfCell)},
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY)},
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY + w.cellSize)},
			rl.Yellow)
	case types.LEFT:
		rl.DrawTriangle(
			rl.Vector2{X: float32(headX), Y: float32(headY + halfCell)},
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY + w.cellSize)},
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY)},
			rl.Yellow)
	case types.DOWN:
		rl.DrawTriangle(
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY + w.cellSize)},
			rl.Vector2{X: float32(headX + w.cellSize), Y: float32(headY + halfCell)},
			rl.Vector2{X: float32(headX), Y: float32(headY + halfCell)},
			rl.Yellow)
	case types.UP:
		rl.DrawTriangle(
			rl.Vector2{X: float32(headX + halfCell), Y: float32(headY)},
			rl.Vector2{X: float32(headX), Y: float32(headY + halfCell)},
			rl.Vector2{X: float32(headX + w.cellSize), Y: float32(headY + halfCell)},
			rl.Yellow)
	}
}

func (w *Window) drawHazard(h game.HazardView) {
	if h.Cell == nil {
		return
	}
	x, y := w.cellOrigin(*h.Cell)
	center := rl.Vector2{X: float32(x + w.cellSize/2), Y: float32(y + w.cellSize/2)}
	rl.DrawRectangle(x, y, w.cellSize, w.cellSize, rl.Yellow)
	rl.DrawCircleV(center, float32(w.cellSize)/3, rl.Maroon)
}

func (w *Window) drawStatsLine(snap game.Snapshot, fontSize int32) {
	x := int32(borderPadding)
	y := int32(borderPadding)
	spacing := int32(180) // Fixed spacing between stats

	rl.DrawText(fmt.Sprintf("Score: %d", snap.Score), x, y, fontSize, rl.White)
	x += spacing
	rl.DrawText(fmt.Sprintf("High: %d", snap.HighScore), x, y, fontSize, rl.Gold)
	x += spacing
	rl.DrawText(fmt.Sprintf("Time: %ds", snap.Elapsed), x, y, fontSize, rl.White)
	x += spacing

	speed := fmt.Sprintf("Speed: %dms", snap.Interval.Milliseconds())
	speedColor := rl.White
	if snap.Boosted {
		speedColor = rl.SkyBlue
	}
	rl.DrawText(speed, x, y, fontSize, speedColor)
	x += spacing

	if snap.Hazard.Phase == types.HazardWarning {
		rl.DrawText(fmt.Sprintf("BOOM in %.0fs!", snap.Hazard.Remaining.Seconds()), x, y, fontSize, rl.Yellow)
	}
}

func (w *Window) drawOverlay(snap game.Snapshot, fontSize int32) {
	var lines []string
	color := rl.White
	switch snap.State {
	case types.NotStarted:
		lines = []string{"Press ENTER to start", "arrows/WASD move, space pauses, R restarts"}
	case types.Paused:
		lines = []string{"Paused"}
	case types.Frozen:
		lines = []string{"Frozen!"}
		color = rl.SkyBlue
	case types.Ended:
		if snap.Summary == nil {
			return
		}
		lines = []string{
			fmt.Sprintf("Game Over! (%s)", snap.Summary.Reason),
			fmt.Sprintf("Score: %d  High: %d  Time: %ds", snap.Summary.Score, snap.Summary.HighScore, snap.Summary.Elapsed),
		}
		if snap.Summary.NewHighScore {
			lines = append(lines, "New high score!")
			color = rl.Gold
		}
		lines = append(lines, "Press ENTER to play again")
	default:
		return
	}

	big := fontSize * 2
	y := w.offsetY + w.totalGridHeight/2 - int32(len(lines))*big/2
	for _, line := range lines {
		textWidth := rl.MeasureText(line, big)
		rl.DrawText(line, w.offsetX+(w.totalGridWidth-textWidth)/2, y, big, color)
		y += big
	}
}

// drawStatsGraph charts score (green) and duration (purple) per record.
// Grouped records show a min-max range with an average marker.
func (w *Window) drawStatsGraph() {
	graphWidth := w.screenWidth - (borderPadding * 2)
	graphY := w.screenHeight - graphHeight - borderPadding

	rl.DrawRectangle(borderPadding, graphY, graphWidth, graphHeight, rl.DarkGray)

	records := w.stats.Records()
	if len(records) < 2 {
		return
	}

	maxScore := float32(max(w.stats.MaxScore(), 1))
	maxDuration := float32(max(w.stats.MaxDuration(), 1))
	scaleY := float32(graphHeight-40) / maxScore
	durationScaleY := float32(graphHeight-40) / maxDuration
	bottom := float32(graphY + graphHeight)

	const (
		barWidth   = float32(4) // Standard width for all bars
		barSpacing = float32(6) // Space between score and duration bars
		barAlpha   = uint8(180) // Standard alpha for bars
	)
	scoreBar := rl.Color{R: 0, G: barAlpha, B: 0, A: barAlpha}
	durationBar := rl.Color{R: barAlpha, G: 0, B: barAlpha, A: barAlpha}

	pointSpacing := float32(graphWidth) / float32(len(records)-1)
	currentX := float32(borderPadding)

	for i, rec := range records {
		scoreX := currentX - barSpacing/2
		durationX := currentX + barSpacing/2

		scoreY := bottom - float32(rec.AverageScore)*scaleY
		durationY := bottom - float32(rec.AverageDuration)*durationScaleY
		if rec.CompressionIndex == 0 {
			rl.DrawRectangle(int32(scoreX-barWidth/2), int32(scoreY), int32(barWidth), int32(bottom-scoreY), scoreBar)
			rl.DrawRectangle(int32(durationX-barWidth/2), int32(durationY), int32(barWidth), int32(bottom-durationY), durationBar)
		} else {
			minScoreY := bottom - float32(rec.MinScore)*scaleY
			maxScoreY := bottom - float32(rec.MaxScore)*scaleY
			rl.DrawRectangle(int32(scoreX-barWidth/2), int32(maxScoreY), int32(barWidth), int32(minScoreY-maxScoreY), scoreBar)
			rl.DrawRectangle(int32(scoreX-barWidth/2), int32(scoreY), int32(barWidth), 2, rl.Green)

			minDurationY := bottom - float32(rec.MinDuration)*durationScaleY
			maxDurationY := bottom - float32(rec.MaxDuration)*durationScaleY
			rl.DrawRectangle(int32(durationX-barWidth/2), int32(maxDurationY), int32(barWidth), int32(minDurationY-maxDurationY), durationBar)
			rl.DrawRectangle(int32(durationX-barWidth/2), int32(durationY), int32(barWidth), 2, rl.Purple)
		}

		if i < len(records)-1 {
			next := records[i+1]
			nextX := currentX + pointSpacing
			nextScoreY := bottom - float32(next.AverageScore)*scaleY
			nextDurationY := bottom - float32(next.AverageDuration)*durationScaleY
			rl.DrawLine(int32(scoreX), int32(scoreY), int32(nextX-barSpacing/2), int32(nextScoreY), rl.Green)
			rl.DrawLine(int32(durationX), int32(durationY), int32(nextX+barSpacing/2), int32(nextDurationY), rl.Purple)
		}
		currentX += pointSpacing
	}

	summary := fmt.Sprintf("Games: %d  Avg: %.1f  Median: %.1f  Avg Duration: %.1fs",
		w.stats.GamesPlayed(), w.stats.AverageScore(), w.stats.MedianScore(), w.stats.AverageDuration())
	rl.DrawText(summary, borderPadding+5, graphY+5, 16, rl.LightGray)
}
