package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"snake-boom/ai"
	"snake-boom/config"
	"snake-boom/game"
	"snake-boom/game/types"
	"snake-boom/spectate"
	"snake-boom/storage"
	"snake-boom/ui"
	"snake-boom/ui/term"
)

func init() {
	// raylib must stay on the thread that created the window
	runtime.LockOSThread()
}

type flags struct {
	configPath string
	ui         string
	rows       int
	cols       int
	store      string
	storePath  string
	spectate   string
	autopilot  bool
	stats      bool
	verbose    bool
	seed       uint64
	logFile    string
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "YAML config file")
	flag.StringVar(&f.ui, "ui", "", "frontend: term, raylib or headless")
	flag.IntVar(&f.rows, "rows", 0, "board rows")
	flag.IntVar(&f.cols, "cols", 0, "board columns")
	flag.StringVar(&f.store, "store", "", "storage backend: file, sqlite or none")
	flag.StringVar(&f.storePath, "store-path", "", "storage file")
	flag.StringVar(&f.spectate, "spectate", "", "serve spectators on this address, e.g. :8080")
	flag.BoolVar(&f.autopilot, "autopilot", false, "let the Q-learning agent play")
	flag.BoolVar(&f.stats, "stats", false, "print run statistics and exit")
	flag.BoolVar(&f.verbose, "v", false, "debug logging")
	flag.Uint64Var(&f.seed, "seed", 0, "random seed, 0 picks one")
	flag.StringVar(&f.logFile, "log", "", "log file (default data/snake.log, stderr when headless)")
	flag.Parse()
	return f
}

// apply overrides cfg with every flag the user set.
func (f flags) apply(cfg *config.Config) {
	if f.ui != "" {
		cfg.UI = f.ui
	}
	if f.rows > 0 {
		cfg.Rows = f.rows
	}
	if f.cols > 0 {
		cfg.Cols = f.cols
	}
	if f.store != "" {
		cfg.Storage.Backend = f.store
		if f.storePath == "" && f.store == "sqlite" {
			cfg.Storage.Path = ""
		}
	}
	if f.storePath != "" {
		cfg.Storage.Path = f.storePath
	}
	if f.spectate != "" {
		cfg.Spectate = f.spectate
	}
	if f.autopilot {
		cfg.Autopilot.Enabled = true
	}
	if f.seed != 0 {
		cfg.Seed = f.seed
	}
	if f.logFile != "" {
		cfg.LogFile = f.logFile
	}
}

func main() {
	if err := run(parseFlags()); err != nil {
		fmt.Fprintln(os.Stderr, "snake-boom:", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	f.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, closeLog, err := newLogger(cfg, f.verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := storage.Open(cfg.Storage, log)
	if err != nil {
		log.Warn().Err(err).Str("backend", cfg.Storage.Backend).Msg("storage unavailable, scores will not be kept")
		store = storage.NewMemory()
	}
	defer store.Close()

	if f.stats {
		return printStats(os.Stdout, store)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return play(ctx, cfg, store, log)
}

func newLogger(cfg config.Config, verbose bool) (zerolog.Logger, func(), error) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	path := cfg.LogFile
	if path == "" && cfg.UI != "headless" {
		path = filepath.Join(config.DataDir, "snake.log")
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("failed to open log file: %w", err)
		}
		out = file
		closeFn = func() { file.Close() }
	}

	log := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return log, closeFn, nil
}

// lazyController forwards to the engine once it exists. Frontends are
// renderers, so they have to be built before the engine.
type lazyController struct{ eng *game.Engine }

func (c *lazyController) Start()                                  { c.eng.Start() }
func (c *lazyController) Restart()                                { c.eng.Restart() }
func (c *lazyController) Quit()                                   { c.eng.Quit() }
func (c *lazyController) TogglePause()                            { c.eng.TogglePause() }
func (c *lazyController) RequestDirection(d types.Direction) bool { return c.eng.RequestDirection(d) }
func (c *lazyController) State() types.RunState                   { return c.eng.State() }

func play(ctx context.Context, cfg config.Config, store storage.Store, log zerolog.Logger) error {
	ctl := &lazyController{}
	var renderers game.MultiRenderer

	var window *ui.Window
	var terminal *term.Terminal
	switch cfg.UI {
	case "term":
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to open terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("failed to initialise terminal: %w", err)
		}
		defer screen.Fini()
		terminal = term.New(screen, ctl, log)
		renderers = append(renderers, terminal)
	case "raylib":
		window = ui.NewWindow(ctl, store.Runs, log)
		renderers = append(renderers, window)
	case "headless":
		if !cfg.Autopilot.Enabled {
			log.Info().Msg("headless without autopilot, only spectators will see the board")
		}
	default:
		return fmt.Errorf("unknown ui %q", cfg.UI)
	}

	var hub *spectate.Hub
	if cfg.Spectate != "" {
		hub = spectate.NewHub(log)
		renderers = append(renderers, hub)
	}

	var pilot *ai.Autopilot
	if cfg.Autopilot.Enabled {
		agent := ai.NewQLearning(cfg.Seed)
		if err := agent.Load(cfg.Autopilot.TablePath); err != nil {
			log.Warn().Err(err).Str("path", cfg.Autopilot.TablePath).Msg("starting with an empty q-table")
		}
		pilot = ai.NewAutopilot(agent, ctl, cfg.Autopilot.TablePath, log)
		pilot.AutoRestart = true
		renderers = append(renderers, pilot)
	}

	eng, err := game.NewEngine(game.Options{
		Grid:     types.Grid{Rows: cfg.Rows, Cols: cfg.Cols},
		Rules:    cfg.Rules,
		Seed:     cfg.Seed,
		Renderer: renderers,
		Store:    store,
		Logger:   &log,
	})
	if err != nil {
		return err
	}
	ctl.eng = eng
	// frontends show the start screen before the first run
	renderers.Render(eng.Snapshot())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if hub != nil {
		g.Go(func() error {
			hub.Run(gctx)
			return nil
		})
		g.Go(func() error {
			return spectate.NewServer(hub, store, log).ListenAndServe(gctx, cfg.Spectate)
		})
	}
	if pilot != nil {
		g.Go(func() error { return pilot.Run(gctx) })
		eng.Start()
	}

	var uiErr error
	switch {
	case terminal != nil:
		uiErr = terminal.Run(gctx)
	case window != nil:
		uiErr = window.Run(gctx, "Snake Boom")
	default:
		<-gctx.Done()
	}

	// the frontend has returned, so the game is over for everyone else
	eng.Quit()
	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return uiErr
}
