package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli"

	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/rules"
	"github.com/zeusync/arena/internal/game"
	"github.com/zeusync/arena/internal/injector"
	"github.com/zeusync/arena/internal/tournament"
	"github.com/zeusync/arena/internal/view/console"
)

func main() {
	app := makeapp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "arena:", err)
		os.Exit(1)
	}
}

func makeapp() *cli.App {
	app := cli.NewApp()
	app.Name = "arena"
	app.Usage = "Deterministic robot arena"
	app.Description = "Runs robot matches from a YAML arena description, either one at a time or as a seeded tournament."

	configFlag := cli.StringFlag{Name: "config", Value: "", Usage: "Arena YAML file; the demo roster when empty"}
	rulesFlag := cli.StringFlag{Name: "rules", Value: "", Usage: "Rules YAML file replacing the rules of the arena file"}
	maxTicksFlag := cli.Uint64Flag{Name: "max-ticks", Value: 0, Usage: "Tick limit per match; 0 keeps the configured limit"}
	debugFlag := cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"}

	app.Commands = []cli.Command{
		{
			Name:    "run",
			Aliases: []string{"r"},
			Usage:   "Play a single match",
			Flags: []cli.Flag{
				configFlag,
				rulesFlag,
				maxTicksFlag,
				debugFlag,
				cli.Uint64Flag{Name: "seed", Value: 0, Usage: "Simulation seed; 0 keeps the configured seed"},
				cli.BoolFlag{Name: "view", Usage: "Watch the match in the terminal"},
				cli.IntFlag{Name: "fps", Value: 30, Usage: "Ticks per second in view mode"},
			},
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c.String("config"), c.String("rules"), c.Uint64("max-ticks"))
				if err != nil {
					return err
				}
				seed := cfg.Seed
				if s := c.Uint64("seed"); s != 0 {
					seed = s
				}
				return runAction(cfg, seed, c.Bool("view"), c.Int("fps"), c.Bool("debug"), os.Stdout)
			},
		},
		{
			Name:    "tournament",
			Aliases: []string{"t"},
			Usage:   "Play the same match under many seeds",
			Flags: []cli.Flag{
				configFlag,
				rulesFlag,
				maxTicksFlag,
				debugFlag,
				cli.IntFlag{Name: "seeds", Value: 8, Usage: "Number of matches"},
				cli.Uint64Flag{Name: "base-seed", Value: 1, Usage: "Seed of the first match; the others follow consecutively"},
				cli.IntFlag{Name: "workers", Value: runtime.NumCPU(), Usage: "Matches played in parallel"},
			},
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c.String("config"), c.String("rules"), c.Uint64("max-ticks"))
				if err != nil {
					return err
				}
				if n := c.Int("seeds"); n < 1 {
					return fmt.Errorf("--seeds must be positive, got %d", n)
				}
				seeds := tournament.Seeds(c.Uint64("base-seed"), c.Int("seeds"))
				return tournamentAction(cfg, seeds, c.Int("workers"), c.Bool("debug"), os.Stdout)
			},
		},
	}

	return app
}

func loadConfig(path, rulesPath string, maxTicks uint64) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if rulesPath != "" {
		r, err := rules.Load(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("rules %s: %w", rulesPath, err)
		}
		cfg.Rules = r
	}
	if maxTicks != 0 {
		cfg.MaxTicks = maxTicks
	}
	return cfg, nil
}

func newLogger(debug bool) *log.Logger {
	if debug {
		return log.NewConsole(log.LevelDebug)
	}
	return log.NewConsole(log.LevelInfo)
}

// interruptible cancels the returned context on SIGINT or SIGTERM and stops
// stop, if given, so a running match finishes its current tick first.
func interruptible(stop func()) (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-stopCh:
			if stop != nil {
				stop()
			}
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(stopCh)
		cancel()
	}
}

func runAction(cfg *config.Config, seed uint64, view bool, fps int, debug bool, out io.Writer) error {
	var logger log.Log
	if view {
		// the terminal belongs to the view
		logger = log.NewNop()
	} else {
		l := newLogger(debug)
		defer func() { _ = l.Sync() }()
		logger = l
	}

	g, err := injector.InitializeSession(cfg, injector.Seed(seed), logger)
	if err != nil {
		return err
	}
	defer g.Close()

	ctx, stop := interruptible(g.Simulation().Stop)
	defer stop()

	logger.Info("match started",
		log.Uint64("seed", seed),
		log.Int("players", g.Simulation().NumPlayers()),
		log.Uint64("max_ticks", cfg.MaxTicks),
	)

	if view {
		err = watch(ctx, g, cfg.MaxTicks, fps)
	} else {
		_, err = g.Run(ctx, cfg.MaxTicks)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	printMatch(out, seed, g)
	return nil
}

func watch(ctx context.Context, g *game.Session, maxTicks uint64, fps int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	frame := time.Second / time.Duration(max(fps, 1))
	return console.Play(ctx, screen, g, maxTicks, frame)
}

func printMatch(out io.Writer, seed uint64, g *game.Session) {
	s := g.Simulation()
	fmt.Fprintf(out, "seed %d, %d ticks, digest %016x\n", seed, s.Tick(), s.Digest())
	if winner, ok := g.Winner(); ok {
		fmt.Fprintf(out, "winner: %s\n", winner)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYER\tPOINTS\tDEATHS\tLIVES\tALIVE")
	for _, st := range g.Standings() {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%t\n", st.Name, st.Points, st.Deaths, st.Lives, st.Alive)
	}
	_ = w.Flush()
}

func tournamentAction(cfg *config.Config, seeds []uint64, workers int, debug bool, out io.Writer) error {
	logger := newLogger(debug)
	defer func() { _ = logger.Sync() }()

	ctx, stop := interruptible(nil)
	defer stop()

	results, err := tournament.Run(ctx, cfg, seeds, workers, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tTICKS\tWINNER\tDIGEST")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%s\t%016x\n", r.Seed, r.Ticks, r.Winner, r.Digest)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PLAYER\tWINS\tPOINTS\t")
	for _, t := range tournament.Summarize(results) {
		fmt.Fprintf(w, "%s\t%d\t%d\t\n", t.Name, t.Wins, t.Points)
	}
	return w.Flush()
}
