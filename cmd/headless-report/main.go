package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Garsondee/map-awareness/internal/awareness"
	"github.com/Garsondee/map-awareness/internal/config"
	"github.com/Garsondee/map-awareness/internal/headless"
	"github.com/Garsondee/map-awareness/internal/logging"
)

type options struct {
	configPath    string
	sceneFile     string
	user          string
	from          float64
	to            float64
	steps         int
	burst         int
	pngDir        string
	width         int
	playerColors  bool
	selected      []string
	printSettings bool
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:          "headless-report",
		Short:        "Run a scripted zoom sweep without a window and report what the overlay drew",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.OutOrStdout(), o)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&o.configPath, "config", "", "application config file (json, toml or yaml)")
	fl.StringVar(&o.sceneFile, "scene", "", "scene TOML file (default: bundled demo scene)")
	fl.StringVar(&o.user, "user", "", "view the scene as this user id")
	fl.Float64Var(&o.from, "from", 1.0, "first zoom level of the sweep")
	fl.Float64Var(&o.to, "to", 0.1, "last zoom level of the sweep")
	fl.IntVar(&o.steps, "steps", 10, "number of zoom levels")
	fl.IntVar(&o.burst, "burst", 20, "token updates fired 10ms apart to check debounce coalescing (0 skips)")
	fl.StringVar(&o.pngDir, "png-dir", "", "write a PNG snapshot of every step into this directory")
	fl.IntVar(&o.width, "width", 800, "snapshot width in pixels")
	fl.BoolVar(&o.playerColors, "player-colors", false, "color character indicators by owning player")
	fl.StringSliceVar(&o.selected, "select", nil, "token ids to select before the sweep")
	fl.BoolVar(&o.printSettings, "print-settings", false, "list the overlay settings and exit")
	return cmd
}

func run(out io.Writer, o options) error {
	if o.steps <= 0 {
		return fmt.Errorf("--steps must be > 0")
	}
	if o.width <= 0 {
		return fmt.Errorf("--width must be > 0")
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.sceneFile != "" {
		cfg.SceneFile = o.sceneFile
	}
	log, closeLog, err := logging.ForApp(io.Discard, cfg.LogsDir, "headless-report", cfg.LogLevel, logging.Format(cfg.LogFormat))
	if err != nil {
		return err
	}
	defer closeLog()

	opts := []headless.Option{
		headless.WithConfig(cfg),
		headless.WithImageWidth(o.width),
		headless.WithLogger(log),
	}
	if o.pngDir != "" {
		opts = append(opts, headless.WithPNGDir(o.pngDir))
	}
	if o.user != "" {
		opts = append(opts, headless.WithUser(o.user))
	}
	if o.playerColors {
		opts = append(opts, headless.WithSetting(awareness.KeyUsePlayerColors, true))
	}
	if len(o.selected) > 0 {
		opts = append(opts, headless.WithSelected(o.selected...))
	}

	h, err := headless.New(opts...)
	if err != nil {
		return err
	}
	defer h.Session.Close()
	if o.printSettings {
		printSettings(out, h)
		return nil
	}

	table := h.Session.Table
	fmt.Fprintf(out, "=== Headless Map Awareness Report ===\n")
	fmt.Fprintf(out, "scene=%q user=%s tokens=%d from=%.2f to=%.2f steps=%d\n\n",
		table.Name(), table.CurrentUser().ID(), len(table.Placed()), o.from, o.to, o.steps)

	results, err := h.Sweep(o.from, o.to, o.steps)
	if err != nil {
		return err
	}
	for _, r := range results {
		printStep(out, r)
	}

	if o.burst > 0 {
		fired := h.Burst(o.burst, 10*time.Millisecond)
		fmt.Fprintf(out, "\nburst: events=%d gap=10ms refreshes=%d\n", o.burst, fired)
	}

	fmt.Fprintln(out)
	printAggregate(out, results)
	fmt.Fprintln(out)
	fmt.Fprint(out, h.Session.Module.Report())
	return nil
}

func printStep(out io.Writer, r headless.StepResult) {
	state := "hidden"
	if r.Stats.Shown {
		state = "shown"
	}
	line := fmt.Sprintf("step=%02d zoom=%.3f %-6s radius=%6.1f batches=%d circles=%d",
		r.Step, r.Zoom, state, r.Stats.Radius, r.Stats.Batches, r.Stats.Circles)
	if r.Snapshot != "" {
		line += " png=" + r.Snapshot
	}
	fmt.Fprintln(out, line)
}

// firstShown returns the highest zoom at which indicators were drawn, or -1.
func firstShown(results []headless.StepResult) float64 {
	best := -1.0
	for _, r := range results {
		if r.Stats.Shown && r.Zoom > best {
			best = r.Zoom
		}
	}
	return best
}

func printAggregate(out io.Writer, results []headless.StepResult) {
	shown, maxCircles := 0, 0
	maxRadius := 0.0
	for _, r := range results {
		if !r.Stats.Shown {
			continue
		}
		shown++
		maxCircles = max(maxCircles, r.Stats.Circles)
		maxRadius = max(maxRadius, r.Stats.Radius)
	}
	fmt.Fprintf(out, "steps_shown=%d/%d max_circles=%d max_radius=%.1f", shown, len(results), maxCircles, maxRadius)
	if z := firstShown(results); z >= 0 {
		fmt.Fprintf(out, " shown_from_zoom=%.3f", z)
	}
	fmt.Fprintln(out)
}

func printSettings(out io.Writer, h *headless.Harness) {
	for _, e := range h.Session.Store.Entries() {
		v, _ := h.Session.Store.Get(e.Namespace, e.Key)
		fmt.Fprintf(out, "%s.%s = %v  # %s (%s)\n", e.Namespace, e.Key, v, e.Name, e.Type)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
