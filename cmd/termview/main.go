package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/Garsondee/map-awareness/internal/config"
	"github.com/Garsondee/map-awareness/internal/logging"
	"github.com/Garsondee/map-awareness/internal/session"
	"github.com/Garsondee/map-awareness/internal/surface/termsurface"
	"github.com/Garsondee/map-awareness/internal/termview"
)

type flags struct {
	configPath   string
	sceneFile    string
	settingsFile string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:          "termview",
		Short:        "Open a scene in the terminal with the map awareness overlay",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.configPath, "config", "", "application config file (json, toml or yaml)")
	cmd.Flags().StringVar(&f.sceneFile, "scene", "", "scene TOML file (default: bundled demo scene)")
	cmd.Flags().StringVar(&f.settingsFile, "settings", "", "file to persist overlay settings in")
	return cmd
}

func run(cmd *cobra.Command, f flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if f.sceneFile != "" {
		cfg.SceneFile = f.sceneFile
	}
	if f.settingsFile != "" {
		cfg.SettingsFile = f.settingsFile
	}

	// The terminal is the UI, so without a logs dir nothing is logged.
	log, closeLog, err := logging.ForApp(io.Discard, cfg.LogsDir, "termview", cfg.LogLevel, logging.Format(cfg.LogFormat))
	if err != nil {
		return err
	}
	defer closeLog()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()

	surf := termsurface.New()
	s, err := session.Open(cfg, surf, session.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Warn().Err(err).Msg("saving settings")
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	termview.New(s, surf, screen, logging.Component(log, "termview")).Run(ctx)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
