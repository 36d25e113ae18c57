package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/Garsondee/map-awareness/internal/config"
	"github.com/Garsondee/map-awareness/internal/logging"
	"github.com/Garsondee/map-awareness/internal/mapview"
	"github.com/Garsondee/map-awareness/internal/session"
	"github.com/Garsondee/map-awareness/internal/surface/ebitensurface"
)

type flags struct {
	configPath   string
	sceneFile    string
	settingsFile string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:          "mapview",
		Short:        "Open a scene in a window with the map awareness overlay",
		Long:         "mapview renders a tabletop scene and draws colored indicators over tokens when the view is zoomed out past the configured threshold.",
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(f)
		},
	}
	cmd.Flags().StringVar(&f.configPath, "config", "", "application config file (json, toml or yaml)")
	cmd.Flags().StringVar(&f.sceneFile, "scene", "", "scene TOML file (default: bundled demo scene)")
	cmd.Flags().StringVar(&f.settingsFile, "settings", "", "file to persist overlay settings in")
	return cmd
}

func run(f flags) error {
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

	log, closeLog, err := logging.ForApp(os.Stderr, cfg.LogsDir, "mapview", cfg.LogLevel, logging.Format(cfg.LogFormat))
	if err != nil {
		return err
	}
	defer closeLog()

	surf := ebitensurface.New()
	s, err := session.Open(cfg, surf, session.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Warn().Err(err).Msg("saving settings")
		}
	}()

	v, err := mapview.New(s, surf, cfg.WindowWidth, cfg.WindowHeight, logging.Component(log, "mapview"))
	if err != nil {
		return err
	}
	ebiten.SetWindowTitle(mapview.Title(s))
	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	if err := ebiten.RunGame(v); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
