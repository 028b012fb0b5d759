// Command chaser runs the game: a kitten chases a mouse across a few
// screens, with optional automated screenshot capture of screen
// transitions.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/e7canasta/chaser-game/internal/config"
	"github.com/e7canasta/chaser-game/internal/logging"
)

var (
	flagVerbosity   int
	flagLogFile     string
	flagConfig      string
	flagScreenshots bool
)

func main() {
	root := &cobra.Command{
		Use:           "chaser",
		Short:         "Interactive 2D chase game",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPlay,
	}

	play := &cobra.Command{
		Use:   "play",
		Short: "Start the game (default)",
		RunE:  runPlay,
	}
	root.AddCommand(play)

	for _, fs := range []*cobra.Command{root, play} {
		fs.Flags().CountVarP(&flagVerbosity, "verbose", "v",
			"increase verbosity: -v (info), -vv (debug)")
		fs.Flags().StringVar(&flagLogFile, "log-file", "",
			"write logs to file in addition to stderr")
		fs.Flags().StringVar(&flagConfig, "config", "",
			"path to TOML configuration file")
		fs.Flags().BoolVar(&flagScreenshots, "screenshots", false,
			"enable automated screenshot capture on screen transitions")
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	closeLogs, err := logging.Setup(flagVerbosity, flagLogFile)
	if err != nil {
		return err
	}
	defer closeLogs()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("screenshots") {
		cfg.Capture.Enabled = flagScreenshots
	}

	slog.Info("chaser: starting",
		"width", cfg.Window.Width, "height", cfg.Window.Height,
		"capture", cfg.Capture.Enabled)

	if err := run(cfg); err != nil {
		slog.Error("chaser: application error", "error", err)
		return err
	}
	slog.Info("chaser: closed")
	return nil
}
