// ember - software rasterizer for a shaded vehicle and a fire effect.
//
// The view command draws into the terminal with half-block cells. The
// render command writes PNG frames.
//
// Controls (view):
//
//	F2 / 2      - Toggle rotation
//	F3 / 3      - Toggle fire
//	F5 / 5      - Cycle shading mode
//	F6 / 6      - Toggle normal mapping
//	F7 / 7      - Toggle depth buffer view
//	F8 / 8      - Toggle bounding box view
//	F9 / 9      - Cycle cull mode
//	F10 / 0     - Toggle uniform background
//	F11 / f     - Toggle FPS overlay
//	W/S         - Move forward/back (shift for faster)
//	A/D         - Strafe left/right
//	Up/Down     - Move up/down
//	Left/Right  - Turn
//	Q/E         - Narrow/widen field of view
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/ember/internal/config"
	"github.com/taigrr/ember/pkg/render"
)

type globalFlags struct {
	configPath string
	logLevel   string
	logFile    string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "ember",
		Short: "Software rasterizer for a normal-mapped vehicle and a fire effect",
		Long: `ember rasterizes an opaque Phong-shaded vehicle and a transparent,
alpha-blended fire effect entirely on the CPU. Assets and initial toggles
come from a YAML config; missing assets are replaced with procedural ones.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "ember.yaml", "path to the YAML config")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "write logs to this file")

	root.AddCommand(newViewCmd(&flags), newRenderCmd(&flags))
	return root
}

// setup loads the config and builds the logger. fallback receives logs
// when no log file is set. The returned close func flushes the file.
func (f *globalFlags) setup(fallback io.Writer) (config.Config, *slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("log level: %w", err)
	}

	out, closeLog := fallback, func() {}
	if f.logFile != "" {
		file, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return config.Config{}, nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closeLog = file, func() { file.Close() }
	}

	log := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	render.SetLogger(log.With("component", "render"))

	cfg, err := config.Load(f.configPath)
	if err != nil {
		closeLog()
		return config.Config{}, nil, nil, err
	}
	log.Debug("config loaded", "path", f.configPath, "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
	return cfg, log, closeLog, nil
}
