package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/taigrr/ember/internal/scene"
	"github.com/taigrr/ember/pkg/render"
)

type renderFlags struct {
	frames int
	outDir string
	dt     float64
	width  int
	height int
}

func newRenderCmd(global *globalFlags) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render frames to PNG files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, closeLog, err := global.setup(os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			if cmd.Flags().Changed("width") {
				cfg.Width = flags.width
			}
			if cmd.Flags().Changed("height") {
				cfg.Height = flags.height
			}
			if flags.dt <= 0 {
				flags.dt = 1 / float64(cfg.FPS)
			}
			if flags.frames <= 0 {
				return fmt.Errorf("frames must be positive, got %d", flags.frames)
			}

			sc, err := scene.New(cfg, cfg.Width, cfg.Height, log)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(flags.outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			fb := render.NewFramebuffer(cfg.Width, cfg.Height)
			depth := render.NewDepthBuffer(cfg.Width, cfg.Height)

			pb := progressbar.Default(int64(flags.frames), "rendering")
			defer pb.Close()

			var total time.Duration
			for i := range flags.frames {
				if err := cmd.Context().Err(); err != nil {
					return err
				}

				start := time.Now()
				stats := sc.Render(fb, depth)
				elapsed := time.Since(start)
				total += elapsed
				if sc.PrintFPS() {
					log.Info("frame", "index", i, "fps", 1/elapsed.Seconds(), "stats", stats)
				}

				path := filepath.Join(flags.outDir, fmt.Sprintf("frame_%04d.png", i))
				if err := fb.SavePNG(path); err != nil {
					return fmt.Errorf("frame %d: %w", i, err)
				}
				sc.Update(flags.dt)
				pb.Add(1)
			}

			log.Info("render complete", "frames", flags.frames, "dir", flags.outDir,
				"avg_frame", total/time.Duration(flags.frames))
			return nil
		},
	}
	cmd.Flags().IntVarP(&flags.frames, "frames", "n", 1, "number of frames to render")
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", "frames", "output directory")
	cmd.Flags().Float64Var(&flags.dt, "dt", 0, "seconds between frames (default 1/fps)")
	cmd.Flags().IntVar(&flags.width, "width", 0, "override the configured width")
	cmd.Flags().IntVar(&flags.height, "height", 0, "override the configured height")
	return cmd
}
