package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/ember/internal/config"
	"github.com/taigrr/ember/internal/scene"
	"github.com/taigrr/ember/pkg/math3d"
	"github.com/taigrr/ember/pkg/render"
)

func newViewCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Render interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The terminal owns stdout, so logs go nowhere without a file.
			cfg, log, closeLog, err := global.setup(io.Discard)
			if err != nil {
				return err
			}
			defer closeLog()
			return runView(cmd.Context(), cfg, log)
		},
	}
}

// viewport tracks the terminal and the buffers sized to it. Each cell
// holds two pixel rows.
type viewport struct {
	cols, rows int
	fb         *render.Framebuffer
	depth      *render.DepthBuffer
}

func newViewport(cols, rows int) *viewport {
	return &viewport{
		cols:  cols,
		rows:  rows,
		fb:    render.NewFramebuffer(cols, rows*2),
		depth: render.NewDepthBuffer(cols, rows*2),
	}
}

func (v *viewport) resize(cols, rows int) {
	v.cols, v.rows = cols, rows
	v.fb.Resize(cols, rows*2)
	v.depth.Resize(cols, rows*2)
}

func runView(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	vp := newViewport(cols, rows)

	sc, err := scene.New(cfg, vp.fb.Width, vp.fb.Height, log)
	if err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan uv.Event)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()

	hud := newHUD()
	lastFrame := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				term.Erase()
				term.Resize(ev.Width, ev.Height)
				vp.resize(ev.Width, ev.Height)
				sc.Resize(vp.fb.Width, vp.fb.Height)
				log.Info("terminal resized", "cols", ev.Width, "rows", ev.Height)
			case uv.KeyPressEvent:
				if handleKey(sc, ev) {
					return nil
				}
			}

		case now := <-ticker.C:
			dt := min(now.Sub(lastFrame).Seconds(), 0.1)
			lastFrame = now

			sc.Update(dt)
			stats := sc.Render(vp.fb, vp.depth)

			vp.fb.Draw(term, uv.Rect(0, 0, vp.cols, vp.rows))
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}

			hud.update(now)
			if sc.PrintFPS() {
				hud.draw(os.Stdout, vp.cols, sc, stats)
			}
		}
	}
}

// Camera controls
const (
	moveStep       = 1.0 // World units per key press
	fastMultiplier = 4.0
	turnStep       = 0.05 // Radians per key press
	fovStep        = 1.0  // Degrees per key press
	minFOV         = 1.0
	maxFOV         = 179.0
)

// handleKey applies one key press and reports whether to quit.
func handleKey(sc *scene.Scene, ev uv.KeyPressEvent) bool {
	step := moveStep
	if ev.Mod.Contains(uv.ModShift) {
		step *= fastMultiplier
	}
	cam := sc.Camera

	switch {
	case ev.MatchString("escape", "ctrl+c"):
		return true
	case ev.MatchString("f2", "2"):
		sc.ToggleRotation()
	case ev.MatchString("f3", "3"):
		sc.ToggleFire()
	case ev.MatchString("f5", "5"):
		sc.CycleRenderMode()
	case ev.MatchString("f6", "6"):
		sc.ToggleNormalMap()
	case ev.MatchString("f7", "7"):
		sc.ToggleDepth()
	case ev.MatchString("f8", "8"):
		sc.ToggleBoundingBox()
	case ev.MatchString("f9", "9"):
		sc.CycleCullMode()
	case ev.MatchString("f10", "0"):
		sc.ToggleUniformBackground()
	case ev.MatchString("f11", "f"):
		sc.TogglePrintFPS()
	case ev.MatchString("w", "shift+w"):
		cam.MoveForward(step)
	case ev.MatchString("s", "shift+s"):
		cam.MoveForward(-step)
	case ev.MatchString("a", "shift+a"):
		cam.MoveRight(-step)
	case ev.MatchString("d", "shift+d"):
		cam.MoveRight(step)
	case ev.MatchString("up", "shift+up"):
		cam.MoveUp(step)
	case ev.MatchString("down", "shift+down"):
		cam.MoveUp(-step)
	case ev.MatchString("left"):
		cam.Rotate(0, -turnStep)
	case ev.MatchString("right"):
		cam.Rotate(0, turnStep)
	case ev.MatchString("q"):
		cam.SetFOV(math3d.Clamp(cam.FOV-fovStep, minFOV, maxFOV))
	case ev.MatchString("e"):
		cam.SetFOV(math3d.Clamp(cam.FOV+fovStep, minFOV, maxFOV))
	}
	return false
}
