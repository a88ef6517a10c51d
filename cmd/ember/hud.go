package main

import (
	"fmt"
	"io"
	"time"

	"github.com/taigrr/ember/internal/scene"
	"github.com/taigrr/ember/pkg/render"
)

// hud is the frame rate overlay on the top terminal row.
type hud struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func newHUD() *hud {
	return &hud{fpsTime: time.Now()}
}

// update counts a frame and refreshes the rate once a second.
func (h *hud) update(now time.Time) {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

func (h *hud) line(sc *scene.Scene, stats render.FrameStats) string {
	return fmt.Sprintf(" %.0f FPS  %s  cull:%s  tris:%d  frags:%d ",
		h.fps, sc.Options.RenderMode, sc.Options.CullMode, stats.Rasterized, stats.FragmentsShaded)
}

// draw writes the overlay with raw escape codes after the frame flush.
func (h *hud) draw(w io.Writer, width int, sc *scene.Scene, stats render.FrameStats) {
	const (
		reset   = "\x1b[0m"
		bgBlack = "\x1b[40m"
		fgGreen = "\x1b[92m"
		home    = "\x1b[1;1H"
	)
	text := h.line(sc, stats)
	if len(text) > width {
		text = text[:max(width, 0)]
	}
	fmt.Fprint(w, home+bgBlack+fgGreen+text+reset)
}
