package hal

import (
	"fmt"
	"image/color"
	"time"

	"spin/quarkgl"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// hud overlays the frame counter on a software framebuffer.
type hud struct {
	font       tinyfont.Fonter
	fontHeight int16
	title      string

	frames uint64
	last   time.Time
}

func newHUD(title string) *hud {
	return &hud{font: &proggy.TinySZ8pt7b, fontHeight: 10, title: title}
}

func (h *hud) draw(t *quarkgl.RGBATarget, now time.Time) {
	var ms float64
	if !h.last.IsZero() {
		ms = float64(now.Sub(h.last)) / float64(time.Millisecond)
	}
	h.last = now
	h.frames++

	d := t.Displayer()
	tinyfont.WriteLine(d, h.font, 2, h.fontHeight, h.title, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	line := fmt.Sprintf("frame %d  %.1f ms", h.frames, ms)
	tinyfont.WriteLine(d, h.font, 2, 2*h.fontHeight, line, color.RGBA{R: 0xA0, G: 0xA0, B: 0xA0, A: 0xFF})
}
