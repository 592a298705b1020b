//go:build cgo

package hal

import (
	"fmt"

	"spin/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// softScale is the ratio between window pixels and software framebuffer pixels.
const softScale = 4

// RunWindow opens a desktop window and renders with the software GPU,
// presenting the framebuffer through ebiten. It blocks until the app is done.
func RunWindow(opts WindowOptions, newApp NewApp) error {
	fbW, fbH := opts.Width/softScale, opts.Height/softScale
	if fbW <= 0 || fbH <= 0 {
		return &WindowingError{Op: "create window", Err: fmt.Errorf("size %dx%d is below the %dx scale", opts.Width, opts.Height, softScale)}
	}

	w := &ebitenWindow{
		width:  opts.Width,
		height: opts.Height,
		gpu:    NewSoftGPU(fbW, fbH),
		hud:    newHUD(opts.Title + " " + buildinfo.Short()),
	}
	h := &softHAL{w: w, g: w.gpu, clock: hostClock{}}

	app, err := newApp(h)
	if err != nil {
		return err
	}

	ebiten.SetWindowTitle(opts.Title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetVsyncEnabled(false)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	Logger().Info("window open", "backend", "ebiten", "width", opts.Width, "height", opts.Height,
		"framebuffer_width", fbW, "framebuffer_height", fbH)

	g := &hostGame{app: app, w: w}
	runErr := ebiten.RunGame(g)
	Logger().Debug("window destroyed", "backend", "ebiten", "swaps", w.swaps)
	return finishApp(app, w, runErr, g.stepErr)
}

type softHAL struct {
	w     Window
	g     GPU
	clock Clock
}

func (h *softHAL) Window() Window { return h.w }
func (h *softHAL) GPU() GPU       { return h.g }
func (h *softHAL) Clock() Clock   { return h.clock }

type ebitenWindow struct {
	width  int
	height int

	gpu *SoftGPU
	hud *hud

	closing bool
	lost    bool
	escape  bool
	swaps   uint64
	fbImg   *ebiten.Image
}

func (w *ebitenWindow) Size() (width, height int) { return w.width, w.height }
func (w *ebitenWindow) ShouldClose() bool         { return w.closing || w.lost }

func (w *ebitenWindow) KeyPressed(key KeyCode) bool {
	return key == KeyEscape && w.escape
}

// Poll samples input; ebiten has already processed the event queue for this tick.
func (w *ebitenWindow) Poll() {
	if w.lost {
		return
	}
	w.closing = ebiten.IsWindowBeingClosed()
	w.escape = ebiten.IsKeyPressed(ebiten.KeyEscape) || inpututil.IsKeyJustReleased(ebiten.KeyEscape)
}

func (w *ebitenWindow) markLost() { w.lost = true }

func (w *ebitenWindow) Swap() {
	w.swaps++
	w.hud.draw(w.gpu.Target(), hostClock{}.Now())
}

type hostGame struct {
	app     Stepper
	w       *ebitenWindow
	stepErr error
}

func (g *hostGame) Update() error {
	done, err := g.app.Step()
	if err != nil {
		g.stepErr = err
		return err
	}
	if done {
		return ebiten.Termination
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	t := g.w.gpu.Target()
	fbW, fbH := t.Size()
	if g.w.fbImg == nil {
		g.w.fbImg = ebiten.NewImage(fbW, fbH)
	}
	g.w.fbImg.WritePixels(t.Img.Pix)

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(softScale, softScale)
	screen.DrawImage(g.w.fbImg, &op)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w.width, g.w.height
}
