package hal

import "context"

// HeadlessConfig controls the no-window runner.
type HeadlessConfig struct {
	Width  int
	Height int
	// Frames makes the window report close after N swaps (0 = never).
	Frames uint64
	// Clock defaults to the host clock.
	Clock Clock
}

// Headless is a HAL backed by the software GPU and an offscreen window.
type Headless struct {
	gpu   *SoftGPU
	win   *headlessWindow
	clock Clock
}

// NewHeadless returns an offscreen HAL.
func NewHeadless(cfg HeadlessConfig) *Headless {
	if cfg.Clock == nil {
		cfg.Clock = hostClock{}
	}
	return &Headless{
		gpu:   NewSoftGPU(cfg.Width, cfg.Height),
		win:   &headlessWindow{width: cfg.Width, height: cfg.Height, frames: cfg.Frames},
		clock: cfg.Clock,
	}
}

func (h *Headless) Window() Window { return h.win }
func (h *Headless) GPU() GPU       { return h.gpu }
func (h *Headless) Clock() Clock   { return h.clock }

// SoftGPU exposes the framebuffer and counters for inspection.
func (h *Headless) SoftGPU() *SoftGPU { return h.gpu }

// Swaps returns the number of presented frames.
func (h *Headless) Swaps() uint64 { return h.win.swaps }

// Destroyed returns how many times the window was destroyed.
func (h *Headless) Destroyed() int { return h.win.destroyed }

// RequestClose makes the window report close on the next poll.
func (h *Headless) RequestClose() { h.win.closeRequested = true }

// PressKey holds key down until the end of the run.
func (h *Headless) PressKey(key KeyCode) { h.win.pressed = key }

// Destroy releases the window. Later calls are no-ops.
func (h *Headless) Destroy() {
	if h.win.destroyed > 0 {
		return
	}
	h.win.destroyed++
	Logger().Debug("window destroyed", "backend", "headless", "swaps", h.win.swaps)
}

type headlessWindow struct {
	width  int
	height int
	frames uint64

	swaps          uint64
	closeRequested bool
	pressed        KeyCode
	destroyed      int
}

func (w *headlessWindow) Size() (width, height int) { return w.width, w.height }

func (w *headlessWindow) ShouldClose() bool {
	return w.closeRequested || (w.frames > 0 && w.swaps >= w.frames)
}

func (w *headlessWindow) KeyPressed(key KeyCode) bool {
	return key != KeyUnknown && w.pressed == key
}

func (w *headlessWindow) Swap() { w.swaps++ }
func (w *headlessWindow) Poll() {}

// RunHeadless drives the app without opening a window. Cancelling ctx asks
// the app to close; RunHeadless then returns ctx.Err() once the app is done.
func RunHeadless(ctx context.Context, cfg HeadlessConfig, newApp NewApp) error {
	h := NewHeadless(cfg)
	defer h.Destroy()

	app, err := newApp(h)
	if err != nil {
		return err
	}
	Logger().Info("window open", "backend", "headless", "width", cfg.Width, "height", cfg.Height)

	for {
		if ctx.Err() != nil {
			h.RequestClose()
		}
		done, err := app.Step()
		if err != nil {
			return err
		}
		if done {
			return ctx.Err()
		}
	}
}
