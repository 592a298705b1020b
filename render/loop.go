package render

import (
	"time"

	"spin/hal"

	"github.com/go-gl/mathgl/mgl32"
)

// State is the lifecycle of a Renderer.
type State uint8

const (
	StateRunning State = iota
	StateClosing
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Renderer owns the GPU objects of the demo and runs its frame loop.
type Renderer struct {
	gpu   hal.GPU
	win   hal.Window
	clock hal.Clock
	cfg   Config

	program hal.Handle
	mvp     int32

	cube    hal.Handle
	pyramid hal.Handle
	colours hal.Handle

	viewProj mgl32.Mat4

	anim   Animation
	state  State
	frames uint64
	delay  time.Duration
}

// New builds the shader program and uploads the meshes. The window and
// context must already exist.
func New(h hal.HAL, cfg Config) (*Renderer, error) {
	r := &Renderer{
		gpu:   h.GPU(),
		win:   h.Window(),
		clock: h.Clock(),
		cfg:   cfg,
	}

	r.gpu.EnableDepthTest()

	prog, err := BuildProgram(r.gpu, vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, err
	}
	r.program = prog
	r.mvp = r.gpu.UniformLocation(prog, mvpUniform)
	if r.mvp < 0 {
		hal.Logger().Warn("uniform not active", "name", mvpUniform)
	}

	w, hh := r.win.Size()
	aspect := float32(1)
	if w > 0 && hh > 0 {
		aspect = float32(w) / float32(hh)
	}
	r.viewProj = cfg.Camera.ViewProjection(aspect)

	r.cube = r.gpu.CreateBuffer(cubePositions)
	r.pyramid = r.gpu.CreateBuffer(pyramidPositions)
	r.colours = r.gpu.CreateBuffer(colourData)

	c := cfg.ClearColor
	r.gpu.SetClearColor(c[0], c[1], c[2], c[3])

	hal.Logger().Info("renderer ready", "width", w, "height", hh,
		"cube_vertices", vertexCount(cubePositions), "pyramid_vertices", vertexCount(pyramidPositions))
	return r, nil
}

// App adapts New to the hal drivers.
func App(cfg Config) hal.NewApp {
	return func(h hal.HAL) (hal.Stepper, error) {
		return New(h, cfg)
	}
}

// Run builds a Renderer on h and steps it until it terminates.
func Run(h hal.HAL, cfg Config) error {
	r, err := New(h, cfg)
	if err != nil {
		return err
	}
	for {
		done, err := r.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (r *Renderer) State() State            { return r.state }
func (r *Renderer) Animation() Animation     { return r.anim }
func (r *Renderer) Frames() uint64           { return r.frames }
func (r *Renderer) LastDelay() time.Duration { return r.delay }

// Step advances the state machine by one transition and reports whether the
// renderer has terminated.
func (r *Renderer) Step() (bool, error) {
	switch r.state {
	case StateRunning:
		r.Frame()
		return false, nil
	case StateClosing:
		r.Close()
		return true, nil
	default:
		return true, nil
	}
}

// Frame renders and presents one frame, sleeps out the rest of the frame
// budget and polls the window. It is a no-op unless the renderer is running.
func (r *Renderer) Frame() {
	if r.state != StateRunning {
		return
	}
	start := r.clock.Now()

	r.gpu.Clear()
	r.gpu.UseProgram(r.program)

	r.anim.Advance()
	angle := r.anim.RotationAngle
	r.drawMesh(r.cube, vertexCount(cubePositions), Model(angle, cubeX))
	r.drawMesh(r.pyramid, vertexCount(pyramidPositions), Model(angle, pyramidX))

	r.win.Swap()
	r.frames++

	r.delay = PaceDelay(r.cfg.FrameBudget, r.clock.Now().Sub(start))
	if r.delay > 0 {
		r.clock.Sleep(r.delay)
	}

	r.win.Poll()
	if r.win.ShouldClose() || r.win.KeyPressed(hal.KeyEscape) {
		hal.Logger().Debug("close requested", "frames", r.frames)
		r.state = StateClosing
	}
}

func (r *Renderer) drawMesh(positions hal.Handle, count int32, model mgl32.Mat4) {
	r.gpu.EnableAttrib(positionSlot, positions, 3)
	r.gpu.EnableAttrib(colourSlot, r.colours, 3)
	r.gpu.UniformMatrix4(r.mvp, r.viewProj.Mul4(model))
	r.gpu.DrawTriangles(0, count)
	r.gpu.DisableAttrib(positionSlot)
	r.gpu.DisableAttrib(colourSlot)
}

// Close releases the buffers and the program. Later calls are no-ops.
func (r *Renderer) Close() {
	if r.state == StateTerminated {
		return
	}
	r.gpu.DeleteBuffer(r.cube)
	r.gpu.DeleteBuffer(r.pyramid)
	r.gpu.DeleteBuffer(r.colours)
	r.gpu.DeleteProgram(r.program)
	r.state = StateTerminated
	hal.Logger().Debug("renderer closed", "frames", r.frames)
}

// PaceDelay returns how long to sleep so that a frame that took elapsed
// fills budget. It is never negative.
func PaceDelay(budget, elapsed time.Duration) time.Duration {
	if elapsed >= budget {
		return 0
	}
	return budget - elapsed
}
