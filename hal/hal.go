package hal

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrNoCGO = errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")

// WindowingError reports a failure to create the OS window or its context.
type WindowingError struct {
	Op  string
	Err error
}

func (e *WindowingError) Error() string {
	return fmt.Sprintf("windowing: %s: %v", e.Op, e.Err)
}

func (e *WindowingError) Unwrap() error { return e.Err }

// GraphicsInitError reports a failure to load the graphics API entry points.
type GraphicsInitError struct {
	Err error
}

func (e *GraphicsInitError) Error() string {
	return fmt.Sprintf("graphics init: %v", e.Err)
}

func (e *GraphicsInitError) Unwrap() error { return e.Err }

// Handle names a GPU-side object. Zero is never a valid handle.
type Handle uint32

// ShaderStage selects the pipeline stage a shader object is compiled for.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota + 1
	StageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyEscape
)

// GPU is the render context: the bind/draw surface of the graphics API.
//
// All methods must be called from the thread that owns the context.
type GPU interface {
	SetClearColor(r, g, b, a float32)
	EnableDepthTest()
	Clear()

	CreateShader(stage ShaderStage) Handle
	// CompileShader compiles src into shader and returns the driver status
	// (non-zero on success) and its info log.
	CompileShader(shader Handle, src string) (status int32, log string)
	DeleteShader(shader Handle)

	CreateProgram() Handle
	AttachShader(program, shader Handle)
	DetachShader(program, shader Handle)
	LinkProgram(program Handle) (status int32, log string)
	UseProgram(program Handle)
	UniformLocation(program Handle, name string) int32
	UniformMatrix4(location int32, m mgl32.Mat4)
	DeleteProgram(program Handle)

	// CreateBuffer uploads data once into an immutable vertex buffer.
	CreateBuffer(data []float32) Handle
	DeleteBuffer(buffer Handle)
	// EnableAttrib binds buffer to an attribute slot as tightly packed
	// float vectors of the given component count.
	EnableAttrib(slot uint32, buffer Handle, components int32)
	DisableAttrib(slot uint32)
	DrawTriangles(first, count int32)
}

// Window is the OS window that owns the rendering surface.
type Window interface {
	Size() (width, height int)
	ShouldClose() bool
	KeyPressed(key KeyCode) bool
	Swap()
	Poll()
}

// Clock provides frame timing.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// HAL provides the only contact point between the renderer and the outside world.
type HAL interface {
	Window() Window
	GPU() GPU
	Clock() Clock
}

// Stepper is driven once per iteration by a window driver.
type Stepper interface {
	// Step advances the app by one iteration. done reports that the app has
	// released its resources and the driver may destroy the window.
	Step() (done bool, err error)
}

// NewApp builds the app once the window and context exist.
type NewApp func(h HAL) (Stepper, error)

// WindowOptions describes the window a driver creates.
type WindowOptions struct {
	Title  string
	Width  int
	Height int
}
