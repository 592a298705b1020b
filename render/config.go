package render

import (
	"time"

	"spin/hal"
	"spin/quarkgl"

	"github.com/go-gl/mathgl/mgl32"
)

// Config holds the fixed parameters of the demo.
type Config struct {
	Window hal.WindowOptions

	// ClearColor is RGBA in [0,1].
	ClearColor [4]float32
	Camera     quarkgl.Camera

	// FrameBudget is the target duration of one frame.
	FrameBudget time.Duration
}

// DefaultConfig returns the demo's constants.
func DefaultConfig() Config {
	return Config{
		Window: hal.WindowOptions{
			Title:  "OpenGLTest",
			Width:  1920,
			Height: 1080,
		},
		ClearColor: [4]float32{0, 0, 0.4, 0},
		Camera: quarkgl.Camera{
			Position: mgl32.Vec3{0, 5, -20},
			Target:   mgl32.Vec3{0, 0, 0},
			Up:       mgl32.Vec3{0, 1, 0},
			FOVYRad:  mgl32.DegToRad(75),
			Near:     0.1,
			Far:      100,
		},
		FrameBudget: 16 * time.Millisecond,
	}
}
