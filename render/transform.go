package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh placement along the x axis.
const (
	cubeX    = 10
	pyramidX = -10
)

// Animation is the only state carried between frames.
type Animation struct {
	// RotationAngle in degrees. It grows without bound.
	RotationAngle float32
}

// Advance moves the animation one frame forward.
func (a *Animation) Advance() { a.RotationAngle++ }

// Scale returns the uniform scale for angle degrees, in [1,7].
func Scale(angle float32) float32 {
	return float32(math.Sin(float64(mgl32.DegToRad(angle))))*3 + 4
}

// ZOffset returns the depth offset for angle degrees, in [-5,15].
func ZOffset(angle float32) float32 {
	return float32(math.Cos(float64(mgl32.DegToRad(angle))))*10 + 5
}

// Model returns translation(x, 0, ZOffset) * rotationY * scale for angle degrees.
func Model(angle, x float32) mgl32.Mat4 {
	s := Scale(angle)
	t := mgl32.Translate3D(x, 0, ZOffset(angle))
	r := mgl32.HomogRotate3DY(mgl32.DegToRad(angle))
	return t.Mul4(r).Mul4(mgl32.Scale3D(s, s, s))
}
