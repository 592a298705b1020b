package quarkgl

import "github.com/go-gl/mathgl/mgl32"

// Camera describes the viewing transform.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	// Vertical field of view in radians.
	FOVYRad float32

	Near float32
	Far  float32
}

// View returns the camera view matrix.
func (c Camera) View() mgl32.Mat4 {
	up := c.Up
	if up == (mgl32.Vec3{}) {
		up = mgl32.Vec3{0, 1, 0}
	}
	return mgl32.LookAtV(c.Position, c.Target, up)
}

// Projection returns the perspective projection for a target aspect.
func (c Camera) Projection(aspect float32) mgl32.Mat4 {
	if aspect == 0 {
		aspect = 1
	}
	fov := c.FOVYRad
	if fov == 0 {
		fov = 1.0
	}
	return mgl32.Perspective(fov, aspect, c.Near, c.Far)
}

// ViewProjection returns Projection(aspect) * View().
func (c Camera) ViewProjection(aspect float32) mgl32.Mat4 {
	return c.Projection(aspect).Mul4(c.View())
}
