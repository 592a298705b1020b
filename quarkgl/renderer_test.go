package quarkgl

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

var red = []float32{1, 0, 0, 1, 0, 0, 1, 0, 0}

func countColor(t *RGBATarget, c Color) int {
	w, h := t.Size()
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if t.At(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestDrawTrianglesFills(t *testing.T) {
	target := NewRGBATarget(32, 32)
	r := NewRenderer(32, 32, true)
	r.Clear(target, RGB(0, 0, 0))

	tri := []float32{-1, -1, 0, 1, -1, 0, -1, 1, 0}
	if got := r.DrawTriangles(target, mgl32.Ident4(), tri, red, 0, 3); got != 1 {
		t.Fatalf("DrawTriangles() = %d, want 1", got)
	}
	n := countColor(target, RGB(0xFF, 0, 0))
	if n < 32*32/2-32 || n > 32*32/2+64 {
		t.Fatalf("red pixels = %d, want about half of %d", n, 32*32)
	}
	if got := target.At(0, 31); got != RGB(0xFF, 0, 0) {
		t.Fatalf("At(0, 31) = %v, want red", got)
	}
	if got := target.At(31, 0); got != RGB(0, 0, 0) {
		t.Fatalf("At(31, 0) = %v, want black", got)
	}
}

func TestDrawTrianglesDepth(t *testing.T) {
	target := NewRGBATarget(16, 16)
	r := NewRenderer(16, 16, true)
	r.Clear(target, RGB(0, 0, 0))

	near := []float32{-1, -1, -0.5, 3, -1, -0.5, -1, 3, -0.5}
	far := []float32{-1, -1, 0.5, 3, -1, 0.5, -1, 3, 0.5}
	green := []float32{0, 1, 0, 0, 1, 0, 0, 1, 0}

	r.DrawTriangles(target, mgl32.Ident4(), near, red, 0, 3)
	r.DrawTriangles(target, mgl32.Ident4(), far, green, 0, 3)
	if got := target.At(8, 8); got != RGB(0xFF, 0, 0) {
		t.Fatalf("At(8, 8) = %v, want the nearer red", got)
	}

	r.EnableDepth(false, 16, 16)
	r.DrawTriangles(target, mgl32.Ident4(), far, green, 0, 3)
	if got := target.At(8, 8); got != RGB(0, 0xFF, 0) {
		t.Fatalf("At(8, 8) without depth = %v, want green", got)
	}
}

func TestDrawTrianglesBehindCamera(t *testing.T) {
	target := NewRGBATarget(8, 8)
	r := NewRenderer(8, 8, false)
	r.Clear(target, RGB(0, 0, 0))

	// w = -1 for every vertex.
	flip := mgl32.Ident4()
	flip[15] = -1
	tri := []float32{-1, -1, 0, 1, -1, 0, -1, 1, 0}
	if got := r.DrawTriangles(target, flip, tri, red, 0, 3); got != 0 {
		t.Fatalf("DrawTriangles() = %d, want 0", got)
	}
	if n := countColor(target, RGB(0, 0, 0)); n != 64 {
		t.Fatalf("untouched pixels = %d, want 64", n)
	}
}

func TestDrawTrianglesRange(t *testing.T) {
	target := NewRGBATarget(8, 8)
	r := NewRenderer(8, 8, false)
	tri := []float32{-1, -1, 0, 1, -1, 0, -1, 1, 0}

	tests := []struct {
		first, count int
		want         int
	}{
		{0, 3, 1},
		{0, 2, 0},
		{0, 6, 1}, // runs past the buffer
		{1, 3, 0},
		{-1, 3, 0},
	}
	for _, tt := range tests {
		if got := r.DrawTriangles(target, mgl32.Ident4(), tri, nil, tt.first, tt.count); got != tt.want {
			t.Fatalf("DrawTriangles(first %d, count %d) = %d, want %d", tt.first, tt.count, got, tt.want)
		}
	}
}

func TestCameraLooksDownTarget(t *testing.T) {
	c := Camera{
		Position: mgl32.Vec3{0, 5, -20},
		FOVYRad:  mgl32.DegToRad(75),
		Near:     0.1,
		Far:      100,
	}
	p := c.ViewProjection(16.0 / 9.0).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if p.W() <= 0 {
		t.Fatalf("origin clip w = %v, want > 0", p.W())
	}
	ndc := p.Vec3().Mul(1 / p.W())
	if absf(ndc.X()) > 1e-5 || absf(ndc.Y()) > 1e-5 {
		t.Fatalf("origin NDC = %v, want screen centre", ndc)
	}
	if ndc.Z() <= -1 || ndc.Z() >= 1 {
		t.Fatalf("origin NDC z = %v, want inside the depth range", ndc.Z())
	}
}

func TestRGBATargetDisplayer(t *testing.T) {
	target := NewRGBATarget(4, 3)
	d := target.Displayer()
	if w, h := d.Size(); w != 4 || h != 3 {
		t.Fatalf("Size() = %d, %d, want 4, 3", w, h)
	}
	c := color.RGBA{R: 10, G: 20, B: 30, A: 0xFF}
	d.SetPixel(2, 1, c)
	d.SetPixel(9, 9, c)
	if got := target.At(2, 1); got != RGB(10, 20, 30) {
		t.Fatalf("At(2, 1) = %v, want %v", got, RGB(10, 20, 30))
	}
	if err := d.Display(); err != nil {
		t.Fatalf("Display() error = %v", err)
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
