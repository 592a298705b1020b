package quarkgl

import "github.com/go-gl/mathgl/mgl32"

// Renderer is a fixed-pipeline software rasterizer with an optional depth buffer.
//
// Create it once and reuse it to avoid allocations.
type Renderer struct {
	Depth bool

	depthBuf []float32
}

// NewRenderer creates a renderer for a given maximum target size.
//
// If enableDepth is true, a depth buffer of size w*h is allocated.
func NewRenderer(w, h int, enableDepth bool) *Renderer {
	r := &Renderer{}
	r.EnableDepth(enableDepth, w, h)
	return r
}

func (r *Renderer) EnableDepth(on bool, w, h int) {
	r.Depth = on
	if !on || w <= 0 || h <= 0 {
		r.depthBuf = nil
		return
	}
	if cap(r.depthBuf) < w*h {
		r.depthBuf = make([]float32, w*h)
	} else {
		r.depthBuf = r.depthBuf[:w*h]
	}
}

// Clear fills t with c and resets the depth buffer.
func (r *Renderer) Clear(t Target, c Color) {
	if t == nil {
		return
	}
	t.Clear(c)
	if !r.Depth {
		return
	}
	w, h := t.Size()
	r.EnableDepth(true, w, h)
	for i := range r.depthBuf {
		r.depthBuf[i] = 1
	}
}

// DrawTriangles rasterizes count vertices starting at first as a triangle
// list. pos and col hold tightly packed xyz and rgb triples. It returns the
// number of triangles that reached the rasterizer.
func (r *Renderer) DrawTriangles(t Target, mvp mgl32.Mat4, pos, col []float32, first, count int) int {
	if t == nil || first < 0 || count < 3 {
		return 0
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return 0
	}
	if r.Depth && len(r.depthBuf) != w*h {
		r.EnableDepth(true, w, h)
	}

	drawn := 0
	for v := first; v+2 < first+count; v += 3 {
		var sx, sy [3]int
		var sz [3]float32
		var c [3]Color
		ok := true
		for k := 0; k < 3; k++ {
			i := (v + k) * 3
			if i+2 >= len(pos) {
				return drawn
			}
			p := mvp.Mul4x1(mgl32.Vec4{pos[i], pos[i+1], pos[i+2], 1})
			ndc, visible := clipToNDC(p)
			if !visible {
				ok = false
				break
			}
			sx[k], sy[k] = ndcToScreen(ndc, w, h)
			sz[k] = ndc.Z
			c[k] = vertexColor(col, v+k)
		}
		// Trivial clip: triangles touching the camera plane are dropped.
		if !ok {
			continue
		}
		drawn++
		r.fillTriangle(t, w, h,
			sx[0], sy[0], sz[0], c[0],
			sx[1], sy[1], sz[1], c[1],
			sx[2], sy[2], sz[2], c[2])
	}
	return drawn
}

func vertexColor(col []float32, v int) Color {
	i := v * 3
	if i+2 >= len(col) {
		return RGB(0xFF, 0xFF, 0xFF)
	}
	return ColorFromFloat(col[i], col[i+1], col[i+2], 1)
}

type ndcPoint struct {
	X, Y, Z float32
}

func clipToNDC(p mgl32.Vec4) (ndcPoint, bool) {
	w := p.W()
	if w <= 0 {
		return ndcPoint{}, false
	}
	invW := 1 / w
	return ndcPoint{X: p.X() * invW, Y: p.Y() * invW, Z: p.Z() * invW}, true
}

func ndcToScreen(p ndcPoint, w, h int) (x, y int) {
	sx := (p.X*0.5 + 0.5) * float32(w-1)
	sy := (1 - (p.Y*0.5 + 0.5)) * float32(h-1)
	return int(sx + 0.5), int(sy + 0.5)
}

func (r *Renderer) depthTest(w int, x, y int, z float32) bool {
	if !r.Depth || r.depthBuf == nil {
		return true
	}
	if x < 0 || y < 0 || x >= w {
		return false
	}
	idx := y*w + x
	if idx < 0 || idx >= len(r.depthBuf) {
		return false
	}
	// NDC z is in [-1,1]; fragments outside the depth range are clipped.
	d := z*0.5 + 0.5
	if d < 0 || d > 1 {
		return false
	}
	if d >= r.depthBuf[idx] {
		return false
	}
	r.depthBuf[idx] = d
	return true
}

func (r *Renderer) fillTriangle(t Target, w, h int, x0, y0 int, z0 float32, c0 Color, x1, y1 int, z1 float32, c1 Color, x2, y2 int, z2 float32, c2 Color) {
	area := edgeFn(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}
	// No face culling: flip clockwise triangles to a common winding.
	if area < 0 {
		x1, y1, z1, c1, x2, y2, z2, c2 = x2, y2, z2, c2, x1, y1, z1, c1
		area = -area
	}

	minX, maxX := min3(x0, x1, x2), max3(x0, x1, x2)
	minY, maxY := min3(y0, y1, y2), max3(y0, y1, y2)
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if maxY >= h {
		maxY = h - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	invArea := 1.0 / float32(area)

	r0, g0, b0 := float32(c0.R), float32(c0.G), float32(c0.B)
	r1, g1, b1 := float32(c1.R), float32(c1.G), float32(c1.B)
	r2, g2, b2 := float32(c2.R), float32(c2.G), float32(c2.B)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edgeFn(x1, y1, x2, y2, x, y)
			w1 := edgeFn(x2, y2, x0, y0, x, y)
			w2 := edgeFn(x0, y0, x1, y1, x, y)
			if (w0 | w1 | w2) < 0 {
				continue
			}
			a0 := float32(w0) * invArea
			a1 := float32(w1) * invArea
			a2 := float32(w2) * invArea
			z := a0*z0 + a1*z1 + a2*z2
			if !r.depthTest(w, x, y, z) {
				continue
			}
			rr := uint8(clampF32(a0*r0+a1*r1+a2*r2+0.5, 0, 255))
			gg := uint8(clampF32(a0*g0+a1*g1+a2*g2+0.5, 0, 255))
			bb := uint8(clampF32(a0*b0+a1*b1+a2*b2+0.5, 0, 255))
			t.SetPixel(x, y, Color{R: rr, G: gg, B: bb, A: 0xFF})
		}
	}
}

func edgeFn(x0, y0, x1, y1, x, y int) int {
	return (x-x0)*(y1-y0) - (y-y0)*(x1-x0)
}

func min3(a, b, c int) int {
	if a > b {
		a = b
	}
	if a > c {
		a = c
	}
	return a
}

func max3(a, b, c int) int {
	if a < b {
		a = b
	}
	if a < c {
		a = c
	}
	return a
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
