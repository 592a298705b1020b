package quarkgl

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
)

// RGBATarget renders into an RGBA image.
type RGBATarget struct {
	Img *image.RGBA
}

// NewRGBATarget allocates a w×h target.
func NewRGBATarget(w, h int) *RGBATarget {
	return &RGBATarget{Img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (t *RGBATarget) Size() (w, h int) {
	if t == nil || t.Img == nil {
		return 0, 0
	}
	b := t.Img.Bounds()
	return b.Dx(), b.Dy()
}

func (t *RGBATarget) Clear(c Color) {
	if t == nil || t.Img == nil {
		return
	}
	pix := t.Img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

func (t *RGBATarget) SetPixel(x, y int, c Color) {
	if t == nil || t.Img == nil {
		return
	}
	w, h := t.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	off := t.Img.PixOffset(x, y)
	t.Img.Pix[off+0] = c.R
	t.Img.Pix[off+1] = c.G
	t.Img.Pix[off+2] = c.B
	t.Img.Pix[off+3] = c.A
}

// At returns the pixel at x, y.
func (t *RGBATarget) At(x, y int) Color {
	w, h := t.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return Color{}
	}
	off := t.Img.PixOffset(x, y)
	p := t.Img.Pix[off : off+4 : off+4]
	return Color{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Displayer adapts t for tinyfont and other TinyGo display clients.
func (t *RGBATarget) Displayer() drivers.Displayer { return rgbaDisplay{t: t} }

type rgbaDisplay struct {
	t *RGBATarget
}

func (d rgbaDisplay) Size() (x, y int16) {
	w, h := d.t.Size()
	return int16(w), int16(h)
}

func (d rgbaDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.t.SetPixel(int(x), int(y), Color{R: c.R, G: c.G, B: c.B, A: 0xFF})
}

func (d rgbaDisplay) Display() error { return nil }
