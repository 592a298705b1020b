package hal

import (
	"spin/quarkgl"

	"github.com/go-gl/mathgl/mgl32"
)

// SoftStats counts the work a SoftGPU has done.
type SoftStats struct {
	Clears    int
	DrawCalls int
	Triangles int
}

type softShader struct {
	stage quarkgl.Stage
	iface *quarkgl.Interface
}

type softProgram struct {
	attached []Handle
	linked   *quarkgl.Program
	uniforms map[int32]mgl32.Mat4
}

type softAttrib struct {
	buffer     Handle
	components int32
}

// SoftGPU implements GPU on the quarkgl software rasterizer.
//
// Shader sources are validated and linked by interface only. Drawing always
// reads positions from attribute slot 0, colours from slot 1 and transforms
// by the first mat4 uniform of the current program.
type SoftGPU struct {
	target *quarkgl.RGBATarget
	r      *quarkgl.Renderer

	clear quarkgl.Color

	next     Handle
	shaders  map[Handle]*softShader
	programs map[Handle]*softProgram
	buffers  map[Handle][]float32
	attribs  map[uint32]softAttrib
	current  Handle

	stats SoftStats
}

// NewSoftGPU returns a software GPU rendering into a w×h framebuffer.
func NewSoftGPU(w, h int) *SoftGPU {
	return &SoftGPU{
		target:   quarkgl.NewRGBATarget(w, h),
		r:        quarkgl.NewRenderer(w, h, false),
		shaders:  make(map[Handle]*softShader),
		programs: make(map[Handle]*softProgram),
		buffers:  make(map[Handle][]float32),
		attribs:  make(map[uint32]softAttrib),
	}
}

// Target returns the framebuffer the GPU draws into.
func (g *SoftGPU) Target() *quarkgl.RGBATarget { return g.target }

// Stats returns the work counters.
func (g *SoftGPU) Stats() SoftStats { return g.stats }

// Live reports how many shader, program and buffer objects are still allocated.
func (g *SoftGPU) Live() (shaders, programs, buffers int) {
	return len(g.shaders), len(g.programs), len(g.buffers)
}

func (g *SoftGPU) alloc() Handle {
	g.next++
	return g.next
}

func (g *SoftGPU) SetClearColor(r, gg, b, a float32) {
	g.clear = quarkgl.ColorFromFloat(r, gg, b, a)
}

func (g *SoftGPU) EnableDepthTest() {
	w, h := g.target.Size()
	g.r.EnableDepth(true, w, h)
}

func (g *SoftGPU) Clear() {
	g.stats.Clears++
	g.r.Clear(g.target, g.clear)
}

func (g *SoftGPU) CreateShader(stage ShaderStage) Handle {
	var s quarkgl.Stage
	switch stage {
	case StageVertex:
		s = quarkgl.StageVertex
	case StageFragment:
		s = quarkgl.StageFragment
	default:
		return 0
	}
	h := g.alloc()
	g.shaders[h] = &softShader{stage: s}
	return h
}

func (g *SoftGPU) CompileShader(shader Handle, src string) (int32, string) {
	s, ok := g.shaders[shader]
	if !ok {
		return 0, "error: invalid shader object"
	}
	iface, log := quarkgl.ParseGLSL(s.stage, src)
	s.iface = iface
	if log != "" {
		return 0, log
	}
	return 1, ""
}

func (g *SoftGPU) DeleteShader(shader Handle) { delete(g.shaders, shader) }

func (g *SoftGPU) CreateProgram() Handle {
	h := g.alloc()
	g.programs[h] = &softProgram{uniforms: make(map[int32]mgl32.Mat4)}
	return h
}

func (g *SoftGPU) AttachShader(program, shader Handle) {
	p, ok := g.programs[program]
	if !ok {
		return
	}
	p.attached = append(p.attached, shader)
}

func (g *SoftGPU) DetachShader(program, shader Handle) {
	p, ok := g.programs[program]
	if !ok {
		return
	}
	for i, s := range p.attached {
		if s == shader {
			p.attached = append(p.attached[:i], p.attached[i+1:]...)
			return
		}
	}
}

func (g *SoftGPU) LinkProgram(program Handle) (int32, string) {
	p, ok := g.programs[program]
	if !ok {
		return 0, "error: invalid program object"
	}
	var vs, fs *quarkgl.Interface
	for _, h := range p.attached {
		s, ok := g.shaders[h]
		if !ok {
			continue
		}
		if s.iface == nil {
			return 0, "error: linking with uncompiled shader"
		}
		switch s.stage {
		case quarkgl.StageVertex:
			vs = s.iface
		case quarkgl.StageFragment:
			fs = s.iface
		}
	}
	linked, log := quarkgl.Link(vs, fs)
	if log != "" {
		return 0, log
	}
	p.linked = linked
	return 1, ""
}

func (g *SoftGPU) UseProgram(program Handle) { g.current = program }

func (g *SoftGPU) UniformLocation(program Handle, name string) int32 {
	p, ok := g.programs[program]
	if !ok || p.linked == nil {
		return -1
	}
	return int32(p.linked.UniformLocation(name))
}

func (g *SoftGPU) UniformMatrix4(location int32, m mgl32.Mat4) {
	p, ok := g.programs[g.current]
	if !ok || location < 0 {
		return
	}
	p.uniforms[location] = m
}

func (g *SoftGPU) DeleteProgram(program Handle) {
	delete(g.programs, program)
	if g.current == program {
		g.current = 0
	}
}

func (g *SoftGPU) CreateBuffer(data []float32) Handle {
	h := g.alloc()
	g.buffers[h] = append([]float32(nil), data...)
	return h
}

func (g *SoftGPU) DeleteBuffer(buffer Handle) { delete(g.buffers, buffer) }

func (g *SoftGPU) EnableAttrib(slot uint32, buffer Handle, components int32) {
	g.attribs[slot] = softAttrib{buffer: buffer, components: components}
}

func (g *SoftGPU) DisableAttrib(slot uint32) { delete(g.attribs, slot) }

func (g *SoftGPU) DrawTriangles(first, count int32) {
	p, ok := g.programs[g.current]
	if !ok || p.linked == nil {
		return
	}
	g.stats.DrawCalls++

	pos, ok := g.attribData(0)
	if !ok {
		return
	}
	col, _ := g.attribData(1)

	mvp := mgl32.Ident4()
	for i, u := range p.linked.Uniforms {
		if u.Type != "mat4" {
			continue
		}
		if m, ok := p.uniforms[int32(i)]; ok {
			mvp = m
		}
		break
	}
	g.stats.Triangles += g.r.DrawTriangles(g.target, mvp, pos, col, int(first), int(count))
}

func (g *SoftGPU) attribData(slot uint32) ([]float32, bool) {
	a, ok := g.attribs[slot]
	if !ok || a.components != 3 {
		return nil, false
	}
	data, ok := g.buffers[a.buffer]
	return data, ok
}
