package render

import (
	"time"

	"spin/hal"

	"github.com/go-gl/mathgl/mgl32"
)

type drawCall struct {
	positions hal.Handle
	colours   hal.Handle
	first     int32
	count     int32
	mvp       mgl32.Mat4
}

// fakeGPU records every call and tracks object lifetimes.
type fakeGPU struct {
	next hal.Handle

	compileStatus map[hal.ShaderStage]int32
	compileLog    map[hal.ShaderStage]string
	linkStatus    int32
	linkLog       string

	shaders  map[hal.Handle]hal.ShaderStage
	programs map[hal.Handle][]hal.Handle
	buffers  map[hal.Handle][]float32
	deleted  map[hal.Handle]int
	attribs  map[uint32]hal.Handle

	clears  int
	current hal.Handle
	mvp     mgl32.Mat4
	draws   []drawCall
}

func newFakeGPU() *fakeGPU {
	return &fakeGPU{
		compileStatus: map[hal.ShaderStage]int32{},
		compileLog:    map[hal.ShaderStage]string{},
		linkStatus:    1,
		shaders:       map[hal.Handle]hal.ShaderStage{},
		programs:      map[hal.Handle][]hal.Handle{},
		buffers:       map[hal.Handle][]float32{},
		deleted:       map[hal.Handle]int{},
		attribs:       map[uint32]hal.Handle{},
	}
}

func (g *fakeGPU) alloc() hal.Handle {
	g.next++
	return g.next
}

func (g *fakeGPU) SetClearColor(r, gg, b, a float32) {}
func (g *fakeGPU) EnableDepthTest()                  {}
func (g *fakeGPU) Clear()                            { g.clears++ }

func (g *fakeGPU) CreateShader(stage hal.ShaderStage) hal.Handle {
	h := g.alloc()
	g.shaders[h] = stage
	return h
}

func (g *fakeGPU) CompileShader(shader hal.Handle, src string) (int32, string) {
	stage := g.shaders[shader]
	status, ok := g.compileStatus[stage]
	if !ok {
		status = 1
	}
	return status, g.compileLog[stage]
}

func (g *fakeGPU) DeleteShader(shader hal.Handle) {
	delete(g.shaders, shader)
	g.deleted[shader]++
}

func (g *fakeGPU) CreateProgram() hal.Handle {
	h := g.alloc()
	g.programs[h] = nil
	return h
}

func (g *fakeGPU) AttachShader(program, shader hal.Handle) {
	g.programs[program] = append(g.programs[program], shader)
}

func (g *fakeGPU) DetachShader(program, shader hal.Handle) {
	attached := g.programs[program]
	for i, s := range attached {
		if s == shader {
			g.programs[program] = append(attached[:i], attached[i+1:]...)
			return
		}
	}
}

func (g *fakeGPU) LinkProgram(program hal.Handle) (int32, string) { return g.linkStatus, g.linkLog }
func (g *fakeGPU) UseProgram(program hal.Handle)                   { g.current = program }
func (g *fakeGPU) UniformLocation(program hal.Handle, name string) int32 {
	if name == mvpUniform {
		return 0
	}
	return -1
}
func (g *fakeGPU) UniformMatrix4(location int32, m mgl32.Mat4) { g.mvp = m }

func (g *fakeGPU) DeleteProgram(program hal.Handle) {
	delete(g.programs, program)
	g.deleted[program]++
}

func (g *fakeGPU) CreateBuffer(data []float32) hal.Handle {
	h := g.alloc()
	g.buffers[h] = data
	return h
}

func (g *fakeGPU) DeleteBuffer(buffer hal.Handle) {
	delete(g.buffers, buffer)
	g.deleted[buffer]++
}

func (g *fakeGPU) EnableAttrib(slot uint32, buffer hal.Handle, components int32) {
	g.attribs[slot] = buffer
}
func (g *fakeGPU) DisableAttrib(slot uint32) { delete(g.attribs, slot) }

func (g *fakeGPU) DrawTriangles(first, count int32) {
	g.draws = append(g.draws, drawCall{
		positions: g.attribs[positionSlot],
		colours:   g.attribs[colourSlot],
		first:     first,
		count:     count,
		mvp:       g.mvp,
	})
}

// fakeWindow closes after closeAfter swaps (0 = never) and reports escape
// after escapeAfter swaps (0 = never).
type fakeWindow struct {
	width, height int
	closeAfter    int
	escapeAfter   int

	swaps int
	polls int
}

func (w *fakeWindow) Size() (int, int) { return w.width, w.height }
func (w *fakeWindow) ShouldClose() bool {
	return w.closeAfter > 0 && w.swaps >= w.closeAfter
}
func (w *fakeWindow) KeyPressed(key hal.KeyCode) bool {
	return key == hal.KeyEscape && w.escapeAfter > 0 && w.swaps >= w.escapeAfter
}
func (w *fakeWindow) Swap() { w.swaps++ }
func (w *fakeWindow) Poll() { w.polls++ }

// fakeClock advances by step on every Now call.
type fakeClock struct {
	now    time.Time
	step   time.Duration
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

type fakeHAL struct {
	gpu   *fakeGPU
	win   *fakeWindow
	clock *fakeClock
}

func newFakeHAL(width, height int) *fakeHAL {
	return &fakeHAL{
		gpu:   newFakeGPU(),
		win:   &fakeWindow{width: width, height: height},
		clock: &fakeClock{now: time.Unix(0, 0)},
	}
}

func (h *fakeHAL) GPU() hal.GPU       { return h.gpu }
func (h *fakeHAL) Window() hal.Window { return h.win }
func (h *fakeHAL) Clock() hal.Clock   { return h.clock }
