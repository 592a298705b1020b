//go:build cgo

package hal

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// RunGL opens a window with an OpenGL 3.3 core context and drives the app
// until it reports done. It blocks until the window closes and must be
// called from the goroutine locked to the main OS thread.
func RunGL(opts WindowOptions, newApp NewApp) error {
	if err := glfw.Init(); err != nil {
		return &WindowingError{Op: "init", Err: err}
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Samples, 1)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		return &WindowingError{Op: "create window", Err: err}
	}
	w := &glfwWindow{win: win}
	defer w.destroy()
	win.MakeContextCurrent()

	g, err := newGLGPU()
	if err != nil {
		return err
	}
	defer g.release()

	win.SetInputMode(glfw.StickyKeysMode, glfw.True)
	Logger().Info("window open", "backend", "opengl", "width", opts.Width, "height", opts.Height)

	app, err := newApp(&glHAL{w: w, g: g})
	if err != nil {
		return err
	}
	for {
		done, err := app.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

type glHAL struct {
	w *glfwWindow
	g *glGPU
}

func (h *glHAL) Window() Window { return h.w }
func (h *glHAL) GPU() GPU       { return h.g }
func (h *glHAL) Clock() Clock   { return hostClock{} }

type glfwWindow struct {
	win *glfw.Window
}

func (w *glfwWindow) Size() (width, height int) { return w.win.GetSize() }
func (w *glfwWindow) ShouldClose() bool         { return w.win.ShouldClose() }
func (w *glfwWindow) Swap()                     { w.win.SwapBuffers() }
func (w *glfwWindow) Poll()                     { glfw.PollEvents() }

func (w *glfwWindow) KeyPressed(key KeyCode) bool {
	switch key {
	case KeyEscape:
		return w.win.GetKey(glfw.KeyEscape) == glfw.Press
	}
	return false
}

func (w *glfwWindow) destroy() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	Logger().Debug("window destroyed", "backend", "opengl")
}

type glGPU struct {
	vao uint32
}

func newGLGPU() (*glGPU, error) {
	if err := gl.Init(); err != nil {
		return nil, &GraphicsInitError{Err: err}
	}

	versionStr := gl.GoStr(gl.GetString(gl.VERSION))
	var major, minor int
	if _, err := fmt.Sscanf(versionStr, "%d.%d", &major, &minor); err != nil || major < 3 || (major == 3 && minor < 3) {
		return nil, &GraphicsInitError{Err: fmt.Errorf("OpenGL 3.3+ required, got version: %s", versionStr)}
	}
	Logger().Info("opengl context", "version", versionStr, "renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	g := &glGPU{}
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)
	return g, nil
}

func (g *glGPU) release() {
	if g.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &g.vao)
	g.vao = 0
}

func (g *glGPU) SetClearColor(r, gg, b, a float32) { gl.ClearColor(r, gg, b, a) }

func (g *glGPU) EnableDepthTest() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
}

func (g *glGPU) Clear() { gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT) }

func (g *glGPU) CreateShader(stage ShaderStage) Handle {
	switch stage {
	case StageVertex:
		return Handle(gl.CreateShader(gl.VERTEX_SHADER))
	case StageFragment:
		return Handle(gl.CreateShader(gl.FRAGMENT_SHADER))
	}
	return 0
}

func (g *glGPU) CompileShader(shader Handle, src string) (int32, string) {
	id := uint32(shader)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(id, 1, csrc, nil)
	free()
	gl.CompileShader(id)

	var status, logLen int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLen)
	return status, infoLog(logLen, func(buf *uint8) {
		gl.GetShaderInfoLog(id, logLen, nil, buf)
	})
}

func (g *glGPU) DeleteShader(shader Handle) { gl.DeleteShader(uint32(shader)) }

func (g *glGPU) CreateProgram() Handle { return Handle(gl.CreateProgram()) }

func (g *glGPU) AttachShader(program, shader Handle) {
	gl.AttachShader(uint32(program), uint32(shader))
}

func (g *glGPU) DetachShader(program, shader Handle) {
	gl.DetachShader(uint32(program), uint32(shader))
}

func (g *glGPU) LinkProgram(program Handle) (int32, string) {
	id := uint32(program)
	gl.LinkProgram(id)

	var status, logLen int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
	return status, infoLog(logLen, func(buf *uint8) {
		gl.GetProgramInfoLog(id, logLen, nil, buf)
	})
}

func (g *glGPU) UseProgram(program Handle) { gl.UseProgram(uint32(program)) }

func (g *glGPU) UniformLocation(program Handle, name string) int32 {
	return gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
}

func (g *glGPU) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (g *glGPU) DeleteProgram(program Handle) { gl.DeleteProgram(uint32(program)) }

func (g *glGPU) CreateBuffer(data []float32) Handle {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	return Handle(id)
}

func (g *glGPU) DeleteBuffer(buffer Handle) {
	id := uint32(buffer)
	gl.DeleteBuffers(1, &id)
}

func (g *glGPU) EnableAttrib(slot uint32, buffer Handle, components int32) {
	gl.EnableVertexAttribArray(slot)
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buffer))
	gl.VertexAttribPointerWithOffset(slot, components, gl.FLOAT, false, 0, 0)
}

func (g *glGPU) DisableAttrib(slot uint32) { gl.DisableVertexAttribArray(slot) }

func (g *glGPU) DrawTriangles(first, count int32) { gl.DrawArrays(gl.TRIANGLES, first, count) }

// infoLog reads an n byte driver log. Drivers report n == 1 for an empty
// log holding only the terminator.
func infoLog(n int32, read func(buf *uint8)) string {
	if n <= 0 {
		return ""
	}
	buf := make([]uint8, n)
	read(&buf[0])
	return strings.TrimRight(string(buf), "\x00 \t\r\n")
}
