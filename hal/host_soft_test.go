package hal

import (
	"strings"
	"testing"

	"spin/quarkgl"

	"github.com/go-gl/mathgl/mgl32"
)

const softVS = `#version 330 core
layout(location = 0) in vec3 pos;
layout(location = 1) in vec3 col;
out vec3 c;
uniform mat4 mvp;
void main() {
    gl_Position = mvp * vec4(pos, 1);
    c = col;
}
`

const softFS = `#version 330 core
in vec3 c;
out vec3 colour;
void main() {
    colour = c;
}
`

func buildSoftProgram(t *testing.T, g *SoftGPU) Handle {
	t.Helper()
	vs := g.CreateShader(StageVertex)
	fs := g.CreateShader(StageFragment)
	for _, s := range []struct {
		h   Handle
		src string
	}{{vs, softVS}, {fs, softFS}} {
		if status, log := g.CompileShader(s.h, s.src); status == 0 || log != "" {
			t.Fatalf("CompileShader() = %d, %q, want 1, empty log", status, log)
		}
	}
	p := g.CreateProgram()
	g.AttachShader(p, vs)
	g.AttachShader(p, fs)
	if status, log := g.LinkProgram(p); status == 0 || log != "" {
		t.Fatalf("LinkProgram() = %d, %q, want 1, empty log", status, log)
	}
	g.DetachShader(p, vs)
	g.DetachShader(p, fs)
	g.DeleteShader(vs)
	g.DeleteShader(fs)
	return p
}

func TestSoftGPUCompileError(t *testing.T) {
	g := NewSoftGPU(8, 8)
	sh := g.CreateShader(StageFragment)
	status, log := g.CompileShader(sh, "#version 330 core\nout vec5 colour;\nvoid main() {}")
	if status != 0 || !strings.HasPrefix(log, "0:") {
		t.Fatalf("CompileShader() = %d, %q, want 0 and a driver log", status, log)
	}
	if sh := g.CreateShader(ShaderStage(9)); sh != 0 {
		t.Fatalf("CreateShader(9) = %d, want 0", sh)
	}
}

func TestSoftGPULinkError(t *testing.T) {
	g := NewSoftGPU(8, 8)
	vs := g.CreateShader(StageVertex)
	g.CompileShader(vs, softVS)
	p := g.CreateProgram()
	g.AttachShader(p, vs)
	status, log := g.LinkProgram(p)
	if status != 0 || !strings.Contains(log, "fragment shader") {
		t.Fatalf("LinkProgram() = %d, %q, want 0 and a missing fragment shader log", status, log)
	}

	fs := g.CreateShader(StageFragment)
	g.AttachShader(p, fs)
	if status, log := g.LinkProgram(p); status != 0 || !strings.Contains(log, "uncompiled") {
		t.Fatalf("LinkProgram() = %d, %q, want 0 and an uncompiled shader log", status, log)
	}
}

func TestSoftGPUDraw(t *testing.T) {
	g := NewSoftGPU(16, 16)
	g.EnableDepthTest()
	g.SetClearColor(0, 0, 0.4, 0)
	p := buildSoftProgram(t, g)

	pos := g.CreateBuffer([]float32{-1, -1, 0, 3, -1, 0, -1, 3, 0})
	col := g.CreateBuffer([]float32{1, 1, 0, 1, 1, 0, 1, 1, 0})

	g.Clear()
	if got, want := g.Target().At(3, 3), quarkgl.ColorFromFloat(0, 0, 0.4, 0); got != want {
		t.Fatalf("At(3, 3) after Clear = %v, want %v", got, want)
	}

	g.UseProgram(p)
	loc := g.UniformLocation(p, "mvp")
	if loc != 0 {
		t.Fatalf("UniformLocation(mvp) = %d, want 0", loc)
	}
	if got := g.UniformLocation(p, "missing"); got != -1 {
		t.Fatalf("UniformLocation(missing) = %d, want -1", got)
	}
	g.UniformMatrix4(loc, mgl32.Ident4())
	g.EnableAttrib(0, pos, 3)
	g.EnableAttrib(1, col, 3)
	g.DrawTriangles(0, 3)
	g.DisableAttrib(0)
	g.DisableAttrib(1)

	if got := g.Target().At(3, 3); got != quarkgl.RGB(0xFF, 0xFF, 0) {
		t.Fatalf("At(3, 3) = %v, want yellow", got)
	}
	st := g.Stats()
	if st.Clears != 1 || st.DrawCalls != 1 || st.Triangles != 1 {
		t.Fatalf("Stats() = %+v, want 1 clear, 1 draw, 1 triangle", st)
	}

	// No position attribute bound: the call counts but draws nothing.
	g.DrawTriangles(0, 3)
	if st := g.Stats(); st.DrawCalls != 2 || st.Triangles != 1 {
		t.Fatalf("Stats() = %+v, want 2 draws, 1 triangle", st)
	}

	g.DeleteBuffer(pos)
	g.DeleteBuffer(col)
	g.DeleteProgram(p)
	if s, pr, b := g.Live(); s != 0 || pr != 0 || b != 0 {
		t.Fatalf("Live() = %d, %d, %d, want 0, 0, 0", s, pr, b)
	}
}
