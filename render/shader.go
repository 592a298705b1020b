package render

import (
	"fmt"

	"spin/hal"
)

// CompileShader creates a shader object for stage and compiles src into it.
// Any diagnostic output is treated as failure, in which case the shader
// object is deleted and a *ShaderCompileError is returned.
func CompileShader(gpu hal.GPU, stage hal.ShaderStage, src string) (hal.Handle, error) {
	sh := gpu.CreateShader(stage)
	if sh == 0 {
		return 0, &ShaderCompileError{Stage: stage, Log: "could not create shader object"}
	}
	status, log := gpu.CompileShader(sh, src)
	if status == 0 || log != "" {
		gpu.DeleteShader(sh)
		return 0, &ShaderCompileError{Stage: stage, Status: status, Log: log}
	}
	return sh, nil
}

// LinkProgram links the compiled stages into a program. On success the
// stages are detached and deleted. On failure the program and the stages
// are deleted and a *LinkError is returned.
func LinkProgram(gpu hal.GPU, stages [2]hal.Handle) (hal.Handle, error) {
	prog := gpu.CreateProgram()
	if prog == 0 {
		for _, sh := range stages {
			gpu.DeleteShader(sh)
		}
		return 0, &LinkError{Log: "could not create program object"}
	}
	for _, sh := range stages {
		gpu.AttachShader(prog, sh)
	}

	status, log := gpu.LinkProgram(prog)
	if status == 0 || log != "" {
		for _, sh := range stages {
			gpu.DetachShader(prog, sh)
			gpu.DeleteShader(sh)
		}
		gpu.DeleteProgram(prog)
		return 0, &LinkError{Status: status, Log: log}
	}

	for _, sh := range stages {
		gpu.DetachShader(prog, sh)
		gpu.DeleteShader(sh)
	}
	return prog, nil
}

// BuildProgram compiles vs and fs and links them.
func BuildProgram(gpu hal.GPU, vs, fs string) (hal.Handle, error) {
	v, err := CompileShader(gpu, hal.StageVertex, vs)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	f, err := CompileShader(gpu, hal.StageFragment, fs)
	if err != nil {
		gpu.DeleteShader(v)
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	prog, err := LinkProgram(gpu, [2]hal.Handle{v, f})
	if err != nil {
		return 0, fmt.Errorf("link: %w", err)
	}
	return prog, nil
}
