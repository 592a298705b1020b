package render

import (
	"fmt"

	"spin/hal"
)

// ShaderCompileError reports a shader stage that failed to compile or left
// diagnostics in its log.
type ShaderCompileError struct {
	Stage  hal.ShaderStage
	Status int32
	Log    string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("shader compilation failed (%s, status %d): %s", e.Stage, e.Status, e.Log)
}

// LinkError reports a program that failed to link or left diagnostics in its log.
type LinkError struct {
	Status int32
	Log    string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("program linking failed (status %d): %s", e.Status, e.Log)
}
