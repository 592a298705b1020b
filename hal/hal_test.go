package hal

import (
	"errors"
	"testing"
)

func TestErrorsUnwrap(t *testing.T) {
	werr := error(&WindowingError{Op: "init", Err: ErrNoCGO})
	if !errors.Is(werr, ErrNoCGO) {
		t.Fatalf("errors.Is(%v, ErrNoCGO) = false", werr)
	}
	cause := errors.New("glGetString failed")
	gerr := error(&GraphicsInitError{Err: cause})
	if !errors.Is(gerr, cause) {
		t.Fatalf("errors.Is(%v, cause) = false", gerr)
	}
}

func TestShaderStageString(t *testing.T) {
	tests := []struct {
		s    ShaderStage
		want string
	}{
		{StageVertex, "vertex"},
		{StageFragment, "fragment"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}
