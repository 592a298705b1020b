//go:build !cgo

package hal

func RunWindow(_ WindowOptions, _ NewApp) error {
	return &WindowingError{Op: "init", Err: ErrNoCGO}
}
