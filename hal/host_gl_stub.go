//go:build !cgo

package hal

func RunGL(_ WindowOptions, _ NewApp) error {
	return &WindowingError{Op: "init", Err: ErrNoCGO}
}
