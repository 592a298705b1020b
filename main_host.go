package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"spin/hal"
	"spin/render"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	hal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg := render.DefaultConfig()
	if err := run(cfg.Window, render.App(cfg)); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal Death: %v\n", err)
		os.Exit(1)
	}
}
