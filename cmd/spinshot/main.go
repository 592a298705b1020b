package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/signal"

	"spin/hal"
	"spin/render"
)

func main() {
	var (
		outPath = flag.String("out", "", "Output PNG of the last frame.")
		frames  = flag.Uint64("frames", 90, "Frames to render before closing.")
		width   = flag.Int("w", 480, "Framebuffer width.")
		height  = flag.Int("h", 270, "Framebuffer height.")
		verbose = flag.Bool("v", false, "Log renderer events.")
	)
	flag.Parse()

	if *outPath == "" || *frames == 0 || *width <= 0 || *height <= 0 {
		fatalf("usage: spinshot -out frame.png [-frames 90] [-w 480] [-h 270] [-v]")
	}
	if *verbose {
		hal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := render.DefaultConfig()
	cfg.FrameBudget = 0

	var gpu *hal.SoftGPU
	newApp := func(h hal.HAL) (hal.Stepper, error) {
		gpu = h.(*hal.Headless).SoftGPU()
		return render.New(h, cfg)
	}
	hc := hal.HeadlessConfig{Width: *width, Height: *height, Frames: *frames}
	if err := hal.RunHeadless(ctx, hc, newApp); err != nil {
		fatalf("render: %v", err)
	}

	if err := writePNG(*outPath, gpu); err != nil {
		fatalf("write: %v", err)
	}
	st := gpu.Stats()
	fmt.Printf("%s: %d frames, %d draw calls, %d triangles\n", *outPath, st.Clears, st.DrawCalls, st.Triangles)
}

func writePNG(path string, gpu *hal.SoftGPU) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, gpu.Target().Img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}
