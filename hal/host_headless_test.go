package hal

import (
	"context"
	"errors"
	"testing"
)

type countingApp struct {
	h     HAL
	steps int
	limit int
}

func (a *countingApp) Step() (bool, error) {
	a.steps++
	w := a.h.Window()
	if a.limit > 0 && a.steps > a.limit {
		return true, nil
	}
	a.h.GPU().Clear()
	w.Swap()
	w.Poll()
	if w.ShouldClose() || w.KeyPressed(KeyEscape) {
		a.limit = a.steps
	}
	return false, nil
}

func TestRunHeadlessFrames(t *testing.T) {
	var app *countingApp
	var h *Headless
	err := RunHeadless(context.Background(), HeadlessConfig{Width: 4, Height: 4, Frames: 5}, func(hh HAL) (Stepper, error) {
		h = hh.(*Headless)
		app = &countingApp{h: hh}
		return app, nil
	})
	if err != nil {
		t.Fatalf("RunHeadless() error = %v", err)
	}
	if h.Swaps() != 5 {
		t.Fatalf("Swaps() = %d, want 5", h.Swaps())
	}
	if h.Destroyed() != 1 {
		t.Fatalf("Destroyed() = %d, want 1", h.Destroyed())
	}
	if got := h.SoftGPU().Stats().Clears; got != 5 {
		t.Fatalf("Clears = %d, want 5", got)
	}
}

func TestRunHeadlessCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var h *Headless
	err := RunHeadless(ctx, HeadlessConfig{Width: 4, Height: 4}, func(hh HAL) (Stepper, error) {
		h = hh.(*Headless)
		return &countingApp{h: hh}, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RunHeadless() error = %v, want %v", err, context.Canceled)
	}
	if h.Swaps() != 1 || h.Destroyed() != 1 {
		t.Fatalf("Swaps(), Destroyed() = %d, %d, want 1, 1", h.Swaps(), h.Destroyed())
	}
}

func TestRunHeadlessNewAppError(t *testing.T) {
	want := errors.New("no program")
	err := RunHeadless(context.Background(), HeadlessConfig{Width: 4, Height: 4}, func(HAL) (Stepper, error) {
		return nil, want
	})
	if !errors.Is(err, want) {
		t.Fatalf("RunHeadless() error = %v, want %v", err, want)
	}
}

func TestHeadlessEscape(t *testing.T) {
	h := NewHeadless(HeadlessConfig{Width: 2, Height: 2})
	if h.Window().KeyPressed(KeyEscape) {
		t.Fatalf("KeyPressed(KeyEscape) before PressKey = true")
	}
	h.PressKey(KeyEscape)
	if !h.Window().KeyPressed(KeyEscape) || h.Window().KeyPressed(KeyUnknown) {
		t.Fatalf("KeyPressed after PressKey(KeyEscape) wrong")
	}
	h.Destroy()
	h.Destroy()
	if h.Destroyed() != 1 {
		t.Fatalf("Destroyed() = %d, want 1", h.Destroyed())
	}
}
