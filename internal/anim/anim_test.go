package anim

import (
	"context"
	"testing"
	"time"

	"uistack/internal/scene"
)

func TestSnapResetsTransform(t *testing.T) {
	h := scene.NewStubHost()
	n := h.CreateNode("n")
	h.SetTransform(n, scene.Transform{X: 5, Y: 9, ScaleX: 2, ScaleY: 2})

	if err := (Snap{}).Enter(context.Background(), h, n); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if got := h.Transform(n); got != scene.DefaultTransform() {
		t.Errorf("transform = %+v, want default", got)
	}
}

func TestSlideEnterSettlesAtDefault(t *testing.T) {
	h := scene.NewStubHost()
	n := h.CreateNode("n")
	s := NewSlide(4*time.Millisecond, 200)

	if err := s.Enter(context.Background(), h, n); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if got := h.Transform(n); got.Y != 0 {
		t.Errorf("Y = %v, want 0", got.Y)
	}
}

func TestSlideExitSettlesAtOffset(t *testing.T) {
	h := scene.NewStubHost()
	n := h.CreateNode("n")
	s := NewSlide(4*time.Millisecond, 200)

	if err := s.Exit(context.Background(), h, n); err != nil {
		t.Fatalf("Exit: %v", err)
	}
	if got := h.Transform(n); got.Y != 200 {
		t.Errorf("Y = %v, want 200", got.Y)
	}
}

func TestSlideCancelledSettlesAtEndState(t *testing.T) {
	h := scene.NewStubHost()
	n := h.CreateNode("n")
	s := NewSlide(time.Hour, 200)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Enter(ctx, h, n); err == nil {
		t.Fatal("Enter with cancelled context returned nil")
	}
	// Cancellation must not strand the node mid-flight.
	if got := h.Transform(n); got.Y != 0 {
		t.Errorf("Y = %v, want 0 (enter end state)", got.Y)
	}
}
