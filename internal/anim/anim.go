// Package anim provides the enter/exit animation hooks the UI stack runs
// around activation. Animators are synchronous; the open/close sequence
// blocks until they return.
package anim

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"uistack/internal/scene"
)

// Animator animates a node into or out of view.
type Animator interface {
	Enter(ctx context.Context, host scene.Host, node scene.NodeID) error
	Exit(ctx context.Context, host scene.Host, node scene.NodeID) error
}

// Snap resets the node to the default transform with no animation. It is the
// behavior the manager applies when a config carries no animator.
type Snap struct{}

// Enter implements Animator.
func (Snap) Enter(_ context.Context, host scene.Host, node scene.NodeID) error {
	host.SetTransform(node, scene.DefaultTransform())
	return nil
}

// Exit implements Animator.
func (Snap) Exit(_ context.Context, host scene.Host, node scene.NodeID) error {
	host.SetTransform(node, scene.DefaultTransform())
	return nil
}

// Slide moves the node from a vertical offset to the default transform over
// Duration, in Steps increments. Exit reverses it. A mock clock drives tests.
type Slide struct {
	Clock    clock.Clock
	Duration time.Duration
	Offset   float64
	Steps    int
}

// NewSlide creates a Slide on the wall clock.
func NewSlide(duration time.Duration, offset float64) *Slide {
	return &Slide{Clock: clock.New(), Duration: duration, Offset: offset, Steps: 8}
}

// Enter implements Animator.
func (s *Slide) Enter(ctx context.Context, host scene.Host, node scene.NodeID) error {
	return s.run(ctx, host, node, s.Offset, 0)
}

// Exit implements Animator.
func (s *Slide) Exit(ctx context.Context, host scene.Host, node scene.NodeID) error {
	return s.run(ctx, host, node, 0, s.Offset)
}

func (s *Slide) run(ctx context.Context, host scene.Host, node scene.NodeID, from, to float64) error {
	steps := s.Steps
	if steps <= 0 {
		steps = 1
	}
	clk := s.Clock
	if clk == nil {
		clk = clock.New()
	}
	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			// Settle at the end state so a cancelled animation never
			// strands the node mid-flight.
			tf := scene.DefaultTransform()
			tf.Y = to
			host.SetTransform(node, tf)
			return ctx.Err()
		case <-clk.After(s.Duration / time.Duration(steps)):
		}
		frac := float64(i) / float64(steps)
		tf := scene.DefaultTransform()
		tf.Y = from + (to-from)*frac
		host.SetTransform(node, tf)
	}
	return nil
}
