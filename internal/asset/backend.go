package asset

import (
	"context"

	"uistack/internal/scene"
)

// Value is the opaque payload a Backend yields for a key.
type Value any

// ProgressFunc receives load progress in [0, 1].
type ProgressFunc func(fraction float64)

// Backend fetches and releases loadable units. Two shapes are expected: a
// handle-addressed backend with built-in refcounting (ReleaseNow is a thin
// pass-through) and a path-addressed backend that needs explicit unloads.
// Implementations may complete Fetch off the caller's goroutine.
type Backend interface {
	// Fetch loads the unit for key. progress may be nil.
	Fetch(ctx context.Context, key string, progress ProgressFunc) (Value, error)
	// ReleaseNow unloads a fetched unit. Called exactly once per completed
	// load whose last reference was dropped.
	ReleaseNow(key string, value Value)
	// Instantiate creates a scene node from a fetched unit under parent.
	Instantiate(ctx context.Context, key string, parent scene.NodeID) (scene.NodeID, error)
}
