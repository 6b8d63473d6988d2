package asset

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"uistack/internal/scene"
)

// Config wires a Cache.
type Config struct {
	// Backend performs the actual fetch/release/instantiate work. Required.
	Backend Backend
	// Fallback, when set, is tried for Instantiate after Backend fails.
	Fallback Backend
	// Tracer, when set, records one span per Load with hit/join attributes.
	Tracer oteltrace.Tracer
}

// Cache coalesces concurrent loads per key over a pluggable Backend. Every
// Load takes one reference for its caller; the caller balances it with
// Release. Concurrent Loads for one key trigger at most one backend fetch.
type Cache struct {
	backend  Backend
	fallback Backend
	tracer   oteltrace.Tracer
	table    *HandleTable
}

// New creates a Cache. cfg.Backend must be non-nil.
func New(cfg Config) *Cache {
	if cfg.Backend == nil {
		panic("asset: Config.Backend is required")
	}
	return &Cache{
		backend:  cfg.Backend,
		fallback: cfg.Fallback,
		tracer:   cfg.Tracer,
		table:    NewHandleTable(),
	}
}

// Load fetches the unit for key, joining any in-flight load for the same
// key. onProgress (optional) receives progress for the shared fetch. On
// success the caller holds one reference until its matching Release.
// Cancelling ctx releases this caller's reference and returns ErrCancelled
// without aborting the fetch for other joiners.
func (c *Cache) Load(ctx context.Context, key string, onProgress ProgressFunc) (Value, error) {
	ctx, span := c.startSpan(ctx, key)
	defer span.End()

	for {
		acq := c.table.Acquire(key)
		switch acq.Status {
		case AcquireCached:
			if acq.Err != nil {
				// Failed record still held by other joiners; hand the
				// reference straight back.
				c.Release(key)
				return nil, acq.Err
			}
			span.SetAttributes(attribute.Bool("asset.hit", true))
			return acq.Value, nil

		case AcquireJoining:
			span.SetAttributes(attribute.Bool("asset.joined", true))
			c.table.SubscribeProgress(key, onProgress)
			return c.await(ctx, key, acq.Done)

		case AcquireMiss:
			done, err := c.table.BeginLoad(key)
			if errors.Is(err, ErrAlreadyInFlight) {
				// Lost the create race; rejoin under the table lock.
				continue
			}
			c.table.SubscribeProgress(key, onProgress)
			c.startFetch(ctx, key)
			return c.await(ctx, key, done)
		}
	}
}

// startFetch runs the backend fetch in its own goroutine, detached from the
// starter's cancellation so late joiners still get a result.
func (c *Cache) startFetch(ctx context.Context, key string) {
	fetchCtx := context.WithoutCancel(ctx)
	go func() {
		value, err := c.backend.Fetch(fetchCtx, key, func(fraction float64) {
			c.table.NotifyProgress(key, fraction)
		})
		if err != nil {
			log.Printf("asset: fetch of %q failed: %v", key, err)
			err = fmt.Errorf("%w: %q: %v", ErrLoadFailed, key, err)
			value = nil
		}
		releaseNow, released := c.table.CompleteLoad(key, value, err)
		if releaseNow {
			c.backend.ReleaseNow(key, released)
		}
	}()
}

// await waits for the shared load to resolve, honoring the caller's
// cancellation independently of the fetch.
func (c *Cache) await(ctx context.Context, key string, done <-chan struct{}) (Value, error) {
	select {
	case <-done:
	case <-ctx.Done():
		c.Release(key)
		return nil, fmt.Errorf("%w: %q: %v", ErrCancelled, key, ctx.Err())
	}
	value, err := c.table.Result(key)
	if err != nil {
		c.Release(key)
		return nil, err
	}
	return value, nil
}

// Release drops one reference on key, unloading through the backend when the
// last reference of a resolved load goes away. Releasing more than acquired
// logs a lifetime misuse and no-ops.
func (c *Cache) Release(key string) {
	action, value := c.table.Release(key)
	if action == ReleaseImmediate {
		c.backend.ReleaseNow(key, value)
	}
}

// Instantiate creates a scene node for a loaded key, trying the fallback
// backend before giving up. The caller must already hold a reference on key.
func (c *Cache) Instantiate(ctx context.Context, key string, parent scene.NodeID) (scene.NodeID, error) {
	node, err := c.backend.Instantiate(ctx, key, parent)
	if err == nil {
		return node, nil
	}
	if c.fallback != nil {
		log.Printf("asset: instantiate of %q failed (%v), trying fallback backend", key, err)
		if node, ferr := c.fallback.Instantiate(ctx, key, parent); ferr == nil {
			return node, nil
		}
	}
	return scene.None, fmt.Errorf("%w: %q: %v", ErrInstantiateFailed, key, err)
}

// ClearUnused sweeps resolved records whose refcount already reached zero,
// releasing each through the backend. Pending zero-ref records are left to
// their completion continuation. Callers that pool instances drain the pool
// first so parked references are returned before the sweep.
func (c *Cache) ClearUnused() int {
	released := c.table.Sweep()
	for _, r := range released {
		c.backend.ReleaseNow(r.Key, r.Value)
	}
	return len(released)
}

// Refs exposes the current refcount for key. Intended for tests and
// diagnostics.
func (c *Cache) Refs(key string) int { return c.table.Refs(key) }

func (c *Cache) startSpan(ctx context.Context, key string) (context.Context, oteltrace.Span) {
	if c.tracer == nil {
		return ctx, oteltrace.SpanFromContext(context.Background())
	}
	return c.tracer.Start(ctx, "asset.load",
		oteltrace.WithAttributes(attribute.String("asset.key", key)))
}
