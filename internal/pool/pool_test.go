package pool

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uistack/internal/asset"
	"uistack/internal/scene"
)

// countingBackend serves instant fetches and tracks releases.
type countingBackend struct {
	mu       sync.Mutex
	host     *scene.StubHost
	fetches  int
	released map[string]int
}

func (b *countingBackend) Fetch(_ context.Context, key string, _ asset.ProgressFunc) (asset.Value, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fetches++
	return "data:" + key, nil
}

func (b *countingBackend) ReleaseNow(key string, _ asset.Value) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released[key]++
}

func (b *countingBackend) Instantiate(_ context.Context, key string, parent scene.NodeID) (scene.NodeID, error) {
	node := b.host.CreateNode("node:" + key)
	b.host.SetParent(node, parent)
	return node, nil
}

func newTestPool(capacity int) (*Pool, *countingBackend, *scene.StubHost, scene.NodeID) {
	host := scene.NewStubHost()
	backend := &countingBackend{host: host, released: make(map[string]int)}
	cache := asset.New(asset.Config{Backend: backend})
	root := host.CreateNode("pool-root")
	host.SetActive(root, false)
	p := New(Config{Cache: cache, Host: host, Root: root, PerKeyCapacity: capacity})
	return p, backend, host, root
}

func TestSpawnLoadsAndTracks(t *testing.T) {
	p, backend, host, _ := newTestPool(2)
	parent := host.CreateNode("layer")

	node, err := p.Spawn(context.Background(), "hero", parent)
	require.NoError(t, err)
	assert.True(t, host.Active(node))
	assert.Equal(t, parent, host.Parent(node))
	assert.Equal(t, 1, backend.fetches)
	assert.Equal(t, 1, p.LiveCount())
}

func TestDespawnParksAndSpawnReuses(t *testing.T) {
	p, backend, host, root := newTestPool(2)
	parent := host.CreateNode("layer")
	ctx := context.Background()

	node, err := p.Spawn(ctx, "hero", parent)
	require.NoError(t, err)

	p.Despawn(node)
	assert.False(t, host.Active(node), "parked instances deactivate")
	assert.Equal(t, root, host.Parent(node))
	assert.Equal(t, 1, p.IdleCount("hero"))
	assert.Equal(t, 0, backend.released["hero"], "parking keeps the cache reference")

	again, err := p.Spawn(ctx, "hero", parent)
	require.NoError(t, err)
	assert.Equal(t, node, again, "pooled instance reused before allocating")
	assert.True(t, host.Active(again))
	assert.Equal(t, 1, backend.fetches, "reuse must not refetch")
	assert.Equal(t, 0, p.IdleCount("hero"))
}

func TestDespawnPastCapacityReleases(t *testing.T) {
	p, backend, host, _ := newTestPool(1)
	parent := host.CreateNode("layer")
	ctx := context.Background()

	a, err := p.Spawn(ctx, "hero", parent)
	require.NoError(t, err)
	b, err := p.Spawn(ctx, "hero", parent)
	require.NoError(t, err)

	p.Despawn(a)
	p.Despawn(b)
	assert.Equal(t, 1, p.IdleCount("hero"), "pool is capped per key")
	assert.False(t, host.Exists(b), "overflow instance destroyed")
	assert.Equal(t, 1, backend.released["hero"], "overflow despawn returns its reference")

	// The parked instance still holds the last reference.
	p.Drain()
	assert.Equal(t, 2, backend.released["hero"])
	assert.Equal(t, 0, p.LiveCount())
}

func TestDespawnUntrackedDestroys(t *testing.T) {
	p, _, host, _ := newTestPool(1)
	stray := host.CreateNode("stray")
	p.Despawn(stray)
	assert.False(t, host.Exists(stray))
}

func TestDiscardBypassesParking(t *testing.T) {
	p, backend, host, _ := newTestPool(4)
	parent := host.CreateNode("layer")

	node, err := p.Spawn(context.Background(), "hero", parent)
	require.NoError(t, err)
	p.Discard(node)
	assert.False(t, host.Exists(node))
	assert.Equal(t, 0, p.IdleCount("hero"))
	assert.Equal(t, 1, backend.released["hero"])
}

func TestSpawnPropagatesLoadFailure(t *testing.T) {
	host := scene.NewStubHost()
	backend := &failingBackend{}
	cache := asset.New(asset.Config{Backend: backend})
	p := New(Config{Cache: cache, Host: host, Root: host.CreateNode("pool-root")})

	_, err := p.Spawn(context.Background(), "hero", host.CreateNode("layer"))
	require.ErrorIs(t, err, asset.ErrLoadFailed)
	assert.Equal(t, 0, p.LiveCount())
	assert.Equal(t, 0, cache.Refs("hero"), "failed spawn must not leak a reference")
}

type failingBackend struct{}

func (failingBackend) Fetch(context.Context, string, asset.ProgressFunc) (asset.Value, error) {
	return nil, errors.New("disk on fire")
}

func (failingBackend) ReleaseNow(string, asset.Value) {}

func (failingBackend) Instantiate(context.Context, string, scene.NodeID) (scene.NodeID, error) {
	return scene.None, errors.New("unreachable")
}
