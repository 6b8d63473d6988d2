// Package pool reuses despawned scene instances per resource key before
// allocating new ones. Not safe for concurrent use; the host loop owns it.
package pool

import (
	"context"
	"log"

	"uistack/internal/asset"
	"uistack/internal/scene"
)

// DefaultPerKeyCapacity bounds parked instances per key when Config leaves
// PerKeyCapacity zero.
const DefaultPerKeyCapacity = 8

// Config wires a Pool.
type Config struct {
	Cache *asset.Cache
	Host  scene.Host
	// Root parents parked instances; it should be an inactive node.
	Root scene.NodeID
	// PerKeyCapacity caps parked instances per key; 0 means
	// DefaultPerKeyCapacity.
	PerKeyCapacity int
}

// Pool spawns and parks scene instances. Every live instance holds exactly
// one cache reference for its key; despawning past capacity destroys the
// instance and returns that reference instead of leaking it.
type Pool struct {
	cache    *asset.Cache
	host     scene.Host
	root     scene.NodeID
	capacity int
	idle     map[string][]scene.NodeID
	keys     map[scene.NodeID]string
}

// New creates an empty pool.
func New(cfg Config) *Pool {
	capacity := cfg.PerKeyCapacity
	if capacity <= 0 {
		capacity = DefaultPerKeyCapacity
	}
	return &Pool{
		cache:    cfg.Cache,
		host:     cfg.Host,
		root:     cfg.Root,
		capacity: capacity,
		idle:     make(map[string][]scene.NodeID),
		keys:     make(map[scene.NodeID]string),
	}
}

// Spawn returns an instance for key under parent, reactivating a parked one
// when available and otherwise loading and instantiating through the cache.
func (p *Pool) Spawn(ctx context.Context, key string, parent scene.NodeID) (scene.NodeID, error) {
	if stack := p.idle[key]; len(stack) > 0 {
		node := stack[len(stack)-1]
		p.idle[key] = stack[:len(stack)-1]
		p.host.SetParent(node, parent)
		p.host.SetActive(node, true)
		return node, nil
	}
	if _, err := p.cache.Load(ctx, key, nil); err != nil {
		return scene.None, err
	}
	node, err := p.cache.Instantiate(ctx, key, parent)
	if err != nil {
		p.cache.Release(key)
		return scene.None, err
	}
	p.keys[node] = key
	p.host.SetActive(node, true)
	return node, nil
}

// Despawn deactivates and parks an instance for reuse. Untracked instances
// are destroyed outright; a full per-key pool destroys the instance and
// releases its cache reference.
func (p *Pool) Despawn(node scene.NodeID) {
	key, ok := p.keys[node]
	if !ok {
		log.Printf("pool: Despawn of untracked node %q, destroying", node)
		p.host.DestroyNode(node)
		return
	}
	if len(p.idle[key]) >= p.capacity {
		p.destroy(node, key)
		return
	}
	p.host.SetActive(node, false)
	p.host.SetParent(node, p.root)
	p.idle[key] = append(p.idle[key], node)
}

// Discard destroys an instance immediately, bypassing parking, and releases
// its cache reference. Used for teardown paths that must not grow the pool.
func (p *Pool) Discard(node scene.NodeID) {
	key, ok := p.keys[node]
	if !ok {
		log.Printf("pool: Discard of untracked node %q, destroying", node)
		p.host.DestroyNode(node)
		return
	}
	p.destroy(node, key)
}

// Drain destroys every parked instance and releases its cache reference.
// Returns the number of instances destroyed.
func (p *Pool) Drain() int {
	n := 0
	for _, nodes := range p.idle {
		for _, node := range nodes {
			p.destroy(node, p.keys[node])
			n++
		}
	}
	p.idle = make(map[string][]scene.NodeID)
	return n
}

// IdleCount returns the number of parked instances for key.
func (p *Pool) IdleCount(key string) int {
	return len(p.idle[key])
}

// LiveCount returns the number of tracked instances, parked or spawned.
func (p *Pool) LiveCount() int {
	return len(p.keys)
}

func (p *Pool) destroy(node scene.NodeID, key string) {
	p.host.DestroyNode(node)
	delete(p.keys, node)
	p.cache.Release(key)
}
