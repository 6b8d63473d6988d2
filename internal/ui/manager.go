package ui

import (
	"context"
	"fmt"
	"log"
	"time"

	"uistack/internal/anim"
	"uistack/internal/asset"
	"uistack/internal/lru"
	"uistack/internal/notify"
	"uistack/internal/pool"
	"uistack/internal/scene"
)

// ManagerConfig wires a Manager.
type ManagerConfig struct {
	Host     scene.Host
	Cache    *asset.Cache
	Pool     *pool.Pool
	Registry *Registry
	Classes  *ClassSet
	// Bus, when set, receives UIOpened/UIClosed and feeds
	// OpenUIRequest/CloseUIRequest back into the manager.
	Bus *notify.Bus
	// CacheCapacity sizes the closed-instance LRU; 0 disables parking
	// entirely and every close destroys.
	CacheCapacity int
}

// Manager orchestrates open/close of registered UIs: layer composition,
// Normal-layer stack policies, modal-mask placement, and LRU-backed instance
// reuse. It is not safe for concurrent use; a single host loop goroutine
// owns it (the asset cache underneath is the only concurrent component).
type Manager struct {
	host     scene.Host
	cache    *asset.Cache
	pool     *pool.Pool
	registry *Registry
	classes  *ClassSet
	bus      *notify.Bus

	roots   map[Layer]scene.NodeID
	stack   Stack
	parked  *lru.Cache[string, *Instance]
	active  map[string]*Instance   // single-instance, by name
	multi   map[string][]*Instance // multi-instance, by name
	loading map[string]*Instance   // in-flight opens, by path
	mask    *maskController
	order   int
}

// NewManager creates a Manager, its layer roots, and the shared modal mask.
func NewManager(cfg ManagerConfig) *Manager {
	m := &Manager{
		host:     cfg.Host,
		cache:    cfg.Cache,
		pool:     cfg.Pool,
		registry: cfg.Registry,
		classes:  cfg.Classes,
		bus:      cfg.Bus,
		roots:    make(map[Layer]scene.NodeID),
		active:   make(map[string]*Instance),
		multi:    make(map[string][]*Instance),
		loading:  make(map[string]*Instance),
	}
	for _, l := range Layers {
		root := cfg.Host.CreateNode("layer-" + l.String())
		m.roots[l] = root
	}
	// Parked instances stay loaded but never render.
	cfg.Host.SetActive(m.roots[LayerCache], false)
	if cfg.CacheCapacity > 0 {
		parked, err := lru.New(cfg.CacheCapacity, m.onEvicted)
		if err != nil {
			log.Printf("ui: instance cache disabled: %v", err)
		} else {
			m.parked = parked
		}
	}
	m.mask = newMaskController(cfg.Host)
	if cfg.Bus != nil {
		cfg.Bus.Subscribe(notify.KindOpenUIRequest, func(ev notify.Event) {
			req := ev.(notify.OpenUIRequest)
			if _, err := m.Open(context.Background(), req.Name, req.Args); err != nil {
				log.Printf("ui: open request for %q failed: %v", req.Name, err)
			}
		})
		cfg.Bus.Subscribe(notify.KindCloseUIRequest, func(ev notify.Event) {
			req := ev.(notify.CloseUIRequest)
			if err := m.CloseByName(context.Background(), req.Name); err != nil {
				log.Printf("ui: close request for %q failed: %v", req.Name, err)
			}
		})
	}
	return m
}

// LayerRoot returns the root node of a layer.
func (m *Manager) LayerRoot(l Layer) scene.NodeID {
	return m.roots[l]
}

// Open runs the full open sequence for a registered UI: resolve an instance
// (active re-show, parked revival, or load+instantiate), bind it into its
// layer, apply the stack policy, refresh the mask, and drive the lifecycle
// hooks and enter animation. Blocks until the UI is open.
func (m *Manager) Open(ctx context.Context, name string, args any) (*Instance, error) {
	cfg, ok := m.registry.Lookup(name)
	if !ok {
		log.Printf("ui: Open(%q): name not registered", name)
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}

	// Re-show path: a live single-instance UI skips the load entirely.
	if !cfg.MultiInstance {
		if inst, ok := m.active[name]; ok && inst.State == StateOpen {
			m.reshow(ctx, inst, args)
			return inst, nil
		}
	}

	// Duplicate concurrent opens of the same path are rejected, not queued.
	if _, busy := m.loading[cfg.Path]; busy {
		log.Printf("ui: Open(%q) rejected: load for %q already in flight", name, cfg.Path)
		return nil, fmt.Errorf("%w: %q", ErrLoadInProgress, cfg.Path)
	}

	inst, err := m.resolve(ctx, name, cfg)
	if err != nil {
		return nil, err
	}

	// Bind into the original layer and normalize the transform.
	m.host.SetParent(inst.Node, m.roots[inst.Layer])
	m.host.SetTransform(inst.Node, scene.DefaultTransform())

	if inst.Layer == LayerNormal {
		m.applyStackPolicy(ctx, inst)
	}

	m.order++
	inst.order = m.order
	if cfg.MultiInstance {
		m.multi[name] = append(m.multi[name], inst)
	} else {
		m.active[name] = inst
	}
	m.refreshMask()

	if err := inst.View.OnOpening(ctx, args); err != nil {
		log.Printf("ui: %q OnOpening: %v", name, err)
	}
	m.host.SetActive(inst.Node, true)
	inst.View.Refresh(args)
	m.runEnter(ctx, inst)
	inst.State = StateOpen
	inst.View.OnOpened(args)
	if m.bus != nil {
		m.bus.Dispatch(notify.UIOpened{Name: name, Instance: inst.ID})
	}

	// A Close that raced the open sequence lands here, once the instance is
	// in a closeable state.
	if inst.pendingClose {
		inst.pendingClose = false
		if err := m.Close(ctx, inst); err != nil {
			log.Printf("ui: deferred close of %q: %v", name, err)
		}
	}
	return inst, nil
}

// resolve produces a bound instance: revived from the parked cache when
// possible, otherwise freshly loaded and instantiated through the pool.
func (m *Manager) resolve(ctx context.Context, name string, cfg Config) (*Instance, error) {
	if m.parked != nil {
		if inst, ok := m.parked.Get(cfg.Path); ok {
			// Revive: flip out of Cached before Remove so the eviction
			// callback leaves the instance alone.
			inst.Cached = false
			inst.hidden = false
			inst.State = StateOpening
			m.parked.Remove(cfg.Path)
			return inst, nil
		}
	}

	inst := newInstance(cfg)
	loadCtx, cancel := context.WithCancel(ctx)
	inst.cancelLoad = cancel
	m.loading[cfg.Path] = inst

	node, err := m.pool.Spawn(loadCtx, cfg.Path, m.roots[cfg.Layer])

	delete(m.loading, cfg.Path)
	inst.cancelLoad = nil
	cancel()

	if err != nil {
		inst.State = StateDestroyed
		log.Printf("ui: load of %q (%q) failed: %v", name, cfg.Path, err)
		return nil, err
	}
	factory, ok := m.classes.Lookup(name)
	if !ok {
		// Config without a class is fatal to this open only; the partial
		// node must not leak.
		log.Printf("ui: no view class registered for %q", name)
		m.pool.Discard(node)
		inst.State = StateDestroyed
		return nil, fmt.Errorf("%w: no view class for %q", ErrNotRegistered, name)
	}
	inst.Node = node
	inst.View = factory()
	inst.State = StateOpening
	if inst.pendingClose {
		// Close won the race against a load that completed anyway.
		m.pool.Discard(node)
		inst.State = StateDestroyed
		return nil, fmt.Errorf("%w: %q closed during open", asset.ErrCancelled, name)
	}
	return inst, nil
}

// reshow brings an already-open single-instance UI back to the front,
// re-applying its stack policy against whatever opened above it since.
func (m *Manager) reshow(ctx context.Context, inst *Instance, args any) {
	if inst.Layer == LayerNormal {
		m.stack.Remove(inst)
		m.applyStackPolicy(ctx, inst)
	}
	m.host.SetParent(inst.Node, m.roots[inst.Layer])
	m.host.SetActive(inst.Node, true)
	inst.hidden = false
	m.order++
	inst.order = m.order
	inst.View.Refresh(args)
	m.refreshMask()
}

func (m *Manager) applyStackPolicy(ctx context.Context, inst *Instance) {
	switch inst.Config.Mode {
	case StackExclusive:
		// Close failures are logged and swallowed, the open does not
		// depend on them.
		for _, other := range m.stack.Items() {
			if other == inst {
				continue
			}
			if err := m.Close(ctx, other); err != nil {
				log.Printf("ui: exclusive close of %q: %v", other.Config.Name, err)
			}
		}
	case StackHideOthers:
		m.hideStacked(inst)
	}
	m.stack.Push(inst)
}

func (m *Manager) hideStacked(except *Instance) {
	for _, other := range m.stack.Items() {
		if other == except {
			continue
		}
		m.host.SetActive(other.Node, false)
		other.hidden = true
	}
}

// Close runs the close sequence: hooks and exit animation, deactivation,
// stack maintenance with HideOthers reveal, mask refresh, then LRU parking
// or destruction. Closing an already-closed or parked instance is a no-op.
func (m *Manager) Close(ctx context.Context, inst *Instance) error {
	if inst == nil {
		return nil
	}
	switch inst.State {
	case StateClosing, StateClosed, StateCached, StateDestroyed:
		return nil
	case StateLoading:
		inst.pendingClose = true
		if inst.cancelLoad != nil {
			inst.cancelLoad()
		}
		return nil
	case StateOpening:
		inst.pendingClose = true
		return nil
	}

	inst.State = StateClosing
	if err := inst.View.OnClosing(ctx); err != nil {
		log.Printf("ui: %q OnClosing: %v", inst.Config.Name, err)
	}
	m.runExit(ctx, inst)
	m.host.SetActive(inst.Node, false)
	inst.View.OnClosed()
	if m.bus != nil {
		m.bus.Dispatch(notify.UIClosed{Name: inst.Config.Name, Instance: inst.ID})
	}

	m.unregister(inst)
	if inst.Layer == LayerNormal {
		if m.stack.Top() == inst {
			m.stack.Pop()
			if next := m.stack.Top(); next != nil && next.hidden {
				next.hidden = false
				m.host.SetActive(next.Node, true)
			}
		} else {
			m.stack.Remove(inst)
		}
	}
	m.refreshMask()
	inst.State = StateClosed

	// Park or destroy. Only the first closed instance of a path is cached;
	// later ones are destroyed to bound growth.
	if inst.Config.Cacheable && m.parked != nil && !m.parked.Contains(inst.Config.Path) {
		m.host.SetParent(inst.Node, m.roots[LayerCache])
		inst.Cached = true
		inst.State = StateCached
		m.parked.Put(inst.Config.Path, inst)
	} else {
		m.destroyInstance(inst)
	}
	return nil
}

// CloseByName closes the active instance of name; for multi-instance UIs it
// closes every instance. An in-flight open of the same UI is cancelled.
func (m *Manager) CloseByName(ctx context.Context, name string) error {
	cfg, ok := m.registry.Lookup(name)
	if !ok {
		log.Printf("ui: CloseByName(%q): name not registered", name)
		return fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	if inst, busy := m.loading[cfg.Path]; busy {
		return m.Close(ctx, inst)
	}
	if cfg.MultiInstance {
		for _, inst := range append([]*Instance(nil), m.multi[name]...) {
			if err := m.Close(ctx, inst); err != nil {
				return err
			}
		}
		return nil
	}
	if inst, ok := m.active[name]; ok {
		return m.Close(ctx, inst)
	}
	return nil
}

// Back closes the current top of the Normal-layer stack. No-op when empty.
func (m *Manager) Back(ctx context.Context) error {
	top := m.stack.Top()
	if top == nil {
		return nil
	}
	return m.Close(ctx, top)
}

// CloseAll closes every active instance bound to the given layer.
func (m *Manager) CloseAll(ctx context.Context, layer Layer) {
	for _, inst := range m.activeInstances() {
		if inst.Layer != layer {
			continue
		}
		if err := m.Close(ctx, inst); err != nil {
			log.Printf("ui: CloseAll(%v) of %q: %v", layer, inst.Config.Name, err)
		}
	}
}

// ClearCache destroys every parked instance.
func (m *Manager) ClearCache() {
	if m.parked != nil {
		m.parked.Clear()
	}
}

// ClearUnused drains the spawn pool (returning each parked reference) and
// then sweeps the asset cache for zero-ref leftovers.
func (m *Manager) ClearUnused() {
	m.pool.Drain()
	m.cache.ClearUnused()
}

// Update re-evaluates modal-mask placement. The cache/stack core needs no
// tick; hosts that reparent or animate nodes out-of-band call this once per
// frame.
func (m *Manager) Update(time.Duration) {
	m.refreshMask()
}

// Active returns the live single-instance UI for name.
func (m *Manager) Active(name string) (*Instance, bool) {
	inst, ok := m.active[name]
	return inst, ok
}

// ActiveAll returns the live multi-instance UIs for name.
func (m *Manager) ActiveAll(name string) []*Instance {
	return append([]*Instance(nil), m.multi[name]...)
}

// StackItems returns the Normal-layer stack, bottom first.
func (m *Manager) StackItems() []*Instance {
	return m.stack.Items()
}

// ParkedCount returns the number of LRU-parked instances.
func (m *Manager) ParkedCount() int {
	if m.parked == nil {
		return 0
	}
	return m.parked.Len()
}

// MaskNode returns the shared modal blocker node.
func (m *Manager) MaskNode() scene.NodeID {
	return m.mask.node
}

func (m *Manager) unregister(inst *Instance) {
	name := inst.Config.Name
	if inst.Config.MultiInstance {
		list := m.multi[name]
		for i, it := range list {
			if it == inst {
				m.multi[name] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(m.multi[name]) == 0 {
			delete(m.multi, name)
		}
		return
	}
	if m.active[name] == inst {
		delete(m.active, name)
	}
}

// onEvicted is the LRU teardown callback. Revival flips Cached first, so
// only instances still parked are destroyed here.
func (m *Manager) onEvicted(_ string, inst *Instance) {
	if !inst.Cached {
		return
	}
	m.destroyInstance(inst)
}

func (m *Manager) destroyInstance(inst *Instance) {
	inst.Cached = false
	inst.State = StateDestroyed
	m.pool.Discard(inst.Node)
}

func (m *Manager) activeInstances() []*Instance {
	out := make([]*Instance, 0, len(m.active)+len(m.multi))
	for _, inst := range m.active {
		out = append(out, inst)
	}
	for _, list := range m.multi {
		out = append(out, list...)
	}
	return out
}

func (m *Manager) refreshMask() {
	m.mask.Refresh(m.activeInstances(), m.roots)
}

func (m *Manager) runEnter(ctx context.Context, inst *Instance) {
	a := inst.Config.Enter
	if a == nil {
		a = anim.Snap{}
	}
	if err := a.Enter(ctx, m.host, inst.Node); err != nil {
		log.Printf("ui: %q enter animation: %v", inst.Config.Name, err)
	}
}

func (m *Manager) runExit(ctx context.Context, inst *Instance) {
	a := inst.Config.Exit
	if a == nil {
		a = anim.Snap{}
	}
	if err := a.Exit(ctx, m.host, inst.Node); err != nil {
		log.Printf("ui: %q exit animation: %v", inst.Config.Name, err)
	}
}
