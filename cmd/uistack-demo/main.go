// Command uistack-demo drives the UI stack against an in-memory scene tree
// rendered as a terminal dashboard. Number keys open sample UIs, esc pops
// the stack, q quits. Set OTEL_EXPORTER_OTLP_ENDPOINT to export load spans.
package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"uistack/internal/anim"
	"uistack/internal/asset"
	"uistack/internal/notify"
	"uistack/internal/pool"
	"uistack/internal/scene"
	"uistack/internal/telemetry"
	"uistack/internal/ui"
)

// memBackend simulates a slow content store: each fetch sleeps through a few
// progress steps before resolving.
type memBackend struct {
	host  *scene.StubHost
	delay time.Duration
}

func (b *memBackend) Fetch(ctx context.Context, key string, progressFn asset.ProgressFunc) (asset.Value, error) {
	const steps = 5
	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(b.delay / steps):
		}
		if progressFn != nil {
			progressFn(float64(i) / steps)
		}
	}
	return "bundle:" + key, nil
}

func (b *memBackend) ReleaseNow(key string, _ asset.Value) {
	log.Printf("demo: released %q", key)
}

func (b *memBackend) Instantiate(_ context.Context, key string, parent scene.NodeID) (scene.NodeID, error) {
	node := b.host.CreateNode(strings.TrimPrefix(key, "ui/"))
	b.host.SetParent(node, parent)
	return node, nil
}

type tickMsg time.Time

type model struct {
	host     *scene.StubHost
	mgr      *ui.Manager
	cache    *asset.Cache
	bus      *notify.Bus
	bar      progress.Model
	lastLoad *atomic.Uint64 // math.Float64bits of the latest load fraction
	events   []string
	err      string
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	maskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Border(lipgloss.NormalBorder()).
			Padding(0, 1)
	layerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")).
			Bold(true)
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func newModel() *model {
	host := scene.NewStubHost()
	backend := &memBackend{host: host, delay: 150 * time.Millisecond}

	ctx := context.Background()
	provider, err := telemetry.Setup(ctx)
	if err != nil {
		log.Printf("demo: telemetry disabled: %v", err)
	}

	cache := asset.New(asset.Config{Backend: backend, Tracer: provider.Tracer()})
	poolRoot := host.CreateNode("pool-root")
	host.SetActive(poolRoot, false)
	spawner := pool.New(pool.Config{Cache: cache, Host: host, Root: poolRoot})

	registry := ui.NewRegistry()
	registry.RegisterMany([]ui.Config{
		{Name: "menu", Path: "ui/menu", Layer: ui.LayerNormal, Mode: ui.StackExclusive,
			Cacheable: true, NeedMask: true, Enter: anim.NewSlide(80*time.Millisecond, 40)},
		{Name: "shop", Path: "ui/shop", Layer: ui.LayerNormal, Mode: ui.StackHideOthers,
			Cacheable: true},
		{Name: "inventory", Path: "ui/inventory", Layer: ui.LayerNormal, Mode: ui.StackOverlay},
		{Name: "confirm", Path: "ui/confirm", Layer: ui.LayerPopup, NeedMask: true},
		{Name: "toast", Path: "ui/toast", Layer: ui.LayerGuide, MultiInstance: true},
	})
	classes := ui.NewClassSet().
		Add("menu", func() ui.View { return ui.NopView{} }).
		Add("shop", func() ui.View { return ui.NopView{} }).
		Add("inventory", func() ui.View { return ui.NopView{} }).
		Add("confirm", func() ui.View { return ui.NopView{} }).
		Add("toast", func() ui.View { return ui.NopView{} })

	bus := notify.NewBus()
	mgr := ui.NewManager(ui.ManagerConfig{
		Host:          host,
		Cache:         cache,
		Pool:          spawner,
		Registry:      registry,
		Classes:       classes,
		Bus:           bus,
		CacheCapacity: 3,
	})

	m := &model{
		host:     host,
		mgr:      mgr,
		cache:    cache,
		bus:      bus,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(28)),
		lastLoad: new(atomic.Uint64),
	}
	bus.Subscribe(notify.KindUIOpened, func(ev notify.Event) {
		m.note("opened " + ev.(notify.UIOpened).Name)
	})
	bus.Subscribe(notify.KindUIClosed, func(ev notify.Event) {
		m.note("closed " + ev.(notify.UIClosed).Name)
	})
	return m
}

func (m *model) note(s string) {
	m.events = append(m.events, s)
	if len(m.events) > 5 {
		m.events = m.events[len(m.events)-5:]
	}
}

func (m *model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.mgr.Update(250 * time.Millisecond)
		return m, tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "1":
			m.open("menu")
		case "2":
			m.open("shop")
		case "3":
			m.open("inventory")
		case "4":
			m.open("confirm")
		case "5":
			m.open("toast")
		case "esc":
			if err := m.mgr.Back(context.Background()); err != nil {
				m.err = err.Error()
			}
		case "p":
			return m, m.preload("ui/menu")
		case "x":
			m.bus.Dispatch(notify.CloseUIRequest{Name: "confirm"})
		case "c":
			m.mgr.ClearCache()
			m.note("cleared instance cache")
		case "u":
			m.mgr.ClearUnused()
			m.note("swept unused resources")
		}
	}
	return m, nil
}

// open loads synchronously on the update goroutine; the manager is owned by
// this loop and the demo backend resolves in a few frames' worth of time.
func (m *model) open(name string) {
	m.err = ""
	_, err := m.mgr.Open(context.Background(), name, nil)
	if err != nil {
		m.err = err.Error()
		return
	}
	m.lastLoad.Store(math.Float64bits(1))
}

// preload fetches off the update goroutine, feeding the progress bar as the
// fetch advances. An Open issued while this is in flight joins the same
// fetch; the preload's own reference is returned once it resolves.
func (m *model) preload(key string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.cache.Load(context.Background(), key, func(f float64) {
			m.lastLoad.Store(math.Float64bits(f))
		})
		if err != nil {
			log.Printf("demo: preload %q: %v", key, err)
			return nil
		}
		m.cache.Release(key)
		return nil
	}
}

func (m *model) View() string {
	var sections []string
	for _, layer := range ui.Layers {
		if layer == ui.LayerCache {
			continue
		}
		root := m.mgr.LayerRoot(layer)
		children := m.host.Children(root)
		if len(children) == 0 {
			continue
		}
		var boxes []string
		for _, node := range children {
			if !m.host.Active(node) {
				continue
			}
			if node == m.mgr.MaskNode() {
				boxes = append(boxes, maskStyle.Render("▒▒ mask ▒▒"))
				continue
			}
			label := m.host.Name(node)
			if tf := m.host.Transform(node); tf.Y != 0 {
				label = fmt.Sprintf("%s (y=%.0f)", label, tf.Y)
			}
			boxes = append(boxes, boxStyle.Render(label))
		}
		if len(boxes) == 0 {
			continue
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
		sections = append(sections, layerStyle.Render(layer.String())+"\n"+row)
	}
	if len(sections) == 0 {
		sections = append(sections, helpStyle.Render("nothing open"))
	}

	frac := math.Float64frombits(m.lastLoad.Load())
	status := "last load: " + m.bar.ViewAs(frac)
	if m.err != "" {
		status += "\nerror: " + m.err
	}
	if len(m.events) > 0 {
		status += "\n" + helpStyle.Render(strings.Join(m.events, " · "))
	}
	status += fmt.Sprintf("\nstack: %d  parked: %d", len(m.mgr.StackItems()), m.mgr.ParkedCount())

	help := helpStyle.Render("1 menu · 2 shop · 3 inventory · 4 confirm · 5 toast · p preload · esc back · x close confirm · c clear cache · u sweep · q quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		append(sections, "", status, "", help)...)
}

func main() {
	f, err := tea.LogToFile("uistack-demo.log", "demo")
	if err == nil {
		defer f.Close()
	}

	m := newModel()
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "uistack-demo: %v\n", err)
		os.Exit(1)
	}
}
