// Package notify is a small synchronous event bus with a closed set of typed
// payload variants. Handlers run on the dispatching goroutine; the UI stack
// confines dispatch to the host loop.
package notify

// Event kinds. Subscribe with these, switch on the concrete payload type.
const (
	KindUIOpened       = "ui.opened"
	KindUIClosed       = "ui.closed"
	KindOpenUIRequest  = "ui.open-request"
	KindCloseUIRequest = "ui.close-request"
)

// Event is implemented by every payload variant.
type Event interface {
	Kind() string
}

// UIOpened is dispatched after a UI finishes its open sequence.
type UIOpened struct {
	Name     string
	Instance string
}

func (UIOpened) Kind() string { return KindUIOpened }

// UIClosed is dispatched after a UI finishes its close sequence, before it is
// parked or destroyed.
type UIClosed struct {
	Name     string
	Instance string
}

func (UIClosed) Kind() string { return KindUIClosed }

// OpenUIRequest asks the UI stack to open a registered UI by name.
type OpenUIRequest struct {
	Name string
	Args any
}

func (OpenUIRequest) Kind() string { return KindOpenUIRequest }

// CloseUIRequest asks the UI stack to close a UI by name.
type CloseUIRequest struct {
	Name string
}

func (CloseUIRequest) Kind() string { return KindCloseUIRequest }

// Handler receives dispatched events.
type Handler func(Event)

// Bus routes events to handlers by kind.
type Bus struct {
	subs map[string][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]Handler)}
}

// Subscribe registers fn for the given kind.
func (b *Bus) Subscribe(kind string, fn Handler) {
	if fn == nil {
		return
	}
	b.subs[kind] = append(b.subs[kind], fn)
}

// Dispatch delivers ev to every subscriber of its kind, in subscription
// order.
func (b *Bus) Dispatch(ev Event) {
	for _, fn := range b.subs[ev.Kind()] {
		fn(ev)
	}
}
