package ui

import "context"

// View receives lifecycle callbacks for one UI instance. OnOpening and
// OnClosing may block (load follow-up data, wait on other systems); the
// open/close sequence suspends until they return. Hook errors are logged and
// do not abort the sequence.
type View interface {
	OnOpening(ctx context.Context, args any) error
	OnOpened(args any)
	Refresh(args any)
	OnClosing(ctx context.Context) error
	OnClosed()
}

// Factory constructs the View bound to a fresh instance of a UI.
type Factory func() View

// NopView implements View with no-ops; embed it to implement only the hooks
// a UI cares about.
type NopView struct{}

func (NopView) OnOpening(context.Context, any) error { return nil }
func (NopView) OnOpened(any)                         {}
func (NopView) Refresh(any)                          {}
func (NopView) OnClosing(context.Context) error      { return nil }
func (NopView) OnClosed()                            {}

// ClassSet maps UI names to their View factories. Registration happens once
// at startup; there is no runtime type scanning.
type ClassSet struct {
	factories map[string]Factory
}

// NewClassSet creates an empty class set.
func NewClassSet() *ClassSet {
	return &ClassSet{factories: make(map[string]Factory)}
}

// Add registers a factory for name and returns the set for chaining.
func (cs *ClassSet) Add(name string, f Factory) *ClassSet {
	cs.factories[name] = f
	return cs
}

// Lookup returns the factory for name.
func (cs *ClassSet) Lookup(name string) (Factory, bool) {
	if cs == nil {
		return nil, false
	}
	f, ok := cs.factories[name]
	return f, ok
}
