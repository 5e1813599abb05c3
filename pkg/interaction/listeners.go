package interaction

// Listeners represents the global move/up subscriptions that exist only
// while an interaction is active.
type Listeners interface {
	Attach()
	Detach()
}

// NopListeners does nothing.
type NopListeners struct{}

func (NopListeners) Attach() {}
func (NopListeners) Detach() {}

// ListenerFuncs adapts a pair of functions to [Listeners]. Nil fields are
// skipped.
type ListenerFuncs struct {
	OnAttach func()
	OnDetach func()
}

func (l ListenerFuncs) Attach() {
	if l.OnAttach != nil {
		l.OnAttach()
	}
}

func (l ListenerFuncs) Detach() {
	if l.OnDetach != nil {
		l.OnDetach()
	}
}

// Tracker counts attach and detach calls and reports whether listeners are
// currently attached.
type Tracker struct {
	Attaches int
	Detaches int
}

func (t *Tracker) Attach() { t.Attaches++ }
func (t *Tracker) Detach() { t.Detaches++ }

// Attached reports whether there are more attaches than detaches.
func (t *Tracker) Attached() bool { return t.Attaches > t.Detaches }

var (
	_ Listeners = NopListeners{}
	_ Listeners = ListenerFuncs{}
	_ Listeners = (*Tracker)(nil)
)
