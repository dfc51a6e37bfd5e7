package platform

import (
	"sync"
)

// Listener is a registered callback handle.
//
// Go functions cannot be reliably compared for equality, so listeners are
// registered and removed by handle identity: registering the same *Listener
// twice is absorbed (set semantics), and RemoveListener takes the same handle
// that was registered.
type Listener struct {
	fn func(args ...any)
}

// NewListener wraps a callback in a registrable handle.
func NewListener(fn func(args ...any)) *Listener {
	return &Listener{fn: fn}
}

// Invoke calls the wrapped callback. It is used by emitter backings to
// deliver events and is not intended for direct use.
func (l *Listener) Invoke(args ...any) {
	l.fn(args...)
}

// EventEmitter is the notification primitive: ordered, reentrancy-safe,
// synchronous delivery.
//
// Two interchangeable backing variants exist, selected once at Platform
// construction (see [Platform.NewEventEmitter]): delegation to an attached
// runtime's built-in event-emission primitive, or the self-contained
// reimplementation returned by [NewEventEmitter]. Both honour the identical
// delivery contract:
//
//   - Listeners fire synchronously, in registration order.
//   - A reentrant Emit (from within a listener) appends to the single active
//     delivery queue rather than starting a second drain, preserving total
//     delivery order and bounding stack depth.
//   - Once listeners are deregistered before invocation and fire exactly
//     once, even under reentrant emission.
//   - RemoveListener mid-drain does not cancel already-enqueued deliveries;
//     only future Emit calls are affected.
//   - A listener that panics propagates synchronously out of Emit, aborting
//     the remaining drain for that call frame.
type EventEmitter interface {
	// AddListener registers listener for event. Registering the same handle
	// twice is a no-op.
	AddListener(event string, listener *Listener)

	// On is an alias of AddListener.
	On(event string, listener *Listener)

	// Once registers a self-deregistering listener: it is removed from the
	// listener set before its callback runs, guaranteeing exactly one
	// invocation even if Emit is called reentrantly from within it.
	Once(event string, listener *Listener)

	// RemoveListener removes listener from event; a no-op if absent.
	RemoveListener(event string, listener *Listener)

	// Emit synchronously invokes every currently-registered listener for
	// event, in registration order, and reports whether any were registered.
	Emit(event string, args ...any) bool

	// ListenerCount returns the current number of listeners for event.
	ListenerCount(event string) int
}

// listenerEntry pairs a registered handle with its registration mode. The
// fired flag deduplicates once entries that were enqueued more than once
// before their first delivery.
type listenerEntry struct {
	listener *Listener
	once     bool
	fired    bool
}

// delivery is one enqueued (listener, arguments) pair.
type delivery struct {
	entry *listenerEntry
	event string
	args  []any
}

// deliveryQueue is the transient FIFO materialized only while an emission is
// actively draining. Its presence on the emitter is the single-active-drain
// guard: nested emissions append to it instead of starting a second drain.
type deliveryQueue struct {
	pending []delivery
}

// emitter is the self-contained reimplementation variant.
//
// The mutex guards registration state and the queue; it is released while a
// listener runs, so reentrant calls from the listener's goroutine re-acquire
// it without deadlocking. Within a drain the semantics are single-threaded
// cooperative: exactly one drain loop consumes the queue until exhausted,
// including entries appended during its own execution.
type emitter struct {
	listeners map[string][]*listenerEntry
	active    *deliveryQueue
	mu        sync.Mutex
}

// NewEventEmitter returns the self-contained emitter reimplementation.
// Prefer [Platform.NewEventEmitter], which selects the environment's backing.
func NewEventEmitter() EventEmitter {
	return &emitter{listeners: make(map[string][]*listenerEntry)}
}

func (e *emitter) AddListener(event string, listener *Listener) {
	e.add(event, listener, false)
}

func (e *emitter) On(event string, listener *Listener) {
	e.add(event, listener, false)
}

func (e *emitter) Once(event string, listener *Listener) {
	e.add(event, listener, true)
}

func (e *emitter) add(event string, listener *Listener, once bool) {
	if listener == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, en := range e.listeners[event] {
		if en.listener == listener {
			return // set semantics: duplicate registration absorbed
		}
	}
	e.listeners[event] = append(e.listeners[event], &listenerEntry{listener: listener, once: once})
}

func (e *emitter) RemoveListener(event string, listener *Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeEntryLocked(event, func(en *listenerEntry) bool { return en.listener == listener })
}

// removeEntryLocked removes the first entry matching the predicate. Removal
// never touches the delivery queue: already-enqueued pairs still fire.
func (e *emitter) removeEntryLocked(event string, match func(*listenerEntry) bool) {
	entries := e.listeners[event]
	for i, en := range entries {
		if match(en) {
			e.listeners[event] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

func (e *emitter) Emit(event string, args ...any) bool {
	e.mu.Lock()

	entries := e.listeners[event]
	had := len(entries) > 0

	if e.active != nil {
		// Reentrant (or concurrent) emission: append to the active drain's
		// queue and return; the single drain loop delivers these.
		for _, en := range entries {
			e.active.pending = append(e.active.pending, delivery{entry: en, event: event, args: args})
		}
		e.mu.Unlock()
		return had
	}

	q := &deliveryQueue{}
	for _, en := range entries {
		q.pending = append(q.pending, delivery{entry: en, event: event, args: args})
	}
	e.active = q

	// Tear the queue down if a listener panics out of the drain. The guard
	// comparison avoids clobbering a successor drain started after a normal
	// return.
	defer func() {
		e.mu.Lock()
		if e.active == q {
			e.active = nil
		}
		e.mu.Unlock()
	}()

	for {
		if len(q.pending) == 0 {
			e.active = nil
			e.mu.Unlock()
			return had
		}
		d := q.pending[0]
		q.pending = q.pending[1:]

		if d.entry.once {
			if d.entry.fired {
				continue
			}
			d.entry.fired = true
			// Deregister before invoking: a reentrant Emit from inside the
			// listener must not see it.
			e.removeEntryLocked(d.event, func(en *listenerEntry) bool { return en == d.entry })
		}

		e.mu.Unlock()
		d.entry.listener.Invoke(d.args...)
		e.mu.Lock()
	}
}

func (e *emitter) ListenerCount(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[event])
}
