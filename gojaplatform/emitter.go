package gojaplatform

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"

	"github.com/xiongxiaoqing614/playwright/platform"
)

// emitterScript is the runtime's built-in event-emission primitive. It
// implements the same delivery contract as the platform reimplementation:
// registration-order synchronous delivery, a single drain loop whose queue
// absorbs reentrant emits, once deregistration before invocation, and
// mid-drain removal that leaves already-enqueued deliveries intact.
const emitterScript = `
class EventEmitter {
	constructor() {
		this._events = new Map();
		this._queue = null;
	}

	addListener(event, listener) {
		return this.on(event, listener);
	}

	on(event, listener) {
		let entries = this._events.get(event);
		if (!entries) {
			entries = [];
			this._events.set(event, entries);
		}
		for (const entry of entries) {
			if (entry.listener === listener) return this;
		}
		entries.push({ listener, once: false, fired: false });
		return this;
	}

	once(event, listener) {
		let entries = this._events.get(event);
		if (!entries) {
			entries = [];
			this._events.set(event, entries);
		}
		for (const entry of entries) {
			if (entry.listener === listener) return this;
		}
		entries.push({ listener, once: true, fired: false });
		return this;
	}

	removeListener(event, listener) {
		const entries = this._events.get(event);
		if (!entries) return this;
		for (let i = 0; i < entries.length; i++) {
			if (entries[i].listener === listener) {
				entries.splice(i, 1);
				break;
			}
		}
		return this;
	}

	_removeEntry(event, entry) {
		const entries = this._events.get(event);
		if (!entries) return;
		const i = entries.indexOf(entry);
		if (i !== -1) entries.splice(i, 1);
	}

	emit(event, ...args) {
		const entries = this._events.get(event) || [];
		const had = entries.length > 0;

		if (this._queue) {
			for (const entry of entries) this._queue.push({ entry, event, args });
			return had;
		}

		const queue = [];
		for (const entry of entries) queue.push({ entry, event, args });
		this._queue = queue;
		try {
			while (queue.length > 0) {
				const d = queue.shift();
				if (d.entry.once) {
					if (d.entry.fired) continue;
					d.entry.fired = true;
					this._removeEntry(d.event, d.entry);
				}
				d.entry.listener(...d.args);
			}
		} finally {
			this._queue = null;
		}
		return had;
	}

	listenerCount(event) {
		const entries = this._events.get(event);
		return entries ? entries.length : 0;
	}
}
EventEmitter;
`

// bindEmitter installs the EventEmitter global.
func (a *Adapter) bindEmitter() error {
	v, err := a.rt.RunString(emitterScript)
	if err != nil {
		return fmt.Errorf("gojaplatform: install EventEmitter: %w", err)
	}
	return a.rt.Set("EventEmitter", v)
}

// Emitter delegates the platform notification primitive to an EventEmitter
// instance inside the runtime. Listener identity crosses the boundary via a
// cached JS wrapper per *platform.Listener, so set semantics and removal
// behave identically to the Go reimplementation.
type Emitter struct {
	a        *Adapter
	obj      *goja.Object
	wrappers map[*platform.Listener]goja.Value

	onFn, onceFn, removeFn, emitFn, countFn goja.Callable
}

// NewEmitter implements platform.Host, constructing a runtime-backed emitter.
// Bind must have been called.
func (a *Adapter) NewEmitter() (platform.EventEmitter, error) {
	ctorVal := a.rt.Get("EventEmitter")
	if ctorVal == nil {
		return nil, errors.New("gojaplatform: EventEmitter global not installed; call Bind first")
	}
	ctor, ok := goja.AssertConstructor(ctorVal)
	if !ok {
		return nil, errors.New("gojaplatform: EventEmitter global is not a constructor")
	}
	obj, err := ctor(nil)
	if err != nil {
		return nil, err
	}

	e := &Emitter{a: a, obj: obj, wrappers: make(map[*platform.Listener]goja.Value)}
	for _, m := range []struct {
		fn   *goja.Callable
		name string
	}{
		{&e.onFn, "on"},
		{&e.onceFn, "once"},
		{&e.removeFn, "removeListener"},
		{&e.emitFn, "emit"},
		{&e.countFn, "listenerCount"},
	} {
		fn, ok := goja.AssertFunction(obj.Get(m.name))
		if !ok {
			return nil, fmt.Errorf("gojaplatform: EventEmitter.%s is not a function", m.name)
		}
		*m.fn = fn
	}
	return e, nil
}

// wrapper returns the cached JS function delivering to listener, creating it
// on first use. Caching preserves listener identity on the JS side.
func (e *Emitter) wrapper(listener *platform.Listener) goja.Value {
	if v, ok := e.wrappers[listener]; ok {
		return v
	}
	v := e.a.rt.ToValue(func(call goja.FunctionCall) goja.Value {
		args := make([]any, len(call.Arguments))
		for i, a := range call.Arguments {
			args[i] = a.Export()
		}
		listener.Invoke(args...)
		return goja.Undefined()
	})
	e.wrappers[listener] = v
	return v
}

// AddListener implements platform.EventEmitter.
func (e *Emitter) AddListener(event string, listener *platform.Listener) {
	e.register(e.onFn, event, listener)
}

// On implements platform.EventEmitter.
func (e *Emitter) On(event string, listener *platform.Listener) {
	e.register(e.onFn, event, listener)
}

// Once implements platform.EventEmitter.
func (e *Emitter) Once(event string, listener *platform.Listener) {
	e.register(e.onceFn, event, listener)
}

func (e *Emitter) register(fn goja.Callable, event string, listener *platform.Listener) {
	if listener == nil {
		return
	}
	if _, err := fn(e.obj, e.a.rt.ToValue(event), e.wrapper(listener)); err != nil {
		panic(err)
	}
}

// RemoveListener implements platform.EventEmitter. Removal only affects
// future emits; deliveries already enqueued by an active drain still fire.
func (e *Emitter) RemoveListener(event string, listener *platform.Listener) {
	w, ok := e.wrappers[listener]
	if !ok {
		return
	}
	if _, err := e.removeFn(e.obj, e.a.rt.ToValue(event), w); err != nil {
		panic(err)
	}
}

// Emit implements platform.EventEmitter. A listener that panics (or a JS
// exception crossing the boundary) propagates synchronously, aborting the
// remaining drain.
func (e *Emitter) Emit(event string, args ...any) bool {
	vals := make([]goja.Value, 0, len(args)+1)
	vals = append(vals, e.a.rt.ToValue(event))
	for _, arg := range args {
		vals = append(vals, e.a.rt.ToValue(arg))
	}
	res, err := e.emitFn(e.obj, vals...)
	if err != nil {
		panic(err)
	}
	return res.ToBoolean()
}

// ListenerCount implements platform.EventEmitter.
func (e *Emitter) ListenerCount(event string) int {
	res, err := e.countFn(e.obj, e.a.rt.ToValue(event))
	if err != nil {
		panic(err)
	}
	return int(res.ToInteger())
}
