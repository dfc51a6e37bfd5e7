package platform

import (
	"context"
	"sync"
)

// Callback is the completion callback of a bridged native operation: the
// first argument is the error channel, the rest are results.
type Callback func(err error, results ...any)

// Future is a single-result-or-failure asynchronous value produced by the
// callback bridge. It settles exactly once; later settlement attempts are
// ignored.
type Future struct {
	done   chan struct{}
	once   sync.Once
	result any
	err    error
}

// NewFuture returns an unsettled future together with its resolve and reject
// functions. Only the first call to either takes effect.
func NewFuture() (f *Future, resolve func(any), reject func(error)) {
	f = &Future{done: make(chan struct{})}
	resolve = func(v any) {
		f.once.Do(func() {
			f.result = v
			close(f.done)
		})
	}
	reject = func(err error) {
		f.once.Do(func() {
			f.err = err
			close(f.done)
		})
	}
	return f, resolve, reject
}

// rejectedFuture returns an already-settled failed future.
func rejectedFuture(err error) *Future {
	f, _, reject := NewFuture()
	reject(err)
	return f
}

// Await suspends the caller until the future settles or ctx is done. This is
// the single suspension point of a bridged operation. Cancellation abandons
// the wait only; it is not propagated to the underlying operation.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done returns a channel closed when the future settles.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Promisify bridges a callback-accepting native operation into a [Future].
//
// fn's final (and only) parameter is the completion callback. fn is invoked
// exactly once, immediately, on the calling goroutine; the callback may fire
// synchronously or later from another goroutine. The future fails with the
// original error if the callback's error argument is non-nil, succeeds with
// the single result value if exactly one result was produced, with the
// ordered []any if more than one, and with nil for none.
//
// Only valid in the native environment; otherwise the returned future is
// already failed with a [CapabilityError]. A panic out of fn is captured as a
// [PanicError].
func (p *Platform) Promisify(fn func(cb Callback)) *Future {
	if err := p.requireNative("promisify"); err != nil {
		return rejectedFuture(err)
	}

	f, resolve, reject := NewFuture()
	cb := Callback(func(err error, results ...any) {
		if err != nil {
			reject(err)
			return
		}
		switch len(results) {
		case 0:
			resolve(nil)
		case 1:
			resolve(results[0])
		default:
			out := make([]any, len(results))
			copy(out, results)
			resolve(out)
		}
	})

	func() {
		defer func() {
			if r := recover(); r != nil {
				reject(PanicError{Value: r})
			}
		}()
		fn(cb)
	}()

	return f
}
