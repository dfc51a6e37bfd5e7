package gojaplatform

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/xiongxiaoqing614/playwright/platform"
)

// JSError carries a JavaScript error value delivered through a bridged
// callback's error channel, preserving the original value.
type JSError struct {
	Value any
}

// Error implements the error interface.
func (e *JSError) Error() string {
	return fmt.Sprintf("gojaplatform: callback failed: %v", e.Value)
}

// Promisify bridges a script function whose final parameter is a completion
// callback of shape (error, ...results) into a [platform.Future].
//
// The function is invoked exactly once, immediately, with no this binding and
// the given arguments followed by the bridge's callback. A non-nullish first
// callback argument fails the future with a [JSError] holding the original
// value; exactly one result succeeds with that value, more than one with the
// ordered []any. A synchronous throw from the function fails the future.
//
// Only valid when the runtime carries native host markers; otherwise the
// returned future is already failed with a platform.CapabilityError.
func (a *Adapter) Promisify(fn goja.Value, args ...goja.Value) *platform.Future {
	f, resolve, reject := platform.NewFuture()

	if a.Env() != platform.EnvNative {
		reject(&platform.CapabilityError{Op: "promisify"})
		return f
	}
	callable, ok := goja.AssertFunction(fn)
	if !ok {
		reject(fmt.Errorf("gojaplatform: promisify requires a function, got %v", fn))
		return f
	}

	cb := a.rt.ToValue(func(call goja.FunctionCall) goja.Value {
		if errArg := call.Argument(0); !goja.IsUndefined(errArg) && !goja.IsNull(errArg) {
			reject(&JSError{Value: errArg.Export()})
			return goja.Undefined()
		}
		var results []goja.Value
		if len(call.Arguments) > 1 {
			results = call.Arguments[1:]
		}
		switch len(results) {
		case 0:
			resolve(nil)
		case 1:
			resolve(results[0].Export())
		default:
			out := make([]any, len(results))
			for i, r := range results {
				out[i] = r.Export()
			}
			resolve(out)
		}
		return goja.Undefined()
	})

	callArgs := make([]goja.Value, 0, len(args)+1)
	callArgs = append(callArgs, args...)
	callArgs = append(callArgs, cb)
	if _, err := callable(goja.Undefined(), callArgs...); err != nil {
		reject(err)
	}
	return f
}
