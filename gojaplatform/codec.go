package gojaplatform

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"

	"github.com/xiongxiaoqing614/playwright/platform"
)

var errNotAFunction = errors.New("gojaplatform: compiled helper is not a function")

// runtimeCodec implements platform.Codec over the runtime's web-platform
// primitives: TextEncoder/TextDecoder for text, atob/btoa for base64. It is
// the sandboxed-environment backing for platform buffers.
type runtimeCodec struct {
	a *Adapter
}

func (c runtimeCodec) EncodeText(s string) ([]byte, error) {
	if err := c.requireBound(); err != nil {
		return nil, err
	}
	v, err := c.a.encodeTextFn(goja.Undefined(), c.a.rt.ToValue(s))
	if err != nil {
		return nil, err
	}
	return exportBytes(v)
}

func (c runtimeCodec) DecodeText(b []byte) (string, error) {
	if err := c.requireBound(); err != nil {
		return "", err
	}
	ab := c.a.rt.NewArrayBuffer(copyBytes(b))
	v, err := c.a.decodeTextFn(goja.Undefined(), c.a.rt.ToValue(ab))
	if err != nil {
		// The fatal text decoder threw: malformed input.
		return "", &platform.DecodeError{Cause: err}
	}
	return v.String(), nil
}

func (c runtimeCodec) EncodeBase64(b []byte) (string, error) {
	if err := c.requireBound(); err != nil {
		return "", err
	}
	ab := c.a.rt.NewArrayBuffer(copyBytes(b))
	v, err := c.a.encodeBase64Fn(goja.Undefined(), c.a.rt.ToValue(ab))
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func (c runtimeCodec) DecodeBase64(s string) ([]byte, error) {
	if err := c.requireBound(); err != nil {
		return nil, err
	}
	v, err := c.a.decodeBase64Fn(goja.Undefined(), c.a.rt.ToValue(s))
	if err != nil {
		return nil, &platform.DecodeError{Cause: err}
	}
	// atob yields a binary string, one 16-bit code unit per decoded byte;
	// pack it back down to one byte each.
	str := v.String()
	out := make([]byte, 0, len(str))
	for _, r := range str {
		if r > 0xFF {
			return nil, &platform.DecodeError{Cause: fmt.Errorf("binary string code unit %q out of range", r)}
		}
		out = append(out, byte(r))
	}
	return out, nil
}

func (c runtimeCodec) requireBound() error {
	if !c.a.bound {
		return errors.New("gojaplatform: adapter not bound; call Bind first")
	}
	return nil
}

// exportBytes extracts the byte content of an ArrayBuffer or typed-array
// value, copying so the result does not alias runtime-owned memory.
func exportBytes(v goja.Value) ([]byte, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, fmt.Errorf("expected binary data, got %v", v)
	}
	switch x := v.Export().(type) {
	case goja.ArrayBuffer:
		return copyBytes(x.Bytes()), nil
	case []byte:
		return copyBytes(x), nil
	default:
		return nil, fmt.Errorf("expected an ArrayBuffer or Uint8Array, got %T", x)
	}
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
