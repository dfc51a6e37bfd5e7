package gojaplatform

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"

	"github.com/dop251/goja"
)

// bindCodecs installs atob/btoa and TextEncoder/TextDecoder, then compiles
// the helper functions the runtime-backed codec calls through.
func (a *Adapter) bindCodecs() error {
	if err := a.rt.Set("btoa", a.btoa); err != nil {
		return err
	}
	if err := a.rt.Set("atob", a.atob); err != nil {
		return err
	}
	if err := a.rt.Set("TextEncoder", a.textEncoderConstructor); err != nil {
		return err
	}
	if err := a.rt.Set("TextDecoder", a.textDecoderConstructor); err != nil {
		return err
	}

	for _, h := range []struct {
		fn  *goja.Callable
		src string
	}{
		{&a.encodeTextFn, `(s) => new TextEncoder().encode(s).buffer`},
		{&a.decodeTextFn, `(b) => new TextDecoder("utf-8", { fatal: true }).decode(b)`},
		{&a.encodeBase64Fn, `(b) => {
			const u = new Uint8Array(b);
			let s = "";
			for (let i = 0; i < u.length; i++) s += String.fromCharCode(u[i]);
			return btoa(s);
		}`},
		{&a.decodeBase64Fn, `(s) => atob(s)`},
	} {
		v, err := a.rt.RunString(h.src)
		if err != nil {
			return err
		}
		fn, ok := goja.AssertFunction(v)
		if !ok {
			return errNotAFunction
		}
		*h.fn = fn
	}
	return nil
}

// btoa serializes a binary string (every code unit <= 0xFF) to standard
// base64 text, throwing a TypeError for out-of-range characters.
func (a *Adapter) btoa(call goja.FunctionCall) goja.Value {
	s := call.Argument(0).String()
	raw := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			panic(a.rt.NewTypeError("btoa: invalid character %q", r))
		}
		raw = append(raw, byte(r))
	}
	return a.rt.ToValue(base64.StdEncoding.EncodeToString(raw))
}

// atob decodes standard base64 text into a binary string, one code unit per
// decoded byte. Unpadded input is accepted, matching the web primitive.
func (a *Adapter) atob(call goja.FunctionCall) goja.Value {
	s := call.Argument(0).String()
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			panic(a.rt.NewTypeError("atob: invalid base64 input"))
		}
	}
	var sb strings.Builder
	sb.Grow(len(raw))
	for _, b := range raw {
		sb.WriteRune(rune(b))
	}
	return a.rt.ToValue(sb.String())
}

// textEncoderConstructor implements the TextEncoder global. encode returns a
// Uint8Array holding the UTF-8 serialization of its argument; lone surrogates
// are replaced with U+FFFD per the web codec.
func (a *Adapter) textEncoderConstructor(call goja.ConstructorCall) *goja.Object {
	this := call.This
	_ = this.Set("encoding", "utf-8")
	_ = this.Set("encode", func(fc goja.FunctionCall) goja.Value {
		var s string
		if arg := fc.Argument(0); !goja.IsUndefined(arg) {
			s = arg.String()
		}
		ab := a.rt.NewArrayBuffer([]byte(s))
		ctor, ok := goja.AssertConstructor(a.rt.Get("Uint8Array"))
		if !ok {
			panic(a.rt.NewTypeError("Uint8Array constructor unavailable"))
		}
		u8, err := ctor(nil, a.rt.ToValue(ab))
		if err != nil {
			panic(err)
		}
		return u8
	})
	return this
}

// textDecoderConstructor implements the TextDecoder global for the utf-8
// label. With { fatal: true } malformed input throws; otherwise malformed
// sequences decode to U+FFFD replacements.
func (a *Adapter) textDecoderConstructor(call goja.ConstructorCall) *goja.Object {
	label := "utf-8"
	if arg := call.Argument(0); !goja.IsUndefined(arg) && !goja.IsNull(arg) {
		label = strings.ToLower(arg.String())
	}
	switch label {
	case "utf-8", "utf8", "unicode-1-1-utf-8":
	default:
		panic(a.rt.NewTypeError("TextDecoder: unsupported encoding label %q", label))
	}

	fatal := false
	if arg := call.Argument(1); !goja.IsUndefined(arg) && !goja.IsNull(arg) {
		if obj, ok := arg.(*goja.Object); ok {
			if v := obj.Get("fatal"); v != nil {
				fatal = v.ToBoolean()
			}
		}
	}

	this := call.This
	_ = this.Set("encoding", "utf-8")
	_ = this.Set("fatal", fatal)
	_ = this.Set("decode", func(fc goja.FunctionCall) goja.Value {
		b, err := exportBytes(fc.Argument(0))
		if err != nil {
			panic(a.rt.NewTypeError("TextDecoder.decode: %s", err))
		}
		if !utf8.Valid(b) {
			if fatal {
				panic(a.rt.NewTypeError("TextDecoder.decode: malformed UTF-8 input"))
			}
			return a.rt.ToValue(strings.ToValidUTF8(string(b), "�"))
		}
		return a.rt.ToValue(string(b))
	})
	return this
}
