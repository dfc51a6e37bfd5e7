package platform

// Env identifies which execution environment backs a [Platform].
//
// It is computed exactly once, at [New], and never re-evaluated. Components
// read it once at their own initialization to select a backing strategy, not
// on every call.
type Env int32

const (
	// EnvNative is the full-capability host environment: filesystem, file
	// descriptors, and native byte buffers are available.
	EnvNative Env = iota

	// EnvSandbox is the constrained in-page script context. Filesystem and
	// process access are unavailable; text and base64 codecs are provided by
	// web-platform primitives.
	EnvSandbox
)

// String returns the string representation of the environment.
func (e Env) String() string {
	switch e {
	case EnvNative:
		return "native"
	case EnvSandbox:
		return "sandbox"
	default:
		return "unknown"
	}
}

// Host abstracts an attached script runtime.
//
// A Host is probed once for the environment it represents and supplies the
// runtime-backed component variants: the web-primitive text/base64 codec used
// by sandboxed buffers, and the runtime's built-in event-emission primitive
// used by native emitters when a runtime is attached.
//
// The gojaplatform package provides the goja-backed implementation.
type Host interface {
	// Env reports the environment the attached runtime represents. It must be
	// idempotent: implementations compute the result once and cache it.
	// Probing never fails; a malformed or absent runtime-identification
	// object reports EnvSandbox.
	Env() Env

	// Codec returns the runtime's web-primitive text/base64 codec.
	Codec() Codec

	// NewEmitter returns an emitter delegating to the runtime's built-in
	// event-emission primitive.
	NewEmitter() (EventEmitter, error)
}
