// Package gojaplatform binds the platform compatibility layer to the Goja
// JavaScript runtime.
//
// It provides the sandboxed-environment backing for the platform package: the
// web-platform primitives an in-page script context relies on (TextEncoder,
// TextDecoder, atob, btoa) are installed into a goja runtime by
// [Adapter.Bind], and the adapter exposes them to Go through the
// platform.Codec interface. It also installs the runtime's built-in
// EventEmitter, which native-environment platforms delegate event emission
// to, and implements the environment probe over the runtime's
// identification markers.
//
// # Thread Safety
//
// Goja runtimes are not safe for concurrent use. All adapter entry points,
// and any Platform constructed over an adapter, must be driven from a single
// goroutine.
package gojaplatform
