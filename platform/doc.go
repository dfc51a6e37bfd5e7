// Package platform is a compatibility layer that lets identical calling code
// run unmodified in two execution environments with different native
// capabilities: the full host process (filesystem, file descriptors, native
// byte slices) and a constrained in-page script context that only carries
// web-platform primitives (text codecs, base64, typed arrays).
//
// The environment is decided exactly once, when a [Platform] is constructed,
// and every polymorphic component (the binary [Buffer] codecs and the
// [EventEmitter] backing) selects its implementation at that point. Call sites
// never branch on the environment; filesystem-dependent operations assert
// availability and fail with a [CapabilityError] in the sandboxed environment.
//
// The sandboxed backing lives in the gojaplatform package, which binds the
// required web-platform primitives into a goja runtime and adapts them to the
// interfaces consumed here.
package platform
