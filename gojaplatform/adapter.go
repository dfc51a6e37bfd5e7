package gojaplatform

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/dop251/goja"
	"golang.org/x/mod/semver"

	"github.com/xiongxiaoqing614/playwright/platform"
)

// DefaultNodeVersion is the native-runtime version string installed by
// [Adapter.EnableHostAccess] when no explicit version is given.
const DefaultNodeVersion = "20.11.1"

// Adapter bridges a goja runtime to the platform layer.
//
// Typical sandboxed usage:
//
//	rt := goja.New()
//	adapter, err := gojaplatform.New(rt)
//	if err != nil { ... }
//	if err := adapter.Bind(); err != nil { ... }
//	p, err := platform.New(platform.WithHost(adapter))
//
// For a runtime representing the full host, additionally call
// [Adapter.EnableHostAccess] before constructing the Platform.
type Adapter struct {
	rt *goja.Runtime

	encodeTextFn   goja.Callable
	decodeTextFn   goja.Callable
	encodeBase64Fn goja.Callable
	decodeBase64Fn goja.Callable

	envOnce sync.Once
	env     platform.Env
	bound   bool
}

// New creates an adapter for the given runtime.
func New(rt *goja.Runtime) (*Adapter, error) {
	if rt == nil {
		return nil, fmt.Errorf("gojaplatform: runtime cannot be nil")
	}
	return &Adapter{rt: rt}, nil
}

// Runtime returns the wrapped goja runtime.
func (a *Adapter) Runtime() *goja.Runtime {
	return a.rt
}

// Bind installs the web-platform globals into the runtime: atob, btoa,
// TextEncoder, TextDecoder, and the built-in EventEmitter. It must be called
// before the adapter is used as a platform.Host and before script code relies
// on those globals.
func (a *Adapter) Bind() error {
	if a.bound {
		return nil
	}
	if err := a.bindCodecs(); err != nil {
		return err
	}
	if err := a.bindEmitter(); err != nil {
		return err
	}
	a.bound = true
	return nil
}

// EnableHostAccess installs the Node-style runtime-identification markers
// (process.versions.node and process.platform) that flip the environment
// probe to native. An empty version installs [DefaultNodeVersion].
//
// It must be called before the environment is first probed; the probe result
// is computed once and cached.
func (a *Adapter) EnableHostAccess(nodeVersion string) error {
	if nodeVersion == "" {
		nodeVersion = DefaultNodeVersion
	}

	versions := a.rt.NewObject()
	if err := versions.Set("node", nodeVersion); err != nil {
		return err
	}
	process := a.rt.NewObject()
	if err := process.Set("versions", versions); err != nil {
		return err
	}
	if err := process.Set("platform", runtime.GOOS); err != nil {
		return err
	}
	return a.rt.Set("process", process)
}

// Env implements platform.Host. The probe runs once; the result is cached
// for the adapter's lifetime.
func (a *Adapter) Env() platform.Env {
	a.envOnce.Do(func() {
		a.env = DetectEnv(a.rt)
	})
	return a.env
}

// Codec implements platform.Host, returning the web-primitive codec.
func (a *Adapter) Codec() platform.Codec {
	return runtimeCodec{a: a}
}

// DetectEnv probes a runtime for native host markers: a global process
// object whose versions sub-object carries a well-formed semantic version
// under the node key. It never fails; absent or malformed markers report
// EnvSandbox.
func DetectEnv(rt *goja.Runtime) platform.Env {
	if rt == nil {
		return platform.EnvSandbox
	}
	process, ok := objectProp(rt.GlobalObject(), "process")
	if !ok {
		return platform.EnvSandbox
	}
	versions, ok := objectProp(process, "versions")
	if !ok {
		return platform.EnvSandbox
	}
	node := versions.Get("node")
	if node == nil {
		return platform.EnvSandbox
	}
	s, ok := node.Export().(string)
	if !ok || !semver.IsValid("v"+s) {
		return platform.EnvSandbox
	}
	return platform.EnvNative
}

// objectProp reads an object-valued property, reporting false for absent,
// null, undefined, or non-object values.
func objectProp(obj *goja.Object, name string) (*goja.Object, bool) {
	v := obj.Get(name)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, false
	}
	o, ok := v.(*goja.Object)
	return o, ok
}
