package platform

import (
	"os"
	"sync"

	"github.com/joeycumines/logiface"
)

// Platform is the uniform capability surface over one execution environment.
//
// The environment is decided exactly once, in [New], by probing the attached
// [Host] (if any); it is immutable afterwards. The buffer codec and the
// emitter backing are selected from it at construction, so call sites never
// branch on the environment.
//
// A Platform is safe for concurrent use in the native environment. In the
// sandboxed environment the attached script runtime is single-threaded and
// the Platform must only be used from the goroutine driving it.
type Platform struct {
	host   Host
	codec  Codec
	logger *logiface.Logger[logiface.Event]
	mime   MIMETypes

	fdMu   sync.Mutex
	fds    map[FD]*os.File
	nextFD FD

	env Env
}

// New constructs a Platform, computing the environment exactly once.
//
// Without [WithHost] the platform is the host process itself: EnvNative, Go
// codecs, and the self-contained emitter. With a host, the host's probe
// decides: native markers present and well-formed yields EnvNative (host
// filesystem plus the runtime's built-in emitter), anything else EnvSandbox
// (web-primitive codecs, no filesystem). Probing never errors; New fails only
// on invalid options.
func New(opts ...Option) (*Platform, error) {
	cfg, err := resolvePlatformOptions(opts)
	if err != nil {
		return nil, err
	}

	p := &Platform{
		host:   cfg.host,
		logger: cfg.logger,
		mime:   cfg.mime,
		env:    EnvNative,
		fds:    make(map[FD]*os.File),
		nextFD: 1,
	}

	if cfg.host != nil {
		p.env = cfg.host.Env()
	}

	// Codec selection happens here, once; Buffer never re-evaluates it.
	if p.env == EnvSandbox {
		p.codec = cfg.host.Codec()
	} else {
		p.codec = nativeCodec{}
	}

	p.logger.Debug().
		Str("env", p.env.String()).
		Bool("host", cfg.host != nil).
		Log("platform initialized")

	return p, nil
}

// Env reports the environment this Platform was constructed for.
func (p *Platform) Env() Env {
	return p.env
}

// NewEventEmitter returns an emitter for this Platform's environment.
//
// In the native environment with an attached runtime the emitter delegates to
// the runtime's built-in event-emission primitive; otherwise it is the
// self-contained reimplementation. Both variants honour the same delivery
// contract; see [EventEmitter].
func (p *Platform) NewEventEmitter() (EventEmitter, error) {
	if p.env == EnvNative && p.host != nil {
		return p.host.NewEmitter()
	}
	return NewEventEmitter(), nil
}

// MIMEType looks up the MIME type for a path via the injected table.
// It reports ok == false when no table was injected or the path is unknown.
func (p *Platform) MIMEType(path string) (string, bool) {
	if p.mime == nil {
		return "", false
	}
	return p.mime.Lookup(path)
}

// requireNative returns a CapabilityError naming op unless the environment is
// native. Every filesystem-dependent or native-only operation calls this
// before attempting anything else.
func (p *Platform) requireNative(op string) error {
	if p.env != EnvNative {
		p.logger.Debug().
			Str("op", op).
			Str("env", p.env.String()).
			Log("native-only operation refused")
		return &CapabilityError{Op: op}
	}
	return nil
}
