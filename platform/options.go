package platform

import (
	"github.com/joeycumines/logiface"
)

// platformOptions holds configuration for Platform creation.
type platformOptions struct {
	host   Host
	logger *logiface.Logger[logiface.Event]
	mime   MIMETypes
}

// Option configures a Platform instance.
type Option interface {
	applyPlatform(*platformOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyFunc func(*platformOptions) error
}

func (o *optionImpl) applyPlatform(opts *platformOptions) error {
	return o.applyFunc(opts)
}

// WithHost attaches a script runtime host. The host is probed exactly once,
// during [New], to decide the environment: a host exposing well-formed native
// runtime-identification markers yields EnvNative, anything else EnvSandbox.
// Without a host the platform is the host process itself, i.e. EnvNative.
func WithHost(host Host) Option {
	return &optionImpl{func(opts *platformOptions) error {
		opts.host = host
		return nil
	}}
}

// WithLogger sets the structured logger for this Platform instance,
// overriding the package-level default (see [SetLogger]). A nil logger
// disables logging for the instance.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *platformOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithMIMETypes injects the MIME-type lookup table. The table contents are
// external to this layer; see [MIMETypes].
func WithMIMETypes(mime MIMETypes) Option {
	return &optionImpl{func(opts *platformOptions) error {
		opts.mime = mime
		return nil
	}}
}

// resolvePlatformOptions applies Option instances to platformOptions.
func resolvePlatformOptions(opts []Option) (*platformOptions, error) {
	cfg := &platformOptions{
		logger: getGlobalLogger(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyPlatform(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
