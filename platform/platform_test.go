package platform

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_DefaultIsNative(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p.Env() != EnvNative {
		t.Fatalf("expected native environment without a host, got %v", p.Env())
	}
}

func TestNew_HostDecidesEnvironment(t *testing.T) {
	p, err := New(WithHost(stubHost{env: EnvSandbox}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p.Env() != EnvSandbox {
		t.Fatalf("expected sandbox environment, got %v", p.Env())
	}

	p, err = New(WithHost(stubHost{env: EnvNative}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if p.Env() != EnvNative {
		t.Fatalf("expected native environment, got %v", p.Env())
	}
}

func TestNew_NilOptionsSkipped(t *testing.T) {
	if _, err := New(nil, nil); err != nil {
		t.Fatalf("nil options should be skipped, got %v", err)
	}
}

func TestEnv_String(t *testing.T) {
	if EnvNative.String() != "native" || EnvSandbox.String() != "sandbox" {
		t.Fatalf("unexpected Env strings: %v %v", EnvNative, EnvSandbox)
	}
	if Env(99).String() != "unknown" {
		t.Fatalf("out-of-range Env should stringify as unknown")
	}
}

// hostWithEmitter marks the emitter it hands out so tests can tell the
// backing apart.
type hostWithEmitter struct {
	stubHost
	handedOut *markedEmitter
}

type markedEmitter struct {
	EventEmitter
}

func (h *hostWithEmitter) NewEmitter() (EventEmitter, error) {
	h.handedOut = &markedEmitter{EventEmitter: NewEventEmitter()}
	return h.handedOut, nil
}

func TestNewEventEmitter_NativeHostDelegates(t *testing.T) {
	host := &hostWithEmitter{stubHost: stubHost{env: EnvNative}}
	p, err := New(WithHost(host))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	em, err := p.NewEventEmitter()
	if err != nil {
		t.Fatalf("NewEventEmitter failed: %v", err)
	}
	if em != EventEmitter(host.handedOut) {
		t.Fatalf("native platform with a host must delegate to the host's emitter")
	}
}

func TestNewEventEmitter_SandboxUsesReimplementation(t *testing.T) {
	host := &hostWithEmitter{stubHost: stubHost{env: EnvSandbox}}
	p, err := New(WithHost(host))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	em, err := p.NewEventEmitter()
	if err != nil {
		t.Fatalf("NewEventEmitter failed: %v", err)
	}
	if host.handedOut != nil {
		t.Fatalf("sandbox platform must not request the host emitter")
	}
	if _, ok := em.(*emitter); !ok {
		t.Fatalf("expected the self-contained reimplementation, got %T", em)
	}
}

func TestMIMEType(t *testing.T) {
	table := MIMETypesFunc(func(path string) (string, bool) {
		if strings.HasSuffix(path, ".png") {
			return "image/png", true
		}
		return "", false
	})
	p, err := New(WithMIMETypes(table))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	mime, ok := p.MIMEType(filepath.Join("dir", "icon.png"))
	if !ok || mime != "image/png" {
		t.Fatalf("expected image/png, got %q %v", mime, ok)
	}
	if _, ok := p.MIMEType("unknown.bin"); ok {
		t.Fatalf("unknown extensions must report not found")
	}
}

func TestMIMEType_NoTableInjected(t *testing.T) {
	p, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := p.MIMEType("anything.png"); ok {
		t.Fatalf("without a table, lookups must report not found")
	}
}

func TestCapabilityError_Message(t *testing.T) {
	err := &CapabilityError{Op: "readFile"}
	if !strings.Contains(err.Error(), "readFile") {
		t.Fatalf("the error must name the unsupported operation: %v", err)
	}

	var target *CapabilityError
	if !errors.As(error(err), &target) {
		t.Fatalf("errors.As should match CapabilityError")
	}
}
