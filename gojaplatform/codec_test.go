package gojaplatform

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xiongxiaoqing614/playwright/platform"
)

// newSandboxPlatform builds a platform over a bound adapter with no host
// markers, so buffers route through the runtime's web primitives.
func newSandboxPlatform(t *testing.T) (*platform.Platform, *Adapter) {
	t.Helper()
	adapter := newBoundAdapter(t)
	p, err := platform.New(platform.WithHost(adapter))
	if err != nil {
		t.Fatalf("Failed to create platform: %v", err)
	}
	if p.Env() != platform.EnvSandbox {
		t.Fatalf("expected sandbox, got %v", p.Env())
	}
	return p, adapter
}

func TestRuntimeCodec_UTF8RoundTrip(t *testing.T) {
	p, _ := newSandboxPlatform(t)
	b, err := p.NewBufferFromString("héllo, 世界", platform.EncodingUTF8)
	if err != nil {
		t.Fatalf("NewBufferFromString failed: %v", err)
	}
	s, err := b.ToString(platform.EncodingUTF8)
	if err != nil {
		t.Fatalf("ToString failed: %v", err)
	}
	if s != "héllo, 世界" {
		t.Fatalf("round trip mismatch: %q", s)
	}
}

func TestRuntimeCodec_Base64RoundTrip(t *testing.T) {
	p, _ := newSandboxPlatform(t)
	b, err := p.NewBufferFromString("hello world", platform.EncodingUTF8)
	if err != nil {
		t.Fatalf("NewBufferFromString failed: %v", err)
	}
	encoded, err := b.ToString(platform.EncodingBase64)
	if err != nil {
		t.Fatalf("ToString failed: %v", err)
	}
	if encoded != "aGVsbG8gd29ybGQ=" {
		t.Fatalf("unexpected base64: %q", encoded)
	}

	b2, err := p.NewBufferFromString(encoded, platform.EncodingBase64)
	if err != nil {
		t.Fatalf("base64 construction failed: %v", err)
	}
	if !bytes.Equal(b2.Bytes(), []byte("hello world")) {
		t.Fatalf("decoded bytes mismatch: %q", b2.Bytes())
	}
}

func TestRuntimeCodec_Base64BinaryBytes(t *testing.T) {
	p, _ := newSandboxPlatform(t)
	b, err := p.NewBufferFromString("AP+A", platform.EncodingBase64)
	if err != nil {
		t.Fatalf("base64 construction failed: %v", err)
	}
	if !bytes.Equal(b.Bytes(), []byte{0, 255, 128}) {
		t.Fatalf("expected one byte per decoded octet, got %v", b.Bytes())
	}
}

func TestRuntimeCodec_InvalidBase64(t *testing.T) {
	p, _ := newSandboxPlatform(t)
	_, err := p.NewBufferFromString("!!!not base64!!!", platform.EncodingBase64)
	var decodeErr *platform.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestRuntimeCodec_MalformedUTF8(t *testing.T) {
	p, _ := newSandboxPlatform(t)
	b := p.NewBuffer([]byte{0xff, 0xfe})
	_, err := b.ToString(platform.EncodingUTF8)
	var decodeErr *platform.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestRuntimeCodec_ByteLength(t *testing.T) {
	p, _ := newSandboxPlatform(t)
	n, err := p.ByteLength("é", platform.EncodingUTF8)
	if err != nil {
		t.Fatalf("ByteLength failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2, got %d", n)
	}
	n, err = p.ByteLength("aGVsbG8=", platform.EncodingBase64)
	if err != nil {
		t.Fatalf("ByteLength failed: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5, got %d", n)
	}
}

func TestRuntimeCodec_UnboundAdapter(t *testing.T) {
	adapter, err := New(newBoundAdapter(t).Runtime())
	if err != nil {
		t.Fatalf("Failed to create adapter: %v", err)
	}
	// Fresh adapter over the same runtime, never bound.
	c := runtimeCodec{a: adapter}
	if _, err := c.EncodeText("x"); err == nil {
		t.Fatal("expected error from unbound codec")
	}
}

func TestRuntimeCodec_NativeHostUsesNativeCodec(t *testing.T) {
	adapter := newBoundAdapter(t)
	if err := adapter.EnableHostAccess(""); err != nil {
		t.Fatalf("EnableHostAccess failed: %v", err)
	}
	p, err := platform.New(platform.WithHost(adapter))
	if err != nil {
		t.Fatalf("Failed to create platform: %v", err)
	}
	if p.Env() != platform.EnvNative {
		t.Fatalf("expected native, got %v", p.Env())
	}
	// Strict native decoding still rejects malformed input.
	b := p.NewBuffer([]byte{0xff})
	if _, err := b.ToString(platform.EncodingUTF8); err == nil {
		t.Fatal("expected decode error")
	}
}
