package platform

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNativePlatform(t *testing.T) *Platform {
	t.Helper()
	p, err := New()
	require.NoError(t, err)
	require.Equal(t, EnvNative, p.Env())
	return p
}

func TestBuffer_UTF8RoundTrip(t *testing.T) {
	p := newNativePlatform(t)

	b, err := p.NewBufferFromString("hello world", EncodingUTF8)
	require.NoError(t, err)

	s, err := b.ToString(EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "hello world", s)
}

func TestBuffer_UTF8RoundTripMultibyte(t *testing.T) {
	p := newNativePlatform(t)

	const text = "héllo wörld – ✓ 世界"
	b, err := p.NewBufferFromString(text, EncodingUTF8)
	require.NoError(t, err)

	s, err := b.ToString(EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, text, s)
}

func TestBuffer_Base64RoundTrip(t *testing.T) {
	p := newNativePlatform(t)

	raw := []byte{0x00, 0x01, 0x7f, 0x80, 0xfe, 0xff}
	b := p.NewBuffer(raw)

	encoded, err := b.ToString(EncodingBase64)
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(raw), encoded)

	decoded, err := p.NewBufferFromString(encoded, EncodingBase64)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded.Bytes())
}

func TestBuffer_Base64Construction(t *testing.T) {
	p := newNativePlatform(t)

	b, err := p.NewBufferFromString("aGVsbG8=", EncodingBase64)
	require.NoError(t, err)

	s, err := b.ToString(EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestBuffer_UnsupportedEncoding(t *testing.T) {
	p := newNativePlatform(t)

	for _, encoding := range []Encoding{"latin1", "UTF8", "Base64", "hex", ""} {
		_, err := p.NewBufferFromString("x", encoding)
		var encErr *UnsupportedEncodingError
		require.ErrorAs(t, err, &encErr, "encoding %q", encoding)
		assert.Equal(t, encoding, encErr.Encoding)

		b := p.NewBuffer([]byte("x"))
		_, err = b.ToString(encoding)
		require.ErrorAs(t, err, &encErr, "encoding %q", encoding)

		_, err = p.ByteLength("x", encoding)
		require.ErrorAs(t, err, &encErr, "encoding %q", encoding)
	}
}

func TestBuffer_StrictDecodeError(t *testing.T) {
	p := newNativePlatform(t)

	b := p.NewBuffer([]byte{0x68, 0x69, 0xff, 0xfe})
	_, err := b.ToString(EncodingUTF8)

	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
}

func TestBuffer_InvalidBase64Text(t *testing.T) {
	p := newNativePlatform(t)

	_, err := p.NewBufferFromString("!!!not base64!!!", EncodingBase64)
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
}

func TestBuffer_ByteLength(t *testing.T) {
	p := newNativePlatform(t)

	n, err := p.ByteLength("abc", EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	b, err := p.NewBufferFromString("abc", EncodingUTF8)
	require.NoError(t, err)
	n, err = p.ByteLength(b, EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Multibyte text measures serialized bytes, not characters.
	n, err = p.ByteLength("é", EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// base64 text measures the decoded payload.
	n, err = p.ByteLength("aGVsbG8=", EncodingBase64)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = p.ByteLength(42, EncodingUTF8)
	require.Error(t, err)
}

func TestBuffer_ConcatEmpty(t *testing.T) {
	p := newNativePlatform(t)

	b := p.Concat(nil)
	assert.Equal(t, 0, b.Len())

	s, err := b.ToString(EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestBuffer_ConcatSingleSharesBuffer(t *testing.T) {
	p := newNativePlatform(t)

	b, err := p.NewBufferFromString("solo", EncodingUTF8)
	require.NoError(t, err)

	out := p.Concat([]*Buffer{b})
	// Sharing is safe because buffers are immutable.
	assert.Same(t, b, out)
}

func TestBuffer_ConcatMultiple(t *testing.T) {
	p := newNativePlatform(t)

	b1, err := p.NewBufferFromString("hello ", EncodingUTF8)
	require.NoError(t, err)
	b2, err := p.NewBufferFromString("world", EncodingUTF8)
	require.NoError(t, err)

	out := p.Concat([]*Buffer{b1, b2})
	s, err := out.ToString(EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "hello world", s)
}

func TestBuffer_BytesReturnsCopy(t *testing.T) {
	p := newNativePlatform(t)

	b, err := p.NewBufferFromString("abc", EncodingUTF8)
	require.NoError(t, err)

	got := b.Bytes()
	got[0] = 'X'

	s, err := b.ToString(EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "abc", s, "mutating Bytes() output must not affect the buffer")
}

func TestBuffer_Equal(t *testing.T) {
	p := newNativePlatform(t)

	a := p.NewBuffer([]byte("same"))
	b := p.NewBuffer([]byte("same"))
	c := p.NewBuffer([]byte("different"))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestBuffer_NewBufferTakesOwnership(t *testing.T) {
	p := newNativePlatform(t)

	raw := []byte("owned")
	b := p.NewBuffer(raw)
	if !bytes.Equal(b.Bytes(), raw) {
		t.Fatalf("content mismatch")
	}
}

func TestNativeCodec_DecodeErrorUnwraps(t *testing.T) {
	_, err := nativeCodec{}.DecodeText([]byte{0xc0})
	var decErr *DecodeError
	require.ErrorAs(t, err, &decErr)
	require.NotNil(t, errors.Unwrap(decErr))
}
