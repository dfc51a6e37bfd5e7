package platform

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"unicode/utf8"
)

// Encoding names a text serialization scheme accepted by [Buffer]
// construction and [Buffer.ToString]. The accepted set is exactly
// [EncodingUTF8] and [EncodingBase64], case-sensitive; any other value fails
// with an [UnsupportedEncodingError].
type Encoding string

const (
	// EncodingUTF8 transforms text to bytes and back via strict UTF-8.
	EncodingUTF8 Encoding = "utf8"

	// EncodingBase64 decodes standard base64 text into bytes, and serializes
	// bytes back to standard base64 text.
	EncodingBase64 Encoding = "base64"
)

// Codec is the text/base64 transform backing a [Buffer].
//
// Two interchangeable variants exist: the Go implementation below for the
// native environment, and the web-primitive implementation in gojaplatform
// for the sandboxed environment (TextEncoder/TextDecoder/atob/btoa). The
// variant is selected once, at Platform construction.
type Codec interface {
	// EncodeText transforms text into its UTF-8 byte serialization.
	EncodeText(s string) ([]byte, error)

	// DecodeText strictly decodes UTF-8 bytes into text. Malformed sequences
	// fail with a DecodeError rather than being replaced.
	DecodeText(b []byte) (string, error)

	// EncodeBase64 serializes bytes to standard base64 text.
	EncodeBase64(b []byte) (string, error)

	// DecodeBase64 decodes standard base64 text into bytes. Each decoded byte
	// occupies exactly one byte of the result.
	DecodeBase64(s string) ([]byte, error)
}

// Buffer is an immutable-once-built byte container.
//
// Content is never mutated in place after construction; concatenation
// produces a new owned payload. Buffers may therefore be freely shared across
// listeners and operations without synchronization.
type Buffer struct {
	data  []byte
	codec Codec
}

// NewBuffer constructs a buffer from an already-owned raw byte sequence.
// This is a zero-copy passthrough: the buffer takes ownership of b, and the
// caller must not modify it afterwards.
func (p *Platform) NewBuffer(b []byte) *Buffer {
	return &Buffer{data: b, codec: p.codec}
}

// NewBufferFromString constructs a buffer from text with a named encoding.
//
// EncodingUTF8 serializes the text to its UTF-8 bytes; EncodingBase64 decodes
// the text as standard base64 into a byte sequence. Any other encoding fails
// with an [UnsupportedEncodingError] and construction aborts.
func (p *Platform) NewBufferFromString(s string, encoding Encoding) (*Buffer, error) {
	var (
		b   []byte
		err error
	)
	switch encoding {
	case EncodingUTF8:
		b, err = p.codec.EncodeText(s)
	case EncodingBase64:
		b, err = p.codec.DecodeBase64(s)
	default:
		return nil, &UnsupportedEncodingError{Encoding: encoding}
	}
	if err != nil {
		return nil, err
	}
	return &Buffer{data: b, codec: p.codec}, nil
}

// ByteLength returns the serialized byte length of either an existing
// *Buffer or text to be constructed at the given encoding, without requiring
// the caller to build an intermediate buffer.
func (p *Platform) ByteLength(v any, encoding Encoding) (int, error) {
	switch x := v.(type) {
	case *Buffer:
		return x.Len(), nil
	case string:
		switch encoding {
		case EncodingUTF8:
			b, err := p.codec.EncodeText(x)
			if err != nil {
				return 0, err
			}
			return len(b), nil
		case EncodingBase64:
			b, err := p.codec.DecodeBase64(x)
			if err != nil {
				return 0, err
			}
			return len(b), nil
		default:
			return 0, &UnsupportedEncodingError{Encoding: encoding}
		}
	default:
		return 0, fmt.Errorf("platform: byte length requires a string or *Buffer, got %T", v)
	}
}

// Concat returns a new buffer whose bytes are the ordered concatenation of
// all input buffers. Zero inputs yields an empty buffer. Exactly one input
// returns that same buffer; sharing is safe because buffers are immutable.
func (p *Platform) Concat(bufs []*Buffer) *Buffer {
	switch len(bufs) {
	case 0:
		return &Buffer{codec: p.codec}
	case 1:
		return bufs[0]
	}
	var n int
	for _, b := range bufs {
		n += len(b.data)
	}
	data := make([]byte, 0, n)
	for _, b := range bufs {
		data = append(data, b.data...)
	}
	return &Buffer{data: data, codec: p.codec}
}

// Len returns the byte length of the buffer.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes returns a copy of the buffer's content, preserving immutability of
// the underlying payload.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// ToString is the inverse of construction: EncodingUTF8 strictly decodes the
// bytes as text (malformed sequences fail with a [DecodeError]);
// EncodingBase64 serializes the bytes to standard base64 text. Composed with
// construction at the same encoding it is the identity transform for UTF-8
// text, and base64 round-trips bytes exactly.
func (b *Buffer) ToString(encoding Encoding) (string, error) {
	switch encoding {
	case EncodingUTF8:
		return b.codec.DecodeText(b.data)
	case EncodingBase64:
		return b.codec.EncodeBase64(b.data)
	default:
		return "", &UnsupportedEncodingError{Encoding: encoding}
	}
}

// Equal reports whether two buffers hold identical bytes.
func (b *Buffer) Equal(o *Buffer) bool {
	return o != nil && bytes.Equal(b.data, o.data)
}

// nativeCodec is the Go-backed codec variant for the native environment.
type nativeCodec struct{}

func (nativeCodec) EncodeText(s string) ([]byte, error) {
	return []byte(s), nil
}

func (nativeCodec) DecodeText(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", &DecodeError{Cause: fmt.Errorf("invalid UTF-8 at byte %d", invalidUTF8Offset(b))}
	}
	return string(b), nil
}

func (nativeCodec) EncodeBase64(b []byte) (string, error) {
	return base64.StdEncoding.EncodeToString(b), nil
}

func (nativeCodec) DecodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &DecodeError{Cause: err}
	}
	return b, nil
}

// invalidUTF8Offset locates the first malformed byte, for error reporting.
func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
