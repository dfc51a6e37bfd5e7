package platform

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
)

// PNGToJPEG decodes a PNG payload and re-encodes it as JPEG, returning the
// encoded bytes. No quality or parameter configuration is exposed.
//
// Native-only; in the sandboxed environment it fails with a CapabilityError.
// The pixel codecs themselves are the external image/png and image/jpeg
// collaborators; this is only the bridge between them.
func (p *Platform) PNGToJPEG(buf *Buffer) (*Buffer, error) {
	if err := p.requireNative("pngToJpeg"); err != nil {
		return nil, err
	}

	img, err := png.Decode(bytes.NewReader(buf.data))
	if err != nil {
		return nil, fmt.Errorf("platform: decode png: %w", err)
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, nil); err != nil {
		return nil, fmt.Errorf("platform: encode jpeg: %w", err)
	}
	return p.NewBuffer(out.Bytes()), nil
}
