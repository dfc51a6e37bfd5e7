package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FD is an opaque handle to a file opened through the façade.
type FD uint64

// openFlags maps the façade's flag strings to OS open flags. The set mirrors
// the native runtime's: read, write (truncate), append, each with an
// exclusive-creation modifier and a read-write form.
var openFlags = map[string]int{
	"r":   os.O_RDONLY,
	"r+":  os.O_RDWR,
	"w":   os.O_WRONLY | os.O_CREATE | os.O_TRUNC,
	"w+":  os.O_RDWR | os.O_CREATE | os.O_TRUNC,
	"wx":  os.O_WRONLY | os.O_CREATE | os.O_TRUNC | os.O_EXCL,
	"wx+": os.O_RDWR | os.O_CREATE | os.O_TRUNC | os.O_EXCL,
	"a":   os.O_WRONLY | os.O_CREATE | os.O_APPEND,
	"a+":  os.O_RDWR | os.O_CREATE | os.O_APPEND,
	"ax":  os.O_WRONLY | os.O_CREATE | os.O_APPEND | os.O_EXCL,
	"ax+": os.O_RDWR | os.O_CREATE | os.O_APPEND | os.O_EXCL,
}

// ReadFileAsync reads the file at path and serializes the content at the
// given encoding: utf8 strictly decodes the bytes to text, base64 serializes
// them to base64 text.
//
// Native-only; in the sandboxed environment it fails with a CapabilityError
// before attempting any I/O. Single attempt, error passthrough, no caching.
func (p *Platform) ReadFileAsync(ctx context.Context, path string, encoding Encoding) (string, error) {
	if err := p.requireNative("readFile"); err != nil {
		return "", err
	}
	if encoding != EncodingUTF8 && encoding != EncodingBase64 {
		return "", &UnsupportedEncodingError{Encoding: encoding}
	}

	f := p.Promisify(func(cb Callback) {
		go func() {
			b, err := os.ReadFile(path)
			if err != nil {
				cb(err)
				return
			}
			cb(nil, b)
		}()
	})
	v, err := f.Await(ctx)
	if err != nil {
		return "", err
	}
	return p.NewBuffer(v.([]byte)).ToString(encoding)
}

// WriteFileAsync writes data, a string (serialized as UTF-8) or a *Buffer, to
// the file at path, creating or truncating it. Native-only.
func (p *Platform) WriteFileAsync(ctx context.Context, path string, data any) error {
	if err := p.requireNative("writeFile"); err != nil {
		return err
	}

	var b []byte
	switch x := data.(type) {
	case string:
		var err error
		b, err = p.codec.EncodeText(x)
		if err != nil {
			return err
		}
	case *Buffer:
		b = x.Bytes()
	default:
		return fmt.Errorf("platform: writeFile requires a string or *Buffer, got %T", data)
	}

	f := p.Promisify(func(cb Callback) {
		go func() {
			cb(os.WriteFile(path, b, 0o644))
		}()
	})
	_, err := f.Await(ctx)
	return err
}

// Basename returns the last element of path. Native-only.
func (p *Platform) Basename(path string) (string, error) {
	if err := p.requireNative("basename"); err != nil {
		return "", err
	}
	return filepath.Base(path), nil
}

// OpenFDAsync opens the file at path with the given flag string ("r", "w",
// "a", read-write and exclusive variants) and returns an opaque handle.
// Native-only.
func (p *Platform) OpenFDAsync(ctx context.Context, path, flags string) (FD, error) {
	if err := p.requireNative("open"); err != nil {
		return 0, err
	}
	flag, ok := openFlags[flags]
	if !ok {
		return 0, fmt.Errorf("platform: unsupported open flags %q", flags)
	}

	f := p.Promisify(func(cb Callback) {
		go func() {
			file, err := os.OpenFile(path, flag, 0o644)
			if err != nil {
				cb(err)
				return
			}
			cb(nil, file)
		}()
	})
	v, err := f.Await(ctx)
	if err != nil {
		return 0, err
	}

	file := v.(*os.File)
	p.fdMu.Lock()
	fd := p.nextFD
	p.nextFD++
	p.fds[fd] = file
	p.fdMu.Unlock()

	p.logger.Debug().
		Str("path", path).
		Str("flags", flags).
		Uint64("fd", uint64(fd)).
		Log("file opened")
	return fd, nil
}

// WriteFDAsync writes the buffer's bytes to the open handle. Native-only.
func (p *Platform) WriteFDAsync(ctx context.Context, fd FD, buf *Buffer) error {
	if err := p.requireNative("write"); err != nil {
		return err
	}
	file, err := p.lookupFD(fd)
	if err != nil {
		return err
	}

	b := buf.Bytes()
	f := p.Promisify(func(cb Callback) {
		go func() {
			_, err := file.Write(b)
			cb(err)
		}()
	})
	_, err = f.Await(ctx)
	return err
}

// CloseFDAsync closes the open handle and releases it from the descriptor
// table. Native-only.
func (p *Platform) CloseFDAsync(ctx context.Context, fd FD) error {
	if err := p.requireNative("close"); err != nil {
		return err
	}

	p.fdMu.Lock()
	file, ok := p.fds[fd]
	if ok {
		delete(p.fds, fd)
	}
	p.fdMu.Unlock()
	if !ok {
		return fmt.Errorf("platform: invalid file descriptor %d", fd)
	}

	f := p.Promisify(func(cb Callback) {
		go func() {
			cb(file.Close())
		}()
	})
	_, err := f.Await(ctx)
	return err
}

func (p *Platform) lookupFD(fd FD) (*os.File, error) {
	p.fdMu.Lock()
	defer p.fdMu.Unlock()
	file, ok := p.fds[fd]
	if !ok {
		return nil, fmt.Errorf("platform: invalid file descriptor %d", fd)
	}
	return file, nil
}
