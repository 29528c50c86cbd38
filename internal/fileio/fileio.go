// Package fileio reads background images and writes text logs.
package fileio

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrImageDecode = errors.New("image decode failed")
	ErrWriteLog    = errors.New("log write failed")
)

// Files is the file collaborator used by the recorder.
type Files struct{}

// DecodeImage implements recorder.FileSystem.
func (Files) DecodeImage(path string) (image.Image, error) { return DecodeImage(path) }

// WriteText implements recorder.FileSystem.
func (Files) WriteText(path, content string) error { return WriteText(path, content) }

// DecodeImage decodes a PNG, JPEG, GIF, BMP, TIFF or WebP file.
func DecodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrImageDecode, path, err)
	}
	return img, nil
}

// WriteText replaces path with content. The content is written to a
// temporary file next to path and renamed into place, so path either keeps
// its old content or holds all of the new one.
func WriteText(path, content string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteLog, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.WriteString(content); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteLog, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteLog, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteLog, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteLog, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteLog, err)
	}
	return nil
}
