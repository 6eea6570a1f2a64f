// Package sheet holds uploaded sprite sheets as opaque, decodable image
// resources.
//
// A sheet keeps the encoded bytes it was created from and reports its
// intrinsic pixel size without decoding the whole image. The pixels are
// decoded on demand, every time Decode is called, so a sheet can be shared
// between a preview and any number of exports.
package sheet

// This file contains the Resource interface and its implementations. Data URL
// conversion lives in dataurl.go.

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	// Formats accepted for uploaded sheets.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"
)

// Resource is a handle to an image whose pixel size is known up front and
// whose pixels can be decoded on demand.
type Resource interface {
	Name() string
	Size() image.Point
	Decode() (image.Image, error)
}

// Sheet is a Resource backed by encoded image bytes.
type Sheet struct {
	name   string
	data   []byte
	size   image.Point
	format string
}

// New reads the header of the encoded image in data and returns a sheet
// named name. Only the image configuration is decoded.
func New(name string, data []byte) (*Sheet, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "sheet %q: reading image header", name)
	}
	return &Sheet{
		name:   name,
		data:   data,
		size:   image.Pt(cfg.Width, cfg.Height),
		format: format,
	}, nil
}

// Open reads the file at path into a sheet named after the file's base name.
func Open(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "sheet: opening %q", path)
	}
	return New(filepath.Base(path), data)
}

func (s *Sheet) Name() string      { return s.name }
func (s *Sheet) Size() image.Point { return s.size }

// Format returns the name of the image format, as registered with the image
// package ("png", "gif", "jpeg").
func (s *Sheet) Format() string { return s.format }

// Bytes returns the encoded image. The caller must not modify it.
func (s *Sheet) Bytes() []byte { return s.data }

// Decode decodes the full image.
func (s *Sheet) Decode() (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(s.data))
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %v", s.name, err)
	}
	return img, nil
}

// Image is a Resource wrapping an already decoded image.
type Image struct {
	name string
	img  image.Image
}

// FromImage wraps img as a Resource named name.
func FromImage(name string, img image.Image) *Image {
	return &Image{name: name, img: img}
}

func (i *Image) Name() string                 { return i.name }
func (i *Image) Size() image.Point            { return i.img.Bounds().Size() }
func (i *Image) Decode() (image.Image, error) { return i.img, nil }
