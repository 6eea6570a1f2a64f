package sheet

import (
	"bytes"
	"image"
	"image/png"

	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
)

// FromDataURL creates a sheet from a data URL such as the ones produced by a
// browser's FileReader.readAsDataURL.
func FromDataURL(name, s string) (*Sheet, error) {
	du, err := dataurl.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "sheet %q: decoding data url", name)
	}
	if du.MediaType.Type != "image" {
		return nil, errors.Errorf("sheet %q: data url has media type %q, want image/*", name, du.ContentType())
	}
	return New(name, du.Data)
}

// DataURL returns the sheet's encoded bytes as a data URL.
func (s *Sheet) DataURL() string {
	return dataurl.New(s.data, "image/"+s.format).String()
}

// EncodeDataURL encodes img as a PNG data URL.
func EncodeDataURL(img image.Image) (string, error) {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return "", errors.Wrap(err, "encoding png")
	}

	byt, err := dataurl.New(buf.Bytes(), "image/png").MarshalText()
	if err != nil {
		return "", errors.Wrap(err, "encoding data url")
	}
	return string(byt), nil
}
