// Package imageprint prints images on terminals.
//
// Pixel modes draw two characters per pixel, so an image is best shrunk
// with Fit before printing. Graphics modes send the image itself to
// terminals that understand an inline image protocol.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Mode selects how pixels reach the terminal.
type Mode int

const (
	// NoColor prints ascii shades without escape sequences.
	NoColor Mode = iota
	// Color256 uses the terminal's colour support as detected by gookit/color.
	Color256
	// TrueColor sets 24 bit background colours directly.
	TrueColor
	// ITerm uses iTerm2's inline image escape sequence.
	ITerm
	// RasTerm picks kitty, iTerm or sixel graphics, whichever the terminal
	// supports.
	RasTerm
)

var modeNames = map[Mode]string{
	NoColor:   "nocolor",
	Color256:  "256",
	TrueColor: "24bit",
	ITerm:     "iterm",
	RasTerm:   "rasterm",
}

func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for m, n := range modeNames {
		if strings.EqualFold(n, s) {
			return m, nil
		}
	}
	return NoColor, errors.Errorf("imageprint: unknown mode %q", s)
}

// Graphics reports whether the mode sends whole images rather than pixels.
func (m Mode) Graphics() bool {
	return m == ITerm || m == RasTerm
}

// Printer writes images to W.
type Printer struct {
	W    io.Writer
	Mode Mode

	// Blanks prints coloured blanks instead of ascii shades.
	Blanks bool

	// Name is reported to terminals that show file names for inline
	// images.
	Name string
}

// Print writes img using the printer's mode.
func (p Printer) Print(img image.Image) error {
	switch p.Mode {
	case ITerm:
		return p.printITerm(img)
	case RasTerm:
		return p.printRasTerm(img)
	}

	b := img.Bounds()
	var buf bytes.Buffer
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			buf.WriteString(p.cell(img.At(x, y)))
		}
		if p.Mode != NoColor {
			buf.WriteString("\x1b[0m")
		}
		buf.WriteByte('\n')
	}
	_, err := p.W.Write(buf.Bytes())
	return errors.Wrap(err, "imageprint: writing")
}

// cell renders one pixel as two characters.
func (p Printer) cell(col ic.Color) string {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		if p.Mode == NoColor {
			return "  "
		}
		return "\x1b[0m  "
	}

	txt := "  "
	if !p.Blanks {
		txt = shade((cR + cG + cB) / 3 >> 8)
	}
	r, g, b := uint8(cR>>8), uint8(cG>>8), uint8(cB>>8)

	switch p.Mode {
	case TrueColor:
		return fmt.Sprintf("\x1b[48;2;%d;%d;%dm%s\x1b[0m", r, g, b, txt)
	case Color256:
		return color.RGB(r, g, b, true).Sprint(txt)
	default:
		return txt
	}
}

func shade(a uint32) string {
	switch {
	case a < 32:
		return ".."
	case a < 64:
		return "--"
	case a < 128:
		return "=="
	default:
		return "##"
	}
}

// printITerm draws an image using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func (p Printer) printITerm(img image.Image) error {
	name := p.Name
	if name == "" {
		name = "image.png"
	}
	b := &bytes.Buffer{}
	enc := base64.NewEncoder(base64.StdEncoding, b)
	if err := png.Encode(enc, img); err != nil {
		return errors.Wrap(err, "imageprint: encoding png")
	}
	enc.Close()

	sz := img.Bounds().Size()
	_, err := fmt.Fprintf(p.W, "\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n",
		base64.StdEncoding.EncodeToString([]byte(name)), b.Len(), sz.X, sz.Y, b.String())
	return errors.Wrap(err, "imageprint: writing")
}

// Fit shrinks img to fit within w by h pixels, keeping its aspect ratio.
// Images that already fit, and zero bounds, are returned as is.
func Fit(img image.Image, w, h uint) image.Image {
	if w == 0 || h == 0 {
		return img
	}
	sz := img.Bounds().Size()
	if uint(sz.X) <= w && uint(sz.Y) <= h {
		return img
	}
	return resize.Thumbnail(w, h, img, resize.Lanczos3)
}

// Enlarge scales img up by an integer factor without smoothing, keeping
// sprite pixels crisp.
func Enlarge(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	sz := img.Bounds().Size()
	return resize.Resize(uint(sz.X*factor), uint(sz.Y*factor), img, resize.NearestNeighbor)
}
