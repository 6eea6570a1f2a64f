package sheet

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"badc0de.net/pkg/go-paperdoll/ttesting"
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func TestNew(t *testing.T) {
	data := encodePNG(t, 60, 40, color.RGBA{255, 0, 0, 255})
	s, err := New("base.png", data)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ttesting.AssertEqualString(t, "name", s.Name(), "base.png")
	ttesting.AssertEqualString(t, "format", s.Format(), "png")
	ttesting.AssertEqualInt(t, "width", s.Size().X, 60)
	ttesting.AssertEqualInt(t, "height", s.Size().Y, 40)

	img, err := s.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, _, _, a := img.At(59, 39).RGBA(); a != 0xffff {
		t.Errorf("decoded pixel alpha = %04x; want ffff", a)
	}
}

func TestNewRejectsGarbage(t *testing.T) {
	if _, err := New("junk.png", []byte("not an image")); err == nil {
		t.Errorf("New accepted garbage")
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hat.png")
	if err := os.WriteFile(path, encodePNG(t, 8, 8, color.White), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ttesting.AssertEqualString(t, "name", s.Name(), "hat.png")

	if _, err := Open(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Errorf("Open of missing file succeeded")
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	s, err := New("eyes.png", encodePNG(t, 4, 2, color.Black))
	if err != nil {
		t.Fatal(err)
	}
	u := s.DataURL()
	if !strings.HasPrefix(u, "data:image/png") {
		t.Errorf("DataURL() = %.30q...; want image/png data url", u)
	}

	back, err := FromDataURL("eyes.png", u)
	if err != nil {
		t.Fatalf("FromDataURL: %v", err)
	}
	if back.Size() != s.Size() {
		t.Errorf("size after round trip = %v; want %v", back.Size(), s.Size())
	}
	if !bytes.Equal(back.Bytes(), s.Bytes()) {
		t.Errorf("bytes changed in round trip")
	}
}

func TestFromDataURLRejectsText(t *testing.T) {
	if _, err := FromDataURL("x", "data:text/plain;base64,aGVsbG8="); err == nil {
		t.Errorf("FromDataURL accepted text/plain")
	}
	if _, err := FromDataURL("x", "not a data url"); err == nil {
		t.Errorf("FromDataURL accepted garbage")
	}
}

func TestEncodeDataURL(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	u, err := EncodeDataURL(img)
	if err != nil {
		t.Fatalf("EncodeDataURL: %v", err)
	}
	s, err := FromDataURL("out.png", u)
	if err != nil {
		t.Fatalf("FromDataURL: %v", err)
	}
	ttesting.AssertEqualInt(t, "width", s.Size().X, 3)
}

func TestFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 7))
	r := FromImage("mem", img)
	ttesting.AssertEqualInt(t, "height", r.Size().Y, 7)
	got, err := r.Decode()
	if err != nil || got != image.Image(img) {
		t.Errorf("Decode() = %v, %v; want the wrapped image", got, err)
	}
}
