package ingest

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"badc0de.net/pkg/go-paperdoll/layers"
	"badc0de.net/pkg/go-paperdoll/session"
	"badc0de.net/pkg/go-paperdoll/ttesting"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func tree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "hats", "wizard.png"), 8, 4)
	writePNG(t, filepath.Join(root, "base", "b.png"), 8, 4)
	writePNG(t, filepath.Join(root, "base", "a.PNG"), 8, 4)
	writePNG(t, filepath.Join(root, "wings", "angel.png"), 8, 4)
	if err := os.WriteFile(filepath.Join(root, "base", "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestDir(t *testing.T) {
	entries, err := Dir(tree(t), layers.DefaultCategories)
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	ttesting.AssertEqualInt(t, "entries", len(entries), 3)

	var got []string
	for _, e := range entries {
		got = append(got, e.Category+"/"+e.Sheet.Name())
	}
	want := []string{"base/a.PNG", "base/b.png", "hats/wizard.png"}
	for i := range want {
		ttesting.AssertEqualString(t, "entry", got[i], want[i])
	}
}

func TestDirBrokenSheet(t *testing.T) {
	root := tree(t)
	if err := os.WriteFile(filepath.Join(root, "base", "c.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Dir(root, layers.DefaultCategories); err == nil {
		t.Errorf("Dir with a corrupt sheet succeeded")
	}
}

func TestDirMissingRoot(t *testing.T) {
	if _, err := Dir(filepath.Join(t.TempDir(), "nope"), layers.DefaultCategories); err == nil {
		t.Errorf("Dir of a missing root succeeded")
	}
}

func TestAddAll(t *testing.T) {
	entries, err := Dir(tree(t), layers.DefaultCategories)
	if err != nil {
		t.Fatal(err)
	}
	s := session.New(session.Options{})
	defer s.Close()
	if err := AddAll(s, entries); err != nil {
		t.Fatal(err)
	}
	ls := s.Layers()
	ttesting.AssertEqualInt(t, "layers", len(ls), 3)
	ttesting.AssertEqualString(t, "top", ls[2].Category, "hats")
	ttesting.AssertEqualInt(t, "sheet width", s.Grid().SheetWidth, 8)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	if err := os.Mkdir("sprites", 0o755); err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualString(t, "found", Find("sprites"), "sprites")
	ttesting.AssertEqualString(t, "missing", Find("no-such-sprites"), "")
}
