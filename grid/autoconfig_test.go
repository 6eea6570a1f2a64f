package grid

import (
	"image"
	"testing"

	"badc0de.net/pkg/go-paperdoll/ttesting"
)

func TestAutoConfigurerFirstSheetWins(t *testing.T) {
	var a AutoConfigurer
	if a.Established() {
		t.Fatalf("zero value is established")
	}
	if a.Observe(image.Point{}) {
		t.Errorf("Observe(empty) changed the config")
	}
	if !a.Observe(image.Pt(60, 40)) {
		t.Fatalf("Observe(60x40) did not change the config")
	}
	if a.Observe(image.Pt(120, 120)) {
		t.Errorf("second Observe changed the config")
	}

	cfg := a.Config()
	ttesting.AssertEqualInt(t, "sheet width", cfg.SheetWidth, 60)
	ttesting.AssertEqualInt(t, "sheet height", cfg.SheetHeight, 40)
	ttesting.AssertEqualInt(t, "tile width", cfg.TileWidth, 60)
	ttesting.AssertEqualInt(t, "tile height", cfg.TileHeight, 40)
	ttesting.AssertEqualInt(t, "frames", cfg.FrameCount(), 1)
}

func TestAutoConfigurerTileSize(t *testing.T) {
	var a AutoConfigurer
	a.Observe(image.Pt(60, 60))
	a.SetTileSize(20, 20)

	cfg := a.Config()
	ttesting.AssertEqualInt(t, "columns", cfg.Columns(), 3)
	ttesting.AssertEqualInt(t, "rows", cfg.Rows(), 3)
	ttesting.AssertEqualInt(t, "frames", cfg.FrameCount(), 9)

	seq := cfg.Traversal()
	want := []Offset{{0, 0}, {-1, 0}, {-2, 0}, {0, -1}}
	for i, w := range want {
		if seq[i] != w {
			t.Errorf("traversal[%d] = %v; want %v", i, seq[i], w)
		}
	}

	a.SetTileSize(0, 20)
	ttesting.AssertEqualInt(t, "frames with zero width", a.Config().FrameCount(), 0)
}

func TestAutoConfigurerQuantity(t *testing.T) {
	tests := []struct {
		name             string
		sheet            image.Point
		columns, rows    int
		tileW, tileH     int
		gotCols, gotRows int
	}{
		{"even", image.Pt(60, 60), 3, 3, 20, 20, 3, 3},
		{"uneven rounds tile up", image.Pt(100, 10), 3, 1, 34, 10, 3, 1},
		{"more columns than pixels", image.Pt(4, 4), 8, 2, 1, 2, 4, 2},
	}
	for _, tt := range tests {
		var a AutoConfigurer
		a.Observe(tt.sheet)
		a.SetQuantity(tt.columns, tt.rows)
		cfg := a.Config()
		ttesting.AssertEqualInt(t, tt.name+"/tile width", cfg.TileWidth, tt.tileW)
		ttesting.AssertEqualInt(t, tt.name+"/tile height", cfg.TileHeight, tt.tileH)
		ttesting.AssertEqualInt(t, tt.name+"/columns", cfg.Columns(), tt.gotCols)
		ttesting.AssertEqualInt(t, tt.name+"/rows", cfg.Rows(), tt.gotRows)
	}
}

func TestAutoConfigurerQuantityIgnoresNonPositive(t *testing.T) {
	var a AutoConfigurer
	a.Observe(image.Pt(60, 60))
	a.SetTileSize(20, 30)
	a.SetQuantity(0, -1)
	cfg := a.Config()
	ttesting.AssertEqualInt(t, "tile width", cfg.TileWidth, 20)
	ttesting.AssertEqualInt(t, "tile height", cfg.TileHeight, 30)
}

func TestAutoConfigurerReset(t *testing.T) {
	var a AutoConfigurer
	a.SetOrder(RowsMajor)
	a.Observe(image.Pt(60, 60))
	a.Reset()
	if a.Established() {
		t.Errorf("established after Reset")
	}
	if a.Config().Order != RowsMajor {
		t.Errorf("Reset dropped the order")
	}
	if !a.Observe(image.Pt(10, 10)) {
		t.Errorf("Observe after Reset did not establish")
	}
}
