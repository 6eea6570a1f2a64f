package grid

import (
	"image"

	"github.com/golang/glog"
)

// AutoConfigurer establishes a Config from the first sheet it sees and keeps
// tile size and tile quantity consistent as the user edits either.
//
// The zero value is ready to use.
type AutoConfigurer struct {
	cfg         Config
	established bool
}

// Observe offers the pixel size of a newly available sheet. The first
// non-empty size establishes the sheet dimensions and a single full-sheet
// tile; every later call is ignored. It reports whether the configuration
// changed.
func (a *AutoConfigurer) Observe(size image.Point) bool {
	if a.established || size.X < 1 || size.Y < 1 {
		return false
	}
	a.cfg.SheetWidth, a.cfg.SheetHeight = size.X, size.Y
	a.cfg.TileWidth, a.cfg.TileHeight = size.X, size.Y
	a.established = true
	glog.V(2).Infof("grid: established %dx%d sheet", size.X, size.Y)
	return true
}

// Established reports whether a sheet size has been observed.
func (a *AutoConfigurer) Established() bool {
	return a.established
}

// Config returns the current configuration.
func (a *AutoConfigurer) Config() Config {
	return a.cfg
}

// SetTileSize sets the tile dimensions in pixels. Columns and rows follow
// from Config. Values below 1 are stored as given and leave the grid with no
// frames.
func (a *AutoConfigurer) SetTileSize(w, h int) {
	a.cfg.TileWidth, a.cfg.TileHeight = w, h
}

// SetQuantity sets the tile dimensions from a desired number of columns and
// rows. The tile size is rounded up so that Config().Columns() never exceeds
// columns. A non-positive quantity leaves the corresponding tile dimension
// untouched.
func (a *AutoConfigurer) SetQuantity(columns, rows int) {
	if columns >= 1 {
		a.cfg.TileWidth = ceilDiv(a.cfg.SheetWidth, columns)
	}
	if rows >= 1 {
		a.cfg.TileHeight = ceilDiv(a.cfg.SheetHeight, rows)
	}
}

// SetOrder sets the traversal order.
func (a *AutoConfigurer) SetOrder(o Order) {
	a.cfg.Order = o
}

// Reset forgets the established sheet, keeping only the traversal order.
func (a *AutoConfigurer) Reset() {
	a.cfg = Config{Order: a.cfg.Order}
	a.established = false
}
