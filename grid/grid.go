// Package grid slices a sprite sheet into a grid of equally sized tiles and
// computes the order in which a playback loop visits them.
//
// Tiles are addressed by an Offset holding non-positive column and row
// numbers. Offset{0, 0} is the first tile; Offset{-2, -1} is the tile two
// columns to the right and one row down. The sign matches the way the offset
// is applied to a sheet when it is used to crop a tile: the sheet is shifted
// up and to the left by the tile's position.
package grid

import (
	"fmt"
	"image"

	"github.com/bradfitz/iter"
)

// Order is the order in which tiles of a sheet are visited during playback.
type Order int

const (
	// ColumnsMajor visits every column of a row, left to right, before
	// advancing to the next row.
	ColumnsMajor Order = iota
	// RowsMajor visits every row of a column, top to bottom, before
	// advancing to the next column.
	RowsMajor
)

func (o Order) String() string {
	switch o {
	case ColumnsMajor:
		return "columns"
	case RowsMajor:
		return "rows"
	}
	return "bad value"
}

// MarshalText implements encoding.TextMarshaler.
func (o Order) MarshalText() ([]byte, error) {
	switch o {
	case ColumnsMajor, RowsMajor:
		return []byte(o.String()), nil
	}
	return nil, fmt.Errorf("grid: unknown order %d", int(o))
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts "columns"
// and "rows".
func (o *Order) UnmarshalText(b []byte) error {
	switch string(b) {
	case "columns":
		*o = ColumnsMajor
	case "rows":
		*o = RowsMajor
	default:
		return fmt.Errorf("grid: unknown order %q", string(b))
	}
	return nil
}

// Offset addresses one tile. Both fields are zero or negative.
type Offset struct {
	X, Y int
}

func (o Offset) String() string {
	return fmt.Sprintf("(%d,%d)", o.X, o.Y)
}

// Traversal returns the sequence of tile offsets a playback loop walks
// through for a grid of the passed dimensions.
//
// The result has exactly columns*rows entries. A grid with no columns or no
// rows yields an empty sequence.
func Traversal(columns, rows int, order Order) []Offset {
	if columns <= 0 || rows <= 0 {
		return nil
	}

	result := make([]Offset, 0, columns*rows)
	switch order {
	case RowsMajor:
		for c := range iter.N(columns) {
			for r := range iter.N(rows) {
				result = append(result, Offset{X: -c, Y: -r})
			}
		}
	default:
		for r := range iter.N(rows) {
			for c := range iter.N(columns) {
				result = append(result, Offset{X: -c, Y: -r})
			}
		}
	}
	return result
}

// ConfigurationError reports a grid dimension that is below 1.
type ConfigurationError struct {
	Field string
	Value int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("grid: %s is %d, want >= 1", e.Field, e.Value)
}

// Config describes how a sheet is split into tiles.
type Config struct {
	SheetWidth, SheetHeight int
	TileWidth, TileHeight   int
	Order                   Order
}

// Columns returns the number of tile columns, counting a partial trailing
// tile. It is 0 for an invalid configuration.
func (c Config) Columns() int {
	return ceilDiv(c.SheetWidth, c.TileWidth)
}

// Rows returns the number of tile rows, counting a partial trailing tile. It
// is 0 for an invalid configuration.
func (c Config) Rows() int {
	return ceilDiv(c.SheetHeight, c.TileHeight)
}

// FrameCount is the length of the traversal sequence.
func (c Config) FrameCount() int {
	return c.Columns() * c.Rows()
}

// Traversal returns the tile sequence for this configuration.
func (c Config) Traversal() []Offset {
	return Traversal(c.Columns(), c.Rows(), c.Order)
}

// OffsetAt returns the n-th entry of Traversal without building the
// sequence. It reports false if n is outside the sequence.
func (c Config) OffsetAt(n int) (Offset, bool) {
	cols, rows := c.Columns(), c.Rows()
	if n < 0 || n >= cols*rows {
		return Offset{}, false
	}
	if c.Order == RowsMajor {
		return Offset{X: -(n / rows), Y: -(n % rows)}, true
	}
	return Offset{X: -(n % cols), Y: -(n / cols)}, true
}

// SheetSize returns the sheet dimensions as a point.
func (c Config) SheetSize() image.Point {
	return image.Pt(c.SheetWidth, c.SheetHeight)
}

// TileSize returns the tile dimensions as a point.
func (c Config) TileSize() image.Point {
	return image.Pt(c.TileWidth, c.TileHeight)
}

// TileRect returns the rectangle of the sheet covered by the tile at off.
// The rectangle may extend past the sheet's right and bottom edges when the
// tile size does not divide the sheet evenly.
func (c Config) TileRect(off Offset) image.Rectangle {
	min := image.Pt(-off.X*c.TileWidth, -off.Y*c.TileHeight)
	return image.Rectangle{Min: min, Max: min.Add(c.TileSize())}
}

// Validate returns a *ConfigurationError for the first dimension that is
// below 1.
func (c Config) Validate() error {
	checks := []struct {
		field string
		value int
	}{
		{"sheet width", c.SheetWidth},
		{"sheet height", c.SheetHeight},
		{"tile width", c.TileWidth},
		{"tile height", c.TileHeight},
	}
	for _, ch := range checks {
		if ch.value < 1 {
			return &ConfigurationError{Field: ch.field, Value: ch.value}
		}
	}
	return nil
}

func ceilDiv(n, d int) int {
	if n < 1 || d < 1 {
		return 0
	}
	return (n-1)/d + 1
}
