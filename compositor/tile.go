package compositor

import (
	"context"
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"

	"badc0de.net/pkg/go-paperdoll/grid"
	"badc0de.net/pkg/go-paperdoll/layers"
)

// tileView presents one tile of a sheet as an image whose bounds start at
// the origin. Pixels past the edge of the sheet, as in a partial trailing
// tile, are transparent.
type tileView struct {
	sheet  image.Image
	src    image.Rectangle // tile rectangle in the sheet's coordinate space
	bounds image.Rectangle
}

func newTileView(sheet image.Image, cfg grid.Config, off grid.Offset, size image.Point) *tileView {
	r := cfg.TileRect(off).Intersect(image.Rectangle{Max: cfg.SheetSize()})
	r = r.Add(sheet.Bounds().Min)
	return &tileView{
		sheet:  sheet,
		src:    r,
		bounds: image.Rectangle{Max: size},
	}
}

func (v *tileView) ColorModel() color.Model {
	return v.sheet.ColorModel()
}

func (v *tileView) Bounds() image.Rectangle {
	return v.bounds
}

func (v *tileView) At(x, y int) color.Color {
	p := image.Pt(x, y).Add(v.src.Min)
	if !p.In(v.sheet.Bounds()) || !p.In(v.src) {
		return color.RGBA{0, 0, 0, 0}
	}
	return v.sheet.At(p.X, p.Y)
}

// MaxFrameSide caps the width and height, in pixels, of a scaled frame.
// Larger scales are lowered to fit.
const MaxFrameSide = 4096

// frameSize is the unscaled size of a rendered frame: the tile size, but
// never larger than the sheet. A tile reaching past the sheet adds only
// transparent pixels, so they are not drawn.
func frameSize(cfg grid.Config) image.Point {
	size := cfg.TileSize()
	if size.X > cfg.SheetWidth {
		size.X = cfg.SheetWidth
	}
	if size.Y > cfg.SheetHeight {
		size.Y = cfg.SheetHeight
	}
	return size
}

// fitScale lowers scale until size*scale fits MaxFrameSide. The result is
// at least 1.
func fitScale(size image.Point, scale int) int {
	side := max(size.X, size.Y)
	if scale < 1 || side < 1 {
		return 1
	}
	if limit := max(MaxFrameSide/side, 1); scale > limit {
		return limit
	}
	return scale
}

// tile stacks the tile at off of every decoded sheet and scales the result
// by an integer factor with nearest-neighbour sampling.
func (d *decoded) tile(cfg grid.Config, off grid.Offset, scale int) image.Image {
	size := frameSize(cfg)
	if size.X < 1 || size.Y < 1 {
		return image.NewRGBA(image.Rectangle{})
	}
	scale = fitScale(size, scale)

	img := image.NewRGBA(image.Rectangle{Max: size})
	for _, sheet := range d.images {
		if sheet == nil {
			continue
		}
		v := newTileView(sheet, cfg, off, size)
		draw.Draw(img, img.Bounds(), v, image.ZP, draw.Over)
	}

	if scale <= 1 {
		return img
	}
	return resize.Resize(uint(size.X*scale), uint(size.Y*scale), img, resize.NearestNeighbor)
}

// Frame renders the preview of one animation frame: the tile at off of
// every passed layer, stacked bottom first, enlarged scale times. A scale
// below 1 is treated as 1, and one that would exceed MaxFrameSide is
// lowered. The frame is never larger than the sheet before scaling.
//
// The second return value lists layers that could not be decoded.
func Frame(ctx context.Context, visible []layers.SpriteLayer, cfg grid.Config, off grid.Offset, scale int) (image.Image, []string, error) {
	d, err := decodeAll(ctx, visible)
	if err != nil {
		return nil, nil, err
	}
	return d.tile(cfg, off, scale), d.omitted, nil
}
