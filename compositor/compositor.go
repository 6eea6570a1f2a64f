// Package compositor merges the visible layers of a paper-doll into single
// images: the full-sheet composite used for export, the per-frame preview
// tile, and an animated GIF of the whole playback loop.
//
// Each layer's sheet is decoded on its own goroutine, so decodes finish in
// no particular order. Drawing only starts after every decode has settled,
// and always walks the layers in stack order, bottom first. The output
// therefore depends only on the layers and their order, never on decode
// timing.
//
// A layer whose sheet fails to decode is left out of the output and named
// in the result; it never stalls or aborts the rest of the composite.
package compositor

import (
	"context"
	"image"
	"image/draw"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/go-paperdoll/layers"
)

// Composite is the result of Render.
type Composite struct {
	Image *image.RGBA

	// Omitted lists the IDs of visible layers whose sheets could not be
	// decoded, in stack order.
	Omitted []string
}

// decoded holds the decoded sheets of a layer snapshot, index for index.
// A nil entry is a layer that could not be decoded.
type decoded struct {
	images  []image.Image
	omitted []string
}

// decodeAll decodes every layer's sheet concurrently. Results are stored by
// stack position, regardless of completion order. The only error returned is
// the context's, and it is returned as soon as ctx is done, even while
// decodes are still running.
func decodeAll(ctx context.Context, visible []layers.SpriteLayer) (*decoded, error) {
	d := &decoded{images: make([]image.Image, len(visible))}
	failed := make([]bool, len(visible))

	g, gctx := errgroup.WithContext(ctx)
	for i, l := range visible {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if l.Image == nil {
				glog.Warningf("compositor: layer %q has no image; omitting", l.ID)
				failed[i] = true
				return nil
			}
			img, err := l.Image.Decode()
			if err != nil {
				glog.Warningf("compositor: omitting layer %q: %v", l.ID, err)
				failed[i] = true
				return nil
			}
			d.images[i] = img
			return nil
		})
	}
	// Decode takes no context, so a stuck decode is abandoned rather than
	// waited for once ctx is done. Its goroutine still writes into d, which
	// is never read again.
	waited := make(chan error, 1)
	go func() { waited <- g.Wait() }()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-waited:
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, f := range failed {
		if f {
			d.omitted = append(d.omitted, visible[i].ID)
		}
	}
	return d, nil
}

// Render draws the passed layers, bottom first, at the origin of a
// transparent canvas of the given size. The caller passes a snapshot of the
// visible layers (see layers.Collection.Visible); the slice is not retained.
//
// The canvas has the requested size even when no layer is drawn. An error
// is returned only if ctx is done before the composite is finished.
func Render(ctx context.Context, visible []layers.SpriteLayer, size image.Point) (*Composite, error) {
	d, err := decodeAll(ctx, visible)
	if err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(image.Rectangle{Max: size})
	for i, img := range d.images {
		if img == nil {
			continue
		}
		draw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, draw.Over)
		glog.V(2).Infof("compositor: drew layer %d (%q)", i, visible[i].ID)
	}

	return &Composite{Image: canvas, Omitted: d.omitted}, nil
}
