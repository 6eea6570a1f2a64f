package compositor

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/gif"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-paperdoll/grid"
	"badc0de.net/pkg/go-paperdoll/layers"
)

const (
	// MaxAnimationFrames caps the number of frames Animation encodes.
	MaxAnimationFrames = 256

	// MaxAnimationPixels caps the pixels of all frames together. Animation
	// lowers the scale until the frames fit.
	MaxAnimationPixels = 1 << 26
)

// animationScale lowers scale until frames frames of size, scaled, fit
// MaxAnimationPixels and each fits MaxFrameSide. It never goes below 1.
func animationScale(size image.Point, frames, scale int) int {
	scale = fitScale(size, scale)
	for scale > 1 && frames*size.X*size.Y*scale*scale > MaxAnimationPixels {
		scale--
	}
	return scale
}

// Animation renders the whole playback loop of the passed layers as a
// looping GIF, one frame per tile in the grid's traversal order, each shown
// for 1/fps of a second.
//
// Every frame gets its own palette of up to 255 colours; palette index 0 is
// reserved for transparency.
func Animation(ctx context.Context, visible []layers.SpriteLayer, cfg grid.Config, fps, scale int) (*gif.GIF, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "compositor: cannot animate")
	}
	if fps < 1 {
		return nil, errors.Errorf("compositor: cannot animate at %d fps", fps)
	}

	d, err := decodeAll(ctx, visible)
	if err != nil {
		return nil, err
	}

	frames := cfg.FrameCount()
	if frames > MaxAnimationFrames {
		glog.Warningf("compositor: animation truncated from %d to %d frames", frames, MaxAnimationFrames)
		frames = MaxAnimationFrames
	}

	fitted := animationScale(frameSize(cfg), frames, scale)
	if scale > 1 && fitted != scale {
		glog.V(1).Infof("compositor: animation scale lowered from %d to %d", scale, fitted)
	}
	scale = fitted

	delay := 100 / fps // in 100ths of a second
	if delay < 1 {
		delay = 1
	}

	g := &gif.GIF{}
	quantizer := quantize.MedianCutQuantizer{}
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		off, _ := cfg.OffsetAt(i)
		frame := d.tile(cfg, off, scale)

		// Up to 255 colours, plus color.Transparent as the first entry so
		// an untouched paletted image defaults to it.
		pal := quantizer.Quantize(make(color.Palette, 0, 255), frame)
		pal = append(color.Palette{color.Transparent}, pal...)

		paletted := image.NewPaletted(frame.Bounds(), pal)
		draw.Draw(paletted, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		g.Image = append(g.Image, paletted)
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	g.BackgroundIndex = 0 // color.Transparent

	return g, nil
}
