// Command dollprint assembles a paper doll from a directory of sprite
// sheets and prints or exports it.
//
// Sheets are read from <sprites_dir>/<category>/*.png. The composite is
// printed on the terminal, and optionally written out as a PNG sheet and an
// animated GIF.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"badc0de.net/pkg/flagutil/v1"

	"github.com/bradfitz/iter"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-paperdoll/grid"
	"badc0de.net/pkg/go-paperdoll/imageprint"
	"badc0de.net/pkg/go-paperdoll/ingest"
	"badc0de.net/pkg/go-paperdoll/layers"
	"badc0de.net/pkg/go-paperdoll/session"
	"badc0de.net/pkg/go-paperdoll/xmls"
)

var (
	categoriesXML = flag.String("categories_xml", "", "optional XML file overriding the default categories")
	seed          = flag.Uint64("seed", 0, "seed for -randomize; 0 picks one from the clock")
	randomize     = flag.Bool("randomize", false, "pick a random outfit before printing")

	tileWidth  = flag.Int("tile_width", 0, "tile width in pixels")
	tileHeight = flag.Int("tile_height", 0, "tile height in pixels")
	columns    = flag.Int("columns", 0, "number of tile columns; overrides -tile_width")
	rows       = flag.Int("rows", 0, "number of tile rows; overrides -tile_height")
	order      = flag.String("order", "columns", "frame order: columns (row by row) or rows (column by column)")

	spriteName = flag.String("name", "", "export file name without extension; defaults to "+session.DefaultName)
	outDir     = flag.String("out_dir", "", "if set, write <name>.png and <name>.gif here")
	fps        = flag.Int("fps", session.DefaultFPS, "animation frames per second")
	scale      = flag.Int("scale", 1, "magnification of printed frames and the GIF")
	frame      = flag.Int("frame", -1, "print only this frame instead of the whole sheet")
	animate    = flag.Int("animate", 0, "play the animation this many times on the terminal")

	printMode = flag.String("print", "24bit", "how to print: nocolor, 256, 24bit, iterm or rasterm")
	blanks    = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize  = flag.Bool("downsize", true, "shrink images to fit the terminal")
	banner    = flag.Bool("banner", false, "print a banner with the sprite name first")

	spritesDir string
)

func main() {
	ingest.SetupDirFlag("sprites", "sprites_dir", &spritesDir)
	flagutil.Parse()

	if err := run(context.Background()); err != nil {
		glog.Exitf("dollprint: %v", err)
	}
}

func newSession() (*session.Session, error) {
	categories := layers.DefaultCategories
	if *categoriesXML != "" {
		var err error
		if categories, err = xmls.ReadCategoriesFile(*categoriesXML); err != nil {
			return nil, err
		}
	}

	sd := *seed
	if sd == 0 {
		sd = uint64(time.Now().UnixNano())
	}
	glog.V(1).Infof("dollprint: seed %d", sd)

	s := session.New(session.Options{
		Categories: categories,
		Name:       *spriteName,
		FPS:        *fps,
		Scale:      *scale,
		Rand:       rand.New(rand.NewPCG(sd, sd)),
	})

	if spritesDir == "" {
		s.Close()
		return nil, errors.New("no -sprites_dir given and no sprites directory found")
	}
	entries, err := ingest.Dir(spritesDir, categories)
	if err != nil {
		s.Close()
		return nil, err
	}
	if err := ingest.AddAll(s, entries); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func configureGrid(s *session.Session) error {
	var o grid.Order
	if err := o.UnmarshalText([]byte(*order)); err != nil {
		return err
	}
	s.SetOrder(o)

	g := s.Grid()
	tw, th := g.TileWidth, g.TileHeight
	if *tileWidth > 0 {
		tw = *tileWidth
	}
	if *tileHeight > 0 {
		th = *tileHeight
	}
	s.SetTileSize(tw, th)
	if *columns > 0 || *rows > 0 {
		s.SetQuantity(*columns, *rows)
	}
	return errors.Wrap(s.Grid().Validate(), "grid")
}

func run(ctx context.Context) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := configureGrid(s); err != nil {
		return err
	}
	if *randomize {
		s.Randomize()
	}

	mode, err := imageprint.ParseMode(*printMode)
	if err != nil {
		return err
	}
	p := imageprint.Printer{W: os.Stdout, Mode: mode, Blanks: *blanks, Name: s.Filename()}

	if *banner {
		name := s.Filename()
		figure.NewFigure(name[:len(name)-len(filepath.Ext(name))], "", false).Print()
	}

	for _, l := range s.Layers() {
		if l.Visible {
			fmt.Printf("%-8s %s\n", l.Category, l.DisplayName)
		}
	}

	if *outDir != "" {
		if err := export(ctx, s); err != nil {
			return err
		}
	}

	switch {
	case *animate > 0:
		return play(ctx, s, p)
	case *frame >= 0:
		img, err := s.PreviewFrame(ctx, *frame)
		if err != nil {
			return err
		}
		return out(p, img)
	default:
		c, _, err := s.Export(ctx)
		if err != nil {
			return err
		}
		return out(p, imageprint.Enlarge(c.Image, *scale))
	}
}

// export writes the composite sheet and its animation into -out_dir.
func export(ctx context.Context, s *session.Session) error {
	c, filename, err := s.Export(ctx)
	if err != nil {
		return err
	}
	pngPath := filepath.Join(*outDir, filename)
	if err := writeFile(pngPath, func(f *os.File) error { return png.Encode(f, c.Image) }); err != nil {
		return err
	}
	glog.Infof("wrote %s", pngPath)

	g, err := s.Animation(ctx)
	if err != nil {
		// A sheet without a playable grid still exports.
		glog.Warningf("skipping animation: %v", err)
		return nil
	}
	gifPath := pngPath[:len(pngPath)-len(".png")] + ".gif"
	if err := writeFile(gifPath, func(f *os.File) error { return gif.EncodeAll(f, g) }); err != nil {
		return err
	}
	glog.Infof("wrote %s", gifPath)
	return nil
}

func writeFile(path string, enc func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %q", path)
	}
	if err := enc(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding %q", path)
	}
	return errors.Wrapf(f.Close(), "closing %q", path)
}

// play prints the animation -animate times, paced by the session's playback
// loop.
func play(ctx context.Context, s *session.Session, p imageprint.Printer) error {
	count := s.Grid().FrameCount()
	if count == 0 {
		return errors.New("nothing to animate")
	}
	if *fps < 1 {
		return errors.Errorf("cannot animate at %d fps", *fps)
	}
	frames := make([]image.Image, count)
	for i := range iter.N(count) {
		img, err := s.PreviewFrame(ctx, i)
		if err != nil {
			return err
		}
		frames[i] = img
	}

	ticks := make(chan int, 1)
	player := newPlayer(ticks, *fps, count)
	defer player.Close()

	for range iter.N(*animate * count) {
		select {
		case i := <-ticks:
			fmt.Print("\033[H\033[2J")
			if err := out(p, frames[i]); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
