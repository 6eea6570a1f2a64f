// Package session holds the state of one paper-doll editing session: the
// layer stack, the sprite grid, the playback loop and the export settings.
//
// A Session is the only path through which that state changes. Every method
// is safe for concurrent use; calls are serialised, so each one observes the
// effects of the previous one in full.
package session

import (
	"context"
	"image"
	"image/gif"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-paperdoll/compositor"
	"badc0de.net/pkg/go-paperdoll/grid"
	"badc0de.net/pkg/go-paperdoll/layers"
	"badc0de.net/pkg/go-paperdoll/playback"
	"badc0de.net/pkg/go-paperdoll/sheet"
)

const (
	DefaultName  = "sample"
	DefaultFPS   = 3
	DefaultScale = 3

	// MaxScale caps the preview magnification.
	MaxScale = 64
)

// Options configures a new Session. The zero value is valid.
type Options struct {
	// Categories is the set of body-part slots. Defaults to
	// layers.DefaultCategories.
	Categories []layers.Category

	// Name is the suggested export file name, without extension.
	// Defaults to DefaultName.
	Name  string
	FPS   int
	Scale int

	// Rand drives Randomize. Defaults to a randomly seeded source.
	Rand *rand.Rand

	// NewTicker and OnFrame are passed to the playback scheduler. OnFrame
	// must not call back into the Session.
	NewTicker playback.TickerFunc
	OnFrame   func(frame int)
}

// Session is one editing session.
type Session struct {
	mu sync.Mutex

	categories []layers.Category
	rnd        *rand.Rand

	stack  layers.Collection
	grid   grid.AutoConfigurer
	player *playback.Scheduler

	name  string
	fps   int
	scale int

	// generation increases on every change that can alter rendered output.
	generation uint64
}

// New creates a session. Call Close to stop its playback loop.
func New(opts Options) *Session {
	s := &Session{
		categories: opts.Categories,
		rnd:        opts.Rand,
		name:       opts.Name,
		fps:        opts.FPS,
		scale:      opts.Scale,
	}
	if len(s.categories) == 0 {
		s.categories = layers.DefaultCategories
	}
	if s.rnd == nil {
		seed := uint64(time.Now().UnixNano())
		s.rnd = rand.New(rand.NewPCG(seed, seed>>32|1))
	}
	if s.fps == 0 {
		s.fps = DefaultFPS
	}
	if s.scale < 1 {
		s.scale = DefaultScale
	}
	s.scale = min(s.scale, MaxScale)
	s.player = playback.New(opts.NewTicker, opts.OnFrame)
	return s
}

// Close stops the playback loop. The session must not be used afterwards.
func (s *Session) Close() {
	s.player.Close()
}

// reconfigureLocked pushes the current grid and rate to the scheduler.
func (s *Session) reconfigureLocked() {
	s.player.Configure(s.fps, s.grid.Config().FrameCount())
}

func (s *Session) changedLocked() {
	s.generation++
}

// Categories returns the session's category set.
func (s *Session) Categories() []layers.Category {
	return append([]layers.Category(nil), s.categories...)
}

// AddLayer puts res on top of the stack under category and returns its
// index. The first sheet added establishes the grid.
func (s *Session) AddLayer(category string, res sheet.Resource) (int, error) {
	if _, ok := layers.FindCategory(s.categories, category); !ok {
		return -1, errors.Errorf("session: unknown category %q", category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.stack.Append(layers.NewSpriteLayer(category, res))
	if s.grid.Observe(res.Size()) {
		s.reconfigureLocked()
	}
	s.changedLocked()
	glog.Infof("session: added %q as %s layer %d (%dx%d)", res.Name(), category, idx, res.Size().X, res.Size().Y)
	return idx, nil
}

// Move moves the layer at from to position to. It reports false and does
// nothing if either index is out of range.
func (s *Session) Move(from, to int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.stack.Move(from, to)
	if ok {
		s.changedLocked()
	}
	return ok
}

// Remove deletes the layer at i.
func (s *Session) Remove(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.stack.Remove(i)
	if ok {
		s.changedLocked()
	}
	return ok
}

// SetVisible shows or hides the layer at i.
func (s *Session) SetVisible(i int, visible bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.stack.SetVisible(i, visible)
	if ok {
		s.changedLocked()
	}
	return ok
}

// Toggle flips the visibility of the layer at i.
func (s *Session) Toggle(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.stack.Toggle(i)
	if ok {
		s.changedLocked()
	}
	return ok
}

// Layer returns the layer at i.
func (s *Session) Layer(i int) (layers.SpriteLayer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.At(i)
}

// Clear removes every layer and forgets the grid, so the next sheet added
// establishes it again. The traversal order is kept.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stack.Clear()
	s.grid.Reset()
	s.reconfigureLocked()
	s.changedLocked()
	glog.Infof("session: cleared")
}

// Randomize picks a random outfit: one layer per category, possibly none
// for optional categories.
func (s *Session) Randomize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stack.Randomize(s.categories, s.rnd)
	s.changedLocked()
}

// Layers returns a snapshot of the layer stack, bottom first.
func (s *Session) Layers() []layers.SpriteLayer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Layers()
}

// Grid returns the current grid configuration.
func (s *Session) Grid() grid.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Config()
}

// Established reports whether a sheet has set the grid's dimensions.
func (s *Session) Established() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Established()
}

// SetTileSize sets the tile size in pixels.
func (s *Session) SetTileSize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid.SetTileSize(w, h)
	s.reconfigureLocked()
	s.changedLocked()
}

// SetQuantity sets the tile size from a number of columns and rows. A value
// below 1 leaves that dimension unchanged.
func (s *Session) SetQuantity(columns, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid.SetQuantity(columns, rows)
	s.reconfigureLocked()
	s.changedLocked()
}

// SetOrder sets the traversal order. The frame count is unchanged, so the
// current frame index is kept.
func (s *Session) SetOrder(o grid.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid.SetOrder(o)
	s.changedLocked()
}

// SetFPS sets the playback rate. Values below 1 pause playback.
func (s *Session) SetFPS(fps int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fps = fps
	s.reconfigureLocked()
}

// SetScale sets the preview magnification. Values below 1 are ignored and
// values above MaxScale are lowered to it.
func (s *Session) SetScale(scale int) {
	if scale < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scale = min(scale, MaxScale)
	s.changedLocked()
}

// SetName sets the suggested export file name.
func (s *Session) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// Settings is a snapshot of the session's scalar settings.
type Settings struct {
	Name       string `json:"name"`
	FPS        int    `json:"fps"`
	Scale      int    `json:"scale"`
	Generation uint64 `json:"generation"`
}

// Settings returns a snapshot of the scalar settings.
func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Settings{Name: s.name, FPS: s.fps, Scale: s.scale, Generation: s.generation}
}

// Playback returns the state of the playback loop.
func (s *Session) Playback() playback.State {
	return s.player.State()
}

// Offset returns the tile offset of the current frame.
func (s *Session) Offset() grid.Offset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offsetLocked(s.player.Frame())
}

func (s *Session) offsetLocked(frame int) grid.Offset {
	off, _ := s.grid.Config().OffsetAt(frame)
	return off
}

// Filename returns the suggested export file name, "<name>.png", falling
// back to DefaultName when the name is empty.
func (s *Session) Filename() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filenameLocked()
}

func (s *Session) filenameLocked() string {
	name := s.name
	if name == "" {
		name = DefaultName
	}
	return name + ".png"
}

// Preview renders the current frame of the playback loop.
func (s *Session) Preview(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	frame := s.player.Frame()
	s.mu.Unlock()
	return s.PreviewFrame(ctx, frame)
}

// PreviewFrame renders frame n of the playback loop. A frame outside the
// loop renders the first tile.
func (s *Session) PreviewFrame(ctx context.Context, n int) (image.Image, error) {
	s.mu.Lock()
	visible := s.stack.Visible()
	cfg := s.grid.Config()
	off := s.offsetLocked(n)
	scale := s.scale
	s.mu.Unlock()

	img, _, err := compositor.Frame(ctx, visible, cfg, off, scale)
	if err != nil {
		return nil, errors.Wrap(err, "rendering preview")
	}
	return img, nil
}

// Export merges the visible layers into one sheet-sized image and returns it
// with the suggested file name.
//
// The visible layers are captured when Export is called; changes made while
// it runs do not affect the result.
func (s *Session) Export(ctx context.Context) (*compositor.Composite, string, error) {
	s.mu.Lock()
	visible := s.stack.Visible()
	size := s.grid.Config().SheetSize()
	filename := s.filenameLocked()
	s.mu.Unlock()

	c, err := compositor.Render(ctx, visible, size)
	if err != nil {
		return nil, "", errors.Wrap(err, "rendering composite")
	}
	for _, id := range c.Omitted {
		glog.Warningf("session: layer %q omitted from export", id)
	}
	return c, filename, nil
}

// Animation renders the whole playback loop as a GIF at the session's rate
// and scale.
func (s *Session) Animation(ctx context.Context) (*gif.GIF, error) {
	s.mu.Lock()
	visible := s.stack.Visible()
	cfg := s.grid.Config()
	fps, scale := s.fps, s.scale
	s.mu.Unlock()

	return compositor.Animation(ctx, visible, cfg, fps, scale)
}
