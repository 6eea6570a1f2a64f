// Package playback drives the frame index of a looping sprite animation.
//
// A Scheduler owns at most one ticker at a time. Every reconfiguration stops
// the running ticker and waits for its goroutine to exit before a new one is
// installed, and Close does the same on shutdown, so no tick is delivered
// after the call that replaced or closed it returns.
package playback

import (
	"sync"
	"time"

	"github.com/golang/glog"
)

// Ticker is the subset of *time.Ticker the scheduler needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct {
	*time.Ticker
}

func (t timeTicker) C() <-chan time.Time {
	return t.Ticker.C
}

// NewTimeTicker is the default TickerFunc, backed by time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

// State is a snapshot of the scheduler.
type State struct {
	Frame      int  `json:"frame"`
	FrameCount int  `json:"frame_count"`
	FPS        int  `json:"fps"`
	Running    bool `json:"running"`
}

// Scheduler advances a frame index at a configurable rate.
type Scheduler struct {
	newTicker TickerFunc
	onFrame   func(frame int)

	// cfgMu serialises Configure and Close. It is never taken by the
	// ticker goroutine, so waiting for that goroutine under it is safe.
	cfgMu  sync.Mutex
	stop   chan struct{}
	done   chan struct{}
	closed bool

	mu    sync.Mutex
	frame int
	count int
	fps   int
}

// New creates a stopped scheduler. newTicker may be nil, in which case
// NewTimeTicker is used. onFrame, if not nil, is called from the ticker
// goroutine after every advance with the new frame index; it must not call
// back into Configure or Close.
func New(newTicker TickerFunc, onFrame func(frame int)) *Scheduler {
	if newTicker == nil {
		newTicker = NewTimeTicker
	}
	return &Scheduler{
		newTicker: newTicker,
		onFrame:   onFrame,
	}
}

// Configure tears down the running ticker, if any, and installs a new one
// firing fps times per second over frameCount frames.
//
// The current frame is kept if it is still below frameCount and reset to 0
// otherwise. With fps or frameCount below 1 the scheduler holds its frame
// and no ticker is installed.
func (s *Scheduler) Configure(fps, frameCount int) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()

	if s.closed {
		return
	}
	s.stopLocked()

	if frameCount < 0 {
		frameCount = 0
	}

	s.mu.Lock()
	if s.frame >= frameCount {
		s.frame = 0
	}
	s.count = frameCount
	s.fps = fps
	s.mu.Unlock()

	if fps < 1 || frameCount < 1 {
		glog.V(2).Infof("playback: holding (fps %d, %d frames)", fps, frameCount)
		return
	}

	interval := time.Second / time.Duration(fps)
	t := s.newTicker(interval)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(t, s.stop, s.done)
	glog.V(2).Infof("playback: running at %v over %d frames", interval, frameCount)
}

// stopLocked stops the running goroutine and waits for it. cfgMu must be
// held.
func (s *Scheduler) stopLocked() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop, s.done = nil, nil
}

func (s *Scheduler) run(t Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C():
			// Both channels may be ready at once; a stop always wins.
			select {
			case <-stop:
				return
			default:
			}
			s.Advance()
		}
	}
}

// Advance moves to the next frame, wrapping around after the last one. It
// does nothing while there are no frames.
func (s *Scheduler) Advance() {
	s.mu.Lock()
	if s.count == 0 {
		s.mu.Unlock()
		return
	}
	s.frame = (s.frame + 1) % s.count
	frame := s.frame
	s.mu.Unlock()

	if s.onFrame != nil {
		s.onFrame(frame)
	}
}

// Frame returns the current frame index.
func (s *Scheduler) Frame() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// State returns a snapshot of the scheduler.
func (s *Scheduler) State() State {
	s.cfgMu.Lock()
	running := s.stop != nil
	s.cfgMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Frame:      s.frame,
		FrameCount: s.count,
		FPS:        s.fps,
		Running:    running,
	}
}

// Close stops the ticker and waits for its goroutine to exit. Later calls to
// Configure are ignored. Close is safe to call more than once.
func (s *Scheduler) Close() {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()

	s.stopLocked()
	s.closed = true
}
