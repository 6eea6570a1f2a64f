package playback

import (
	"testing"
	"time"

	"badc0de.net/pkg/go-paperdoll/ttesting"
)

type fakeTicker struct {
	d       time.Duration
	c       chan time.Time
	stopped chan struct{}
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }
func (f *fakeTicker) Stop()               { close(f.stopped) }

// fakeTickers returns a TickerFunc handing out fake tickers, and a channel on
// which each created ticker is published.
func fakeTickers() (TickerFunc, chan *fakeTicker) {
	created := make(chan *fakeTicker, 16)
	return func(d time.Duration) Ticker {
		ft := &fakeTicker{
			d:       d,
			c:       make(chan time.Time),
			stopped: make(chan struct{}),
		}
		created <- ft
		return ft
	}, created
}

func waitStopped(t *testing.T, ft *fakeTicker) {
	t.Helper()
	select {
	case <-ft.stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("ticker was not stopped")
	}
}

func waitFrame(t *testing.T, frames <-chan int) int {
	t.Helper()
	select {
	case f := <-frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatalf("no frame delivered")
	}
	return -1
}

func TestAdvanceWraps(t *testing.T) {
	s := New(func(time.Duration) Ticker { return &fakeTicker{c: make(chan time.Time), stopped: make(chan struct{})} }, nil)
	defer s.Close()

	s.Configure(3, 4)
	var got []int
	for i := 0; i < 9; i++ {
		got = append(got, s.Frame())
		s.Advance()
	}
	want := []int{0, 1, 2, 3, 0, 1, 2, 3, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frames = %v; want %v", got, want)
		}
	}
}

func TestHoldsWithoutFrames(t *testing.T) {
	newTicker, created := fakeTickers()
	s := New(newTicker, nil)
	defer s.Close()

	s.Configure(3, 0)
	s.Advance()
	ttesting.AssertEqualInt(t, "frame", s.Frame(), 0)
	ttesting.AssertEqualBool(t, "running", s.State().Running, false)
	if len(created) != 0 {
		t.Errorf("a ticker was created for an empty grid")
	}

	s.Configure(0, 5)
	ttesting.AssertEqualBool(t, "running at 0 fps", s.State().Running, false)
	if len(created) != 0 {
		t.Errorf("a ticker was created at 0 fps")
	}
}

func TestTickerDrivesFrames(t *testing.T) {
	newTicker, created := fakeTickers()
	frames := make(chan int, 16)
	s := New(newTicker, func(f int) { frames <- f })
	defer s.Close()

	s.Configure(4, 3)
	ft := <-created
	if ft.d != 250*time.Millisecond {
		t.Errorf("interval = %v; want 250ms", ft.d)
	}

	var got []int
	for i := 0; i < 4; i++ {
		ft.c <- time.Time{}
		got = append(got, waitFrame(t, frames))
	}
	want := []int{1, 2, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frames = %v; want %v", got, want)
		}
	}
}

func TestReconfigureReplacesTicker(t *testing.T) {
	newTicker, created := fakeTickers()
	frames := make(chan int, 16)
	s := New(newTicker, func(f int) { frames <- f })
	defer s.Close()

	s.Configure(2, 5)
	first := <-created
	first.c <- time.Time{}
	first.c <- time.Time{}
	waitFrame(t, frames)
	waitFrame(t, frames)
	ttesting.AssertEqualInt(t, "frame before fps change", s.Frame(), 2)

	// Changing the rate keeps the frame.
	s.Configure(10, 5)
	waitStopped(t, first)
	second := <-created
	ttesting.AssertEqualInt(t, "frame after fps change", s.Frame(), 2)
	if second.d != 100*time.Millisecond {
		t.Errorf("interval = %v; want 100ms", second.d)
	}

	// Shrinking the grid below the current frame resets it.
	s.Configure(10, 2)
	waitStopped(t, second)
	third := <-created
	ttesting.AssertEqualInt(t, "frame after shrink", s.Frame(), 0)

	third.c <- time.Time{}
	ttesting.AssertEqualInt(t, "first tick after shrink", waitFrame(t, frames), 1)

	// Growing keeps it.
	s.Configure(10, 8)
	waitStopped(t, third)
	<-created
	ttesting.AssertEqualInt(t, "frame after grow", s.Frame(), 1)

	st := s.State()
	ttesting.AssertEqualInt(t, "state frames", st.FrameCount, 8)
	ttesting.AssertEqualInt(t, "state fps", st.FPS, 10)
	ttesting.AssertEqualBool(t, "state running", st.Running, true)
}

func TestCloseStopsTicker(t *testing.T) {
	newTicker, created := fakeTickers()
	s := New(newTicker, nil)

	s.Configure(5, 5)
	ft := <-created
	s.Close()
	waitStopped(t, ft)
	ttesting.AssertEqualBool(t, "running after close", s.State().Running, false)

	s.Configure(5, 5)
	if len(created) != 0 {
		t.Errorf("Configure after Close created a ticker")
	}
	s.Close()
}

func TestRealTicker(t *testing.T) {
	frames := make(chan int, 64)
	s := New(nil, func(f int) {
		select {
		case frames <- f:
		default:
		}
	})
	s.Configure(100, 3)
	defer s.Close()

	ttesting.AssertInRangeInt(t, "first frame", waitFrame(t, frames), 0, 2)
}
