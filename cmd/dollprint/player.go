package main

import (
	"badc0de.net/pkg/go-paperdoll/playback"
)

// newPlayer starts a playback loop that sends each frame index to ticks,
// dropping frames the printer is too slow to show.
func newPlayer(ticks chan<- int, fps, count int) *playback.Scheduler {
	s := playback.New(playback.NewTimeTicker, func(frame int) {
		select {
		case ticks <- frame:
		default:
		}
	})
	s.Configure(fps, count)
	return s
}
