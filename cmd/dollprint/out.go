package main

import (
	"image"

	"badc0de.net/pkg/go-paperdoll/imageprint"
)

func out(p imageprint.Printer, img image.Image) error {
	if *downsize {
		termSize, err := GetTermSize()
		if err == nil {
			if termSize.WSXPixel != 0 && termSize.WSYPixel != 0 && p.Mode.Graphics() {
				// Graphics modes can use the terminal's pixels directly.
				img = imageprint.Fit(img, termSize.WSXPixel/2, termSize.WSYPixel/2)
			} else {
				// Two characters per pixel, one line per pixel.
				img = imageprint.Fit(img, termSize.WSCol/2, termSize.WSRow-2)
			}
		}
	}
	return p.Print(img)
}
