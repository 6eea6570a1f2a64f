package imageprint

import (
	"image"

	"github.com/pkg/errors"
)

func (p Printer) printRasTerm(img image.Image) error {
	return errors.New("imageprint: rasterm not supported on windows")
}
