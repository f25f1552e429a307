/*
Package tile implements the Game Boy tile encoder and decoder used for the
multicart menu entries and the scrolling ticker.

An image is a grid of pixels in one of four intensity classes, from Lightest
to Darkest. The width must be a multiple of 8 and at least 64 pixels, the
height a multiple of 8. Each pixel is first packed into two bits, four pixels
per byte in row-major order, and the packed rows are then swizzled into the
planar 8 by 8 tile format the hardware reads: for each 8 pixel wide column,
every row becomes a pair of bytes holding the low and high bit planes.
*/
package tile

import (
	"errors"
	"image/color"
)

// Intensity classes, ordered from lightest to darkest. The value of each is
// also its index in Palette.
const (
	Lightest uint8 = iota
	Light
	Dark
	Darkest
	Levels = iota
)

const (
	tileWidth      = 8
	tileHeight     = tileWidth
	pixelsPerByte  = 4
	minWidth       = 64
	bytesPerColumn = 2 // bytes per row of one 8 pixel column
)

// Palette holds the colour of each intensity class.
var Palette = color.Palette{
	color.Gray{Y: 0xff},
	color.Gray{Y: 0xbb},
	color.Gray{Y: 0x66},
	color.Gray{Y: 0x00},
}

// ErrWrongSize is returned for images or buffers whose dimensions cannot be
// represented.
var ErrWrongSize = errors.New("tile: image is wrong size")

func checkSize(width, height int) error {
	if width < minWidth || width%tileWidth != 0 || height < tileHeight || height%tileHeight != 0 {
		return ErrWrongSize
	}
	return nil
}

// Size returns the number of encoded bytes for an image of the given
// dimensions.
func Size(width, height int) int {
	return width * height / pixelsPerByte
}
