package tile

import "image"

// Decode converts tile data back into an image of the given dimensions using
// Palette, so the colour index of every pixel is its intensity class.
func Decode(b []byte, width, height int) (*image.Paletted, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	if len(b) != Size(width, height) {
		return nil, ErrWrongSize
	}

	m := image.NewPaletted(image.Rect(0, 0, width, height), Palette)

	i := 0
	for tx := 0; tx < width/tileWidth; tx++ {
		for y := 0; y < height; y++ {
			lo, hi := b[i], b[i+1]
			i += bytesPerColumn
			for x := 0; x < tileWidth; x++ {
				shift := 7 - x
				m.SetColorIndex(tx*tileWidth+x, y, lo>>shift&1|hi>>shift&1<<1)
			}
		}
	}

	return m, nil
}
