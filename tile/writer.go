package tile

import (
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

// Two-bit pattern for each intensity class, first bit is the low plane
var packed = [Levels]byte{
	Lightest: 0b00,
	Light:    0b10,
	Dark:     0b01,
	Darkest:  0b11,
}

// swizzle interleaves two packed bytes, eight pixels in total, into the low
// and high bit plane bytes of one tile row.
func swizzle(a, b byte) (byte, byte) {
	lo := a&0x80 | a&0x20<<1 | a&0x08<<2 | a&0x02<<3 |
		b&0x80>>4 | b&0x20>>3 | b&0x08>>2 | b&0x02>>1
	hi := a&0x40<<1 | a&0x10<<2 | a&0x04<<3 | a&0x01<<4 |
		b&0x40>>3 | b&0x10>>2 | b&0x04>>1 | b&0x01
	return lo, hi
}

// Map every palette entry to the nearest intensity class
func classes(p color.Palette) []uint8 {
	c := make([]uint8, len(p))
	for i := range p {
		c[i] = uint8(Palette.Index(color.GrayModel.Convert(p[i])))
	}
	return c
}

type encoder struct {
	w io.Writer
}

func (e *encoder) encode(m *image.Paletted) error {
	b := m.Bounds()
	stride := b.Dx() / pixelsPerByte
	shade := classes(m.Palette)

	buf := make([]byte, stride*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			buf[y*stride+x/pixelsPerByte] |= packed[shade[m.ColorIndexAt(x, y)]] << (6 - x%pixelsPerByte<<1)
		}
	}

	out := make([]byte, 0, len(buf))
	for h := 0; h < stride; h += bytesPerColumn {
		for i := h; i < len(buf); i += stride {
			lo, hi := swizzle(buf[i], buf[i+1])
			out = append(out, lo, hi)
		}
	}

	_, err := e.w.Write(out)
	return err
}

// Encode writes the Image m to w in tile format. Paletted images with no
// more than four colours map each colour to the nearest intensity class,
// anything else is quantized to four colours first.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if err := checkSize(b.Dx(), b.Dy()); err != nil {
		return err
	}

	pm, _ := m.(*image.Paletted)
	if pm == nil || len(pm.Palette) > Levels {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, Levels), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	e := encoder{w: w}

	return e.encode(pm)
}
