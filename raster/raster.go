/*
Package raster turns text into the four shade pixel grids the tile encoder
consumes.

Menu entries are black text on white, 128 by 8 pixels. The ticker is white
text with a grey drop shadow on black, 16 pixels tall and as wide as the text
needs, in steps of 16 pixels. Faces taller than the target are drawn at their
native size and scaled down.
*/
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/bodgit/gbnp/layout"
	"github.com/bodgit/gbnp/tile"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// Rasterizer renders menu and ticker text. The returned images use
// tile.Palette so each colour index is an intensity class.
type Rasterizer interface {
	Menu(text string) (*image.Paletted, error)
	Ticker(text string) (*image.Paletted, error)
}

// DefaultFont is used when no font is named.
const DefaultFont = "basic"

var fonts = map[string]font.Face{
	"basic":            basicfont.Face7x13,
	"inconsolata":      inconsolata.Regular8x16,
	"inconsolata-bold": inconsolata.Bold8x16,
}

var (
	// ErrUnknownFont is returned by Lookup for unrecognised font names.
	ErrUnknownFont = errors.New("raster: unknown font")
	// ErrTooLong is returned when the ticker text does not fit the ticker
	// region of the firmware.
	ErrTooLong = errors.New("raster: ticker text too long")
)

// MaxTickerWidth is the widest ticker the firmware has room for.
const MaxTickerWidth = (layout.TickerEnd - layout.TickerStart) * 4 / layout.TickerHeight

const (
	tickerStep     = 16
	tickerMinWidth = 64
	menuThreshold  = 127
)

var (
	shadow = color.Gray{Y: 0x88}
	// Red channel thresholds for Darkest, Dark and Light
	tickerThresholds = [...]uint8{128, 162, 192}
)

// Fonts returns the names accepted by Lookup.
func Fonts() []string {
	names := make([]string, 0, len(fonts))
	for name := range fonts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Face is a Rasterizer drawing with a font.Face.
type Face struct {
	face font.Face
}

// New returns a Face drawing with f.
func New(f font.Face) *Face {
	return &Face{face: f}
}

// Lookup returns the Face for one of the built-in font names. An empty name
// selects DefaultFont.
func Lookup(name string) (*Face, error) {
	if name == "" {
		name = DefaultFont
	}
	f, ok := fonts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFont, name)
	}
	return New(f), nil
}

func (f *Face) height() int {
	return f.face.Metrics().Height.Ceil()
}

// canvas returns a blank image of at least the target height with the same
// aspect ratio as the target, plus its scale relative to the target.
func canvas(width, height, native int, bg color.Color) (*image.Gray, float64) {
	h := max(native, height)
	k := float64(h) / float64(height)
	m := image.NewGray(image.Rect(0, 0, int(math.Ceil(float64(width)*k)), h))
	draw.Draw(m, m.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return m, k
}

func shrink(m *image.Gray, width, height int) *image.Gray {
	if m.Bounds().Dx() == width && m.Bounds().Dy() == height {
		return m
	}
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), m, m.Bounds(), draw.Src, nil)
	return dst
}

func (f *Face) draw(dst *image.Gray, c color.Color, x, y int, text string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: f.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// Menu renders text as a 128 by 8 pixel two tone menu entry. The last column
// is always left blank.
func (f *Face) Menu(text string) (*image.Paletted, error) {
	c, k := canvas(layout.MenuWidth, layout.MenuHeight, f.height(), color.White)
	baseline := f.face.Metrics().Ascent.Ceil()
	if k == 1 {
		baseline = layout.MenuHeight - 1
	}
	f.draw(c, color.Black, int(math.Ceil(k)), baseline, text)

	g := shrink(c, layout.MenuWidth, layout.MenuHeight)

	m := image.NewPaletted(image.Rect(0, 0, layout.MenuWidth, layout.MenuHeight), tile.Palette)
	for y := 0; y < layout.MenuHeight; y++ {
		for x := 0; x < layout.MenuWidth-1; x++ {
			if g.GrayAt(x, y).Y < menuThreshold {
				m.SetColorIndex(x, y, tile.Darkest)
			}
		}
	}
	return m, nil
}

// TickerWidth returns the width in pixels of the ticker image for text.
func (f *Face) TickerWidth(text string) int {
	k := float64(max(f.height(), layout.TickerHeight)) / layout.TickerHeight
	w := int(math.Ceil(float64(font.MeasureString(f.face, text).Ceil())/k)) + 2
	if r := w % tickerStep; r != 0 {
		w += tickerStep - r
	}
	return max(w, tickerMinWidth)
}

// Ticker renders text as the scrolling ticker strip.
func (f *Face) Ticker(text string) (*image.Paletted, error) {
	width := f.TickerWidth(text)
	if width > MaxTickerWidth {
		return nil, fmt.Errorf("%w: %d pixels, limit is %d", ErrTooLong, width, MaxTickerWidth)
	}

	c, k := canvas(width, layout.TickerHeight, f.height(), color.Black)
	offset := int(math.Ceil(k))
	baseline := min(f.face.Metrics().Ascent.Ceil()+offset, c.Bounds().Dy()-2*offset)
	f.draw(c, shadow, 3*offset, baseline+2*offset, text)
	f.draw(c, color.White, offset, baseline, text)

	g := shrink(c, width, layout.TickerHeight)

	m := image.NewPaletted(image.Rect(0, 0, width, layout.TickerHeight), tile.Palette)
	for y := 0; y < layout.TickerHeight; y++ {
		for x := 0; x < width; x++ {
			v := g.GrayAt(x, y).Y
			switch {
			case v < tickerThresholds[0]:
				m.SetColorIndex(x, y, tile.Darkest)
			case v < tickerThresholds[1]:
				m.SetColorIndex(x, y, tile.Dark)
			case v < tickerThresholds[2]:
				m.SetColorIndex(x, y, tile.Light)
			}
		}
	}
	return m, nil
}
