/*
Package cartridge parses and validates single Game Boy cartridge images for
inclusion in a multicart.

A Cartridge can only be obtained from New or by a successful parse of a
recovered payload, so every value in circulation has passed validation.
*/
package cartridge

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/bodgit/gbnp/checksum"
	"github.com/bodgit/gbnp/layout"
	"github.com/bodgit/gbnp/tile"
)

var (
	// ErrTruncated means the image is too short to contain a header.
	ErrTruncated = errors.New("cartridge: image too short")
	// ErrROMSizeClass means the ROM size class code is not supported.
	ErrROMSizeClass = errors.New("cartridge: unsupported ROM size")
	// ErrSizeMismatch means the image is larger than its header declares,
	// usually because an assembled multicart was loaded instead.
	ErrSizeMismatch = errors.New("cartridge: image is larger than its header declares")
	// ErrInvalidSignature means the boot logo is missing from the header.
	ErrInvalidSignature = errors.New("cartridge: invalid signature")
	// ErrUnknownController means the cartridge type byte cannot be routed.
	ErrUnknownController = errors.New("cartridge: unknown controller type")
	// ErrRAMTooLarge means the cartridge needs more than 32 KB of RAM.
	ErrRAMTooLarge = errors.New("cartridge: requires more than 32 KB of RAM")
)

const maxROMClass = 6 // 2 MB

// Cartridge is a validated cartridge image.
type Cartridge struct {
	title    string
	menuText string
	cgb      bool
	typeCode byte
	romClass byte
	ramClass byte
	payload  []byte
	bitmap   []byte
}

// BitmapSize is the size of an encoded menu tile.
var BitmapSize = tile.Size(layout.MenuWidth, layout.MenuHeight)

func romSizeKB(class byte) int {
	return layout.ROMUnitKB << class
}

func paddedROMSizeKB(class byte) int {
	return max(romSizeKB(class), layout.PaddedUnitKB)
}

func ramSizeKB(class byte) int {
	if class == 0 {
		return 0
	}
	// Anything past this is rejected anyway, keep it within 32-bit int
	if class > 5 {
		class = 5
	}
	return 2 << (2 * (int(class) - 1))
}

func decodeTitle(b []byte) string {
	r := make([]rune, 0, len(b))
	for _, c := range b {
		if c != 0 {
			r = append(r, rune(c))
		}
	}
	return string(r)
}

// New parses and validates the cartridge image in b. The returned Cartridge
// holds its own padded copy of b. The error identifies the first check that
// failed and wraps one of the package errors.
func New(b []byte) (*Cartridge, error) {
	if len(b) < layout.HeaderEnd {
		return nil, ErrTruncated
	}

	c := &Cartridge{
		title:    decodeTitle(b[layout.Title : layout.Title+layout.TitleLength]),
		typeCode: b[layout.CartridgeType],
		romClass: b[layout.ROMSize],
		ramClass: b[layout.RAMSize],
		bitmap:   make([]byte, BitmapSize),
	}
	c.menuText = c.title

	switch b[layout.CGBFlag] {
	case 0x80, 0xc0:
		c.cgb = true
	}

	if c.romClass > maxROMClass {
		return nil, fmt.Errorf("%w: class %#02x", ErrROMSizeClass, c.romClass)
	}

	c.payload = make([]byte, c.PaddedROMSizeKB()*layout.KB)
	if len(b) > len(c.payload) {
		return nil, fmt.Errorf("%w: %d bytes, header declares %d KB", ErrSizeMismatch, len(b), c.ROMSizeKB())
	}
	copy(c.payload, b)

	if !bytes.Equal(c.payload[layout.Signature:layout.Signature+len(layout.SignatureBytes)], layout.SignatureBytes[:]) {
		return nil, ErrInvalidSignature
	}

	if c.Family() == Unknown {
		return nil, fmt.Errorf("%w: %#02x", ErrUnknownController, c.typeCode)
	}

	if c.RAMSizeKB() > layout.MaxRAMKB {
		return nil, fmt.Errorf("%w: %d KB", ErrRAMTooLarge, c.RAMSizeKB())
	}

	return c, nil
}

// Title returns the title from the header with any NUL padding removed.
func (c *Cartridge) Title() string {
	return c.title
}

// MenuText returns the text shown for this cartridge in the menu.
func (c *Cartridge) MenuText() string {
	return c.menuText
}

// CGB reports whether the cartridge declares colour-mode support.
func (c *Cartridge) CGB() bool {
	return c.cgb
}

// Type returns the raw cartridge type byte.
func (c *Cartridge) Type() byte {
	return c.typeCode
}

// Family returns the controller family resolved from Type.
func (c *Cartridge) Family() Family {
	return FamilyOf(c.typeCode)
}

// ROMClass returns the raw ROM size class byte.
func (c *Cartridge) ROMClass() byte {
	return c.romClass
}

// RAMClass returns the raw RAM size class byte.
func (c *Cartridge) RAMClass() byte {
	return c.ramClass
}

// ROMSizeKB returns the ROM size declared by the header.
func (c *Cartridge) ROMSizeKB() int {
	return romSizeKB(c.romClass)
}

// PaddedROMSizeKB returns the space the cartridge occupies in the multicart,
// never less than 128 KB.
func (c *Cartridge) PaddedROMSizeKB() int {
	return paddedROMSizeKB(c.romClass)
}

// RAMSizeKB returns the RAM size declared by the header.
func (c *Cartridge) RAMSizeKB() int {
	return ramSizeKB(c.ramClass)
}

// Payload returns the image padded with zeroes to PaddedROMSizeKB. It must
// not be modified.
func (c *Cartridge) Payload() []byte {
	return c.payload
}

// Bitmap returns the encoded menu tile. It must not be modified.
func (c *Cartridge) Bitmap() []byte {
	return c.bitmap
}

// Checksums reports whether the header and global checksums are intact.
// The multicart does not need either to be correct.
func (c *Cartridge) Checksums() (header, global bool) {
	return checksum.Verify(c.payload)
}

// SetMenu replaces the menu text and encodes m, which must be 128 by 8
// pixels, as the menu tile.
func (c *Cartridge) SetMenu(text string, m image.Image) error {
	if b := m.Bounds(); b.Dx() != layout.MenuWidth || b.Dy() != layout.MenuHeight {
		return tile.ErrWrongSize
	}
	buf := new(bytes.Buffer)
	if err := tile.Encode(buf, m); err != nil {
		return err
	}
	c.menuText, c.bitmap = text, buf.Bytes()
	return nil
}

// SetBitmap replaces the menu text and the already encoded menu tile.
func (c *Cartridge) SetBitmap(text string, b []byte) error {
	if len(b) != BitmapSize {
		return tile.ErrWrongSize
	}
	c.menuText, c.bitmap = text, append([]byte(nil), b...)
	return nil
}
