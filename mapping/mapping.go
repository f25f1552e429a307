/*
Package mapping implements the 128 byte map table the multicart firmware reads
at boot to route bank-select writes for each slot.

The table starts with the firmware's own three byte entry followed by a three
byte entry per slot. Unused space is filled with 0xff up to a fixed trailer.
Each entry packs a 3-bit controller code, a 3-bit ROM size code and a 3-bit
RAM size code together with the slot's ROM offset in 32 KB units, followed by
its RAM offset in 2 KB units:

	byte 0: CCCRRRAA
	byte 1: AOOOOOOO
	byte 2: RAM offset
*/
package mapping

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bodgit/gbnp/cartridge"
	"github.com/bodgit/gbnp/cursor"
	"github.com/bodgit/gbnp/layout"
)

var (
	// ErrTooManyEntries is returned when there are more entries than slots.
	ErrTooManyEntries = errors.New("mapping: too many entries")
	// ErrUnmappedController is returned for a cartridge whose controller
	// family has no code. Validated cartridges never cause this.
	ErrUnmappedController = errors.New("mapping: unmapped controller")
	// ErrOutOfSpace is returned when a ROM offset no longer fits its field.
	ErrOutOfSpace = errors.New("mapping: ROM offset out of range")
	// ErrBadHeader and ErrBadTrailer are returned when decoding a table
	// whose fixed parts are wrong.
	ErrBadHeader  = errors.New("mapping: invalid header")
	ErrBadTrailer = errors.New("mapping: invalid trailer")
)

const (
	mbc2Battery  = 0x06
	maxROMOffset = 0x7f
)

var controllerCodes = map[cartridge.Family]byte{
	cartridge.None: 0,
	cartridge.MBC1: 1,
	cartridge.MBC2: 2,
	cartridge.MBC3: 3,
	cartridge.MBC5: 4,
}

// Entry is the routing information for a single slot.
type Entry struct {
	Controller byte // controller code
	ROM        byte // ROM size code
	RAM        byte // RAM size code
	ROMOffset  byte // in 32 KB units
	RAMOffset  byte // in 2 KB units
}

func (e Entry) bytes() []byte {
	return []byte{
		e.Controller&7<<5 | e.ROM&7<<2 | e.RAM&7>>1,
		e.RAM&1<<7 | e.ROMOffset&maxROMOffset,
		e.RAMOffset,
	}
}

func decodeEntry(b []byte) Entry {
	return Entry{
		Controller: b[0] >> 5,
		ROM:        b[0] >> 2 & 7,
		RAM:        b[0]&3<<1 | b[1]>>7,
		ROMOffset:  b[1] & maxROMOffset,
		RAMOffset:  b[2],
	}
}

// Map is the map table. It implements the encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler interfaces.
type Map struct {
	Entries []Entry
}

func romCode(paddedKB int) byte {
	switch paddedKB {
	case 64, 128:
		return 2
	case 256:
		return 3
	case 512:
		return 4
	default:
		return 5
	}
}

func ramCode(c *cartridge.Cartridge) byte {
	switch kb := c.RAMSizeKB(); {
	case c.Type() == mbc2Battery:
		return 1
	case kb == 0:
		return 0
	case kb == 8:
		return 2
	case kb >= 32:
		return 3
	default:
		return 2
	}
}

// ramAllocKB is the RAM reserved for a slot, at least 8 KB and always a
// multiple of it.
func ramAllocKB(c *cartridge.Cartridge) int {
	kb := c.RAMSizeKB()
	if c.Type() == mbc2Battery || kb < layout.RAMSlotUnitKB {
		return layout.RAMSlotUnitKB
	}
	return (kb + layout.RAMSlotUnitKB - 1) / layout.RAMSlotUnitKB * layout.RAMSlotUnitKB
}

// Build creates the map table for the cartridges in slot order. The first
// slot starts after the 128 KB occupied by the firmware.
func Build(carts []*cartridge.Cartridge) (*Map, error) {
	if len(carts) > layout.Slots {
		return nil, ErrTooManyEntries
	}

	m := &Map{Entries: make([]Entry, 0, len(carts))}
	romOffset, ramOffset := layout.PaddedUnitKB, 0

	for i, c := range carts {
		controller, ok := controllerCodes[c.Family()]
		if !ok {
			return nil, fmt.Errorf("%w: slot %d type %#02x", ErrUnmappedController, i+1, c.Type())
		}
		if romOffset/layout.MapROMUnitKB > maxROMOffset {
			return nil, fmt.Errorf("%w: slot %d", ErrOutOfSpace, i+1)
		}

		m.Entries = append(m.Entries, Entry{
			Controller: controller,
			ROM:        romCode(c.PaddedROMSizeKB()),
			RAM:        ramCode(c),
			ROMOffset:  byte(romOffset / layout.MapROMUnitKB),
			RAMOffset:  byte(ramOffset / layout.MapRAMUnitKB),
		})

		romOffset += c.PaddedROMSizeKB()
		ramOffset += ramAllocKB(c)
	}

	return m, nil
}

// MarshalBinary encodes the map table into its 128 byte form
func (m *Map) MarshalBinary() ([]byte, error) {
	if len(m.Entries) > layout.Slots {
		return nil, ErrTooManyEntries
	}

	b := make([]byte, layout.MapSize)
	c := cursor.New(b)

	if err := c.WriteBytes(layout.MapHeader[:]); err != nil {
		return nil, err
	}

	for _, e := range m.Entries {
		if err := c.WriteBytes(e.bytes()); err != nil {
			return nil, err
		}
	}

	if err := c.FillUntil(layout.MapFill, layout.MapTrailerStart); err != nil {
		return nil, err
	}

	if err := c.WriteBytes(layout.MapTrailer[:]); err != nil {
		return nil, err
	}

	return b, nil
}

// UnmarshalBinary decodes the map table from its 128 byte form
func (m *Map) UnmarshalBinary(b []byte) error {
	if len(b) != layout.MapSize {
		return fmt.Errorf("mapping: expected %d bytes, got %d", layout.MapSize, len(b))
	}

	if !bytes.Equal(b[:len(layout.MapHeader)], layout.MapHeader[:]) {
		return ErrBadHeader
	}

	if !bytes.Equal(b[layout.MapTrailerStart:], layout.MapTrailer[:]) {
		return ErrBadTrailer
	}

	m.Entries = nil
	for i := 0; i < layout.Slots; i++ {
		off := len(layout.MapHeader) + i*layout.MapEntrySize
		if b[off] == layout.MapFill {
			break
		}
		m.Entries = append(m.Entries, decodeEntry(b[off:off+layout.MapEntrySize]))
	}

	return nil
}
