package gbnp

import (
	"bytes"
	"fmt"

	"github.com/bodgit/gbnp/cursor"
	"github.com/bodgit/gbnp/layout"
	"github.com/bodgit/gbnp/mapping"
	"github.com/bodgit/gbnp/tile"
	"gopkg.in/Sirupsen/logrus.v0"
)

// Output is the result of assembling a Set.
type Output struct {
	// Image is the 1 MB flash image.
	Image []byte
	// Map is the 128 byte map table.
	Map []byte
}

// writer stops at the first failed write
type writer struct {
	c   *cursor.Cursor
	err error
}

func (w *writer) at(address int, p ...byte) {
	if w.err != nil {
		return
	}
	w.c.Seek(address)
	w.err = w.c.WriteBytes(p)
}

func (w *writer) fill(address, stop int, b byte) {
	if w.err != nil {
		return
	}
	w.c.Seek(address)
	w.err = w.c.FillUntil(b, stop)
}

func (w *writer) write(p []byte) {
	if w.err != nil {
		return
	}
	w.err = w.c.WriteBytes(p)
}

func (a *Assembler) ticker(s *Set) ([]byte, error) {
	if s.Ticker == nil {
		return nil, nil
	}
	b := new(bytes.Buffer)
	if err := tile.Encode(b, s.Ticker); err != nil {
		return nil, err
	}
	if b.Len() > layout.TickerEnd-layout.TickerStart {
		return nil, fmt.Errorf("%w: %d bytes", ErrTickerTooLong, b.Len())
	}
	return b.Bytes(), nil
}

// Assemble lays out the firmware and the cartridges in s as a flash image
// and builds the matching map table. Nothing is produced unless every
// cartridge fits.
func (a *Assembler) Assemble(s *Set) (*Output, error) {
	if a.firmware == nil {
		return nil, ErrNoFirmware
	}

	carts := s.Cartridges()
	if len(carts) > layout.Slots {
		return nil, fmt.Errorf("%w: %d cartridges, limit is %d", ErrCapacityExceeded, len(carts), layout.Slots)
	}
	if kb := s.ROMUsedKB(); kb > layout.CapacityKB {
		return nil, fmt.Errorf("%w: %d KB, limit is %d KB", ErrCapacityExceeded, kb, layout.CapacityKB)
	}

	ticker, err := a.ticker(s)
	if err != nil {
		return nil, err
	}

	table, err := mapping.Build(carts)
	if err != nil {
		return nil, err
	}
	m, err := table.MarshalBinary()
	if err != nil {
		return nil, err
	}

	b := make([]byte, layout.ImageSize)
	w := &writer{c: cursor.New(b)}

	w.at(0, a.firmware.Bytes()...)

	if s.DisableCGB {
		w.at(layout.CGBFlag, 0)
		w.at(layout.HeaderChecksum, layout.PatchedChecksum)
	}

	if s.ForceDMG {
		w.at(layout.EntryPoint, layout.BootPatch)
		w.at(layout.MonochromePatchAddress, layout.MonochromePatch[:]...)
	}

	w.fill(layout.TickerStart, layout.TickerEnd, 0)
	w.at(layout.TickerStart, ticker...)

	for i := 0; i < layout.Slots; i++ {
		w.at(layout.IndexStart+i*layout.IndexRecordSize, layout.IndexUnused)
	}

	base := 1
	for i, c := range carts {
		record := layout.IndexStart + i*layout.IndexRecordSize
		size := c.PaddedROMSizeKB() / layout.PaddedUnitKB

		w.at(record, byte(i+1), byte(base), 0, byte(size), 0, 0, 0)
		w.at(record+layout.IndexBitmap, c.Bitmap()...)

		a.logger.WithFields(cartridgeFields(i+1, c)).Debug("Indexed cartridge")
		base += size
	}

	w.c.Seek(layout.PayloadStart)
	for _, c := range carts {
		w.write(c.Payload())
	}

	if w.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapacityExceeded, w.err)
	}

	a.logger.WithFields(logrus.Fields{
		"cartridges": len(carts),
		"kb":         s.ROMUsedKB(),
	}).Info("Assembled image")

	return &Output{Image: b, Map: m}, nil
}
