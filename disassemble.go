package gbnp

import (
	"fmt"

	"github.com/bodgit/gbnp/cartridge"
	"github.com/bodgit/gbnp/cursor"
	"github.com/bodgit/gbnp/layout"
)

// Contents holds what Disassemble recovered from an image.
type Contents struct {
	// Cartridges are the valid cartridges in slot order.
	Cartridges []*cartridge.Cartridge
	// Rejected lists the occupied slots whose payload failed validation.
	Rejected []*SlotError
}

type indexRecord struct {
	slot   int
	size   int
	bitmap []byte
}

func readIndex(c *cursor.Cursor) ([]indexRecord, error) {
	var records []indexRecord
	for i := 0; i < layout.Slots; i++ {
		record := layout.IndexStart + i*layout.IndexRecordSize

		c.Seek(record + layout.IndexSlot)
		n, err := c.ReadByte()
		if err != nil {
			return nil, err
		}
		if n == 0 || n > layout.Slots {
			continue
		}

		c.Seek(record + layout.IndexROMSize)
		size, err := c.ReadByte()
		if err != nil {
			return nil, err
		}

		c.Seek(record + layout.IndexBitmap)
		bitmap, err := c.ReadBytes(cartridge.BitmapSize)
		if err != nil {
			return nil, err
		}

		records = append(records, indexRecord{
			slot:   i + 1,
			size:   int(size) * layout.PaddedUnitKB * layout.KB,
			bitmap: bitmap,
		})
	}
	return records, nil
}

// Disassemble recovers the cartridges from an image built by Assemble. The
// payloads are read back to back in index order, each cartridge is validated
// again and keeps the menu tile stored in its index record. Failures are
// collected per slot; reading past the end of the image stops the scan.
func Disassemble(b []byte) (*Contents, error) {
	c := cursor.New(b)

	records, err := readIndex(c)
	if err != nil {
		return nil, fmt.Errorf("gbnp: reading index: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoCartridgesFound
	}

	contents := new(Contents)

	c.Seek(layout.PayloadStart)
	for _, r := range records {
		payload, err := c.ReadBytes(r.size)
		if err != nil {
			contents.Rejected = append(contents.Rejected, &SlotError{Slot: r.slot, Err: err})
			break
		}

		cart, err := cartridge.New(payload)
		if err != nil {
			contents.Rejected = append(contents.Rejected, &SlotError{Slot: r.slot, Err: err})
			continue
		}

		if err := cart.SetBitmap(cart.Title(), r.bitmap); err != nil {
			return nil, err
		}

		contents.Cartridges = append(contents.Cartridges, cart)
	}

	return contents, nil
}
