/*
Package checksum implements the two checksums stored in a Game Boy cartridge
header.

The header checksum covers the title through the mask ROM version and is
verified by the boot ROM; the global checksum is a 16-bit sum of every byte
in the image except the two bytes holding it and is never checked by the
hardware.
*/
package checksum

import (
	"encoding/binary"
	"errors"

	"github.com/bodgit/gbnp/layout"
)

var errShort = errors.New("checksum: image too short")

// Header computes the header checksum of the cartridge image b.
func Header(b []byte) (byte, error) {
	if len(b) < layout.HeaderEnd {
		return 0, errShort
	}
	var x byte
	for _, c := range b[layout.Title:layout.HeaderChecksum] {
		x = x - c - 1
	}
	return x, nil
}

// Global computes the global checksum of the cartridge image b.
func Global(b []byte) (uint16, error) {
	if len(b) < layout.HeaderEnd {
		return 0, errShort
	}
	var sum uint16
	for i, c := range b {
		if i == layout.GlobalChecksum || i == layout.GlobalChecksum+1 {
			continue
		}
		sum += uint16(c)
	}
	return sum, nil
}

// Verify reports whether the header and global checksums stored in b match
// its contents.
func Verify(b []byte) (header, global bool) {
	h, err := Header(b)
	if err != nil {
		return false, false
	}
	g, _ := Global(b)
	return h == b[layout.HeaderChecksum], g == binary.BigEndian.Uint16(b[layout.GlobalChecksum:])
}
