package gbnp

import (
	"crypto/sha1"
	"fmt"

	"github.com/bodgit/gbnp/layout"
)

// Firmware is the menu program placed at the start of every image.
type Firmware struct {
	data []byte
}

// NewFirmware copies b as a firmware. It must hold at least a cartridge
// header and must end before the first cartridge payload.
func NewFirmware(b []byte) (*Firmware, error) {
	if len(b) < layout.HeaderEnd || len(b) > layout.PayloadStart {
		return nil, fmt.Errorf("%w: %d bytes", ErrFirmwareSize, len(b))
	}
	return &Firmware{data: append([]byte(nil), b...)}, nil
}

// Bytes returns the firmware. It must not be modified.
func (f *Firmware) Bytes() []byte {
	return f.data
}

// Size returns the size of the firmware in bytes.
func (f *Firmware) Size() int {
	return len(f.data)
}

// SHA1 returns the hex encoded SHA-1 digest of the firmware.
func (f *Firmware) SHA1() string {
	return fmt.Sprintf("%X", sha1.Sum(f.data))
}
