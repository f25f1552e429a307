/*
Package gbnp is a library for assembling multicart images for the Game Boy
Memory (Nintendo Power) flash cartridge.

An image consists of the menu firmware with its ticker and per-slot index
records rewritten, followed by up to seven cartridges. A separate 128 byte map
table tells the cartridge how to route bank switching for each slot.
*/
package gbnp

import (
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/bodgit/gbnp/cartridge"
	"gopkg.in/Sirupsen/logrus.v0"
)

var (
	// ErrCapacityExceeded is returned when the cartridges do not fit.
	ErrCapacityExceeded = errors.New("gbnp: capacity exceeded")
	// ErrNoCartridgesFound is returned when an image has no occupied slots.
	ErrNoCartridgesFound = errors.New("gbnp: no cartridges found")
	// ErrNoFirmware is returned when no menu firmware has been loaded.
	ErrNoFirmware = errors.New("gbnp: no firmware loaded")
	// ErrFirmwareSize is returned for a firmware that is empty or would
	// overlap the cartridge payloads.
	ErrFirmwareSize = errors.New("gbnp: invalid firmware size")
	// ErrTickerTooLong is returned when the encoded ticker does not fit its
	// region.
	ErrTickerTooLong = errors.New("gbnp: ticker too long")
)

// SlotError records a cartridge that could not be recovered from an image.
type SlotError struct {
	Slot int
	Err  error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("slot %d: %v", e.Slot, e.Err)
}

func (e *SlotError) Unwrap() error {
	return e.Err
}

// FileError records a cartridge file that could not be loaded.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Assembler builds multicart images around a menu firmware.
type Assembler struct {
	firmware *Firmware
	logger   *logrus.Logger
}

// New returns an Assembler for the given firmware. A nil logger discards all
// output.
func New(firmware *Firmware, logger *logrus.Logger) *Assembler {
	if logger == nil {
		logger = logrus.New()
		logger.Out = ioutil.Discard
	}
	return &Assembler{
		firmware: firmware,
		logger:   logger,
	}
}

func cartridgeFields(slot int, c *cartridge.Cartridge) logrus.Fields {
	return logrus.Fields{
		"slot":  slot,
		"title": c.Title(),
		"kb":    c.PaddedROMSizeKB(),
	}
}
