package gbnp

import (
	"errors"
	"image"

	"github.com/bodgit/gbnp/cartridge"
	"github.com/bodgit/gbnp/layout"
)

var errSlot = errors.New("gbnp: no such slot")

// Set is an ordered collection of cartridges plus the options that apply to
// the whole image. The zero value is an empty set.
//
// A Set is not safe for concurrent use.
type Set struct {
	// Ticker is the scrolling status bar image, 16 pixels tall. A nil
	// Ticker leaves the region blank.
	Ticker image.Image
	// DisableCGB clears the colour-mode flag of the firmware.
	DisableCGB bool
	// ForceDMG patches the firmware to always boot in monochrome mode.
	ForceDMG bool

	carts []*cartridge.Cartridge
}

// Add appends cartridges in order. The capacity is only enforced when
// assembling, so a set may temporarily hold too many.
func (s *Set) Add(carts ...*cartridge.Cartridge) {
	for _, c := range carts {
		if c != nil {
			s.carts = append(s.carts, c)
		}
	}
}

// Remove deletes the cartridge at index i.
func (s *Set) Remove(i int) error {
	if i < 0 || i >= len(s.carts) {
		return errSlot
	}
	s.carts = append(s.carts[:i], s.carts[i+1:]...)
	return nil
}

// Move moves the cartridge at index from to index to, shifting the others.
func (s *Set) Move(from, to int) error {
	if from < 0 || from >= len(s.carts) || to < 0 || to >= len(s.carts) {
		return errSlot
	}
	c := s.carts[from]
	s.carts = append(s.carts[:from], s.carts[from+1:]...)
	s.carts = append(s.carts[:to], append([]*cartridge.Cartridge{c}, s.carts[to:]...)...)
	return nil
}

// Clear removes all cartridges.
func (s *Set) Clear() {
	s.carts = nil
}

// Len returns the number of cartridges.
func (s *Set) Len() int {
	return len(s.carts)
}

// Cartridges returns the cartridges in slot order.
func (s *Set) Cartridges() []*cartridge.Cartridge {
	return append([]*cartridge.Cartridge(nil), s.carts...)
}

func (s *Set) sum(f func(*cartridge.Cartridge) int) (total int) {
	for _, c := range s.carts {
		total += f(c)
	}
	return
}

// ROMTotalKB returns the combined ROM size declared by the cartridges.
func (s *Set) ROMTotalKB() int {
	return s.sum((*cartridge.Cartridge).ROMSizeKB)
}

// ROMUsedKB returns the space the cartridges occupy once padded.
func (s *Set) ROMUsedKB() int {
	return s.sum((*cartridge.Cartridge).PaddedROMSizeKB)
}

// RAMUsedKB returns the combined RAM size declared by the cartridges.
func (s *Set) RAMUsedKB() int {
	return s.sum((*cartridge.Cartridge).RAMSizeKB)
}

// Overflow reports whether the set is too big to assemble.
func (s *Set) Overflow() bool {
	return len(s.carts) > layout.Slots || s.ROMUsedKB() > layout.CapacityKB
}
