package mapping

import (
	"testing"

	"github.com/bodgit/gbnp/cartridge"
	"github.com/bodgit/gbnp/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartridge(t *testing.T, typeCode, romClass, ramClass byte) *cartridge.Cartridge {
	t.Helper()
	b := make([]byte, layout.ROMUnitKB<<romClass*layout.KB)
	copy(b[layout.Signature:], layout.SignatureBytes[:])
	copy(b[layout.Title:], "MAP")
	b[layout.CartridgeType] = typeCode
	b[layout.ROMSize] = romClass
	b[layout.RAMSize] = ramClass
	c, err := cartridge.New(b)
	require.NoError(t, err)
	return c
}

func marshal(t *testing.T, carts ...*cartridge.Cartridge) []byte {
	t.Helper()
	m, err := Build(carts)
	require.NoError(t, err)
	b, err := m.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, layout.MapSize)
	return b
}

func TestEmpty(t *testing.T) {
	b := marshal(t)

	assert.Equal(t, []byte{0xa8, 0x00, 0x00}, b[:3])
	for _, x := range b[3:layout.MapTrailerStart] {
		assert.Equal(t, byte(0xff), x)
	}
	assert.Equal(t, layout.MapTrailer[:], b[layout.MapTrailerStart:])
	assert.Equal(t, []byte{0x02, 0x00, 0x30, 0x12, 0x99, 0x11, 0x12, 0x20, 0x37, 0x57, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00, 0x00}, b[110:])
}

func TestSingle(t *testing.T) {
	b := marshal(t, newCartridge(t, 0x00, 0x00, 0x00))

	assert.Equal(t, []byte{0xa8, 0x00, 0x00, 0x08, 0x04, 0x00, 0xff}, b[:7])
}

func TestMultiple(t *testing.T) {
	b := marshal(t,
		newCartridge(t, 0x03, 0x03, 0x02), // MBC1, 256 KB, 8 KB
		newCartridge(t, 0x1b, 0x04, 0x03), // MBC5, 512 KB, 32 KB
		newCartridge(t, 0x06, 0x01, 0x00), // MBC2+BATTERY, 64 KB
		newCartridge(t, 0x13, 0x02, 0x01), // MBC3, 128 KB, 2 KB
	)

	assert.Equal(t, []byte{
		0xa8, 0x00, 0x00,
		0x2d, 0x04, 0x00,
		0x91, 0x8c, 0x04,
		0x48, 0x9c, 0x14,
		0x69, 0x20, 0x18,
		0xff,
	}, b[:16])
	assert.Equal(t, layout.MapTrailer[:], b[layout.MapTrailerStart:])
}

func TestROMOffsets(t *testing.T) {
	carts := []*cartridge.Cartridge{
		newCartridge(t, 0x19, 0x04, 0x00),
		newCartridge(t, 0x01, 0x00, 0x00),
		newCartridge(t, 0x11, 0x03, 0x00),
		newCartridge(t, 0x00, 0x00, 0x00),
	}

	m, err := Build(carts)
	require.NoError(t, err)
	require.Len(t, m.Entries, len(carts))

	kb := 128
	for i, c := range carts {
		assert.Equal(t, byte(kb/32), m.Entries[i].ROMOffset, "slot %d", i+1)
		kb += c.PaddedROMSizeKB()
	}
}

func TestRAM(t *testing.T) {
	tables := []struct {
		typeCode, ramClass byte
		code               byte
		alloc              int
	}{
		{0x00, 0x00, 0, 8},
		{0x03, 0x01, 2, 8},
		{0x03, 0x02, 2, 8},
		{0x1b, 0x03, 3, 32},
		{0x05, 0x00, 0, 8},
		{0x06, 0x00, 1, 8},
		{0x06, 0x03, 1, 8},
	}

	for _, table := range tables {
		c := newCartridge(t, table.typeCode, 0x00, table.ramClass)
		assert.Equal(t, table.code, ramCode(c), "type %#02x ram %#02x", table.typeCode, table.ramClass)
		assert.Equal(t, table.alloc, ramAllocKB(c), "type %#02x ram %#02x", table.typeCode, table.ramClass)
	}
}

func TestROMCode(t *testing.T) {
	for kb, code := range map[int]byte{64: 2, 128: 2, 256: 3, 512: 4, 1024: 5, 2048: 5} {
		assert.Equal(t, code, romCode(kb), "%d KB", kb)
	}
}

func TestTooMany(t *testing.T) {
	c := newCartridge(t, 0x00, 0x00, 0x00)
	_, err := Build([]*cartridge.Cartridge{c, c, c, c, c, c, c, c})
	assert.ErrorIs(t, err, ErrTooManyEntries)

	m := &Map{Entries: make([]Entry, 8)}
	_, err = m.MarshalBinary()
	assert.ErrorIs(t, err, ErrTooManyEntries)
}

func TestOutOfSpace(t *testing.T) {
	c := newCartridge(t, 0x19, 0x06, 0x00)
	_, err := Build([]*cartridge.Cartridge{c, c})
	assert.NoError(t, err)
	_, err = Build([]*cartridge.Cartridge{c, c, c})
	assert.ErrorIs(t, err, ErrOutOfSpace)
}

func TestUnmarshal(t *testing.T) {
	carts := []*cartridge.Cartridge{
		newCartridge(t, 0x03, 0x03, 0x02),
		newCartridge(t, 0x06, 0x01, 0x00),
		newCartridge(t, 0x1e, 0x05, 0x03),
	}
	want, err := Build(carts)
	require.NoError(t, err)

	b, err := want.MarshalBinary()
	require.NoError(t, err)

	got := new(Map)
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, want.Entries, got.Entries)

	assert.Error(t, got.UnmarshalBinary(b[:100]))

	bad := append([]byte(nil), b...)
	bad[0] = 0
	assert.ErrorIs(t, got.UnmarshalBinary(bad), ErrBadHeader)

	bad = append([]byte(nil), b...)
	bad[layout.MapSize-1] = 1
	assert.ErrorIs(t, got.UnmarshalBinary(bad), ErrBadTrailer)
}
