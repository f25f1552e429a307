package gbnp

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/bodgit/gbnp/cartridge"
	"github.com/bodgit/gbnp/checksum"
	"github.com/bodgit/gbnp/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteInfo(t *testing.T) {
	b := makeROM("POKEMON", 0x13, 0x05, 0x03)
	b[layout.CGBFlag] = 0x80

	h, err := checksum.Header(b)
	require.NoError(t, err)
	b[layout.HeaderChecksum] = h
	g, err := checksum.Global(b)
	require.NoError(t, err)
	binary.BigEndian.PutUint16(b[layout.GlobalChecksum:], g)

	good, err := cartridge.New(b)
	require.NoError(t, err)

	plain := newCartridge(t, "TETRIS", 0x00, 0x00, 0x00)

	buf := new(bytes.Buffer)
	require.NoError(t, WriteInfo(buf, []*cartridge.Cartridge{good, plain}, []string{"pokemon.gbc"}))

	assert.JSONEq(t, `[
		{
			"file": "pokemon.gbc",
			"title": "POKEMON",
			"menu_text": "POKEMON",
			"cgb": true,
			"type": "0x13",
			"controller": "MBC3",
			"rom_kb": 1024,
			"padded_rom_kb": 1024,
			"ram_kb": 32,
			"header_checksum": true,
			"global_checksum": true
		},
		{
			"title": "TETRIS",
			"menu_text": "TETRIS",
			"cgb": false,
			"type": "0x00",
			"controller": "None",
			"rom_kb": 32,
			"padded_rom_kb": 128,
			"ram_kb": 0,
			"header_checksum": false,
			"global_checksum": false
		}
	]`, buf.String())

	buf.Reset()
	require.NoError(t, WriteInfo(buf, nil, nil))
	assert.JSONEq(t, `[]`, buf.String())
}
