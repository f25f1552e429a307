package gbnp

import (
	"fmt"
	"io"

	"github.com/bodgit/gbnp/cartridge"
	"github.com/go-faster/jx"
)

func encodeCartridge(e *jx.Encoder, name string, c *cartridge.Cartridge) {
	header, global := c.Checksums()
	e.Obj(func(e *jx.Encoder) {
		if name != "" {
			e.Field("file", func(e *jx.Encoder) { e.Str(name) })
		}
		e.Field("title", func(e *jx.Encoder) { e.Str(c.Title()) })
		e.Field("menu_text", func(e *jx.Encoder) { e.Str(c.MenuText()) })
		e.Field("cgb", func(e *jx.Encoder) { e.Bool(c.CGB()) })
		e.Field("type", func(e *jx.Encoder) { e.Str(fmt.Sprintf("0x%02X", c.Type())) })
		e.Field("controller", func(e *jx.Encoder) { e.Str(c.Family().String()) })
		e.Field("rom_kb", func(e *jx.Encoder) { e.Int(c.ROMSizeKB()) })
		e.Field("padded_rom_kb", func(e *jx.Encoder) { e.Int(c.PaddedROMSizeKB()) })
		e.Field("ram_kb", func(e *jx.Encoder) { e.Int(c.RAMSizeKB()) })
		e.Field("header_checksum", func(e *jx.Encoder) { e.Bool(header) })
		e.Field("global_checksum", func(e *jx.Encoder) { e.Bool(global) })
	})
}

// WriteInfo writes a JSON array describing each cartridge to w. names, if
// not nil, labels each cartridge with the file it came from.
func WriteInfo(w io.Writer, carts []*cartridge.Cartridge, names []string) error {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	e.SetIdent(2)
	e.Arr(func(e *jx.Encoder) {
		for i, c := range carts {
			var name string
			if i < len(names) {
				name = names[i]
			}
			encodeCartridge(e, name, c)
		}
	})

	if _, err := w.Write(append(e.Bytes(), '\n')); err != nil {
		return err
	}
	return nil
}
