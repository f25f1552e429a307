/*
Package layout holds the fixed offsets and sizes shared by the cartridge
header parser, the map table builder and the image assembler.

Cartridge header fields are relative to the start of a single cartridge image.
Image offsets are relative to the start of the assembled 1 MB multicart image.
*/
package layout

// Cartridge header.
const (
	EntryPoint     = 0x100
	Signature      = 0x104
	Title          = 0x134
	TitleLength    = 15
	CGBFlag        = 0x143
	CartridgeType  = 0x147
	ROMSize        = 0x148
	RAMSize        = 0x149
	HeaderChecksum = 0x14d
	GlobalChecksum = 0x14e
	HeaderEnd      = 0x150
)

// SignatureBytes is the start of the boot logo every cartridge carries.
var SignatureBytes = [...]byte{0xce, 0xed, 0x66, 0x66, 0xcc}

// Size units, all in KB.
const (
	ROMUnitKB     = 32  // smallest ROM size class
	PaddedUnitKB  = 128 // unit the multicart addresses cartridges in
	MapROMUnitKB  = 32  // ROM offset granularity in the map table
	MapRAMUnitKB  = 2   // RAM offset granularity in the map table
	RAMSlotUnitKB = 8   // RAM allocation granularity per slot
	MaxRAMKB      = 32
	CapacityKB    = 896
	KB            = 1024
)

// Slots is the number of cartridges the menu firmware can index.
const Slots = 7

// Assembled image.
const (
	ImageSize       = 1 << 20
	TickerStart     = 0x18040
	TickerEnd       = 0x19140
	IndexStart      = 0x1c200
	IndexRecordSize = 512
	IndexBitmap     = 63 // menu tile offset within an index record
	PayloadStart    = 0x20000
)

// Index record fields.
const (
	IndexSlot    = 0
	IndexROMBase = 1
	IndexROMSize = 3
	IndexUnused  = 0xff
)

// Firmware patches.
const (
	// PatchedChecksum is the header checksum of the firmware once its
	// colour-mode byte has been zeroed.
	PatchedChecksum = 83
	// BootPatch is written at EntryPoint when forcing a monochrome boot.
	BootPatch = 0xaf
	// MonochromePatchAddress is where MonochromePatch is written.
	MonochromePatchAddress = HeaderEnd
)

// MonochromePatch overrides the firmware's hardware detection.
var MonochromePatch = [...]byte{0x3c, 0xe0, 0xfe, 0x3d}

// Map table.
const (
	MapSize      = 128
	MapFill      = 0xff
	MapEntrySize = 3
)

// MapHeader is the firmware's own entry at the start of the map table.
var MapHeader = [...]byte{0xa8, 0x00, 0x00}

// MapTrailer closes every map table.
var MapTrailer = [...]byte{0x02, 0x00, 0x30, 0x12, 0x99, 0x11, 0x12, 0x20, 0x37, 0x57, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00, 0x00}

// MapTrailerStart is where MapTrailer begins.
const MapTrailerStart = MapSize - len(MapTrailer)

// Menu tile dimensions in pixels.
const (
	MenuWidth    = 128
	MenuHeight   = 8
	TickerHeight = 16
)
