package cartridge

// Family is the memory bank controller family a cartridge declares.
type Family int

// Unknown is the zero value so an unset Family is never mistaken for a valid
// one.
const (
	Unknown Family = iota
	None
	MBC1
	MBC2
	MBC3
	MBC5
)

var familyNames = [...]string{
	Unknown: "Unknown",
	None:    "None",
	MBC1:    "MBC1",
	MBC2:    "MBC2",
	MBC3:    "MBC3",
	MBC5:    "MBC5",
}

func (f Family) String() string {
	if f < 0 || int(f) >= len(familyNames) {
		return familyNames[Unknown]
	}
	return familyNames[f]
}

// FamilyOf resolves the cartridge type byte from the header. Types the
// multicart cannot route, such as MMM01 or HuC1, resolve to Unknown.
func FamilyOf(code byte) Family {
	switch {
	case code == 0x00, code == 0x08, code == 0x09:
		return None
	case code >= 0x01 && code <= 0x03:
		return MBC1
	case code >= 0x05 && code <= 0x06:
		return MBC2
	case code >= 0x0f && code <= 0x13:
		return MBC3
	case code >= 0x19 && code <= 0x1e:
		return MBC5
	default:
		return Unknown
	}
}
