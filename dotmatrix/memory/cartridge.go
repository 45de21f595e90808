package memory

const titleLength = 16

const (
	titleAddress         = 0x134
	cgbFlagAddress       = 0x143
	cartridgeTypeAddress = 0x147
	romSizeAddress       = 0x148
	ramSizeAddress       = 0x149
	versionNumberAddress = 0x14C
)

// MBCType identifies the memory bank controller family on the cartridge.
type MBCType uint8

const (
	NoMBCType MBCType = iota
	MBC1Type
	MBC2Type
	MBC3Type
	MBC5Type
	MBCUnknownType
)

// Cartridge holds the raw ROM bytes and the metadata decoded from the header.
type Cartridge struct {
	data         []uint8
	title        string
	cartType     uint8
	mbcType      MBCType
	hasBattery   bool
	ramBankCount uint8
	version      uint8
}

// NewCartridge creates an empty cartridge, useful only for debugging purposes.
func NewCartridge() *Cartridge {
	return &Cartridge{
		data: make([]uint8, 0x8000),
	}
}

// NewCartridgeWithData initializes a new Cartridge from a slice of bytes.
// The cartridge type byte at 0x0147 selects the MBC.
func NewCartridgeWithData(bytes []uint8) *Cartridge {
	cart := &Cartridge{
		data: make([]uint8, len(bytes)),
	}
	copy(cart.data, bytes)

	if len(bytes) < 0x150 {
		// Too small to carry a header; treat as a bare ROM image.
		cart.mbcType = NoMBCType
		return cart
	}

	cart.title = cleanTitle(bytes[titleAddress : titleAddress+titleLength])
	cart.cartType = bytes[cartridgeTypeAddress]
	cart.version = bytes[versionNumberAddress]
	cart.mbcType, cart.hasBattery = decodeCartridgeType(cart.cartType)
	cart.ramBankCount = decodeRAMBanks(bytes[ramSizeAddress])

	return cart
}

// Title returns the cleaned up game title from the header.
func (c *Cartridge) Title() string {
	return c.title
}

// decodeCartridgeType maps the header type byte to an MBC family and whether
// the cartridge carries a battery for its RAM.
func decodeCartridgeType(value uint8) (MBCType, bool) {
	switch value {
	case 0x00, 0x08, 0x09:
		return NoMBCType, false
	case 0x01, 0x02:
		return MBC1Type, false
	case 0x03:
		return MBC1Type, true
	case 0x05:
		return MBC2Type, false
	case 0x06:
		return MBC2Type, true
	case 0x0F, 0x10, 0x13:
		return MBC3Type, true
	case 0x11, 0x12:
		return MBC3Type, false
	case 0x19, 0x1A, 0x1C, 0x1D:
		return MBC5Type, false
	case 0x1B, 0x1E:
		return MBC5Type, true
	default:
		return MBCUnknownType, false
	}
}

// decodeRAMBanks maps the header RAM size code to a count of 8KiB banks.
func decodeRAMBanks(code uint8) uint8 {
	switch code {
	case 0x02:
		return 1
	case 0x03:
		return 4
	case 0x04:
		return 16
	case 0x05:
		return 8
	default:
		return 0
	}
}
