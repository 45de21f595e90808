package memory

// MBC represents a Memory Bank Controller interface that all MBC types must
// implement. The MMU forwards every access to 0x0000-0x7FFF and
// 0xA000-0xBFFF through the selected controller.
type MBC interface {
	// Read reads a byte from the specified address
	Read(addr uint16) uint8
	// Write writes a byte to the specified address (bank switching, RAM)
	Write(addr uint16, value uint8)
}

// BatteryBacked is implemented by controllers whose external RAM survives
// power-off via a battery. Hosts snapshot the image at shutdown.
type BatteryBacked interface {
	BatteryRAM() []uint8
	LoadBatteryRAM(data []uint8)
}

// NoMBC represents cartridges with no memory banking capabilities.
// These are typically smaller games (32KB or less) that fit entirely in the
// base memory region and cannot have external RAM.
type NoMBC struct {
	rom []uint8
}

// NewNoMBC creates a new NoMBC controller
func NewNoMBC(romData []uint8) *NoMBC {
	return &NoMBC{rom: romData}
}

func (m *NoMBC) Read(addr uint16) uint8 {
	if int(addr) >= len(m.rom) {
		return 0xFF
	}
	return m.rom[addr]
}

func (m *NoMBC) Write(addr uint16, value uint8) {
	// ROM-only cartridges ignore writes.
}

// MBC1 is the first and most common MBC chip:
//   - up to 2MB ROM (125 16KB banks), bank 0 fixed at 0x0000-0x3FFF
//   - up to 32KB RAM (4 8KB banks) at 0xA000-0xBFFF, gated by an enable write
//   - two banking modes trading ROM range for RAM banks
type MBC1 struct {
	rom         []uint8
	ram         []uint8
	romBank     uint8
	ramBank     uint8
	ramEnabled  bool
	bankingMode uint8
	hasBattery  bool
}

// NewMBC1 creates a new MBC1 controller
func NewMBC1(romData []uint8, hasBattery bool, ramBankCount uint8) *MBC1 {
	return &MBC1{
		rom:        romData,
		ram:        make([]uint8, uint32(ramBankCount)*0x2000),
		romBank:    1,
		hasBattery: hasBattery,
	}
}

func (m *MBC1) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if offset >= uint32(len(m.rom)) {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(m.ramBank) * 0x2000
		if offset >= uint32(len(m.ram)) {
			offset %= uint32(len(m.ram))
		}
		return m.ram[offset+uint32(addr-0xA000)]
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		// ROM bank, lower 5 bits. Bank 0 selects 1.
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = (m.romBank & 0x60) | bank
	case addr <= 0x5FFF:
		if m.bankingMode == 0 {
			// upper 2 bits of the ROM bank
			m.romBank = (m.romBank & 0x1F) | (value&0x03)<<5
		} else {
			m.ramBank = value & 0x03
		}
	case addr <= 0x7FFF:
		m.bankingMode = value & 0x01
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		offset := uint32(m.ramBank) * 0x2000
		if offset >= uint32(len(m.ram)) {
			offset %= uint32(len(m.ram))
		}
		m.ram[offset+uint32(addr-0xA000)] = value
	}
}

func (m *MBC1) BatteryRAM() []uint8 {
	if !m.hasBattery {
		return nil
	}
	return m.ram
}

func (m *MBC1) LoadBatteryRAM(data []uint8) {
	copy(m.ram, data)
}

// MBC2 has the ROM banking of MBC1 and 512 half-bytes of built in RAM.
// Register selection is unusual: bit 8 of the address picks between the RAM
// enable gate and the ROM bank register.
type MBC2 struct {
	rom        []uint8
	ram        []uint8 // 512 x 4 bit, stored one nibble per byte
	romBank    uint8
	ramEnabled bool
	hasBattery bool
}

// NewMBC2 creates a new MBC2 controller
func NewMBC2(romData []uint8, hasBattery bool) *MBC2 {
	return &MBC2{
		rom:        romData,
		ram:        make([]uint8, 512),
		romBank:    1,
		hasBattery: hasBattery,
	}
}

func (m *MBC2) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if offset >= uint32(len(m.rom)) {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		// Only 512 cells, mirrored across the region; upper nibble is open bus.
		return m.ram[(addr-0xA000)&0x1FF] | 0xF0
	default:
		return 0xFF
	}
}

func (m *MBC2) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x3FFF:
		if addr&0x0100 == 0 {
			m.ramEnabled = value&0x0F == 0x0A
		} else {
			bank := value & 0x0F
			if bank == 0 {
				bank = 1
			}
			m.romBank = bank
		}
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return
		}
		m.ram[(addr-0xA000)&0x1FF] = value & 0x0F
	}
}

func (m *MBC2) BatteryRAM() []uint8 {
	if !m.hasBattery {
		return nil
	}
	return m.ram
}

func (m *MBC2) LoadBatteryRAM(data []uint8) {
	copy(m.ram, data)
}

// MBC3 adds a real time clock to MBC1-style banking. The clock registers are
// selected like RAM banks; this implementation exposes the register surface
// but does not advance wall-clock time.
type MBC3 struct {
	rom        []uint8
	ram        []uint8
	romBank    uint8
	ramBank    uint8 // 0x00-0x03 RAM banks, 0x08-0x0C RTC registers
	ramEnabled bool
	hasBattery bool

	rtc [5]uint8
}

// NewMBC3 creates a new MBC3 controller
func NewMBC3(romData []uint8, hasBattery bool, ramBankCount uint8) *MBC3 {
	return &MBC3{
		rom:        romData,
		ram:        make([]uint8, uint32(ramBankCount)*0x2000),
		romBank:    1,
		hasBattery: hasBattery,
	}
}

func (m *MBC3) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if offset >= uint32(len(m.rom)) {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			return m.rtc[m.ramBank-0x08]
		}
		if len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(m.ramBank) * 0x2000
		if offset >= uint32(len(m.ram)) {
			offset %= uint32(len(m.ram))
		}
		return m.ram[offset+uint32(addr-0xA000)]
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr <= 0x5FFF:
		m.ramBank = value & 0x0F
	case addr <= 0x7FFF:
		// RTC latch sequence (0x00 then 0x01); the stub keeps registers as-is.
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled {
			return
		}
		if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			m.rtc[m.ramBank-0x08] = value
			return
		}
		if len(m.ram) == 0 {
			return
		}
		offset := uint32(m.ramBank) * 0x2000
		if offset >= uint32(len(m.ram)) {
			offset %= uint32(len(m.ram))
		}
		m.ram[offset+uint32(addr-0xA000)] = value
	}
}

func (m *MBC3) BatteryRAM() []uint8 {
	if !m.hasBattery {
		return nil
	}
	return m.ram
}

func (m *MBC3) LoadBatteryRAM(data []uint8) {
	copy(m.ram, data)
}

// MBC5 extends banking to a 9 bit ROM bank number (up to 8MB) and allows
// bank 0 to be mapped into the switchable region.
type MBC5 struct {
	rom        []uint8
	ram        []uint8
	romBank    uint16
	ramBank    uint8
	ramEnabled bool
	hasBattery bool
}

// NewMBC5 creates a new MBC5 controller
func NewMBC5(romData []uint8, hasBattery bool, ramBankCount uint8) *MBC5 {
	return &MBC5{
		rom:        romData,
		ram:        make([]uint8, uint32(ramBankCount)*0x2000),
		romBank:    1,
		hasBattery: hasBattery,
	}
}

func (m *MBC5) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x3FFF:
		return m.rom[addr]
	case addr <= 0x7FFF:
		offset := uint32(m.romBank) * 0x4000
		if offset >= uint32(len(m.rom)) {
			offset %= uint32(len(m.rom))
		}
		return m.rom[offset+uint32(addr-0x4000)]
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(m.ramBank) * 0x2000
		if offset >= uint32(len(m.ram)) {
			offset %= uint32(len(m.ram))
		}
		return m.ram[offset+uint32(addr-0xA000)]
	default:
		return 0xFF
	}
}

func (m *MBC5) Write(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case addr <= 0x2FFF:
		m.romBank = (m.romBank & 0x100) | uint16(value)
	case addr <= 0x3FFF:
		m.romBank = (m.romBank & 0xFF) | uint16(value&0x01)<<8
	case addr <= 0x5FFF:
		m.ramBank = value & 0x0F
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 {
			return
		}
		offset := uint32(m.ramBank) * 0x2000
		if offset >= uint32(len(m.ram)) {
			offset %= uint32(len(m.ram))
		}
		m.ram[offset+uint32(addr-0xA000)] = value
	}
}

func (m *MBC5) BatteryRAM() []uint8 {
	if !m.hasBattery {
		return nil
	}
	return m.ram
}

func (m *MBC5) LoadBatteryRAM(data []uint8) {
	copy(m.ram, data)
}
