package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
	"github.com/valerio/go-dotmatrix/dotmatrix/audio"
	"github.com/valerio/go-dotmatrix/dotmatrix/bit"
	"github.com/valerio/go-dotmatrix/dotmatrix/serial"
)

type memRegion uint8

const (
	regionROM memRegion = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionIO
)

// SerialPort is the minimal interface for a serial device connected to SB/SC.
// Implementations MUST only accept reads/writes to addr.SB and addr.SC.
type SerialPort interface {
	Write(address uint16, value uint8)
	Read(address uint16) uint8
	Tick(cycles int)
	Reset()
}

// MMU is the memory bus: it decodes the 16 bit address space and routes
// mapped I/O to the timer, serial port, APU, joypad and PPU registers.
type MMU struct {
	cart      *Cartridge
	mbc       MBC
	memory    []uint8
	regionMap [256]memRegion

	// APU is exposed so the driver can pull audio samples and tick it with
	// the divider counter.
	APU *audio.APU

	joypad *Joypad
	serial SerialPort
	timer  Timer
}

// New creates a memory unit with no cartridge loaded, equivalent to turning
// on a Gameboy with the slot empty.
func New() *MMU {
	mmu := &MMU{
		memory: make([]uint8, 0x10000),
		cart:   NewCartridge(),
		APU:    audio.New(),
	}
	mmu.joypad = NewJoypad(func() { mmu.RequestInterrupt(addr.JoypadInterrupt) })
	mmu.serial = serial.NewLogSink(func() { mmu.RequestInterrupt(addr.SerialInterrupt) })
	mmu.timer.TimerInterruptHandler = func() { mmu.RequestInterrupt(addr.TimerInterrupt) }
	initRegionMap(mmu)
	mmu.initPostBoot()
	return mmu
}

// NewWithCartridge creates a new memory unit with the provided cartridge
// loaded and the matching MBC selected from its header.
func NewWithCartridge(cart *Cartridge) *MMU {
	mmu := New()
	mmu.cart = cart

	switch cart.mbcType {
	case NoMBCType:
		mmu.mbc = NewNoMBC(cart.data)
	case MBC1Type:
		mmu.mbc = NewMBC1(cart.data, cart.hasBattery, cart.ramBankCount)
	case MBC2Type:
		mmu.mbc = NewMBC2(cart.data, cart.hasBattery)
	case MBC3Type:
		mmu.mbc = NewMBC3(cart.data, cart.hasBattery, cart.ramBankCount)
	case MBC5Type:
		mmu.mbc = NewMBC5(cart.data, cart.hasBattery, cart.ramBankCount)
	default:
		panic(fmt.Sprintf("unsupported MBC type: %d", cart.mbcType))
	}

	return mmu
}

// initPostBoot seeds the I/O registers with the values the DMG boot ROM
// leaves behind when it hands over control.
func (m *MMU) initPostBoot() {
	m.timer.SetSeed(0xAB00)
	m.timer.Write(addr.TAC, 0xF8)

	m.memory[addr.IF] = 0xE1 & 0x1F
	m.memory[addr.LCDC] = 0x91
	m.memory[addr.STAT] = 0x85
	m.memory[addr.LY] = 0x00
	m.memory[addr.BGP] = 0xFC
	m.memory[addr.DMA] = 0xFF
}

func initRegionMap(m *MMU) {
	// ROM: 0x0000-0x7FFF
	for i := 0x00; i <= 0x7F; i++ {
		m.regionMap[i] = regionROM
	}
	// VRAM: 0x8000-0x9FFF
	for i := 0x80; i <= 0x9F; i++ {
		m.regionMap[i] = regionVRAM
	}
	// External RAM: 0xA000-0xBFFF
	for i := 0xA0; i <= 0xBF; i++ {
		m.regionMap[i] = regionExtRAM
	}
	// Work RAM: 0xC000-0xDFFF
	for i := 0xC0; i <= 0xDF; i++ {
		m.regionMap[i] = regionWRAM
	}
	// Echo RAM: 0xE000-0xFDFF
	for i := 0xE0; i <= 0xFD; i++ {
		m.regionMap[i] = regionEcho
	}
	// OAM + unusable area: 0xFE00-0xFEFF
	m.regionMap[0xFE] = regionOAM
	// IO + HRAM + IE: 0xFF00-0xFFFF
	m.regionMap[0xFF] = regionIO
}

// Tick advances the memory mapped peripherals that need a clock: the timer
// and the serial port. The APU is ticked separately by the driver with the
// divider counter, so its frame sequencer stays phased with DIV.
func (m *MMU) Tick(cycles int) {
	m.timer.Tick(cycles)
	if m.serial != nil {
		m.serial.Tick(cycles)
	}
}

// DivCounter exposes the timer's internal divider counter.
func (m *MMU) DivCounter() uint16 {
	return m.timer.DivCounter()
}

// SetTimerSeed initializes the internal timer divider seed.
func (m *MMU) SetTimerSeed(seed uint16) {
	m.timer.SetSeed(seed)
}

// RequestInterrupt sets the interrupt flag (IF register) of the chosen interrupt to 1.
// Requests are level latched: the bit stays set until serviced or cleared by
// an explicit write to IF.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	m.memory[addr.IF] = (m.memory[addr.IF] | uint8(interrupt)) & 0x1F
}

// SetLY updates the LY register. Only the PPU may move the scanline counter,
// CPU writes to 0xFF44 are discarded by the decoder.
func (m *MMU) SetLY(value uint8) {
	m.memory[addr.LY] = value
}

// Joypad returns the joypad so hosts can feed key events into the matrix.
func (m *MMU) Joypad() *Joypad {
	return m.joypad
}

// SetSerialPort swaps the serial device, used by hosts that want something
// other than the logging sink.
func (m *MMU) SetSerialPort(port SerialPort) {
	m.serial = port
}

// SerialPort returns the attached serial device.
func (m *MMU) SerialPort() SerialPort {
	return m.serial
}

// BatteryRAM returns the external RAM image when the cartridge is battery
// backed, nil otherwise.
func (m *MMU) BatteryRAM() []uint8 {
	if backed, ok := m.mbc.(BatteryBacked); ok {
		return backed.BatteryRAM()
	}
	return nil
}

// LoadBatteryRAM restores a previously saved external RAM image.
func (m *MMU) LoadBatteryRAM(data []uint8) {
	if backed, ok := m.mbc.(BatteryBacked); ok {
		backed.LoadBatteryRAM(data)
	}
}

func (m *MMU) ReadBit(index uint8, address uint16) bool {
	return bit.IsSet(index, m.Read(address))
}

func (m *MMU) Read(address uint16) uint8 {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		if m.mbc == nil {
			slog.Warn("Reading from ROM/external RAM with no cartridge", "addr", fmt.Sprintf("0x%04X", address))
			return 0xFF
		}
		return m.mbc.Read(address)
	case regionVRAM, regionWRAM:
		return m.memory[address]
	case regionEcho:
		return m.memory[address-0x2000]
	case regionOAM:
		if address <= addr.OAMEnd {
			return m.memory[address]
		}
		// 0xFEA0-0xFEFF is not usable and reads as 0xFF.
		return 0xFF
	default:
		return m.readIO(address)
	}
}

func (m *MMU) Write(address uint16, value uint8) {
	switch m.regionMap[address>>8] {
	case regionROM, regionExtRAM:
		if m.mbc == nil {
			slog.Warn("Writing to ROM/external RAM with no cartridge",
				"addr", fmt.Sprintf("0x%04X", address), "value", fmt.Sprintf("0x%02X", value))
			return
		}
		m.mbc.Write(address, value)
	case regionVRAM, regionWRAM:
		m.memory[address] = value
	case regionEcho:
		m.memory[address-0x2000] = value
	case regionOAM:
		if address <= addr.OAMEnd {
			m.memory[address] = value
		}
		// writes to 0xFEA0-0xFEFF are discarded
	default:
		m.writeIO(address, value)
	}
}

func (m *MMU) readIO(address uint16) uint8 {
	switch {
	case address == addr.P1:
		return m.joypad.Read()
	case address == addr.SB || address == addr.SC:
		return m.serial.Read(address)
	case address >= addr.DIV && address <= addr.TAC:
		return m.timer.Read(address)
	case address == addr.IF:
		// The upper 3 bits are unused and always read as 1.
		return m.memory[address] | 0xE0
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return m.APU.ReadRegister(address)
	case address == addr.IE:
		return m.memory[address]
	default:
		// PPU registers, HRAM and unmapped cells all read back directly.
		return m.memory[address]
	}
}

func (m *MMU) writeIO(address uint16, value uint8) {
	switch {
	case address == addr.P1:
		m.joypad.Write(value)
	case address == addr.SB || address == addr.SC:
		m.serial.Write(address, value)
	case address >= addr.DIV && address <= addr.TAC:
		m.timer.Write(address, value)
	case address == addr.IF:
		m.memory[address] = value & 0x1F
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		m.APU.WriteRegister(address, value)
	case address == addr.LY:
		// LY is read-only for the CPU.
	case address == addr.DMA:
		m.memory[address] = value
		m.doDMATransfer(value)
	case address == addr.IE:
		m.memory[address] = value & 0x1F
	default:
		m.memory[address] = value
	}
}

// doDMATransfer copies 160 bytes from page (value << 8) into OAM. The source
// follows the regular read decode up to 0xDFFF, the echo region folds into
// WRAM, and anything above that substitutes 0xFF.
func (m *MMU) doDMATransfer(value uint8) {
	source := uint16(value) << 8

	for i := uint16(0); i < 160; i++ {
		m.memory[addr.OAMStart+i] = m.readDMASource(source + i)
	}
}

func (m *MMU) readDMASource(address uint16) uint8 {
	switch {
	case address <= 0xDFFF:
		return m.Read(address)
	case address <= 0xFDFF:
		return m.Read(address - 0x2000)
	default:
		return 0xFF
	}
}
