package dotmatrix

import (
	"log/slog"
	"os"

	"github.com/valerio/go-dotmatrix/dotmatrix/cpu"
	"github.com/valerio/go-dotmatrix/dotmatrix/memory"
	"github.com/valerio/go-dotmatrix/dotmatrix/serial"
	"github.com/valerio/go-dotmatrix/dotmatrix/video"
)

// CyclesPerFrame is one full LCD refresh: 154 lines of 456 T-cycles.
const CyclesPerFrame = 70224

// Emulator is the root struct and entry point for running the emulation.
// It owns the step loop: one CPU step, then the produced T-cycles are fed to
// the timer and serial port (through the memory unit), the PPU, and finally
// the APU together with the divider counter.
type Emulator struct {
	cpu *cpu.CPU
	ppu *video.PPU
	mmu *memory.MMU

	totalCycles uint64
}

// New creates a new emulator instance with no cartridge loaded.
func New() *Emulator {
	return newWithMMU(memory.New())
}

// NewWithFile creates a new emulator instance and loads the ROM file
// specified into it.
func NewWithFile(path string) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded ROM data", "size", len(data))

	cart := memory.NewCartridgeWithData(data)
	slog.Info("Cartridge", "title", cart.Title())

	return newWithMMU(memory.NewWithCartridge(cart)), nil
}

func newWithMMU(mmu *memory.MMU) *Emulator {
	return &Emulator{
		cpu: cpu.New(mmu),
		ppu: video.New(mmu),
		mmu: mmu,
	}
}

// Step advances the whole machine by one CPU step and returns the T-cycles
// it took. Peripheral side effects (interrupt requests included) are visible
// to the CPU's next step.
func (e *Emulator) Step() int {
	cycles := e.cpu.Tick()

	e.mmu.Tick(cycles)
	e.ppu.Tick(cycles)
	e.mmu.APU.Tick(cycles, e.mmu.DivCounter())

	e.totalCycles += uint64(cycles)
	return cycles
}

// RunFrame steps the machine for one LCD refresh worth of cycles.
func (e *Emulator) RunFrame() {
	target := e.totalCycles + CyclesPerFrame
	for e.totalCycles < target {
		e.Step()
	}
}

// RunCycles steps the machine until at least the given cycle budget has
// elapsed. Used by the headless mode.
func (e *Emulator) RunCycles(budget uint64) {
	target := e.totalCycles + budget
	for e.totalCycles < target {
		e.Step()
	}
}

// TotalCycles returns the number of T-cycles elapsed since power on.
func (e *Emulator) TotalCycles() uint64 {
	return e.totalCycles
}

// CPU exposes the processor for debug surfaces.
func (e *Emulator) CPU() *cpu.CPU {
	return e.cpu
}

// MMU exposes the memory unit for debug surfaces.
func (e *Emulator) MMU() *memory.MMU {
	return e.mmu
}

// PPU exposes the scanline counter for debug surfaces.
func (e *Emulator) PPU() *video.PPU {
	return e.ppu
}

// PressKey feeds a key press into the joypad matrix.
func (e *Emulator) PressKey(key memory.JoypadKey) {
	e.mmu.Joypad().Press(key)
}

// ReleaseKey feeds a key release into the joypad matrix.
func (e *Emulator) ReleaseKey(key memory.JoypadKey) {
	e.mmu.Joypad().Release(key)
}

// Samples drains up to count stereo frames from the APU, interleaved.
func (e *Emulator) Samples(count int) []int16 {
	return e.mmu.APU.GetSamples(count)
}

// SerialTail returns the most recent serial debug lines when the default
// logging sink is attached, nil otherwise.
func (e *Emulator) SerialTail() []string {
	if sink, ok := e.mmu.SerialPort().(*serial.LogSink); ok {
		return sink.Tail()
	}
	return nil
}

// SaveBatteryRAM writes the battery backed RAM image to the given path.
// It is a no-op for cartridges without a battery.
func (e *Emulator) SaveBatteryRAM(path string) error {
	data := e.mmu.BatteryRAM()
	if len(data) == 0 {
		return nil
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadBatteryRAM restores a battery RAM image if the file exists.
func (e *Emulator) LoadBatteryRAM(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	e.mmu.LoadBatteryRAM(data)
	return nil
}
