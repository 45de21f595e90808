package dotmatrix

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
	"github.com/valerio/go-dotmatrix/dotmatrix/memory"
)

// newNOPEmulator builds an emulator running a ROM-only cartridge filled with
// NOPs, which is enough to exercise the step loop end to end.
func newNOPEmulator() *Emulator {
	rom := make([]uint8, 0x8000)
	cart := memory.NewCartridgeWithData(rom)
	return newWithMMU(memory.NewWithCartridge(cart))
}

func TestEmulator_StepDrivesPeripherals(t *testing.T) {
	emu := newNOPEmulator()
	emu.MMU().SetTimerSeed(0)

	divBefore := emu.MMU().Read(addr.DIV)

	// 256 T-cycles of NOPs move DIV by one
	for i := 0; i < 64; i++ {
		cycles := emu.Step()
		assert.Equal(t, 4, cycles)
	}

	assert.Equal(t, uint64(256), emu.TotalCycles())
	assert.Equal(t, divBefore+1, emu.MMU().Read(addr.DIV))
}

func TestEmulator_ScanlinesAdvance(t *testing.T) {
	emu := newNOPEmulator()

	for emu.TotalCycles() < 456 {
		emu.Step()
	}

	assert.Equal(t, uint8(1), emu.MMU().Read(addr.LY))
}

func TestEmulator_FrameRaisesVBlank(t *testing.T) {
	emu := newNOPEmulator()
	emu.MMU().Write(addr.IF, 0x00)

	emu.RunFrame()

	assert.NotZero(t, emu.MMU().Read(addr.IF)&uint8(addr.VBlankInterrupt))
	assert.GreaterOrEqual(t, emu.TotalCycles(), uint64(CyclesPerFrame))
}

func TestEmulator_RunCyclesHonorsBudget(t *testing.T) {
	emu := newNOPEmulator()

	emu.RunCycles(1000)

	assert.GreaterOrEqual(t, emu.TotalCycles(), uint64(1000))
	assert.Less(t, emu.TotalCycles(), uint64(1100))
}

func TestEmulator_JoypadPassthrough(t *testing.T) {
	emu := newNOPEmulator()
	emu.MMU().Write(addr.P1, 0x10) // select the button column

	emu.PressKey(memory.JoypadA)
	assert.Zero(t, emu.MMU().Read(addr.P1)&0x01)

	emu.ReleaseKey(memory.JoypadA)
	assert.NotZero(t, emu.MMU().Read(addr.P1)&0x01)
}

func TestEmulator_SamplesDrain(t *testing.T) {
	emu := newNOPEmulator()

	emu.RunFrame()

	samples := emu.Samples(128)
	assert.Len(t, samples, 256)
}

func TestEmulator_SerialTail(t *testing.T) {
	emu := newNOPEmulator()
	mmu := emu.MMU()

	for _, b := range []byte("ok\n") {
		mmu.Write(addr.SB, uint8(b))
		mmu.Write(addr.SC, 0x81)
	}

	assert.Equal(t, []string{"ok"}, emu.SerialTail())
}
