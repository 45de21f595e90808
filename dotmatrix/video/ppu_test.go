package video

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
	"github.com/valerio/go-dotmatrix/dotmatrix/memory"
)

func TestPPU_LYCadence(t *testing.T) {
	mmu := memory.New()
	ppu := New(mmu)

	ppu.Tick(455)
	assert.Equal(t, uint8(0), mmu.Read(addr.LY))

	ppu.Tick(1)
	assert.Equal(t, uint8(1), mmu.Read(addr.LY))

	// partial ticks accumulate
	ppu.Tick(200)
	ppu.Tick(256)
	assert.Equal(t, uint8(2), mmu.Read(addr.LY))
}

func TestPPU_LYWrapsAfter154Lines(t *testing.T) {
	mmu := memory.New()
	ppu := New(mmu)

	ppu.Tick(456 * 154)

	assert.Equal(t, uint8(0), mmu.Read(addr.LY))
	assert.Equal(t, 0, ppu.Line())
}

func TestPPU_VBlankInterrupt(t *testing.T) {
	mmu := memory.New()
	ppu := New(mmu)
	mmu.Write(addr.IF, 0x00)

	ppu.Tick(456 * 143)
	assert.Zero(t, mmu.Read(addr.IF)&uint8(addr.VBlankInterrupt))

	ppu.Tick(456)
	assert.Equal(t, uint8(144), mmu.Read(addr.LY))
	assert.NotZero(t, mmu.Read(addr.IF)&uint8(addr.VBlankInterrupt))

	// one VBlank request per frame
	mmu.Write(addr.IF, 0x00)
	ppu.Tick(456 * 9)
	assert.Zero(t, mmu.Read(addr.IF)&uint8(addr.VBlankInterrupt))
}

func TestPPU_LYCCoincidence(t *testing.T) {
	mmu := memory.New()
	ppu := New(mmu)
	mmu.Write(addr.IF, 0x00)
	mmu.Write(addr.LYC, 5)
	mmu.Write(addr.STAT, 0x40) // arm the LYC interrupt

	ppu.Tick(456 * 5)

	assert.NotZero(t, mmu.Read(addr.STAT)&0x04, "coincidence bit set")
	assert.NotZero(t, mmu.Read(addr.IF)&uint8(addr.LCDSTATInterrupt))

	ppu.Tick(456)
	assert.Zero(t, mmu.Read(addr.STAT)&0x04, "coincidence bit cleared on the next line")
}
