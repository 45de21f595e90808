package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
)

func TestMMU_EchoRAM(t *testing.T) {
	mmu := New()

	for address := uint16(0xE000); address <= 0xFDFF; address += 0x101 {
		mmu.Write(address-0x2000, 0x5A)
		assert.Equal(t, uint8(0x5A), mmu.Read(address), "echo read should alias WRAM")

		mmu.Write(address, 0xA5)
		assert.Equal(t, uint8(0xA5), mmu.Read(address-0x2000), "echo write should land in WRAM")
	}
}

func TestMMU_UnusableRegion(t *testing.T) {
	mmu := New()

	for address := uint16(0xFEA0); address <= 0xFEFF; address++ {
		mmu.Write(address, 0x42)
		assert.Equal(t, uint8(0xFF), mmu.Read(address))
	}
}

func TestMMU_OAM(t *testing.T) {
	mmu := New()

	mmu.Write(0xFE00, 0x11)
	mmu.Write(0xFE9F, 0x22)

	assert.Equal(t, uint8(0x11), mmu.Read(0xFE00))
	assert.Equal(t, uint8(0x22), mmu.Read(0xFE9F))
}

func TestMMU_HRAM(t *testing.T) {
	mmu := New()

	mmu.Write(0xFF80, 0x33)
	mmu.Write(0xFFFE, 0x44)

	assert.Equal(t, uint8(0x33), mmu.Read(0xFF80))
	assert.Equal(t, uint8(0x44), mmu.Read(0xFFFE))
}

func TestMMU_InterruptRegisters(t *testing.T) {
	mmu := New()

	t.Run("IF upper bits read as 1", func(t *testing.T) {
		mmu.Write(addr.IF, 0x00)
		assert.Equal(t, uint8(0xE0), mmu.Read(addr.IF))

		mmu.Write(addr.IF, 0xFF)
		assert.Equal(t, uint8(0xFF), mmu.Read(addr.IF))
		assert.Equal(t, uint8(0x1F), mmu.Read(addr.IF)&0x1F)
	})

	t.Run("IE is clipped to 5 bits", func(t *testing.T) {
		mmu.Write(addr.IE, 0xFF)
		assert.Equal(t, uint8(0x1F), mmu.Read(addr.IE))
	})

	t.Run("requests are level latched in IF", func(t *testing.T) {
		mmu.Write(addr.IF, 0x00)
		mmu.RequestInterrupt(addr.TimerInterrupt)
		mmu.RequestInterrupt(addr.JoypadInterrupt)

		assert.Equal(t, uint8(0x14), mmu.Read(addr.IF)&0x1F)
	})
}

func TestMMU_DMATransfer(t *testing.T) {
	t.Run("copies a WRAM page into OAM", func(t *testing.T) {
		mmu := New()
		for i := uint16(0); i < 160; i++ {
			mmu.Write(0xC000+i, uint8(i))
		}

		mmu.Write(addr.DMA, 0xC0)

		for i := uint16(0); i < 160; i++ {
			assert.Equal(t, uint8(i), mmu.Read(0xFE00+i))
		}
	})

	t.Run("echo pages resolve to WRAM", func(t *testing.T) {
		mmu := New()
		for i := uint16(0); i < 160; i++ {
			mmu.Write(0xC000+i, uint8(0xA0+i%16))
		}

		mmu.Write(addr.DMA, 0xE0)

		for i := uint16(0); i < 160; i++ {
			assert.Equal(t, mmu.Read(0xC000+i), mmu.Read(0xFE00+i))
		}
	})

	t.Run("out of range pages read as 0xFF", func(t *testing.T) {
		mmu := New()

		mmu.Write(addr.DMA, 0xFE)

		for i := uint16(0); i < 160; i++ {
			assert.Equal(t, uint8(0xFF), mmu.Read(0xFE00+i))
		}
	})

	t.Run("the written value reads back", func(t *testing.T) {
		mmu := New()
		mmu.Write(addr.DMA, 0xC0)
		assert.Equal(t, uint8(0xC0), mmu.Read(addr.DMA))
	})
}

func TestMMU_LYReadOnly(t *testing.T) {
	mmu := New()

	mmu.SetLY(0x42)
	mmu.Write(addr.LY, 0x99)

	assert.Equal(t, uint8(0x42), mmu.Read(addr.LY))
}

func TestMMU_TimerRouting(t *testing.T) {
	mmu := New()

	mmu.Write(addr.TMA, 0x42)
	mmu.Write(addr.TAC, 0x05)

	assert.Equal(t, uint8(0x42), mmu.Read(addr.TMA))
	assert.Equal(t, uint8(0x05), mmu.Read(addr.TAC))

	mmu.Write(addr.DIV, 0x99)
	assert.Equal(t, uint8(0x00), mmu.Read(addr.DIV), "DIV write resets the counter")
}

func TestMMU_SerialDebugProtocol(t *testing.T) {
	mmu := New()
	mmu.Write(addr.IF, 0x00)

	for _, b := range []uint8{'o', 'k', '\n'} {
		mmu.Write(addr.SB, b)
		mmu.Write(addr.SC, 0x81)
	}

	// transfer auto-completes: SC drops to 0x01 and the interrupt is raised
	assert.Equal(t, uint8(0x01), mmu.Read(addr.SC))
	assert.NotZero(t, mmu.Read(addr.IF)&uint8(addr.SerialInterrupt))
}

func TestMMU_JoypadRouting(t *testing.T) {
	mmu := New()

	// select the d-pad column (bit 4 low) and press Right
	mmu.Write(addr.P1, 0x20)
	mmu.Joypad().Press(JoypadRight)

	value := mmu.Read(addr.P1)
	assert.Equal(t, uint8(0xC0), value&0xC0, "upper bits always read 1")
	assert.Equal(t, uint8(0), value&0x01, "pressed key reads 0")

	// pressing a key requests the joypad interrupt
	assert.NotZero(t, mmu.Read(addr.IF)&uint8(addr.JoypadInterrupt))

	mmu.Joypad().Release(JoypadRight)
	assert.Equal(t, uint8(0x01), mmu.Read(addr.P1)&0x01)
}

func TestMMU_APURouting(t *testing.T) {
	mmu := New()

	mmu.Write(addr.NR50, 0x44)
	assert.Equal(t, uint8(0x44), mmu.Read(addr.NR50))

	// NR13 is write-only
	mmu.Write(addr.NR13, 0x12)
	assert.Equal(t, uint8(0xFF), mmu.Read(addr.NR13))
}

func TestMMU_NoCartridge(t *testing.T) {
	mmu := New()

	assert.Equal(t, uint8(0xFF), mmu.Read(0x0100))
	// write must not panic
	mmu.Write(0x2000, 0x01)
}

func TestMMU_PostBootRegisters(t *testing.T) {
	mmu := New()

	assert.Equal(t, uint8(0xE1), mmu.Read(addr.IF))
	assert.Equal(t, uint8(0xAB), mmu.Read(addr.DIV))
	assert.Equal(t, uint8(0xF8), mmu.Read(addr.TAC))
	assert.Equal(t, uint8(0x91), mmu.Read(addr.LCDC))
	assert.Equal(t, uint8(0x85), mmu.Read(addr.STAT))
	assert.Equal(t, uint8(0xFC), mmu.Read(addr.BGP))
	assert.Equal(t, uint8(0xFF), mmu.Read(addr.DMA))
	assert.Equal(t, uint8(0xF1), mmu.Read(addr.NR52))
	assert.Equal(t, uint8(0x77), mmu.Read(addr.NR50))
	assert.Equal(t, uint8(0xF3), mmu.Read(addr.NR51))
}
