package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
)

func TestTimer_DIV(t *testing.T) {
	timer := Timer{}

	t.Run("DIV is the counter's upper byte", func(t *testing.T) {
		timer.Tick(255)
		assert.Equal(t, uint8(0x00), timer.Read(addr.DIV))

		timer.Tick(1)
		assert.Equal(t, uint8(0x01), timer.Read(addr.DIV))
	})

	t.Run("the counter wraps without panicking", func(t *testing.T) {
		timer.SetSeed(0xFFFF)
		timer.Tick(2)
		assert.Equal(t, uint8(0x00), timer.Read(addr.DIV))
	})

	t.Run("writing resets the counter", func(t *testing.T) {
		timer.SetSeed(0x1234)
		timer.Write(addr.DIV, 0x99)
		assert.Equal(t, uint8(0x00), timer.Read(addr.DIV))
		assert.Equal(t, uint16(0x0000), timer.DivCounter())
	})
}

func TestTimer_TIMAPeriods(t *testing.T) {
	testCases := []struct {
		tac    uint8
		period int
	}{
		{tac: 0x04, period: 1024},
		{tac: 0x05, period: 16},
		{tac: 0x06, period: 64},
		{tac: 0x07, period: 256},
	}

	for _, tC := range testCases {
		timer := Timer{}
		timer.Write(addr.TAC, tC.tac)

		timer.Tick(tC.period - 1)
		assert.Equal(t, uint8(0x00), timer.Read(addr.TIMA), "TAC %02X", tC.tac)

		timer.Tick(1)
		assert.Equal(t, uint8(0x01), timer.Read(addr.TIMA), "TAC %02X", tC.tac)
	}
}

func TestTimer_DisabledDoesNotCount(t *testing.T) {
	timer := Timer{}
	timer.Write(addr.TAC, 0x01) // 16 cycle select, but disabled

	timer.Tick(1024)

	assert.Equal(t, uint8(0x00), timer.Read(addr.TIMA))
}

func TestTimer_OverflowReloadsAndInterrupts(t *testing.T) {
	fired := 0
	timer := Timer{TimerInterruptHandler: func() { fired++ }}
	timer.Write(addr.TAC, 0x05) // enabled, 16 cycles per tick
	timer.Write(addr.TMA, 0x42)
	timer.Write(addr.TIMA, 0xFF)

	timer.Tick(16)

	assert.Equal(t, uint8(0x42), timer.Read(addr.TIMA))
	assert.Equal(t, 1, fired)

	// next tick counts up from TMA, no interrupt
	timer.Tick(16)
	assert.Equal(t, uint8(0x43), timer.Read(addr.TIMA))
	assert.Equal(t, 1, fired)
}

func TestTimer_MultipleTicksInOneStep(t *testing.T) {
	timer := Timer{}
	timer.Write(addr.TAC, 0x05)

	// 64 cycles at a 16 cycle period is 4 increments in one call
	timer.Tick(64)

	assert.Equal(t, uint8(0x04), timer.Read(addr.TIMA))
}
