package memory

import (
	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
	"github.com/valerio/go-dotmatrix/dotmatrix/bit"
)

// timaPeriods holds the cycles per TIMA tick for each TAC clock select.
var timaPeriods = [4]int{1024, 16, 64, 256}

// Timer encapsulates the DIV/TIMA/TMA/TAC behavior. DIV is the upper byte of
// a free running 16 bit counter; TIMA counts at the TAC-selected rate and
// requests a Timer interrupt when it overflows.
type Timer struct {
	divCounter  uint16
	timaCounter int

	tima uint8
	tma  uint8
	tac  uint8

	// TimerInterruptHandler is called on TIMA overflow, wire it to request
	// the Timer interrupt.
	TimerInterruptHandler func()
}

// SetSeed initializes the internal divider counter, used to reproduce the
// post-boot DIV phase.
func (t *Timer) SetSeed(seed uint16) {
	t.divCounter = seed
	t.timaCounter = 0
}

// DivCounter returns the full 16 bit divider counter. The APU derives its
// frame sequencer clock from bit 12 of this value.
func (t *Timer) DivCounter() uint16 {
	return t.divCounter
}

// Tick advances the timer by the given number of T-cycles.
func (t *Timer) Tick(cycles int) {
	t.divCounter += uint16(cycles)

	if t.tac&0x04 == 0 {
		return
	}

	period := timaPeriods[t.tac&0x03]
	t.timaCounter += cycles

	for t.timaCounter >= period {
		t.timaCounter -= period

		if t.tima == 0xFF {
			t.tima = t.tma
			if t.TimerInterruptHandler != nil {
				t.TimerInterruptHandler()
			}
		} else {
			t.tima++
		}
	}
}

func (t *Timer) Read(address uint16) uint8 {
	switch address {
	case addr.DIV:
		return bit.High(t.divCounter)
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac
	default:
		return 0xFF
	}
}

func (t *Timer) Write(address uint16, value uint8) {
	switch address {
	case addr.DIV:
		// Writing any value resets the divider and the TIMA accumulator.
		t.divCounter = 0
		t.timaCounter = 0
	case addr.TIMA:
		t.tima = value
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		t.tac = value
	}
}
