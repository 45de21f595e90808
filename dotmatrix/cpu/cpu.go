package cpu

import (
	"fmt"

	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
	"github.com/valerio/go-dotmatrix/dotmatrix/memory"
)

// Flag is one of the 4 possible flags used in the flag register (low part of AF).
// The low nibble of F is always zero.
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// CPU holds the state of the SM83 core: registers, interrupt latches and the
// one-shot flags for the EI delay and the HALT bug.
type CPU struct {
	memory *memory.MMU

	a, f uint8
	b, c uint8
	d, e uint8
	h, l uint8
	sp   uint16
	pc   uint16

	// interruptsEnabled is the IME flag. EI sets it with a one instruction
	// delay (eiPending), DI clears both immediately.
	interruptsEnabled bool
	eiPending         bool

	halted bool
	// haltBug is armed when HALT is decoded with IME off while an interrupt
	// is already pending. The next instruction then fails to advance PC once.
	haltBug bool

	// currentOpcode is the last fetched opcode, CB-prefixed ones are stored
	// as 0xCBnn. Kept for diagnostics on fatal decode errors.
	currentOpcode uint16
}

// New creates a CPU with the DMG post-boot register image, as if the boot ROM
// had just handed over control at 0x0100.
func New(mmu *memory.MMU) *CPU {
	return &CPU{
		memory: mmu,
		a:      0x01,
		f:      0xB0,
		b:      0x00,
		c:      0x13,
		d:      0x00,
		e:      0xD8,
		h:      0x01,
		l:      0x4D,
		sp:     0xFFFE,
		pc:     0x0100,
	}
}

// Tick advances the CPU by one architectural step and returns the T-cycles it
// consumed. A step is one of: servicing an interrupt (20), staying halted (4),
// or executing a single instruction.
func (c *CPU) Tick() int {
	// EI takes effect one instruction late. The pending flag is consumed
	// before interrupts are sampled, so the instruction after EI can already
	// be interrupted.
	if c.eiPending {
		c.eiPending = false
		c.interruptsEnabled = true
	}

	if c.halted {
		if c.pendingInterrupts() != 0 {
			c.halted = false
		} else {
			return 4
		}
	}

	if c.interruptsEnabled && c.pendingInterrupts() != 0 {
		c.serviceInterrupt()
		return 20
	}

	pcBefore := c.pc
	bugged := c.haltBug
	c.haltBug = false

	cycles := c.executeNext()

	if bugged {
		// The fetch after a bugged HALT does not advance PC, the same byte
		// is executed again on the next step.
		c.pc = pcBefore
	}

	return cycles
}

// executeNext fetches, decodes and executes a single instruction.
func (c *CPU) executeNext() int {
	opcode := c.readImmediate()
	c.currentOpcode = uint16(opcode)
	return opcodeTable[opcode](c)
}

// pendingInterrupts returns the set of interrupts that are both requested and
// enabled. Only the low 5 bits of IF/IE are meaningful.
func (c *CPU) pendingInterrupts() uint8 {
	return c.memory.Read(addr.IF) & c.memory.Read(addr.IE) & 0x1F
}

// serviceInterrupt dispatches the highest priority pending interrupt:
// IME is dropped, the IF bit acknowledged, PC pushed and set to the vector.
func (c *CPU) serviceInterrupt() {
	pending := c.pendingInterrupts()

	var index uint8
	for index = 0; index < 5; index++ {
		if pending&(1<<index) != 0 {
			break
		}
	}

	c.interruptsEnabled = false
	c.memory.Write(addr.IF, c.memory.Read(addr.IF)&^(1<<index))

	c.pushStack(c.pc)
	c.pc = addr.Interrupt(1 << index).Vector()
}

// handleInterrupts services the highest priority pending interrupt if any,
// regardless of IME. Returns true when one was serviced. Tick does not use
// it: Tick checks IME itself and calls serviceInterrupt directly.
func (c *CPU) handleInterrupts() bool {
	if c.pendingInterrupts() == 0 {
		return false
	}
	c.serviceInterrupt()
	return true
}

// halt implements the HALT instruction, including the hardware bug: with IME
// off and an interrupt already pending the CPU does not halt, instead the
// next fetch fails to advance PC once.
func (c *CPU) halt() {
	if !c.interruptsEnabled && c.pendingInterrupts() != 0 {
		c.haltBug = true
		return
	}
	c.halted = true
}

// Snapshot returns a human readable register dump, used in fatal diagnostics.
func (c *CPU) Snapshot() string {
	return fmt.Sprintf("PC=0x%04X SP=0x%04X AF=0x%04X BC=0x%04X DE=0x%04X HL=0x%04X IME=%v",
		c.pc, c.sp, c.getAF(), c.getBC(), c.getDE(), c.getHL(), c.interruptsEnabled)
}

// PC returns the current program counter. Exposed for drivers and monitors.
func (c *CPU) PC() uint16 { return c.pc }

// SP returns the current stack pointer.
func (c *CPU) SP() uint16 { return c.sp }

// Registers returns the register pairs AF, BC, DE, HL.
func (c *CPU) Registers() (af, bc, de, hl uint16) {
	return c.getAF(), c.getBC(), c.getDE(), c.getHL()
}

// Halted reports whether the CPU is currently sleeping on a HALT.
func (c *CPU) Halted() bool { return c.halted }

// flag helpers

func (c *CPU) setFlag(flag Flag) {
	c.f |= uint8(flag)
}

func (c *CPU) resetFlag(flag Flag) {
	c.f &= ^uint8(flag)
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.f&uint8(flag) != 0
}

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if condition {
		c.setFlag(flag)
	} else {
		c.resetFlag(flag)
	}
}

func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}
	return 0
}

// register pairs

func (c *CPU) getAF() uint16 { return uint16(c.a)<<8 | uint16(c.f) }
func (c *CPU) getBC() uint16 { return uint16(c.b)<<8 | uint16(c.c) }
func (c *CPU) getDE() uint16 { return uint16(c.d)<<8 | uint16(c.e) }
func (c *CPU) getHL() uint16 { return uint16(c.h)<<8 | uint16(c.l) }

// setAF masks the low nibble of F, which does not exist in hardware.
func (c *CPU) setAF(value uint16) {
	c.a = uint8(value >> 8)
	c.f = uint8(value) & 0xF0
}

func (c *CPU) setBC(value uint16) {
	c.b = uint8(value >> 8)
	c.c = uint8(value)
}

func (c *CPU) setDE(value uint16) {
	c.d = uint8(value >> 8)
	c.e = uint8(value)
}

func (c *CPU) setHL(value uint16) {
	c.h = uint8(value >> 8)
	c.l = uint8(value)
}

// immediate fetches

func (c *CPU) readImmediate() uint8 {
	value := c.memory.Read(c.pc)
	c.pc++
	return value
}

func (c *CPU) readSignedImmediate() int8 {
	return int8(c.readImmediate())
}

func (c *CPU) readImmediateWord() uint16 {
	low := c.readImmediate()
	high := c.readImmediate()
	return uint16(high)<<8 | uint16(low)
}

// stack, big-endian push: high byte lands at SP-1, low byte at SP-2.

func (c *CPU) pushStack(value uint16) {
	c.sp--
	c.memory.Write(c.sp, uint8(value>>8))
	c.sp--
	c.memory.Write(c.sp, uint8(value))
}

func (c *CPU) popStack() uint16 {
	low := c.memory.Read(c.sp)
	c.sp++
	high := c.memory.Read(c.sp)
	c.sp++
	return uint16(high)<<8 | uint16(low)
}
