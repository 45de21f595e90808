package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-dotmatrix/dotmatrix/memory"
)

func newTestCPU() *CPU {
	return New(memory.New())
}

func TestCPU_stack(t *testing.T) {
	cpu := newTestCPU()

	cpu.sp = 0xDFFD
	cpu.pushStack(0x1234)

	assert.Equal(t, uint16(0xDFFB), cpu.sp)
	assert.Equal(t, uint8(0x34), cpu.memory.Read(0xDFFB))
	assert.Equal(t, uint8(0x12), cpu.memory.Read(0xDFFC))

	popped := cpu.popStack()

	assert.Equal(t, uint16(0x1234), popped)
	assert.Equal(t, uint16(0xDFFD), cpu.sp)
}

func TestCPU_inc(t *testing.T) {
	cpu := newTestCPU()

	testCases := []struct {
		desc  string
		arg   uint8
		want  uint8
		flags Flag
	}{
		{desc: "increases", arg: 0x0A, want: 0x0B},
		{desc: "sets zero flag", arg: 0xFF, want: 0, flags: zeroFlag | halfCarryFlag},
		{desc: "sets half carry flag", arg: 0x0F, want: 0x10, flags: halfCarryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu.f = 0
			cpu.a = tC.arg
			cpu.inc(&cpu.a)
			assert.Equal(t, tC.want, cpu.a)
			assert.Equal(t, uint8(tC.flags), cpu.f)
		})
	}
}

func TestCPU_inc_preserves_carry(t *testing.T) {
	cpu := newTestCPU()

	cpu.f = uint8(carryFlag)
	cpu.a = 0x01
	cpu.inc(&cpu.a)

	assert.Equal(t, uint8(0x02), cpu.a)
	assert.True(t, cpu.isSetFlag(carryFlag))
}

func TestCPU_dec(t *testing.T) {
	cpu := newTestCPU()

	testCases := []struct {
		desc  string
		arg   uint8
		want  uint8
		flags Flag
	}{
		{desc: "decreases", arg: 0x0A, want: 0x09, flags: subFlag},
		{desc: "sets half carry flag", arg: 0, want: 0xFF, flags: subFlag | halfCarryFlag},
		{desc: "sets zero flag", arg: 0x01, want: 0, flags: subFlag | zeroFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu.f = 0
			cpu.a = tC.arg
			cpu.dec(&cpu.a)
			assert.Equal(t, tC.want, cpu.a)
			assert.Equal(t, uint8(tC.flags), cpu.f)
		})
	}
}

func TestCPU_addToA(t *testing.T) {
	cpu := newTestCPU()

	testCases := []struct {
		desc  string
		a     uint8
		value uint8
		carry uint8
		want  uint8
		flags Flag
	}{
		{desc: "simple add", a: 0x01, value: 0x02, want: 0x03},
		{desc: "wraps to zero with carries", a: 0x3A, value: 0xC6, want: 0x00, flags: zeroFlag | halfCarryFlag | carryFlag},
		{desc: "half carry only", a: 0x0F, value: 0x01, want: 0x10, flags: halfCarryFlag},
		{desc: "carry in counts", a: 0xFF, value: 0x00, carry: 1, want: 0x00, flags: zeroFlag | halfCarryFlag | carryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu.f = 0
			cpu.a = tC.a
			cpu.addToA(tC.value, tC.carry)
			assert.Equal(t, tC.want, cpu.a)
			assert.Equal(t, uint8(tC.flags), cpu.f)
		})
	}
}

func TestCPU_subFromA(t *testing.T) {
	cpu := newTestCPU()

	testCases := []struct {
		desc  string
		a     uint8
		value uint8
		carry uint8
		want  uint8
		flags Flag
	}{
		{desc: "simple sub", a: 0x05, value: 0x02, want: 0x03, flags: subFlag},
		{desc: "to zero", a: 0x42, value: 0x42, want: 0x00, flags: zeroFlag | subFlag},
		{desc: "borrow", a: 0x00, value: 0x01, want: 0xFF, flags: subFlag | halfCarryFlag | carryFlag},
		{desc: "borrow in counts", a: 0x10, value: 0x0F, carry: 1, want: 0x00, flags: zeroFlag | subFlag | halfCarryFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu.f = 0
			cpu.a = tC.a
			cpu.subFromA(tC.value, tC.carry)
			assert.Equal(t, tC.want, cpu.a)
			assert.Equal(t, uint8(tC.flags), cpu.f)
		})
	}
}

func TestCPU_logicOps(t *testing.T) {
	cpu := newTestCPU()

	t.Run("and sets half carry", func(t *testing.T) {
		cpu.f = 0xF0
		cpu.a = 0x0F
		cpu.and(0xF0)
		assert.Equal(t, uint8(0x00), cpu.a)
		assert.Equal(t, uint8(zeroFlag|halfCarryFlag), cpu.f)
	})

	t.Run("or clears other flags", func(t *testing.T) {
		cpu.f = 0xF0
		cpu.a = 0x0F
		cpu.or(0xF0)
		assert.Equal(t, uint8(0xFF), cpu.a)
		assert.Equal(t, uint8(0), cpu.f)
	})

	t.Run("xor to zero", func(t *testing.T) {
		cpu.f = 0
		cpu.a = 0xAA
		cpu.xor(0xAA)
		assert.Equal(t, uint8(0x00), cpu.a)
		assert.Equal(t, uint8(zeroFlag), cpu.f)
	})

	t.Run("cp leaves A untouched", func(t *testing.T) {
		cpu.f = 0
		cpu.a = 0x10
		cpu.compareToA(0x20)
		assert.Equal(t, uint8(0x10), cpu.a)
		assert.True(t, cpu.isSetFlag(carryFlag))
		assert.True(t, cpu.isSetFlag(subFlag))
	})
}

func TestCPU_addToHL(t *testing.T) {
	cpu := newTestCPU()

	t.Run("preserves zero flag", func(t *testing.T) {
		cpu.f = uint8(zeroFlag)
		cpu.setHL(0x1000)
		cpu.addToHL(0x0234)
		assert.Equal(t, uint16(0x1234), cpu.getHL())
		assert.True(t, cpu.isSetFlag(zeroFlag))
	})

	t.Run("half carry from bit 11", func(t *testing.T) {
		cpu.f = 0
		cpu.setHL(0x0FFF)
		cpu.addToHL(0x0001)
		assert.Equal(t, uint16(0x1000), cpu.getHL())
		assert.True(t, cpu.isSetFlag(halfCarryFlag))
		assert.False(t, cpu.isSetFlag(carryFlag))
	})

	t.Run("carry on overflow", func(t *testing.T) {
		cpu.f = 0
		cpu.setHL(0xFFFF)
		cpu.addToHL(0x0001)
		assert.Equal(t, uint16(0x0000), cpu.getHL())
		assert.True(t, cpu.isSetFlag(carryFlag))
	})
}

func TestCPU_addSPOffset(t *testing.T) {
	cpu := newTestCPU()

	t.Run("positive offset", func(t *testing.T) {
		cpu.pc = 0xC000
		cpu.memory.Write(0xC000, 0x05)
		cpu.sp = 0xFFF8
		result := cpu.addSPOffset()
		assert.Equal(t, uint16(0xFFFD), result)
		assert.False(t, cpu.isSetFlag(zeroFlag))
		assert.False(t, cpu.isSetFlag(subFlag))
	})

	t.Run("negative offset still uses unsigned byte flags", func(t *testing.T) {
		cpu.pc = 0xC000
		cpu.memory.Write(0xC000, 0xFF) // -1
		cpu.sp = 0x0001
		result := cpu.addSPOffset()
		assert.Equal(t, uint16(0x0000), result)
		// 0x01 + 0xFF carries out of both nibble and byte
		assert.True(t, cpu.isSetFlag(halfCarryFlag))
		assert.True(t, cpu.isSetFlag(carryFlag))
	})
}

func TestCPU_daa(t *testing.T) {
	cpu := newTestCPU()

	testCases := []struct {
		desc      string
		a         uint8
		flags     Flag
		want      uint8
		wantFlags Flag
	}{
		{desc: "adjusts addition low nibble", a: 0x0A, want: 0x10},
		{desc: "adjusts addition high nibble", a: 0xA0, want: 0x00, wantFlags: zeroFlag | carryFlag},
		{desc: "bcd addition", a: 0x15 + 0x27, want: 0x42},
		{desc: "subtraction with half borrow", a: 0x0F, flags: subFlag | halfCarryFlag, want: 0x09, wantFlags: subFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cpu.a = tC.a
			cpu.f = uint8(tC.flags)
			cpu.daa()
			assert.Equal(t, tC.want, cpu.a)
			assert.Equal(t, uint8(tC.wantFlags), cpu.f)
		})
	}
}

func TestCPU_rotates(t *testing.T) {
	cpu := newTestCPU()

	t.Run("rlc rotates through bit 7", func(t *testing.T) {
		cpu.f = 0
		cpu.b = 0x80
		cpu.rlc(&cpu.b)
		assert.Equal(t, uint8(0x01), cpu.b)
		assert.True(t, cpu.isSetFlag(carryFlag))
	})

	t.Run("rlc sets zero flag", func(t *testing.T) {
		cpu.f = 0
		cpu.b = 0x00
		cpu.rlc(&cpu.b)
		assert.Equal(t, uint8(0x00), cpu.b)
		assert.True(t, cpu.isSetFlag(zeroFlag))
	})

	t.Run("rl shifts in old carry", func(t *testing.T) {
		cpu.f = uint8(carryFlag)
		cpu.b = 0x00
		cpu.rl(&cpu.b)
		assert.Equal(t, uint8(0x01), cpu.b)
		assert.False(t, cpu.isSetFlag(carryFlag))
	})

	t.Run("rrc rotates through bit 0", func(t *testing.T) {
		cpu.f = 0
		cpu.b = 0x01
		cpu.rrc(&cpu.b)
		assert.Equal(t, uint8(0x80), cpu.b)
		assert.True(t, cpu.isSetFlag(carryFlag))
	})

	t.Run("rr shifts in old carry", func(t *testing.T) {
		cpu.f = uint8(carryFlag)
		cpu.b = 0x00
		cpu.rr(&cpu.b)
		assert.Equal(t, uint8(0x80), cpu.b)
		assert.False(t, cpu.isSetFlag(carryFlag))
	})

	t.Run("sra keeps sign bit", func(t *testing.T) {
		cpu.f = 0
		cpu.b = 0x81
		cpu.sra(&cpu.b)
		assert.Equal(t, uint8(0xC0), cpu.b)
		assert.True(t, cpu.isSetFlag(carryFlag))
	})

	t.Run("srl clears bit 7", func(t *testing.T) {
		cpu.f = 0
		cpu.b = 0x81
		cpu.srl(&cpu.b)
		assert.Equal(t, uint8(0x40), cpu.b)
		assert.True(t, cpu.isSetFlag(carryFlag))
	})

	t.Run("swap exchanges nibbles", func(t *testing.T) {
		cpu.f = 0xF0
		cpu.b = 0xAB
		cpu.swap(&cpu.b)
		assert.Equal(t, uint8(0xBA), cpu.b)
		assert.Equal(t, uint8(0), cpu.f)
	})
}

func TestCPU_testBit(t *testing.T) {
	cpu := newTestCPU()

	cpu.f = uint8(carryFlag)
	cpu.testBit(7, 0x00)

	assert.True(t, cpu.isSetFlag(zeroFlag))
	assert.True(t, cpu.isSetFlag(halfCarryFlag))
	assert.False(t, cpu.isSetFlag(subFlag))
	// carry must survive BIT
	assert.True(t, cpu.isSetFlag(carryFlag))

	cpu.testBit(7, 0x80)
	assert.False(t, cpu.isSetFlag(zeroFlag))
}
