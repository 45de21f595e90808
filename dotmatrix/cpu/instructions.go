package cpu

// Shared instruction bodies. The opcode handlers in opcodes.go/opcodes_cb.go
// that touch flags or control flow delegate to these, keeping flag
// computation in a single place.

func (c *CPU) inc(r *uint8) {
	prev := *r
	*r++

	c.setFlagToCondition(zeroFlag, *r == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, prev&0xF == 0xF)
}

func (c *CPU) dec(r *uint8) {
	prev := *r
	*r--

	c.setFlagToCondition(zeroFlag, *r == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, prev&0xF == 0)
}

// addToA adds value (plus an optional carry-in for ADC) to A.
func (c *CPU) addToA(value uint8, carryIn uint8) {
	a := c.a
	result := uint16(a) + uint16(value) + uint16(carryIn)
	c.a = uint8(result)

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, (a&0xF)+(value&0xF)+carryIn > 0xF)
	c.setFlagToCondition(carryFlag, result > 0xFF)
}

// subFromA subtracts value (plus an optional borrow-in for SBC) from A.
// The comparisons are widened to 16 bits so value+carry cannot wrap.
func (c *CPU) subFromA(value uint8, carryIn uint8) {
	a := c.a
	c.a = a - value - carryIn

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, uint16(a&0xF) < uint16(value&0xF)+uint16(carryIn))
	c.setFlagToCondition(carryFlag, uint16(a) < uint16(value)+uint16(carryIn))
}

// compareToA is SUB without storing the result.
func (c *CPU) compareToA(value uint8) {
	a := c.a
	result := a - value

	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, a&0xF < value&0xF)
	c.setFlagToCondition(carryFlag, a < value)
}

func (c *CPU) and(value uint8) {
	c.a &= value

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) or(value uint8) {
	c.a |= value

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) xor(value uint8) {
	c.a ^= value

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

// addToHL adds a 16 bit register to HL. Z is preserved.
func (c *CPU) addToHL(value uint16) {
	hl := c.getHL()
	result := uint32(hl) + uint32(value)

	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, (hl&0xFFF)+(value&0xFFF) > 0xFFF)
	c.setFlagToCondition(carryFlag, result > 0xFFFF)

	c.setHL(uint16(result))
}

// addSPOffset computes SP plus the signed immediate for ADD SP, n and
// LD HL, SP+n. H and C come from the unsigned byte arithmetic on the low
// nibble/byte of SP, regardless of the operand's sign.
func (c *CPU) addSPOffset() uint16 {
	offset := c.readSignedImmediate()
	unsigned := uint8(offset)

	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, (c.sp&0xF)+uint16(unsigned&0xF) > 0xF)
	c.setFlagToCondition(carryFlag, (c.sp&0xFF)+uint16(unsigned) > 0xFF)

	return uint16(int32(c.sp) + int32(offset))
}

// daa decimal-adjusts A after a BCD addition or subtraction, following the
// N/H/C flags left by the previous operation.
func (c *CPU) daa() {
	a := c.a
	carry := c.isSetFlag(carryFlag)

	if !c.isSetFlag(subFlag) {
		if carry || a > 0x99 {
			a += 0x60
			carry = true
		}
		if c.isSetFlag(halfCarryFlag) || a&0xF > 0x9 {
			a += 0x06
		}
	} else {
		if carry {
			a -= 0x60
		}
		if c.isSetFlag(halfCarryFlag) {
			a -= 0x06
		}
	}

	c.a = a
	c.setFlagToCondition(zeroFlag, a == 0)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

// rotates and shifts. These set Z from the result (CB semantics); the
// A-only variants RLCA/RLA/RRCA/RRA clear Z afterwards in their handlers.

func (c *CPU) rlc(r *uint8) {
	value := *r
	carry := value >> 7

	value = (value << 1) | carry
	*r = value

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry == 1)
}

func (c *CPU) rl(r *uint8) {
	value := *r
	carry := value >> 7

	value = (value << 1) | c.flagToBit(carryFlag)
	*r = value

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry == 1)
}

func (c *CPU) rrc(r *uint8) {
	value := *r
	carry := value & 1

	value = (value >> 1) | (carry << 7)
	*r = value

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry == 1)
}

func (c *CPU) rr(r *uint8) {
	value := *r
	carry := value & 1

	value = (value >> 1) | (c.flagToBit(carryFlag) << 7)
	*r = value

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry == 1)
}

func (c *CPU) sla(r *uint8) {
	value := *r
	carry := value >> 7

	value <<= 1
	*r = value

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry == 1)
}

// sra shifts right arithmetically, bit 7 is kept.
func (c *CPU) sra(r *uint8) {
	value := *r
	carry := value & 1

	value = (value >> 1) | (value & 0x80)
	*r = value

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry == 1)
}

func (c *CPU) srl(r *uint8) {
	value := *r
	carry := value & 1

	value >>= 1
	*r = value

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry == 1)
}

func (c *CPU) swap(r *uint8) {
	value := (*r << 4) | (*r >> 4)
	*r = value

	c.setFlagToCondition(zeroFlag, value == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

// testBit implements BIT b, r. C is preserved.
func (c *CPU) testBit(index uint8, value uint8) {
	c.setFlagToCondition(zeroFlag, (value>>index)&1 == 0)
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
}

// control flow

// jr adds the signed immediate to PC. The offset is relative to the address
// after the operand, which readSignedImmediate has already advanced past.
func (c *CPU) jr() {
	offset := c.readSignedImmediate()
	c.pc = uint16(int32(c.pc) + int32(offset))
}

func (c *CPU) jp() {
	c.pc = c.readImmediateWord()
}

func (c *CPU) call() {
	target := c.readImmediateWord()
	c.pushStack(c.pc)
	c.pc = target
}

func (c *CPU) ret() {
	c.pc = c.popStack()
}

func (c *CPU) rst(vector uint16) {
	c.pushStack(c.pc)
	c.pc = vector
}

// memory helpers for (HL)-targeted CB operations

func (c *CPU) readHL() uint8 {
	return c.memory.Read(c.getHL())
}

func (c *CPU) writeHL(value uint8) {
	c.memory.Write(c.getHL(), value)
}
