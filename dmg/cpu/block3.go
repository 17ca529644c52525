package cpu

// Block 3 (opcodes 0xC0-0xFF): stack ops, control flow, immediate-operand
// ALU, I/O-page loads, and interrupt control.

func (c *CPU) ret() {
	c.pc = c.popWord()
}

// retCond returns whether it branched, for accurate cycle accounting.
func (c *CPU) retCond(cond Condition) bool {
	if c.shouldJump(cond) {
		c.ret()
		return true
	}
	return false
}

func (c *CPU) reti() {
	c.ime = true // RETI enables interrupts immediately, unlike EI's one-instruction delay
	c.imeScheduled = false
	c.ret()
}

func (c *CPU) jpImm16() {
	c.pc = c.fetchWord()
}

func (c *CPU) jpCondImm16(cond Condition) bool {
	addr := c.fetchWord()
	if c.shouldJump(cond) {
		c.pc = addr
		return true
	}
	return false
}

func (c *CPU) jpHL() {
	c.pc = c.getHL()
}

func (c *CPU) callImm16() {
	retAddr := c.pc + 2
	addr := c.fetchWord()
	c.pushWord(retAddr)
	c.pc = addr
}

func (c *CPU) callCondImm16(cond Condition) bool {
	if c.shouldJump(cond) {
		c.callImm16()
		return true
	}
	c.fetchWord()
	return false
}

// rstVectors are the eight fixed RST targets, selected by opcode bits 5-3.
var rstVectors = [8]uint16{0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38}

func (c *CPU) rst(vector uint16) {
	c.pushWord(c.pc)
	c.pc = vector
}

func (c *CPU) popR16stk(r Register16Stk) {
	c.SetR16Stk(r, c.popWord())
}

func (c *CPU) pushR16stk(r Register16Stk) {
	c.pushWord(c.GetR16Stk(r))
}

func (c *CPU) ldhCA() {
	c.bus.WriteByte(0xFF00+uint16(c.c), c.a)
}

func (c *CPU) ldhImm8A() {
	addr := 0xFF00 | uint16(c.fetchByte())
	c.bus.WriteByte(addr, c.a)
}

func (c *CPU) ldImm16A() {
	addr := c.fetchWord()
	c.bus.WriteByte(addr, c.a)
}

func (c *CPU) ldhAC() {
	c.a = c.bus.ReadByte(0xFF00 + uint16(c.c))
}

func (c *CPU) ldhAImm8() {
	addr := 0xFF00 + uint16(c.fetchByte())
	c.a = c.bus.ReadByte(addr)
}

func (c *CPU) ldAImm16() {
	addr := c.fetchWord()
	c.a = c.bus.ReadByte(addr)
}

// spPlusImm8 computes SP + signed imm8 and the H/C flags the two
// instructions that use it (ADD SP,e and LD HL,SP+e) share: both computed
// against the unsigned low byte/nibble of SP plus the signed byte cast to
// u16, never against the resulting high byte.
func (c *CPU) spPlusImm8() (result uint16, halfCarry, carry bool) {
	imm8 := int8(c.fetchByte())
	original := c.sp
	offset := uint16(imm8)
	result = original + offset
	halfCarry = (original&0xF)+(offset&0xF) > 0xF
	carry = (original&0xFF)+(offset&0xFF) > 0xFF
	return
}

func (c *CPU) addSPImm8() {
	result, halfCarry, carry := c.spPlusImm8()
	c.sp = result
	c.f.Set(FlagZ, false)
	c.f.Set(FlagN, false)
	c.f.Set(FlagH, halfCarry)
	c.f.Set(FlagC, carry)
}

func (c *CPU) ldHLSPPlusImm8() {
	result, halfCarry, carry := c.spPlusImm8()
	c.setHL(result)
	c.f.Set(FlagZ, false)
	c.f.Set(FlagN, false)
	c.f.Set(FlagH, halfCarry)
	c.f.Set(FlagC, carry)
}

func (c *CPU) ldSPHL() {
	c.sp = c.getHL()
}

func (c *CPU) di() {
	c.ime = false
	c.imeScheduled = false
}

func (c *CPU) ei() {
	c.imeScheduled = true
}

// Immediate-operand ALU (0xC6,0xCE,0xD6,0xDE,0xE6,0xEE,0xF6,0xFE).

func (c *CPU) addAImm8() { c.arithmeticOpR8(c.fetchByte(), false, false, true) }
func (c *CPU) adcAImm8() { c.arithmeticOpR8(c.fetchByte(), false, true, true) }
func (c *CPU) subAImm8() { c.arithmeticOpR8(c.fetchByte(), true, false, true) }
func (c *CPU) sbcAImm8() { c.arithmeticOpR8(c.fetchByte(), true, true, true) }
func (c *CPU) cpAImm8()  { c.arithmeticOpR8(c.fetchByte(), true, false, false) }

func (c *CPU) andAImm8() {
	c.logicalOpR8(c.fetchByte(), func(a, b uint8) uint8 { return a & b }, true)
}
func (c *CPU) xorAImm8() {
	c.logicalOpR8(c.fetchByte(), func(a, b uint8) uint8 { return a ^ b }, false)
}
func (c *CPU) orAImm8() {
	c.logicalOpR8(c.fetchByte(), func(a, b uint8) uint8 { return a | b }, false)
}
