package cpu

// Block 2 (opcodes 0x80-0xBF): 8-bit ALU ops against A, regular across the
// r8 operand field. Grouped as two generic helpers mirroring how the
// instruction set itself is generated: arithmetic (ADD/ADC/SUB/SBC/CP) and
// logical (AND/XOR/OR).

func (c *CPU) arithmeticOpR8(value uint8, subtract, useCarry, updateRegister bool) {
	original := c.a
	var carry uint8
	if useCarry && c.f.Has(FlagC) {
		carry = 1
	}

	var result uint8
	if subtract {
		result = original - value - carry
		c.setSubFlags(original, value, carry)
	} else {
		result = original + value + carry
		c.setAddFlags(original, value, carry)
	}
	c.setZN(result, subtract)

	if updateRegister {
		c.a = result
	}
}

func (c *CPU) logicalOpR8(value uint8, op func(a, b uint8) uint8, setH bool) {
	result := op(c.a, value)
	c.setZN(result, false)
	c.f.Set(FlagH, setH)
	c.f.Set(FlagC, false)
	c.a = result
}

func (c *CPU) addAR8(r Register8) { c.arithmeticOpR8(c.GetR8(r), false, false, true) }
func (c *CPU) adcAR8(r Register8) { c.arithmeticOpR8(c.GetR8(r), false, true, true) }
func (c *CPU) subAR8(r Register8) { c.arithmeticOpR8(c.GetR8(r), true, false, true) }
func (c *CPU) sbcAR8(r Register8) { c.arithmeticOpR8(c.GetR8(r), true, true, true) }
func (c *CPU) cpAR8(r Register8)  { c.arithmeticOpR8(c.GetR8(r), true, false, false) }

func (c *CPU) andAR8(r Register8) {
	c.logicalOpR8(c.GetR8(r), func(a, b uint8) uint8 { return a & b }, true)
}
func (c *CPU) xorAR8(r Register8) {
	c.logicalOpR8(c.GetR8(r), func(a, b uint8) uint8 { return a ^ b }, false)
}
func (c *CPU) orAR8(r Register8) {
	c.logicalOpR8(c.GetR8(r), func(a, b uint8) uint8 { return a | b }, false)
}
