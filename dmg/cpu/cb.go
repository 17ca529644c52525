package cpu

// Prefixed (0xCB) instructions: rotate/shift/swap, and the regular BIT/RES/SET
// table, each operating on any of the eight r8 operands.

func (c *CPU) rlcR8(r Register8) {
	v := c.GetR8(r)
	result := v<<1 | v>>7
	c.SetR8(r, result)
	c.setZN(result, false)
	c.f.Set(FlagH, false)
	c.f.Set(FlagC, v&0x80 != 0)
}

func (c *CPU) rrcR8(r Register8) {
	v := c.GetR8(r)
	result := v>>1 | v<<7
	c.SetR8(r, result)
	c.setZN(result, false)
	c.f.Set(FlagH, false)
	c.f.Set(FlagC, v&0x01 != 0)
}

func (c *CPU) rlR8(r Register8) {
	v := c.GetR8(r)
	var carryIn uint8
	if c.f.Has(FlagC) {
		carryIn = 1
	}
	result := v<<1 | carryIn
	c.SetR8(r, result)
	c.setZN(result, false)
	c.f.Set(FlagH, false)
	c.f.Set(FlagC, v&0x80 != 0)
}

func (c *CPU) rrR8(r Register8) {
	v := c.GetR8(r)
	var carryIn uint8
	if c.f.Has(FlagC) {
		carryIn = 0x80
	}
	result := v>>1 | carryIn
	c.SetR8(r, result)
	c.setZN(result, false)
	c.f.Set(FlagH, false)
	c.f.Set(FlagC, v&0x01 != 0)
}

func (c *CPU) slaR8(r Register8) {
	v := c.GetR8(r)
	result := v << 1
	c.SetR8(r, result)
	c.setZN(result, false)
	c.f.Set(FlagH, false)
	c.f.Set(FlagC, v&0x80 != 0)
}

func (c *CPU) sraR8(r Register8) {
	v := c.GetR8(r)
	result := (v >> 1) | (v & 0x80)
	c.SetR8(r, result)
	c.setZN(result, false)
	c.f.Set(FlagH, false)
	c.f.Set(FlagC, v&0x01 != 0)
}

func (c *CPU) swapR8(r Register8) {
	v := c.GetR8(r)
	result := v<<4 | v>>4
	c.SetR8(r, result)
	c.setZN(result, false)
	c.f.Set(FlagH, false)
	c.f.Set(FlagC, false)
}

func (c *CPU) srlR8(r Register8) {
	v := c.GetR8(r)
	result := v >> 1
	c.SetR8(r, result)
	c.setZN(result, false)
	c.f.Set(FlagH, false)
	c.f.Set(FlagC, v&0x01 != 0)
}

func (c *CPU) bitR8(bitIndex uint8, r Register8) {
	v := c.GetR8(r)
	c.f.Set(FlagZ, v&(1<<bitIndex) == 0)
	c.f.Set(FlagN, false)
	c.f.Set(FlagH, true)
}

func (c *CPU) resR8(bitIndex uint8, r Register8) {
	c.SetR8(r, c.GetR8(r)&^(1<<bitIndex))
}

func (c *CPU) setR8(bitIndex uint8, r Register8) {
	c.SetR8(r, c.GetR8(r)|(1<<bitIndex))
}
