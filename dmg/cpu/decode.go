package cpu

import "github.com/palebit/dmgcore/dmg/addr"

// execute decodes and runs a single non-prefixed opcode, returning the
// T-cycles it consumed. The dispatch is bit-field based rather than a
// literal 256-entry table: each case isolates the fixed bits of an
// instruction group and pulls the operand out of the variable bits, mirroring
// how the encoding itself is built from r8/r16/r16mem/r16stk/cond fields.
func (c *CPU) execute(opcode uint8) int {
	switch {
	case opcode == 0x00:
		c.nop()
		return 4
	case opcode == 0x10:
		c.stop()
		return 4
	case opcode == 0x76:
		c.halt(c.bus.ReadByte(addr.IE), c.bus.ReadByte(addr.IF))
		return 4
	case opcode == 0x07:
		c.rlca()
		return 4
	case opcode == 0x0F:
		c.rrca()
		return 4
	case opcode == 0x17:
		c.rla()
		return 4
	case opcode == 0x1F:
		c.rra()
		return 4
	case opcode == 0x27:
		c.daa()
		return 4
	case opcode == 0x2F:
		c.cpl()
		return 4
	case opcode == 0x37:
		c.scf()
		return 4
	case opcode == 0x3F:
		c.ccf()
		return 4
	case opcode == 0x08:
		c.ldImm16SP()
		return 20
	case opcode == 0x18:
		c.jrImm8()
		return 12

	// Block 0: register-table operations (00xx_xyyy and variants).
	case opcode&0xC7 == 0x01: // LD r16,imm16
		c.ldR16Imm16(Register16((opcode >> 4) & 0x03))
		return 12
	case opcode&0xC7 == 0x02: // LD [r16mem],A
		c.ldR16memA(Register16Mem((opcode >> 4) & 0x03))
		return 8
	case opcode&0xC7 == 0x0A: // LD A,[r16mem]
		c.ldAR16mem(Register16Mem((opcode >> 4) & 0x03))
		return 8
	case opcode&0xC7 == 0x03: // INC r16
		c.incR16(Register16((opcode >> 4) & 0x03))
		return 8
	case opcode&0xC7 == 0x0B: // DEC r16
		c.decR16(Register16((opcode >> 4) & 0x03))
		return 8
	case opcode&0xC7 == 0x09: // ADD HL,r16
		c.addHLR16(Register16((opcode >> 4) & 0x03))
		return 8
	case opcode&0xC0 == 0x00 && opcode&0x07 == 0x04: // INC r8
		r := Register8((opcode >> 3) & 0x07)
		c.incR8(r)
		if r == RegHLIndirect {
			return 12
		}
		return 4
	case opcode&0xC0 == 0x00 && opcode&0x07 == 0x05: // DEC r8
		r := Register8((opcode >> 3) & 0x07)
		c.decR8(r)
		if r == RegHLIndirect {
			return 12
		}
		return 4
	case opcode&0xC0 == 0x00 && opcode&0x07 == 0x06: // LD r8,imm8
		r := Register8((opcode >> 3) & 0x07)
		c.ldR8Imm8(r)
		if r == RegHLIndirect {
			return 12
		}
		return 8
	case opcode&0xE7 == 0x20: // JR cond,imm8
		cond := Condition((opcode >> 3) & 0x03)
		if c.jrCondImm8(cond) {
			return 12
		}
		return 8

	// Block 1: LD r8,r8 (0x76 already carved out above as HALT).
	case opcode&0xC0 == 0x40:
		dst := Register8((opcode >> 3) & 0x07)
		src := Register8(opcode & 0x07)
		c.ldR8R8(dst, src)
		if dst == RegHLIndirect || src == RegHLIndirect {
			return 8
		}
		return 4

	// Block 2: 8-bit ALU against A.
	case opcode&0xC0 == 0x80:
		r := Register8(opcode & 0x07)
		switch (opcode >> 3) & 0x07 {
		case 0:
			c.addAR8(r)
		case 1:
			c.adcAR8(r)
		case 2:
			c.subAR8(r)
		case 3:
			c.sbcAR8(r)
		case 4:
			c.andAR8(r)
		case 5:
			c.xorAR8(r)
		case 6:
			c.orAR8(r)
		case 7:
			c.cpAR8(r)
		}
		if r == RegHLIndirect {
			return 8
		}
		return 4

	// Block 3: stack/control flow/immediate ALU/I-O loads.
	case opcode == 0xC9:
		c.ret()
		return 16
	case opcode == 0xD9:
		c.reti()
		return 16
	case opcode == 0xC3:
		c.jpImm16()
		return 16
	case opcode == 0xE9:
		c.jpHL()
		return 4
	case opcode == 0xCD:
		c.callImm16()
		return 24
	case opcode == 0xE0:
		c.ldhImm8A()
		return 12
	case opcode == 0xE2:
		c.ldhCA()
		return 8
	case opcode == 0xEA:
		c.ldImm16A()
		return 16
	case opcode == 0xF0:
		c.ldhAImm8()
		return 12
	case opcode == 0xF2:
		c.ldhAC()
		return 8
	case opcode == 0xFA:
		c.ldAImm16()
		return 16
	case opcode == 0xE8:
		c.addSPImm8()
		return 16
	case opcode == 0xF8:
		c.ldHLSPPlusImm8()
		return 12
	case opcode == 0xF9:
		c.ldSPHL()
		return 8
	case opcode == 0xF3:
		c.di()
		return 4
	case opcode == 0xFB:
		c.ei()
		return 4
	// These 11 bytes were never assigned an instruction; real hardware
	// locks up, we no-op instead. Listed explicitly so the masked cases
	// below (CALL cond in particular, whose 0xC7 mask doesn't pin bit 5)
	// never mistake one of them for a real opcode.
	case opcode == 0xD3, opcode == 0xDB, opcode == 0xDD,
		opcode == 0xE3, opcode == 0xE4, opcode == 0xEB,
		opcode == 0xEC, opcode == 0xED,
		opcode == 0xF4, opcode == 0xFC, opcode == 0xFD:
		c.illegal()
		return 4
	case opcode&0xC7 == 0xC0: // RET cond
		if c.retCond(Condition((opcode >> 3) & 0x03)) {
			return 20
		}
		return 8
	case opcode&0xC7 == 0xC2: // JP cond,imm16
		if c.jpCondImm16(Condition((opcode >> 3) & 0x03)) {
			return 16
		}
		return 12
	case opcode&0xC7 == 0xC4: // CALL cond,imm16
		if c.callCondImm16(Condition((opcode >> 3) & 0x03)) {
			return 24
		}
		return 12
	case opcode&0xC7 == 0xC6: // ALU A,imm8
		switch (opcode >> 3) & 0x07 {
		case 0:
			c.addAImm8()
		case 1:
			c.adcAImm8()
		case 2:
			c.subAImm8()
		case 3:
			c.sbcAImm8()
		case 4:
			c.andAImm8()
		case 5:
			c.xorAImm8()
		case 6:
			c.orAImm8()
		case 7:
			c.cpAImm8()
		}
		return 8
	case opcode&0xC7 == 0xC7: // RST
		c.rst(rstVectors[(opcode>>3)&0x07])
		return 16
	case opcode&0xCF == 0xC1: // POP r16stk
		c.popR16stk(Register16Stk((opcode >> 4) & 0x03))
		return 12
	case opcode&0xCF == 0xC5: // PUSH r16stk
		c.pushR16stk(Register16Stk((opcode >> 4) & 0x03))
		return 16
	}

	panic("cpu: unimplemented opcode")
}

// executeCB decodes and runs a single 0xCB-prefixed opcode.
func (c *CPU) executeCB(opcode uint8) int {
	r := Register8(opcode & 0x07)
	hlCost := func(regular, indirect int) int {
		if r == RegHLIndirect {
			return indirect
		}
		return regular
	}

	switch opcode >> 6 {
	case 0: // rotate/shift/swap
		switch (opcode >> 3) & 0x07 {
		case 0:
			c.rlcR8(r)
		case 1:
			c.rrcR8(r)
		case 2:
			c.rlR8(r)
		case 3:
			c.rrR8(r)
		case 4:
			c.slaR8(r)
		case 5:
			c.sraR8(r)
		case 6:
			c.swapR8(r)
		case 7:
			c.srlR8(r)
		}
		return hlCost(8, 16)
	case 1: // BIT
		c.bitR8((opcode>>3)&0x07, r)
		return hlCost(8, 12)
	case 2: // RES
		c.resR8((opcode>>3)&0x07, r)
		return hlCost(8, 16)
	case 3: // SET
		c.setR8((opcode>>3)&0x07, r)
		return hlCost(8, 16)
	}

	panic("cpu: unimplemented CB opcode")
}
