// Package cpu implements the Sharp LR35902 instruction interpreter: fetch,
// decode, execute at T-cycle granularity, plus the interrupt-service
// protocol that runs between instructions.
package cpu

import "github.com/palebit/dmgcore/dmg/addr"

// MemoryInterface is the narrow capability the CPU needs from the bus: byte
// access plus interrupt bookkeeping, which lives in the mapped IE/IF bytes.
type MemoryInterface interface {
	ReadByte(address uint16) uint8
	WriteByte(address uint16, value uint8)
}

// CPU holds the Sharp LR35902 register file and auxiliary interrupt state.
type CPU struct {
	a, b, c, d, e, h, l uint8
	f                   Flags
	sp, pc              uint16

	ime          bool
	imeScheduled bool
	halted       bool
	haltBug      bool

	bus MemoryInterface
}

// New returns a CPU wired to bus, with registers at their documented
// post-boot-ROM values.
func New(bus MemoryInterface) *CPU {
	c := &CPU{bus: bus}
	c.a = 0x01
	c.f = 0xB0
	c.b, c.c = 0x00, 0x13
	c.d, c.e = 0x00, 0xD8
	c.h, c.l = 0x01, 0x4D
	c.sp = 0xFFFE
	c.pc = 0x0100
	return c
}

func (c *CPU) fetchByte() uint8 {
	v := c.bus.ReadByte(c.pc)
	c.pc++
	return v
}

func (c *CPU) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) pushWord(v uint16) {
	c.sp--
	c.bus.WriteByte(c.sp, uint8(v>>8))
	c.sp--
	c.bus.WriteByte(c.sp, uint8(v))
}

func (c *CPU) popWord() uint16 {
	lo := c.bus.ReadByte(c.sp)
	c.sp++
	hi := c.bus.ReadByte(c.sp)
	c.sp++
	return uint16(hi)<<8 | uint16(lo)
}

// Step executes exactly one instruction (or one interrupt-service sequence,
// or four idle cycles while halted) and returns the T-cycles consumed.
func (c *CPU) Step() int {
	if c.imeScheduled {
		c.ime = true
		c.imeScheduled = false
	}

	var cycles int
	if !c.halted {
		opcode := c.fetchByte()
		if c.haltBug {
			// The byte fetch above advanced pc normally; un-advance it so
			// the same opcode is fetched again on the following Step,
			// reproducing the hardware quirk where HALT with IME=0 and a
			// pending interrupt fails to bump pc past the next opcode.
			c.haltBug = false
			c.pc--
		}
		if opcode == 0xCB {
			cb := c.fetchByte()
			cycles = c.executeCB(cb)
		} else {
			cycles = c.execute(opcode)
		}
	} else {
		cycles = 4
	}

	cycles += c.serviceInterrupts()
	return cycles
}

// serviceInterrupts implements the protocol in §4.1: the lowest-indexed
// pending, enabled interrupt is dispatched to its fixed vector.
func (c *CPU) serviceInterrupts() int {
	ie := c.bus.ReadByte(addr.IE)
	iflags := c.bus.ReadByte(addr.IF)
	pending := ie & iflags & 0x1F

	if pending != 0 {
		c.halted = false
	}
	if !c.ime || pending == 0 {
		return 0
	}

	type vec struct {
		bit  uint8
		addr uint16
	}
	vecs := []vec{
		{0, 0x40}, // VBlank
		{1, 0x48}, // LCD STAT
		{2, 0x50}, // Timer
		{3, 0x58}, // Serial
		{4, 0x60}, // Joypad
	}

	for _, v := range vecs {
		if pending&(1<<v.bit) == 0 {
			continue
		}
		c.bus.WriteByte(addr.IF, iflags&^(1<<v.bit))
		c.ime = false
		c.imeScheduled = false
		c.pushWord(c.pc)
		c.pc = v.addr
		return 20
	}
	return 0
}

// PC/SP/registers exposed for snapshotting and tests.
func (c *CPU) PC() uint16      { return c.pc }
func (c *CPU) SetPC(v uint16)  { c.pc = v }
func (c *CPU) SP() uint16      { return c.sp }
func (c *CPU) SetSP(v uint16)  { c.sp = v }
func (c *CPU) A() uint8        { return c.a }
func (c *CPU) F() uint8        { return uint8(c.f) }
func (c *CPU) BC() uint16      { return c.getBC() }
func (c *CPU) DE() uint16      { return c.getDE() }
func (c *CPU) HL() uint16      { return c.getHL() }
func (c *CPU) IME() bool       { return c.ime }
func (c *CPU) IMEScheduled() bool { return c.imeScheduled }
func (c *CPU) Halted() bool    { return c.halted }
func (c *CPU) HaltBug() bool   { return c.haltBug }

// State is the serializable snapshot of all CPU register and interrupt
// scheduling state.
type State struct {
	A, B, C, D, E, H, L uint8
	F                   uint8
	SP, PC              uint16
	IME, IMEScheduled   bool
	Halted, HaltBug     bool
}

func (c *CPU) Snapshot() State {
	return State{
		A: c.a, B: c.b, C: c.c, D: c.d, E: c.e, H: c.h, L: c.l,
		F: uint8(c.f), SP: c.sp, PC: c.pc,
		IME: c.ime, IMEScheduled: c.imeScheduled,
		Halted: c.halted, HaltBug: c.haltBug,
	}
}

func (c *CPU) Restore(s State) {
	c.a, c.b, c.c, c.d, c.e, c.h, c.l = s.A, s.B, s.C, s.D, s.E, s.H, s.L
	c.f = Flags(s.F) & 0xF0
	c.sp, c.pc = s.SP, s.PC
	c.ime, c.imeScheduled = s.IME, s.IMEScheduled
	c.halted, c.haltBug = s.Halted, s.HaltBug
}
