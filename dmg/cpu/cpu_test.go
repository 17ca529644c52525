package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// flatMemory is a trivial 64KB address space satisfying MemoryInterface,
// used to drive the CPU in isolation from the real bus.
type flatMemory [65536]uint8

func (m *flatMemory) ReadByte(address uint16) uint8  { return m[address] }
func (m *flatMemory) WriteByte(address uint16, v uint8) { m[address] = v }

func newTestCPU() (*CPU, *flatMemory) {
	mem := &flatMemory{}
	c := New(mem)
	c.sp = 0xFFFE
	c.pc = 0xC000
	return c, mem
}

func (m *flatMemory) load(pc uint16, bytes ...uint8) {
	for i, b := range bytes {
		m[pc+uint16(i)] = b
	}
}

func TestIncSetsHalfCarryAtNibbleBoundary(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(c.pc, 0x3C) // INC A
	c.a = 0x0F
	c.Step()
	assert.Equal(t, uint8(0x10), c.a)
	assert.True(t, c.f.Has(FlagH))
	assert.False(t, c.f.Has(FlagZ))
}

func TestDecSetsHalfCarryAtNibbleBoundary(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(c.pc, 0x3D) // DEC A
	c.a = 0x10
	c.Step()
	assert.Equal(t, uint8(0x0F), c.a)
	assert.True(t, c.f.Has(FlagH))
	assert.True(t, c.f.Has(FlagN))
}

func TestAddASelfOverflowSetsZeroAndCarry(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(c.pc, 0x87) // ADD A,A
	c.a = 0x80
	c.Step()
	assert.Equal(t, uint8(0x00), c.a)
	assert.True(t, c.f.Has(FlagZ))
	assert.True(t, c.f.Has(FlagC))
}

func TestDaaAfterAddCorrectsToBCD(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(c.pc, 0xC6, 0x06, 0x27) // ADD A,0x06 ; DAA
	c.a = 0x05
	c.Step()
	c.Step()
	assert.Equal(t, uint8(0x11), c.a)
	assert.False(t, c.f.Has(FlagC))
}

func TestAddHLHLClearsHalfCarrySetsFullCarry(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(c.pc, 0x29) // ADD HL,HL
	c.setHL(0x8000)
	c.Step()
	assert.Equal(t, uint16(0x0000), c.getHL())
	assert.False(t, c.f.Has(FlagH))
	assert.True(t, c.f.Has(FlagC))
}

func TestLdHLSPPlusImm8SetsCarryAndHalfCarry(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(c.pc, 0xF8, 0x7F) // LD HL,SP+0x7F
	c.sp = 0x0081
	c.Step()
	assert.True(t, c.f.Has(FlagC))
	assert.True(t, c.f.Has(FlagH))
	assert.False(t, c.f.Has(FlagZ))
	assert.False(t, c.f.Has(FlagN))
}

func TestCallAndRetRoundTrip(t *testing.T) {
	c, mem := newTestCPU()
	c.pc = 0xC000
	mem.load(0xC000, 0xCD, 0x00, 0xC1) // CALL 0xC100
	mem.load(0xC100, 0xC9)             // RET
	c.Step()
	assert.Equal(t, uint16(0xC100), c.pc)
	c.Step()
	assert.Equal(t, uint16(0xC003), c.pc)
}

func TestPushPopRoundTripMasksLowNibbleOfF(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(c.pc, 0xF5, 0xF1) // PUSH AF ; POP AF
	c.a = 0x42
	c.f = Flags(0xFF)
	c.Step()
	c.f = 0
	c.Step()
	assert.Equal(t, uint8(0x42), c.a)
	assert.Equal(t, uint8(0xF0), uint8(c.f))
}

func TestSwapTwiceIsIdempotent(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(c.pc, 0xCB, 0x37, 0xCB, 0x37) // SWAP A ; SWAP A
	c.a = 0x3C
	c.Step()
	c.Step()
	assert.Equal(t, uint8(0x3C), c.a)
	assert.False(t, c.f.Has(FlagC))
}

func TestDiThenEiThenDiLeavesBothFlagsFalse(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(c.pc, 0xF3, 0xFB, 0xF3) // DI ; EI ; DI
	c.Step()
	c.Step() // EI schedules, does not take effect until after next Step
	c.Step() // DI cancels the scheduled enable before it would have taken effect
	assert.False(t, c.ime)
	assert.False(t, c.imeScheduled)
}

func TestEiDelaysEnableByOneInstruction(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(c.pc, 0xFB, 0x00, 0x00) // EI ; NOP ; NOP
	c.Step()
	assert.False(t, c.ime, "IME should not be set until after the instruction following EI")
	c.Step()
	assert.True(t, c.ime)
}

func TestRetiEnablesImmediately(t *testing.T) {
	c, mem := newTestCPU()
	c.sp = 0xFFFC
	mem.load(0xFFFC, 0x00, 0xC0)
	mem.load(c.pc, 0xD9) // RETI
	c.Step()
	assert.True(t, c.ime)
	assert.Equal(t, uint16(0xC000), c.pc)
}

func TestInterruptServiceDispatchesLowestBitFirst(t *testing.T) {
	c, mem := newTestCPU()
	mem.load(c.pc, 0x00) // NOP; interrupt services after
	c.ime = true
	mem[0xFFFF] = 0x03 // IE: VBlank + LCDSTAT enabled
	mem[0xFF0F] = 0x03 // IF: both pending
	c.Step()
	assert.Equal(t, uint16(0x40), c.pc, "VBlank (bit 0) takes priority over LCDSTAT")
	assert.False(t, c.ime)
	assert.Equal(t, uint8(0x02), mem[0xFF0F], "VBlank bit cleared, LCDSTAT bit left pending")
}

func TestHaltBugDoesNotAdvancePCOnNextFetch(t *testing.T) {
	c, mem := newTestCPU()
	c.ime = false
	mem[0xFFFF] = 0x01
	mem[0xFF0F] = 0x01
	mem.load(c.pc, 0x76, 0x3C) // HALT ; INC A
	c.a = 0x00
	c.Step() // HALT: arms the bug instead of halting, since an interrupt is already pending
	assert.True(t, c.haltBug)
	assert.False(t, c.halted)
	c.Step() // first read of the INC A byte; pc fails to advance past it
	assert.Equal(t, uint8(0x01), c.a)
	assert.False(t, c.haltBug)
	c.Step() // second read of the same byte, now that the bug has been consumed
	assert.Equal(t, uint8(0x02), c.a, "the INC A byte is fetched and executed twice by the halt bug")
}

func TestNopLoopResetsToStartingState(t *testing.T) {
	c, mem := newTestCPU()
	start := c.pc
	mem.load(c.pc, 0x00, 0xC3, uint8(start), uint8(start>>8)) // NOP; JP start
	for i := 0; i < 4; i++ {
		c.Step()
	}
	assert.Equal(t, start, c.pc)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	c.a, c.b, c.c = 0x11, 0x22, 0x33
	c.sp, c.pc = 0xFFF0, 0xC123
	c.ime = true
	snap := c.Snapshot()

	c.a = 0
	c.pc = 0
	c.ime = false

	c.Restore(snap)
	assert.Equal(t, uint8(0x11), c.a)
	assert.Equal(t, uint16(0xC123), c.pc)
	assert.True(t, c.ime)
}
