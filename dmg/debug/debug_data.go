// Package debug exposes read-only snapshots of emulator state for
// visualization and diagnostics; it never drives or mutates the emulator.
package debug

// CPUState is a point-in-time copy of the CPU's registers and flags.
type CPUState struct {
	A uint8
	F uint8
	B uint8
	C uint8
	D uint8
	E uint8
	H uint8
	L uint8

	SP  uint16
	PC  uint16
	IME bool
}

// MemorySnapshot is a contiguous window of address space, for disassembly
// or hex-dump style displays.
type MemorySnapshot struct {
	StartAddr uint16
	Bytes     []uint8
}

// DebuggerState mirrors the run-mode of the emulator loop driving this data.
type DebuggerState int

const (
	DebuggerRunning DebuggerState = iota
	DebuggerPaused
	DebuggerStepInstruction
	DebuggerStepFrame
)

// CompleteDebugData bundles everything a debug display needs for one frame.
type CompleteDebugData struct {
	CPU             *CPUState
	Memory          *MemorySnapshot
	DebuggerState   DebuggerState
	InterruptEnable uint8 // IE register at 0xFFFF
	InterruptFlags  uint8 // IF register at 0xFF0F
	InstructionCount uint64
	FrameCount       uint64
}
