package dmg

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/palebit/dmgcore/dmg/cpu"
	"github.com/palebit/dmgcore/dmg/debug"
	"github.com/palebit/dmgcore/dmg/input/action"
	"github.com/palebit/dmgcore/dmg/memory"
	"github.com/palebit/dmgcore/dmg/timing"
	"github.com/palebit/dmgcore/dmg/video"
)

// Emulator is the interface every concrete emulation core must satisfy;
// backends drive the console through this rather than the DMG struct
// directly, so a test harness can swap in a fake for headless runs.
type Emulator interface {
	RunUntilFrame() error
	GetCurrentFrame() *video.FrameBuffer
	HandleAction(act action.Action, pressed bool)
	ExtractDebugData() *debug.CompleteDebugData
	SetFrameLimiter(limiter timing.Limiter)
	ResetFrameTiming()
}

var _ Emulator = (*DMG)(nil)

// debuggerState represents the current debugger mode.
type debuggerState int

const (
	debuggerRunning   debuggerState = iota // Normal execution
	debuggerPaused                         // Paused, waiting for commands
	debuggerStep                           // Execute one instruction then pause
	debuggerStepFrame                      // Execute one frame then pause
)

// DMG is the root struct and entry point for running the emulation: it
// owns the CPU, PPU and MMU and drives them in lockstep, one CPU
// instruction at a time.
type DMG struct {
	cpu *cpu.CPU
	ppu *video.PPU
	mem *memory.MMU

	limiter timing.Limiter

	debuggerMutex    sync.RWMutex
	debuggerStateV   debuggerState
	stepRequested    bool
	frameRequested   bool
	instructionCount uint64
	frameCount       uint64
}

func (e *DMG) init(mem *memory.MMU) {
	e.cpu = cpu.New(mem)
	e.ppu = video.NewPPU(mem)
	e.mem = mem
	e.limiter = timing.NewNoOpLimiter()
}

// New creates a new emulator instance with no cartridge loaded.
func New() *DMG {
	e := &DMG{}
	e.init(memory.NewWithCartridge(memory.NewCartridge()))
	return e
}

// NewWithFile creates a new emulator instance and loads the ROM file at path.
func NewWithFile(path string) (*DMG, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded ROM data", "size", len(data))

	e := &DMG{}
	e.init(memory.NewWithCartridge(memory.NewCartridgeWithData(data)))

	return e, nil
}

// step executes one CPU instruction and advances the PPU, MMU and APU by
// the same number of T-cycles, returning the cycle count consumed.
func (e *DMG) step() int {
	cycles := e.cpu.Step()
	e.mem.Tick(cycles)
	e.mem.APU.Tick(cycles)
	for i := 0; i < cycles; i++ {
		e.ppu.Tick()
	}
	e.instructionCount++
	return cycles
}

func (e *DMG) RunUntilFrame() error {
	e.debuggerMutex.RLock()
	state := e.debuggerStateV
	e.debuggerMutex.RUnlock()

	switch state {
	case debuggerPaused:
		return nil

	case debuggerStep:
		e.debuggerMutex.Lock()
		requested := e.stepRequested
		e.stepRequested = false
		e.debuggerMutex.Unlock()

		if requested {
			oldPC := e.cpu.PC()
			e.step()
			slog.Debug("Step executed", "pc", fmt.Sprintf("0x%04X", oldPC), "new_pc", fmt.Sprintf("0x%04X", e.cpu.PC()))
			e.SetDebuggerState(debuggerPaused)
		}
		return nil

	case debuggerStepFrame:
		e.debuggerMutex.Lock()
		requested := e.frameRequested
		e.frameRequested = false
		e.debuggerMutex.Unlock()

		if requested {
			e.runOneFrame()
			slog.Debug("Frame step completed", "frame", e.frameCount, "instructions", e.instructionCount)
			e.SetDebuggerState(debuggerPaused)
		}
		return nil

	default:
		e.runOneFrame()
		if e.frameCount%60 == 0 {
			slog.Debug("Frame completed", "frame", e.frameCount, "pc", fmt.Sprintf("0x%04X", e.cpu.PC()))
		}
		e.limiter.WaitForNextFrame()
		return nil
	}
}

func (e *DMG) runOneFrame() {
	total := 0
	for {
		total += e.step()
		if e.ppu.ConsumeFrameReady() {
			break
		}
		if total >= timing.CyclesPerFrame*2 {
			// Safety valve: VBlank should surface within roughly one
			// frame's worth of cycles. Avoids a hang if that detection
			// logic ever regresses.
			break
		}
	}
	e.frameCount++
}

func (e *DMG) GetCurrentFrame() *video.FrameBuffer {
	return e.ppu.Frame()
}

func joypadKeyFor(act action.Action) (memory.JoypadKey, bool) {
	switch act {
	case action.GBButtonA:
		return memory.JoypadA, true
	case action.GBButtonB:
		return memory.JoypadB, true
	case action.GBButtonStart:
		return memory.JoypadStart, true
	case action.GBButtonSelect:
		return memory.JoypadSelect, true
	case action.GBDPadUp:
		return memory.JoypadUp, true
	case action.GBDPadDown:
		return memory.JoypadDown, true
	case action.GBDPadLeft:
		return memory.JoypadLeft, true
	case action.GBDPadRight:
		return memory.JoypadRight, true
	default:
		return 0, false
	}
}

func (e *DMG) HandleAction(act action.Action, pressed bool) {
	key, ok := joypadKeyFor(act)
	if !ok {
		return
	}
	if pressed {
		e.mem.HandleKeyPress(key)
	} else {
		e.mem.HandleKeyRelease(key)
	}
}

func (e *DMG) HandleKeyPress(key memory.JoypadKey) {
	e.mem.HandleKeyPress(key)
}

func (e *DMG) HandleKeyRelease(key memory.JoypadKey) {
	e.mem.HandleKeyRelease(key)
}

func (e *DMG) GetCPU() *cpu.CPU {
	return e.cpu
}

func (e *DMG) GetMMU() *memory.MMU {
	return e.mem
}

func (e *DMG) SetFrameLimiter(limiter timing.Limiter) {
	if limiter == nil {
		e.limiter = timing.NewNoOpLimiter()
	} else {
		e.limiter = limiter
	}
}

func (e *DMG) ResetFrameTiming() {
	e.limiter.Reset()
}

// ExtractDebugData returns a point-in-time snapshot for visualization, or
// nil if the emulator has not been initialized.
func (e *DMG) ExtractDebugData() *debug.CompleteDebugData {
	if e.cpu == nil || e.mem == nil {
		return nil
	}

	snap := e.cpu.Snapshot()
	cpuState := &debug.CPUState{
		A: snap.A, F: snap.F, B: snap.B, C: snap.C,
		D: snap.D, E: snap.E, H: snap.H, L: snap.L,
		SP: snap.SP, PC: snap.PC, IME: snap.IME,
	}

	const windowBefore = 16
	const windowSize = 64
	start := cpuState.PC
	if start > windowBefore {
		start -= windowBefore
	} else {
		start = 0
	}

	end := uint32(start) + windowSize
	if end > 0x10000 {
		end = 0x10000
	}

	bytes := make([]uint8, 0, end-uint32(start))
	for a := uint32(start); a < end; a++ {
		bytes = append(bytes, e.mem.Read(uint16(a)))
	}

	e.debuggerMutex.RLock()
	state := e.debuggerStateV
	e.debuggerMutex.RUnlock()

	return &debug.CompleteDebugData{
		CPU: cpuState,
		Memory: &debug.MemorySnapshot{
			StartAddr: start,
			Bytes:     bytes,
		},
		DebuggerState:    debug.DebuggerState(state),
		InterruptEnable:  e.mem.Read(0xFFFF),
		InterruptFlags:   e.mem.Read(0xFF0F),
		InstructionCount: e.instructionCount,
		FrameCount:       e.frameCount,
	}
}

// Debugger control methods

func (e *DMG) SetDebuggerState(state debuggerState) {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.debuggerStateV = state
	slog.Debug("Debugger state changed", "state", state)
}

func (e *DMG) GetDebuggerState() debuggerState {
	e.debuggerMutex.RLock()
	defer e.debuggerMutex.RUnlock()
	return e.debuggerStateV
}

func (e *DMG) DebuggerPause() {
	e.SetDebuggerState(debuggerPaused)
	slog.Info("Emulator paused")
}

func (e *DMG) DebuggerResume() {
	e.SetDebuggerState(debuggerRunning)
	slog.Info("Emulator resumed")
}

func (e *DMG) DebuggerStepInstruction() {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.stepRequested = true
	e.debuggerStateV = debuggerStep
	slog.Info("Step instruction requested")
}

func (e *DMG) DebuggerStepFrame() {
	e.debuggerMutex.Lock()
	defer e.debuggerMutex.Unlock()
	e.frameRequested = true
	e.debuggerStateV = debuggerStepFrame
	slog.Info("Step frame requested")
}

func (e *DMG) GetInstructionCount() uint64 {
	return e.instructionCount
}

func (e *DMG) GetFrameCount() uint64 {
	return e.frameCount
}
