package dmg

import (
	"github.com/palebit/dmgcore/dmg/debug"
	"github.com/palebit/dmgcore/dmg/input/action"
	"github.com/palebit/dmgcore/dmg/timing"
	"github.com/palebit/dmgcore/dmg/video"
)

const (
	testPatternTileSize        = 8
	testPatternStripeWidth     = 4
	testPatternStripeSpeed     = 1
	testPatternDiagonalSpeed   = 1
	testPatternAnimationFrames = 10
	testPatternCount           = 4
)

// TestPatternEmulator displays test patterns without actual emulation, used
// to exercise the backend/render loop independently of CPU correctness.
type TestPatternEmulator struct {
	frameBuffer      *video.FrameBuffer
	patternType      int
	animationCounter int
	limiter          timing.Limiter
}

// NewTestPatternEmulator creates an Emulator that renders animated test
// patterns instead of running a ROM.
func NewTestPatternEmulator() Emulator {
	e := &TestPatternEmulator{
		frameBuffer: video.NewFrameBuffer(),
		patternType: 0,
		limiter:     timing.NewNoOpLimiter(),
	}
	e.generateTestPattern(0)
	return e
}

func (e *TestPatternEmulator) RunUntilFrame() error {
	e.animationCounter++
	if e.animationCounter%testPatternAnimationFrames == 0 {
		e.animateTestPattern()
	}
	e.limiter.WaitForNextFrame()
	return nil
}

func (e *TestPatternEmulator) GetCurrentFrame() *video.FrameBuffer {
	return e.frameBuffer
}

func (e *TestPatternEmulator) HandleAction(act action.Action, pressed bool) {
	if act == action.EmulatorTestPatternCycle && pressed {
		e.CycleTestPattern()
	}
}

func (e *TestPatternEmulator) ExtractDebugData() *debug.CompleteDebugData {
	return &debug.CompleteDebugData{
		DebuggerState: debug.DebuggerRunning,
	}
}

func (e *TestPatternEmulator) CycleTestPattern() {
	e.patternType = (e.patternType + 1) % testPatternCount
	e.generateTestPattern(e.patternType)
}

func (e *TestPatternEmulator) generateTestPattern(patternType int) {
	pal := video.DefaultPalette
	switch patternType {
	case 0: // Checkerboard
		for y := 0; y < video.FramebufferHeight; y++ {
			for x := 0; x < video.FramebufferWidth; x++ {
				color := pal[3]
				if ((x/testPatternTileSize)+(y/testPatternTileSize))%2 == 0 {
					color = pal[0]
				}
				e.frameBuffer.SetPixel(uint(x), uint(y), color)
			}
		}
	case 1: // Gradient
		for y := 0; y < video.FramebufferHeight; y++ {
			for x := 0; x < video.FramebufferWidth; x++ {
				shade := x * 4 / video.FramebufferWidth
				if shade > 3 {
					shade = 3
				}
				e.frameBuffer.SetPixel(uint(x), uint(y), pal[shade])
			}
		}
	case 2: // Vertical stripes
		for y := 0; y < video.FramebufferHeight; y++ {
			for x := 0; x < video.FramebufferWidth; x++ {
				color := pal[2]
				if (x/testPatternStripeWidth)%2 == 0 {
					color = pal[0]
				}
				e.frameBuffer.SetPixel(uint(x), uint(y), color)
			}
		}
	case 3: // Diagonal lines
		for y := 0; y < video.FramebufferHeight; y++ {
			for x := 0; x < video.FramebufferWidth; x++ {
				color := pal[2]
				if ((x+y)/testPatternTileSize)%2 == 0 {
					color = pal[1]
				}
				e.frameBuffer.SetPixel(uint(x), uint(y), color)
			}
		}
	}
}

func (e *TestPatternEmulator) animateTestPattern() {
	pal := video.DefaultPalette
	frame := e.animationCounter / testPatternAnimationFrames
	switch e.patternType {
	case 2: // Animate stripes
		for y := 0; y < video.FramebufferHeight; y++ {
			for x := 0; x < video.FramebufferWidth; x++ {
				color := pal[2]
				if ((x+frame*testPatternStripeSpeed)/testPatternStripeWidth)%2 == 0 {
					color = pal[0]
				}
				e.frameBuffer.SetPixel(uint(x), uint(y), color)
			}
		}
	case 3: // Animate diagonal
		for y := 0; y < video.FramebufferHeight; y++ {
			for x := 0; x < video.FramebufferWidth; x++ {
				color := pal[2]
				if ((x+y+frame*testPatternDiagonalSpeed)/testPatternTileSize)%2 == 0 {
					color = pal[1]
				}
				e.frameBuffer.SetPixel(uint(x), uint(y), color)
			}
		}
	}
}

func (e *TestPatternEmulator) SetFrameLimiter(limiter timing.Limiter) {
	if limiter == nil {
		e.limiter = timing.NewNoOpLimiter()
	} else {
		e.limiter = limiter
	}
}

func (e *TestPatternEmulator) ResetFrameTiming() {
	e.limiter.Reset()
}

var _ Emulator = (*TestPatternEmulator)(nil)
