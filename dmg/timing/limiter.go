// Package timing paces frame production against wall-clock time: the DMG
// produces a frame every 70224 T-cycles, but the CPU interpreter itself runs
// as fast as the host lets it, so something has to hold it back to ~59.7 Hz
// for interactive play. Headless/benchmark runs skip pacing entirely.
package timing

import "time"

// Limiter is how console.DMG.RunUntilFrame paces itself between frames.
type Limiter interface {
	// WaitForNextFrame blocks until the next frame's target time, or
	// returns immediately if the emulator has fallen behind schedule.
	WaitForNextFrame()

	// Reset re-anchors the limiter's clock, for use after a pause/resume.
	Reset()
}

// NewNoOpLimiter returns a Limiter that never blocks. Used by headless runs
// and benchmarks, which want the emulator to run flat out.
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// DMG hardware timing constants: a frame is one full pass over all 154
// scanlines (70224 T-cycles) at the fixed 4.194304 MHz master clock.
const (
	CyclesPerFrame = 70224
	CPUFrequency   = 4194304
)

// TargetFPS is the DMG's native frame rate, ~59.7275 Hz.
func TargetFPS() float64 {
	return float64(CPUFrequency) / float64(CyclesPerFrame)
}

// FrameDuration is the wall-clock time one frame should take at TargetFPS.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}
