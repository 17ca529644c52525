package video

import (
	"testing"

	"github.com/palebit/dmgcore/dmg/addr"
	"github.com/palebit/dmgcore/dmg/memory"
)

func TestPPUFullFrame_BlankScreenMatchesBackgroundPalette(t *testing.T) {
	bus := memory.New()
	bus.Write(addr.LCDC, 0x91) // LCD on, BG on, tile data at 0x8000
	bus.Write(addr.BGP, 0xE4)  // identity mapping: index n -> shade n

	ppu := NewPPU(bus)

	const cyclesPerFrame = dotsPerScanline * scanlinesPerFrame
	vblankCount := 0
	seenLY := make(map[uint8]bool)

	for i := 0; i < cyclesPerFrame; i++ {
		before := bus.Read(addr.IF) & byte(addr.VBlankInterrupt)
		ppu.Tick()
		after := bus.Read(addr.IF) & byte(addr.VBlankInterrupt)
		if before == 0 && after != 0 {
			vblankCount++
		}
		seenLY[bus.Read(addr.LY)] = true
	}

	if vblankCount != 1 {
		t.Errorf("expected VBlank interrupt raised exactly once, got %d", vblankCount)
	}
	for ly := uint8(0); ly < scanlinesPerFrame; ly++ {
		if !seenLY[ly] {
			t.Errorf("LY never took value %d during the frame", ly)
		}
	}

	if !ppu.ConsumeFrameReady() {
		t.Fatal("expected frame to be ready after 70224 dots")
	}

	expected := DefaultPalette[0xE4&0x03]
	frame := ppu.Frame()
	for y := uint(0); y < FramebufferHeight; y++ {
		for x := uint(0); x < FramebufferWidth; x++ {
			if got := frame.GetPixel(x, y); got != expected {
				t.Fatalf("pixel (%d,%d) = %#x, want %#x", x, y, got, expected)
			}
		}
	}
}

func TestPPUScanlineTiming(t *testing.T) {
	bus := memory.New()
	bus.Write(addr.LCDC, 0x91)
	ppu := NewPPU(bus)

	startLY := bus.Read(addr.LY)
	dots := 0
	for bus.Read(addr.LY) == startLY {
		ppu.Tick()
		dots++
		if dots > dotsPerScanline+1 {
			t.Fatalf("scanline did not advance within %d dots", dotsPerScanline)
		}
	}
	if dots != dotsPerScanline {
		t.Errorf("scanline took %d dots, want %d", dots, dotsPerScanline)
	}
}

func TestPPUModeSequencePerScanline(t *testing.T) {
	bus := memory.New()
	bus.Write(addr.LCDC, 0x91)
	ppu := NewPPU(bus)

	if ppu.mode != OAMScan {
		t.Fatalf("initial mode = %v, want OAMScan", ppu.mode)
	}

	sawDrawing := false
	sawHBlank := false
	for i := 0; i < dotsPerScanline; i++ {
		ppu.Tick()
		switch ppu.mode {
		case Drawing:
			sawDrawing = true
		case HBlank:
			sawHBlank = true
		}
	}
	if !sawDrawing {
		t.Error("scanline never entered Drawing mode")
	}
	if !sawHBlank {
		t.Error("scanline never entered HBlank mode")
	}
}

func TestPPUConsumeFrameReadyIsOneShot(t *testing.T) {
	bus := memory.New()
	bus.Write(addr.LCDC, 0x91)
	ppu := NewPPU(bus)

	for i := 0; i < dotsPerScanline*scanlinesPerFrame; i++ {
		ppu.Tick()
	}

	if !ppu.ConsumeFrameReady() {
		t.Fatal("expected frame ready after one full frame")
	}
	if ppu.ConsumeFrameReady() {
		t.Fatal("ConsumeFrameReady should be false immediately after being consumed")
	}
}
