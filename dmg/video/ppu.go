package video

import (
	"github.com/palebit/dmgcore/dmg/addr"
	"github.com/palebit/dmgcore/dmg/bit"
)

// Mode is the current LCD status mode, as reported through STAT bits 0-1.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMScan
	Drawing
)

const (
	dotsPerScanline   = 456
	oamScanDots       = 80
	scanlinesPerFrame = 154
	vblankStartLine   = 144
)

// Bus is the capability the PPU needs from the memory bus: byte-level
// access to VRAM/OAM/registers and interrupt requests.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
	RequestInterrupt(interrupt addr.Interrupt)
}

// PPU is the dot-accurate picture processing unit: a per-scanline state
// machine driving a background/window fetcher and a sprite fetcher into a
// shared pixel FIFO.
type PPU struct {
	bus Bus

	mode       Mode
	modeDots   int
	lineDots   int
	windowTriggeredThisFrame bool
	windowRenderedThisLine   bool

	spriteBuffer   []Sprite
	oamScanCounter int // tracks which OAM entry is next, advanced every 2 dots

	fetcher       *Fetcher
	spriteFetcher *SpriteFetcher
	fifo          PixelFIFO

	xRenderCounter int // signed; starts at -8
	frameReady     bool

	previousStatConditions uint8

	frame *FrameBuffer
	back  *FrameBuffer

	Palette Palette
}

func NewPPU(bus Bus) *PPU {
	p := &PPU{
		bus:           bus,
		mode:          OAMScan,
		fetcher:       NewFetcher(bus),
		spriteFetcher: NewSpriteFetcher(bus),
		frame:         NewFrameBuffer(),
		back:          NewFrameBuffer(),
		Palette:       DefaultPalette,
		spriteBuffer:  make([]Sprite, 0, 10),
	}
	return p
}

// Frame returns the most recently completed framebuffer.
func (p *PPU) Frame() *FrameBuffer { return p.frame }

// ConsumeFrameReady reports and clears whether a new frame completed since
// the last call.
func (p *PPU) ConsumeFrameReady() bool {
	r := p.frameReady
	p.frameReady = false
	return r
}

func (p *PPU) lcdc() uint8 { return p.bus.Read(addr.LCDC) }
func (p *PPU) stat() uint8 { return p.bus.Read(addr.STAT) }
func (p *PPU) ly() uint8   { return p.bus.Read(addr.LY) }

func (p *PPU) setLY(v uint8) { p.bus.Write(addr.LY, v) }

func (p *PPU) setStatMode(m Mode) {
	s := p.stat() & 0xFC
	s |= uint8(m)
	p.bus.Write(addr.STAT, s)
}

// Tick advances the PPU by one T-cycle (one dot on the monochrome variant).
// Call once per CPU T-cycle consumed.
func (p *PPU) Tick() {
	p.lineDots++
	p.modeDots++

	switch p.mode {
	case OAMScan:
		p.tickOAMScan()
	case Drawing:
		p.tickDrawing()
	case HBlank:
		p.tickHBlank()
	case VBlank:
		p.tickVBlank()
	}

	p.updateStat()
}

func (p *PPU) tickOAMScan() {
	if p.modeDots%2 == 0 {
		p.scanOneSprite()
	}
	if p.modeDots >= oamScanDots {
		p.sortSpriteBuffer()
		p.enterDrawing()
	}
}

func (p *PPU) scanOneSprite() {
	i := p.oamScanCounter
	if i >= 40 {
		return
	}
	p.oamScanCounter++

	base := addr.OAMStart + uint16(i*4)
	y := p.bus.Read(base)
	x := p.bus.Read(base + 1)
	tile := p.bus.Read(base + 2)
	flags := p.bus.Read(base + 3)

	spriteHeight := 8
	if bit.IsSet(2, p.lcdc()) {
		spriteHeight = 16
	}

	ly := int(p.ly())
	spriteTop := int(y) - 16
	if x > 0 && ly >= spriteTop && ly < spriteTop+spriteHeight && len(p.spriteBuffer) < 10 {
		p.spriteBuffer = append(p.spriteBuffer, ReadSprite(i, y, x, tile, flags))
	}
}

func (p *PPU) sortSpriteBuffer() {
	// stable insertion sort by ascending X; ties keep OAM-scan order
	// (i.e. ascending OAM index), matching DMG sprite-over-sprite priority.
	for i := 1; i < len(p.spriteBuffer); i++ {
		for j := i; j > 0 && p.spriteBuffer[j].X < p.spriteBuffer[j-1].X; j-- {
			p.spriteBuffer[j], p.spriteBuffer[j-1] = p.spriteBuffer[j-1], p.spriteBuffer[j]
		}
	}
}

func (p *PPU) enterDrawing() {
	p.mode = Drawing
	p.modeDots = 0
	p.xRenderCounter = -8
	p.fifo.Reset()
	p.fetcher.ResetScanline()

	if p.ly() == p.bus.Read(addr.WY) {
		p.windowTriggeredThisFrame = true
	}
}

func (p *PPU) tickDrawing() {
	if p.xRenderCounter >= FramebufferWidth {
		p.enterHBlank()
		return
	}

	lcdc := p.lcdc()
	scy := p.bus.Read(addr.SCY)
	scx := p.bus.Read(addr.SCX)
	ly := p.ly()
	wx := p.bus.Read(addr.WX)

	p.checkWindowTrigger(lcdc, wx)
	p.checkSpriteFetchStart(lcdc)

	if p.spriteFetcher.Active() {
		p.fetcher.Pause()
		if p.modeDots%2 == 0 {
			p.spriteFetcher.Step(lcdc, ly, &p.fifo)
		}
		return
	}
	if p.fetcher.Paused() {
		p.fetcher.Unpause()
	}

	if p.modeDots%2 == 0 {
		p.fetcher.Step(lcdc, scy, scx, ly, &p.fifo)
	}

	paused := p.fifo.BGLen() == 0 || p.spriteFetcher.Active()
	if paused {
		return
	}

	p.fifo.ApplyFineScroll(scx, p.fetcher.IsWindowFetch(), p.fetcher.BumpXPos)

	if p.fifo.BGLen() == 0 {
		return
	}

	color := p.fifo.Pop(lcdc, p.bus.Read(addr.BGP), p.bus.Read(addr.OBP0), p.bus.Read(addr.OBP1))

	if p.xRenderCounter >= 0 && p.xRenderCounter < FramebufferWidth {
		p.back.SetPixel(uint(p.xRenderCounter), uint(ly), p.Palette[color&0x03])
	}
	if p.fetcher.IsWindowFetch() {
		p.windowRenderedThisLine = true
	}

	p.xRenderCounter++
}

func (p *PPU) checkWindowTrigger(lcdc, wx uint8) {
	if p.fetcher.IsWindowFetch() {
		return
	}
	if !bit.IsSet(5, lcdc) || !p.windowTriggeredThisFrame {
		return
	}
	if p.xRenderCounter+7 < int(wx) {
		return
	}
	p.fifo.Reset()
	p.fetcher.TriggerWindow()
}

func (p *PPU) checkSpriteFetchStart(lcdc uint8) {
	if !bit.IsSet(1, lcdc) || p.spriteFetcher.Active() {
		return
	}
	for i, s := range p.spriteBuffer {
		if int(s.X)-8 <= p.xRenderCounter {
			p.spriteFetcher.StartFetch(s)
			p.spriteBuffer = append(p.spriteBuffer[:i], p.spriteBuffer[i+1:]...)
			return
		}
	}
}

func (p *PPU) enterHBlank() {
	p.mode = HBlank
	p.modeDots = 0
}

func (p *PPU) tickHBlank() {
	if p.lineDots >= dotsPerScanline {
		p.endScanline()
	}
}

func (p *PPU) tickVBlank() {
	if p.lineDots >= dotsPerScanline {
		p.endScanline()
	}
}

func (p *PPU) endScanline() {
	p.lineDots = 0
	ly := p.ly() + 1

	if int(ly) >= scanlinesPerFrame {
		ly = 0
		p.windowTriggeredThisFrame = false
		p.frame, p.back = p.back, p.frame
		p.frameReady = true
	}
	p.setLY(ly)

	if p.windowRenderedThisLine {
		p.fetcher.IncrementWindowLine()
	}
	p.windowRenderedThisLine = false
	p.spriteBuffer = p.spriteBuffer[:0]
	p.oamScanCounter = 0

	if int(ly) == vblankStartLine {
		p.mode = VBlank
		p.modeDots = 0
		p.bus.RequestInterrupt(addr.VBlankInterrupt)
	} else if int(ly) < vblankStartLine {
		p.mode = OAMScan
		p.modeDots = 0
	}
	// else: still within VBlank, mode stays VBlank
}

// updateStat composes the STAT register's mode bits and coincidence flag,
// and raises LCD-STAT on the rising edge of any enabled condition.
func (p *PPU) updateStat() {
	lyc := p.bus.Read(addr.LYC)
	coincidence := p.ly() == lyc

	s := p.stat()&0xF8 | uint8(p.mode)
	if coincidence {
		s |= 0x04
	}
	s |= 0x80
	p.bus.Write(addr.STAT, s)

	var conditions uint8
	if coincidence && bit.IsSet(6, s) {
		conditions |= 0x01
	}
	if p.mode == HBlank && bit.IsSet(3, s) {
		conditions |= 0x02
	}
	if p.mode == VBlank && bit.IsSet(4, s) {
		conditions |= 0x04
	}
	if p.mode == OAMScan && bit.IsSet(5, s) {
		conditions |= 0x08
	}

	if conditions != 0 && p.previousStatConditions == 0 {
		p.bus.RequestInterrupt(addr.LCDSTATInterrupt)
	}
	p.previousStatConditions = conditions
}
