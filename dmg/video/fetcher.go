package video

import "github.com/palebit/dmgcore/dmg/bit"

// fetcherBus is the narrow read capability the background fetcher needs.
type fetcherBus interface {
	Read(addr uint16) byte
}

// fetcherState is the subset of Fetcher saved/restored across a pause
// (triggered by a concurrent sprite fetch).
type fetcherState struct {
	step         int
	tileNumber   uint8
	tileDataLow  uint8
	tileDataHigh uint8
}

// Fetcher implements the background/window pixel fetcher: a 4-step state
// machine that reads one tile row every two dots from VRAM via the tile
// map and tile data areas selected by LCDC.
type Fetcher struct {
	bus fetcherBus

	step         int
	tileNumber   uint8
	tileDataLow  uint8
	tileDataHigh uint8

	isWindowFetch bool

	xPosCounter       int
	windowLineCounter int

	paused bool
	saved  fetcherState
}

func NewFetcher(bus fetcherBus) *Fetcher {
	return &Fetcher{bus: bus}
}

// ResetScanline is called once at the start of each scanline's Drawing mode.
func (f *Fetcher) ResetScanline() {
	f.step = 0
	f.tileNumber = 0
	f.tileDataLow = 0
	f.tileDataHigh = 0
	f.isWindowFetch = false
	f.xPosCounter = 0
	f.paused = false
}

func (f *Fetcher) Pause() {
	if f.paused {
		return
	}
	f.paused = true
	f.saved = fetcherState{f.step, f.tileNumber, f.tileDataLow, f.tileDataHigh}
}

func (f *Fetcher) Unpause() {
	f.paused = false
	f.step, f.tileNumber, f.tileDataLow, f.tileDataHigh = f.saved.step, f.saved.tileNumber, f.saved.tileDataLow, f.saved.tileDataHigh
}

func (f *Fetcher) Paused() bool { return f.paused }

// BumpXPos advances the tile-fetch x position counter by one pixel; used
// when a fine-scroll pixel is discarded from the already-fetched FIFO
// without going through a full fetch step.
func (f *Fetcher) BumpXPos() { f.xPosCounter++ }

// TriggerWindow switches the fetcher into window-fetch mode starting at the
// current render column; called once per scanline when the window becomes
// visible. The caller is responsible for clearing the pixel FIFO.
func (f *Fetcher) TriggerWindow() {
	f.step = 0
	f.isWindowFetch = true
	f.xPosCounter = 0
}

// IsWindowFetch reports whether the fetcher is currently producing window
// tiles rather than background tiles.
func (f *Fetcher) IsWindowFetch() bool { return f.isWindowFetch }

// IncrementWindowLine bumps the window-line counter; called at most once per
// scanline, only when the window was actually rendered on it.
func (f *Fetcher) IncrementWindowLine() {
	f.windowLineCounter++
}

func (f *Fetcher) tileMapBase(lcdc uint8) uint16 {
	var bitIndex uint8 = 3
	if f.isWindowFetch {
		bitIndex = 6
	}
	if bit.IsSet(bitIndex, lcdc) {
		return 0x9C00
	}
	return 0x9800
}

func (f *Fetcher) fetchTileNumber(lcdc, scy, scx uint8, ly uint8) {
	base := f.tileMapBase(lcdc)

	var tileY, tileX int
	if f.isWindowFetch {
		tileY = f.windowLineCounter / 8
		tileX = (f.xPosCounter / 8) & 0x1F
	} else {
		tileY = ((int(ly) + int(scy)) / 8) & 0x1F
		tileX = (int(scx)/8 + f.xPosCounter/8) & 0x1F
	}

	offset := uint16(tileY*32+tileX) & 0x3FF
	f.tileNumber = f.bus.Read(base + offset)
}

func (f *Fetcher) fetchTileData(lcdc, scy, ly uint8) {
	var base uint16
	if bit.IsSet(4, lcdc) {
		base = 0x8000 + uint16(f.tileNumber)*16
	} else {
		base = uint16(int32(0x9000) + int32(int8(f.tileNumber))*16)
	}

	var lineInTile int
	if f.isWindowFetch {
		lineInTile = f.windowLineCounter % 8
	} else {
		lineInTile = (int(ly) + int(scy)) % 8
	}
	yOffset := uint16(lineInTile * 2)

	switch f.step {
	case 1:
		f.tileDataLow = f.bus.Read(base + yOffset)
	case 2:
		f.tileDataHigh = f.bus.Read(base + yOffset + 1)
	}
}

// decodedRow expands the fetched low/high byte pair into 8 Pixel values,
// bit 7 (leftmost) first.
func (f *Fetcher) decodedRow() [8]Pixel {
	var row [8]Pixel
	for i := 0; i < 8; i++ {
		bitIndex := uint8(7 - i)
		color := uint8(0)
		if bit.IsSet(bitIndex, f.tileDataLow) {
			color |= 1
		}
		if bit.IsSet(bitIndex, f.tileDataHigh) {
			color |= 2
		}
		row[i] = Pixel{Color: color}
	}
	return row
}

// Step advances the fetcher one of its four states. The caller invokes this
// once every two dots while in Drawing mode (and the fetcher is not
// paused). Returns true once the step pushed a full row to the FIFO and
// reset back to step 0, ready to start the next tile.
func (f *Fetcher) Step(lcdc, scy, scx, ly uint8, fifo *PixelFIFO) bool {
	switch f.step {
	case 0:
		f.fetchTileNumber(lcdc, scy, scx, ly)
		f.step = 1
	case 1:
		f.fetchTileData(lcdc, scy, ly)
		f.step = 2
	case 2:
		f.fetchTileData(lcdc, scy, ly)
		f.step = 3
	case 3:
		if fifo.BGLen() == 0 {
			fifo.PushBG(f.decodedRow())
			f.xPosCounter += 8
			f.step = 0
			return true
		}
	}
	return false
}
