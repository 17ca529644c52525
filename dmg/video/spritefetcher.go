package video

import "github.com/palebit/dmgcore/dmg/bit"

// SpriteFetcher implements the 3-step sprite fetch: low byte, high byte,
// merge into the sprite FIFO. While active it pauses the background
// fetcher and stalls pixel output.
type SpriteFetcher struct {
	bus fetcherBus

	step         int
	tileDataLow  uint8
	tileDataHigh uint8

	active   bool
	sprite   Sprite
	leading  int // number of leading pixels already off-screen (sprite.X<8 case)
}

func NewSpriteFetcher(bus fetcherBus) *SpriteFetcher {
	return &SpriteFetcher{bus: bus}
}

func (f *SpriteFetcher) Active() bool { return f.active }

// StartFetch begins fetching the given sprite.
func (f *SpriteFetcher) StartFetch(s Sprite) {
	f.active = true
	f.step = 0
	f.sprite = s
	f.leading = 0
	if s.X < 8 {
		f.leading = 8 - int(s.X)
	}
}

func (f *SpriteFetcher) fetchTileData(lcdc, ly uint8) {
	spriteHeight := 8
	if bit.IsSet(2, lcdc) {
		spriteHeight = 16
	}

	relativeY := int(ly) - (int(f.sprite.Y) - 16)
	if f.sprite.FlipY() {
		relativeY = (spriteHeight - 1) - relativeY
	}

	tile := f.sprite.TileIndex
	if spriteHeight == 16 {
		isBottomHalf := relativeY >= 8
		if isBottomHalf {
			tile |= 0x01
			relativeY -= 8
		} else {
			tile &^= 0x01
		}
	}

	base := 0x8000 + uint16(tile)*16
	yOffset := uint16(relativeY * 2)

	switch f.step {
	case 0:
		f.tileDataLow = f.bus.Read(base + yOffset)
	case 1:
		f.tileDataHigh = f.bus.Read(base + yOffset + 1)
	}
}

func (f *SpriteFetcher) decodedRow() [8]Pixel {
	var row [8]Pixel
	for i := 0; i < 8; i++ {
		bitIndex := uint8(i)
		if !f.sprite.FlipX() {
			bitIndex = uint8(7 - i)
		}
		color := uint8(0)
		if bit.IsSet(bitIndex, f.tileDataLow) {
			color |= 1
		}
		if bit.IsSet(bitIndex, f.tileDataHigh) {
			color |= 2
		}
		row[i] = Pixel{
			Color:      color,
			Palette:    f.sprite.PaletteOBP1(),
			BGPriority: f.sprite.BehindBG(),
		}
	}
	return row
}

// Step advances the sprite fetch by one state, called every two dots while
// active. Returns true once the fetch has merged pixels into the FIFO and
// the fetcher has gone idle again.
func (f *SpriteFetcher) Step(lcdc, ly uint8, fifo *PixelFIFO) bool {
	if !f.active {
		return false
	}

	switch f.step {
	case 0:
		f.fetchTileData(lcdc, ly)
		f.step = 1
	case 1:
		f.fetchTileData(lcdc, ly)
		f.step = 2
	case 2:
		row := f.decodedRow()
		count := 8 - f.leading
		var shifted [8]Pixel
		copy(shifted[:], row[f.leading:])
		fifo.MergeSprite(shifted, count)
		f.active = false
		f.step = 0
		return true
	}
	return false
}
