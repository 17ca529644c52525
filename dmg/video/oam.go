package video

import "github.com/palebit/dmgcore/dmg/bit"

// Sprite is a single object attribute entry, as found in OAM at
// 4 bytes per entry: Y, X, tile index, flags.
type Sprite struct {
	Y         uint8
	X         uint8
	TileIndex uint8
	Flags     uint8
	OAMIndex  int
}

func (s Sprite) PaletteOBP1() bool { return bit.IsSet(4, s.Flags) }
func (s Sprite) FlipX() bool       { return bit.IsSet(5, s.Flags) }
func (s Sprite) FlipY() bool       { return bit.IsSet(6, s.Flags) }
func (s Sprite) BehindBG() bool    { return bit.IsSet(7, s.Flags) }

// ReadSprite decodes the sprite at the given OAM index (0-39) from raw bytes.
func ReadSprite(oamIndex int, y, x, tile, flags uint8) Sprite {
	return Sprite{Y: y, X: x, TileIndex: tile, Flags: flags, OAMIndex: oamIndex}
}
