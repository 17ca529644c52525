package video

const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
	FramebufferSize   = FramebufferWidth * FramebufferHeight
)

// Palette maps a 2-bit color index (0-3) to a display color encoded
// 0x00RRGGBB. Index order follows the DMG convention: 0 is the lightest
// shade, 3 the darkest, matching how BGP/OBP0/OBP1 pack their four
// 2-bit fields.
type Palette [4]uint32

// DefaultPalette approximates the classic green-grey DMG screen.
var DefaultPalette = Palette{
	0x00E0F8D0,
	0x0088C070,
	0x00346856,
	0x00081820,
}

// FrameBuffer holds one rendered frame as 0x00RRGGBB pixels, row-major.
type FrameBuffer struct {
	width, height uint
	buffer        []uint32
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		width:  FramebufferWidth,
		height: FramebufferHeight,
		buffer: make([]uint32, FramebufferSize),
	}
}

func (fb *FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*fb.width+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, color uint32) {
	fb.buffer[y*fb.width+x] = color
}

// ToSlice returns the raw pixel data, row-major, one 0x00RRGGBB value per pixel.
func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}

func (fb *FrameBuffer) Clear() {
	for i := range fb.buffer {
		fb.buffer[i] = 0
	}
}

// ToGrayscale converts each pixel back to its DMG shade index (0-3) against
// the given palette, for golden-image test comparisons independent of the
// concrete RGB values chosen for a palette.
func (fb *FrameBuffer) ToGrayscale(pal Palette) []byte {
	data := make([]byte, len(fb.buffer))
	for i, pixel := range fb.buffer {
		for shade, rgb := range pal {
			if rgb == pixel {
				data[i] = byte(shade)
				break
			}
		}
	}
	return data
}
