package video

// Pixel is a single decoded pixel waiting in a FIFO.
type Pixel struct {
	Color      uint8 // 2-bit color index, 0-3
	Palette    bool  // sprite only: false = OBP0, true = OBP1
	BGPriority bool  // sprite only: bg-priority (OAM flag bit 7)
}

// pixelQueue is a small fixed-capacity ring buffer, sufficient to hold the
// at-most-16-pixel background or sprite FIFO.
type pixelQueue struct {
	data       [16]Pixel
	head, size int
}

func (q *pixelQueue) push(p Pixel) {
	q.data[(q.head+q.size)%len(q.data)] = p
	q.size++
}

func (q *pixelQueue) pop() Pixel {
	p := q.data[q.head]
	q.head = (q.head + 1) % len(q.data)
	q.size--
	return p
}

func (q *pixelQueue) peekMut(i int) *Pixel {
	return &q.data[(q.head+i)%len(q.data)]
}

func (q *pixelQueue) len() int { return q.size }

func (q *pixelQueue) clear() {
	q.head, q.size = 0, 0
}

// PixelFIFO holds the background and sprite pixel queues feeding the LCD,
// and performs the per-dot pop + DMG color mixing.
type PixelFIFO struct {
	bg     pixelQueue
	sprite pixelQueue

	fineScrollApplied bool
}

func (f *PixelFIFO) Reset() {
	f.bg.clear()
	f.sprite.clear()
	f.fineScrollApplied = false
}

func (f *PixelFIFO) BGLen() int { return f.bg.len() }

func (f *PixelFIFO) PushBG(pixels [8]Pixel) {
	for _, p := range pixels {
		f.bg.push(p)
	}
}

// MergeSprite overlays up to 8 freshly fetched sprite pixels onto the sprite
// FIFO starting at its front. Existing sprite pixels win when they are
// already opaque (non-zero color) - this is how overlapping sprites keep the
// pixels claimed by a higher-priority sprite fetched earlier.
func (f *PixelFIFO) MergeSprite(pixels [8]Pixel, count int) {
	for f.sprite.len() < count {
		f.sprite.push(Pixel{})
	}
	for i := 0; i < count; i++ {
		existing := f.sprite.peekMut(i)
		if existing.Color == 0 {
			*existing = pixels[i]
		}
	}
}

// ApplyFineScroll discards SCX mod 8 pixels from the front of the background
// FIFO, once per scanline, before the first pop. Skipped entirely for
// window fetches, which are not scroll-affected.
func (f *PixelFIFO) ApplyFineScroll(scx uint8, isWindow bool, onDiscard func()) {
	if isWindow || f.fineScrollApplied {
		return
	}
	discard := int(scx % 8)
	if f.bg.len() <= discard {
		return
	}
	for i := 0; i < discard; i++ {
		f.bg.pop()
		onDiscard()
	}
	f.fineScrollApplied = true
}

// Pop removes one pixel from each FIFO (sprite optional) and mixes them per
// the DMG priority rule. The caller guarantees the background FIFO is
// non-empty.
func (f *PixelFIFO) Pop(lcdc, bgp, obp0, obp1 uint8) uint8 {
	bg := f.bg.pop()

	color := bg.Color
	if lcdc&0x01 == 0 {
		color = 0
	}
	color = (bgp >> (color * 2)) & 0x03

	if f.sprite.len() > 0 {
		sp := f.sprite.pop()
		if lcdc&0x02 != 0 && sp.Color != 0 {
			if !sp.BGPriority || color == 0 {
				obp := obp0
				if sp.Palette {
					obp = obp1
				}
				color = (obp >> (sp.Color * 2)) & 0x03
			}
		}
	}

	return color
}
