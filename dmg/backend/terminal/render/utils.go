// Package render holds rendering utilities shared between the terminal
// backend's live view and headless/CLI frame snapshots.
package render

import (
	"strings"

	"github.com/palebit/dmgcore/dmg/video"
)

// PixelToShade maps a rendered 0x00RRGGBB pixel back to its DMG shade
// index (0-3) against the default palette. Pixels rendered with a custom
// palette fall back to shade 0.
func PixelToShade(pixel uint32) int {
	for idx, rgb := range video.DefaultPalette {
		if rgb == pixel {
			return idx
		}
	}
	return 0
}

// GetHalfBlockChar returns the block character that best represents a pair
// of vertically stacked shade indices using a single terminal cell.
func GetHalfBlockChar(topShade, bottomShade int) rune {
	if topShade == bottomShade {
		// Both pixels same shade - use full block
		return '█'
	} else if topShade == 3 && bottomShade != 3 {
		// Top white, bottom not - use lower half block
		return '▄'
	} else if topShade != 3 && bottomShade == 3 {
		// Top not white, bottom white - use upper half block
		return '▀'
	}
	// Mixed shades - use upper half block with appropriate colors
	return '▀'
}

// RenderFrameToHalfBlocks converts a row-major 0x00RRGGBB pixel slice into
// half-height lines of block characters, pairing each two rows of pixels
// into one line of text.
func RenderFrameToHalfBlocks(pixels []uint32, width, height int) []string {
	shades := make([]int, len(pixels))
	for i, pixel := range pixels {
		shades[i] = 0
		for idx, rgb := range video.DefaultPalette {
			if rgb == pixel {
				shades[i] = idx
				break
			}
		}
	}

	var lines []string
	for y := 0; y < height; y += 2 {
		var line strings.Builder
		for x := 0; x < width; x++ {
			top := shades[y*width+x]
			bottom := top
			if y+1 < height {
				bottom = shades[(y+1)*width+x]
			}
			line.WriteRune(GetHalfBlockChar(top, bottom))
		}
		lines = append(lines, line.String())
	}
	return lines
}
