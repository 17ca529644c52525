package bit

import "testing"

func TestIsSet(t *testing.T) {
	tests := []struct {
		byte     uint8
		index    uint8
		expected bool
	}{
		{0b10101010, 0, false},
		{0b10101010, 1, true},
		{0b10101010, 2, false},
		{0b10101010, 7, true},
	}

	for _, tt := range tests {
		if got := IsSet(tt.index, tt.byte); got != tt.expected {
			t.Errorf("IsSet(%d, %08b) = %v; want %v", tt.index, tt.byte, got, tt.expected)
		}
	}
}

func TestIsSet16(t *testing.T) {
	tests := []struct {
		value    uint16
		index    uint16
		expected bool
	}{
		{0x8000, 15, true},
		{0x8000, 14, false},
		{0x0001, 0, true},
	}

	for _, tt := range tests {
		if got := IsSet16(tt.index, tt.value); got != tt.expected {
			t.Errorf("IsSet16(%d, %016b) = %v; want %v", tt.index, tt.value, got, tt.expected)
		}
	}
}

func TestSetClearReset(t *testing.T) {
	const start uint8 = 0b10101010

	if got := Set(0, start); got != 0b10101011 {
		t.Errorf("Set(0, %08b) = %08b; want %08b", start, got, 0b10101011)
	}
	if got := Clear(1, start); got != 0b10101000 {
		t.Errorf("Clear(1, %08b) = %08b; want %08b", start, got, 0b10101000)
	}
	if got := Reset(7, start); got != 0b00101010 {
		t.Errorf("Reset(7, %08b) = %08b; want %08b", start, got, 0b00101010)
	}
	// Reset and Clear must agree: Clear is just Reset under another name.
	for i := uint8(0); i < 8; i++ {
		if Clear(i, start) != Reset(i, start) {
			t.Errorf("Clear(%d, ...) and Reset(%d, ...) disagree", i, i)
		}
	}
}

func TestExtractBits(t *testing.T) {
	tests := []struct {
		value           uint8
		highBit, lowBit uint8
		expected        uint8
	}{
		{0b11010110, 6, 4, 0b101},
		{0b11010110, 7, 0, 0b11010110},
		{0b11010110, 0, 0, 0},
		{0b11010110, 1, 1, 1},
	}

	for _, tt := range tests {
		if got := ExtractBits(tt.value, tt.highBit, tt.lowBit); got != tt.expected {
			t.Errorf("ExtractBits(%08b, %d, %d) = %03b; want %03b", tt.value, tt.highBit, tt.lowBit, got, tt.expected)
		}
	}
}

func TestCombineLowHigh(t *testing.T) {
	tests := []struct {
		high, low uint8
		combined  uint16
	}{
		{0xAB, 0xCD, 0xABCD},
		{0x00, 0x00, 0x0000},
		{0xFF, 0xFF, 0xFFFF},
		{0x12, 0x34, 0x1234},
	}

	for _, tt := range tests {
		if got := Combine(tt.high, tt.low); got != tt.combined {
			t.Errorf("Combine(%X, %X) = %X; want %X", tt.high, tt.low, got, tt.combined)
		}
		if got := Low(tt.combined); got != tt.low {
			t.Errorf("Low(%X) = %X; want %X", tt.combined, got, tt.low)
		}
		if got := High(tt.combined); got != tt.high {
			t.Errorf("High(%X) = %X; want %X", tt.combined, got, tt.high)
		}
	}
}
