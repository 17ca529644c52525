package memory

import "testing"

func TestMBC3(t *testing.T) {
	t.Run("ROM Bank Switching", func(t *testing.T) {
		rom := make([]uint8, 4*0x4000)
		for i := range rom {
			rom[i] = uint8(i / 0x4000)
		}
		mbc := NewMBC3(rom, 0, false, false)
		mbc.Write(0x2000, 3)
		if got := mbc.Read(0x4000); got != 3 {
			t.Errorf("Read(0x4000) = %d; want 3", got)
		}
	})

	t.Run("Bank 0 Translates To 1", func(t *testing.T) {
		mbc := NewMBC3(make([]uint8, 4*0x4000), 0, false, false)
		mbc.Write(0x2000, 0)
		if mbc.romBank != 1 {
			t.Errorf("romBank = %d; want 1", mbc.romBank)
		}
	})

	t.Run("RAM Banking", func(t *testing.T) {
		mbc := NewMBC3(make([]uint8, 0x8000), 4, false, false)
		mbc.Write(0x0000, 0x0A) // enable
		mbc.Write(0x4000, 2)    // select RAM bank 2
		mbc.Write(0xA000, 0x77)
		if got := mbc.Read(0xA000); got != 0x77 {
			t.Errorf("Read(0xA000) = 0x%02X; want 0x77", got)
		}
		mbc.Write(0x4000, 0)
		if got := mbc.Read(0xA000); got == 0x77 {
			t.Errorf("bank 0 unexpectedly aliases bank 2's value")
		}
	})

	t.Run("RTC Register Selection Without RTC Hardware Falls Back To Disabled", func(t *testing.T) {
		mbc := NewMBC3(make([]uint8, 0x8000), 0, false, false)
		mbc.Write(0x0000, 0x0A)
		mbc.Write(0x4000, 0x08) // would select seconds if hasRTC
		if got := mbc.Read(0xA000); got != 0xFF {
			t.Errorf("Read with no RAM banks and no RTC = 0x%02X; want 0xFF", got)
		}
	})

	t.Run("RTC Latch Sequence Snapshots Live Registers", func(t *testing.T) {
		mbc := NewMBC3(make([]uint8, 0x8000), 0, true, false)
		mbc.Write(0x0000, 0x0A)

		mbc.Tick(cyclesPerSecond * 65) // 1 minute, 5 seconds

		mbc.Write(0x6000, 0x00)
		mbc.Write(0x6000, 0x01) // latch

		mbc.Write(0x4000, 0x08) // select latched seconds
		if got := mbc.Read(0xA000); got != 5|0xC0 {
			t.Errorf("latched seconds = 0x%02X; want 0x%02X", got, 5|0xC0)
		}
		mbc.Write(0x4000, 0x09) // select latched minutes
		if got := mbc.Read(0xA000); got != 1|0xC0 {
			t.Errorf("latched minutes = 0x%02X; want 0x%02X", got, 1|0xC0)
		}
	})

	t.Run("RTC Read Before First Latch Returns 0xFF", func(t *testing.T) {
		mbc := NewMBC3(make([]uint8, 0x8000), 0, true, false)
		mbc.Write(0x0000, 0x0A)
		mbc.Tick(cyclesPerSecond * 5) // clock is running, but never latched

		mbc.Write(0x4000, 0x08) // select seconds
		if got := mbc.Read(0xA000); got != 0xFF {
			t.Errorf("unlatched RTC read = 0x%02X; want 0xFF", got)
		}
	})

	t.Run("RTC Read Masks Unimplemented Bits", func(t *testing.T) {
		mbc := NewMBC3(make([]uint8, 0x8000), 0, true, false)
		mbc.Write(0x0000, 0x0A)

		mbc.rtc[0] = 30         // seconds
		mbc.rtc[1] = 45         // minutes
		mbc.rtc[2] = 17         // hours
		mbc.rtc[3] = 0xAB       // day-low, all 8 bits significant
		mbc.rtc[4] = 0x81       // day-carry set, day-high bit 0 set

		mbc.Write(0x6000, 0x00)
		mbc.Write(0x6000, 0x01) // latch

		cases := []struct {
			reg  uint8
			want uint8
		}{
			{0x08, 30 | 0xC0},
			{0x09, 45 | 0xC0},
			{0x0A, 17 | 0xE0},
			{0x0B, 0xAB},
			{0x0C, 0x81 | 0x3E},
		}
		for _, tc := range cases {
			mbc.Write(0x4000, tc.reg)
			if got := mbc.Read(0xA000); got != tc.want {
				t.Errorf("register 0x%02X = 0x%02X; want 0x%02X", tc.reg, got, tc.want)
			}
		}
	})

	t.Run("RTC Day Counter Rolls Over And Sets Carry Flag", func(t *testing.T) {
		mbc := NewMBC3(make([]uint8, 0x8000), 0, true, false)
		mbc.rtc[3] = 0xFF
		mbc.rtc[4] = 0x01 // day high bit set -> day 511
		mbc.Tick(cyclesPerSecond * 60 * 60 * 24)
		if mbc.rtc[4]&0x80 == 0 {
			t.Errorf("day-carry flag not set after rollover past day 511")
		}
		if mbc.rtc[3] != 0 || mbc.rtc[4]&0x01 != 0 {
			t.Errorf("day counter did not reset to 0 after carry, got low=%d high-bit=%d", mbc.rtc[3], mbc.rtc[4]&0x01)
		}
	})

	t.Run("Halt Flag Freezes The Clock", func(t *testing.T) {
		mbc := NewMBC3(make([]uint8, 0x8000), 0, true, false)
		mbc.rtc[4] = 0x40 // halted
		mbc.Tick(cyclesPerSecond * 10)
		if mbc.rtc[0] != 0 {
			t.Errorf("seconds advanced while halted: %d", mbc.rtc[0])
		}
	})
}
