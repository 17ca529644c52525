package memory

import "testing"

func TestMBC5(t *testing.T) {
	t.Run("9-bit ROM Bank Split Across Two Write Regions", func(t *testing.T) {
		rom := make([]uint8, 256*0x4000)
		for i := range rom {
			rom[i] = uint8(i / 0x4000)
		}
		mbc := NewMBC5(rom, false, false, 0)

		mbc.Write(0x2000, 0xFF) // low 8 bits
		mbc.Write(0x3000, 0x01) // bit 8
		if mbc.romBank != 0x1FF {
			t.Errorf("romBank = 0x%03X; want 0x1FF", mbc.romBank)
		}
		if got := mbc.Read(0x4000); got != uint8(0x1FF%256) {
			t.Errorf("Read(0x4000) = %d; want %d", got, uint8(0x1FF%256))
		}
	})

	t.Run("Bank 0 Is Directly Addressable, Unlike MBC1", func(t *testing.T) {
		rom := make([]uint8, 4*0x4000)
		for i := range rom {
			rom[i] = uint8(i / 0x4000)
		}
		mbc := NewMBC5(rom, false, false, 0)
		mbc.Write(0x2000, 0x00)
		if got := mbc.Read(0x4000); got != 0 {
			t.Errorf("Read(0x4000) with bank 0 selected = %d; want 0 (no bank-0 translation on MBC5)", got)
		}
	})

	t.Run("RAM Banking", func(t *testing.T) {
		mbc := NewMBC5(make([]uint8, 0x8000), false, false, 4)
		mbc.Write(0x0000, 0x0A)
		mbc.Write(0x4000, 3)
		mbc.Write(0xA000, 0x99)
		if got := mbc.Read(0xA000); got != 0x99 {
			t.Errorf("Read(0xA000) = 0x%02X; want 0x99", got)
		}
	})

	t.Run("RAM Disabled By Default", func(t *testing.T) {
		mbc := NewMBC5(make([]uint8, 0x8000), false, false, 1)
		if got := mbc.Read(0xA000); got != 0xFF {
			t.Errorf("Read from disabled RAM = 0x%02X; want 0xFF", got)
		}
	})
}
