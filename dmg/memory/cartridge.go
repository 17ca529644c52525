package memory

import (
	"strings"
	"unicode"

	"github.com/palebit/dmgcore/dmg/bit"
)

const titleLength = 11

const (
	entryPointAddress       = 0x100
	logoAddress             = 0x104
	titleAddress            = 0x134
	manufacturerCodeAddress = 0x13F
	cgbFlagAddress          = 0x143
	newLicenseCodeAddress   = 0x144
	sgbFlagAddress          = 0x146
	cartridgeTypeAddress    = 0x147
	romSizeAddress          = 0x148
	ramSizeAddress          = 0x149
	destinationCodeAddress  = 0x14A
	oldLicenseCodeAddress   = 0x14B
	versionNumberAddress    = 0x14C
	headerChecksumAddress   = 0x14D
	globalChecksumAddress   = 0x14E
)

// MBCType identifies the memory bank controller a cartridge was built for, as
// decoded from the byte at 0x147 of the header.
type MBCType uint8

const (
	NoMBCType MBCType = iota
	MBC1Type
	MBC1MultiType
	MBC2Type
	MBC3Type
	MBC5Type
	MBCUnknownType
)

// ramBankCountTable maps the RAM-size header byte (0x149) to a bank count,
// each bank being 8KB. 0x149 == 0x01 was an early, never-finalized 2KB size
// and is treated as zero banks, per the canonical table.
var ramBankCountTable = map[uint8]uint8{
	0x00: 0,
	0x01: 0,
	0x02: 1,
	0x03: 4,
	0x04: 16,
	0x05: 8,
}

// Cartridge holds the raw ROM image plus the header fields needed to select
// and configure a memory bank controller.
type Cartridge struct {
	data           []byte
	title          string
	headerChecksum uint16
	globalChecksum uint16
	version        uint8
	cartType       uint8
	romSize        uint8
	ramSize        uint8

	mbcType      MBCType
	hasBattery   bool
	hasRTC       bool
	hasRumble    bool
	ramBankCount uint8
}

// NewCartridge creates an empty cartridge with no MBC, useful for running
// the CPU/PPU without a ROM loaded.
func NewCartridge() *Cartridge {
	return &Cartridge{
		data:    make([]byte, 0x10000),
		mbcType: NoMBCType,
	}
}

// NewCartridgeWithData parses a ROM image's header and returns a Cartridge
// describing it. The caller selects and constructs the MBC via NewWithCartridge.
func NewCartridgeWithData(bytes []byte) *Cartridge {
	titleBytes := bytes[titleAddress : titleAddress+titleLength]

	cart := &Cartridge{
		data:           make([]byte, len(bytes)),
		title:          cleanGameboyTitle(titleBytes),
		headerChecksum: bit.Combine(bytes[headerChecksumAddress+1], bytes[headerChecksumAddress]),
		globalChecksum: bit.Combine(bytes[globalChecksumAddress+1], bytes[globalChecksumAddress]),
		version:        bytes[versionNumberAddress],
		cartType:       bytes[cartridgeTypeAddress],
		romSize:        bytes[romSizeAddress],
		ramSize:        bytes[ramSizeAddress],
	}
	copy(cart.data, bytes)

	cart.mbcType, cart.hasBattery, cart.hasRTC, cart.hasRumble = decodeCartType(cart.cartType)
	cart.ramBankCount = ramBankCountTable[cart.ramSize]

	return cart
}

// decodeCartType maps the 0x147 header byte to an MBC family plus the
// battery/RTC/rumble extras, per the canonical cartridge-type table.
func decodeCartType(cartType uint8) (mbc MBCType, battery, rtc, rumble bool) {
	switch cartType {
	case 0x00:
		return NoMBCType, false, false, false
	case 0x01:
		return MBC1Type, false, false, false
	case 0x02:
		return MBC1Type, false, false, false
	case 0x03:
		return MBC1Type, true, false, false
	case 0x05:
		return MBC2Type, false, false, false
	case 0x06:
		return MBC2Type, true, false, false
	case 0x0F:
		return MBC3Type, true, true, false
	case 0x10:
		return MBC3Type, true, true, false
	case 0x11:
		return MBC3Type, false, false, false
	case 0x12:
		return MBC3Type, false, false, false
	case 0x13:
		return MBC3Type, true, false, false
	case 0x19:
		return MBC5Type, false, false, false
	case 0x1A:
		return MBC5Type, false, false, false
	case 0x1B:
		return MBC5Type, true, false, false
	case 0x1C:
		return MBC5Type, false, false, true
	case 0x1D:
		return MBC5Type, false, false, true
	case 0x1E:
		return MBC5Type, true, false, true
	default:
		return MBCUnknownType, false, false, false
	}
}

// ReadByte reads a byte at the specified address. Does not check bounds, so the caller must make sure the
// address is valid for the cartridge.
func (c Cartridge) ReadByte(addr uint16) uint8 {
	return c.data[addr]
}

// Title returns the cleaned cartridge title from the header.
func (c Cartridge) Title() string { return c.title }

// cleanGameboyTitle turns the raw 11-byte header title field into a
// printable string: NUL padding becomes trailing spaces (trimmed),
// non-printable bytes become '?', and an all-NUL title reads as "(Untitled)".
// Bytes are mapped to runes one at a time rather than decoded as UTF-8,
// since header bytes above 0x7F aren't valid UTF-8 continuation sequences.
func cleanGameboyTitle(titleBytes []byte) string {
	var b strings.Builder
	b.Grow(len(titleBytes))
	for _, raw := range titleBytes {
		switch r := rune(raw); {
		case r == 0:
			b.WriteRune(' ')
		case !unicode.IsPrint(r):
			b.WriteRune('?')
		default:
			b.WriteRune(r)
		}
	}

	title := strings.TrimSpace(b.String())
	if title == "" {
		return "(Untitled)"
	}
	return title
}
