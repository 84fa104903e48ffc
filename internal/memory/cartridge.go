package memory

import "fmt"

// bankSize is the size in bytes of one 16 KiB ROM bank.
const bankSize = 0x4000

// Cartridge holds the fixed two-bank ROM image the bus exposes at
// 0x0000-0x7FFF. No MBC banking is modeled; banks beyond the first two are
// out of scope (spec Non-goals).
type Cartridge struct {
	rom0 [bankSize]uint8
	rom1 [bankSize]uint8
	size int
}

// NewCartridge loads a ROM image. Bytes beyond 32 KiB are ignored; a short
// image leaves the remainder of the banks zero-filled.
func NewCartridge(data []uint8) (*Cartridge, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("rom image is empty")
	}

	c := &Cartridge{size: len(data)}
	copy(c.rom0[:], data)
	if len(data) > bankSize {
		copy(c.rom1[:], data[bankSize:])
	}
	return c, nil
}

// Read8 reads a byte from ROM0 (0x0000-0x3FFF) or ROM1 (0x4000-0x7FFF).
func (c *Cartridge) Read8(addr uint16) uint8 {
	if addr < bankSize {
		return c.rom0[addr]
	}
	return c.rom1[addr-bankSize]
}

// Size returns the number of bytes actually loaded from the source image.
func (c *Cartridge) Size() int {
	return c.size
}
