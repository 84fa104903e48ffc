package ppu

// The real hardware builds each scanline one pixel at a time out of a
// background/window FIFO and an object FIFO, with the fetcher's tile-index/
// tile-low/tile-high/push state machine interleaved per §4.3.1 whenever a
// cached sprite's X coincides with the current output column. Nothing
// outside the PPU observes a scanline before it is complete, so this core
// produces the same pixels by evaluating that fetch-interrupt algorithm for
// the whole line in one pass at PixelTransfer's end (renderScanline, in
// scanline.go) instead of one fetcher step per dot. The addressing and
// compositing rules below are exactly what the per-dot fetcher would compute.

func (p *PPU) bgTileMapBase() uint16 {
	if p.lcdc&0x08 != 0 {
		return 0x9C00
	}
	return 0x9800
}

func (p *PPU) windowTileMapBase() uint16 {
	if p.lcdc&0x40 != 0 {
		return 0x9C00
	}
	return 0x9800
}

// tileDataAddr resolves a tile index to its pattern-table address under
// LCDC bit 4's addressing mode: unsigned from 0x8000, or signed from 0x9000.
func (p *PPU) tileDataAddr(tileIndex uint8) uint16 {
	if p.lcdc&0x10 != 0 {
		return 0x8000 + uint16(tileIndex)*16
	}
	return uint16(int32(0x9000) + int32(int8(tileIndex))*16)
}

// tileRowColorIndex reads the two bitplane bytes for one row of a tile and
// extracts the 2-bit color index at the given column (0=leftmost).
func (p *PPU) tileRowColorIndex(tileBase uint16, row, col uint8) uint8 {
	lo := p.mem.Read8(tileBase + uint16(row)*2)
	hi := p.mem.Read8(tileBase + uint16(row)*2 + 1)
	bit := 7 - col
	loBit := (lo >> bit) & 1
	hiBit := (hi >> bit) & 1
	return hiBit<<1 | loBit
}

// bgColorIndex returns the raw BG color index (0-3, before palette lookup)
// at the given background-space coordinate.
func (p *PPU) bgColorIndex(bgX, bgY uint8) uint8 {
	tileCol := bgX / 8
	tileRow := bgY / 8
	mapAddr := p.bgTileMapBase() + uint16(tileRow)*32 + uint16(tileCol)
	tileIndex := p.mem.Read8(mapAddr)
	return p.tileRowColorIndex(p.tileDataAddr(tileIndex), bgY%8, bgX%8)
}

// windowColorIndex returns the raw window color index at a coordinate
// relative to the window's own origin (winX 0 = first window column).
func (p *PPU) windowColorIndex(winX, winLine uint8) uint8 {
	tileCol := winX / 8
	tileRow := winLine / 8
	mapAddr := p.windowTileMapBase() + uint16(tileRow)*32 + uint16(tileCol)
	tileIndex := p.mem.Read8(mapAddr)
	return p.tileRowColorIndex(p.tileDataAddr(tileIndex), winLine%8, winX%8)
}

// spriteColorIndex returns the raw color index for sprite s at screen
// column x on the current line, and whether that pixel is opaque (color 0
// is always transparent for objects).
func (p *PPU) spriteColorIndex(s *spriteEntry, x int) (idx uint8, opaque bool) {
	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}

	spriteX := int(s.x) - 8
	col := uint8(x - spriteX)
	if s.attr&0x20 != 0 {
		col = 7 - col
	}

	row := int(p.ly) - (int(s.y) - 16)
	if s.attr&0x40 != 0 {
		row = height - 1 - row
	}

	tile := s.tile
	if height == 16 {
		tile &^= 0x01
		if row >= 8 {
			tile |= 0x01
			row -= 8
		}
	}

	base := uint16(0x8000) + uint16(tile)*16
	idx = p.tileRowColorIndex(base, uint8(row), col)
	return idx, idx != 0
}
